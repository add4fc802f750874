package audio

import (
	"sync"

	"github.com/jscyril/flowaudio/api"
)

// Channel is a playback line holding one persistent clip and a gain.
// One-shots play on top of it without replacing the persistent clip.
type Channel interface {
	Volume() float64
	SetVolume(v float64)
	Clip() *api.Clip
	Play(clip *api.Clip) error
	Stop()
	PlayOneShot(clip *api.Clip) error
}

// Ensure both channel kinds implement Channel at compile time
var (
	_ Channel = (*SilentChannel)(nil)
	_ Channel = (*BeepChannel)(nil)
)

// SilentChannel tracks channel state without producing sound.
// It stands in for a real channel when no audio device is available.
type SilentChannel struct {
	volume   float64
	clip     *api.Clip
	playing  bool
	oneShots int
	mu       sync.RWMutex
}

// NewSilentChannel creates a silent channel at full gain
func NewSilentChannel() *SilentChannel {
	return &SilentChannel{volume: 1}
}

func (c *SilentChannel) Volume() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.volume
}

func (c *SilentChannel) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = v
}

func (c *SilentChannel) Clip() *api.Clip {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clip
}

func (c *SilentChannel) Play(clip *api.Clip) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clip = clip
	c.playing = clip != nil
	return nil
}

func (c *SilentChannel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

func (c *SilentChannel) PlayOneShot(clip *api.Clip) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if clip != nil {
		c.oneShots++
	}
	return nil
}

// Playing reports whether a persistent clip is playing
func (c *SilentChannel) Playing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playing
}

// OneShots returns how many one-shots were started
func (c *SilentChannel) OneShots() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.oneShots
}
