package audio

import (
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/jscyril/flowaudio/api"
	playerrors "github.com/jscyril/flowaudio/pkg/errors"
)

// BeepChannel is a channel mixed into an Output. Its mixer is registered on
// the output once; Play swaps the mixer content and SetVolume adjusts a
// linear gain stage in front of it.
type BeepChannel struct {
	name   string
	out    Output
	bank   *ClipBank
	loop   bool
	mixer  *beep.Mixer
	gain   *effects.Gain
	clip   *api.Clip
	volume float64
}

// NewBeepChannel registers a new channel on out. Persistent clips loop when loop is set.
func NewBeepChannel(name string, out Output, bank *ClipBank, loop bool) *BeepChannel {
	mixer := &beep.Mixer{}
	c := &BeepChannel{
		name:   name,
		out:    out,
		bank:   bank,
		loop:   loop,
		mixer:  mixer,
		gain:   &effects.Gain{Streamer: mixer, Gain: 0},
		volume: 1,
	}
	out.Play(c.gain)
	return c
}

// Name returns the channel name
func (c *BeepChannel) Name() string {
	return c.name
}

func (c *BeepChannel) Volume() float64 {
	return c.volume
}

// SetVolume sets a linear gain; effects.Gain scales by 1+Gain
func (c *BeepChannel) SetVolume(v float64) {
	c.volume = v
	c.out.Lock()
	c.gain.Gain = v - 1
	c.out.Unlock()
}

func (c *BeepChannel) Clip() *api.Clip {
	return c.clip
}

// Play replaces whatever the channel is playing with clip
func (c *BeepChannel) Play(clip *api.Clip) error {
	if clip == nil {
		return playerrors.ErrClipNotLoaded
	}

	s, err := c.bank.Streamer(clip, c.loop)
	if err != nil {
		return playerrors.NewAudioError("play_"+c.name, clip.ID, err)
	}

	c.out.Lock()
	c.mixer.Clear()
	c.mixer.Add(s)
	c.out.Unlock()

	c.clip = clip
	return nil
}

// Stop silences the channel; the clip stays loaded
func (c *BeepChannel) Stop() {
	c.out.Lock()
	c.mixer.Clear()
	c.out.Unlock()
}

// PlayOneShot mixes clip in once, on top of anything already playing
func (c *BeepChannel) PlayOneShot(clip *api.Clip) error {
	if clip == nil {
		return nil
	}

	s, err := c.bank.Streamer(clip, false)
	if err != nil {
		return playerrors.NewAudioError("oneshot_"+c.name, clip.ID, err)
	}

	c.out.Lock()
	c.mixer.Add(s)
	c.out.Unlock()
	return nil
}

// Active returns the number of streamers currently mixed on the channel
func (c *BeepChannel) Active() int {
	c.out.Lock()
	defer c.out.Unlock()
	return c.mixer.Len()
}
