package audio

import (
	"time"

	"github.com/jscyril/flowaudio/api"
	"github.com/jscyril/flowaudio/internal/playlist"
	playerrors "github.com/jscyril/flowaudio/pkg/errors"
	"github.com/jscyril/flowaudio/pkg/events"
	"github.com/rs/zerolog"
)

// VolumeSource supplies the music volume a fade-in ramps towards
type VolumeSource interface {
	MusicVolume() float64
}

// SettingsSource is what Bind needs from the settings store
type SettingsSource interface {
	VolumeSource
	SFXVolume() float64
	TrackIndex() int
}

// PlayerOptions configures a Player
type PlayerOptions struct {
	FadeDuration time.Duration // each half of a crossfade; DefaultFadeDuration if zero
	Volume       VolumeSource  // fade-in target; last SetMusicVolume value if nil
	Bus          *events.Bus   // receives fade and track events; optional
	Logger       zerolog.Logger
}

// Player owns the music and SFX channels. It is not safe for concurrent
// use: all calls, including Tick, must come from one goroutine.
type Player struct {
	music Channel
	sfx   Channel

	tracks   []*api.Clip
	sfxTable map[string]*api.Clip
	queue    *playlist.Queue

	fade         *Fade
	fadeDuration time.Duration
	volume       VolumeSource
	lastVolume   float64
	currentIndex int

	bus    *events.Bus
	bound  *events.Bus
	subs   []events.Subscription
	logger zerolog.Logger
}

// NewPlayer creates a player over the given channels and assets.
// Duplicate SFX keys keep the first entry; entries without a clip are skipped.
func NewPlayer(music, sfx Channel, tracks []*api.Clip, sfxEntries []api.SFXEntry, opts PlayerOptions) *Player {
	if opts.FadeDuration == 0 {
		opts.FadeDuration = DefaultFadeDuration
	}

	p := &Player{
		music:        music,
		sfx:          sfx,
		tracks:       make([]*api.Clip, len(tracks)),
		sfxTable:     make(map[string]*api.Clip, len(sfxEntries)),
		queue:        playlist.NewQueue(),
		fadeDuration: opts.FadeDuration,
		volume:       opts.Volume,
		lastVolume:   music.Volume(),
		bus:          opts.Bus,
		logger:       opts.Logger.With().Str("component", "player").Logger(),
	}
	copy(p.tracks, tracks)

	for _, entry := range sfxEntries {
		if entry.Clip == nil {
			continue
		}
		if _, exists := p.sfxTable[entry.Key]; exists {
			p.logger.Debug().Str("key", entry.Key).Msg("duplicate sfx key ignored")
			continue
		}
		p.sfxTable[entry.Key] = entry.Clip
	}

	return p
}

// Bind subscribes the player to settings events and applies the current
// settings: both volumes, then the stored track index.
func (p *Player) Bind(src SettingsSource, bus *events.Bus) {
	p.Unbind()
	p.volume = src
	if p.bus == nil {
		p.bus = bus
	}

	p.subs = append(p.subs,
		bus.Subscribe(api.EventMusicVolumeChanged, func(e api.Event) {
			if v, ok := e.Payload.(float64); ok {
				p.SetMusicVolume(v)
			}
		}),
		bus.Subscribe(api.EventSFXVolumeChanged, func(e api.Event) {
			if v, ok := e.Payload.(float64); ok {
				p.SetSFXVolume(v)
			}
		}),
		bus.Subscribe(api.EventTrackChangeRequested, func(e api.Event) {
			if i, ok := e.Payload.(int); ok {
				p.PlayTrackByIndex(i)
			}
		}),
	)
	p.bound = bus

	p.SetMusicVolume(src.MusicVolume())
	p.SetSFXVolume(src.SFXVolume())
	p.PlayTrackByIndex(src.TrackIndex())
}

// Unbind drops the subscriptions made by Bind
func (p *Player) Unbind() {
	if p.bound == nil {
		return
	}
	for _, sub := range p.subs {
		p.bound.Unsubscribe(sub)
	}
	p.subs = nil
	p.bound = nil
}

// SetMusicVolume sets the music channel gain
func (p *Player) SetMusicVolume(v float64) {
	p.lastVolume = v
	p.music.SetVolume(v)
}

// SetSFXVolume sets the SFX channel gain
func (p *Player) SetSFXVolume(v float64) {
	p.sfx.SetVolume(v)
}

// PlaySFX starts a one-shot of the clip registered under key.
// An unknown key is logged and reported, and nothing is played.
func (p *Player) PlaySFX(key string) error {
	clip, ok := p.sfxTable[key]
	if !ok {
		p.logger.Warn().Str("key", key).Msg("sfx key not found")
		return playerrors.NewAudioError("play_sfx", key, playerrors.ErrSFXNotFound)
	}
	return p.PlaySFXClip(clip)
}

// PlaySFXClip starts a one-shot of clip on the SFX channel; nil is ignored
func (p *Player) PlaySFXClip(clip *api.Clip) error {
	if clip == nil {
		return nil
	}
	if err := p.sfx.PlayOneShot(clip); err != nil {
		p.logger.Warn().Err(err).Str("clip", clip.ID).Msg("sfx playback failed")
		return err
	}
	return nil
}

// PlayTrackByIndex crossfades to the track at i, clamped to the track list.
// Nothing happens if that clip is already loaded on the music channel;
// otherwise any fade in flight is dropped and a new one starts from the
// current gain.
func (p *Player) PlayTrackByIndex(i int) {
	if len(p.tracks) == 0 {
		return
	}

	if i < 0 {
		i = 0
	} else if i > len(p.tracks)-1 {
		i = len(p.tracks) - 1
	}
	p.currentIndex = i

	clip := p.tracks[i]
	if api.SameClip(p.music.Clip(), clip) {
		return
	}

	if p.fade != nil {
		p.logger.Debug().Str("from", p.fade.Target.ID).Str("to", clip.ID).Msg("fade replaced")
	}

	start := p.music.Volume()
	p.fade = newFade(clip, i, start, p.fadeDuration)
	p.music.SetVolume(start)

	p.publish(api.EventFadeStarted, i)
}

// Tick advances the fade in flight by dt
func (p *Player) Tick(dt time.Duration) {
	f := p.fade
	if f == nil {
		return
	}
	if dt > 0 {
		f.Elapsed += dt
	}

	t, done := f.progress()

	switch f.Phase {
	case api.FadeOut:
		if !done {
			p.music.SetVolume(lerp(f.StartVolume, 0, t))
			return
		}
		p.swap(f)

	case api.FadeIn:
		target := p.targetVolume()
		if !done {
			p.music.SetVolume(lerp(0, target, t))
			return
		}
		p.music.SetVolume(target)
		p.fade = nil
		p.publish(api.EventFadeFinished, f.Target)
	}
}

// swap ends the fade-out: the new clip starts silent and the fade-in begins
func (p *Player) swap(f *Fade) {
	p.music.Stop()
	if err := p.music.Play(f.Target); err != nil {
		p.logger.Error().Err(err).Str("clip", f.Target.ID).Msg("failed to start track")
	}
	p.music.SetVolume(0)

	f.Phase = api.FadeIn
	f.Elapsed = 0

	p.logger.Info().Int("index", f.TargetIndex).Str("track", f.Target.Name).Msg("track started")
	p.publish(api.EventTrackStarted, f.Target)
}

func (p *Player) targetVolume() float64 {
	if p.volume != nil {
		return p.volume.MusicVolume()
	}
	return p.lastVolume
}

// Enqueue appends a track index to the queue; out-of-range indices are ignored
func (p *Player) Enqueue(i int) {
	if i >= 0 && i < len(p.tracks) {
		p.queue.Push(i)
	}
}

// DequeueAndPlay plays the next queued track, if any
func (p *Player) DequeueAndPlay() {
	if i, ok := p.queue.Pop(); ok {
		p.PlayTrackByIndex(i)
	}
}

// EnqueueAllExceptCurrent replaces the queue with every other track, in order
func (p *Player) EnqueueAllExceptCurrent() {
	indices := make([]int, 0, len(p.tracks))
	for i := range p.tracks {
		if i != p.currentIndex {
			indices = append(indices, i)
		}
	}
	p.queue.Set(indices)
}

// ClearQueue empties the queue
func (p *Player) ClearQueue() {
	p.queue.Clear()
}

// Queued returns the queued track indices, head first
func (p *Player) Queued() []int {
	return p.queue.GetAll()
}

// QueueLen returns the number of queued tracks
func (p *Player) QueueLen() int {
	return p.queue.Len()
}

// CurrentIndex returns the most recently requested track index
func (p *Player) CurrentIndex() int {
	return p.currentIndex
}

// CurrentClip returns the clip loaded on the music channel
func (p *Player) CurrentClip() *api.Clip {
	return p.music.Clip()
}

// Fading reports whether a crossfade is in flight
func (p *Player) Fading() bool {
	return p.fade != nil
}

// Tracks returns the configured track list
func (p *Player) Tracks() []*api.Clip {
	out := make([]*api.Clip, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// Snapshot returns a copy of the player state
func (p *Player) Snapshot() api.PlayerState {
	state := api.PlayerState{
		CurrentIndex: p.currentIndex,
		Phase:        api.FadeIdle,
		MusicGain:    p.music.Volume(),
		SFXGain:      p.sfx.Volume(),
		TrackCount:   len(p.tracks),
		Queue:        p.queue.GetAll(),
	}
	if clip := p.music.Clip(); clip != nil {
		c := *clip
		state.CurrentClip = &c
	}
	if p.fade != nil {
		target := *p.fade.Target
		state.FadeTarget = &target
		state.Phase = p.fade.Phase
		state.FadeElapsed = p.fade.Elapsed
		state.FadeDuration = p.fade.Duration
	}
	return state
}

func (p *Player) publish(t api.EventType, payload interface{}) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(api.Event{Type: t, Payload: payload})
}
