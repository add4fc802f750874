package ui

import (
	"context"

	"github.com/jscyril/flowaudio/internal/audio"
	"github.com/jscyril/flowaudio/internal/settings"
	"github.com/jscyril/flowaudio/internal/ui/views"
	"github.com/rs/zerolog"
)

// ClickSFX is the SFX key played when a button is pressed
const ClickSFX = "Click"

// Backend is what the settings screen drives
type Backend interface {
	SetMusicVolume(v float64)
	SetSFXVolume(v float64)
	ChangeTrack(direction int)
	QueueAll()
	PlayQueued()
	ClearQueue()
	Click()
	State(ctx context.Context) (views.State, error)
}

// Session runs screen actions on the audio loop goroutine
type Session struct {
	loop   *audio.Loop
	store  *settings.Store
	logger zerolog.Logger
}

// NewSession creates a session over a running loop and its settings store
func NewSession(loop *audio.Loop, store *settings.Store, logger zerolog.Logger) *Session {
	return &Session{
		loop:   loop,
		store:  store,
		logger: logger.With().Str("component", "ui").Logger(),
	}
}

func (s *Session) do(fn func(p *audio.Player)) {
	if err := s.loop.Do(func() { fn(s.loop.Player()) }); err != nil {
		s.logger.Debug().Err(err).Msg("dropped ui action")
	}
}

// SetMusicVolume stores a new music volume
func (s *Session) SetMusicVolume(v float64) {
	s.do(func(*audio.Player) { _ = s.store.SetMusicVolume(v) })
}

// SetSFXVolume stores a new SFX volume
func (s *Session) SetSFXVolume(v float64) {
	s.do(func(*audio.Player) { _ = s.store.SetSFXVolume(v) })
}

// ChangeTrack moves the persisted track index by direction
func (s *Session) ChangeTrack(direction int) {
	s.do(func(*audio.Player) { _ = s.store.ChangeTrack(direction) })
}

// QueueAll queues every track except the current one
func (s *Session) QueueAll() {
	s.do(func(p *audio.Player) { p.EnqueueAllExceptCurrent() })
}

// PlayQueued plays the next queued track
func (s *Session) PlayQueued() {
	s.do(func(p *audio.Player) { p.DequeueAndPlay() })
}

// ClearQueue empties the queue
func (s *Session) ClearQueue() {
	s.do(func(p *audio.Player) { p.ClearQueue() })
}

// Click plays the button SFX
func (s *Session) Click() {
	s.do(func(p *audio.Player) { _ = p.PlaySFX(ClickSFX) })
}

// State captures settings and player state between ticks
func (s *Session) State(ctx context.Context) (views.State, error) {
	var st views.State
	err := s.loop.Call(ctx, func() {
		p := s.loop.Player()
		st = views.State{
			Settings: s.store.Snapshot(),
			Player:   p.Snapshot(),
			Tracks:   p.Tracks(),
		}
	})
	return st, err
}
