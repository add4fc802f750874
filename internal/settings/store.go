// Package settings holds the persisted audio settings and broadcasts changes.
package settings

import (
	"math"
	"sync"

	"github.com/jscyril/flowaudio/api"
	"github.com/jscyril/flowaudio/internal/prefs"
	"github.com/jscyril/flowaudio/pkg/events"
	"github.com/rs/zerolog"
)

// Preference keys
const (
	KeyMusicVolume = "MusicVolume"
	KeySFXVolume   = "SFXVolume"
	KeyTrackIndex  = "CurrentMusicIndex"
)

// Defaults used when a key has never been persisted
const (
	DefaultMusicVolume = 0.5
	DefaultSFXVolume   = 0.5
	DefaultTrackIndex  = 0
)

// Store owns the three persisted settings. Every mutator persists the new
// value and then publishes a change event synchronously.
type Store struct {
	prefs  prefs.Prefs
	bus    *events.Bus
	logger zerolog.Logger

	musicVolume float64
	sfxVolume   float64
	trackIndex  int
	mu          sync.RWMutex
}

// NewStore loads settings from p and publishes changes on bus
func NewStore(p prefs.Prefs, bus *events.Bus, logger zerolog.Logger) *Store {
	s := &Store{
		prefs:  p,
		bus:    bus,
		logger: logger.With().Str("component", "settings").Logger(),
	}
	s.musicVolume, s.sfxVolume, s.trackIndex = s.read()

	s.logger.Debug().
		Float64("music_volume", s.musicVolume).
		Float64("sfx_volume", s.sfxVolume).
		Int("track_index", s.trackIndex).
		Msg("settings loaded")
	return s
}

// read returns sanitized values from the backing prefs
func (s *Store) read() (music, sfx float64, index int) {
	music = ClampVolume(s.prefs.Float(KeyMusicVolume, DefaultMusicVolume))
	sfx = ClampVolume(s.prefs.Float(KeySFXVolume, DefaultSFXVolume))
	index = s.prefs.Int(KeyTrackIndex, DefaultTrackIndex)
	if index < 0 {
		index = 0
	}
	return music, sfx, index
}

// MusicVolume returns the current music volume (0-1)
func (s *Store) MusicVolume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.musicVolume
}

// SFXVolume returns the current SFX volume (0-1)
func (s *Store) SFXVolume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sfxVolume
}

// TrackIndex returns the requested music track index
func (s *Store) TrackIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trackIndex
}

// Snapshot returns a copy of all settings
func (s *Store) Snapshot() api.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return api.Settings{
		MusicVolume: s.musicVolume,
		SFXVolume:   s.sfxVolume,
		TrackIndex:  s.trackIndex,
	}
}

// SetMusicVolume clamps, persists and broadcasts the music volume.
// A persistence error is returned after the event has been published.
func (s *Store) SetMusicVolume(v float64) error {
	v = ClampVolume(v)

	s.mu.Lock()
	s.musicVolume = v
	s.mu.Unlock()

	err := s.persist(KeyMusicVolume, func() error { return s.prefs.SetFloat(KeyMusicVolume, v) })
	s.publish(api.EventMusicVolumeChanged, v)
	return err
}

// SetSFXVolume clamps, persists and broadcasts the SFX volume
func (s *Store) SetSFXVolume(v float64) error {
	v = ClampVolume(v)

	s.mu.Lock()
	s.sfxVolume = v
	s.mu.Unlock()

	err := s.persist(KeySFXVolume, func() error { return s.prefs.SetFloat(KeySFXVolume, v) })
	s.publish(api.EventSFXVolumeChanged, v)
	return err
}

// ChangeTrack moves the track index by direction and broadcasts it.
// The index is kept non-negative; the upper bound is left to the player,
// which clamps against its own track list.
func (s *Store) ChangeTrack(direction int) error {
	s.mu.Lock()
	s.trackIndex += direction
	if s.trackIndex < 0 {
		s.trackIndex = 0
	}
	index := s.trackIndex
	s.mu.Unlock()

	err := s.persist(KeyTrackIndex, func() error { return s.prefs.SetInt(KeyTrackIndex, index) })
	s.publish(api.EventTrackChangeRequested, index)
	return err
}

// Reload re-reads the backing prefs and publishes an event for each value
// that differs from the one held in memory.
func (s *Store) Reload() {
	music, sfx, index := s.read()

	s.mu.Lock()
	musicChanged := music != s.musicVolume
	sfxChanged := sfx != s.sfxVolume
	indexChanged := index != s.trackIndex
	s.musicVolume, s.sfxVolume, s.trackIndex = music, sfx, index
	s.mu.Unlock()

	if musicChanged {
		s.publish(api.EventMusicVolumeChanged, music)
	}
	if sfxChanged {
		s.publish(api.EventSFXVolumeChanged, sfx)
	}
	if indexChanged {
		s.publish(api.EventTrackChangeRequested, index)
	}

	if musicChanged || sfxChanged || indexChanged {
		s.logger.Info().Msg("settings reloaded from preferences")
	}
}

func (s *Store) persist(key string, save func() error) error {
	if err := save(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to persist setting")
		return err
	}
	return nil
}

func (s *Store) publish(t api.EventType, payload interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(api.Event{Type: t, Payload: payload})
}

// ClampVolume limits v to [0, 1]
func ClampVolume(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
