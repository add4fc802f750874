package api

import "time"

// Clip is a playable audio asset. Two clips are the same clip when their IDs match.
type Clip struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Artist   string        `json:"artist,omitempty" yaml:"artist,omitempty"`
	Path     string        `json:"path" yaml:"path"`
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// SameClip reports whether a and b refer to the same clip. Two nil clips match.
func SameClip(a, b *Clip) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// SFXEntry binds a lookup key to a clip
type SFXEntry struct {
	Key  string `json:"key" yaml:"key"`
	Clip *Clip  `json:"clip" yaml:"clip"`
}

// Settings is the persisted audio configuration
type Settings struct {
	MusicVolume float64 `json:"music_volume"`
	SFXVolume   float64 `json:"sfx_volume"`
	TrackIndex  int     `json:"track_index"`
}

// FadePhase describes where a crossfade currently is
type FadePhase int

const (
	FadeIdle FadePhase = iota
	FadeOut
	FadeIn
)

func (p FadePhase) String() string {
	switch p {
	case FadeOut:
		return "fading out"
	case FadeIn:
		return "fading in"
	default:
		return "idle"
	}
}

// PlayerState is a read-only view of the audio player
type PlayerState struct {
	CurrentIndex int           `json:"current_index"`
	CurrentClip  *Clip         `json:"current_clip,omitempty"`
	FadeTarget   *Clip         `json:"fade_target,omitempty"`
	Phase        FadePhase     `json:"phase"`
	FadeElapsed  time.Duration `json:"fade_elapsed"`
	FadeDuration time.Duration `json:"fade_duration"`
	MusicGain    float64       `json:"music_gain"`
	SFXGain      float64       `json:"sfx_gain"`
	TrackCount   int           `json:"track_count"`
	Queue        []int         `json:"queue"`
}

// EventType identifies a notification published on the event bus
type EventType int

const (
	EventMusicVolumeChanged EventType = iota
	EventSFXVolumeChanged
	EventTrackChangeRequested
	EventFadeStarted
	EventTrackStarted
	EventFadeFinished
)

// AllEventTypes lists every event type in declaration order
func AllEventTypes() []EventType {
	return []EventType{
		EventMusicVolumeChanged,
		EventSFXVolumeChanged,
		EventTrackChangeRequested,
		EventFadeStarted,
		EventTrackStarted,
		EventFadeFinished,
	}
}

func (t EventType) String() string {
	switch t {
	case EventMusicVolumeChanged:
		return "music_volume_changed"
	case EventSFXVolumeChanged:
		return "sfx_volume_changed"
	case EventTrackChangeRequested:
		return "track_change_requested"
	case EventFadeStarted:
		return "fade_started"
	case EventTrackStarted:
		return "track_started"
	case EventFadeFinished:
		return "fade_finished"
	default:
		return "unknown"
	}
}

// Event is delivered to bus subscribers.
//
// Payload types: float64 for the volume events, int for
// EventTrackChangeRequested and EventFadeStarted, *Clip for
// EventTrackStarted and EventFadeFinished.
type Event struct {
	Type    EventType
	Payload interface{}
}
