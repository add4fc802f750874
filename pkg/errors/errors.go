package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrSFXNotFound   = errors.New("sfx key not found")
	ErrInvalidFormat = errors.New("unsupported audio format")
	ErrNoTracks      = errors.New("track list is empty")
	ErrClipNotLoaded = errors.New("clip not loaded")
	ErrLoopStopped   = errors.New("audio loop stopped")
	ErrUnknownPrefs  = errors.New("unknown preferences backend")
)

// AudioError wraps errors with the operation and clip involved
type AudioError struct {
	Op   string // Operation that failed
	Clip string // Clip ID or SFX key if applicable
	Err  error  // Underlying error
}

func (e *AudioError) Error() string {
	if e.Clip != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Clip, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *AudioError) Unwrap() error {
	return e.Err
}

// NewAudioError creates a new AudioError
func NewAudioError(op, clip string, err error) *AudioError {
	return &AudioError{Op: op, Clip: clip, Err: err}
}

// ManifestError represents an error while resolving the audio manifest
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest error at %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}
