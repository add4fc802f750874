package audio

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Output is the device streamers are mixed into. Lock/Unlock guard any
// mutation of a streamer that is already playing.
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

// SpeakerOutput plays through the system speaker
type SpeakerOutput struct{}

// NewSpeakerOutput initializes the speaker with a buffer of bufferDur
func NewSpeakerOutput(sampleRate beep.SampleRate, bufferDur time.Duration) (*SpeakerOutput, error) {
	out := &SpeakerOutput{}
	if err := out.Init(sampleRate, sampleRate.N(bufferDur)); err != nil {
		return nil, err
	}
	return out, nil
}

func (SpeakerOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	return speaker.Init(sampleRate, bufferSize)
}

func (SpeakerOutput) Play(s ...beep.Streamer) {
	speaker.Play(s...)
}

func (SpeakerOutput) Lock() {
	speaker.Lock()
}

func (SpeakerOutput) Unlock() {
	speaker.Unlock()
}

// Clear stops everything playing on the speaker
func (SpeakerOutput) Clear() {
	speaker.Clear()
}
