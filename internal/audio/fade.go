package audio

import (
	"time"

	"github.com/jscyril/flowaudio/api"
)

// DefaultFadeDuration is the length of each half of a crossfade
const DefaultFadeDuration = 1500 * time.Millisecond

// Fade is one in-flight crossfade: ramp the current clip down from
// StartVolume, swap in Target, then ramp it up to the music volume.
type Fade struct {
	Target      *api.Clip
	TargetIndex int
	StartVolume float64
	Elapsed     time.Duration
	Duration    time.Duration
	Phase       api.FadePhase
}

func newFade(target *api.Clip, index int, start float64, d time.Duration) *Fade {
	return &Fade{
		Target:      target,
		TargetIndex: index,
		StartVolume: start,
		Duration:    d,
		Phase:       api.FadeOut,
	}
}

// progress returns Elapsed/Duration and whether the current phase is complete
func (f *Fade) progress() (float64, bool) {
	if f.Elapsed >= f.Duration || f.Duration <= 0 {
		return 1, true
	}
	return float64(f.Elapsed) / float64(f.Duration), false
}

// lerp interpolates from a to b, clamping t to [0, 1]
func lerp(a, b, t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}
