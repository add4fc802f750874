package audio

import (
	"context"
	"sync"

	"github.com/faiface/beep"
	"github.com/jscyril/flowaudio/api"
	playerrors "github.com/jscyril/flowaudio/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const resampleQuality = 4

// ClipBank decodes clips once and keeps them as in-memory buffers at the
// output sample rate, so the same clip can be started any number of times.
type ClipBank struct {
	format  beep.Format
	buffers map[string]*beep.Buffer
	mu      sync.Mutex
}

// NewClipBank creates a bank producing stereo buffers at sampleRate
func NewClipBank(sampleRate beep.SampleRate) *ClipBank {
	return &ClipBank{
		format: beep.Format{
			SampleRate:  sampleRate,
			NumChannels: 2,
			Precision:   2,
		},
		buffers: make(map[string]*beep.Buffer),
	}
}

// Format returns the format of every buffer in the bank
func (b *ClipBank) Format() beep.Format {
	return b.format
}

// Load returns the buffer for clip, decoding it on first use
func (b *ClipBank) Load(clip *api.Clip) (*beep.Buffer, error) {
	if clip == nil {
		return nil, playerrors.ErrClipNotLoaded
	}

	b.mu.Lock()
	buf, ok := b.buffers[clip.ID]
	b.mu.Unlock()
	if ok {
		return buf, nil
	}

	buf, err := b.decode(clip)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// Another goroutine may have finished first; keep one copy
	if existing, ok := b.buffers[clip.ID]; ok {
		return existing, nil
	}
	b.buffers[clip.ID] = buf
	return buf, nil
}

func (b *ClipBank) decode(clip *api.Clip) (*beep.Buffer, error) {
	streamer, format, err := DecodeFile(clip.Path)
	if err != nil {
		return nil, playerrors.NewAudioError("decode", clip.ID, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != b.format.SampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, b.format.SampleRate, s)
	}

	buf := beep.NewBuffer(b.format)
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, playerrors.NewAudioError("decode", clip.ID, err)
	}
	return buf, nil
}

// Preload decodes clips concurrently using up to workers goroutines
func (b *ClipBank) Preload(ctx context.Context, workers int, clips ...*api.Clip) error {
	if workers <= 0 {
		workers = 4
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, clip := range clips {
		if clip == nil {
			continue
		}
		clip := clip
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := b.Load(clip)
			return err
		})
	}

	return g.Wait()
}

// Streamer returns a fresh streamer over the clip's buffer
func (b *ClipBank) Streamer(clip *api.Clip, loop bool) (beep.Streamer, error) {
	buf, err := b.Load(clip)
	if err != nil {
		return nil, err
	}

	s := buf.Streamer(0, buf.Len())
	if loop {
		return beep.Loop(-1, s), nil
	}
	return s, nil
}

// Len returns the number of decoded clips
func (b *ClipBank) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffers)
}
