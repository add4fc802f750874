package audio

import (
	"context"
	"time"

	playerrors "github.com/jscyril/flowaudio/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultTickInterval is roughly one frame at 60 fps
const DefaultTickInterval = 16 * time.Millisecond

// Loop is the single goroutine that owns a Player. It advances fades on a
// ticker and runs submitted functions between ticks, so the player, the
// settings store and the channels are only ever touched from here.
type Loop struct {
	player   *Player
	interval time.Duration
	commands chan func()
	done     chan struct{}
	logger   zerolog.Logger
}

// NewLoop creates a loop ticking player every interval
func NewLoop(player *Player, interval time.Duration, logger zerolog.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Loop{
		player:   player,
		interval: interval,
		commands: make(chan func(), 32),
		done:     make(chan struct{}),
		logger:   logger.With().Str("component", "loop").Logger(),
	}
}

// Start runs the loop in a new goroutine until ctx is cancelled
func (l *Loop) Start(ctx context.Context) {
	go l.run(ctx)
}

// Done is closed once the loop has stopped
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// run is the main tick and command loop
func (l *Loop) run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	last := time.Now()
	l.logger.Debug().Dur("interval", l.interval).Msg("loop started")

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug().Msg("loop stopped")
			return

		case fn := <-l.commands:
			fn()

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			l.player.Tick(dt)
		}
	}
}

// Do schedules fn on the loop goroutine without waiting for it
func (l *Loop) Do(fn func()) error {
	select {
	case <-l.done:
		return playerrors.ErrLoopStopped
	default:
	}

	select {
	case l.commands <- fn:
		return nil
	case <-l.done:
		return playerrors.ErrLoopStopped
	}
}

// Call runs fn on the loop goroutine and waits for it to return
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Do(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return playerrors.ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Player returns the player driven by the loop. Use it only from functions
// passed to Do or Call.
func (l *Loop) Player() *Player {
	return l.player
}
