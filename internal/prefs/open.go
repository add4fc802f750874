package prefs

import (
	"context"
	"fmt"
	"time"

	playerrors "github.com/jscyril/flowaudio/pkg/errors"
)

// Backend names accepted by Open
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Options selects and configures a preferences backend
type Options struct {
	Backend     string
	Path        string
	DatabaseURL string
	Timeout     time.Duration
}

// Open creates the configured backend. The returned close function is never nil.
func Open(ctx context.Context, opts Options) (Prefs, func(), error) {
	noop := func() {}

	switch opts.Backend {
	case BackendFile, "":
		f, err := OpenFile(opts.Path)
		if err != nil {
			return nil, noop, err
		}
		return f, noop, nil

	case BackendPostgres:
		p, err := OpenPostgres(ctx, opts.DatabaseURL, opts.Timeout)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil

	case BackendMemory:
		return NewMemory(), noop, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", playerrors.ErrUnknownPrefs, opts.Backend)
	}
}
