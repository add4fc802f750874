package library

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/jscyril/flowaudio/api"
	"github.com/jscyril/flowaudio/internal/audio"
	playerrors "github.com/jscyril/flowaudio/pkg/errors"
)

// Scanner walks directories and reads clips concurrently using a worker pool
type Scanner struct {
	workers    int
	metaReader *MetadataReader
}

// NewScanner creates a new file scanner
func NewScanner(workers int) *Scanner {
	if workers <= 0 {
		workers = 4 // Default worker count
	}
	return &Scanner{
		workers:    workers,
		metaReader: NewMetadataReader(),
	}
}

// Scan walks paths and returns channels of clips and errors. Both channels
// are closed when the scan ends.
func (s *Scanner) Scan(ctx context.Context, paths []string) (<-chan *api.Clip, <-chan error) {
	clips := make(chan *api.Clip, 100)
	errs := make(chan error, 10)
	files := make(chan string, 100)

	var wg sync.WaitGroup

	report := func(path string, err error) {
		select {
		case errs <- &playerrors.ManifestError{Path: path, Err: err}:
		case <-ctx.Done():
		}
	}

	// File discovery
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(files)
		for _, path := range paths {
			if ctx.Err() != nil {
				return
			}

			err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					report(p, err)
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if !d.IsDir() && audio.IsSupported(p) {
					select {
					case files <- p:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
				return nil
			})

			if err != nil && !errors.Is(err, context.Canceled) {
				report(path, err)
			}
		}
	}()

	// Worker pool
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for filePath := range files {
				clip, err := s.metaReader.Read(filePath)
				if err != nil {
					report(filePath, err)
					continue
				}

				select {
				case clips <- clip:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(clips)
		close(errs)
	}()

	return clips, errs
}

// ScanAll scans paths and returns every clip found, ordered by path.
// Per-file errors are returned joined; clips that could be read are still returned.
func (s *Scanner) ScanAll(ctx context.Context, paths []string) ([]*api.Clip, error) {
	clipCh, errCh := s.Scan(ctx, paths)

	var (
		found   []*api.Clip
		scanErr []error
	)
	for clipCh != nil || errCh != nil {
		select {
		case clip, ok := <-clipCh:
			if !ok {
				clipCh = nil
				continue
			}
			found = append(found, clip)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			scanErr = append(scanErr, err)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Path < found[j].Path
	})

	if err := ctx.Err(); err != nil {
		return found, err
	}
	return found, errors.Join(scanErr...)
}

// ScanFile reads a single file
func (s *Scanner) ScanFile(filePath string) (*api.Clip, error) {
	if !audio.IsSupported(filePath) {
		return nil, &playerrors.ManifestError{Path: filePath, Err: playerrors.ErrInvalidFormat}
	}
	clip, err := s.metaReader.Read(filePath)
	if err != nil {
		return nil, &playerrors.ManifestError{Path: filePath, Err: err}
	}
	return clip, nil
}
