// Package library resolves the configured track list and SFX table.
package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jscyril/flowaudio/api"
	"gopkg.in/yaml.v3"
)

// TrackSpec is one entry of the music list
type TrackSpec struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// SFXSpec binds a key to a sound file
type SFXSpec struct {
	Key  string `yaml:"key"`
	Path string `yaml:"path"`
}

// Manifest lists the assets the player is configured with. Relative paths
// are resolved against the manifest's directory.
type Manifest struct {
	Music    []TrackSpec `yaml:"music"`
	MusicDir string      `yaml:"music_dir"`
	SFX      []SFXSpec   `yaml:"sfx"`

	baseDir string
}

// LoadManifest reads and parses a YAML manifest
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: load %s: %w", path, err)
	}
	return ParseManifest(data, filepath.Dir(path))
}

// ParseManifest parses manifest YAML; baseDir anchors relative paths
func ParseManifest(data []byte, baseDir string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: unmarshal: %w", err)
	}
	m.baseDir = baseDir

	for i, t := range m.Music {
		if strings.TrimSpace(t.Path) == "" {
			return nil, fmt.Errorf("manifest: music entry %d has no path", i)
		}
	}
	for i, s := range m.SFX {
		if strings.TrimSpace(s.Key) == "" {
			return nil, fmt.Errorf("manifest: sfx entry %d has no key", i)
		}
	}
	return &m, nil
}

func (m *Manifest) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

// Tracks returns the music list: explicit entries first, then every
// supported file under MusicDir ordered by path.
func (m *Manifest) Tracks(ctx context.Context, scanner *Scanner) ([]*api.Clip, error) {
	tracks := make([]*api.Clip, 0, len(m.Music))

	for _, spec := range m.Music {
		clip, err := scanner.ScanFile(m.resolve(spec.Path))
		if err != nil {
			return nil, err
		}
		if spec.Name != "" {
			clip.Name = spec.Name
		}
		tracks = append(tracks, clip)
	}

	if m.MusicDir != "" {
		scanned, err := scanner.ScanAll(ctx, []string{m.resolve(m.MusicDir)})
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, scanned...)
	}

	return tracks, nil
}

// SFXEntries returns the SFX list in manifest order. Entries without a
// path keep a nil clip; the player skips them.
func (m *Manifest) SFXEntries(scanner *Scanner) ([]api.SFXEntry, error) {
	entries := make([]api.SFXEntry, 0, len(m.SFX))

	for _, spec := range m.SFX {
		entry := api.SFXEntry{Key: spec.Key}
		if spec.Path != "" {
			clip, err := scanner.ScanFile(m.resolve(spec.Path))
			if err != nil {
				return nil, err
			}
			entry.Clip = clip
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
