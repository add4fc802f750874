package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	playerrors "github.com/jscyril/flowaudio/pkg/errors"
)

func touch(t *testing.T, path string, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/music/Theme.mp3", "Theme"},
		{"sfx/click.wav", "click"},
		{"archive.tar.flac", "archive.tar"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := baseName(tt.path); got != tt.expected {
				t.Errorf("baseName(%s) = %s, want %s", tt.path, got, tt.expected)
			}
		})
	}
}

func TestClipID(t *testing.T) {
	a := ClipID("/music/theme.mp3")
	if a != ClipID("/music/./theme.mp3") {
		t.Error("ClipID should be stable across equivalent paths")
	}
	if a == ClipID("/music/battle.mp3") {
		t.Error("different paths should give different IDs")
	}
}

func TestMetadataReader_FallsBackToFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Morning Theme.mp3")
	touch(t, path, "not really an mp3")

	clip, err := NewMetadataReader().Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if clip.Name != "Morning Theme" || clip.Path != path || clip.ID != ClipID(path) {
		t.Errorf("unexpected clip %+v", clip)
	}
}

func TestScanner_ScanAll(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.mp3"), "x")
	touch(t, filepath.Join(dir, "a.wav"), "x")
	touch(t, filepath.Join(dir, "nested", "c.flac"), "x")
	touch(t, filepath.Join(dir, "notes.txt"), "x")
	touch(t, filepath.Join(dir, "cover.jpg"), "x")

	clips, err := NewScanner(2).ScanAll(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}

	want := []string{"a", "b", "c"}
	if len(clips) != len(want) {
		t.Fatalf("found %d clips, want %d", len(clips), len(want))
	}
	for i, name := range want {
		if clips[i].Name != name {
			t.Errorf("clips[%d] = %s, want %s", i, clips[i].Name, name)
		}
	}
}

func TestScanner_MissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := NewScanner(1).ScanAll(context.Background(), []string{missing})

	var me *playerrors.ManifestError
	if !errors.As(err, &me) {
		t.Fatalf("ScanAll(missing) = %v, want ManifestError", err)
	}
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	scanner := NewScanner(1)

	if _, err := scanner.ScanFile(filepath.Join(dir, "song.ogg")); !errors.Is(err, playerrors.ErrInvalidFormat) {
		t.Errorf("ScanFile(.ogg) = %v, want ErrInvalidFormat", err)
	}
	if _, err := scanner.ScanFile(filepath.Join(dir, "gone.mp3")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ScanFile(missing) = %v, want os.ErrNotExist", err)
	}
}

func TestParseManifest(t *testing.T) {
	data := []byte(`
music:
  - name: Title Theme
    path: music/title.mp3
  - path: /abs/battle.mp3
music_dir: extra
sfx:
  - key: Click
    path: sfx/click.wav
  - key: Empty
`)

	m, err := ParseManifest(data, "/game")
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(m.Music) != 2 || len(m.SFX) != 2 || m.MusicDir != "extra" {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if got := m.resolve(m.Music[0].Path); got != filepath.Join("/game", "music/title.mp3") {
		t.Errorf("resolve relative = %s", got)
	}
	if got := m.resolve(m.Music[1].Path); got != "/abs/battle.mp3" {
		t.Errorf("resolve absolute = %s", got)
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "music: [unterminated"},
		{"music without path", "music:\n  - name: Theme\n"},
		{"sfx without key", "sfx:\n  - path: click.wav\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(tt.data), "/game"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestManifest_Resolve(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "music", "title.mp3"), "x")
	touch(t, filepath.Join(dir, "extra", "z.mp3"), "x")
	touch(t, filepath.Join(dir, "extra", "y.wav"), "x")
	touch(t, filepath.Join(dir, "sfx", "click.wav"), "x")

	manifest := `
music:
  - name: Title Theme
    path: music/title.mp3
music_dir: extra
sfx:
  - key: Click
    path: sfx/click.wav
  - key: Silent
`
	path := filepath.Join(dir, "audio.yaml")
	touch(t, path, manifest)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	scanner := NewScanner(2)
	tracks, err := m.Tracks(context.Background(), scanner)
	if err != nil {
		t.Fatalf("Tracks: %v", err)
	}
	names := []string{"Title Theme", "y", "z"}
	if len(tracks) != len(names) {
		t.Fatalf("got %d tracks, want %d", len(tracks), len(names))
	}
	for i, name := range names {
		if tracks[i].Name != name {
			t.Errorf("tracks[%d] = %s, want %s", i, tracks[i].Name, name)
		}
	}

	sfx, err := m.SFXEntries(scanner)
	if err != nil {
		t.Fatalf("SFXEntries: %v", err)
	}
	if len(sfx) != 2 || sfx[0].Key != "Click" || sfx[0].Clip == nil || sfx[1].Clip != nil {
		t.Errorf("unexpected sfx entries %+v", sfx)
	}
}

func TestManifest_MissingTrack(t *testing.T) {
	m, err := ParseManifest([]byte("music:\n  - path: gone.mp3\n"), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.Tracks(context.Background(), NewScanner(1))
	var me *playerrors.ManifestError
	if !errors.As(err, &me) {
		t.Errorf("Tracks = %v, want ManifestError", err)
	}
}
