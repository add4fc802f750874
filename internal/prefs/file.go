package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// document is the on-disk layout of a preferences file
type document struct {
	Floats map[string]float64 `json:"floats"`
	Ints   map[string]int     `json:"ints"`
}

// File persists preferences as a JSON document, rewritten on every Set
type File struct {
	path string
	doc  document
	mu   sync.RWMutex
}

// OpenFile loads preferences from path, starting empty if the file does not exist
func OpenFile(path string) (*File, error) {
	f := &File{path: path}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the backing file path
func (f *File) Path() string {
	return f.path
}

// Reload re-reads the backing file, replacing the cached values
func (f *File) Reload() error {
	doc := document{
		Floats: make(map[string]float64),
		Ints:   make(map[string]int),
	}

	data, err := os.ReadFile(f.path)
	switch {
	case os.IsNotExist(err):
		// First run
	case err != nil:
		return fmt.Errorf("read prefs file: %w", err)
	case len(data) == 0:
		// An editor truncating before it writes; keep the cached values
		f.mu.RLock()
		loaded := f.doc.Floats != nil
		f.mu.RUnlock()
		if loaded {
			return nil
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("unmarshal prefs: %w", err)
		}
		if doc.Floats == nil {
			doc.Floats = make(map[string]float64)
		}
		if doc.Ints == nil {
			doc.Ints = make(map[string]int)
		}
	}

	f.mu.Lock()
	f.doc = doc
	f.mu.Unlock()
	return nil
}

func (f *File) Float(key string, def float64) float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if v, ok := f.doc.Floats[key]; ok {
		return v
	}
	return def
}

func (f *File) SetFloat(key string, v float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.doc.Floats[key] = v
	return f.save()
}

func (f *File) Int(key string, def int) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if v, ok := f.doc.Ints[key]; ok {
		return v
	}
	return def
}

func (f *File) SetInt(key string, v int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.doc.Ints[key] = v
	return f.save()
}

// save writes the document; caller holds the write lock
func (f *File) save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create prefs directory: %w", err)
	}

	data, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	// Write then rename so a watcher never sees a half-written file
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write prefs file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace prefs file: %w", err)
	}

	return nil
}
