// Package prefs provides key-value stores for persisted player preferences.
package prefs

import "sync"

// Prefs is a small typed key-value store. Getters return def when the key
// is absent; setters persist immediately.
type Prefs interface {
	Float(key string, def float64) float64
	SetFloat(key string, v float64) error
	Int(key string, def int) int
	SetInt(key string, v int) error
}

// Memory keeps preferences in process memory only
type Memory struct {
	floats map[string]float64
	ints   map[string]int
	mu     sync.RWMutex
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		floats: make(map[string]float64),
		ints:   make(map[string]int),
	}
}

func (m *Memory) Float(key string, def float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.floats[key]; ok {
		return v
	}
	return def
}

func (m *Memory) SetFloat(key string, v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.floats[key] = v
	return nil
}

func (m *Memory) Int(key string, def int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.ints[key]; ok {
		return v
	}
	return def
}

func (m *Memory) SetInt(key string, v int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ints[key] = v
	return nil
}
