package store

import (
	"context"
	"sync"
)

// Memory keeps the score for the lifetime of the process.
type Memory struct {
	mu    sync.RWMutex
	score int
	set   bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(context.Context) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.score, m.set, nil
}

func (m *Memory) Save(_ context.Context, score int) error {
	if err := validateScore(score); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set && m.score >= score {
		return nil
	}
	m.score, m.set = score, true
	return nil
}

func (m *Memory) Close() error { return nil }
