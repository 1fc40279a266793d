package kv

import (
	"context"
	"sync"
)

// Memory is a process-local store. State is lost on restart.
type Memory struct {
	mu       sync.Mutex
	values   map[string][]byte
	counters map[string]int64
}

func NewMemory() *Memory {
	return &Memory{
		values:   make(map[string][]byte),
		counters: make(map[string]int64),
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Update(ctx context.Context, key string, fn func([]byte, bool) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var current []byte
	v, ok := m.values[key]
	if ok {
		current = append([]byte(nil), v...)
	}
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	m.values[key] = append([]byte(nil), next...)
	return nil
}

func (m *Memory) Increment(ctx context.Context, key string, initial int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.counters[key]
	if !ok {
		cur = initial
	}
	cur++
	m.counters[key] = cur
	return cur, nil
}

func (m *Memory) IsAlive(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) Close() error {
	return nil
}
