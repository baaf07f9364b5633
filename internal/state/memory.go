package state

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is a Store kept in process memory, used by tests and the
// demo mode.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	events []ToggleEvent

	// FailGet and FailSet force errors, for exercising fallbacks.
	FailGet error
	FailSet error
}

func NewMemory() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) EnsureSchema(context.Context) error { return nil }

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet != nil {
		return "", false, m.FailGet
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	return m.SetMany(ctx, map[string]string{key: value})
}

func (m *MemoryStore) SetMany(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	for k, v := range values {
		if k == "" {
			continue
		}
		m.values[k] = v
	}
	return nil
}

func (m *MemoryStore) RecordToggle(_ context.Context, ev ToggleEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.TrickID == "" {
		return nil
	}
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *MemoryStore) RecentToggles(_ context.Context, key string, limit int) ([]ToggleEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 10
	}
	out := []ToggleEvent{}
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		if m.events[i].Key == key {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}

func (m *MemoryStore) GetSummary(context.Context) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out Summary
	sessions := map[string]bool{}
	for _, ev := range m.events {
		out.Toggles++
		switch ev.Key {
		case KeyLanded:
			out.LandedToggles++
		case KeyFavorites:
			out.FavoriteToggles++
		}
		sessions[ev.SessionID] = true
		if ev.TS.After(out.LastToggleTS) {
			out.LastToggleTS = ev.TS
		}
	}
	out.Sessions = len(sessions)
	return out, nil
}

// Keys lists stored keys in order.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *MemoryStore) Close() error { return nil }
