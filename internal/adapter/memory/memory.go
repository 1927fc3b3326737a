// Package memory is a process-local ImageStore. It does not survive restarts
// and is used for the "memory" backend and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"
)

type item struct {
	value    []byte
	deadline time.Time
}

func (i item) expired(now time.Time) bool {
	return !i.deadline.IsZero() && !now.Before(i.deadline)
}

type MemoryAdapter struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		items: make(map[string]item),
		now:   time.Now,
	}
}

var _ ports.ImageStore = (*MemoryAdapter)(nil)

func (m *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.items[key]
	if !ok || it.expired(m.now()) {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), it.value...), nil
}

func (m *MemoryAdapter) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	it := item{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.deadline = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = it
	m.mu.Unlock()
	return nil
}

func (m *MemoryAdapter) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

// Keys returns the live keys starting with prefix in lexical order.
func (m *MemoryAdapter) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	keys := make([]string, 0, len(m.items))
	for key, it := range m.items {
		if strings.HasPrefix(key, prefix) && !it.expired(now) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len counts every stored key, expired or not.
func (m *MemoryAdapter) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
