package repository

import (
	"sort"
	"strings"
	"sync"
)

// MemoryKeyValueRepository keeps slots in process memory. Used for tests and
// for STORAGE_BACKEND=memory.
type MemoryKeyValueRepository struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryKeyValueRepository() *MemoryKeyValueRepository {
	return &MemoryKeyValueRepository{entries: make(map[string]string)}
}

func (r *MemoryKeyValueRepository) Get(key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok, nil
}

func (r *MemoryKeyValueRepository) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
	return nil
}

func (r *MemoryKeyValueRepository) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}

func (r *MemoryKeyValueRepository) Keys(prefix string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0)
	for k := range r.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
