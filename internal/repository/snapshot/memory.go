package snapshot

import (
	"context"
	"sync"

	"luxe-atelier/internal/domain"
)

type memoryRepo struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory returns a process-local repository. Snapshots do not survive a restart.
func NewMemory() Repository {
	return &memoryRepo{docs: make(map[string][]byte)}
}

func (r *memoryRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.docs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (r *memoryRepo) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	r.mu.Lock()
	r.docs[key] = stored
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Ping(context.Context) error {
	return nil
}
