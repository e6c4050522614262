package resourceRepo

import (
	"context"
	"sort"
	"sync"

	"glowhub/models"
)

// MemoryResourceRepo is a process-local ResourceRepository.
type MemoryResourceRepo struct {
	mu        sync.RWMutex
	resources map[string]models.Resource
}

func NewMemoryResourceRepo(seed ...models.Resource) *MemoryResourceRepo {
	r := &MemoryResourceRepo{resources: make(map[string]models.Resource)}
	for _, res := range seed {
		r.resources[res.ID] = res
	}
	return r
}

func (r *MemoryResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &res, nil
}

func (r *MemoryResourceRepo) List(ctx context.Context) ([]models.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Resource, 0, len(r.resources))
	for _, res := range r.resources {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryResourceRepo) Upsert(ctx context.Context, res models.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[res.ID] = res
	return nil
}
