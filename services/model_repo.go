package services

import (
	"sync"

	"github.com/aimosphere-network/airo-wingman/models"
)

// ModelRepository is the thread-safe registry of models this provider serves.
// Both engines read it; admin HTTP handlers write it. All operations are
// total and non-blocking.
type ModelRepository interface {
	List() []models.Model
	Contains(id models.ModelId) bool
	Get(id models.ModelId) (models.Model, bool)
	Save(model models.Model)
	Remove(id models.ModelId) bool
}

// InMemoryModelRepository is the only ModelRepository implementation: an
// RWMutex-guarded map. There is no ordering guarantee across operations from
// different goroutines.
type InMemoryModelRepository struct {
	mu     sync.RWMutex
	models map[models.ModelId]models.ModelDetails
}

// NewModelRepository creates an empty in-memory model repository.
func NewModelRepository() *InMemoryModelRepository {
	return &InMemoryModelRepository{
		models: make(map[models.ModelId]models.ModelDetails),
	}
}

func (r *InMemoryModelRepository) List() []models.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Model, 0, len(r.models))
	for id, details := range r.models {
		out = append(out, models.Model{ID: id, Details: details})
	}
	return out
}

func (r *InMemoryModelRepository) Contains(id models.ModelId) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.models[id]
	return ok
}

func (r *InMemoryModelRepository) Get(id models.ModelId) (models.Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	details, ok := r.models[id]
	if !ok {
		return models.Model{}, false
	}
	return models.Model{ID: id, Details: details}, true
}

func (r *InMemoryModelRepository) Save(model models.Model) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.models[model.ID] = model.Details
}

func (r *InMemoryModelRepository) Remove(id models.ModelId) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.models[id]; !ok {
		return false
	}
	delete(r.models, id)
	return true
}
