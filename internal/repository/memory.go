package repository

import (
	"context"
	"sync"

	"github.com/m2tx/city_agent/internal/model"
)

// MemorySessionRepository keeps histories in process memory. Used for local
// runs without MongoDB.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string][]model.Content
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string][]model.Content)}
}

func (r *MemorySessionRepository) Save(_ context.Context, sessionID string, history []model.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = append([]model.Content(nil), history...)
	return nil
}

func (r *MemorySessionRepository) Load(_ context.Context, sessionID string) ([]model.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	history, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return append([]model.Content(nil), history...), nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
