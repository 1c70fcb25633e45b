package tickets

import (
	"context"
	"sync"

	"github.com/campusdesk/campusdesk/internal/common"
)

// Store persists tickets. Lookups of unknown IDs return common.ErrorNotFound.
type Store interface {
	Create(ctx context.Context, t *Ticket) error
	Get(ctx context.Context, id string) (*Ticket, error)
	List(ctx context.Context) ([]*Ticket, error)
	UpdateStatus(ctx context.Context, id, status string) (*Ticket, error)
	Close() error
}

// MemoryStore keeps tickets in process memory in creation order.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	tickets map[string]*Ticket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tickets: make(map[string]*Ticket)}
}

func (s *MemoryStore) Create(_ context.Context, t *Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.tickets[t.ID] = t.clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t.clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Ticket, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tickets[id].clone())
	}
	return out, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id, status string) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	t.Status = status
	return t.clone(), nil
}

func (s *MemoryStore) Close() error { return nil }
