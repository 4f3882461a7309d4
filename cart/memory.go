package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps carts in process memory. Carts vanish on restart.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[uint]*Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[uint]*Cart)}
}

func (s *MemoryStore) Load(ctx context.Context, userID uint) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		return c.Clone(), nil
	}
	return &Cart{}, nil
}

func (s *MemoryStore) Update(ctx context.Context, userID uint, fn func(*Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Cart{}
	if cur, ok := s.carts[userID]; ok {
		c = cur.Clone()
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		delete(s.carts, userID)
	} else {
		s.carts[userID] = c.Clone()
	}
	return c, nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
