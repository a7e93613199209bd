// Package memory holds process-local stores used for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kolyapvp/products-app/internal/domain/product"
)

// ProductStore keeps products in a map. Every operation holds the lock for
// its whole check-and-write, which gives the same per-key conditional
// semantics as the durable backends.
type ProductStore struct {
	mu sync.RWMutex
	m  map[string]product.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{m: make(map[string]product.Product)}
}

func (s *ProductStore) Create(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[p.ID]; ok {
		return product.Product{}, product.ErrAlreadyExists
	}
	s.m[p.ID] = p
	return p, nil
}

func (s *ProductStore) Update(_ context.Context, id string, in product.Input) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return product.Product{}, product.ErrNotFound
	}
	p := in.Apply(id)
	s.m[id] = p
	return p, nil
}

func (s *ProductStore) Delete(_ context.Context, id string) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.m[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	delete(s.m, id)
	return p, nil
}

func (s *ProductStore) Get(_ context.Context, id string) (product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

func (s *ProductStore) List(_ context.Context) ([]product.Product, error) {
	s.mu.RLock()
	out := make([]product.Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Len reports the number of stored products.
func (s *ProductStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
