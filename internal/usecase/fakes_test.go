package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/kolyapvp/products-app/internal/domain/event"
	"github.com/kolyapvp/products-app/internal/domain/product"
)

func price(v float64) *float64 { return &v }

type recordingInvoker struct {
	mu     sync.Mutex
	events []event.ProductEvent
	ack    event.Ack
	err    error
	onCall func(ctx context.Context)
}

func (r *recordingInvoker) Invoke(ctx context.Context, ev event.ProductEvent) (event.Ack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.onCall != nil {
		r.onCall(ctx)
	}
	r.events = append(r.events, ev)
	return r.ack, r.err
}

type failingEventStore struct{}

func (failingEventStore) Put(context.Context, event.Record) error {
	return errors.New("events table unavailable")
}

type mapCache struct {
	mu          sync.Mutex
	items       map[string]product.Product
	versions    map[string]int64
	invalidated []string
}

func newMapCache() *mapCache {
	return &mapCache{
		items:    make(map[string]product.Product),
		versions: make(map[string]int64),
	}
}

func (c *mapCache) Get(_ context.Context, id string) (product.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.items[id]
	return p, ok
}

func (c *mapCache) Version(_ context.Context, id string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[id], true
}

func (c *mapCache) Set(_ context.Context, p product.Product, version int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[p.ID] != version {
		return
	}
	c.items[p.ID] = p
}

func (c *mapCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[id]++
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
}

// countingRepo counts store calls so tests can assert the store was not touched.
type countingRepo struct {
	product.Repository
	calls int
}

func (r *countingRepo) Create(ctx context.Context, p product.Product) (product.Product, error) {
	r.calls++
	return r.Repository.Create(ctx, p)
}

func (r *countingRepo) Update(ctx context.Context, id string, in product.Input) (product.Product, error) {
	r.calls++
	return r.Repository.Update(ctx, id, in)
}

// pausingRepo holds the first Get between the store read and the return so
// a test can commit a mutation while a read is in flight.
type pausingRepo struct {
	product.Repository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func newPausingRepo(repo product.Repository) *pausingRepo {
	return &pausingRepo{
		Repository: repo,
		read:       make(chan struct{}),
		release:    make(chan struct{}),
	}
}

func (r *pausingRepo) Get(ctx context.Context, id string) (product.Product, error) {
	p, err := r.Repository.Get(ctx, id)
	r.once.Do(func() {
		close(r.read)
		<-r.release
	})
	return p, err
}
