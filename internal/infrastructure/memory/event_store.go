package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kolyapvp/products-app/internal/domain/event"
)

type eventKey struct{ pk, sk string }

// EventStore keeps event records keyed by (pk, sk). A Put with an existing
// key replaces the record, like an unconditional put.
type EventStore struct {
	mu sync.Mutex
	m  map[eventKey]event.Record
}

func NewEventStore() *EventStore {
	return &EventStore{m: make(map[eventKey]event.Record)}
}

func (s *EventStore) Put(_ context.Context, r event.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[eventKey{r.PK, r.SK}] = r
	return nil
}

// Records returns the records of one partition ordered by sort key.
func (s *EventStore) Records(pk string) []event.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []event.Record
	for k, r := range s.m {
		if k.pk == pk {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SK < out[j].SK })
	return out
}

// All returns every stored record ordered by partition then sort key.
func (s *EventStore) All() []event.Record {
	s.mu.Lock()
	out := make([]event.Record, 0, len(s.m))
	for _, r := range s.m {
		out = append(out, r)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].PK != out[j].PK {
			return out[i].PK < out[j].PK
		}
		return out[i].SK < out[j].SK
	})
	return out
}

// PurgeExpired drops records whose ExpiresAt is not after now.
func (s *EventStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, r := range s.m {
		if !r.ExpiresAt.After(now) {
			delete(s.m, k)
			n++
		}
	}
	return n, nil
}
