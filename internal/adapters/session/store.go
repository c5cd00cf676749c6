package session

import (
	"context"
	"sync"
	"time"

	"hotel_finder/internal/domain"
)

type entry struct {
	lock chan struct{} // one holder at a time
	sess domain.Session
	dead bool
}

// Store keeps dialog sessions in process memory. Sessions idle for longer
// than the TTL start over from the ended state.
type Store struct {
	mu    sync.Mutex
	items map[string]*entry
	ttl   time.Duration
	now   func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{items: map[string]*entry{}, ttl: ttl, now: time.Now}
}

func (s *Store) Acquire(ctx context.Context, id string) (*domain.Session, func(), error) {
	for {
		e := s.entry(id)
		select {
		case e.lock <- struct{}{}:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
		if e.dead {
			// swept while we waited
			<-e.lock
			continue
		}
		if s.expired(e, s.now()) {
			e.sess.Reset()
		}
		var once sync.Once
		release := func() {
			once.Do(func() {
				e.sess.UpdatedAt = s.now()
				<-e.lock
			})
		}
		return &e.sess, release, nil
	}
}

func (s *Store) entry(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		e = &entry{
			lock: make(chan struct{}, 1),
			sess: domain.Session{ID: id, State: domain.StateEnded},
		}
		s.items[id] = e
	}
	return e
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && !e.sess.UpdatedAt.IsZero() && now.Sub(e.sess.UpdatedAt) > s.ttl
}

// Sweep drops idle sessions nobody holds and reports how many went.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.items {
		select {
		case e.lock <- struct{}{}:
		default:
			continue // in use
		}
		if s.expired(e, now) {
			e.dead = true
			delete(s.items, id)
			n++
		}
		<-e.lock
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			s.Sweep()
		}
	}
}
