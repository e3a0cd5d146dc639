package portal

import (
	"sync"
	"time"

	"github.com/zekroTJA/timedmap"
)

// Store hands out one Portal per visitor id. A portal left untouched for the
// idle TTL is dropped, and the visitor starts over with a fresh one.
type Store struct {
	mu      sync.Mutex
	portals *timedmap.TimedMap
	ttl     time.Duration
	opts    Options
}

func NewStore(ttl time.Duration, opts Options) *Store {
	cleanup := time.Minute
	if ttl < cleanup {
		cleanup = ttl
	}
	return &Store{
		portals: timedmap.New(cleanup),
		ttl:     ttl,
		opts:    opts,
	}
}

// Get returns the visitor's portal, creating it on first use, and restarts its
// idle timer.
func (s *Store) Get(visitorID string) *Portal {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.portals.GetValue(visitorID).(*Portal)
	if !ok {
		p = New(s.opts)
	}
	s.portals.Set(visitorID, p, s.ttl)
	return p
}

// Len is the number of live portals. Expired portals the cleaner has not
// reached yet are not counted.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id := range s.portals.Snapshot() {
		if _, err := s.portals.GetExpires(id); err == nil {
			n++
		}
	}
	return n
}

// Close stops the background expiry.
func (s *Store) Close() {
	s.portals.StopCleaner()
}
