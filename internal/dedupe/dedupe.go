// Package dedupe tracks already-processed input identifiers so repeated
// deliveries of the same payload are dropped at intake.
package dedupe

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Seen is a bounded first-seen store. Capacity is fixed at construction and
// the oldest entries are evicted LRU-style, so memory stays flat no matter
// how long the process runs.
type Seen struct {
	cache *lru.Cache[string, time.Time]
}

// New creates a Seen store holding at most capacity identifiers.
// Capacity below 1 is raised to 1.
func New(capacity int) (*Seen, error) {
	if capacity < 1 {
		capacity = 1
	}
	cache, err := lru.New[string, time.Time](capacity)
	if err != nil {
		return nil, err
	}
	return &Seen{cache: cache}, nil
}

// Check reports whether id is new, recording it as seen. A nil receiver
// treats everything as new.
func (s *Seen) Check(id string) bool {
	if s == nil {
		return true
	}
	if _, ok := s.cache.Get(id); ok {
		return false
	}
	s.cache.Add(id, time.Now())
	return true
}

// Forget removes id so a later Check treats it as new again.
func (s *Seen) Forget(id string) {
	if s == nil {
		return
	}
	s.cache.Remove(id)
}

// Len returns how many identifiers are currently tracked.
func (s *Seen) Len() int {
	if s == nil {
		return 0
	}
	return s.cache.Len()
}
