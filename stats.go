package adblock

import (
	"sync"
	"time"
)

// HitEntry is the hit record of a single filter.
type HitEntry struct {
	// LastHit is the time of the most recent hit.
	LastHit time.Time

	// Hits is the total number of hits.
	Hits uint64
}

// HitStats is a synchronized hit counter table keyed by filter text.  The
// descriptors themselves stay immutable, the embedding application owns the
// table and records hits after acting on a match.
type HitStats struct {
	// mu protects entries.
	mu sync.Mutex

	// entries maps filter text to its hit record.
	entries map[string]HitEntry
}

// NewHitStats creates an empty hit counter table.
func NewHitStats() (s *HitStats) {
	return &HitStats{
		entries: map[string]HitEntry{},
	}
}

// Record counts a hit for the filter text at the current time.
func (s *HitStats) Record(filterText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[filterText]
	e.Hits++
	e.LastHit = time.Now()
	s.entries[filterText] = e
}

// Entry returns the hit record for the filter text.
func (s *HitStats) Entry(filterText string) (e HitEntry, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok = s.entries[filterText]

	return e, ok
}

// Reset drops all the records.
func (s *HitStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = map[string]HitEntry{}
}
