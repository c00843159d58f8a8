package watch

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Key builds the snapshot store key for a pool on a chain.
func Key(chain int, poolAddress string) string {
	return fmt.Sprintf("%d:%s", chain, strings.ToLower(poolAddress))
}

// Store holds a bounded, per-pool time series of historical readings.
// Each pool's history is guarded independently so unrelated pools
// never contend.
type Store struct {
	retention time.Duration

	mu    sync.RWMutex
	pools map[string]*history
}

type history struct {
	mu       sync.RWMutex
	readings []MetricReading
}

// NewStore creates a Store that retains readings for at most retention,
// with the single most recent reading always kept as a floor.
func NewStore(retention time.Duration) *Store {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &Store{
		retention: retention,
		pools:     make(map[string]*history),
	}
}

func (s *Store) pool(key string, create bool) *history {
	s.mu.RLock()
	h := s.pools[key]
	s.mu.RUnlock()
	if h != nil || !create {
		return h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if h = s.pools[key]; h == nil {
		h = &history{}
		s.pools[key] = h
	}
	return h
}

// Record appends a reading to the pool's history, keeping the series
// ordered by timestamp (insertion order for ties), then prunes entries
// that fell out of the retention window.
func (s *Store) Record(key string, r MetricReading) {
	h := s.pool(key, true)
	h.mu.Lock()
	defer h.mu.Unlock()

	// Insert after any reading with the same or earlier timestamp.
	i := len(h.readings)
	for i > 0 && h.readings[i-1].Timestamp.After(r.Timestamp) {
		i--
	}
	h.readings = append(h.readings, MetricReading{})
	copy(h.readings[i+1:], h.readings[i:])
	h.readings[i] = r

	newest := h.readings[len(h.readings)-1].Timestamp
	h.prune(newest.Add(-s.retention))
}

// FindAtOrBefore returns the most recent reading with timestamp ≤ target,
// or nil when the history is empty or every reading is newer than target.
// Readings sharing a timestamp resolve to the one inserted last.
func (s *Store) FindAtOrBefore(key string, target time.Time) *MetricReading {
	h := s.pool(key, false)
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	// First index whose timestamp is after target; the answer sits
	// just before it.
	i := sort.Search(len(h.readings), func(i int) bool {
		return h.readings[i].Timestamp.After(target)
	})
	if i == 0 {
		return nil
	}
	r := h.readings[i-1]
	return &r
}

// Prune drops entries older than retainSince. A non-empty history is
// never emptied: the latest entry survives even when expired, so a
// degraded stale comparison stays possible.
func (s *Store) Prune(key string, retainSince time.Time) {
	h := s.pool(key, false)
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prune(retainSince)
}

func (h *history) prune(retainSince time.Time) {
	i := sort.Search(len(h.readings), func(i int) bool {
		return !h.readings[i].Timestamp.Before(retainSince)
	})
	if i >= len(h.readings) && len(h.readings) > 0 {
		i = len(h.readings) - 1 // keep the latest as a floor
	}
	if i > 0 {
		h.readings = append(h.readings[:0], h.readings[i:]...)
	}
}

// Len returns the number of retained readings for a pool.
func (s *Store) Len(key string) int {
	h := s.pool(key, false)
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.readings)
}

// Pools returns the number of pools with recorded history.
func (s *Store) Pools() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pools)
}

// Size returns the total number of retained readings across all pools.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, h := range s.pools {
		h.mu.RLock()
		total += len(h.readings)
		h.mu.RUnlock()
	}
	return total
}
