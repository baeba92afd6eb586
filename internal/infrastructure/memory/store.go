package memory

import (
	"sync"
)

// store is a mutex-guarded map with per-transaction copy-on-write overlays.
// Reads through a transaction see that transaction's pending writes layered
// over the base map; nothing reaches the base map before commit.
type store[V any] struct {
	mu       sync.RWMutex
	data     map[string]V
	overlays map[string]*overlay[V]
}

type overlay[V any] struct {
	writes  map[string]V
	deletes map[string]struct{}
	// inserts records keys added via putIfAbsent; commit re-checks them
	// against the base map so two racing transactions cannot both win.
	inserts map[string]struct{}
}

func newStore[V any]() *store[V] {
	return &store[V]{
		data:     make(map[string]V),
		overlays: make(map[string]*overlay[V]),
	}
}

func (s *store[V]) layer(txID string) *overlay[V] {
	ov, ok := s.overlays[txID]
	if !ok {
		ov = &overlay[V]{
			writes:  make(map[string]V),
			deletes: make(map[string]struct{}),
			inserts: make(map[string]struct{}),
		}
		s.overlays[txID] = ov
	}
	return ov
}

// get returns the value visible to txID (empty txID reads the base map only).
func (s *store[V]) get(key, txID string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if txID != "" {
		if ov, ok := s.overlays[txID]; ok {
			if _, del := ov.deletes[key]; del {
				var zero V
				return zero, false
			}
			if v, ok := ov.writes[key]; ok {
				return v, true
			}
		}
	}
	v, ok := s.data[key]
	return v, ok
}

func (s *store[V]) put(key string, v V, txID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if txID == "" {
		s.data[key] = v
		return
	}
	ov := s.layer(txID)
	delete(ov.deletes, key)
	ov.writes[key] = v
}

// putIfAbsent inserts atomically and reports whether the key was free. For
// transactional inserts the claim is provisional until commit.
func (s *store[V]) putIfAbsent(key string, v V, txID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[key]; exists {
		return false
	}
	if txID == "" {
		s.data[key] = v
		return true
	}
	ov := s.layer(txID)
	if _, exists := ov.writes[key]; exists {
		return false
	}
	ov.writes[key] = v
	ov.inserts[key] = struct{}{}
	return true
}

func (s *store[V]) remove(key, txID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if txID == "" {
		delete(s.data, key)
		return
	}
	ov := s.layer(txID)
	delete(ov.writes, key)
	delete(ov.inserts, key)
	ov.deletes[key] = struct{}{}
}

// all returns every value visible to txID, in no particular order.
func (s *store[V]) all(txID string) []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ov *overlay[V]
	if txID != "" {
		ov = s.overlays[txID]
	}
	out := make([]V, 0, len(s.data))
	for k, v := range s.data {
		if ov != nil {
			if _, del := ov.deletes[k]; del {
				continue
			}
			if w, ok := ov.writes[k]; ok {
				out = append(out, w)
				continue
			}
		}
		out = append(out, v)
	}
	if ov != nil {
		for k, v := range ov.writes {
			if _, inBase := s.data[k]; !inBase {
				out = append(out, v)
			}
		}
	}
	return out
}

// conflicts reports whether any provisional insert of txID has since been
// taken in the base map by a concurrent committed write.
func (s *store[V]) conflicts(txID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ov, ok := s.overlays[txID]
	if !ok {
		return false
	}
	for k := range ov.inserts {
		if _, exists := s.data[k]; exists {
			return true
		}
	}
	return false
}

// apply merges txID's overlay into the base map. The tx manager checks
// conflicts on every store before calling apply on any of them.
func (s *store[V]) apply(txID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ov, ok := s.overlays[txID]
	if !ok {
		return
	}
	for k := range ov.deletes {
		delete(s.data, k)
	}
	for k, v := range ov.writes {
		s.data[k] = v
	}
	delete(s.overlays, txID)
}

// discard drops txID's overlay without touching the base map.
func (s *store[V]) discard(txID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overlays, txID)
}
