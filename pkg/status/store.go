package status

import (
	"sync"
)

// Store holds the latest outcome of every configured check. The key set is
// fixed at startup; check runners replace entries wholesale on every cycle.
type Store struct {
	lock     sync.RWMutex
	outcomes map[string]Outcome
}

// NewStore pre-populates one entry per configured check name. A check that
// has not completed its first cycle yet reports the zero outcome, which
// counts as healthy.
func NewStore(names []string) *Store {
	outcomes := make(map[string]Outcome, len(names))
	for _, name := range names {
		outcomes[name] = Outcome{}
	}

	return &Store{outcomes: outcomes}
}

func (s *Store) Update(name string, outcome Outcome) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.outcomes[name] = outcome
}

// Get returns the current outcome for name, or the zero outcome if the name
// is unknown.
func (s *Store) Get(name string) Outcome {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.outcomes[name]
}

// Snapshot returns a point-in-time copy of all entries whose name is not in
// exclude.
func (s *Store) Snapshot(exclude map[string]struct{}) map[string]Outcome {
	s.lock.RLock()
	defer s.lock.RUnlock()

	result := make(map[string]Outcome, len(s.outcomes))
	for name, outcome := range s.outcomes {
		if _, skip := exclude[name]; skip {
			continue
		}
		result[name] = outcome
	}

	return result
}
