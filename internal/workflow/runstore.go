package workflow

import "sync"

// RunStore holds in-flight onboarding runs. Implementations hand out
// snapshots, never the stored value: a run read from the store can be
// mutated freely and only becomes visible to other readers when Put back.
type RunStore interface {
	// Put stores or replaces a run.
	Put(run *Run)
	// Get retrieves a snapshot of a run by its id.
	Get(id string) (*Run, bool)
	// Delete removes a run.
	Delete(id string)
	// ListByOrg lists snapshots of the runs belonging to an organisation.
	// An empty org id lists every run.
	ListByOrg(orgID string) []*Run
}

// MemoryRunStore is the in-memory RunStore used by the console. Runs are
// deliberately not persisted and not evicted: a run either finishes, is
// abandoned, or dies with the process, and the platform's records are how a
// new run picks up.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMemoryRunStore creates an empty MemoryRunStore.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{runs: make(map[string]*Run)}
}

// Put stores or replaces a run. The store keeps its own copy.
func (s *MemoryRunStore) Put(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run.clone()
}

// Get retrieves a snapshot of a run by its id.
func (s *MemoryRunStore) Get(id string) (*Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, false
	}
	return run.clone(), true
}

// Delete removes a run.
func (s *MemoryRunStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
}

// ListByOrg lists snapshots of the runs belonging to an organisation.
func (s *MemoryRunStore) ListByOrg(orgID string) []*Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var runs []*Run
	for _, run := range s.runs {
		if orgID == "" || run.OrgID == orgID {
			runs = append(runs, run.clone())
		}
	}
	return runs
}
