package server

import (
	"sync"

	"github.com/sells-group/evolsynth-api/internal/model"
)

// runRegistry tracks generation run status in memory so status lookups work
// even without a persistent store.
type runRegistry struct {
	mu   sync.RWMutex
	runs map[string]model.GenerationRun
}

func newRunRegistry() *runRegistry {
	return &runRegistry{runs: make(map[string]model.GenerationRun)}
}

func (r *runRegistry) put(run model.GenerationRun) {
	r.mu.Lock()
	r.runs[run.ID] = run
	r.mu.Unlock()
}

func (r *runRegistry) get(id string) (model.GenerationRun, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	return run, ok
}
