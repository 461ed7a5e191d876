package service

import (
	"sync"

	"github.com/okian/stylemap/internal/domain/stylemap"
)

// Job states.
const (
	JobQueued  = "queued"
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// JobStatus reports the progress of an asynchronous build.
type JobStatus struct {
	ID       string              `json:"id"`
	PlayerID string              `json:"playerId"`
	Queue    string              `json:"queue"`
	State    string              `json:"state"`
	Result   *stylemap.MapResult `json:"result,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// jobTable keeps the most recent job statuses, oldest evicted first.
type jobTable struct {
	mu    sync.RWMutex
	max   int
	order []string
	jobs  map[string]JobStatus
}

func newJobTable(max int) *jobTable {
	return &jobTable{max: max, jobs: make(map[string]JobStatus)}
}

func (t *jobTable) put(st JobStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.jobs[st.ID]; !ok {
		t.order = append(t.order, st.ID)
		for len(t.order) > t.max {
			delete(t.jobs, t.order[0])
			t.order = t.order[1:]
		}
	}
	t.jobs[st.ID] = st
}

// update applies fn to a known job. Evicted jobs are ignored.
func (t *jobTable) update(id string, fn func(*JobStatus)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.jobs[id]
	if !ok {
		return
	}
	fn(&st)
	t.jobs[id] = st
}

func (t *jobTable) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.jobs[id]; !ok {
		return
	}
	delete(t.jobs, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *jobTable) get(id string) (JobStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.jobs[id]
	return st, ok
}

func (t *jobTable) counts() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := map[string]int{JobQueued: 0, JobRunning: 0, JobDone: 0, JobFailed: 0}
	for _, st := range t.jobs {
		out[st.State]++
	}
	return out
}
