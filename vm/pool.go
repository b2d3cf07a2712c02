package vm

import "sync"

// statePool manages a pool of *State instances sized for one Engine's
// pattern, following the teacher's searchStatePool (meta/search_state.go)
// shape: a sync.Pool whose New closure captures the dimensions (group,
// repeat, fuzzy counts) needed to build a correctly-sized State.
type statePool struct {
	pool sync.Pool

	groupCount  int
	repeatCount int
	fuzzyCount  int
}

func newStatePool(groupCount, repeatCount, fuzzyCount int) *statePool {
	p := &statePool{groupCount: groupCount, repeatCount: repeatCount, fuzzyCount: fuzzyCount}
	p.pool = sync.Pool{New: func() any { return &State{} }}
	return p
}

// get retrieves a State from the pool, resetting it for a new top-level
// call.
func (p *statePool) get() *State {
	s := p.pool.Get().(*State)
	s.reset(p.groupCount, p.repeatCount, p.fuzzyCount)
	return s
}

// put returns a State to the pool for reuse.
func (p *statePool) put(s *State) {
	if s == nil {
		return
	}
	p.pool.Put(s)
}
