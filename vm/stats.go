package vm

import "sync/atomic"

// Stats tracks execution counters for performance analysis and tuning,
// symmetric with the teacher's meta.Stats. Every field is updated with
// atomic.AddUint64 so Stats() can be read safely while other goroutines
// are matching against the same Engine.
type Stats struct {
	Searches             uint64
	BacktrackSteps       uint64
	BacktrackPushes      uint64
	FuzzyAttempts        uint64
	GuardHits            uint64
	RequiredStringHits   uint64
	RequiredStringMisses uint64
	Interrupted          uint64
}

func (s *Stats) addSearch()             { atomic.AddUint64(&s.Searches, 1) }
func (s *Stats) addBacktrackStep()      { atomic.AddUint64(&s.BacktrackSteps, 1) }
func (s *Stats) addBacktrackPush()      { atomic.AddUint64(&s.BacktrackPushes, 1) }
func (s *Stats) addFuzzyAttempt()       { atomic.AddUint64(&s.FuzzyAttempts, 1) }
func (s *Stats) addGuardHit()           { atomic.AddUint64(&s.GuardHits, 1) }
func (s *Stats) addRequiredStringHit()  { atomic.AddUint64(&s.RequiredStringHits, 1) }
func (s *Stats) addRequiredStringMiss() { atomic.AddUint64(&s.RequiredStringMisses, 1) }
func (s *Stats) addInterrupted()        { atomic.AddUint64(&s.Interrupted, 1) }

// Snapshot returns a non-atomic copy safe to hand to a caller.
func (s *Stats) Snapshot() Stats {
	return Stats{
		Searches:             atomic.LoadUint64(&s.Searches),
		BacktrackSteps:       atomic.LoadUint64(&s.BacktrackSteps),
		BacktrackPushes:      atomic.LoadUint64(&s.BacktrackPushes),
		FuzzyAttempts:        atomic.LoadUint64(&s.FuzzyAttempts),
		GuardHits:            atomic.LoadUint64(&s.GuardHits),
		RequiredStringHits:   atomic.LoadUint64(&s.RequiredStringHits),
		RequiredStringMisses: atomic.LoadUint64(&s.RequiredStringMisses),
		Interrupted:          atomic.LoadUint64(&s.Interrupted),
	}
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.Searches, 0)
	atomic.StoreUint64(&s.BacktrackSteps, 0)
	atomic.StoreUint64(&s.BacktrackPushes, 0)
	atomic.StoreUint64(&s.FuzzyAttempts, 0)
	atomic.StoreUint64(&s.GuardHits, 0)
	atomic.StoreUint64(&s.RequiredStringHits, 0)
	atomic.StoreUint64(&s.RequiredStringMisses, 0)
	atomic.StoreUint64(&s.Interrupted, 0)
}
