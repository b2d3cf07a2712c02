// Package repeatstate implements the repeat counters and guard lists that
// keep zero-width repeats from looping forever (component E). A GuardList
// is a sorted, disjoint, maximally-merged set of half-open text-position
// ranges tagged `protect`; once a position range is guarded, the matcher
// refuses to re-enter that repeat's body or tail there during the current
// match attempt (spec §3.1 "GuardList", §3.2 invariant on guarded
// positions never being retried, §9 Open Question on merge criterion).
//
// The range-set shape is grounded on internal/sparse.SparseSet's
// dense/sparse split, generalized from single-value membership to
// disjoint ranges since guard state tracks spans of positions, not
// individual ones.
package repeatstate

import "sort"

// Range is a half-open [Low, High) text-position span.
type Range struct {
	Low, High int
	Protect   bool
}

// adjacentOrOverlapping reports whether a and b share at least one position, or are
// immediately adjacent (so they can be coalesced into one span).
func adjacentOrOverlapping(a, b Range) bool {
	return a.Low <= b.High && b.Low <= a.High
}

// GuardList is a sorted, disjoint set of protect-tagged ranges (spec §3.1,
// §3.2 "a GuardList's spans are always sorted, disjoint, and maximally
// merged").
type GuardList struct {
	ranges []Range
}

// Len reports the number of ranges currently stored.
func (g *GuardList) Len() int { return len(g.ranges) }

// Reset empties the guard list; used on repeat/fuzzy-section exit from an
// atomic or lookaround subpattern (spec §4.6 "reset guards of nested
// repeats/fuzzies").
func (g *GuardList) Reset() { g.ranges = g.ranges[:0] }

// Insert adds [low, high) tagged protect, merging with any adjacent or
// overlapping range that carries the *same* protect value. Per spec §9's
// Open Question decision, ranges with differing protect values are kept
// as separate adjacent entries even when they touch — a `protect=true`
// span is never silently absorbed into (or absorbing) a `protect=false`
// neighbor, since they answer different questions about the same
// position.
func (g *GuardList) Insert(low, high int, protect bool) {
	if low >= high {
		return
	}
	r := Range{Low: low, High: high, Protect: protect}

	i := sort.Search(len(g.ranges), func(i int) bool { return g.ranges[i].Low >= low })

	// Scan left for a same-protect neighbor that touches r.
	start := i
	for start > 0 && adjacentOrOverlapping(g.ranges[start-1], r) && g.ranges[start-1].Protect == protect {
		start--
	}
	// Scan right similarly.
	end := i
	for end < len(g.ranges) && adjacentOrOverlapping(g.ranges[end], r) && g.ranges[end].Protect == protect {
		end++
	}

	if start == end {
		// No same-protect neighbor to merge with; insert r standalone,
		// respecting sort order even if it overlaps a differing-protect
		// range (those are left untouched per the Open Question decision).
		g.ranges = append(g.ranges, Range{})
		copy(g.ranges[i+1:], g.ranges[i:])
		g.ranges[i] = r
		return
	}

	merged := r
	for _, other := range g.ranges[start:end] {
		if other.Low < merged.Low {
			merged.Low = other.Low
		}
		if other.High > merged.High {
			merged.High = other.High
		}
	}
	g.ranges = append(g.ranges[:start], append([]Range{merged}, g.ranges[end:]...)...)
}

// Guarded reports whether pos falls within a range tagged protect.
func (g *GuardList) Guarded(pos int, protect bool) bool {
	i := sort.Search(len(g.ranges), func(i int) bool { return g.ranges[i].High > pos })
	if i >= len(g.ranges) {
		return false
	}
	r := g.ranges[i]
	return r.Low <= pos && pos < r.High && r.Protect == protect
}

// RepeatData is the per-repeat-index mutable record the VM snapshots and
// restores on backtrack (spec §3.1 "RepeatData").
type RepeatData struct {
	Count         int
	Start         int // text position where the current iteration began
	CaptureChange int // snapshot of capture.Store.ChangeCounter() at iteration start

	BodyGuards GuardList
	TailGuards GuardList
}

// Snapshot is an immutable copy of a RepeatData's scalar fields, cheap to
// stash on the backtrack stack; guard lists are not snapshotted here since
// they only grow monotonically within an attempt and are reset wholesale,
// not rewound entry-by-entry (spec §3.2 "GuardList's ... size only ever
// grows between reset_guards calls").
type Snapshot struct {
	Count         int
	Start         int
	CaptureChange int
}

// Save captures r's rewindable scalar fields.
func (r *RepeatData) Save() Snapshot {
	return Snapshot{Count: r.Count, Start: r.Start, CaptureChange: r.CaptureChange}
}

// Restore rewinds r's scalar fields to a prior Save result.
func (r *RepeatData) Restore(s Snapshot) {
	r.Count = s.Count
	r.Start = s.Start
	r.CaptureChange = s.CaptureChange
}

// Store holds one RepeatData per repeat index in a Pattern. It has no
// separate store for fuzzy-section guards.
type Store struct {
	Repeats []RepeatData
}

// NewStore allocates a Store sized for repeatCount repeat indices.
func NewStore(repeatCount int) *Store {
	return &Store{Repeats: make([]RepeatData, repeatCount)}
}

// ResetGuards clears the body/tail guard lists for the given repeat
// indices, used when exiting an atomic or lookaround subpattern (spec
// §4.6, §4.3 post-pass 3).
func (s *Store) ResetGuards(indices []int) {
	for _, idx := range indices {
		if idx < 0 || idx >= len(s.Repeats) {
			continue
		}
		s.Repeats[idx].BodyGuards.Reset()
		s.Repeats[idx].TailGuards.Reset()
	}
}
