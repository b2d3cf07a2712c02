// Package capture implements the per-group capture-span store (component
// D): each group's current span plus a growable history of spans recorded
// under a repeat (spec §3.1 "State", §8.2 scenario 4: `(a)+` over "aaa"
// records a current span of the last iteration and a three-entry history).
//
// Slot data is copy-on-write, following the same shared/refcounted idiom
// as the teacher's PikeVM thread captures, generalized from a flat
// [start,end] slot array to per-group current-span-plus-history records
// so BRANCH/backtrack-driven speculative execution can snapshot and
// restore a group's state in O(1) without copying on every split.
package capture

// Span is a half-open [Start, End) capture range. A group with no match
// yet (or rolled back past its first match) has Start == -1.
type Span struct {
	Start, End int
}

// Unset reports whether the span has not been recorded.
func (s Span) Unset() bool { return s.Start < 0 }

var unsetSpan = Span{Start: -1, End: -1}

// groupSlot is one capture group's mutable record: its current span and a
// monotonically growing history of prior spans (populated when the group
// sits under a repeat). The rewind counter incremented on every mutation
// lives on Store, not here (spec §3.2 "capture_change is strictly
// monotonic").
type groupSlot struct {
	current Span
	history []Span
}

// shared is the copy-on-write payload multiple Store handles can point at
// until one of them writes, mirroring cowCaptures/sharedCaptures.
type shared struct {
	groups []groupSlot
	refs   int
}

// Store holds one thread/backtrack-branch's view of all capture groups.
// The zero Store is usable and represents a pattern with no groups.
type Store struct {
	shared *shared
	// changeCounter increments on every mutation that touches this Store's
	// view, independent of whether the underlying shared payload was
	// copied; lookaround/atomic restore compares snapshots of this counter
	// to detect whether a subpattern run touched captures (spec §3.2).
	changeCounter int
}

// New creates a Store for groupCount groups, all initially unset.
func New(groupCount int) Store {
	if groupCount <= 0 {
		return Store{}
	}
	groups := make([]groupSlot, groupCount)
	for i := range groups {
		groups[i].current = unsetSpan
	}
	return Store{shared: &shared{groups: groups, refs: 1}}
}

// Clone returns a cheap reference-counted handle to the same underlying
// data; the first subsequent mutation through either handle copies.
func (s Store) Clone() Store {
	if s.shared == nil {
		return Store{}
	}
	s.shared.refs++
	return Store{shared: s.shared, changeCounter: s.changeCounter}
}

// GroupCount returns the number of groups this store was sized for.
func (s Store) GroupCount() int {
	if s.shared == nil {
		return 0
	}
	return len(s.shared.groups)
}

// Get returns group g's current span. Returns the unset span for an
// out-of-range or empty store rather than panicking, since the VM may
// query a group index before any pattern defines it (e.g. NoSuchGroup is
// reported by the caller, not here).
func (s Store) Get(g int) Span {
	if s.shared == nil || g < 0 || g >= len(s.shared.groups) {
		return unsetSpan
	}
	return s.shared.groups[g].current
}

// History returns the recorded prior spans for group g, oldest first, not
// including the current span.
func (s Store) History(g int) []Span {
	if s.shared == nil || g < 0 || g >= len(s.shared.groups) {
		return nil
	}
	return s.shared.groups[g].history
}

// ensureOwned returns a Store backed by a private copy of the payload,
// copying only if another handle still shares it (copy-on-write).
func (s Store) ensureOwned() Store {
	if s.shared == nil {
		return s
	}
	if s.shared.refs == 1 {
		return s
	}
	s.shared.refs--
	groups := make([]groupSlot, len(s.shared.groups))
	for i, g := range s.shared.groups {
		groups[i].current = g.current
		if len(g.history) > 0 {
			groups[i].history = append([]Span(nil), g.history...)
		}
	}
	return Store{shared: &shared{groups: groups, refs: 1}, changeCounter: s.changeCounter}
}

// SetCurrent records span as group g's current span. recordHistory, when
// true, also appends the span to g's history (done on END_GROUP when the
// group sits under a repeat, per §3.1's "growable vector of historical
// spans for groups under repeats").
func (s Store) SetCurrent(g int, span Span, recordHistory bool) Store {
	if s.shared == nil || g < 0 || g >= len(s.shared.groups) {
		return s
	}
	s = s.ensureOwned()
	s.shared.groups[g].current = span
	if recordHistory {
		s.shared.groups[g].history = append(s.shared.groups[g].history, span)
	}
	s.changeCounter++
	return s
}

// Clear resets group g's current span to unset, leaving history intact;
// used when a backtrack rewinds past the group's start.
func (s Store) Clear(g int) Store {
	if s.shared == nil || g < 0 || g >= len(s.shared.groups) {
		return s
	}
	s = s.ensureOwned()
	s.shared.groups[g].current = unsetSpan
	s.changeCounter++
	return s
}

// TruncateHistory drops history entries for group g beyond keep, used when
// a backtrack rewinds a repeat that had appended history entries on a
// speculative iteration.
func (s Store) TruncateHistory(g, keep int) Store {
	if s.shared == nil || g < 0 || g >= len(s.shared.groups) {
		return s
	}
	if keep >= len(s.shared.groups[g].history) {
		return s
	}
	s = s.ensureOwned()
	s.shared.groups[g].history = s.shared.groups[g].history[:keep]
	s.changeCounter++
	return s
}

// ChangeCounter returns the current mutation counter, for lookaround and
// atomic-group restore to compare against a saved snapshot.
func (s Store) ChangeCounter() int { return s.changeCounter }

// Snapshot is an immutable copy of every group's current span and history
// length, cheap to take and compare against for rewind (spec §3.3
// "BacktrackBlock / SavedGroups ... created lazily ... retained on a free
// list").
type Snapshot struct {
	spans       []Span
	historyLens []int
}

// Save captures the store's present state.
func (s Store) Save() Snapshot {
	if s.shared == nil {
		return Snapshot{}
	}
	spans := make([]Span, len(s.shared.groups))
	lens := make([]int, len(s.shared.groups))
	for i, g := range s.shared.groups {
		spans[i] = g.current
		lens[i] = len(g.history)
	}
	return Snapshot{spans: spans, historyLens: lens}
}

// Restore returns a Store with every group's current span and history
// length reset to what Save captured. copy-on-write means restoring is
// itself a (potentially shared) write, bumping changeCounter.
func (s Store) Restore(snap Snapshot) Store {
	if s.shared == nil || len(snap.spans) == 0 {
		return s
	}
	s = s.ensureOwned()
	for i := range s.shared.groups {
		if i >= len(snap.spans) {
			break
		}
		s.shared.groups[i].current = snap.spans[i]
		if snap.historyLens[i] <= len(s.shared.groups[i].history) {
			s.shared.groups[i].history = s.shared.groups[i].history[:snap.historyLens[i]]
		}
	}
	s.changeCounter++
	return s
}

// Finalize copies out every group's final [start,end) pair for the public
// result shape (spec §6: "Captures[i] = [start,end] for group i"). Unset
// groups report Start == -1.
func (s Store) Finalize() []Span {
	if s.shared == nil {
		return nil
	}
	out := make([]Span, len(s.shared.groups))
	for i, g := range s.shared.groups {
		out[i] = g.current
	}
	return out
}
