package vm

import (
	"github.com/brexlang/brex/backtrack"
	"github.com/brexlang/brex/capture"
	"github.com/brexlang/brex/cursor"
	"github.com/brexlang/brex/fuzzy"
	"github.com/brexlang/brex/groupcall"
	"github.com/brexlang/brex/repeatstate"
	"github.com/brexlang/brex/savedstate"
)

// State is the per-search mutable environment the driver operates on
// (spec §3.1 "State"). A State is obtained from an Engine's pool, reset
// for one top-level call, and returned afterward; it may be retained
// across successive calls for the scanner/splitter pattern (spec §3.3).
type State struct {
	Cursor *cursor.Cursor

	Captures capture.Store
	Repeats  *repeatstate.Store
	Fuzzy    *fuzzy.Store

	Backtrack   backtrack.Stack
	SavedStates savedstate.Stack
	Calls       groupcall.Stack

	// TextPos is the VM's current read position; MatchPos is the position
	// the current top-level attempt started at; SearchAnchor is the
	// position search-start scanning is currently probing (spec §3.1).
	TextPos      int
	MatchPos     int
	SearchAnchor int

	Reverse      bool
	MatchAll     bool
	MustAdvance  bool
	Overlapped   bool
	Version0     bool
	PartialSide  cursor.PartialSide

	// MaxCost bounds total fuzzy cost for the current attempt (spec §4.4
	// "lowering max_cost = total_cost - 1" under BESTMATCH).
	MaxCost int

	// TooFewErrors mirrors the C too_few_errors flag: set by END_FUZZY
	// when a section's min_* counts are not yet satisfied (spec §4.10),
	// and saved/restored around subpatterns. No repeat or atomic node
	// reads it, so it does not force another attempt.
	TooFewErrors bool

	// groupStart records, per group index, the position a GROUP node was
	// entered at; the paired END node reads it back to build the group's
	// span. No snapshot/restore is needed: a re-entry (via backtracking
	// into a repeated group) simply overwrites it before it is next read.
	groupStart []int

	// fuzzyStack tracks which fuzzy section is currently open, so a FUZZY
	// node nested inside another can still resolve its own accumulator by
	// FuzzySection index (spec §4.10).
	fuzzyStack []int

	// subMarks/subPos/subSliceStart/subSliceEnd/subMustAdvance hold the
	// ATOMIC/LOOKAROUND commit-path backtrack-stack rewind points, entry
	// text positions, and the caller's active slice + must_advance (both
	// overridden for the duration of the subpattern and restored
	// immediately on exit), pushed on entry alongside a SavedStates frame
	// and popped by the paired END node on success (spec §4.6). The
	// group/repeat snapshot itself lives in SavedStates, not here, since
	// the failure path needs it too and it must not be duplicated across
	// two parallel stacks.
	subMarks       []int
	subPos         []int
	subSliceStart  []int
	subSliceEnd    []int
	subMustAdvance []bool

	// iterations counts VM steps since the last cancellation checkpoint
	// (spec §5: "checks at least once per 65,536 VM steps").
	iterations int
}

// reset clears a State for reuse, sized for repeatCount/fuzzyCount/
// groupCount taken from the owning Engine's Pattern.
func (s *State) reset(groupCount, repeatCount, fuzzyCount int) {
	s.Captures = capture.New(groupCount)
	if cap(s.groupStart) < groupCount {
		s.groupStart = make([]int, groupCount)
	} else {
		s.groupStart = s.groupStart[:groupCount]
		for i := range s.groupStart {
			s.groupStart[i] = 0
		}
	}
	s.fuzzyStack = s.fuzzyStack[:0]
	s.subMarks = s.subMarks[:0]
	s.subPos = s.subPos[:0]
	s.subSliceStart = s.subSliceStart[:0]
	s.subSliceEnd = s.subSliceEnd[:0]
	s.subMustAdvance = s.subMustAdvance[:0]
	if s.Repeats == nil || len(s.Repeats.Repeats) != repeatCount {
		s.Repeats = repeatstate.NewStore(repeatCount)
	} else {
		for i := range s.Repeats.Repeats {
			s.Repeats.Repeats[i] = repeatstate.RepeatData{}
		}
	}
	if s.Fuzzy == nil || len(s.Fuzzy.Sections) != fuzzyCount {
		s.Fuzzy = fuzzy.NewStore(fuzzyCount)
	} else {
		for i := range s.Fuzzy.Sections {
			s.Fuzzy.Sections[i] = fuzzy.Accumulator{}
		}
	}
	s.Backtrack.Reset()
	s.SavedStates.Reset()
	s.Calls.Reset()
	s.TextPos = 0
	s.MatchPos = 0
	s.SearchAnchor = 0
	s.Reverse = false
	s.MatchAll = false
	s.MustAdvance = false
	s.Overlapped = false
	s.Version0 = false
	s.PartialSide = cursor.PartialNone
	s.MaxCost = -1
	s.TooFewErrors = false
	s.iterations = 0
}

// checkpoint increments the step counter and reports whether a
// cancellation check is due (spec §5).
func (s *State) checkpoint(interval int) bool {
	s.iterations++
	if s.iterations >= interval {
		s.iterations = 0
		return true
	}
	return false
}
