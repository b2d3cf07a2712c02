// Package vm implements the backtracking match driver (spec §4.4,
// component J): an Engine compiled once per pattern drives a pooled,
// per-search State through the node graph one step at a time, pushing a
// backtrack.Entry at every choice point instead of recursing on the Go
// call stack. The two-phase "advance / backtrack" shape of the spec's
// pseudocode is kept, expressed as a pair of Go functions (step,
// backtrack) called from a driving loop rather than as goto-labelled
// blocks, which is the idiomatic rendering of the same control flow.
//
// Grounded on the teacher's nfa/backtrack.go (BoundedBacktracker) and
// nfa/pikevm.go for the pooled-state, dispatch-over-node-kind shape,
// restructured to dispatch over node.Op instead of nfa.StateKind since
// the graph here is opcode-shaped rather than Thompson-NFA-shaped.
package vm

import (
	"fmt"

	"github.com/brexlang/brex/backtrack"
	"github.com/brexlang/brex/capture"
	"github.com/brexlang/brex/cursor"
	"github.com/brexlang/brex/fuzzy"
	"github.com/brexlang/brex/groupcall"
	"github.com/brexlang/brex/node"
	"github.com/brexlang/brex/opcode"
	"github.com/brexlang/brex/repeatstate"
	"github.com/brexlang/brex/savedstate"
)

// stepKind is the outcome of one dispatch step.
type stepKind int

const (
	stepAdvance stepKind = iota
	stepBacktrack
	stepSuccess
)

func (e *Engine) pushEntry(s *State, entry backtrack.Entry) error {
	if err := s.Backtrack.Push(entry); err != nil {
		return err
	}
	e.Stats.addBacktrackPush()
	return nil
}

// pushSub records an ATOMIC/LOOKAROUND entry's backtrack-stack rewind
// point, entry text position, the caller's active slice, and must_advance
// (all restored immediately on exit, success or failure, since entering a
// subpattern widens the slice to the full text and clears must_advance for
// the duration of the speculative run, spec §4.6); the group/repeat
// snapshot that a later backtrack can still roll back to lives in
// State.SavedStates instead, pushed alongside.
func (s *State) pushSub(mark, pos int) {
	s.subMarks = append(s.subMarks, mark)
	s.subPos = append(s.subPos, pos)
	s.subSliceStart = append(s.subSliceStart, s.Cursor.SliceStart())
	s.subSliceEnd = append(s.subSliceEnd, s.Cursor.SliceEnd())
	s.subMustAdvance = append(s.subMustAdvance, s.MustAdvance)
	s.Cursor.WidenToFull()
	s.MustAdvance = false
}

func (s *State) popSub() (mark, pos int) {
	n := len(s.subMarks) - 1
	mark, pos = s.subMarks[n], s.subPos[n]
	sliceStart, sliceEnd := s.subSliceStart[n], s.subSliceEnd[n]
	mustAdvance := s.subMustAdvance[n]
	s.subMarks = s.subMarks[:n]
	s.subPos = s.subPos[:n]
	s.subSliceStart = s.subSliceStart[:n]
	s.subSliceEnd = s.subSliceEnd[:n]
	s.subMustAdvance = s.subMustAdvance[:n]
	s.Cursor.SetSlice(sliceStart, sliceEnd)
	s.MustAdvance = mustAdvance
	return
}

// saveSubpattern snapshots every domain an ATOMIC/LOOKAROUND entry must be
// able to roll back on a later backtrack: the capture groups, the repeat
// counters nested inside the subpattern (named by
// Pattern.SubpatternRepeats), and too_few_errors (spec §4.6).
func (e *Engine) saveSubpattern(s *State, start node.ID) savedstate.Frame {
	indices := e.Pattern.SubpatternRepeats[start]
	var reps []repeatstate.Snapshot
	if len(indices) > 0 {
		reps = make([]repeatstate.Snapshot, len(indices))
		for i, idx := range indices {
			reps[i] = s.Repeats.Repeats[idx].Save()
		}
	}
	return savedstate.Frame{
		Groups:        s.Captures.Save(),
		Repeats:       reps,
		CaptureChange: s.Captures.ChangeCounter(),
		TooFewErrors:  s.TooFewErrors,
	}
}

// restoreSubpattern undoes everything saveSubpattern recorded for the
// subpattern rooted at start: used both when its body fails outright and
// when a later backtrack reaches back past an already-committed ATOMIC or
// successful positive LOOKAROUND (spec §4.6).
func (e *Engine) restoreSubpattern(s *State, start node.ID, f savedstate.Frame) {
	s.Captures = s.Captures.Restore(f.Groups)
	indices := e.Pattern.SubpatternRepeats[start]
	for i, idx := range indices {
		if i < len(f.Repeats) {
			s.Repeats.Repeats[idx].Restore(f.Repeats[i])
		}
	}
	s.TooFewErrors = f.TooFewErrors
}

// step dispatches one node. It returns the next node/position to resume at
// for stepAdvance, nothing meaningful for stepBacktrack/stepSuccess.
func (e *Engine) step(s *State, cur node.ID, pos int) (stepKind, node.ID, int, error) {
	n := e.Pattern.Node(cur)
	if n == nil {
		return 0, 0, 0, fmt.Errorf("vm: invalid node id %d", cur)
	}

	switch n.Op {
	case opcode.OpFailure:
		return stepBacktrack, 0, 0, nil

	case opcode.OpSuccess:
		if s.MustAdvance && pos == s.SearchAnchor {
			return stepBacktrack, 0, 0, nil
		}
		if s.MatchAll && pos != s.Cursor.SliceEnd() {
			return stepBacktrack, 0, 0, nil
		}
		return stepSuccess, 0, 0, nil

	case opcode.OpAny, opcode.OpAnyAll, opcode.OpAnyU, opcode.OpCharacter, opcode.OpCharacterIgn,
		opcode.OpProperty, opcode.OpRange, opcode.OpSetUnion, opcode.OpSetInter, opcode.OpSetDiff, opcode.OpSetSymDiff:
		ch, valid := charAt(s.Cursor, pos)
		if valid && matchLeaf(e.Pattern.Encoding, n, ch) {
			return stepAdvance, n.Next1, pos + 1, nil
		}
		return e.onLeafMismatch(s, cur, n, pos)

	case opcode.OpString, opcode.OpStringFld:
		fold := n.Op == opcode.OpStringFld
		res := matchLiteral(e.Pattern.Encoding, s.Cursor, e.Pattern.Strings, n, pos, fold)
		if res.ok {
			return stepAdvance, n.Next1, pos + res.width, nil
		}
		return e.onLeafMismatch(s, cur, n, pos)

	case opcode.OpStringSet, opcode.OpStringSetIgn, opcode.OpStringSetFld:
		return e.stepStringSet(s, cur, n, pos)

	case opcode.OpRefGroup, opcode.OpRefGroupFld:
		span := s.Captures.Get(n.GroupIndex)
		fold := n.Op == opcode.OpRefGroupFld
		res := matchBackref(e.Pattern.Encoding, s.Cursor, span.Start, span.End, pos, fold)
		if res.ok {
			return stepAdvance, n.Next1, pos + res.width, nil
		}
		return e.onLeafMismatch(s, cur, n, pos)

	case opcode.OpBoundary, opcode.OpDefaultBoundary, opcode.OpStartOfWord, opcode.OpEndOfWord,
		opcode.OpDefaultStartOfWord, opcode.OpDefaultEndOfWord, opcode.OpGraphemeBoundary,
		opcode.OpStartOfLine, opcode.OpEndOfLine, opcode.OpStartOfString, opcode.OpEndOfString,
		opcode.OpEndOfStringLine, opcode.OpSearchAnchor:
		if e.testAssertion(s, n, pos) {
			return stepAdvance, n.Next1, pos, nil
		}
		return stepBacktrack, 0, 0, nil

	case opcode.OpBranch:
		if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindBranch, Pos: pos, ReturnNode: n.Next2}); err != nil {
			return 0, 0, 0, err
		}
		return stepAdvance, n.Next1, pos, nil

	case opcode.OpGroup:
		if n.GroupIndex >= 0 {
			s.groupStart[n.GroupIndex] = pos
		}
		return stepAdvance, n.Next1, pos, nil

	case opcode.OpEnd:
		return e.stepEnd(s, n, pos)

	case opcode.OpGroupExists:
		if s.Captures.Get(n.GroupIndex).Unset() {
			return stepBacktrack, 0, 0, nil
		}
		return stepAdvance, n.Next1, pos, nil

	case opcode.OpGreedyRepeat, opcode.OpLazyRepeat:
		return e.stepRepeatStart(s, cur, n, pos)

	case opcode.OpEndGreedyRepeat, opcode.OpEndLazyRepeat:
		return e.stepRepeatEnd(s, n, pos)

	case opcode.OpGreedyRepeatOne:
		return e.stepGreedyRepeatOne(s, cur, n, pos)

	case opcode.OpLazyRepeatOne:
		return e.stepLazyRepeatOne(s, cur, n, pos)

	case opcode.OpAtomic:
		if len(s.subMarks) >= e.Config.MaxRecursionDepth {
			return 0, 0, 0, fmt.Errorf("vm: recursion depth exceeded")
		}
		mark := s.Backtrack.Len()
		s.SavedStates.Push(e.saveSubpattern(s, cur))
		s.pushSub(mark, pos)
		if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindAtomic, Node: cur, Pos: pos}); err != nil {
			return 0, 0, 0, err
		}
		return stepAdvance, n.Next1, pos, nil

	case opcode.OpLookaround:
		if len(s.subMarks) >= e.Config.MaxRecursionDepth {
			return 0, 0, 0, fmt.Errorf("vm: recursion depth exceeded")
		}
		mark := s.Backtrack.Len()
		s.SavedStates.Push(e.saveSubpattern(s, cur))
		s.pushSub(mark, pos)
		positive := 0
		if n.Flags&opcode.FlagPositive != 0 {
			positive = 1
		}
		if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindLookaround, Node: cur, Pos: pos,
			Count: positive, ReturnNode: n.Next2}); err != nil {
			return 0, 0, 0, err
		}
		return stepAdvance, n.Next1, pos, nil

	case opcode.OpFuzzy:
		acc := &s.Fuzzy.Sections[n.FuzzySection]
		*acc = fuzzy.Accumulator{Limits: decodeLimits(n.Values)}
		s.fuzzyStack = append(s.fuzzyStack, n.FuzzySection)
		return stepAdvance, n.Next1, pos, nil

	case opcode.OpEndFuzzy:
		acc := &s.Fuzzy.Sections[n.FuzzySection]
		acc.CheckMinimums(decodeMinCounts(n.Values))
		if acc.TooFewErrors {
			s.TooFewErrors = true
		}
		if len(s.fuzzyStack) > 0 {
			s.fuzzyStack = s.fuzzyStack[:len(s.fuzzyStack)-1]
		}
		return stepAdvance, n.Next1, pos, nil

	case opcode.OpCallRef:
		return stepAdvance, n.Next1, pos, nil

	case opcode.OpGroupCall:
		return e.stepGroupCall(s, n, pos)

	case opcode.OpGroupReturn:
		return e.stepGroupReturn(s, n, pos)

	default:
		return 0, 0, 0, fmt.Errorf("vm: unsupported opcode %s", n.Op)
	}
}

// stepEnd handles every OpEnd node: its meaning (group close, atomic
// commit, lookaround commit) depends on the opener it is Paired with,
// since all three share the one closing opcode on the wire.
func (e *Engine) stepEnd(s *State, n *node.Node, pos int) (stepKind, node.ID, int, error) {
	open := e.Pattern.Node(n.Paired)
	if open == nil {
		return 0, 0, 0, fmt.Errorf("vm: END node missing opener")
	}

	switch open.Op {
	case opcode.OpGroup:
		idx := n.GroupIndex
		if idx < 0 {
			return stepAdvance, n.Next1, pos, nil
		}
		prev := s.Captures.Get(idx)
		histLen := len(s.Captures.History(idx))
		span := capture.Span{Start: s.groupStart[idx], End: pos}
		s.Captures = s.Captures.SetCurrent(idx, span, true)
		if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindGroup, GroupIndex: idx, Pos: histLen, GroupSpan: prev}); err != nil {
			return 0, 0, 0, err
		}
		return stepAdvance, n.Next1, pos, nil

	case opcode.OpAtomic:
		mark, _ := s.popSub()
		s.Backtrack.TruncateTo(mark)
		e.resetSubpatternGuards(s, n.Paired)
		// The speculative run committed, but an outer backtrack can still
		// reach back past it later (e.g. a repeat giving back this whole
		// iteration): leave the entry snapshot on SavedStates and push a
		// record that rolls back to it instead of just discarding it.
		if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindSubpatternCommit, Node: n.Paired}); err != nil {
			return 0, 0, 0, err
		}
		return stepAdvance, n.Next1, pos, nil

	case opcode.OpLookaround:
		mark, entryPos := s.popSub()
		s.Backtrack.TruncateTo(mark)
		e.resetSubpatternGuards(s, n.Paired)
		if open.Flags&opcode.FlagPositive != 0 {
			if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindSubpatternCommit, Node: n.Paired}); err != nil {
				return 0, 0, 0, err
			}
			return stepAdvance, open.Next2, entryPos, nil
		}
		frame, _ := s.SavedStates.Pop()
		e.restoreSubpattern(s, n.Paired, frame)
		return stepBacktrack, 0, 0, nil

	default:
		return 0, 0, 0, fmt.Errorf("vm: END paired with unexpected opener %s", open.Op)
	}
}

// resetSubpatternGuards clears the body/tail guards of every repeat nested
// inside the ATOMIC/LOOKAROUND rooted at start, now that the subpattern has
// committed: a guard set during this pass is scoped to this one attempt and
// must not block a legitimate re-match on a later attempt at the same
// position (spec §4.3 post-pass 3, §4.6). Fuzzy accumulators nested inside
// are left alone since their cost is meant to carry past the commit.
func (e *Engine) resetSubpatternGuards(s *State, start node.ID) {
	if indices, ok := e.Pattern.SubpatternRepeats[start]; ok {
		s.Repeats.ResetGuards(indices)
	}
}

// onLeafMismatch is reached whenever a character-consuming leaf node fails
// its exact test; inside an active fuzzy section it tries substitution,
// then insertion, then deletion before giving up (spec §4.10 retry order).
func (e *Engine) onLeafMismatch(s *State, cur node.ID, n *node.Node, pos int) (stepKind, node.ID, int, error) {
	if len(s.fuzzyStack) == 0 {
		return stepBacktrack, 0, 0, nil
	}
	section := s.fuzzyStack[len(s.fuzzyStack)-1]
	acc := &s.Fuzzy.Sections[section]
	e.Stats.addFuzzyAttempt()
	rc, rp, ok, err := e.tryFuzzyKind(s, acc, section, fuzzy.Substitution, cur, n, pos)
	if err != nil {
		return 0, 0, 0, err
	}
	if !ok {
		return stepBacktrack, 0, 0, nil
	}
	return stepAdvance, rc, rp, nil
}

// tryFuzzyKind attempts kind (or, if its budget is spent, the next kind in
// the SUB->INS->DEL order) at pos, pushing a backtrack.Entry so a later
// failure can retry with the next kind in turn (spec §4.10).
// fuzzyWithinBudget layers the top-level BESTMATCH/ENHANCEMATCH cost cap
// (State.MaxCost, spec §4.4 "lowering max_cost = total_cost - 1") on top
// of the section's own per-FUZZY-node limits.
func (e *Engine) fuzzyWithinBudget(s *State, acc *fuzzy.Accumulator, kind fuzzy.Kind) bool {
	if !acc.CanApply(kind) {
		return false
	}
	if s.MaxCost < 0 {
		return true
	}
	added := 0
	switch kind {
	case fuzzy.Substitution:
		added = acc.Limits.SubCost
	case fuzzy.Insertion:
		added = acc.Limits.InsCost
	case fuzzy.Deletion:
		added = acc.Limits.DelCost
	}
	total := added
	for i := range s.Fuzzy.Sections {
		if &s.Fuzzy.Sections[i] == acc {
			total += acc.TotalCost
		} else {
			total += s.Fuzzy.Sections[i].TotalCost
		}
	}
	return total <= s.MaxCost
}

func (e *Engine) tryFuzzyKind(s *State, acc *fuzzy.Accumulator, section int, kind fuzzy.Kind, cur node.ID, n *node.Node, pos int) (node.ID, int, bool, error) {
	for {
		if e.fuzzyWithinBudget(s, acc, kind) {
			switch kind {
			case fuzzy.Substitution, fuzzy.Insertion:
				if s.Cursor.InBounds(pos) {
					snap := acc.Save()
					acc.Apply(kind)
					if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindFuzzyItem, Node: cur, Pos: pos,
						RepeatIndex: section, FuzzyKind: kind, FuzzySnapshot: snap}); err != nil {
						return 0, 0, false, err
					}
					if kind == fuzzy.Substitution {
						return n.Next1, pos + 1, true, nil
					}
					return cur, pos + 1, true, nil
				}
			case fuzzy.Deletion:
				snap := acc.Save()
				acc.Apply(kind)
				if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindFuzzyItem, Node: cur, Pos: pos,
					RepeatIndex: section, FuzzyKind: kind, FuzzySnapshot: snap}); err != nil {
					return 0, 0, false, err
				}
				return n.Next1, pos, true, nil
			}
		}
		next, ok := fuzzy.NextKind(kind)
		if !ok {
			return 0, 0, false, nil
		}
		kind = next
	}
}

func decodeLimits(v []int32) fuzzy.Limits {
	return fuzzy.Limits{
		MaxSub: int(v[0]), MaxIns: int(v[1]), MaxDel: int(v[2]), MaxErr: int(v[3]),
		SubCost: int(v[4]), InsCost: int(v[5]), DelCost: int(v[6]), MaxCost: int(v[7]),
	}
}

func decodeMinCounts(v []int32) fuzzy.MinCounts {
	return fuzzy.MinCounts{MinSub: int(v[0]), MinIns: int(v[1]), MinDel: int(v[2]), MinErr: int(v[3])}
}

// stepStringSet handles the STRING_SET family (spec §4.9): probe the set
// for the longest member present at pos, falling back to a partial-prefix
// probe when partial matching is on and the remaining text runs out before
// MinLen.
func (e *Engine) stepStringSet(s *State, cur node.ID, n *node.Node, pos int) (stepKind, node.ID, int, error) {
	matcher, err := e.stringSetFor(n.NamedListIndex)
	if err != nil {
		return 0, 0, 0, err
	}
	if matcher == nil {
		return stepBacktrack, 0, 0, nil
	}
	buf := readUTF8(s.Cursor, pos, n.MaxLen)
	fold := n.Op == opcode.OpStringSetIgn || n.Op == opcode.OpStringSetFld
	_ = fold // case handling is delegated to the members list the pattern compiled in; no separate fold path here
	if byteLen := matcher.Match(buf); byteLen > 0 {
		width := runeCountForBytes(s.Cursor, pos, byteLen)
		return stepAdvance, n.Next1, pos + width, nil
	}
	if s.Cursor.PartialSide() != cursor.PartialNone && len(buf) < matcher.MinLen() && matcher.MatchPartial(buf) {
		return stepAdvance, n.Next1, pos + len(buf), nil
	}
	return e.onLeafMismatch(s, cur, n, pos)
}

// stepGroupCall/stepGroupReturn implement whole-pattern self-recursion
// (spec §4.4 "recursive subpattern calls"): the called-into body is the
// pattern's own start (or its registered PatternCallRef definition), and
// GROUP_RETURN resumes at the call site. A simplification from the full
// spec: repeat counters are not snapshotted/restored per call frame, since
// named-subroutine recursion is out of this build's reach without a richer
// CALL_REF wire encoding (see DESIGN.md).
func (e *Engine) stepGroupCall(s *State, n *node.Node, pos int) (stepKind, node.ID, int, error) {
	if s.Calls.Depth() >= e.Config.MaxRecursionDepth {
		return 0, 0, 0, fmt.Errorf("vm: recursion depth exceeded")
	}
	target := e.Pattern.StartNode
	if ref := e.Pattern.PatternCallRef; ref >= 0 && ref < len(e.Pattern.CallRefInfo) {
		if info := e.Pattern.CallRefInfo[ref]; info.Defined {
			target = info.DefiningNode
		}
	}
	s.Calls.Push(groupcall.Frame{ReturnNode: n.Next1, Groups: s.Captures.Save()})
	if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindGroupCall, Pos: pos}); err != nil {
		return 0, 0, 0, err
	}
	return stepAdvance, target, pos, nil
}

func (e *Engine) stepGroupReturn(s *State, n *node.Node, pos int) (stepKind, node.ID, int, error) {
	frame, ok := s.Calls.Pop()
	if !ok {
		return stepBacktrack, 0, 0, nil
	}
	if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindGroupReturn}); err != nil {
		return 0, 0, 0, err
	}
	return stepAdvance, frame.ReturnNode, pos, nil
}

// backtrack pops choice points until one yields a resume point, or the
// stack empties (overall match failure).
func (e *Engine) backtrack(s *State) (node.ID, int, bool, error) {
	for {
		entry, ok := s.Backtrack.Pop()
		if !ok {
			return 0, 0, false, nil
		}
		e.Stats.addBacktrackStep()
		cur, pos, resume, err := e.applyBacktrack(s, entry)
		if err != nil {
			return 0, 0, false, err
		}
		if resume {
			return cur, pos, true, nil
		}
	}
}

func (e *Engine) applyBacktrack(s *State, entry backtrack.Entry) (node.ID, int, bool, error) {
	switch entry.Kind {
	case backtrack.KindBranch:
		return entry.ReturnNode, entry.Pos, true, nil

	case backtrack.KindGroup:
		s.Captures = s.Captures.TruncateHistory(entry.GroupIndex, entry.Pos)
		s.Captures = s.Captures.SetCurrent(entry.GroupIndex, entry.GroupSpan, false)
		return 0, 0, false, nil

	case backtrack.KindMatchTail:
		rd := &s.Repeats.Repeats[entry.RepeatIndex]
		rd.Count = entry.Count
		rd.Start = entry.GroupSpan.Start
		rd.CaptureChange = entry.CaptureChange
		if info := e.Pattern.RepeatInfo[entry.RepeatIndex]; info.NeedsTailGuard {
			rd.TailGuards.Insert(entry.Pos, entry.Pos+1, true)
		}
		start := e.Pattern.Node(entry.Node)
		return start.Next2, entry.Pos, true, nil

	case backtrack.KindMatchBody:
		rd := &s.Repeats.Repeats[entry.RepeatIndex]
		rd.Count = entry.Count
		rd.Start = entry.Pos
		rd.CaptureChange = entry.CaptureChange
		if info := e.Pattern.RepeatInfo[entry.RepeatIndex]; info.NeedsBodyGuard {
			rd.BodyGuards.Insert(entry.Pos, entry.Pos+1, true)
		}
		start := e.Pattern.Node(entry.Node)
		return start.Next1, entry.Pos, true, nil

	case backtrack.KindGreedyRepeatOne, backtrack.KindLazyRepeatOne:
		return e.applyRepeatOneBacktrack(s, entry)

	case backtrack.KindAtomic:
		frame, _ := s.SavedStates.Pop()
		e.restoreSubpattern(s, entry.Node, frame)
		s.popSub()
		return 0, 0, false, nil

	case backtrack.KindLookaround:
		frame, _ := s.SavedStates.Pop()
		e.restoreSubpattern(s, entry.Node, frame)
		s.popSub()
		if entry.Count == 1 {
			return 0, 0, false, nil
		}
		return entry.ReturnNode, entry.Pos, true, nil

	case backtrack.KindSubpatternCommit:
		frame, _ := s.SavedStates.Pop()
		e.restoreSubpattern(s, entry.Node, frame)
		return 0, 0, false, nil

	case backtrack.KindFuzzyItem:
		acc := &s.Fuzzy.Sections[entry.RepeatIndex]
		acc.Restore(entry.FuzzySnapshot)
		next, ok := fuzzy.NextKind(entry.FuzzyKind)
		if !ok {
			return 0, 0, false, nil
		}
		n := e.Pattern.Node(entry.Node)
		return e.tryFuzzyKind(s, acc, entry.RepeatIndex, next, entry.Node, n, entry.Pos)

	case backtrack.KindGroupCall:
		s.Calls.Pop()
		return 0, 0, false, nil

	case backtrack.KindGroupReturn:
		return 0, 0, false, nil

	default:
		return 0, 0, false, fmt.Errorf("vm: unknown backtrack kind %d", entry.Kind)
	}
}
