package vm

import (
	"github.com/brexlang/brex/backtrack"
	"github.com/brexlang/brex/capture"
	"github.com/brexlang/brex/node"
	"github.com/brexlang/brex/opcode"
	"github.com/brexlang/brex/repeatstate"
)

// stepRepeatStart handles GREEDY_REPEAT/LAZY_REPEAT (spec §4.2): it is
// visited exactly once per repeat attempt (iterations loop directly
// between the body and the END node, bypassing this node), so its only
// job is to initialize the repeat counter and, when Min is 0, record the
// zero-iteration fallback or (lazy) take it immediately.
func (e *Engine) stepRepeatStart(s *State, cur node.ID, n *node.Node, pos int) (stepKind, node.ID, int, error) {
	rd := &s.Repeats.Repeats[n.RepeatIndex]
	rd.Start = pos
	rd.CaptureChange = s.Captures.ChangeCounter()
	rd.Count = 0

	if n.Min > 0 {
		return stepAdvance, n.Next1, pos, nil
	}

	if n.Op == opcode.OpLazyRepeat {
		if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindMatchBody, Node: cur, Pos: pos,
			RepeatIndex: n.RepeatIndex, Count: 0, CaptureChange: rd.CaptureChange}); err != nil {
			return 0, 0, 0, err
		}
		return stepAdvance, n.Next2, pos, nil
	}

	if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindMatchTail, Node: cur, Pos: pos,
		RepeatIndex: n.RepeatIndex, Count: 0, CaptureChange: rd.CaptureChange, GroupSpan: capture.Span{Start: pos}}); err != nil {
		return 0, 0, 0, err
	}
	return stepAdvance, n.Next1, pos, nil
}

// stepRepeatEnd handles END_GREEDY_REPEAT/END_LAZY_REPEAT, reached after
// every completed body iteration. n.Paired is the repeat's START node,
// which carries Min/Max and the deferred tail continuation at Next2.
func (e *Engine) stepRepeatEnd(s *State, n *node.Node, pos int) (stepKind, node.ID, int, error) {
	start := e.Pattern.Node(n.Paired)
	rd := &s.Repeats.Repeats[start.RepeatIndex]
	var info node.RepeatInfo
	if idx := start.RepeatIndex; idx >= 0 && idx < len(e.Pattern.RepeatInfo) {
		info = e.Pattern.RepeatInfo[idx]
	}

	changed := pos != rd.Start || s.Captures.ChangeCounter() != rd.CaptureChange
	newCount := rd.Count + 1

	// A zero-width iteration that has already satisfied Min can never
	// usefully repeat again; stop looping rather than spin forever (spec
	// §3.2 "a repeat that matches zero-width infinitely must terminate").
	if !changed && newCount > start.Min {
		return stepAdvance, start.Next2, pos, nil
	}

	if start.Op == opcode.OpLazyRepeat {
		return e.stepLazyRepeatEnd(s, rd, start, info, newCount, pos)
	}
	return e.stepGreedyRepeatEnd(s, rd, start, info, newCount, pos)
}

func (e *Engine) stepGreedyRepeatEnd(s *State, rd *repeatstate.RepeatData, start *node.Node, info node.RepeatInfo, newCount, pos int) (stepKind, node.ID, int, error) {
	if newCount < start.Max {
		if newCount < start.Min {
			// The tail is not a valid exit until Min iterations are done.
		} else if !(info.NeedsTailGuard && rd.TailGuards.Guarded(pos, true)) {
			if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindMatchTail, Node: start.Paired, Pos: pos,
				RepeatIndex: start.RepeatIndex, Count: rd.Count, CaptureChange: rd.CaptureChange, GroupSpan: capture.Span{Start: rd.Start}}); err != nil {
				return 0, 0, 0, err
			}
		} else {
			e.Stats.addGuardHit()
		}
		rd.Count, rd.Start, rd.CaptureChange = newCount, pos, s.Captures.ChangeCounter()
		return stepAdvance, start.Next1, pos, nil
	}
	if info.NeedsTailGuard {
		rd.TailGuards.Insert(pos, pos+1, true)
	}
	rd.Count = newCount
	return stepAdvance, start.Next2, pos, nil
}

func (e *Engine) stepLazyRepeatEnd(s *State, rd *repeatstate.RepeatData, start *node.Node, info node.RepeatInfo, newCount, pos int) (stepKind, node.ID, int, error) {
	satisfiesMin := newCount >= start.Min
	if satisfiesMin {
		if newCount < start.Max {
			if !(info.NeedsBodyGuard && rd.BodyGuards.Guarded(pos, true)) {
				if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindMatchBody, Node: start.Paired, Pos: pos,
					RepeatIndex: start.RepeatIndex, Count: newCount, CaptureChange: s.Captures.ChangeCounter()}); err != nil {
					return 0, 0, 0, err
				}
			} else {
				e.Stats.addGuardHit()
			}
		} else if info.NeedsBodyGuard {
			rd.BodyGuards.Insert(pos, pos+1, true)
		}
		rd.Count, rd.Start, rd.CaptureChange = newCount, pos, s.Captures.ChangeCounter()
		return stepAdvance, start.Next2, pos, nil
	}
	rd.Count, rd.Start, rd.CaptureChange = newCount, pos, s.Captures.ChangeCounter()
	return stepAdvance, start.Next1, pos, nil
}

// stepGreedyRepeatOne/stepLazyRepeatOne implement the single-instruction-
// body specialization (spec §4.2 "repeat of a single character class
// collapses to a tight loop"): the body is known at compile time to
// consume exactly one cursor position per match, so the VM runs it as an
// inner loop instead of bouncing through the generic step dispatch once
// per character.
func (e *Engine) stepGreedyRepeatOne(s *State, cur node.ID, n *node.Node, pos int) (stepKind, node.ID, int, error) {
	body := e.Pattern.Node(n.Next1)
	count := 0
	for count < n.Max {
		ch, valid := charAt(s.Cursor, pos)
		if !valid || !matchLeaf(e.Pattern.Encoding, body, ch) {
			break
		}
		pos++
		count++
	}
	if count < n.Min {
		return stepBacktrack, 0, 0, nil
	}
	if count > n.Min {
		if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindGreedyRepeatOne, Node: cur,
			RepeatIndex: n.RepeatIndex, Pos: pos, Count: count}); err != nil {
			return 0, 0, 0, err
		}
	}
	return stepAdvance, n.Next2, pos, nil
}

func (e *Engine) stepLazyRepeatOne(s *State, cur node.ID, n *node.Node, pos int) (stepKind, node.ID, int, error) {
	body := e.Pattern.Node(n.Next1)
	count := 0
	for count < n.Min {
		ch, valid := charAt(s.Cursor, pos)
		if !valid || !matchLeaf(e.Pattern.Encoding, body, ch) {
			return stepBacktrack, 0, 0, nil
		}
		pos++
		count++
	}
	if count < n.Max {
		if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindLazyRepeatOne, Node: cur,
			RepeatIndex: n.RepeatIndex, Pos: pos, Count: count}); err != nil {
			return 0, 0, 0, err
		}
	}
	return stepAdvance, n.Next2, pos, nil
}

// applyRepeatOneBacktrack backs one REPEAT_ONE form off by a single
// character (greedy: give back the last char tried; lazy: consume one
// more) rather than re-running the whole inner loop.
func (e *Engine) applyRepeatOneBacktrack(s *State, entry backtrack.Entry) (node.ID, int, bool, error) {
	n := e.Pattern.Node(entry.Node)
	body := e.Pattern.Node(n.Next1)

	if entry.Kind == backtrack.KindGreedyRepeatOne {
		if entry.Count <= n.Min {
			return 0, 0, false, nil
		}
		newPos := entry.Pos - 1
		newCount := entry.Count - 1
		if newCount > n.Min {
			if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindGreedyRepeatOne, Node: entry.Node,
				RepeatIndex: n.RepeatIndex, Pos: newPos, Count: newCount}); err != nil {
				return 0, 0, false, err
			}
		}
		return n.Next2, newPos, true, nil
	}

	// lazy: try consuming one more character of the body at the position
	// this entry was pushed from.
	ch, valid := charAt(s.Cursor, entry.Pos)
	if !valid || !matchLeaf(e.Pattern.Encoding, body, ch) {
		return 0, 0, false, nil
	}
	newPos := entry.Pos + 1
	newCount := entry.Count + 1
	if newCount < n.Max {
		if err := e.pushEntry(s, backtrack.Entry{Kind: backtrack.KindLazyRepeatOne, Node: entry.Node,
			RepeatIndex: n.RepeatIndex, Pos: newPos, Count: newCount}); err != nil {
			return 0, 0, false, err
		}
	}
	return n.Next2, newPos, true, nil
}
