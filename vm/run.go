package vm

import (
	"context"

	"github.com/brexlang/brex/capture"
	"github.com/brexlang/brex/cursor"
	"github.com/brexlang/brex/fuzzy"
	"github.com/brexlang/brex/opcode"
	"github.com/brexlang/brex/repeatstate"
)

// Find drives one top-level search over cur starting no earlier than
// from, advancing the anchor position until a match is found or the
// slice is exhausted (spec §4.4, §4.8). s must already be sized for this
// Engine's pattern (obtained via Engine.Get). The returned bool is false
// (with a nil error) on an ordinary no-match; a non-nil error signals
// either a resource-budget overrun or ctx cancellation.
func (e *Engine) Find(ctx context.Context, s *State, cur *cursor.Cursor, from int) (Match, bool, error) {
	e.Stats.addSearch()
	s.Cursor = cur

	improving := e.Pattern.IsFuzzy && e.Pattern.Flags&(opcode.FlagBestMatch|opcode.FlagEnhanceMatch) != 0

	var text []rune
	if e.reqTable != nil {
		text = materializeRunes(cur)
	}

	base := cur.SliceStart()
	reqOffset := int(e.Pattern.ReqOffset)
	anchor := from
	limit := cur.SliceEnd()
	for anchor <= limit {
		if e.reqTable != nil {
			searchFrom := anchor + reqOffset - base
			if searchFrom < 0 {
				searchFrom = 0
			}
			hit := e.reqTable.Find(text, searchFrom)
			if hit < 0 {
				e.Stats.addRequiredStringMiss()
				return Match{}, false, nil
			}
			e.Stats.addRequiredStringHit()
			if candidate := hit - reqOffset + base; candidate > anchor {
				anchor = candidate
			}
		}

		s.MaxCost = -1
		m, ok, err := e.attempt(ctx, s, anchor)
		if err != nil {
			return Match{}, false, err
		}
		if ok {
			if improving {
				m = e.enhance(ctx, s, anchor, m)
			}
			return m, true, nil
		}
		if !e.Pattern.DoSearchStart {
			return Match{}, false, nil
		}
		anchor++
	}
	return Match{}, false, nil
}

// MatchAt runs a single anchored attempt at pos, without Find's forward
// search-start scanning: spec §6.2's `match`/`fullmatch` operations never
// probe past pos looking for a different start position. When matchAll is
// true, the attempt additionally requires the match to reach the cursor's
// active slice end, which is what distinguishes `fullmatch` from `match`
// (spec §6.2 "requires text_pos == slice_end on success").
func (e *Engine) MatchAt(ctx context.Context, s *State, cur *cursor.Cursor, pos int, matchAll bool) (Match, bool, error) {
	e.Stats.addSearch()
	s.Cursor = cur
	s.MatchAll = matchAll
	s.MaxCost = -1
	m, ok, err := e.attempt(ctx, s, pos)
	if err != nil {
		return Match{}, false, err
	}
	if !ok {
		return Match{}, false, nil
	}
	if e.Pattern.IsFuzzy && e.Pattern.Flags&(opcode.FlagBestMatch|opcode.FlagEnhanceMatch) != 0 {
		m = e.enhance(ctx, s, pos, m)
	}
	return m, true, nil
}

// enhance implements BESTMATCH/ENHANCEMATCH (spec §4.4): once a fuzzy
// match is found, keep re-attempting from the same anchor with the cost
// ceiling lowered by one, keeping the cheapest match found, until no
// cheaper attempt succeeds. Under BESTMATCH each retry keeps the whole
// active slice but still starts only at the same anchor; no other start
// position is searched for a cheaper match. ENHANCEMATCH instead narrows
// the slice to [match_pos, text_pos] on each retry, squeezing the
// existing hit.
func (e *Engine) enhance(ctx context.Context, s *State, anchor int, best Match) Match {
	narrow := e.Pattern.Flags&opcode.FlagBestMatch == 0 && e.Pattern.Flags&opcode.FlagEnhanceMatch != 0
	if narrow {
		origStart, origEnd := s.Cursor.SliceStart(), s.Cursor.SliceEnd()
		defer s.Cursor.SetSlice(origStart, origEnd)
	}
	for best.Cost > 0 {
		if narrow {
			s.Cursor.SetSlice(anchor, best.Span.End)
		}
		s.MaxCost = best.Cost - 1
		m, ok, err := e.attempt(ctx, s, anchor)
		if err != nil || !ok {
			break
		}
		best = m
	}
	return best
}

// attempt runs one full backtracking search starting at pos, returning
// the resulting Match on success.
func (e *Engine) attempt(ctx context.Context, s *State, pos int) (Match, bool, error) {
	s.resetAttempt(pos)

	cur := e.Pattern.StartNode
	curPos := pos
	for {
		if s.checkpoint(e.Config.CheckpointInterval) {
			select {
			case <-ctx.Done():
				e.Stats.addInterrupted()
				return Match{}, false, ctx.Err()
			default:
			}
		}

		kind, nextCur, nextPos, err := e.step(s, cur, curPos)
		if err != nil {
			return Match{}, false, err
		}
		switch kind {
		case stepAdvance:
			cur, curPos = nextCur, nextPos
		case stepSuccess:
			return Match{
				Span:    capture.Span{Start: pos, End: curPos},
				Groups:  s.Captures.Finalize(),
				Cost:    s.totalFuzzyCost(),
				Partial: partialHit(s.Cursor, pos, curPos),
			}, true, nil
		case stepBacktrack:
			rc, rp, ok, err := e.backtrack(s)
			if err != nil {
				return Match{}, false, err
			}
			if !ok {
				return Match{}, false, nil
			}
			cur, curPos = rc, rp
		}
	}
}

// resetAttempt clears everything that must not leak between successive
// top-level attempts sharing one pooled State (different anchors, or
// BESTMATCH/ENHANCEMATCH retries), without touching the slice-sized
// allocations state.go's reset already sized correctly.
func (s *State) resetAttempt(pos int) {
	s.Backtrack.Reset()
	s.SavedStates.Reset()
	s.Calls.Reset()
	s.Captures = capture.New(s.Captures.GroupCount())
	for i := range s.groupStart {
		s.groupStart[i] = 0
	}
	s.fuzzyStack = s.fuzzyStack[:0]
	s.subMarks = s.subMarks[:0]
	s.subPos = s.subPos[:0]
	s.subSliceStart = s.subSliceStart[:0]
	s.subSliceEnd = s.subSliceEnd[:0]
	s.subMustAdvance = s.subMustAdvance[:0]
	if s.Repeats != nil {
		for i := range s.Repeats.Repeats {
			s.Repeats.Repeats[i] = repeatstate.RepeatData{}
		}
	}
	if s.Fuzzy != nil {
		for i := range s.Fuzzy.Sections {
			s.Fuzzy.Sections[i] = fuzzy.Accumulator{}
		}
	}
	s.TooFewErrors = false
	s.MatchPos = pos
	s.SearchAnchor = pos
}

func (s *State) totalFuzzyCost() int {
	if s.Fuzzy == nil {
		return 0
	}
	total := 0
	for i := range s.Fuzzy.Sections {
		total += s.Fuzzy.Sections[i].TotalCost
	}
	return total
}

// partialHit reports whether a match reached the edge of the cursor's
// active slice on the side PartialSide designates, meaning the match might
// have continued had more text been available there (spec §4.2).
func partialHit(cur *cursor.Cursor, start, end int) bool {
	switch cur.PartialSide() {
	case cursor.PartialLeft:
		return start <= cur.SliceStart()
	case cursor.PartialRight:
		return end >= cur.SliceEnd()
	default:
		return false
	}
}

// materializeRunes copies the cursor's active slice into a []rune, the
// shape package search's Boyer-Moore tables operate on (spec §4.7). This
// re-decodes the slice once per Find call rather than caching it on the
// Cursor, trading a little redundant work across retries for not having
// to plumb a cache-invalidation path into package cursor.
func materializeRunes(cur *cursor.Cursor) []rune {
	out := make([]rune, 0, cur.SliceEnd()-cur.SliceStart())
	for pos := cur.SliceStart(); pos < cur.SliceEnd(); pos++ {
		out = append(out, cur.CharAt(pos))
	}
	return out
}
