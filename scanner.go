package brex

import (
	"context"

	"github.com/brexlang/brex/cursor"
	"github.com/brexlang/brex/vm"
)

// Scanner walks successive matches of a pattern over one fixed text,
// retaining a single vm.State across calls instead of borrowing a fresh
// one per search (spec §3.3, §6.4). A Scanner is not safe for concurrent
// use; each goroutine needs its own.
type Scanner struct {
	re         *Regex
	state      *vm.State
	cur        *cursor.Cursor
	view       runeView
	raw        []byte
	pos        int // next byte offset to search from
	overlapped bool
	match      vm.Match
	ok         bool
}

// NewScanner returns a Scanner over text, ready to walk successive matches
// of re starting at the beginning of text.
func (r *Regex) NewScanner(text string) *Scanner {
	view := decodeRunes([]byte(text))
	return &Scanner{
		re:    r,
		state: r.engine.Get(),
		cur:   cursor.NewRunes(view.runes),
		view:  view,
		raw:   []byte(text),
	}
}

// SetOverlapped controls whether successive Scan calls may return matches
// that start before the previous match ended, each shifted by one
// codepoint (spec §4.4's FindAll "overlapped" mode, §8.2 example 8).
func (s *Scanner) SetOverlapped(overlapped bool) { s.overlapped = overlapped }

// Close returns the Scanner's retained State to its engine's pool. Callers
// that run a Scanner to exhaustion (Scan returns false) do not need to
// call Close; it is safe to call more than once.
func (s *Scanner) Close() {
	if s.state != nil {
		s.re.engine.Put(s.state)
		s.state = nil
	}
}

// Scan advances to the next match, returning false once the text is
// exhausted. Match/MatchIndex/Groups report the result of the most recent
// successful Scan.
func (s *Scanner) Scan() bool {
	if s.state == nil {
		return false
	}
	runeFrom := 0
	for runeFrom < len(s.view.offsets)-1 && s.view.offsets[runeFrom] < s.pos {
		runeFrom++
	}
	if skip := s.re.prefix.skipTo(s.view.runes, runeFrom); skip != runeFrom {
		if skip < 0 {
			s.ok = false
			s.Close()
			return false
		}
		runeFrom = skip
	}
	m, ok, err := s.re.engine.Find(context.Background(), s.state, s.cur, runeFrom)
	if err != nil || !ok {
		s.ok = false
		s.Close()
		return false
	}
	s.match = m
	s.ok = true

	end := s.view.byteOffset(m.Span.End)
	if s.overlapped {
		// Shift by exactly one codepoint past the match start, so the next
		// Scan can find an overlapping hit (spec §8.2 example 8).
		s.pos = s.view.byteOffset(m.Span.Start + 1)
	} else if end > s.pos {
		s.pos = end
	} else {
		s.pos = s.view.byteOffset(runeFrom + 1)
	}
	return true
}

// Text returns the matched text of the most recent successful Scan.
func (s *Scanner) Text() string {
	if !s.ok {
		return ""
	}
	start, end := s.view.byteOffset(s.match.Span.Start), s.view.byteOffset(s.match.Span.End)
	return string(s.raw[start:end])
}

// Index returns the byte-offset span of the most recent successful Scan.
func (s *Scanner) Index() (start, end int) {
	if !s.ok {
		return -1, -1
	}
	return s.view.byteOffset(s.match.Span.Start), s.view.byteOffset(s.match.Span.End)
}

// Groups returns the capture groups of the most recent successful Scan, in
// FindStringSubmatch's shape (index 0 is the whole match).
//
// s.match.Groups reserves slot 0 for the whole match but never writes it
// (that span is tracked separately), so it is skipped here; see
// Regex.FindSubmatchIndex for the same convention.
func (s *Scanner) Groups() []string {
	if !s.ok {
		return nil
	}
	public := s.re.engine.Pattern.PublicGroupCount
	out := make([]string, public)
	ss, se := s.view.byteOffset(s.match.Span.Start), s.view.byteOffset(s.match.Span.End)
	out[0] = string(s.raw[ss:se])
	for i := 1; i < public && i < len(s.match.Groups); i++ {
		g := s.match.Groups[i]
		if g.Start < 0 {
			continue
		}
		gs, ge := s.view.byteOffset(g.Start), s.view.byteOffset(g.End)
		out[i] = string(s.raw[gs:ge])
	}
	return out
}
