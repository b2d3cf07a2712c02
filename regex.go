// Package brex provides a backtracking regular expression matching engine.
//
// brex executes an already-built node graph (see package node) over input
// text using a backtracking virtual machine (see package vm). It supports
// capture groups, fuzzy (approximate) matching, partial matches at slice
// boundaries, and recursive subpattern calls.
//
// Basic usage:
//
//	re, err := brex.Compile(`(\d+)-(\d+)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m := re.FindString("2024-11")
//	fmt.Println(m) // "2024-11"
package brex

import (
	"context"
	"unicode/utf8"

	"github.com/brexlang/brex/capture"
	"github.com/brexlang/brex/cursor"
	"github.com/brexlang/brex/vm"
)

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines: every
// top-level call borrows a fresh State from the engine's pool rather than
// sharing one (see Scanner/Splitter for the shared-State variant).
type Regex struct {
	engine  *vm.Engine
	pattern string
	prefix  *prefixFilter
}

// Compile compiles a regular expression pattern under the default config.
//
// Syntax is Perl-compatible (same front end as Go's stdlib regexp).
// Returns an error if the pattern is invalid.
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("brex: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom syntax/runtime config.
func CompileWithConfig(pattern string, cfg Config) (*Regex, error) {
	engine, err := buildEngine(pattern, cfg)
	if err != nil {
		return nil, err
	}
	return &Regex{engine: engine, pattern: pattern, prefix: buildPrefixFilter(pattern, cfg)}, nil
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string { return r.pattern }

// NumSubexp returns the number of parenthesized subexpressions (capture
// groups). Group 0 is the entire match.
func (r *Regex) NumSubexp() int { return r.engine.Pattern.PublicGroupCount - 1 }

// SubexpNames returns the names of the parenthesized subexpressions,
// indexed by group number; group 0 and unnamed groups report "".
func (r *Regex) SubexpNames() []string {
	names := make([]string, r.engine.Pattern.PublicGroupCount)
	for i, name := range r.engine.Pattern.IndexGroup {
		if i >= 0 && i < len(names) {
			names[i] = name
		}
	}
	return names
}

// SubexpIndex returns the index of the first subexpression named name, or
// -1 if there is no such named group.
func (r *Regex) SubexpIndex(name string) int {
	if idx, ok := r.engine.Pattern.GroupIndex[name]; ok {
		return idx
	}
	return -1
}

// runeView decodes b into runes once (the VM advances the cursor in
// codepoints, spec §4.2/§4.7), recording each rune's byte offset so match
// spans can be translated back for the stdlib-compatible []byte/string API.
type runeView struct {
	runes   []rune
	offsets []int // offsets[i] = byte offset rune i starts at; offsets[len(runes)] = len(b)
}

func decodeRunes(b []byte) runeView {
	v := runeView{runes: make([]rune, 0, len(b)), offsets: make([]int, 0, len(b)+1)}
	for i := 0; i < len(b); {
		ch, size := utf8.DecodeRune(b[i:])
		v.runes = append(v.runes, ch)
		v.offsets = append(v.offsets, i)
		i += size
	}
	v.offsets = append(v.offsets, len(b))
	return v
}

// byteOffset converts a rune index (as returned by vm.Match spans) back to
// a byte offset into the original slice.
func (v runeView) byteOffset(runeIdx int) int {
	if runeIdx < 0 {
		return -1
	}
	if runeIdx >= len(v.offsets) {
		return v.offsets[len(v.offsets)-1]
	}
	return v.offsets[runeIdx]
}

// findFrom runs one top-level search over b starting no earlier than byte
// offset from, returning the vm.Match (in rune-index spans) and the
// runeView used to translate it.
func (r *Regex) findFrom(b []byte, from int) (vm.Match, runeView, bool) {
	view := decodeRunes(b)
	runeFrom := 0
	for runeFrom < len(view.offsets)-1 && view.offsets[runeFrom] < from {
		runeFrom++
	}
	if skip := r.prefix.skipTo(view.runes, runeFrom); skip != runeFrom {
		if skip < 0 {
			return vm.Match{}, view, false
		}
		runeFrom = skip
	}
	s := r.engine.Get()
	defer r.engine.Put(s)
	cur := cursor.NewRunes(view.runes)
	m, ok, err := r.engine.Find(context.Background(), s, cur, runeFrom)
	if err != nil || !ok {
		return vm.Match{}, view, false
	}
	return m, view, true
}

// matchAt runs an anchored, non-scanning attempt at byte offset pos (spec
// §6.2's `match`/`fullmatch`, as opposed to findFrom's scanning `search`):
// it never probes past pos for a different start. endpos restricts the
// active slice's upper bound (byte offset into b; pass -1 for len(b)).
// When matchAll is true, the match must also reach that bound to succeed,
// which is what distinguishes fullmatch from match.
func (r *Regex) matchAt(b []byte, pos, endpos int, matchAll bool) (vm.Match, runeView, bool) {
	view := decodeRunes(b)
	runePos := 0
	for runePos < len(view.offsets)-1 && view.offsets[runePos] < pos {
		runePos++
	}
	runeEnd := len(view.runes)
	if endpos >= 0 {
		runeEnd = 0
		for runeEnd < len(view.offsets)-1 && view.offsets[runeEnd] < endpos {
			runeEnd++
		}
	}
	s := r.engine.Get()
	defer r.engine.Put(s)
	cur := cursor.NewRunes(view.runes)
	cur.SetSlice(0, runeEnd)
	m, ok, err := r.engine.MatchAt(context.Background(), s, cur, runePos, matchAll)
	if err != nil || !ok {
		return vm.Match{}, view, false
	}
	return m, view, true
}

func (v runeView) spanToBytes(sp capture.Span) []int {
	if sp.Start < 0 {
		return []int{-1, -1}
	}
	return []int{v.byteOffset(sp.Start), v.byteOffset(sp.End)}
}

// Match reports whether the byte slice b contains any match of the pattern.
func (r *Regex) Match(b []byte) bool {
	_, _, ok := r.findFrom(b, 0)
	return ok
}

// MatchString reports whether the string s contains any match of the pattern.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// Find returns a slice holding the text of the leftmost match in b, or nil.
func (r *Regex) Find(b []byte) []byte {
	loc := r.FindIndex(b)
	if loc == nil {
		return nil
	}
	return b[loc[0]:loc[1]]
}

// FindString returns the text of the leftmost match in s, or "".
func (r *Regex) FindString(s string) string {
	match := r.Find([]byte(s))
	if match == nil {
		return ""
	}
	return string(match)
}

// FindIndex returns a two-element slice giving the byte offsets of the
// leftmost match in b: b[loc[0]:loc[1]]. Returns nil if there is no match.
func (r *Regex) FindIndex(b []byte) []int {
	m, view, ok := r.findFrom(b, 0)
	if !ok {
		return nil
	}
	return view.spanToBytes(m.Span)
}

// FindStringIndex is FindIndex for strings.
func (r *Regex) FindStringIndex(s string) []int {
	return r.FindIndex([]byte(s))
}

// FindAll returns a slice of all successive non-overlapping matches in b.
// If n >= 0, it returns at most n matches; n < 0 returns all of them.
func (r *Regex) FindAll(b []byte, n int) [][]byte {
	locs := r.FindAllIndex(b, n)
	if locs == nil {
		return nil
	}
	out := make([][]byte, len(locs))
	for i, loc := range locs {
		out[i] = b[loc[0]:loc[1]]
	}
	return out
}

// FindAllString is FindAll for strings.
func (r *Regex) FindAllString(s string, n int) []string {
	matches := r.FindAll([]byte(s), n)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = string(m)
	}
	return out
}

// FindAllIndex returns the byte-offset pairs of all successive
// non-overlapping matches in b.
func (r *Regex) FindAllIndex(b []byte, n int) [][]int {
	if n == 0 {
		return nil
	}
	var out [][]int
	pos, prevEnd := 0, -1
	for {
		m, view, ok := r.findFrom(b, pos)
		if !ok {
			break
		}
		loc := view.spanToBytes(m.Span)
		start, end := loc[0], loc[1]
		if start != end || start != prevEnd { // skip an empty match abutting the previous one
			out = append(out, []int{start, end})
		}
		prevEnd = end
		if end > pos {
			pos = end
		} else {
			_, size := utf8.DecodeRune(b[pos:])
			if size == 0 {
				size = 1
			}
			pos += size
		}
		if pos > len(b) {
			break
		}
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// FindAllStringIndex is FindAllIndex for strings.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	return r.FindAllIndex([]byte(s), n)
}

// FindSubmatch returns the leftmost match and its capture groups.
// Result[0] is the entire match; unmatched groups are nil.
func (r *Regex) FindSubmatch(b []byte) [][]byte {
	loc := r.FindSubmatchIndex(b)
	if loc == nil {
		return nil
	}
	out := make([][]byte, len(loc)/2)
	for i := range out {
		s, e := loc[2*i], loc[2*i+1]
		if s < 0 {
			continue
		}
		out[i] = b[s:e]
	}
	return out
}

// FindStringSubmatch is FindSubmatch for strings.
func (r *Regex) FindStringSubmatch(s string) []string {
	matches := r.FindSubmatch([]byte(s))
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = string(m)
	}
	return out
}

// FindSubmatchIndex returns the byte-offset pairs for the leftmost match
// and its capture groups. Result[2*i:2*i+2] is group i's span; unmatched
// groups report [-1,-1].
//
// m.Groups is sized to the pattern's true (internal-inclusive) group count
// with slot 0 reserved but never written by the node graph (group 0 is
// tracked separately as the whole match), so it is skipped here; the
// result is truncated to the public group count to hide internal-only
// groups a pattern's expansion may have introduced.
func (r *Regex) FindSubmatchIndex(b []byte) []int {
	m, view, ok := r.findFrom(b, 0)
	if !ok {
		return nil
	}
	public := r.engine.Pattern.PublicGroupCount
	out := make([]int, 0, 2*public)
	out = append(out, view.spanToBytes(m.Span)...)
	for i := 1; i < public && i < len(m.Groups); i++ {
		out = append(out, view.spanToBytes(m.Groups[i])...)
	}
	return out
}

// FindStringSubmatchIndex is FindSubmatchIndex for strings.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	return r.FindSubmatchIndex([]byte(s))
}

// FindAllSubmatch is FindSubmatch applied to every successive
// non-overlapping match in b.
func (r *Regex) FindAllSubmatch(b []byte, n int) [][][]byte {
	locs := r.FindAllSubmatchIndex(b, n)
	if locs == nil {
		return nil
	}
	out := make([][][]byte, len(locs))
	for i, loc := range locs {
		groups := make([][]byte, len(loc)/2)
		for g := range groups {
			s, e := loc[2*g], loc[2*g+1]
			if s < 0 {
				continue
			}
			groups[g] = b[s:e]
		}
		out[i] = groups
	}
	return out
}

// FindAllStringSubmatch is FindAllSubmatch for strings.
func (r *Regex) FindAllStringSubmatch(s string, n int) [][]string {
	matches := r.FindAllSubmatch([]byte(s), n)
	if matches == nil {
		return nil
	}
	out := make([][]string, len(matches))
	for i, groups := range matches {
		row := make([]string, len(groups))
		for g, gb := range groups {
			row[g] = string(gb)
		}
		out[i] = row
	}
	return out
}

// FindAllSubmatchIndex is FindSubmatchIndex applied to every successive
// non-overlapping match in b.
func (r *Regex) FindAllSubmatchIndex(b []byte, n int) [][]int {
	if n == 0 {
		return nil
	}
	var out [][]int
	pos, prevEnd := 0, -1
	public := r.engine.Pattern.PublicGroupCount
	for {
		m, view, ok := r.findFrom(b, pos)
		if !ok {
			break
		}
		loc := view.spanToBytes(m.Span)
		for i := 1; i < public && i < len(m.Groups); i++ {
			loc = append(loc, view.spanToBytes(m.Groups[i])...)
		}
		if loc[0] != loc[1] || loc[0] != prevEnd { // skip an empty match abutting the previous one
			out = append(out, loc)
		}
		prevEnd = loc[1]
		if loc[1] > pos {
			pos = loc[1]
		} else {
			_, size := utf8.DecodeRune(b[pos:])
			if size == 0 {
				size = 1
			}
			pos += size
		}
		if pos > len(b) {
			break
		}
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// FindAllStringSubmatchIndex is FindAllSubmatchIndex for strings.
func (r *Regex) FindAllStringSubmatchIndex(s string, n int) [][]int {
	return r.FindAllSubmatchIndex([]byte(s), n)
}

// AnchoredMatch reports whether the pattern matches b starting exactly at
// byte offset pos, without scanning forward for a later start position
// (spec §6.2's `match`, as distinct from the scanning Match/Find family
// above, which implement `search`).
func (r *Regex) AnchoredMatch(b []byte, pos int) bool {
	_, _, ok := r.matchAt(b, pos, -1, false)
	return ok
}

// AnchoredMatchString is AnchoredMatch for strings.
func (r *Regex) AnchoredMatchString(s string, pos int) bool {
	return r.AnchoredMatch([]byte(s), pos)
}

// AnchoredMatchIndex is AnchoredMatch but returns the matched span's byte
// offsets, or nil if pos is not itself the start of a match.
func (r *Regex) AnchoredMatchIndex(b []byte, pos int) []int {
	m, view, ok := r.matchAt(b, pos, -1, false)
	if !ok {
		return nil
	}
	return view.spanToBytes(m.Span)
}

// AnchoredMatchSubmatchIndex is AnchoredMatchIndex plus capture group spans,
// shaped like FindSubmatchIndex.
func (r *Regex) AnchoredMatchSubmatchIndex(b []byte, pos int) []int {
	return r.anchoredSubmatchIndex(b, pos, -1, false)
}

// AnchoredFullmatch reports whether the pattern matches b starting exactly
// at byte offset pos and, unlike AnchoredMatch, only succeeds if that match
// also consumes through the end of b (spec §6.2's `fullmatch`).
func (r *Regex) AnchoredFullmatch(b []byte, pos int) bool {
	_, _, ok := r.matchAt(b, pos, -1, true)
	return ok
}

// AnchoredFullmatchString is AnchoredFullmatch for strings.
func (r *Regex) AnchoredFullmatchString(s string, pos int) bool {
	return r.AnchoredFullmatch([]byte(s), pos)
}

// AnchoredFullmatchIndex is AnchoredFullmatch but returns the matched span's
// byte offsets, or nil.
func (r *Regex) AnchoredFullmatchIndex(b []byte, pos int) []int {
	m, view, ok := r.matchAt(b, pos, -1, true)
	if !ok {
		return nil
	}
	return view.spanToBytes(m.Span)
}

// AnchoredFullmatchSubmatchIndex is AnchoredFullmatchIndex plus capture
// group spans.
func (r *Regex) AnchoredFullmatchSubmatchIndex(b []byte, pos int) []int {
	return r.anchoredSubmatchIndex(b, pos, -1, true)
}

// AnchoredMatchWithin is AnchoredMatch restricted to b[:endpos] (spec
// §6.2's endpos parameter), letting a caller match within a bounded window
// of a larger buffer without copying a substring.
func (r *Regex) AnchoredMatchWithin(b []byte, pos, endpos int) bool {
	_, _, ok := r.matchAt(b, pos, endpos, false)
	return ok
}

// AnchoredFullmatchWithin is AnchoredFullmatch restricted to b[:endpos].
func (r *Regex) AnchoredFullmatchWithin(b []byte, pos, endpos int) bool {
	_, _, ok := r.matchAt(b, pos, endpos, true)
	return ok
}

func (r *Regex) anchoredSubmatchIndex(b []byte, pos, endpos int, matchAll bool) []int {
	m, view, ok := r.matchAt(b, pos, endpos, matchAll)
	if !ok {
		return nil
	}
	public := r.engine.Pattern.PublicGroupCount
	out := make([]int, 0, 2*public)
	out = append(out, view.spanToBytes(m.Span)...)
	for i := 1; i < public && i < len(m.Groups); i++ {
		out = append(out, view.spanToBytes(m.Groups[i])...)
	}
	return out
}

// Stats returns the engine's cumulative match-time counters (spec §5).
func (r *Regex) Stats() vm.Stats { return r.engine.Stats.Snapshot() }

// ResetStats zeroes the engine's cumulative counters.
func (r *Regex) ResetStats() { r.engine.Stats.Reset() }
