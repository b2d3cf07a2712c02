// Package stringset implements the STRING_SET family of opcodes (component
// L): "is the text at the current position a member of this compiled set
// of strings" (spec §4.9), with support for partial-match truncation when
// the remaining text is shorter than the set's shortest member.
//
// Grounded on meta.Engine's ahoCorasick/fatTeddyFallback fields and their
// call sites in meta/find.go: multi-pattern membership is delegated to a
// precompiled automaton rather than hand-rolled trie code, following the
// same "build once at compile time, just Find at match time" shape.
package stringset

import "github.com/coregx/ahocorasick"

// Matcher answers membership queries for one named list of strings
// (spec's "precompiled ... set of strings"), bounded by MinLen/MaxLen as
// recorded on the owning STRING_SET node.
type Matcher struct {
	members        []string
	automaton      *ahocorasick.Automaton
	minLen, maxLen int

	// partialAutomaton indexes every proper prefix and suffix of every
	// member, built lazily the first time a partial-match probe is made
	// against a too-short remainder (spec §4.9 "the matcher builds
	// (lazily, cached) a set of all partial prefixes/suffixes").
	partialAutomaton *ahocorasick.Automaton
}

// Build compiles an Aho-Corasick automaton over members. minLen/maxLen are
// computed here from the members' lengths (their extremes), used to bound
// the membership probe's length sweep.
func Build(members []string) (*Matcher, error) {
	builder := ahocorasick.NewBuilder()
	minLen, maxLen := -1, 0
	for _, m := range members {
		builder.AddPattern([]byte(m))
		if minLen < 0 || len(m) < minLen {
			minLen = len(m)
		}
		if len(m) > maxLen {
			maxLen = len(m)
		}
	}
	if minLen < 0 {
		minLen = 0
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Matcher{members: members, automaton: auto, minLen: minLen, maxLen: maxLen}, nil
}

// MinLen/MaxLen report the member length bounds.
func (m *Matcher) MinLen() int { return m.minLen }
func (m *Matcher) MaxLen() int { return m.maxLen }

// Match probes text[0:n] for membership, trying lengths from MaxLen down
// to MinLen (spec §4.9: "grabs up to max_len characters ... tries lengths
// from max_len down to min_len, probing the set"). It returns the
// matched length, or 0 if none of the candidate lengths is a member.
func (m *Matcher) Match(text []byte) int {
	limit := m.maxLen
	if limit > len(text) {
		limit = len(text)
	}
	for length := limit; length >= m.minLen && length > 0; length-- {
		if m.isExactMember(text[:length]) {
			return length
		}
	}
	return 0
}

// isExactMember reports whether candidate is exactly one of the set's
// members by anchoring an automaton find at position 0 and requiring it
// to consume the whole candidate.
func (m *Matcher) isExactMember(candidate []byte) bool {
	match := m.automaton.Find(candidate, 0)
	return match != nil && match.Start == 0 && match.End == len(candidate)
}

// MatchPartial probes a remainder shorter than MinLen against every
// member's prefix set, for use when partial matching is enabled and the
// available text has run out before MinLen could be reached (spec §4.9).
// It builds and caches the prefix/suffix automaton on first use.
func (m *Matcher) MatchPartial(text []byte) bool {
	if len(m.partialAutomatonMembers()) == 0 {
		return false
	}
	if m.partialAutomaton == nil {
		if err := m.buildPartialAutomaton(); err != nil {
			return false
		}
	}
	match := m.partialAutomaton.Find(text, 0)
	return match != nil && match.Start == 0 && match.End == len(text)
}

func (m *Matcher) partialAutomatonMembers() []string { return m.members }

func (m *Matcher) buildPartialAutomaton() error {
	builder := ahocorasick.NewBuilder()
	seen := map[string]bool{}
	for _, member := range m.members {
		for i := 1; i <= len(member); i++ {
			prefix := member[:i]
			if !seen[prefix] {
				seen[prefix] = true
				builder.AddPattern([]byte(prefix))
			}
			suffix := member[len(member)-i:]
			if !seen[suffix] {
				seen[suffix] = true
				builder.AddPattern([]byte(suffix))
			}
		}
	}
	auto, err := builder.Build()
	if err != nil {
		return err
	}
	m.partialAutomaton = auto
	return nil
}
