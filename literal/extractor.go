// Package literal provides types and operations for extracting literal sequences
// from regex patterns for prefilter optimization.
package literal

import (
	"regexp/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals that hurt cache locality
//   - MaxClassSize: prevents expanding large character classes like [a-z]
//
// Example:
//
//	config := literal.ExtractorConfig{
//	    MaxLiterals:   64,
//	    MaxLiteralLen: 64,
//	    MaxClassSize:  10,
//	}
//	extractor := literal.New(config)
type ExtractorConfig struct {
	// MaxLiterals limits the maximum number of literals to extract.
	// For patterns with many alternations like (a|b|c|...|z), this prevents
	// unbounded memory growth. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the maximum length of each extracted literal.
	// Very long literals hurt prefilter performance due to cache misses.
	// Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// Character classes like [abc] are expanded to ["a", "b", "c"].
	// Large classes like [a-z] (26 chars) are NOT expanded if > MaxClassSize.
	// Default: 10.
	MaxClassSize int

	// CrossProductLimit is the maximum total number of intermediate literals allowed
	// during cross-product expansion in OpConcat traversal. When a concatenation
	// contains small character classes (e.g., ag[act]gtaaa), the extractor computes
	// the cross-product of accumulated literals with each class expansion.
	// This limit prevents combinatorial explosion from patterns with many classes.
	//
	// When exceeded, literals are truncated to 4 bytes (Teddy fingerprint size),
	// deduplicated, and marked as inexact. Default: 250 (matching Rust regex-syntax).
	CrossProductLimit int
}

// DefaultConfig returns the default extractor configuration.
//
// Defaults are tuned for typical regex patterns:
//   - MaxLiterals: 64 (handles most alternations without bloat)
//   - MaxLiteralLen: 64 (good cache locality for prefilters)
//   - MaxClassSize: 10 (small classes only, avoids [a-z] explosion)
//
// Example:
//
//	extractor := literal.New(literal.DefaultConfig())
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:       64,
		MaxLiteralLen:     64,
		MaxClassSize:      10,
		CrossProductLimit: 250,
	}
}

// Extractor extracts literal prefix sequences from regex patterns: literals
// that must appear at the start of any match, enabling fast prefiltering
// before running the full regex engine.
//
// Algorithm overview:
//  1. Parse regex to AST (caller uses regexp/syntax.Parse)
//  2. Walk AST to extract literals based on operation type (OpLiteral, OpConcat, etc.)
//  3. Apply limits (MaxLiterals, MaxLiteralLen, MaxClassSize)
//  4. Return Seq of literals for prefilter selection
//
// Example:
//
//	re, _ := syntax.Parse("(hello|world)", syntax.Perl)
//	extractor := literal.New(literal.DefaultConfig())
//	prefixes := extractor.ExtractPrefixes(re)
//	// prefixes = ["hello", "world"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
//
// Example:
//
//	config := literal.DefaultConfig()
//	config.MaxLiterals = 128 // Allow more literals
//	extractor := literal.New(config)
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes extracts prefix literals from the regex.
// Returns literals that must appear at the start of any match.
//
// Handles these syntax.Op types:
//   - OpLiteral: direct literal string → returns it
//   - OpConcat: cross-product of the sub-expressions' prefixes, left to right
//   - OpAlternate: union of all alternatives (e.g., (foo|bar) → ["foo", "bar"])
//   - OpCharClass: expand small classes (e.g., [abc] → ["a", "b", "c"])
//   - OpCapture: ignore capture group, extract from sub-expression
//   - OpStar/OpQuest/OpPlus: repetition makes prefix optional → return empty
//
// Examples:
//
//	"hello"         → ["hello"]
//	"(foo|bar)"     → ["foo", "bar"]
//	"[abc]test"     → ["atest", "btest", "ctest"]
//	"hello.*world"  → ["hello"]
//	".*foo"         → [] (no prefix requirement)
//
// Returns empty Seq if no prefix literals can be extracted.
func (e *Extractor) ExtractPrefixes(re *syntax.Regexp) *Seq {
	return e.extractPrefixes(re, 0)
}

// extractPrefixes is the internal recursive implementation.
// The depth parameter prevents infinite recursion on malformed patterns.
func (e *Extractor) extractPrefixes(re *syntax.Regexp, depth int) *Seq {
	// Guard against excessive recursion (malformed or deeply nested patterns)
	// Also skip case-insensitive patterns because prefilter does case-sensitive
	// byte matching which would miss matches. Issue #87
	if depth > 100 || re.Flags&syntax.FoldCase != 0 {
		return NewSeq()
	}

	switch re.Op {
	case syntax.OpLiteral:
		// Direct literal: "hello" → ["hello"]
		bytes := runeSliceToBytes(re.Rune)
		if len(bytes) > e.config.MaxLiteralLen {
			bytes = bytes[:e.config.MaxLiteralLen]
		}
		return NewSeq(NewLiteral(bytes, true))

	case syntax.OpConcat:
		// Cross-product expansion through the entire concatenation.
		// For each sub-expression, we extend accumulated literals:
		//   - OpLiteral: append literal bytes to all exact accumulated literals
		//   - OpCharClass (small): cross-product with expanded class
		//   - OpAlternate (all-literal): cross-product with alternation branches
		//   - OpCapture: unwrap and handle inner
		//   - Other (wildcard, repeat, etc.): mark inexact, stop extending
		//
		// Example: ag[act]gtaaa
		//   Step 0: acc = [""] (one empty complete literal)
		//   Step 1: sub="ag" → acc = ["ag"]
		//   Step 2: sub=[act] → acc = ["aga", "agc", "agt"]
		//   Step 3: sub="gtaaa" → acc = ["agagtaaa", "agcgtaaa", "agtgtaaa"]
		return e.extractPrefixesConcat(re, depth)

	case syntax.OpAlternate:
		// Alternation: union of all alternatives
		// (foo|bar) → ["foo", "bar"]
		// (a|b|c) → ["a", "b", "c"]
		// IMPORTANT: If ANY alternative has no prefix requirement (empty Seq),
		// the whole alternation has no prefix requirement.
		// Example: abc|.*? → [] (.*? can match anything, so "abc" isn't required)
		var allLits []Literal
		truncated := false
		for _, sub := range re.Sub {
			seq := e.extractPrefixes(sub, depth+1)
			if seq.IsEmpty() {
				// This branch has no prefix requirement (e.g., .*?, .+, empty match)
				// Therefore the whole alternation has no prefix requirement
				return NewSeq()
			}
			for i := 0; i < seq.Len(); i++ {
				allLits = append(allLits, seq.Get(i))
				// Respect MaxLiterals limit
				if len(allLits) >= e.config.MaxLiterals {
					truncated = true
					break
				}
			}
			if truncated {
				break
			}
		}
		// If we hit MaxLiterals before processing all branches, the literal set
		// is incomplete -- it does not cover all alternatives. Mark all as inexact
		// to prevent literal-engine-bypass (Teddy/AhoCorasick without DFA verification).
		if truncated {
			for i := range allLits {
				allLits[i].Complete = false
			}
		}
		return NewSeq(allLits...)

	case syntax.OpCharClass:
		// Character class: expand if small enough
		// [abc] → ["a", "b", "c"]
		// [a-z] → [] (too large, skip)
		return e.expandCharClass(re)

	case syntax.OpCapture:
		// Capture group: ignore the capture, extract from content
		// (foo) → extract from "foo"
		if len(re.Sub) == 0 {
			return NewSeq()
		}
		return e.extractPrefixes(re.Sub[0], depth+1)

	case syntax.OpStar, syntax.OpQuest, syntax.OpPlus:
		// Repetition: treat conservatively as no reliable prefix
		// a*bc → prefix could be "", "a", "aa", ... → no reliable prefix
		// a?bc → prefix could be "" or "a" → no reliable prefix
		// a+bc → prefix is "a"+ → conservatively no prefix
		return NewSeq()

	case syntax.OpBeginLine, syntax.OpBeginText, syntax.OpEndLine, syntax.OpEndText:
		// Anchors: don't contribute literals
		// Handled by parent OpConcat for begin anchors
		return NewSeq()

	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		// Wildcards: can't extract literal
		return NewSeq()

	default:
		// OpEmptyMatch, OpRepeat, etc.: no extractable prefix
		return NewSeq()
	}
}

// extractPrefixesConcat handles cross-product literal expansion for OpConcat.
// It walks through all sub-expressions in the concatenation, extending accumulated
// literals with each literal or small character class encountered.
//
// This enables extracting full literals from patterns like ag[act]gtaaa where a
// char class appears in the middle, producing ["agagtaaa", "agcgtaaa", "agtgtaaa"]
// instead of just ["ag"].
//
func (e *Extractor) extractPrefixesConcat(re *syntax.Regexp, depth int) *Seq {
	if len(re.Sub) == 0 {
		return NewSeq()
	}

	// Skip leading anchors (OpBeginLine, OpBeginText)
	startIdx := 0
	for startIdx < len(re.Sub) {
		op := re.Sub[startIdx].Op
		if op == syntax.OpBeginLine || op == syntax.OpBeginText {
			startIdx++
		} else {
			break
		}
	}
	if startIdx >= len(re.Sub) {
		return NewSeq()
	}

	// Resolve CrossProductLimit: use default if not set
	crossLimit := e.config.CrossProductLimit
	if crossLimit <= 0 {
		crossLimit = 250
	}

	// Start with one empty complete literal as the accumulator seed.
	acc := NewSeq(NewLiteral([]byte{}, true))

	for i := startIdx; i < len(re.Sub); i++ {
		// If all accumulated literals are inexact, we cannot extend further.
		if !e.hasAnyExact(acc) {
			break
		}

		sub := re.Sub[i]
		contribution := e.concatSubContribution(sub, depth)

		if contribution == nil {
			// Non-expandable sub-expression (wildcard, repetition, etc.)
			// Mark all accumulated literals as inexact and stop.
			e.markAllInexact(acc)
			break
		}

		// Compute cross-product of accumulator with contribution
		acc.CrossForward(contribution)

		// Enforce overflow limits
		if acc.Len() > crossLimit || acc.Len() > e.config.MaxLiterals {
			acc = e.handleCrossProductOverflow(acc)
			break
		}

		// Enforce per-literal length limit
		e.enforceMaxLiteralLen(acc)
	}

	// Remove the seed empty literal if nothing was extracted
	if acc.Len() == 1 && len(acc.Get(0).Bytes) == 0 {
		return NewSeq()
	}

	return acc
}

// concatSubContribution returns a Seq representing a sub-expression's contribution
// to cross-product expansion, or nil if the sub-expression is not expandable.
//
// Expandable types:
//   - OpLiteral (case-sensitive only): returns the literal as a single-element Seq
//   - OpCharClass (small): returns expanded individual character literals
//   - OpAlternate (all-literal branches): returns union of branch literals
//   - OpCapture: unwraps and recurses
//
// Case-insensitive (FoldCase) sub-expressions are NOT expandable because the
// prefilter does case-sensitive byte matching. Extracting only the uppercase bytes
// from a FoldCase literal would miss lowercase matches. (Issue #87)
func (e *Extractor) concatSubContribution(sub *syntax.Regexp, depth int) *Seq {
	// Skip case-insensitive sub-expressions entirely
	if sub.Flags&syntax.FoldCase != 0 {
		return nil
	}

	switch sub.Op {
	case syntax.OpLiteral:
		b := runeSliceToBytes(sub.Rune)
		return NewSeq(NewLiteral(b, true))

	case syntax.OpCharClass:
		expanded := e.expandCharClass(sub)
		if expanded.IsEmpty() {
			return nil // Class too large
		}
		return expanded

	case syntax.OpAlternate:
		// Try to expand all-literal alternation (e.g., factored prefix patterns)
		return e.expandAlternateContribution(sub, depth)

	case syntax.OpCapture:
		if len(sub.Sub) == 0 {
			return nil
		}
		return e.concatSubContribution(sub.Sub[0], depth)

	case syntax.OpRepeat:
		// Repetition with min >= 1 (e.g., {2,5}) has at least one occurrence.
		// Extract prefix from the inner expression for cross-product.
		// The result is always inexact since repetition means more content follows.
		if sub.Min >= 1 && len(sub.Sub) > 0 {
			inner := e.concatSubContribution(sub.Sub[0], depth)
			if inner == nil {
				return nil
			}
			// Mark all as inexact since repetition continues beyond
			for i := range inner.literals {
				inner.literals[i].Complete = false
			}
			return inner
		}
		return nil

	default:
		return nil
	}
}

// expandAlternateContribution tries to expand an alternation inside a concat
// into a set of literals for cross-product. Returns nil if any branch is not
// a simple literal/class that can be expanded.
func (e *Extractor) expandAlternateContribution(alt *syntax.Regexp, depth int) *Seq {
	if alt.Op != syntax.OpAlternate {
		return nil
	}
	var allLits []Literal
	for _, sub := range alt.Sub {
		seq := e.extractPrefixes(sub, depth+1)
		if seq.IsEmpty() {
			return nil // One branch has no literals, cannot expand
		}
		for i := 0; i < seq.Len(); i++ {
			allLits = append(allLits, seq.Get(i))
			if len(allLits) > e.config.MaxLiterals {
				return nil // Too many
			}
		}
	}
	return NewSeq(allLits...)
}

// hasAnyExact returns true if at least one literal in the Seq is Complete (exact).
func (e *Extractor) hasAnyExact(s *Seq) bool {
	for i := 0; i < s.Len(); i++ {
		if s.Get(i).Complete {
			return true
		}
	}
	return false
}

// markAllInexact sets Complete=false on all literals in the Seq.
func (e *Extractor) markAllInexact(s *Seq) {
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}

// enforceMaxLiteralLen truncates any literal exceeding MaxLiteralLen.
func (e *Extractor) enforceMaxLiteralLen(s *Seq) {
	for i := range s.literals {
		if len(s.literals[i].Bytes) > e.config.MaxLiteralLen {
			s.literals[i].Bytes = s.literals[i].Bytes[:e.config.MaxLiteralLen]
			s.literals[i].Complete = false
		}
	}
}

// handleCrossProductOverflow handles the case where cross-product expansion exceeds
// limits. It truncates all literals to 4 bytes (Teddy fingerprint size), deduplicates,
// and marks all as inexact.
func (e *Extractor) handleCrossProductOverflow(s *Seq) *Seq {
	s.KeepFirstBytes(4)
	e.markAllInexact(s)
	s.Dedup()

	// If still over MaxLiterals after dedup, truncate the list
	if s.Len() > e.config.MaxLiterals {
		s.literals = s.literals[:e.config.MaxLiterals]
	}
	return s
}

// expandCharClass expands character class to literals.
//
// Small character classes like [abc] are expanded to ["a", "b", "c"].
// Large classes like [a-z] (26 characters) are NOT expanded if they exceed
// MaxClassSize, returning an empty Seq instead.
//
// Algorithm:
//  1. Count total runes in the character class
//  2. If count > MaxClassSize, return empty (too large)
//  3. Otherwise, iterate through rune ranges and create a literal for each
//
// Examples:
//
//	[abc]   → ["a", "b", "c"] (3 chars, under limit)
//	[a-c]   → ["a", "b", "c"] (3 chars, under limit)
//	[a-z]   → [] (26 chars, over default limit of 10)
//	[0-9]   → ["0", "1", ..., "9"] if MaxClassSize >= 10
//
// Returns empty Seq if:
//   - Not a character class
//   - Class size exceeds MaxClassSize
func (e *Extractor) expandCharClass(re *syntax.Regexp) *Seq {
	if re.Op != syntax.OpCharClass {
		return NewSeq()
	}

	// Count how many runes are in the class
	// re.Rune contains pairs: [lo1, hi1, lo2, hi2, ...]
	count := 0
	for i := 0; i < len(re.Rune); i += 2 {
		lo, hi := re.Rune[i], re.Rune[i+1]
		count += int(hi - lo + 1)
		if count > e.config.MaxClassSize {
			// Too large, don't expand
			return NewSeq()
		}
	}

	// Expand the class
	var lits []Literal
	for i := 0; i < len(re.Rune); i += 2 {
		lo, hi := re.Rune[i], re.Rune[i+1]
		for r := lo; r <= hi; r++ {
			bytes := []byte(string(r))
			// Truncate if exceeds MaxLiteralLen
			if len(bytes) > e.config.MaxLiteralLen {
				bytes = bytes[:e.config.MaxLiteralLen]
			}
			lits = append(lits, NewLiteral(bytes, true))

			// Respect MaxLiterals limit
			if len(lits) >= e.config.MaxLiterals {
				return NewSeq(lits...)
			}
		}
	}

	return NewSeq(lits...)
}

// Helper functions

// runeSliceToBytes converts []rune to []byte using UTF-8 encoding.
func runeSliceToBytes(runes []rune) []byte {
	return []byte(string(runes))
}
