package brex

import (
	"regexp/syntax"

	"github.com/brexlang/brex/literal"
	"github.com/brexlang/brex/opcode"
	"github.com/brexlang/brex/search"
)

// prefixFilter holds a Boyer-Moore table (component I) over a pattern's
// required literal prefix, extracted the way literal.Extractor pulls
// required prefixes out of a regexp/syntax tree. findFrom uses it to skip
// straight to the next position the match could possibly start at,
// instead of asking the backtracking VM to fail at every position in
// between.
type prefixFilter struct {
	table *search.Table
}

// buildPrefixFilter extracts pattern's required literal prefix, if it has
// one, and builds a scan table for it. Patterns with no single required
// prefix — "`.*foo`", alternatives that share no common prefix, or any
// literal under case folding (literal.Extractor already excludes those) —
// yield a nil filter, and callers treat that as "no optimization available"
// rather than a failure.
func buildPrefixFilter(pattern string, cfg Config) *prefixFilter {
	re, err := syntax.Parse(pattern, opcode.ParseFlags(cfg.syntaxFlags()))
	if err != nil {
		return nil
	}
	re = re.Simplify()

	seq := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
	prefix := seq.LongestCommonPrefix()
	if len(prefix) == 0 {
		return nil
	}
	return &prefixFilter{table: search.Build([]rune(string(prefix)), false, false, cfg.encoding())}
}

// skipTo returns the earliest rune index at or after from where the
// required prefix occurs in runes, or -1 if it does not occur again — in
// which case no match can start anywhere at or after from. A nil filter
// (no required prefix was extractable) is a no-op and returns from as-is.
func (f *prefixFilter) skipTo(runes []rune, from int) int {
	if f == nil {
		return from
	}
	return f.table.Find(runes, from)
}
