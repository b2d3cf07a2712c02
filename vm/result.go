package vm

import "github.com/brexlang/brex/capture"

// Match is one successful top-level attempt's result (spec §6): the
// overall span, every capture group's span (unset groups report
// Start == -1), the fuzzy cost incurred (0 for an exact pattern), and
// whether the hit only matched because it ran off the end of the active
// slice (spec §4.2 partial-match reporting).
type Match struct {
	Span    capture.Span
	Groups  []capture.Span
	Cost    int
	Partial bool
}
