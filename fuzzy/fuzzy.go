// Package fuzzy implements the approximate-matching layer (component F):
// per-section substitution/insertion/deletion budgets and running
// accumulators (spec §4.10). A fuzzy section opens at a FUZZY node
// carrying (max_sub, max_ins, max_del, max_err, sub_cost, ins_cost,
// del_cost, max_cost) and closes at END_FUZZY carrying
// (min_sub, min_ins, min_del, min_err).
//
// There is no teacher analogue for approximate matching; the budget/limit
// struct shape follows the style of meta.Config's field-by-field bounds
// (named fields, a Validate-style check, zero value meaning "disabled")
// and the section's accumulators are snapshotted/restored the same way
// capture.Store's spans are, so a backtrack can roll back a speculative
// fuzzy transition without re-deriving it.
package fuzzy

import "fmt"

// Kind identifies which edit a fuzzy transition represents.
type Kind int

const (
	Substitution Kind = iota
	Insertion
	Deletion
)

func (k Kind) String() string {
	switch k {
	case Substitution:
		return "substitution"
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Limits are the FUZZY node's static budget (spec §4.10). MaxErr bounds
// the sum of the three counts; MaxCost bounds the weighted sum.
type Limits struct {
	MaxSub, MaxIns, MaxDel, MaxErr int
	SubCost, InsCost, DelCost      int
	MaxCost                        int
}

// MinCounts are the END_FUZZY node's minimum requirements; a section that
// closes without meeting them sets TooFewErrors (spec §4.10).
type MinCounts struct {
	MinSub, MinIns, MinDel, MinErr int
}

// Accumulator tracks one fuzzy section's running counts and cost while the
// VM walks its body (spec §3.2 "sum(counts[SUB|INS|DEL]) = counts[ERR] and
// total_cost <= max_cost at every successful transition").
type Accumulator struct {
	Limits    Limits
	CountSub  int
	CountIns  int
	CountDel  int
	TotalCost int

	// TooFewErrors is set by CheckMinimums when the section closes without
	// satisfying its MinCounts; it signals the enclosing repeat/atomic
	// construct to force another attempt rather than accept (spec §4.10).
	TooFewErrors bool
}

// NewAccumulator starts a fresh accumulator for a section opening with the
// given limits.
func NewAccumulator(limits Limits) *Accumulator {
	return &Accumulator{Limits: limits}
}

// CountErr returns the total edit count across all three kinds.
func (a *Accumulator) CountErr() int { return a.CountSub + a.CountIns + a.CountDel }

// CanApply reports whether applying one more transition of kind would stay
// within every applicable budget (per-kind max, MaxErr, MaxCost).
func (a *Accumulator) CanApply(kind Kind) bool {
	if a.CountErr()+1 > a.Limits.MaxErr {
		return false
	}
	var perKindCount, perKindMax, cost int
	switch kind {
	case Substitution:
		perKindCount, perKindMax, cost = a.CountSub, a.Limits.MaxSub, a.Limits.SubCost
	case Insertion:
		perKindCount, perKindMax, cost = a.CountIns, a.Limits.MaxIns, a.Limits.InsCost
	case Deletion:
		perKindCount, perKindMax, cost = a.CountDel, a.Limits.MaxDel, a.Limits.DelCost
	}
	if perKindCount+1 > perKindMax {
		return false
	}
	return a.TotalCost+cost <= a.Limits.MaxCost
}

// Apply records one transition of kind in the Accumulator in place (the
// VM backs this out on rewind via Snapshot/Restore rather than trying to
// invert Apply).
func (a *Accumulator) Apply(kind Kind) {
	switch kind {
	case Substitution:
		a.CountSub++
		a.TotalCost += a.Limits.SubCost
	case Insertion:
		a.CountIns++
		a.TotalCost += a.Limits.InsCost
	case Deletion:
		a.CountDel++
		a.TotalCost += a.Limits.DelCost
	}
}

// CheckMinimums validates the section's MinCounts on END_FUZZY, setting
// TooFewErrors if any minimum has not been met (spec §4.10).
func (a *Accumulator) CheckMinimums(min MinCounts) {
	a.TooFewErrors = a.CountSub < min.MinSub ||
		a.CountIns < min.MinIns ||
		a.CountDel < min.MinDel ||
		a.CountErr() < min.MinErr
}

// Snapshot is a cheap value-copy of an Accumulator's mutable fields, taken
// on FUZZY entry and on every backtrack choice point within the section
// (spec §4.10 "Accumulators ... are snapshotted on FUZZY entry and
// restored on backtrack").
type Snapshot struct {
	CountSub, CountIns, CountDel int
	TotalCost                   int
}

// Save captures a's current counts and cost.
func (a *Accumulator) Save() Snapshot {
	return Snapshot{CountSub: a.CountSub, CountIns: a.CountIns, CountDel: a.CountDel, TotalCost: a.TotalCost}
}

// Restore rewinds a to a prior Save result.
func (a *Accumulator) Restore(s Snapshot) {
	a.CountSub, a.CountIns, a.CountDel, a.TotalCost = s.CountSub, s.CountIns, s.CountDel, s.TotalCost
}

// NextKind returns the fuzzy kind that should be tried after prev when
// retrying a fuzzy decision, following the fixed SUB -> INS -> DEL
// retry order (spec §4.10), or ok=false once DEL has been exhausted.
func NextKind(prev Kind) (next Kind, ok bool) {
	switch prev {
	case Substitution:
		return Insertion, true
	case Insertion:
		return Deletion, true
	default:
		return 0, false
	}
}

// Store holds one Accumulator per fuzzy section in a Pattern, addressed by
// the section index assigned during node-graph construction.
type Store struct {
	Sections []Accumulator
}

// NewStore allocates a Store sized for sectionCount fuzzy sections.
func NewStore(sectionCount int) *Store {
	return &Store{Sections: make([]Accumulator, sectionCount)}
}
