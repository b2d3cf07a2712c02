package fuzzy

import "testing"

func TestCanApplyRespectsPerKindMax(t *testing.T) {
	a := NewAccumulator(Limits{MaxSub: 1, MaxIns: 1, MaxDel: 1, MaxErr: 3, MaxCost: 10, SubCost: 1, InsCost: 1, DelCost: 1})
	if !a.CanApply(Substitution) {
		t.Fatal("first substitution should be within budget")
	}
	a.Apply(Substitution)
	if a.CanApply(Substitution) {
		t.Fatal("second substitution should exceed MaxSub=1")
	}
}

func TestCanApplyRespectsMaxErr(t *testing.T) {
	a := NewAccumulator(Limits{MaxSub: 5, MaxIns: 5, MaxDel: 5, MaxErr: 1, MaxCost: 100})
	a.Apply(Substitution)
	if a.CanApply(Insertion) {
		t.Fatal("MaxErr=1 already consumed by one substitution")
	}
}

func TestCanApplyRespectsMaxCost(t *testing.T) {
	a := NewAccumulator(Limits{MaxSub: 5, MaxErr: 5, MaxCost: 1, SubCost: 2})
	if a.CanApply(Substitution) {
		t.Fatal("substitution cost 2 should exceed MaxCost 1")
	}
}

func TestCheckMinimumsSetsTooFewErrors(t *testing.T) {
	a := NewAccumulator(Limits{MaxSub: 5, MaxErr: 5, MaxCost: 10, SubCost: 1})
	a.Apply(Substitution)
	a.CheckMinimums(MinCounts{MinSub: 2})
	if !a.TooFewErrors {
		t.Fatal("expected TooFewErrors when MinSub is not met")
	}
	a.Apply(Substitution)
	a.CheckMinimums(MinCounts{MinSub: 2})
	if a.TooFewErrors {
		t.Fatal("expected TooFewErrors to clear once MinSub is met")
	}
}

func TestSaveRestore(t *testing.T) {
	a := NewAccumulator(Limits{MaxSub: 5, MaxErr: 5, MaxCost: 10, SubCost: 1})
	snap := a.Save()
	a.Apply(Substitution)
	a.Restore(snap)
	if a.CountErr() != 0 || a.TotalCost != 0 {
		t.Fatalf("expected Restore to roll back counts/cost, got count=%d cost=%d", a.CountErr(), a.TotalCost)
	}
}

func TestNextKindOrder(t *testing.T) {
	k, ok := NextKind(Substitution)
	if !ok || k != Insertion {
		t.Fatalf("expected Substitution -> Insertion, got %v ok=%v", k, ok)
	}
	k, ok = NextKind(Insertion)
	if !ok || k != Deletion {
		t.Fatalf("expected Insertion -> Deletion, got %v ok=%v", k, ok)
	}
	_, ok = NextKind(Deletion)
	if ok {
		t.Fatal("expected Deletion to be the end of the retry chain")
	}
}
