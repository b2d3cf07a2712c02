package encoding

import "testing"

func wordProp() Property { return MakeProperty(propCategoryWord, 0) }

func TestASCIIWordBoundary(t *testing.T) {
	a := NewASCII()
	if !a.AtBoundary('a', ' ', true, true) {
		t.Fatal("expected boundary between word char and space")
	}
	if a.AtBoundary('a', 'b', true, true) {
		t.Fatal("expected no boundary between two word chars")
	}
	if !a.AtBoundary(0, 'a', false, true) {
		t.Fatal("expected boundary at string start before a word char")
	}
}

func TestASCIIRejectsNonASCII(t *testing.T) {
	a := NewASCII()
	if a.HasProperty(wordProp(), 'é') {
		t.Fatal("ASCII encoding must reject codepoints above 0x7F")
	}
}

func TestASCIITurkic(t *testing.T) {
	a := NewASCII()
	if !a.PossibleTurkic('I') || !a.PossibleTurkic('i') {
		t.Fatal("expected ASCII I/i to be possible Turkic variants")
	}
	if a.PossibleTurkic('x') {
		t.Fatal("'x' should not be a Turkic candidate")
	}
}

func TestLocaleCTable(t *testing.T) {
	l := NewLocale(nil)
	if !l.HasProperty(wordProp(), 'a') {
		t.Fatal("'a' should be a word char in the C locale")
	}
	if l.SimpleCaseFold('A') != 'a' {
		t.Fatal("expected C locale to fold 'A' to 'a'")
	}
}

func TestUnicodeAllCasesBounded(t *testing.T) {
	u := NewUnicode()
	cases := u.AllCases('k')
	if len(cases) > MaxCases {
		t.Fatalf("AllCases exceeded MaxCases: %d", len(cases))
	}
	found := false
	for _, c := range cases {
		if c == 'K' {
			found = true
		}
	}
	if !found {
		t.Fatal("expected 'K' among the case variants of 'k'")
	}
}

func TestUnicodeFullCaseFoldSharpS(t *testing.T) {
	u := NewUnicode()
	folded := u.FullCaseFold(0x00DF)
	if string(folded) != "ss" {
		t.Fatalf("expected ß to fold to \"ss\", got %q", string(folded))
	}
}

func TestUnicodeTurkicEnumeration(t *testing.T) {
	u := NewUnicode()
	variants := u.AllTurkicI('I')
	if len(variants) != 4 {
		t.Fatalf("expected 4 Turkic-I variants, got %d", len(variants))
	}
}

func TestUnicodeLineSeparators(t *testing.T) {
	u := NewUnicode()
	for _, ch := range []rune{'\n', 0x2028, 0x2029} {
		if !u.IsLineSep(ch) {
			t.Fatalf("expected %U to be a line separator", ch)
		}
	}
	if u.IsLineSep('a') {
		t.Fatal("'a' must not be a line separator")
	}
}
