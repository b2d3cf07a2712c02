package search

import (
	"testing"

	"github.com/brexlang/brex/encoding"
)

func runes(s string) []rune { return []rune(s) }

func TestFindForwardExact(t *testing.T) {
	tbl := Build(runes("needle"), false, false, encoding.NewASCII())
	text := runes("haystack with a needle inside")
	pos := tbl.Find(text, 0)
	want := 16
	if pos != want {
		t.Fatalf("expected match at %d, got %d", want, pos)
	}
}

func TestFindForwardNotFound(t *testing.T) {
	tbl := Build(runes("missing"), false, false, encoding.NewASCII())
	if pos := tbl.Find(runes("nothing here"), 0); pos != -1 {
		t.Fatalf("expected -1, got %d", pos)
	}
}

func TestFindForwardCaseFold(t *testing.T) {
	tbl := Build(runes("NEEDLE"), false, true, encoding.NewASCII())
	pos := tbl.Find(runes("a needle here"), 0)
	if pos != 2 {
		t.Fatalf("expected case-insensitive match at 2, got %d", pos)
	}
}

func TestFindReverse(t *testing.T) {
	tbl := Build(runes("cab"), true, false, encoding.NewASCII())
	text := runes("xxcabxx")
	// from is the index of the last character of a candidate match,
	// scanning backward; the match "cab" ends at index 4.
	pos := tbl.Find(text, 4)
	if pos != 2 {
		t.Fatalf("expected reverse match start at 2, got %d", pos)
	}
}

func TestFindRepeatedPattern(t *testing.T) {
	tbl := Build(runes("aab"), false, false, encoding.NewASCII())
	pos := tbl.Find(runes("aaaaaabaaaa"), 0)
	if pos != 4 {
		t.Fatalf("expected match at 4, got %d", pos)
	}
}
