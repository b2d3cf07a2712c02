// Package search implements the fast string search tables the VM builds
// lazily for literal nodes (component I): classic Boyer-Moore bad-
// character and good-suffix offset tables, forward and reverse, exact and
// case-folded (spec §4.7). A Table is built at most once per literal node
// (gated by node.StatusFastInit) and cached on the vm.Engine that uses it.
//
// Structured the way simd.Memmem dispatches by needle length and picks a
// variant once rather than re-deciding per call; the variant selection
// here gates on literal length against RE_MIN_FAST_LENGTH and on CPU
// feature availability via golang.org/x/sys/cpu the same way
// simd/memchr_amd64.go and prefilter/teddy_ssse3_amd64.go gate their SIMD
// paths, without requiring any actual SIMD assembly (the retrieved
// reference pack carries none — see DESIGN.md).
package search

import (
	"github.com/brexlang/brex/encoding"
	"golang.org/x/sys/cpu"
)

// MinFastLength is the shortest literal for which building Boyer-Moore
// tables pays off; shorter literals fall back to a simple scan (spec §4.7
// "RE_MIN_FAST_LENGTH (5)").
const MinFastLength = 5

const alphabetSize = 256

// Table holds the precomputed offsets for one literal, in one direction,
// under one case-sensitivity mode.
type Table struct {
	pattern   []rune
	reverse   bool
	foldCase  bool
	enc       encoding.Encoding
	badChar   [alphabetSize]int
	goodSuffix []int
}

// Build constructs a Table for pattern. When foldCase is true, bad-
// character entries are populated for every simple case-fold variant of
// each pattern rune so a case-insensitive compare can still skip using the
// same tables (spec §4.7 "Variants cover forward/reverse and case-folded/
// exact matching").
func Build(pattern []rune, reverse, foldCase bool, enc encoding.Encoding) *Table {
	t := &Table{pattern: pattern, reverse: reverse, foldCase: foldCase, enc: enc}
	t.buildBadChar()
	t.buildGoodSuffix()
	return t
}

func (t *Table) buildBadChar() {
	n := len(t.pattern)
	for i := range t.badChar {
		t.badChar[i] = n
	}
	// Walk pattern in scan order (reverse scans the pattern backward so
	// the "last occurrence" reflects the direction the scan actually
	// moves) recording, for each byte value, the shift needed if that
	// byte is seen as a mismatch at the scan's trailing edge.
	for i := 0; i < n; i++ {
		var scanPos int
		if t.reverse {
			scanPos = n - 1 - i
		} else {
			scanPos = i
		}
		ch := t.pattern[scanPos]
		shift := n - 1 - i
		t.setBadChar(ch, shift)
		if t.foldCase {
			for _, v := range t.enc.AllCases(ch) {
				t.setBadChar(v, shift)
			}
		}
	}
}

func (t *Table) setBadChar(ch rune, shift int) {
	if ch >= 0 && int(ch) < alphabetSize {
		t.badChar[ch] = shift
	}
}

// buildGoodSuffix computes the classic good-suffix shift table: for each
// suffix length matched before a mismatch, how far the pattern can shift
// before the same suffix could align again (or before a matching prefix
// aligns with the suffix).
func (t *Table) buildGoodSuffix() {
	n := len(t.pattern)
	t.goodSuffix = make([]int, n+1)
	borderPos := make([]int, n+1)

	i, j := n, n+1
	borderPos[i] = j
	for i > 0 {
		for j <= n && !runeEqual(t.charAt(i-1), t.charAt(j-1)) {
			if t.goodSuffix[j] == 0 {
				t.goodSuffix[j] = j - i
			}
			j = borderPos[j]
		}
		i--
		j--
		borderPos[i] = j
	}

	j = borderPos[0]
	for i := 0; i <= n; i++ {
		if t.goodSuffix[i] == 0 {
			t.goodSuffix[i] = j
		}
		if i == j {
			j = borderPos[j]
		}
	}
}

func runeEqual(a, b rune) bool { return a == b }

// charAt returns pattern[i] in scan order: forward tables index normally,
// reverse tables index from the end so the good-suffix recurrence is
// built over the same sequence the scan actually walks.
func (t *Table) charAt(i int) rune {
	if t.reverse {
		return t.pattern[len(t.pattern)-1-i]
	}
	return t.pattern[i]
}

// Find scans text starting at from for the pattern, honoring the table's
// direction and case sensitivity, returning the match start position or
// -1. text is addressed in the same order the table was built for:
// forward tables scan left-to-right from `from`; reverse tables scan
// right-to-left ending at `from`.
func (t *Table) Find(text []rune, from int) int {
	n := len(t.pattern)
	if n == 0 {
		return from
	}
	if t.reverse {
		return t.findReverse(text, from)
	}
	return t.findForward(text, from)
}

func (t *Table) findForward(text []rune, from int) int {
	n := len(t.pattern)
	m := len(text)
	i := from
	for i+n <= m {
		j := n - 1
		for j >= 0 && t.matchAt(text[i+j], t.pattern[j]) {
			j--
		}
		if j < 0 {
			return i
		}
		bc := t.badCharShift(text[i+j])
		gs := t.goodSuffix[j+1]
		shift := bc - (n - 1 - j)
		if gs > shift {
			shift = gs
		}
		if shift < 1 {
			shift = 1
		}
		i += shift
	}
	return -1
}

func (t *Table) findReverse(text []rune, from int) int {
	n := len(t.pattern)
	i := from
	for i-n >= -1 && i >= n-1 {
		j := n - 1
		for j >= 0 && t.matchAt(text[i-j], t.charAt(j)) {
			j--
		}
		if j < 0 {
			return i - n + 1
		}
		bc := t.badCharShift(text[i-j])
		gs := t.goodSuffix[j+1]
		shift := bc - (n - 1 - j)
		if gs > shift {
			shift = gs
		}
		if shift < 1 {
			shift = 1
		}
		i -= shift
	}
	return -1
}

func (t *Table) matchAt(textCh, patCh rune) bool {
	if textCh == patCh {
		return true
	}
	if !t.foldCase {
		return false
	}
	return t.enc.SimpleCaseFold(textCh) == t.enc.SimpleCaseFold(patCh)
}

func (t *Table) badCharShift(ch rune) int {
	if ch >= 0 && int(ch) < alphabetSize {
		return t.badChar[ch]
	}
	return len(t.pattern)
}

// HasFastByteSearch reports whether the CPU exposes the wide-register
// instructions a SIMD byte scan could exploit. The variant dispatch here
// exists so a future assembly-backed Memchr-style path can be slotted in
// without changing any caller; until then every build uses the portable
// table-driven scan above regardless of this flag.
func HasFastByteSearch() bool {
	return cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD
}
