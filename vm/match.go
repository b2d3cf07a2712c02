package vm

import (
	"unicode/utf8"

	"github.com/brexlang/brex/cursor"
	"github.com/brexlang/brex/encoding"
	"github.com/brexlang/brex/node"
	"github.com/brexlang/brex/opcode"
)

// matchResult is the outcome of testing one leaf node against the text at
// pos: whether it matched, and how many cursor positions it consumed.
type matchResult struct {
	ok    bool
	width int
}

// charAt reads the codepoint at pos, reporting false if pos is outside the
// cursor's full buffer (the caller is responsible for slice-boundary
// partial-match bookkeeping; this only guards the raw buffer).
func charAt(cur *cursor.Cursor, pos int) (rune, bool) {
	if !cur.InBounds(pos) {
		return 0, false
	}
	return cur.CharAt(pos), true
}

// matchLeaf dispatches the width-1 character-class family (spec §4.1): ANY,
// ANY_ALL, ANY_U, CHARACTER[_IGN], PROPERTY, RANGE, and the SET_* boolean
// combinators. Every case here consumes exactly one codepoint on success.
func matchLeaf(enc encoding.Encoding, n *node.Node, ch rune) bool {
	switch n.Op {
	case opcode.OpAny:
		return ch != '\n'
	case opcode.OpAnyAll:
		return true
	case opcode.OpAnyU:
		return ch != '\n'
	case opcode.OpCharacter:
		return ch == rune(n.Values[0])
	case opcode.OpCharacterIgn:
		want := rune(n.Values[0])
		if ch == want {
			return true
		}
		for _, v := range enc.AllCases(want) {
			if ch == v {
				return true
			}
		}
		return false
	case opcode.OpProperty:
		prop := encoding.Property(uint32(n.Values[0]))
		has := enc.HasProperty(prop, ch)
		if n.Flags&opcode.FlagNegate != 0 {
			return !has
		}
		return has
	case opcode.OpRange:
		lo, hi := rune(n.Values[0]), rune(n.Values[1])
		return ch >= lo && ch <= hi
	case opcode.OpSetUnion, opcode.OpSetInter, opcode.OpSetDiff, opcode.OpSetSymDiff:
		return matchSet(n, ch)
	default:
		return false
	}
}

// matchSet evaluates a SET_* node's packed [count, lo1, hi1, lo2, hi2, ...]
// range list against ch. UNION is membership in any listed range;
// INTERSECTION requires membership in all of them; DIFFERENCE is the first
// range minus the rest; SYMMETRIC_DIFFERENCE is true when ch falls in an
// odd number of the listed ranges (spec §4.1 character-class algebra
// lowered to one flat range list plus an operator tag).
func matchSet(n *node.Node, ch rune) bool {
	count := int(n.Values[0])
	inAny := false
	inAll := count > 0
	parity := false
	for i := 0; i < count; i++ {
		lo := rune(n.Values[1+2*i])
		hi := rune(n.Values[2+2*i])
		in := ch >= lo && ch <= hi
		if in {
			inAny = true
			parity = !parity
		} else {
			inAll = false
		}
	}
	switch n.Op {
	case opcode.OpSetUnion:
		return inAny
	case opcode.OpSetInter:
		return inAll
	case opcode.OpSetDiff:
		if count == 0 {
			return false
		}
		lo, hi := rune(n.Values[1]), rune(n.Values[2])
		if ch < lo || ch > hi {
			return false
		}
		for i := 1; i < count; i++ {
			lo2, hi2 := rune(n.Values[1+2*i]), rune(n.Values[2+2*i])
			if ch >= lo2 && ch <= hi2 {
				return false
			}
		}
		return true
	case opcode.OpSetSymDiff:
		return parity
	default:
		return false
	}
}

// matchLiteral compares the interned string at n.StringIndex against the
// text starting at pos, returning the number of codepoints consumed on
// success (spec §4.7: literal nodes are the ones package search builds
// fast-search tables for).
func matchLiteral(enc encoding.Encoding, cur *cursor.Cursor, strings []string, n *node.Node, pos int, foldCase bool) matchResult {
	if n.StringIndex < 0 || n.StringIndex >= len(strings) {
		return matchResult{}
	}
	lit := []rune(strings[n.StringIndex])
	for i, want := range lit {
		ch, valid := charAt(cur, pos+i)
		if !valid {
			return matchResult{}
		}
		if ch == want {
			continue
		}
		if !foldCase {
			return matchResult{}
		}
		if enc.SimpleCaseFold(ch) != enc.SimpleCaseFold(want) {
			return matchResult{}
		}
	}
	return matchResult{ok: true, width: len(lit)}
}

// matchBackref compares the text at pos against a previously captured span
// [start,end). An unset group (start < 0) always fails the reference (spec
// REF_GROUP semantics).
func matchBackref(enc encoding.Encoding, cur *cursor.Cursor, start, end, pos int, foldCase bool) matchResult {
	if start < 0 {
		return matchResult{}
	}
	n := end - start
	for i := 0; i < n; i++ {
		want, wvalid := charAt(cur, start+i)
		got, gvalid := charAt(cur, pos+i)
		if !wvalid || !gvalid {
			return matchResult{}
		}
		if got == want {
			continue
		}
		if !foldCase {
			return matchResult{}
		}
		if enc.SimpleCaseFold(got) != enc.SimpleCaseFold(want) {
			return matchResult{}
		}
	}
	return matchResult{ok: true, width: n}
}

// readUTF8 copies up to maxChars codepoints starting at pos into UTF-8
// bytes, for handing to a stringset.Matcher (which, like the ahocorasick
// automaton backing it, only ever sees []byte).
func readUTF8(cur *cursor.Cursor, pos, maxChars int) []byte {
	buf := make([]byte, 0, maxChars*utf8.UTFMax)
	for i := 0; i < maxChars; i++ {
		ch, valid := charAt(cur, pos+i)
		if !valid {
			break
		}
		var tmp [utf8.UTFMax]byte
		n := utf8.EncodeRune(tmp[:], ch)
		buf = append(buf, tmp[:n]...)
	}
	return buf
}

// runeCountForBytes decodes byteLen back into a codepoint count by
// re-walking the cursor from pos, since stringset.Matcher reports match
// length in bytes but the VM advances the cursor in codepoints.
func runeCountForBytes(cur *cursor.Cursor, pos, byteLen int) int {
	consumed := 0
	for i := 0; consumed < byteLen; i++ {
		ch, valid := charAt(cur, pos+i)
		if !valid {
			break
		}
		consumed += utf8.RuneLen(ch)
		if consumed >= byteLen {
			return i + 1
		}
	}
	return 0
}
