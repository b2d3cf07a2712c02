package vm

import (
	"github.com/brexlang/brex/encoding"
	"github.com/brexlang/brex/node"
	"github.com/brexlang/brex/opcode"
)

// testAssertion evaluates a zero-width node at pos, consulting the one
// character on either side through the Encoding (spec §4.1's assertion
// family: word boundaries, line/string anchors, grapheme boundaries, and
// the search-start anchor used by \G-style patterns).
func (e *Engine) testAssertion(s *State, n *node.Node, pos int) bool {
	before, beforeValid := charAt(s.Cursor, pos-1)
	after, afterValid := charAt(s.Cursor, pos)
	enc := e.Pattern.Encoding

	switch n.Op {
	case opcode.OpBoundary:
		// FlagNegate turns \b into \B.
		return enc.AtBoundary(before, after, beforeValid, afterValid) != (n.Flags&opcode.FlagNegate != 0)
	case opcode.OpDefaultBoundary:
		return enc.AtDefaultBoundary(before, after, beforeValid, afterValid)
	case opcode.OpStartOfWord:
		return enc.AtWordStart(before, after, beforeValid, afterValid)
	case opcode.OpEndOfWord:
		return enc.AtWordEnd(before, after, beforeValid, afterValid)
	case opcode.OpDefaultStartOfWord:
		return defaultWordStart(enc, before, after, beforeValid, afterValid)
	case opcode.OpDefaultEndOfWord:
		return defaultWordEnd(enc, before, after, beforeValid, afterValid)
	case opcode.OpGraphemeBoundary:
		return enc.AtGraphemeBoundary(before, after, beforeValid, afterValid)
	case opcode.OpStartOfLine:
		return !beforeValid || enc.IsLineSep(before)
	case opcode.OpEndOfLine:
		return !afterValid || enc.IsLineSep(after)
	case opcode.OpStartOfString:
		return !beforeValid
	case opcode.OpEndOfString:
		return !afterValid
	case opcode.OpEndOfStringLine:
		return !afterValid || (enc.IsLineSep(after) && !s.Cursor.InBounds(pos+1))
	case opcode.OpSearchAnchor:
		return pos == s.SearchAnchor
	default:
		return false
	}
}

// defaultWordStart/defaultWordEnd derive one-sided assertions from the
// Unicode-default boundary test when an encoding doesn't expose its own
// one-sided variant distinct from its locale word set (spec §4.1
// "default" anchors always use the Annex #29 word definition).
func defaultWordStart(enc encoding.Encoding, before, after rune, beforeValid, afterValid bool) bool {
	if !afterValid {
		return false
	}
	// A boundary against "no character" holds exactly when after is a word character.
	afterWord := enc.AtDefaultBoundary(0, after, false, true)
	return afterWord && enc.AtDefaultBoundary(before, after, beforeValid, afterValid)
}

func defaultWordEnd(enc encoding.Encoding, before, after rune, beforeValid, afterValid bool) bool {
	if !beforeValid {
		return false
	}
	beforeWord := enc.AtDefaultBoundary(before, 0, true, false)
	return beforeWord && enc.AtDefaultBoundary(before, after, beforeValid, afterValid)
}
