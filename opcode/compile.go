package opcode

import (
	"fmt"
	"regexp/syntax"

	"github.com/brexlang/brex/internal/conv"
)

// ParseFlags translates the core's syntax Flags into the regexp/syntax
// Flags Compile parses with. Exported so front-end helpers that need
// the parsed *syntax.Regexp directly (e.g. literal-prefix extraction) can
// reparse under the exact same rules Compile itself uses.
func ParseFlags(flags Flags) syntax.Flags {
	parseFlags := syntax.Perl
	if flags&FlagASCII != 0 {
		parseFlags &^= syntax.UnicodeGroups // \p{...} Unicode class escapes are rejected
	}
	if flags&FlagIgnoreCase != 0 {
		parseFlags |= syntax.FoldCase
	}
	if flags&FlagDotAll != 0 {
		parseFlags |= syntax.DotNL
	}
	if flags&FlagMultiline != 0 {
		// syntax.Perl sets OneLine by default (^/$ anchor text, not lines);
		// clear it so ^/$ also match at line boundaries.
		parseFlags &^= syntax.OneLine
	}
	return parseFlags
}

// Compile parses pattern text with the standard library's regexp/syntax
// parser and emits the opcode vector Program the core consumes. This is
// the minimal front end spec.md places out of core scope (§1): it exists
// only so Program values can be produced from ordinary regex syntax
// without hand-assembling an opcode vector. Advanced constructs the spec's
// core supports but regexp/syntax cannot express — lookaround, atomic
// groups, recursive subpattern calls, fuzzy sections, string-set
// membership — are not reachable through this front end; callers that
// need them build a Program directly (see ProgramBuilder).
func Compile(pattern string, flags Flags) (*Program, error) {
	re, err := syntax.Parse(pattern, ParseFlags(flags))
	if err != nil {
		return nil, fmt.Errorf("opcode: parse %q: %w", pattern, err)
	}
	c := &compiler{
		flags:      flags,
		groupIndex: map[string]int{},
		indexGroup: map[int]string{},
	}
	c.pushGroupIndex("") // group 0 is the whole match
	c.emit(re)
	c.wOp(OpSuccess)

	return &Program{
		Words:            c.words,
		Flags:            flags,
		GroupIndex:       c.groupIndex,
		IndexGroup:       c.indexGroup,
		PublicGroupCount: c.nextGroup,
		TrueGroupCount:   c.nextGroup,
		Strings:          c.strings,
		PatternCallRef:   -1,
	}, nil
}

type compiler struct {
	words      []uint32
	flags      Flags
	groupIndex map[string]int
	indexGroup map[int]string
	nextGroup  int
	nextRepeat int
	strings    []string
}

func (c *compiler) pushGroupIndex(name string) int {
	idx := c.nextGroup
	c.nextGroup++
	if name != "" {
		c.groupIndex[name] = idx
		c.indexGroup[idx] = name
	} else {
		c.indexGroup[idx] = ""
	}
	return idx
}

func (c *compiler) w(words ...uint32) { c.words = append(c.words, words...) }

func (c *compiler) wOp(op Op, operand ...uint32) {
	c.w(uint32(op))
	c.w(operand...)
	if opHasFlagsWord(op) {
		c.w(uint32(c.flags))
	}
}

func (c *compiler) addString(s string) uint32 {
	c.strings = append(c.strings, s)
	return conv.IntToUint32(len(c.strings) - 1)
}

// emit recursively lowers a parsed regexp AST into the opcode vector. The
// structure follows spec.md §4.3: BRANCH/NEXT chains for alternation,
// paired repeat/end-repeat nodes for quantifiers, paired group/end-group
// markers for captures.
func (c *compiler) emit(re *syntax.Regexp) {
	switch re.Op {
	case syntax.OpNoMatch:
		c.wOp(OpFailure)
	case syntax.OpEmptyMatch:
		// zero-width, no instruction needed
	case syntax.OpLiteral:
		c.emitLiteral(re)
	case syntax.OpCharClass:
		c.emitCharClass(re)
	case syntax.OpAnyCharNotNL:
		c.wOp(OpAny)
	case syntax.OpAnyChar:
		c.wOp(OpAnyAll)
	case syntax.OpBeginLine:
		c.wOp(OpStartOfLine)
	case syntax.OpEndLine:
		c.wOp(OpEndOfLine)
	case syntax.OpBeginText:
		c.wOp(OpStartOfString)
	case syntax.OpEndText:
		c.wOp(OpEndOfString)
	case syntax.OpWordBoundary:
		c.wOp(OpBoundary)
	case syntax.OpNoWordBoundary:
		c.wOp(OpBoundary)
		// negate via flag on the just-emitted instruction word
		c.words[len(c.words)-1] |= uint32(FlagNegate)
	case syntax.OpCapture:
		c.emitCapture(re)
	case syntax.OpStar:
		c.emitRepeat(re.Sub[0], 0, -1, re.Flags&syntax.NonGreedy == 0)
	case syntax.OpPlus:
		c.emitRepeat(re.Sub[0], 1, -1, re.Flags&syntax.NonGreedy == 0)
	case syntax.OpQuest:
		c.emitRepeat(re.Sub[0], 0, 1, re.Flags&syntax.NonGreedy == 0)
	case syntax.OpRepeat:
		c.emitRepeat(re.Sub[0], re.Min, re.Max, re.Flags&syntax.NonGreedy == 0)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			c.emit(sub)
		}
	case syntax.OpAlternate:
		c.emitAlternate(re.Sub)
	default:
		// No other op reaches here: regexp/syntax.Parse produces only the
		// ops handled above.
	}
}

func (c *compiler) emitLiteral(re *syntax.Regexp) {
	s := string(re.Rune)
	ignoreCase := re.Flags&syntax.FoldCase != 0
	idx := c.addString(s)
	if ignoreCase {
		c.wOp(OpStringFld, idx)
	} else {
		c.wOp(OpString, idx)
	}
}

func (c *compiler) emitCharClass(re *syntax.Regexp) {
	n := len(re.Rune) / 2
	operand := make([]uint32, 0, 1+2*n)
	operand = append(operand, uint32(n))
	for i := 0; i+1 < len(re.Rune); i += 2 {
		operand = append(operand, uint32(re.Rune[i]), uint32(re.Rune[i+1]))
	}
	c.wOp(OpSetUnion, operand...)
}

func (c *compiler) emitCapture(re *syntax.Regexp) {
	idx := c.pushGroupIndex(re.Name)
	c.wOp(OpGroup, conv.IntToUint32(idx))
	c.emit(re.Sub[0])
	c.wOp(OpEnd)
}

// emitRepeat lowers {min,max} (max==-1 means unbounded) following spec.md
// §4.3: min==max==1 splices the body inline; otherwise a fresh repeat
// index wraps the body between paired (LAZY_)GREEDY_REPEAT/END nodes.
func (c *compiler) emitRepeat(body *syntax.Regexp, min, max int, greedy bool) {
	if max == 0 {
		return
	}
	if min == 1 && max == 1 {
		c.emit(body)
		return
	}
	repeatOp, endOp := OpGreedyRepeat, OpEndGreedyRepeat
	if !greedy {
		repeatOp, endOp = OpLazyRepeat, OpEndLazyRepeat
	}
	repeatIndex := conv.IntToUint32(c.nextRepeat) // dense 0..N-1 id, used as an array index by package node
	c.nextRepeat++
	forward := uint32(1)
	if c.flags&FlagReverse != 0 {
		forward = 0
	}
	maxWord := uint32(0xFFFFFFFF)
	if max >= 0 {
		maxWord = conv.IntToUint32(max)
	}
	c.wOp(repeatOp, repeatIndex, conv.IntToUint32(min), maxWord, forward)
	c.emit(body)
	c.wOp(endOp)
}

// emitAlternate lowers a|b|c|... into a chain of BRANCH/NEXT pairs sharing
// a tail (spec.md §4.3).
func (c *compiler) emitAlternate(subs []*syntax.Regexp) {
	if len(subs) == 0 {
		return
	}
	if len(subs) == 1 {
		c.emit(subs[0])
		return
	}
	c.wOp(OpBranch)
	c.emit(subs[0])
	c.wOp(OpNext)
	c.emitAlternate(subs[1:])
	c.wOp(OpEnd)
}
