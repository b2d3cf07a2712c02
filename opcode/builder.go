package opcode

import "github.com/brexlang/brex/internal/conv"

// ProgramBuilder hand-assembles an opcode vector for constructs the
// regexp/syntax-based front end in compile.go cannot express: lookaround,
// atomic groups, group-call recursion, fuzzy sections, and string-set
// membership. It mirrors the wOp helper in compiler but is exported for
// direct use by callers (and tests) building a Program without pattern
// text.
type ProgramBuilder struct {
	words            []uint32
	flags            Flags
	groupIndex       map[string]int
	indexGroup       map[int]string
	nextGroup        int
	strings          []string
	namedLists       map[string][]string
	namedListOrder   []string
	patternCallRef   int
}

// NewProgramBuilder starts a new builder. Group 0 (the whole match) is
// registered automatically.
func NewProgramBuilder(flags Flags) *ProgramBuilder {
	b := &ProgramBuilder{
		flags:          flags,
		groupIndex:     map[string]int{},
		indexGroup:     map[int]string{},
		namedLists:     map[string][]string{},
		patternCallRef: -1,
	}
	b.indexGroup[0] = ""
	b.nextGroup = 1
	return b
}

// Emit appends a raw instruction: op, its fixed operand words, then the
// trailing per-instruction flags word — except for the handful of ops
// (OpEnd, OpBranch, OpNext, OpGroupCall, OpGroupReturn, OpAtomic,
// OpEndGreedyRepeat, OpEndLazyRepeat, OpFailure) whose wire encoding
// carries no flags word at all; Decode would otherwise read a flags word
// meant for one of these as the next instruction's Op.
func (b *ProgramBuilder) Emit(op Op, operand ...uint32) *ProgramBuilder {
	b.words = append(b.words, uint32(op))
	b.words = append(b.words, operand...)
	if opHasFlagsWord(op) {
		b.words = append(b.words, uint32(b.flags))
	}
	return b
}

// EmitFlagged is like Emit but ORs extra bits into the trailing flags word
// (e.g. FlagPositive for a positive lookaround). Only meaningful for ops
// that carry a flags word at all; see Emit.
func (b *ProgramBuilder) EmitFlagged(op Op, extra Flags, operand ...uint32) *ProgramBuilder {
	b.words = append(b.words, uint32(op))
	b.words = append(b.words, operand...)
	if opHasFlagsWord(op) {
		b.words = append(b.words, uint32(b.flags|extra))
	}
	return b
}

// Group opens a capture group, returning its public index. Close it with
// End().
func (b *ProgramBuilder) Group(name string) (idx int, out *ProgramBuilder) {
	idx = b.nextGroup
	b.nextGroup++
	if name != "" {
		b.groupIndex[name] = idx
	}
	b.indexGroup[idx] = name
	b.Emit(OpGroup, conv.IntToUint32(idx))
	return idx, b
}

// End closes the most recently opened subsequence (group, branch, repeat,
// atomic, lookaround, fuzzy, call-ref).
func (b *ProgramBuilder) End() *ProgramBuilder {
	return b.Emit(OpEnd)
}

// AddString interns a literal string and returns its table index for use
// with OpString/OpStringFld.
func (b *ProgramBuilder) AddString(s string) uint32 {
	b.strings = append(b.strings, s)
	return conv.IntToUint32(len(b.strings) - 1)
}

// AddNamedList registers a named string-set (spec §4.9) and returns its
// list index for use with OpStringSet*.
func (b *ProgramBuilder) AddNamedList(name string, members []string) uint32 {
	b.namedLists[name] = members
	b.namedListOrder = append(b.namedListOrder, name)
	return conv.IntToUint32(len(b.namedListOrder) - 1)
}

// SetPatternCallRef marks the whole pattern as recursively callable
// through the given call-ref id (spec §3.1 Pattern.pattern_call_ref).
func (b *ProgramBuilder) SetPatternCallRef(id int) *ProgramBuilder {
	b.patternCallRef = id
	return b
}

// Build finalizes the Program. The caller is responsible for balancing
// every opening op with End(); Build performs no nesting validation (that
// happens in package node, which must reject malformed input regardless
// of which front end produced it).
func (b *ProgramBuilder) Build() *Program {
	return &Program{
		Words:            b.words,
		Flags:            b.flags,
		GroupIndex:       b.groupIndex,
		IndexGroup:       b.indexGroup,
		PublicGroupCount: b.nextGroup,
		TrueGroupCount:   b.nextGroup,
		NamedLists:       b.namedLists,
		NamedListOrder:   b.namedListOrder,
		Strings:          b.strings,
		PatternCallRef:   b.patternCallRef,
	}
}
