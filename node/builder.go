package node

import (
	"fmt"

	"github.com/brexlang/brex/encoding"
	"github.com/brexlang/brex/opcode"
)

// patchEntry marks one dangling successor slot left by a partially linked
// construct: either nodeID's Next1 (isNext2 false) or Next2 (isNext2 true)
// still needs to be filled in by whatever comes next in the enclosing
// sequence. This stands in for a real forward pointer in an index-based
// arena (spec §9 "arena-allocated nodes plus NodeId indices").
type patchEntry struct {
	node    ID
	isNext2 bool
}

// frag is the result of compiling one instruction or instruction sequence:
// its entry point and the list of successor slots the caller must patch
// once the continuation is known.
type frag struct {
	head    ID
	patches []patchEntry
}

// builder assembles a Pattern's node arena from a decoded instruction
// stream by walking it once, recursive-descent style, mirroring the shape
// of nfa.Builder (AddByteRange/AddSplit returning a StateID to be linked by
// the caller) generalized from a two-way NFA split to the wider opcode set.
type builder struct {
	nodes       []Node
	groupInfo   []GroupInfo
	callRefInfo []CallRefInfo
	repeatInfo  []RepeatInfo
	nextGroup   int
	fuzzyCount  int

	subpatternRepeats map[ID][]int
	subpatternFuzzy   map[ID][]int

	// curSubpatternRepeats/curSubpatternFuzzy accumulate indices seen while
	// inside an ATOMIC/LOOKAROUND subpattern, popped back into
	// subpatternRepeats/subpatternFuzzy when that subpattern closes.
	subStack []subFrame
}

type subFrame struct {
	startNode ID
	repeats   []int
	fuzzy     []int
}

// Build compiles a decoded instruction stream into a Pattern. enc supplies
// the boundary/property semantics the VM will use at match time; Build
// itself does not consult enc beyond storing it on the result.
func Build(insts []opcode.Inst, prog *opcode.Program, enc encoding.Encoding) (*Pattern, error) {
	b := &builder{
		subpatternRepeats: map[ID][]int{},
		subpatternFuzzy:   map[ID][]int{},
	}

	f, rest, err := b.compileSeq(insts)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("node: %d unconsumed instructions after top-level sequence", len(rest))
	}

	success := b.push(Node{Op: opcode.OpSuccess, Next1: InvalidID, Next2: InvalidID})
	b.patch(f.patches, success)

	p := &Pattern{
		Nodes:            b.nodes,
		StartNode:        f.head,
		StartTest:        InvalidID,
		TrueGroupCount:   prog.TrueGroupCount,
		PublicGroupCount: prog.PublicGroupCount,
		GroupInfo:        b.groupInfo,
		CallRefInfo:      b.callRefInfo,
		RepeatInfo:       b.repeatInfo,
		RepeatCount:      len(b.repeatInfo),
		FuzzyCount:       b.fuzzyCount,
		IsFuzzy:          b.fuzzyCount > 0,
		DoSearchStart:    true,
		ReqStringNode:    InvalidID,
		ReqOffset:        prog.ReqOffset,
		ReqFlags:         prog.ReqFlags,
		Encoding:         enc,
		Flags:            prog.Flags,
		NamedLists:       prog.NamedLists,
		NamedListOrder:   prog.NamedListOrder,
		PatternCallRef:   prog.PatternCallRef,
		GroupIndex:       prog.GroupIndex,
		IndexGroup:       prog.IndexGroup,
		Strings:          prog.Strings,
		SubpatternRepeats: b.subpatternRepeats,
		SubpatternFuzzy:   b.subpatternFuzzy,
	}

	for i := range p.GroupInfo {
		if p.GroupInfo[i].EndIndex > p.GroupEndIndexMax {
			p.GroupEndIndexMax = p.GroupInfo[i].EndIndex
		}
	}

	setTestNodes(p)
	addRepeatGuards(p)

	if len(prog.ReqStringWords) > 0 {
		reqInsts, err := opcode.Decode(prog.ReqStringWords)
		if err != nil {
			return nil, fmt.Errorf("node: decoding required-string program: %w", err)
		}
		rb := &builder{subpatternRepeats: map[ID][]int{}, subpatternFuzzy: map[ID][]int{}}
		rf, _, err := rb.compileSeq(reqInsts)
		if err != nil {
			return nil, fmt.Errorf("node: building required-string program: %w", err)
		}
		base := ID(len(p.Nodes))
		for _, n := range rb.nodes {
			n.Next1 = offsetID(n.Next1, base)
			n.Next2 = offsetID(n.Next2, base)
			n.Paired = offsetID(n.Paired, base)
			n.TestNode = offsetID(n.TestNode, base)
			p.Nodes = append(p.Nodes, n)
		}
		p.ReqStringNode = offsetID(rf.head, base)
	}

	return p, nil
}

func offsetID(id, base ID) ID {
	if id == InvalidID {
		return InvalidID
	}
	return id + base
}

// operandValues widens a raw operand word slice to int32 for storage on a
// Node; most ops never look at Values because compileLeaf/compileFuzzy
// already copy the fields they need into typed struct members.
func operandValues(operand []uint32) []int32 {
	if len(operand) == 0 {
		return nil
	}
	v := make([]int32, len(operand))
	for i, w := range operand {
		v[i] = int32(w)
	}
	return v
}

func (b *builder) push(n Node) ID {
	id := ID(len(b.nodes))
	b.nodes = append(b.nodes, n)
	return id
}

// patch fills every entry in list with target, on b.nodes.
func (b *builder) patch(list []patchEntry, target ID) {
	for _, e := range list {
		if e.isNext2 {
			b.nodes[e.node].Next2 = target
		} else {
			b.nodes[e.node].Next1 = target
		}
	}
}

// compileSeq compiles instructions as a concatenation until it hits a
// terminator it doesn't own (End, Next of an enclosing Branch, or an
// END_GREEDY_REPEAT/END_LAZY_REPEAT/END_FUZZY), returning the remaining
// instructions, starting at that terminator, as rest.
func (b *builder) compileSeq(insts []opcode.Inst) (frag, []opcode.Inst, error) {
	var head ID = InvalidID
	var tailPatches []patchEntry

	for len(insts) > 0 {
		op := insts[0].Op
		if op == opcode.OpEnd || op == opcode.OpNext ||
			op == opcode.OpEndGreedyRepeat || op == opcode.OpEndLazyRepeat || op == opcode.OpEndFuzzy {
			break
		}

		var f frag
		var err error
		f, insts, err = b.compileOne(insts)
		if err != nil {
			return frag{}, nil, err
		}

		if head == InvalidID {
			head = f.head
		} else {
			b.patch(tailPatches, f.head)
		}
		tailPatches = f.patches
	}

	if head == InvalidID {
		// Empty sequence: synthesize a transparent pass-through node so
		// callers always get a valid head to link against.
		id := b.push(Node{Op: opcode.OpGroup, GroupIndex: -1, Next1: InvalidID, Next2: InvalidID, Paired: InvalidID})
		b.nodes[id].Flags |= opcode.FlagZeroWidth
		return frag{head: id, patches: []patchEntry{{node: id, isNext2: false}}}, insts, nil
	}
	return frag{head: head, patches: tailPatches}, insts, nil
}

// compileOne compiles exactly one top-level construct from the front of
// insts (a leaf instruction, or an opening instruction plus its whole
// matching End), returning the remaining instructions after it.
func (b *builder) compileOne(insts []opcode.Inst) (frag, []opcode.Inst, error) {
	in := insts[0]
	rest := insts[1:]

	switch in.Op {
	case opcode.OpBranch:
		return b.compileBranch(rest)

	case opcode.OpGroup:
		return b.compileGroup(in, rest)

	case opcode.OpGreedyRepeat, opcode.OpLazyRepeat:
		return b.compileRepeat(in, rest)

	case opcode.OpGreedyRepeatOne, opcode.OpLazyRepeatOne:
		return b.compileRepeatOne(in, rest)

	case opcode.OpAtomic:
		return b.compileAtomic(rest)

	case opcode.OpLookaround:
		return b.compileLookaround(in, rest)

	case opcode.OpFuzzy:
		return b.compileFuzzy(in, rest)

	case opcode.OpCallRef:
		id := b.push(Node{Op: opcode.OpCallRef, Flags: in.Flags, Next1: InvalidID, Next2: InvalidID,
			CallRefID: int(in.Operand[0])})
		b.recordCallRefDefinition(int(in.Operand[0]), id)
		return frag{head: id, patches: []patchEntry{{node: id}}}, rest, nil

	case opcode.OpGroupCall:
		id := b.push(Node{Op: opcode.OpGroupCall, Flags: in.Flags, Next1: InvalidID, Next2: InvalidID})
		return frag{head: id, patches: []patchEntry{{node: id}}}, rest, nil

	case opcode.OpGroupReturn:
		id := b.push(Node{Op: opcode.OpGroupReturn, Flags: in.Flags, Next1: InvalidID, Next2: InvalidID})
		return frag{head: id, patches: []patchEntry{{node: id}}}, rest, nil

	default:
		return b.compileLeaf(in, rest)
	}
}

// compileLeaf handles every Op with no nested sequence: it becomes exactly
// one Node with a single dangling Next1 patch.
func (b *builder) compileLeaf(in opcode.Inst, rest []opcode.Inst) (frag, []opcode.Inst, error) {
	n := Node{Op: in.Op, Flags: in.Flags, Next1: InvalidID, Next2: InvalidID, Paired: InvalidID,
		Values: operandValues(in.Operand)}

	switch in.Op {
	case opcode.OpCharacter, opcode.OpCharacterIgn:
		n.Step = 1
	case opcode.OpAny, opcode.OpAnyAll, opcode.OpAnyU, opcode.OpRange,
		opcode.OpSetUnion, opcode.OpSetInter, opcode.OpSetDiff, opcode.OpSetSymDiff,
		opcode.OpProperty:
		n.Step = 1
	case opcode.OpString, opcode.OpStringFld:
		n.Step = 1
		n.StringIndex = int(in.Operand[0])
	case opcode.OpStringSet, opcode.OpStringSetIgn, opcode.OpStringSetFld:
		n.NamedListIndex = int(in.Operand[0])
		n.MinLen = int(in.Operand[1])
		n.MaxLen = int(in.Operand[2])
	case opcode.OpRefGroup, opcode.OpRefGroupFld:
		n.GroupIndex = int(in.Operand[0])
		if n.GroupIndex < len(b.groupInfo) {
			b.groupInfo[n.GroupIndex].Referenced = true
		}
	case opcode.OpGroupExists:
		n.GroupIndex = int(in.Operand[0])
	}

	id := b.push(n)
	return frag{head: id, patches: []patchEntry{{node: id}}}, rest, nil
}

// compileBranch compiles BRANCH arm1 NEXT arm2 END into a two-way split
// node whose Next1/Next2 point at the two arms; deeper alternation is the
// front end's own nested-BRANCH encoding inside arm2, so this function
// never needs to handle more than two arms itself.
func (b *builder) compileBranch(insts []opcode.Inst) (frag, []opcode.Inst, error) {
	arm1, insts, err := b.compileSeq(insts)
	if err != nil {
		return frag{}, nil, err
	}
	if len(insts) == 0 || insts[0].Op != opcode.OpNext {
		return frag{}, nil, fmt.Errorf("node: BRANCH missing NEXT separator")
	}
	insts = insts[1:]

	arm2, insts, err := b.compileSeq(insts)
	if err != nil {
		return frag{}, nil, err
	}
	if len(insts) == 0 || insts[0].Op != opcode.OpEnd {
		return frag{}, nil, fmt.Errorf("node: BRANCH missing closing END")
	}
	insts = insts[1:]

	id := b.push(Node{Op: opcode.OpBranch, Next1: arm1.head, Next2: arm2.head, Paired: InvalidID})
	patches := append(append([]patchEntry{}, arm1.patches...), arm2.patches...)
	return frag{head: id, patches: patches}, insts, nil
}

// compileGroup compiles GROUP body END into GroupStart -> body -> GroupEnd,
// recording the group's defining node and paired end index (spec §3.1
// Pattern.group_info[]).
func (b *builder) compileGroup(in opcode.Inst, insts []opcode.Inst) (frag, []opcode.Inst, error) {
	groupIdx := int(int32(in.Operand[0]))

	start := b.push(Node{Op: opcode.OpGroup, Flags: in.Flags, Next1: InvalidID, Next2: InvalidID,
		GroupIndex: groupIdx, Paired: InvalidID})

	if groupIdx >= 0 {
		for len(b.groupInfo) <= groupIdx {
			b.groupInfo = append(b.groupInfo, GroupInfo{EndIndex: -1, DefiningNode: InvalidID})
		}
		b.groupInfo[groupIdx].DefiningNode = start
	}

	body, insts, err := b.compileSeq(insts)
	if err != nil {
		return frag{}, nil, err
	}
	if len(insts) == 0 || insts[0].Op != opcode.OpEnd {
		return frag{}, nil, fmt.Errorf("node: GROUP missing closing END")
	}
	insts = insts[1:]

	b.nodes[start].Next1 = body.head

	end := b.push(Node{Op: opcode.OpEnd, Flags: in.Flags, Next1: InvalidID, Next2: InvalidID,
		GroupIndex: groupIdx, Paired: start})
	b.nodes[start].Paired = end
	b.patch(body.patches, end)

	if groupIdx >= 0 {
		b.groupInfo[groupIdx].EndIndex = int(end)
	}

	return frag{head: start, patches: []patchEntry{{node: end}}}, insts, nil
}

// compileRepeat compiles {GREEDY,LAZY}_REPEAT body END{GREEDY,LAZY}_REPEAT
// into RepeatNode -> body -> EndRepeatNode, per spec §4.3's linking note:
// EndRepeatNode.Next1 goes straight to the body head (not back through
// RepeatNode, which would needlessly re-initialize repeat state on every
// loop iteration), while RepeatNode.Next2 and EndRepeatNode.Next2 are both
// deferred onto the fragment's outgoing patch list so the enclosing
// sequence fills in the shared tail continuation exactly once.
func (b *builder) compileRepeat(in opcode.Inst, insts []opcode.Inst) (frag, []opcode.Inst, error) {
	repeatIdx := int(in.Operand[0])
	min := int(int32(in.Operand[1]))
	max := int(in.Operand[2])

	for len(b.repeatInfo) <= repeatIdx {
		b.repeatInfo = append(b.repeatInfo, RepeatInfo{})
	}
	b.pushRepeatIndex(repeatIdx)

	start := b.push(Node{Op: in.Op, Flags: in.Flags, Next1: InvalidID, Next2: InvalidID,
		RepeatIndex: repeatIdx, Min: min, Max: max, Paired: InvalidID})

	body, insts, err := b.compileSeq(insts)
	if err != nil {
		return frag{}, nil, err
	}

	var endOp opcode.Op
	switch in.Op {
	case opcode.OpGreedyRepeat:
		endOp = opcode.OpEndGreedyRepeat
	default:
		endOp = opcode.OpEndLazyRepeat
	}
	if len(insts) == 0 || insts[0].Op != endOp {
		return frag{}, nil, fmt.Errorf("node: %s missing matching %s", in.Op, endOp)
	}
	endFlags := insts[0].Flags
	insts = insts[1:]

	b.nodes[start].Next1 = body.head

	end := b.push(Node{Op: endOp, Flags: endFlags, Next1: body.head, Next2: InvalidID,
		RepeatIndex: repeatIdx, Paired: start})
	b.nodes[start].Paired = end
	b.patch(body.patches, end)

	patches := []patchEntry{{node: start, isNext2: true}, {node: end, isNext2: true}}
	return frag{head: start, patches: patches}, insts, nil
}

// compileRepeatOne handles the single-character fast-path repeat forms
// (GREEDY_REPEAT_ONE / LAZY_REPEAT_ONE), whose body is exactly the one
// instruction that follows rather than a bracketed sequence: no END
// counterpart exists on the wire, so the node carries its own loop-back via
// Next1 and its continuation via the deferred Next2 patch.
func (b *builder) compileRepeatOne(in opcode.Inst, insts []opcode.Inst) (frag, []opcode.Inst, error) {
	repeatIdx := int(in.Operand[0])
	min := int(int32(in.Operand[1]))
	max := int(in.Operand[2])
	for len(b.repeatInfo) <= repeatIdx {
		b.repeatInfo = append(b.repeatInfo, RepeatInfo{})
	}
	b.pushRepeatIndex(repeatIdx)

	if len(insts) == 0 {
		return frag{}, nil, fmt.Errorf("node: %s missing body instruction", in.Op)
	}
	body, rest, err := b.compileOne(insts)
	if err != nil {
		return frag{}, nil, err
	}

	start := b.push(Node{Op: in.Op, Flags: in.Flags, Next1: body.head, Next2: InvalidID,
		RepeatIndex: repeatIdx, Min: min, Max: max, Paired: InvalidID})
	b.patch(body.patches, start) // single char loops back into the repeat-one test

	return frag{head: start, patches: []patchEntry{{node: start, isNext2: true}}}, rest, nil
}

// compileAtomic compiles ATOMIC body END into an atomic-entry node whose
// Next1 is the subpattern, paired with an END node whose deferred Next1 is
// the post-commit continuation (the entry's Next2 stays unset); the VM
// recognizes OpAtomic and discards backtrack entries
// created inside the subpattern once it succeeds (spec §4.6).
func (b *builder) compileAtomic(insts []opcode.Inst) (frag, []opcode.Inst, error) {
	start := b.push(Node{Op: opcode.OpAtomic, Next1: InvalidID, Next2: InvalidID, Paired: InvalidID})
	b.pushSubFrame(start)

	body, insts, err := b.compileSeq(insts)
	if err != nil {
		return frag{}, nil, err
	}
	if len(insts) == 0 || insts[0].Op != opcode.OpEnd {
		return frag{}, nil, fmt.Errorf("node: ATOMIC missing closing END")
	}
	insts = insts[1:]

	b.nodes[start].Next1 = body.head

	end := b.push(Node{Op: opcode.OpEnd, Next1: InvalidID, Next2: InvalidID, Paired: start})
	b.nodes[start].Paired = end
	b.patch(body.patches, end)
	b.popSubFrame(end)

	return frag{head: start, patches: []patchEntry{{node: end}}}, insts, nil
}

// compileLookaround compiles LOOKAROUND body END. The subpattern (Next1)
// never consumes from the caller's perspective: on success the VM restores
// the cursor to its pre-lookaround position and continues via the deferred
// Next2 patch (spec §4.6).
func (b *builder) compileLookaround(in opcode.Inst, insts []opcode.Inst) (frag, []opcode.Inst, error) {
	start := b.push(Node{Op: opcode.OpLookaround, Flags: in.Flags, Next1: InvalidID, Next2: InvalidID,
		Paired: InvalidID})
	b.pushSubFrame(start)

	body, insts, err := b.compileSeq(insts)
	if err != nil {
		return frag{}, nil, err
	}
	if len(insts) == 0 || insts[0].Op != opcode.OpEnd {
		return frag{}, nil, fmt.Errorf("node: LOOKAROUND missing closing END")
	}
	insts = insts[1:]

	b.nodes[start].Next1 = body.head

	end := b.push(Node{Op: opcode.OpEnd, Next1: InvalidID, Next2: InvalidID, Paired: start})
	b.nodes[start].Paired = end
	b.patch(body.patches, end)
	b.popSubFrame(end)

	return frag{head: start, patches: []patchEntry{{node: start, isNext2: true}}}, insts, nil
}

// compileFuzzy compiles FUZZY body END_FUZZY: the body is matched under an
// error budget tracked by a dedicated fuzzy-section counter (component F),
// identified by sequential FuzzySection index, not an operand on the wire.
func (b *builder) compileFuzzy(in opcode.Inst, insts []opcode.Inst) (frag, []opcode.Inst, error) {
	section := b.fuzzyCount
	b.fuzzyCount++
	b.pushFuzzyIndex(section)

	start := b.push(Node{Op: opcode.OpFuzzy, Flags: in.Flags, Next1: InvalidID, Next2: InvalidID,
		Paired: InvalidID, FuzzySection: section, Values: operandValues(in.Operand)})

	body, insts, err := b.compileSeq(insts)
	if err != nil {
		return frag{}, nil, err
	}
	if len(insts) == 0 || insts[0].Op != opcode.OpEndFuzzy {
		return frag{}, nil, fmt.Errorf("node: FUZZY missing closing END_FUZZY")
	}
	endIn := insts[0]
	insts = insts[1:]

	b.nodes[start].Next1 = body.head

	end := b.push(Node{Op: opcode.OpEndFuzzy, Flags: endIn.Flags, Next1: InvalidID, Next2: InvalidID,
		Paired: start, FuzzySection: section, Values: operandValues(endIn.Operand)})
	b.nodes[start].Paired = end
	b.patch(body.patches, end)

	return frag{head: start, patches: []patchEntry{{node: end}}}, insts, nil
}

func (b *builder) recordCallRefDefinition(id int, node ID) {
	for len(b.callRefInfo) <= id {
		b.callRefInfo = append(b.callRefInfo, CallRefInfo{})
	}
	b.callRefInfo[id].DefiningNode = node
	b.callRefInfo[id].Defined = true
}

func (b *builder) pushSubFrame(start ID) {
	b.subStack = append(b.subStack, subFrame{startNode: start})
}

func (b *builder) popSubFrame(end ID) {
	n := len(b.subStack)
	f := b.subStack[n-1]
	b.subStack = b.subStack[:n-1]
	if len(f.repeats) > 0 {
		b.subpatternRepeats[f.startNode] = f.repeats
	}
	if len(f.fuzzy) > 0 {
		b.subpatternFuzzy[f.startNode] = f.fuzzy
	}
	// propagate to an enclosing subpattern, if any, so a lookaround nested
	// inside another lookaround still resets both levels' guards on exit.
	if len(b.subStack) > 0 {
		outer := &b.subStack[len(b.subStack)-1]
		outer.repeats = append(outer.repeats, f.repeats...)
		outer.fuzzy = append(outer.fuzzy, f.fuzzy...)
	}
}

func (b *builder) pushRepeatIndex(idx int) {
	if n := len(b.subStack); n > 0 {
		b.subStack[n-1].repeats = append(b.subStack[n-1].repeats, idx)
	}
}

func (b *builder) pushFuzzyIndex(idx int) {
	if n := len(b.subStack); n > 0 {
		b.subStack[n-1].fuzzy = append(b.subStack[n-1].fuzzy, idx)
	}
}
