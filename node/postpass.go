package node

import "github.com/brexlang/brex/opcode"

// setTestNodes walks the graph once and records, on every node whose
// Next1 chain runs through the transparent markers isTransparent lists
// (GROUP, END, CALL_REF, GROUP_CALL/GROUP_RETURN, SEARCH_ANCHOR), the
// first node downstream that is not such a marker. The VM
// consults TestNode to peek ahead one step without walking the marker
// chain at match time (spec §4.3 "skip one-way branches").
func setTestNodes(p *Pattern) {
	memo := make(map[ID]ID, len(p.Nodes))
	for i := range p.Nodes {
		id := ID(i)
		p.Nodes[i].TestNode = resolveTestNode(p, id, memo, nil)
	}
	p.StartTest = resolveTestNode(p, p.StartNode, memo, nil)
}

// isTransparent reports whether a node always has exactly one successor
// (Next1) and performs no test of its own, so the search for a TestNode
// can walk straight through it.
func isTransparent(op opcode.Op) bool {
	switch op {
	case opcode.OpGroup, opcode.OpEnd, opcode.OpCallRef, opcode.OpGroupCall,
		opcode.OpGroupReturn, opcode.OpSearchAnchor:
		return true
	default:
		return false
	}
}

func resolveTestNode(p *Pattern, id ID, memo map[ID]ID, visiting map[ID]bool) ID {
	if id == InvalidID {
		return InvalidID
	}
	if v, ok := memo[id]; ok {
		return v
	}
	if visiting == nil {
		visiting = map[ID]bool{}
	}
	if visiting[id] {
		// A zero-width loop (e.g. an empty-bodied repeat) with no real
		// test downstream; fall back to the node itself rather than
		// recursing forever.
		return id
	}
	visiting[id] = true

	n := p.Node(id)
	var result ID
	if n == nil {
		result = InvalidID
	} else if isTransparent(n.Op) {
		result = resolveTestNode(p, n.Next1, memo, visiting)
	} else {
		result = id
	}
	memo[id] = result
	delete(visiting, id)
	return result
}

// addRepeatGuards marks every RepeatInfo entry as needing body and tail
// guards, so the VM consults a guard list (component E) rather than
// relying on count bounds alone to prevent zero-width infinite loops
// (spec §4.3 "add repeat guards", §4.9). The one exemption is the body
// guard of a fixed-count (min == max >= 1) repeat whose body cannot match
// zero-width.
func addRepeatGuards(p *Pattern) {
	for i := range p.RepeatInfo {
		p.RepeatInfo[i].NeedsBodyGuard = true
		p.RepeatInfo[i].NeedsTailGuard = true
	}

	for i := range p.Nodes {
		n := &p.Nodes[i]
		switch n.Op {
		case opcode.OpGreedyRepeat, opcode.OpLazyRepeat, opcode.OpGreedyRepeatOne, opcode.OpLazyRepeatOne:
			if n.Min == n.Max && n.Min >= 1 && !bodyCanBeZeroWidth(p, n) {
				if n.RepeatIndex < len(p.RepeatInfo) {
					p.RepeatInfo[n.RepeatIndex].NeedsBodyGuard = false
				}
			}
		}
	}
}

// bodyCanBeZeroWidth conservatively reports whether a repeat's body might
// match zero input characters, by checking whether its immediate entry is
// itself a zero-width assertion or an empty GROUP. A false positive here
// only costs an unnecessary guard check at match time, never correctness.
func bodyCanBeZeroWidth(p *Pattern, repeatNode *Node) bool {
	n := p.Node(repeatNode.Next1)
	for depth := 0; n != nil && depth < 8; depth++ {
		if n.Flags&opcode.FlagZeroWidth != 0 {
			return true
		}
		if !isTransparent(n.Op) {
			return false
		}
		n = p.Node(n.Next1)
	}
	return true
}
