package node

import (
	"testing"

	"github.com/brexlang/brex/encoding"
	"github.com/brexlang/brex/opcode"
)

func build(t *testing.T, pattern string, flags opcode.Flags) *Pattern {
	t.Helper()
	prog, err := opcode.Compile(pattern, flags)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	insts, err := opcode.Decode(prog.Words)
	if err != nil {
		t.Fatalf("Decode(%q): %v", pattern, err)
	}
	p, err := Build(insts, prog, encoding.NewUnicode())
	if err != nil {
		t.Fatalf("Build(%q): %v", pattern, err)
	}
	return p
}

func TestBuildLiteralHasSuccess(t *testing.T) {
	p := build(t, "abc", 0)
	if p.StartNode == InvalidID {
		t.Fatal("expected a start node")
	}
	seen := map[ID]bool{}
	id := p.StartNode
	for steps := 0; steps < len(p.Nodes)+1; steps++ {
		if id == InvalidID {
			t.Fatal("walked off the graph before reaching SUCCESS")
		}
		if seen[id] {
			t.Fatal("unexpected cycle in a non-repeating literal pattern")
		}
		seen[id] = true
		n := p.Node(id)
		if n.Op == opcode.OpSuccess {
			return
		}
		id = n.Next1
	}
	t.Fatal("never reached SUCCESS walking Next1 from StartNode")
}

func TestBuildGroupRecordsInfo(t *testing.T) {
	p := build(t, "(a)(b)", 0)
	if p.PublicGroupCount != 3 {
		t.Fatalf("expected 3 public groups (whole match + 2), got %d", p.PublicGroupCount)
	}
	if len(p.GroupInfo) < 3 {
		t.Fatalf("expected GroupInfo for both groups, got %d entries", len(p.GroupInfo))
	}
	for i, gi := range p.GroupInfo[1:3] {
		if gi.DefiningNode == InvalidID || gi.EndIndex < 0 {
			t.Fatalf("group %d missing defining/end node", i+1)
		}
	}
}

func TestBuildBranchLinksBothArms(t *testing.T) {
	p := build(t, "ab|cd", 0) // single-char arms would be folded into a char class
	var branch *Node
	for i := range p.Nodes {
		if p.Nodes[i].Op == opcode.OpBranch {
			branch = &p.Nodes[i]
			break
		}
	}
	if branch == nil {
		t.Fatal("expected a BRANCH node for alternation")
	}
	if branch.Next1 == InvalidID || branch.Next2 == InvalidID {
		t.Fatal("BRANCH must have both arms linked")
	}
}

func TestBuildRepeatPairing(t *testing.T) {
	p := build(t, "a{2,4}", 0)
	var start *Node
	var startID ID
	for i := range p.Nodes {
		switch p.Nodes[i].Op {
		case opcode.OpGreedyRepeat, opcode.OpLazyRepeat:
			start = &p.Nodes[i]
			startID = ID(i)
		}
	}
	if start == nil {
		t.Fatal("expected a repeat node for a{2,4}")
	}
	if start.Min != 2 || start.Max != 4 {
		t.Fatalf("expected min=2 max=4, got min=%d max=%d", start.Min, start.Max)
	}
	end := p.Node(start.Paired)
	if end == nil {
		t.Fatal("repeat start must be paired with an end node")
	}
	if end.Paired != startID {
		t.Fatal("end node's Paired must point back to the repeat start")
	}
	if end.Next1 != start.Next1 {
		t.Fatal("end node's loop-back must target the body head directly, not the repeat start")
	}
}

func TestSetTestNodesSkipsGroupMarkers(t *testing.T) {
	p := build(t, "(a)", 0)
	start := p.Node(p.StartNode)
	if start.Op == opcode.OpGroup {
		if start.TestNode == p.StartNode {
			t.Fatal("TestNode should skip past the transparent GROUP marker")
		}
		tn := p.Node(start.TestNode)
		if tn == nil || isTransparent(tn.Op) {
			t.Fatal("TestNode must resolve to a non-transparent node")
		}
	}
}

func TestAddRepeatGuardsFixedWidthExempt(t *testing.T) {
	p := build(t, "a{3}", 0)
	// a{3} with min==max==3 and a non-zero-width body needs no body guard.
	if p.RepeatCount == 0 {
		// min==max collapses to inlined body at compile time for exactly-1
		// repeats only; {3} still goes through the repeat machinery.
		t.Skip("compiler inlined the fixed repeat; nothing to check")
	}
	if p.RepeatInfo[0].NeedsBodyGuard {
		t.Fatal("fixed-count a{3} with a non-zero-width body should be exempt from the body guard")
	}
}
