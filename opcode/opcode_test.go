package opcode

import "testing"

func TestCompileLiteral(t *testing.T) {
	prog, err := Compile("abc", 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	insts, err := Decode(prog.Words)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(insts) == 0 {
		t.Fatal("expected at least one instruction")
	}
	last := insts[len(insts)-1]
	if last.Op != OpSuccess {
		t.Fatalf("expected trailing SUCCESS, got %s", last.Op)
	}
}

func TestCompileAlternateGroups(t *testing.T) {
	prog, err := Compile(`(a)(bc|de)`, 0) // single-char arms would be folded into a char class
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if prog.PublicGroupCount != 3 {
		t.Fatalf("expected 3 groups (whole + 2), got %d", prog.PublicGroupCount)
	}
	insts, err := Decode(prog.Words)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var sawBranch bool
	for _, in := range insts {
		if in.Op == OpBranch {
			sawBranch = true
		}
	}
	if !sawBranch {
		t.Fatal("expected a BRANCH instruction for alternation")
	}
}

func TestCompileNamedGroup(t *testing.T) {
	prog, err := Compile(`(?P<year>\d+)-(\d+)`, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	idx, ok := prog.GroupIndex["year"]
	if !ok || idx != 1 {
		t.Fatalf("expected named group %q at index 1, got %d ok=%v", "year", idx, ok)
	}
}

func TestDecodeTruncated(t *testing.T) {
	// OpString needs 1 operand + 1 flags word; give it none.
	_, err := Decode([]uint32{uint32(OpString)})
	if err == nil {
		t.Fatal("expected error for truncated operand")
	}
}

func TestDecodeCharClassVariableArity(t *testing.T) {
	words := []uint32{
		uint32(OpSetUnion), 2, 'a', 'z', 'A', 'Z', uint32(FlagASCII),
		uint32(OpSuccess),
	}
	insts, err := Decode(words)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(insts) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(insts))
	}
	if len(insts[0].Operand) != 5 {
		t.Fatalf("expected 5 operand words (count+2 ranges), got %d", len(insts[0].Operand))
	}
}

func TestProgramBuilderRoundTrip(t *testing.T) {
	b := NewProgramBuilder(FlagIgnoreCase)
	b.Group("name")
	idx := b.AddString("hello")
	b.Emit(OpString, idx)
	b.End()
	b.Emit(OpSuccess)
	prog := b.Build()

	insts, err := Decode(prog.Words)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if insts[0].Op != OpGroup {
		t.Fatalf("expected GROUP first, got %s", insts[0].Op)
	}
	if prog.GroupIndex["name"] != 1 {
		t.Fatalf("expected group 'name' at index 1")
	}
}
