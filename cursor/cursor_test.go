package cursor

import "testing"

func TestBytesCursorBasic(t *testing.T) {
	c := NewBytes([]byte("hello"))
	if c.Width() != Width1 {
		t.Fatalf("expected Width1, got %v", c.Width())
	}
	if c.Length() != 5 {
		t.Fatalf("expected length 5, got %d", c.Length())
	}
	if c.CharAt(0) != 'h' {
		t.Fatalf("expected 'h', got %c", c.CharAt(0))
	}
	c.SetCharAt(0, 'H')
	if c.CharAt(0) != 'H' {
		t.Fatal("SetCharAt did not take effect")
	}
}

func TestSliceClampingAndWiden(t *testing.T) {
	c := NewBytes([]byte("hello world"))
	c.SetSlice(2, 5)
	if c.SliceStart() != 2 || c.SliceEnd() != 5 {
		t.Fatalf("unexpected slice [%d,%d)", c.SliceStart(), c.SliceEnd())
	}
	c.SetSlice(-10, 1000)
	if c.SliceStart() != 0 || c.SliceEnd() != c.Length() {
		t.Fatalf("expected clamped full slice, got [%d,%d)", c.SliceStart(), c.SliceEnd())
	}

	c.SetSlice(2, 5)
	c.WidenToFull()
	if c.SliceStart() != 0 || c.SliceEnd() != c.Length() {
		t.Fatal("WidenToFull should restore the full buffer range")
	}
}

func TestUTF16Cursor(t *testing.T) {
	c := NewUTF16([]uint16{'a', 'b', 'c'})
	if c.Width() != Width2 {
		t.Fatalf("expected Width2, got %v", c.Width())
	}
	if c.CharAt(1) != 'b' {
		t.Fatalf("expected 'b', got %c", c.CharAt(1))
	}
	if c.PointerTo(0) != nil {
		t.Fatal("PointerTo must be nil for non-width-1 cursors")
	}
}

func TestPartialSide(t *testing.T) {
	c := NewBytes([]byte("abc"))
	if c.PartialSide() != PartialNone {
		t.Fatal("expected PartialNone by default")
	}
	c.SetPartialSide(PartialRight)
	if c.PartialSide() != PartialRight {
		t.Fatal("expected PartialRight after SetPartialSide")
	}
}
