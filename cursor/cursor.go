// Package cursor provides indexed random access to the text being matched
// (spec §3.1 "State", §4.2, component B). A Cursor is created once per
// matching State and never changes its code-unit width afterward.
package cursor

import "fmt"

// Width identifies the code-unit size backing a Cursor.
type Width int

const (
	// Width1 addresses 1-byte code units (Latin-1 / ASCII / raw bytes).
	Width1 Width = 1
	// Width2 addresses 2-byte code units (UTF-16 code units).
	Width2 Width = 2
	// Width4 addresses 4-byte code units (UCS-4 / decoded runes).
	Width4 Width = 4
)

// PartialSide indicates which end of the active slice a partial match is
// measured against (spec §3.1, §4.2).
type PartialSide int

const (
	// PartialNone disables partial-match reporting.
	PartialNone PartialSide = iota
	// PartialLeft reports a partial match that would extend further left
	// with more text (reverse searches hitting the slice start).
	PartialLeft
	// PartialRight reports a partial match that would extend further
	// right with more text (forward searches hitting the slice end).
	PartialRight
)

// Cursor exposes char_at/set_char_at/pointer_to over a fixed-width text
// buffer, restricted to an active slice [SliceStart, SliceEnd) within the
// full [0, Length) address space (spec §4.2).
type Cursor struct {
	width Width

	buf1 []byte
	buf2 []uint16
	buf4 []rune

	sliceStart int
	sliceEnd   int
	partial    PartialSide
}

// NewBytes creates a 1-byte-wide cursor over b, with the active slice
// spanning the whole buffer.
func NewBytes(b []byte) *Cursor {
	return &Cursor{width: Width1, buf1: b, sliceStart: 0, sliceEnd: len(b)}
}

// NewUTF16 creates a 2-byte-wide cursor over u.
func NewUTF16(u []uint16) *Cursor {
	return &Cursor{width: Width2, buf2: u, sliceStart: 0, sliceEnd: len(u)}
}

// NewRunes creates a 4-byte-wide cursor over r.
func NewRunes(r []rune) *Cursor {
	return &Cursor{width: Width4, buf4: r, sliceStart: 0, sliceEnd: len(r)}
}

// Width returns the cursor's fixed code-unit width.
func (c *Cursor) Width() Width { return c.width }

// Length returns the total addressable length, ignoring slice bounds.
func (c *Cursor) Length() int {
	switch c.width {
	case Width1:
		return len(c.buf1)
	case Width2:
		return len(c.buf2)
	default:
		return len(c.buf4)
	}
}

// SliceStart returns the active slice's inclusive lower bound.
func (c *Cursor) SliceStart() int { return c.sliceStart }

// SliceEnd returns the active slice's exclusive upper bound.
func (c *Cursor) SliceEnd() int { return c.sliceEnd }

// SetSlice restricts matching to [start, end). Both bounds are clamped to
// [0, Length()].
func (c *Cursor) SetSlice(start, end int) {
	n := c.Length()
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if end < 0 {
		end = 0
	}
	if start > end {
		start = end
	}
	c.sliceStart, c.sliceEnd = start, end
}

// WidenToFull sets the active slice to the whole buffer; used when
// entering a lookaround/atomic subpattern, which must be able to see past
// the caller's slice (spec §4.6).
func (c *Cursor) WidenToFull() {
	c.sliceStart, c.sliceEnd = 0, c.Length()
}

// PartialSide returns which side, if any, a hit against the slice
// boundary should be reported as partial.
func (c *Cursor) PartialSide() PartialSide { return c.partial }

// SetPartialSide sets the partial-match edge.
func (c *Cursor) SetPartialSide(side PartialSide) { c.partial = side }

// InBounds reports whether pos is a valid index into the full buffer
// (not restricted to the active slice).
func (c *Cursor) InBounds(pos int) bool {
	return pos >= 0 && pos < c.Length()
}

// CharAt returns the code unit at pos widened to rune. Panics if pos is
// out of the full buffer bounds — callers must bounds-check via InBounds
// first, matching the teacher's convention of keeping the hot accessor
// branch-free.
func (c *Cursor) CharAt(pos int) rune {
	switch c.width {
	case Width1:
		return rune(c.buf1[pos])
	case Width2:
		return rune(c.buf2[pos])
	default:
		return c.buf4[pos]
	}
}

// SetCharAt overwrites the code unit at pos, truncating ch to the cursor's
// width. No matching path in this module calls it.
func (c *Cursor) SetCharAt(pos int, ch rune) {
	switch c.width {
	case Width1:
		c.buf1[pos] = byte(ch)
	case Width2:
		c.buf2[pos] = uint16(ch)
	default:
		c.buf4[pos] = ch
	}
}

// PointerTo returns a read-only view starting at pos for width-1 cursors
// only, enabling byte-slice-based fast search (package search). Returns
// nil for wider cursors.
func (c *Cursor) PointerTo(pos int) []byte {
	if c.width != Width1 {
		return nil
	}
	return c.buf1[pos:]
}

// Bytes1 returns the full backing []byte for a width-1 cursor, or nil.
func (c *Cursor) Bytes1() []byte {
	if c.width != Width1 {
		return nil
	}
	return c.buf1
}

func (c *Cursor) String() string {
	return fmt.Sprintf("Cursor{width:%d, len:%d, slice:[%d,%d)}", c.width, c.Length(), c.sliceStart, c.sliceEnd)
}
