// Package groupcall implements the recursive subpattern-invocation
// subsystem (component K): a return-address stack of GroupCallFrame
// records pushed on GROUP_CALL and popped on GROUP_RETURN (spec §3.1
// "GroupCallFrame", §3.3 "pushes on each GROUP_CALL, pops on each
// GROUP_RETURN; on rewind, the matching push is undone").
//
// Structured like savedstate.Stack (a push-per-entry, pop-per-exit LIFO
// of snapshot frames), specialized to additionally carry the node to
// resume at on return.
package groupcall

import (
	"github.com/brexlang/brex/capture"
	"github.com/brexlang/brex/node"
	"github.com/brexlang/brex/repeatstate"
)

// Frame is one recursive call's return address plus the caller-side state
// snapshot to restore on GROUP_RETURN (spec §3.1 "return_node, snapshot of
// groups and repeats at the call site").
type Frame struct {
	ReturnNode node.ID
	Groups     capture.Snapshot
	Repeats    []repeatstate.Snapshot
}

// Stack is the growable return-address stack. The zero value is ready to
// use.
type Stack struct {
	frames []Frame
}

// Push records a call, clearing the way for the callee to start with
// fresh group/repeat state (the caller is expected to reset groups/
// repeats itself per spec §4.4 "clear groups/repeats, jump to called
// subpattern's body" — Push only remembers what to restore afterward).
func (s *Stack) Push(f Frame) { s.frames = append(s.frames, f) }

// Pop removes and returns the most recent call frame so GROUP_RETURN can
// restore groups/repeats and resume at ReturnNode. ok is false if no call
// is outstanding (a malformed pattern calling GROUP_RETURN without a
// matching GROUP_CALL).
func (s *Stack) Pop() (f Frame, ok bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	last := len(s.frames) - 1
	f = s.frames[last]
	s.frames = s.frames[:last]
	return f, true
}

// Depth reports the current recursion depth (number of outstanding
// calls), so the VM can enforce a configurable recursion limit instead of
// growing this stack without bound.
func (s *Stack) Depth() int { return len(s.frames) }

// Reset empties the stack between match attempts on a reused State.
func (s *Stack) Reset() { s.frames = s.frames[:0] }
