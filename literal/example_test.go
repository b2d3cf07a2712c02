package literal_test

import (
	"fmt"

	"github.com/brexlang/brex/literal"
)

// Example demonstrates basic usage of literal sequences
func Example() {
	// Create a sequence of literals from a regex alternation like /foo|bar|baz/
	seq := literal.NewSeq(
		literal.NewLiteral([]byte("foo"), true),
		literal.NewLiteral([]byte("bar"), true),
		literal.NewLiteral([]byte("baz"), true),
	)

	fmt.Printf("Sequence has %d literals\n", seq.Len())
	fmt.Printf("First literal: %s\n", seq.Get(0).Bytes)

	// Output:
	// Sequence has 3 literals
	// First literal: foo
}

// ExampleSeq_CrossForward demonstrates cross-product expansion during
// concat walking, e.g. for a pattern like /ag(a|c|t)/.
func ExampleSeq_CrossForward() {
	seq := literal.NewSeq(literal.NewLiteral([]byte("ag"), true))
	seq.CrossForward(literal.NewSeq(
		literal.NewLiteral([]byte("a"), true),
		literal.NewLiteral([]byte("c"), true),
		literal.NewLiteral([]byte("t"), true),
	))

	fmt.Printf("Literals: %d\n", seq.Len())
	fmt.Printf("First: %s\n", seq.Get(0).Bytes)

	// Output:
	// Literals: 3
	// First: aga
}

// ExampleSeq_LongestCommonPrefix demonstrates finding common prefix
func ExampleSeq_LongestCommonPrefix() {
	seq := literal.NewSeq(
		literal.NewLiteral([]byte("hello"), true),
		literal.NewLiteral([]byte("help"), true),
		literal.NewLiteral([]byte("hero"), true),
	)

	prefix := seq.LongestCommonPrefix()
	fmt.Printf("Common prefix: %s\n", prefix)

	// Output:
	// Common prefix: he
}

// ExampleSeq_LongestCommonPrefix_none demonstrates no common prefix
func ExampleSeq_LongestCommonPrefix_none() {
	seq := literal.NewSeq(
		literal.NewLiteral([]byte("abc"), true),
		literal.NewLiteral([]byte("def"), true),
	)

	prefix := seq.LongestCommonPrefix()
	fmt.Printf("Common prefix length: %d\n", len(prefix))

	// Output:
	// Common prefix length: 0
}

// ExampleLiteral demonstrates basic Literal usage
func ExampleLiteral() {
	// Complete literal - represents entire match
	complete := literal.NewLiteral([]byte("hello"), true)
	fmt.Printf("%s, length=%d\n", complete.String(), complete.Len())

	// Incomplete literal - just a prefix
	incomplete := literal.NewLiteral([]byte("world"), false)
	fmt.Printf("%s, length=%d\n", incomplete.String(), incomplete.Len())

	// Output:
	// literal{hello, complete=true}, length=5
	// literal{world, complete=false}, length=5
}

// ExampleSeq_IsEmpty demonstrates empty sequence checks
func ExampleSeq_IsEmpty() {
	empty := literal.NewSeq()
	nonempty := literal.NewSeq(literal.NewLiteral([]byte("x"), true))

	fmt.Printf("Empty sequence: %v\n", empty.IsEmpty())
	fmt.Printf("Non-empty sequence: %v\n", nonempty.IsEmpty())

	// Output:
	// Empty sequence: true
	// Non-empty sequence: false
}

// ExampleSeq_KeepFirstBytes demonstrates truncating literals that would
// otherwise overflow the fingerprint size used by downstream matchers.
func ExampleSeq_KeepFirstBytes() {
	seq := literal.NewSeq(
		literal.NewLiteral([]byte("hello"), true),
		literal.NewLiteral([]byte("hi"), true),
	)
	seq.KeepFirstBytes(3)

	fmt.Printf("First: %s (complete=%v)\n", seq.Get(0).Bytes, seq.Get(0).Complete)
	fmt.Printf("Second: %s (complete=%v)\n", seq.Get(1).Bytes, seq.Get(1).Complete)

	// Output:
	// First: hel (complete=false)
	// Second: hi (complete=true)
}
