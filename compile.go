package brex

import (
	"github.com/brexlang/brex/encoding"
	"github.com/brexlang/brex/node"
	"github.com/brexlang/brex/opcode"
	"github.com/brexlang/brex/vm"
)

// Config bundles the compile-time syntax flags with the vm's runtime
// resource bounds, so CompileWithConfig takes one value the way
// meta.CompileWithConfig takes a single meta.Config.
type Config struct {
	// IgnoreCase, Multiline, DotAll, ASCII mirror the opcode.Flags bits a
	// pattern compiles with (spec §6.1).
	IgnoreCase bool
	Multiline  bool
	DotAll     bool
	ASCII      bool

	// Runtime is the vm.Config resource-bound policy (spec §5, §7).
	Runtime vm.Config
}

// DefaultConfig returns the default compile/runtime configuration.
func DefaultConfig() Config {
	return Config{Runtime: vm.DefaultConfig()}
}

func (c Config) syntaxFlags() opcode.Flags {
	var f opcode.Flags
	if c.IgnoreCase {
		f |= opcode.FlagIgnoreCase
	}
	if c.Multiline {
		f |= opcode.FlagMultiline
	}
	if c.DotAll {
		f |= opcode.FlagDotAll
	}
	if c.ASCII {
		f |= opcode.FlagASCII
	}
	return f
}

func (c Config) encoding() encoding.Encoding {
	if c.ASCII {
		return encoding.NewASCII()
	}
	return encoding.NewUnicode()
}

// buildEngine runs the full front end: regexp/syntax parse into an opcode
// Program (opcode.Compile), decode the wire vector into Insts
// (opcode.Decode), build the node graph (node.Build), and compile a vm.Engine
// over the result. This is the thin front end spec.md places out of the
// core's scope (§1), wired here only so Compile is drivable end-to-end.
func buildEngine(pattern string, cfg Config) (*vm.Engine, error) {
	flags := cfg.syntaxFlags()
	prog, err := opcode.Compile(pattern, flags)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	insts, err := opcode.Decode(prog.Words)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	enc := cfg.encoding()
	pat, err := node.Build(insts, prog, enc)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	engine, err := vm.NewEngine(pat, cfg.Runtime)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return engine, nil
}
