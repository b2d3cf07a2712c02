package brex

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

// TestCompileRejectsInvalidPatterns checks that every pattern the stdlib
// parser rejects, brex rejects too (both front ends share regexp/syntax).
func TestCompileRejectsInvalidPatterns(t *testing.T) {
	patterns := []string{
		"[invalid",
		`\`,
		"(abc",
		"*abc",
		"(?P<>abc)",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			if _, stdlibErr := regexp.Compile(pattern); stdlibErr == nil {
				t.Skip("stdlib accepts this pattern")
			}

			_, err := Compile(pattern)
			if err == nil {
				t.Fatalf("Compile(%q): expected error, got nil", pattern)
			}

			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("Compile(%q): expected *CompileError, got %T", pattern, err)
			}
			if !strings.Contains(ce.Error(), pattern) {
				t.Errorf("Compile(%q): error %q doesn't mention the pattern", pattern, ce.Error())
			}
		})
	}
}

// TestMustCompilePanics verifies MustCompile panics (rather than returning)
// on an invalid pattern, and that the panic value names the pattern.
func TestMustCompilePanics(t *testing.T) {
	pattern := "[invalid"

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustCompile did not panic on an invalid pattern")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("panic value is %T, want string", r)
		}
		if !strings.Contains(msg, pattern) {
			t.Errorf("panic message %q doesn't mention the pattern", msg)
		}
	}()
	MustCompile(pattern)
}

// TestCompileAcceptsValidPatterns is a smoke check that ordinary patterns
// the stdlib accepts compile cleanly here too.
func TestCompileAcceptsValidPatterns(t *testing.T) {
	patterns := []string{`\d+`, `(a|b)*`, `(?P<name>\w+)`, `^foo$`, `[^a-z]+`}
	for _, pattern := range patterns {
		if _, err := Compile(pattern); err != nil {
			t.Errorf("Compile(%q): unexpected error: %v", pattern, err)
		}
	}
}
