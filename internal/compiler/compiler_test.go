package compiler

import (
	"bytes"
	"testing"
)

func TestCompileMinimalMain(t *testing.T) {
	out, err := Compile([]byte(`fn main() -> i32 { 42 }`))
	if err != nil {
		t.Fatalf("unexpected diagnostic: %v", err)
	}
	if !bytes.HasPrefix(out, []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}) {
		t.Fatalf("missing Wasm magic/version header, got % x", out[:minInt(len(out), 8)])
	}
}

func TestCompileRejectsMissingMain(t *testing.T) {
	_, err := Compile([]byte(`fn helper() -> i32 { 1 }`))
	if err == nil {
		t.Fatal("expected a diagnostic for a program with no main")
	}
}

func TestCompileArithmeticAndControlFlow(t *testing.T) {
	src := `
fn main() -> i32 {
    let mut total: i32 = 0;
    let mut i: i32 = 0;
    while i < 10 {
        total = total + i;
        i = i + 1;
    }
    total
}
`
	out, err := Compile([]byte(src))
	if err != nil {
		t.Fatalf("unexpected diagnostic: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty module bytes")
	}
}

func TestCompileArraysAndLen(t *testing.T) {
	src := `
fn main() -> i32 {
    let xs: [i32; 3] = [1, 2, 3];
    xs[0] + len(xs)
}
`
	if _, err := Compile([]byte(src)); err != nil {
		t.Fatalf("unexpected diagnostic: %v", err)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
