package check

import (
	"strings"
	"testing"

	"github.com/bpc-lang/bpc/internal/parser"
)

func mustCheck(t *testing.T, src string) {
	t.Helper()
	prog, perr := parser.Parse([]byte(src))
	if perr != nil {
		t.Fatalf("parse: %v", perr)
	}
	if _, cerr := Check(prog); cerr != nil {
		t.Fatalf("check: %v", cerr)
	}
}

func mustFail(t *testing.T, src string, wantSubstr string) {
	t.Helper()
	prog, perr := parser.Parse([]byte(src))
	if perr != nil {
		t.Fatalf("parse: %v", perr)
	}
	_, cerr := Check(prog)
	if cerr == nil {
		t.Fatalf("expected a type error for %q, got none", src)
	}
	if wantSubstr != "" && !strings.Contains(cerr.Message, wantSubstr) {
		t.Fatalf("error %q does not contain %q", cerr.Message, wantSubstr)
	}
}

func TestCheckMinimalMain(t *testing.T) {
	mustCheck(t, `fn main() -> i32 { 42 }`)
}

func TestCheckRejectsMissingMain(t *testing.T) {
	mustFail(t, `fn helper() -> i32 { 1 }`, "main")
}

func TestCheckRejectsDuplicateMain(t *testing.T) {
	mustFail(t, `
fn main() -> i32 { 1 }
fn main() -> i32 { 2 }
`, "")
}

func TestCheckRejectsMixedWidthArithmetic(t *testing.T) {
	mustFail(t, `
fn main() -> i32 {
    let a: i32 = 1;
    let b: i64 = 2;
    a + b
}
`, "")
}

func TestCheckLetAndAssignTypeMismatch(t *testing.T) {
	mustFail(t, `
fn main() -> i32 {
    let mut x: i32 = 0;
    x = true;
    x
}
`, "")
}

func TestCheckAssignToImmutable(t *testing.T) {
	mustFail(t, `
fn main() -> i32 {
    let x: i32 = 0;
    x = 1;
    x
}
`, "immutable")
}

func TestCheckArrayEqualityRejected(t *testing.T) {
	mustFail(t, `
fn main() -> i32 {
    let a: [i32; 2] = [1, 2];
    let b: [i32; 2] = [1, 2];
    if a == b { 1 } else { 0 }
}
`, "array equality")
}

func TestCheckBreakValueTypeUnification(t *testing.T) {
	mustCheck(t, `
fn main() -> i32 {
    loop {
        if true {
            break 1;
        };
        break 2;
    }
}
`)
}

func TestCheckBreakValueMismatchIsRejected(t *testing.T) {
	mustFail(t, `
fn main() -> i32 {
    loop {
        if true {
            break 1;
        };
        break true;
    }
}
`, "")
}

func TestCheckWhileForbidsValueCarryingBreak(t *testing.T) {
	mustFail(t, `
fn main() -> i32 {
    while true {
        break 1;
    }
    0
}
`, "while")
}

func TestCheckLenIntrinsic(t *testing.T) {
	mustCheck(t, `
fn main() -> i32 {
    let xs: [i32; 4] = [0, 1, 2, 3];
    len(xs)
}
`)
}

func TestCheckLoadStoreIntrinsics(t *testing.T) {
	mustCheck(t, `
fn main() -> i32 {
    store_i32(0, 42);
    load_i32(0)
}
`)
}

func TestCheckConstForwardReferenceRejected(t *testing.T) {
	mustFail(t, `
const A: i32 = B;
const B: i32 = 1;
fn main() -> i32 { A }
`, "")
}

func TestCheckTypeAliasCycleRejected(t *testing.T) {
	mustFail(t, `
type A = B;
type B = A;
fn main() -> i32 { 0 }
`, "")
}

func TestCheckCastBoundaryLiteral(t *testing.T) {
	mustCheck(t, `
fn main() -> i32 {
    let x: i8 = -128 as i8;
    x as i32
}
`)
}
