// Package types is BP's closed set of resolved types (§3): the primitive
// scalars plus fixed-length arrays. There is no analog in the teacher
// (DWScript's type system is dynamic-ish and far larger); this package is
// built fresh, following the ast package's plain-struct-with-methods
// convention and the spec's closed-set description verbatim.
package types

import "fmt"

// Kind enumerates BP's primitive and compound type shapes.
type Kind int

const (
	I8 Kind = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Bool
	Unit
	Array
)

// Type is a fully-resolved BP type. Array is the only compound shape; Elem
// and Length are only meaningful when Kind == Array.
type Type struct {
	Kind   Kind
	Elem   *Type
	Length uint32
}

var (
	I8Type   = &Type{Kind: I8}
	I16Type  = &Type{Kind: I16}
	I32Type  = &Type{Kind: I32}
	I64Type  = &Type{Kind: I64}
	U8Type   = &Type{Kind: U8}
	U16Type  = &Type{Kind: U16}
	U32Type  = &Type{Kind: U32}
	U64Type  = &Type{Kind: U64}
	F32Type  = &Type{Kind: F32}
	F64Type  = &Type{Kind: F64}
	BoolType = &Type{Kind: Bool}
	UnitType = &Type{Kind: Unit}
)

// Primitives maps a primitive type name to its singleton Type.
var Primitives = map[string]*Type{
	"i8": I8Type, "i16": I16Type, "i32": I32Type, "i64": I64Type,
	"u8": U8Type, "u16": U16Type, "u32": U32Type, "u64": U64Type,
	"f32": F32Type, "f64": F64Type,
	"bool": BoolType,
	"unit": UnitType,
}

// ArrayOf builds an Array(elem, length) type.
func ArrayOf(elem *Type, length uint32) *Type {
	return &Type{Kind: Array, Elem: elem, Length: length}
}

// Equal reports whether two types denote the same shape.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == Array {
		return a.Length == b.Length && Equal(a.Elem, b.Elem)
	}
	return true
}

// String renders a Type the way it would appear in BP source.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Array:
		return fmt.Sprintf("[%s; %d]", t.Elem, t.Length)
	default:
		for name, typ := range Primitives {
			if typ.Kind == t.Kind {
				return name
			}
		}
		return "?"
	}
}

// IsInteger reports whether t is one of the eight integer kinds.
func (t *Type) IsInteger() bool {
	switch t.Kind {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

// IsSigned reports whether t is a signed integer kind.
func (t *Type) IsSigned() bool {
	switch t.Kind {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether t is f32 or f64.
func (t *Type) IsFloat() bool {
	return t.Kind == F32 || t.Kind == F64
}

// IsNumeric reports whether t is an integer or float kind.
func (t *Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// Width returns the bit width of an integer or float kind; it is undefined
// for Bool, Unit, and Array.
func (t *Type) Width() int {
	switch t.Kind {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32, F32:
		return 32
	case I64, U64, F64:
		return 64
	default:
		return 0
	}
}

// SignedCounterpart returns the signed integer type of the same width as an
// unsigned t, or t itself for any other kind.
func (t *Type) SignedCounterpart() *Type {
	switch t.Kind {
	case U8:
		return I8Type
	case U16:
		return I16Type
	case U32:
		return I32Type
	case U64:
		return I64Type
	default:
		return t
	}
}

// FitsSigned reports whether an unsigned literal magnitude fits a signed
// integer of the given width: it accepts magnitudes up to 2^(width-1), so
// the 128 of `-128` fits i8. The sign is not known here, so an unnegated
// 128 is accepted for i8 as well. Used when adopting an unsuffixed integer
// literal's context type.
func FitsSigned(magnitude uint64, width int) bool {
	if width >= 64 {
		return magnitude <= 1<<63
	}
	limit := uint64(1) << (width - 1)
	return magnitude <= limit
}

// FitsUnsigned reports whether magnitude fits in an unsigned integer of the
// given width.
func FitsUnsigned(magnitude uint64, width int) bool {
	if width >= 64 {
		return true
	}
	limit := uint64(1)<<width - 1
	return magnitude <= limit
}
