// Package access implements the AccessModel from spec.md §3/§4.1: a
// recursive description of "which variable is being touched" by an SSA
// user, shared across statement detection, the repository's id tables,
// and the static encoder.
//
// Grounded on original_source/frontends/llvm/include/Statement.h's
// Access struct: a tagged union with three variants, where equality and
// hashing deliberately look only at the tag and the base chain (indices
// are not part of identity — see Access).
package access

import (
	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
)

// Kind distinguishes the three Access variants.
type Kind int

const (
	// Scalar wraps exactly one SSA value: a local allocation, a mutable
	// global variable, or a call result.
	Scalar Kind = iota
	// Structural is a base plus a single field-selector accessor.
	Structural
	// ArrayLike is a base plus an ordered (possibly empty) list of
	// index accessors.
	ArrayLike
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Structural:
		return "structural"
	case ArrayLike:
		return "array_like"
	default:
		return "unknown"
	}
}

// Access is the recursive value description of spec.md §3. The zero
// value is not meaningful; always construct via the New* functions.
//
// Invariant (spec.md §3.ii): equality and hashing of a non-scalar Access
// depend only on Kind and Base. Indices/accessors are informational only
// and are never consulted by Equal or Key.
type Access struct {
	kind      Kind
	value     ir.Value   // set iff kind == Scalar
	base      *Access    // set iff kind != Scalar
	accessor  *Access    // set iff kind == Structural
	indices   []Access   // set iff kind == ArrayLike
}

// NewScalar wraps a single SSA value: a local alloca, a mutable global,
// or a call result. Constants are only valid here when this Access will
// itself be used as an accessor (e.g. a struct field-index constant).
func NewScalar(v ir.Value) Access {
	return Access{kind: Scalar, value: v}
}

// NewStructural builds a field access on a composite record.
func NewStructural(base Access, accessor Access) Access {
	b := base
	a := accessor
	return Access{kind: Structural, base: &b, accessor: &a}
}

// NewArrayLike builds an element access on array-like memory. indices
// may be empty (used for opaque pointer dereferences and constant-only
// index lists, which are intentionally omitted per spec.md §3).
func NewArrayLike(base Access, indices []Access) Access {
	b := base
	idx := make([]Access, len(indices))
	copy(idx, indices)
	return Access{kind: ArrayLike, base: &b, indices: idx}
}

// Kind returns the Access variant.
func (a Access) Kind() Kind { return a.kind }

// Value returns the wrapped SSA value. Valid only when Kind() == Scalar;
// calling it on a non-scalar Access is a programmer error (panics), per
// spec.md §4.1's failure-mode contract ("must be consistent").
func (a Access) Value() ir.Value {
	if a.kind != Scalar {
		panic("access: Value() called on non-scalar Access")
	}
	return a.value
}

// Base returns the base Access. Valid only when Kind() != Scalar.
func (a Access) Base() Access {
	if a.kind == Scalar {
		panic("access: Base() called on scalar Access")
	}
	return *a.base
}

// Accessor returns the field-selector Access. Valid only when
// Kind() == Structural.
func (a Access) Accessor() Access {
	if a.kind != Structural {
		panic("access: Accessor() called on non-structural Access")
	}
	return *a.accessor
}

// Indices returns the ordered index accessors. Valid only when
// Kind() == ArrayLike. May be empty.
func (a Access) Indices() []Access {
	if a.kind != ArrayLike {
		panic("access: Indices() called on non-array-like Access")
	}
	return a.indices
}

// ValueOrBase returns the scalar value at the bottom of the Access tree:
// itself if Scalar, otherwise the value recursively found at the
// bottom of Base(). Every well-formed Access bottoms out in a scalar
// over a local allocation or mutable global (spec.md §3.i).
func (a Access) ValueOrBase() ir.Value {
	cur := a
	for cur.kind != Scalar {
		cur = *cur.base
	}
	return cur.value
}

// Equal implements spec.md §3.ii: scalars compare by SSA value identity;
// non-scalars compare by Kind and recursively-equal Base only.
func (a Access) Equal(b Access) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == Scalar {
		return a.value.Raw() == b.value.Raw()
	}
	return a.base.Equal(*b.base)
}

// Key is a comparable value suitable for use as a Go map key that
// respects the Equal/hash contract of spec.md §3.ii: two Accesses have
// equal Key iff Equal. This is used everywhere the core needs "variable
// identity" set/map semantics (use-set deduplication, the Repository's
// value-id table).
type Key string

// Key computes the identity key for a: a recursive encoding of the
// Kind at every level down to the bottom scalar value, mirroring Equal
// exactly (Equal recurses kind-then-base all the way down, not just at
// the top level — a Structural over an ArrayLike base must not collide
// with a Structural over a Scalar base even if both eventually bottom
// out at the same value, e.g. `a[i].f` vs a hypothetical direct `x.f`
// sharing x's address is impossible, but `a[i].f` vs `a[j].g` over
// *different* composite chains must stay distinct; within the *same*
// chain shape they correctly collide regardless of i/j/index identity).
func (a Access) Key() Key {
	switch a.kind {
	case Scalar:
		return Key("S" + ptrString(a.value))
	case Structural:
		return Key("T(" + string(a.base.Key()) + ")")
	case ArrayLike:
		return Key("A(" + string(a.base.Key()) + ")")
	default:
		return Key("?")
	}
}

func ptrString(v ir.Value) string {
	return ir.PointerString(v)
}
