package ir

import (
	"fmt"

	"tinygo.org/x/go-llvm"
)

// Value wraps an llvm.Value. It is comparable and hashable by identity
// (the underlying C pointer), which is what Repository and AccessModel
// key their tables on — the stable "value handle" the design notes in
// spec.md §9 call for, rather than relying on a raw pointer as a
// coincidence of implementation.
type Value struct{ v llvm.Value }

// WrapValue adapts a raw llvm.Value (e.g. an operand obtained from
// go-llvm directly) into a Value.
func WrapValue(v llvm.Value) Value { return Value{v: v} }

// IsNil reports whether the Value wraps no underlying LLVM value.
func (v Value) IsNil() bool { return v.v.IsNil() }

// Raw exposes the underlying llvm.Value.
func (v Value) Raw() llvm.Value { return v.v }

// PointerString renders a Value's underlying handle as a stable string,
// used as the leaf of access.Access's identity Key. go-llvm's Value
// wraps a C pointer directly comparable with ==; C() exposes it for
// hashing purposes only, never dereferenced.
func PointerString(v Value) string {
	return fmt.Sprintf("%p", v.v.C)
}

// Name returns the value's symbol name, if any.
func (v Value) Name() string { return v.v.Name() }

// Type returns the value's LLVM type.
func (v Value) Type() llvm.Type { return v.v.Type() }

// NumOperands returns the number of SSA operands of an instruction or
// constant expression.
func (v Value) NumOperands() int { return v.v.OperandsCount() }

// Operand returns the i-th operand as a Value.
func (v Value) Operand(i int) Value { return Value{v: v.v.Operand(i)} }

// InstructionParent returns the basic block containing the instruction,
// or a nil BasicBlock if v is not an instruction.
func (v Value) InstructionParent() BasicBlock { return BasicBlock{bb: v.v.InstructionParent()} }

// IsInstruction reports whether v is an instruction (as opposed to a
// constant, global, argument, etc.).
func (v Value) IsInstruction() bool { return !v.v.IsAInstruction().IsNil() }

// IsAlloca reports whether v is a `alloca` instruction (a local
// variable's storage).
func (v Value) IsAlloca() bool { return !v.v.IsAAllocaInst().IsNil() }

// IsCall reports whether v is a `call` instruction.
func (v Value) IsCall() bool { return !v.v.IsACallInst().IsNil() }

// IsGlobalVariable reports whether v is a module-level global variable.
func (v Value) IsGlobalVariable() bool { return !v.v.IsAGlobalVariable().IsNil() }

// IsGlobalConstant reports whether a global variable is declared
// `constant` (immutable throughout execution). Only meaningful when
// IsGlobalVariable is true.
func (v Value) IsGlobalConstant() bool { return v.v.IsGlobalConstant() }

// IsGEP reports whether v is a `getelementptr` instruction.
func (v Value) IsGEP() bool { return !v.v.IsAGetElementPtrInst().IsNil() }

// IsConstantExpr reports whether v is any constant expression (e.g. a
// constant getelementptr, bitcast, or arithmetic expression folded at
// compile time).
func (v Value) IsConstantExpr() bool { return !v.v.IsAConstantExpr().IsNil() }

// IsConstantExprGEP reports whether v is specifically a constant
// `getelementptr` expression (as opposed to an instruction).
func (v Value) IsConstantExprGEP() bool {
	return v.IsConstantExpr() && v.v.Opcode() == llvm.GetElementPtr
}

// IsGEPNoNotionalOverIndexing reports, for a constant GEP expression,
// whether every index is a compile-time-known in-bounds offset into a
// statically-sized aggregate (mirrors llvm::GEPOperator's
// isGEPWithNoNotionalOverIndexing, used by the original frontend to
// recognize constant-indexed static-array initializers).
func (v Value) IsGEPNoNotionalOverIndexing() bool {
	return v.IsConstantExprGEP() && v.v.GEPNoNotionalOverIndexing()
}

// IsConstant reports whether v is any kind of compile-time constant.
func (v Value) IsConstant() bool { return !v.v.IsAConstant().IsNil() }

// IsLoad reports whether v is a `load` instruction.
func (v Value) IsLoad() bool { return !v.v.IsALoadInst().IsNil() }

// IsStore reports whether v is a `store` instruction.
func (v Value) IsStore() bool { return !v.v.IsAStoreInst().IsNil() }

// GEPSourceIsStruct reports whether a getelementptr's source element
// type is a struct (vs. an array or scalar pointee), which determines
// whether it is modelled as a Structural or ArrayLike access.
func (v Value) GEPSourceIsStruct() bool {
	return v.v.GEPSourceElementType().TypeKind() == llvm.StructTypeKind
}

// IsVoidReturn reports whether a call instruction's result type is void.
func (v Value) IsVoidReturn() bool { return v.v.Type().TypeKind() == llvm.VoidTypeKind }

// IsPointerType reports whether v's type is a pointer type (used to
// recognize a `load` of a pointer-typed result as an opaque
// dereference, per spec.md §4.4).
func (v Value) IsPointerType() bool { return v.v.Type().TypeKind() == llvm.PointerTypeKind }

// PrimitiveKind classifies a value's type for the dynamic instrumenter's
// typed tracer dispatch.
type PrimitiveKind int

const (
	// NotPrimitive marks a type with no dedicated tracer (aggregate,
	// pointer, vector, etc.); the instrumenter falls back to
	// aardwolf_write_data_unsupported for these.
	NotPrimitive PrimitiveKind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindBool
	KindF32
	KindF64
)

// Primitive classifies v's LLVM type into one of the tracer-supported
// primitive kinds, or NotPrimitive. Signedness is not distinguished, as
// LLVM's type system itself does not distinguish it (spec.md §4.6).
func Primitive(t llvm.Type) PrimitiveKind {
	switch t.TypeKind() {
	case llvm.IntegerTypeKind:
		switch t.IntTypeWidth() {
		case 1:
			return KindBool
		case 8:
			return KindI8
		case 16:
			return KindI16
		case 32:
			return KindI32
		case 64:
			return KindI64
		}
	case llvm.FloatTypeKind:
		return KindF32
	case llvm.DoubleTypeKind:
		return KindF64
	}
	return NotPrimitive
}

// Use is one use-edge in an LLVM value's use-list.
type Use struct{ u llvm.Use }

// FirstUse returns the first recorded use of v (LLVM use-lists are
// stored most-recently-added-first; the order is whatever the IR
// library provides and is deterministic for a given module, satisfying
// spec.md's "stable across runs" requirement without this frontend
// needing to impose its own order).
func (v Value) FirstUse() Use { return Use{u: v.v.FirstUse()} }

// IsNil reports whether the use-list iteration has ended.
func (u Use) IsNil() bool { return u.u.IsNil() }

// NextUse advances to the next use in the list.
func (u Use) NextUse() Use { return Use{u: u.u.NextUse()} }

// User returns the instruction (or constant expression) that holds this
// use, i.e. the "user" in LLVM's Use/User/Value terminology.
func (u Use) User() Value { return Value{v: u.u.User()} }
