// Package statement implements the StatementDetector of spec.md §4.4:
// classifies instructions into statement kinds, resolves their use/def
// Accesses, and chains them into a per-function successor graph.
//
// Grounded in full on
// original_source/frontends/llvm/lib/StatementDetection.cpp
// (getValueAccess, findCompositeBase, findCompositeAccessors,
// findInputs, runOnInstr, StatementDetectionBase::runBase).
package statement

import (
	"github.com/aardwolf-fl/llvm-frontend/internal/access"
	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
)

// valueAccess implements §4.4's "Access resolution for a user"
// (getValueAccess in the original). Returns (access, true) on success,
// (zero, false) when u does not yield an Access (spec.md's "anything
// else → no Access", and the indeterminate-base/empty-accessor failure
// modes of §4.4's failure semantics).
func valueAccess(u ir.Value) (access.Access, bool) {
	if u.IsNil() {
		return access.Access{}, false
	}

	switch {
	case u.IsAlloca():
		return access.NewScalar(u), true

	case u.IsCall():
		return access.NewScalar(u), true

	case u.IsGlobalVariable():
		if u.IsGlobalConstant() {
			// Immutable throughout execution: not treated as a variable.
			// (spec.md §9 Open Question 1 — followed as specified.)
			return access.Access{}, false
		}
		return access.NewScalar(u), true

	case u.IsGEP():
		return resolveGEP(u)

	case u.IsConstantExprGEP():
		// Assignment of a constant to a static array with a compile-time
		// known index (constant-indexed static array).
		if !u.IsGEPNoNotionalOverIndexing() {
			return access.Access{}, false
		}
		base, ok := valueAccess(u.Operand(0))
		if !ok {
			return access.Access{}, false
		}
		return access.NewArrayLike(base, nil), true

	case u.IsLoad():
		if !u.IsPointerType() {
			return access.Access{}, false
		}
		// Opaque pointer dereference: treat like array[0] because no
		// further information is available.
		base, ok := valueAccess(u.Operand(0))
		if !ok {
			return access.Access{}, false
		}
		return access.NewArrayLike(base, nil), true

	default:
		return access.Access{}, false
	}
}

// resolveGEP resolves a getelementptr instruction into a Structural or
// ArrayLike Access, per §4.4: struct source types produce Structural
// with the single field-selector accessor; everything else produces
// ArrayLike with the ordered index accessors.
func resolveGEP(gep ir.Value) (access.Access, bool) {
	base, ok := findCompositeBase(gep)
	if !ok {
		// Indeterminate base: the Access cannot be built (§4.4 failure
		// semantics).
		return access.Access{}, false
	}

	isStruct := gep.GEPSourceIsStruct()
	accessors := findCompositeAccessors(gep, isStruct)

	if isStruct {
		if len(accessors) == 0 {
			// Empty struct accessors: indeterminate, drop.
			return access.Access{}, false
		}
		return access.NewStructural(base, accessors[0]), true
	}
	return access.NewArrayLike(base, accessors), true
}

// findCompositeBase implements §4.4.1: recurse through a nested GEP via
// valueAccess; otherwise wrap a direct alloca base as scalar; otherwise
// run findInputs on the base operand and accept it only if exactly one
// Access results; global mutable variables resolve to a scalar over
// themselves.
func findCompositeBase(gep ir.Value) (access.Access, bool) {
	b := gep.Operand(0)

	if b.IsGEP() {
		return valueAccess(b)
	}

	if b.IsAlloca() {
		return access.NewScalar(b), true
	}

	if b.IsGlobalVariable() {
		if b.IsGlobalConstant() {
			return access.Access{}, false
		}
		return access.NewScalar(b), true
	}

	inputs := findInputs(b)
	if inputs.Len() == 1 {
		return inputs.Slice()[0], true
	}
	return access.Access{}, false
}

// findCompositeAccessors implements §4.4.2: inspect the final GEP
// operand. If it yields a direct Access, use it. Otherwise, if it is a
// constant and the source is a struct, include it as a scalar (field
// selectors are numeric and matter); if constant and not a struct
// (array index), drop it. If it is another instruction, recurse via
// findInputs and include all results, in order.
func findCompositeAccessors(gep ir.Value, isStruct bool) []access.Access {
	last := gep.Operand(gep.NumOperands() - 1)

	if a, ok := valueAccess(last); ok {
		return []access.Access{a}
	}

	if last.IsConstant() {
		if isStruct {
			return []access.Access{access.NewScalar(last)}
		}
		return nil
	}

	if last.IsInstruction() {
		return findInputs(last).Slice()
	}

	return nil
}
