// Package location implements the LocationResolver of spec.md §4.2:
// derive a source (file, line, column) for an instruction, falling back
// to a parameter-initializing store's debug-declare use when the
// instruction itself carries no debug location.
//
// Grounded on original_source/frontends/llvm/lib/Tools.cpp's
// getInstrLoc/getDebugLocFile and lib/StatementDetection.cpp's
// getStmtLoc.
package location

import (
	"errors"

	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
)

// ErrUnknownLocation is the single recoverable failure mode of this
// package: the instruction has no debug location and no usable
// argument-store fallback. Callers must skip the instruction (it is not
// a user-visible statement), per spec.md §4.4's failure semantics —
// this is never an abort condition.
var ErrUnknownLocation = errors.New("location: unknown source location")

// LineCol is a single source coordinate.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Location is a point in source (begin == end unless a future extension
// recovers a genuine range, which spec.md explicitly does not require).
type Location struct {
	File  string
	Begin LineCol
	End   LineCol
}

// Resolve derives the source location of instruction instr within
// module m, per the three-step algorithm of spec.md §4.2.
func Resolve(m *ir.Module, instr ir.Value) (Location, error) {
	if loc, ok := fromDebugLoc(instr); ok {
		return loc, nil
	}

	if loc, ok := fromArgStoreFallback(m, instr); ok {
		return loc, nil
	}

	return Location{}, ErrUnknownLocation
}

// fromDebugLoc implements step 1: use the instruction's own `!dbg`
// attachment directly when it has a non-null scope.
func fromDebugLoc(instr ir.Value) (Location, bool) {
	dl, ok := instr.InstructionDebugLoc()
	if !ok || !dl.HasScope() {
		return Location{}, false
	}
	file, ok := dl.File()
	if !ok {
		return Location{}, false
	}
	lc := LineCol{Line: dl.Line(), Col: dl.Column()}
	return Location{File: file, Begin: lc, End: lc}, true
}

// fromArgStoreFallback implements step 2: for a store whose stored
// value is a function parameter, look up debug-declaration uses of the
// destination allocation and take the first with a valid scope. This
// recovers locations for parameter-initializing stores LLVM emits
// without their own debug info.
func fromArgStoreFallback(m *ir.Module, instr ir.Value) (Location, bool) {
	if ir.Classify(instr) != ir.KindStore {
		return Location{}, false
	}
	if !instr.Operand(0).IsArgument() {
		return Location{}, false
	}

	dest := instr.Operand(1)
	if !dest.IsAlloca() {
		return Location{}, false
	}

	for _, user := range m.DebugDeclareUsers(dest) {
		if loc, ok := fromDebugLoc(user); ok {
			return loc, true
		}
	}
	return Location{}, false
}
