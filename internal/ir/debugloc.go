package ir

import "tinygo.org/x/go-llvm"

// DebugLoc is a resolved LLVM debug location (a DILocation attachment).
type DebugLoc struct{ md llvm.Metadata }

// InstructionDebugLoc returns the `!dbg` attachment of an instruction, if
// any. This is step 1 of §4.2's LocationResolver algorithm.
func (v Value) InstructionDebugLoc() (DebugLoc, bool) {
	md := v.v.InstructionDebugLoc()
	if md.IsNil() {
		return DebugLoc{}, false
	}
	return DebugLoc{md: md}, true
}

// HasScope reports whether the location carries a non-null debug scope,
// the condition §4.2 requires before a location is trusted.
func (d DebugLoc) HasScope() bool { return !d.md.LocationScope().IsNil() }

// Line returns the location's source line, or 0 if unknown.
func (d DebugLoc) Line() uint32 { return uint32(d.md.LocationLine()) }

// Column returns the location's source column, or 0 if unknown.
func (d DebugLoc) Column() uint32 { return uint32(d.md.LocationColumn()) }

// File returns the "directory/filename" path per §4.2 ("unless the
// directory is empty"), or ok=false if no file metadata is reachable
// from the location's scope.
func (d DebugLoc) File() (path string, ok bool) {
	scope := d.md.LocationScope()
	if scope.IsNil() {
		return "", false
	}
	file := scope.ScopeFile()
	if file.IsNil() {
		return "", false
	}
	dir := file.FileDirectory()
	name := file.FileFilename()
	if name == "" {
		return "", false
	}
	if dir == "" {
		return name, true
	}
	return dir + "/" + name, true
}

// IsArgument reports whether v is a function parameter (an
// llvm.Argument), used by the LocationResolver fallback to recognize
// parameter-initializing stores.
func (v Value) IsArgument() bool { return !v.v.IsAArgument().IsNil() }

// DebugDeclareUsers returns, in use-list order, the instructions using
// alloca as the metadata operand of a debug-variable intrinsic
// (llvm.dbg.declare/llvm.dbg.value/llvm.dbg.addr). This recovers
// locations for parameter-initializing stores that LLVM emits without
// their own `!dbg` attachment (§4.2 step 2).
func (m *Module) DebugDeclareUsers(alloca Value) []Value {
	wrapped := llvm.MetadataAsValue(m.ctx, m.ctx.ValueAsMetadata(alloca.v))

	var users []Value
	for use := wrapped.FirstUse(); !use.IsNil(); use = use.NextUse() {
		users = append(users, Value{v: use.User()})
	}
	return users
}
