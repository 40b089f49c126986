package ir

import "tinygo.org/x/go-llvm"

// Builder inserts trace calls into an already-built module. It is the
// LLVM-IR analogue of the teacher's dave/dst-based Go-AST splicing in
// analysis/refactor: locate an insertion point, build the call, splice
// it in, without disturbing anything else in the instruction stream.
type Builder struct {
	b llvm.Builder
}

// NewBuilder creates a Builder bound to ctx.
func NewBuilder(ctx llvm.Context) *Builder {
	return &Builder{b: ctx.NewBuilder()}
}

// Dispose releases the underlying LLVM builder.
func (bld *Builder) Dispose() { bld.b.Dispose() }

// InsertBefore builds a call to callee with args and splices it
// immediately before instr. Used for the per-statement
// aardwolf_write_statement call (§4.6), which must run before the
// statement instruction because many statement kinds are basic-block
// terminators.
func (bld *Builder) InsertBefore(instr Value, callee llvm.Value, args []llvm.Value) Value {
	bld.b.SetInsertPointBefore(instr.v)
	call := bld.b.CreateCall(calleeFnType(callee), callee, args, "")
	return Value{v: call}
}

// InsertAfter builds a call to callee with args and splices it
// immediately after instr. Used for data tracers on non-terminator
// defining statements (store, non-void call), so the traced value is
// the post-store or post-call-return value (§4.6).
func (bld *Builder) InsertAfter(instr Value, callee llvm.Value, args []llvm.Value) Value {
	next := llvm.NextInstruction(instr.v)
	if next.IsNil() {
		bld.b.SetInsertPointAtEnd(instr.v.InstructionParent())
	} else {
		bld.b.SetInsertPointBefore(next)
	}
	call := bld.b.CreateCall(calleeFnType(callee), callee, args, "")
	return Value{v: call}
}

// calleeFnType recovers the declared function type of a previously
// declared (or looked up) function value, needed because go-llvm's
// opaque-pointer-era CreateCall takes the callee's function type
// explicitly rather than deriving it from the pointer.
func calleeFnType(callee llvm.Value) llvm.Type {
	t := callee.Type()
	if t.TypeKind() == llvm.PointerTypeKind {
		return t.ElementType()
	}
	return t
}
