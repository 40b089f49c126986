// Package instrument implements the DynamicInstrumenter of spec.md
// §4.6: it rewrites an already-detected module in place, inserting
// calls into a fixed runtime ABI so an instrumented binary reports
// every executed statement (and, where the statement defines a
// primitive scalar, its value) back to a trace consumer.
//
// Grounded on original_source/frontends/llvm/lib/Instrumentation.cpp's
// instrumentStatement/instrumentDef pair: this package keeps that
// split (one call site for the statement marker, a second,
// type-dispatched call site for the optional data tracer) but expresses
// insertion through internal/ir's Builder rather than raw
// llvm::IRBuilder<> splicing.
package instrument

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
	"github.com/aardwolf-fl/llvm-frontend/internal/repository"
)

// Runtime ABI function names, per spec.md §6.
const (
	fnWriteStatement     = "aardwolf_write_statement"
	fnWriteExternal      = "aardwolf_write_external"
	fnWriteDataUnsupport = "aardwolf_write_data_unsupported"
)

var typedTracerNames = map[ir.PrimitiveKind]string{
	ir.KindI8:   "aardwolf_write_data_i8",
	ir.KindI16:  "aardwolf_write_data_i16",
	ir.KindI32:  "aardwolf_write_data_i32",
	ir.KindI64:  "aardwolf_write_data_i64",
	ir.KindBool: "aardwolf_write_data_bool",
	ir.KindF32:  "aardwolf_write_data_f32",
	ir.KindF64:  "aardwolf_write_data_f64",
}

// tracers caches the on-demand-declared ABI functions for one module, so
// repeated statements of the same kind don't redeclare them.
type tracers struct {
	m    *ir.Module
	ctx  llvm.Context

	writeStmt      llvm.Value
	writeExternal  llvm.Value
	writeUnsupport llvm.Value
	typed          map[ir.PrimitiveKind]llvm.Value
}

func newTracers(m *ir.Module) *tracers {
	return &tracers{m: m, ctx: m.Context(), typed: make(map[ir.PrimitiveKind]llvm.Value)}
}

func (t *tracers) statementFn() llvm.Value {
	if t.writeStmt.IsNil() {
		t.writeStmt = t.m.DeclareFunction(fnWriteStatement, t.ctx.VoidType(), []llvm.Type{t.ctx.Int64Type()})
	}
	return t.writeStmt
}

// externalFn declares, but the instrumenter never itself calls,
// aardwolf_write_external: spec.md §6 lists it as part of the fixed
// runtime ABI consumed by instrumented bitcode, but §4.6's insertion
// algorithm has no call site for it — it exists for a plugin host (or a
// future manually-inserted probe) to invoke, not for this pass.
func (t *tracers) externalFn() llvm.Value {
	if t.writeExternal.IsNil() {
		strTy := llvm.PointerType(t.ctx.Int8Type(), 0)
		t.writeExternal = t.m.DeclareFunction(fnWriteExternal, t.ctx.VoidType(), []llvm.Type{strTy})
	}
	return t.writeExternal
}

func (t *tracers) unsupportedFn() llvm.Value {
	if t.writeUnsupport.IsNil() {
		t.writeUnsupport = t.m.DeclareFunction(fnWriteDataUnsupport, t.ctx.VoidType(), nil)
	}
	return t.writeUnsupport
}

func (t *tracers) typedFn(kind ir.PrimitiveKind, argTy llvm.Type) llvm.Value {
	if fn, ok := t.typed[kind]; ok {
		return fn
	}
	name := typedTracerNames[kind]
	fn := t.m.DeclareFunction(name, t.ctx.VoidType(), []llvm.Type{argTy})
	t.typed[kind] = fn
	return fn
}

// Run instruments every statement recorded in repo, in repo's
// per-function detection order. m is mutated in place; the caller
// writes the resulting module to `!instrumented.bc` once this returns.
//
// aardwolf_write_external is declared once per module up front. The
// other tracers are declared on demand: a module with no statements of
// a given kind (e.g. no float defs) never gets that tracer's
// declaration, keeping the instrumented module's external-symbol
// surface minimal.
func Run(m *ir.Module, repo *repository.Repository) error {
	t := newTracers(m)
	t.externalFn()
	bld := ir.NewBuilder(m.Context())
	defer bld.Dispose()

	for _, fn := range repo.FunctionOrder() {
		for _, instr := range repo.FunctionInstrs(fn) {
			stmt, ok := repo.Statement(instr)
			if !ok {
				continue
			}
			if err := instrumentStatement(bld, t, repo, stmt); err != nil {
				return fmt.Errorf("instrument: function %s: %w", fn, err)
			}
		}
	}

	return nil
}

// instrumentStatement implements §4.6's per-statement algorithm: the
// statement marker always goes immediately before the instruction; the
// optional data tracer is placed and typed according to the statement's
// kind and def.
func instrumentStatement(bld *ir.Builder, t *tracers, repo *repository.Repository, stmt *repository.Statement) error {
	id, ok := repo.StatementIDOf(stmt.Instr)
	if !ok {
		return fmt.Errorf("statement has no assigned id")
	}

	idConst := t.ctx.ConstInt(t.ctx.Int64Type(), statementIDValue(id), false)
	bld.InsertBefore(stmt.Instr, t.statementFn(), []llvm.Value{idConst})

	if stmt.Output == nil {
		return nil
	}

	traced := tracedValue(stmt)
	kind := ir.Primitive(traced.Type())

	isTerminator := ir.IsTerminator(stmt.Instr)

	if kind == ir.NotPrimitive {
		if isTerminator {
			bld.InsertBefore(stmt.Instr, t.unsupportedFn(), nil)
		} else {
			bld.InsertAfter(stmt.Instr, t.unsupportedFn(), nil)
		}
		return nil
	}

	fn := t.typedFn(kind, traced.Type())
	args := []llvm.Value{traced.Raw()}
	if isTerminator {
		bld.InsertBefore(stmt.Instr, fn, args)
	} else {
		bld.InsertAfter(stmt.Instr, fn, args)
	}
	return nil
}

// tracedValue returns the concrete SSA value whose runtime contents the
// data tracer observes. A store's def describes the destination
// location, but the value worth tracing is what was stored (operand 0);
// a defining call's def is the call result itself.
func tracedValue(stmt *repository.Statement) ir.Value {
	if stmt.IsCall {
		return stmt.Instr
	}
	return stmt.Instr.Operand(0)
}

// statementIDValue packs a StatementID into the single u64 the runtime
// ABI's aardwolf_write_statement takes, matching the encoding
// internal/encode uses for the static artifact's stmt_id field so a
// trace consumer can correlate the two without reinterpreting ids
// differently per source.
func statementIDValue(id repository.StatementID) uint64 {
	return uint64(uint32(id.FileID))<<32 | uint64(uint32(id.Counter))
}
