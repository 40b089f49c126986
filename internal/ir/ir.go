// Package ir wraps tinygo.org/x/go-llvm with the narrow slice of the LLVM-C
// API this frontend needs: module/function/basic-block/instruction
// traversal, SSA operand inspection, debug-location recovery,
// pointer-arithmetic instruction inspection, predecessor iteration, and
// in-place call insertion. It is the "IR library" spec.md treats as an
// external collaborator.
package ir

import (
	"fmt"
	"os"

	"tinygo.org/x/go-llvm"
)

// Module is a parsed LLVM bitcode module.
type Module struct {
	ctx llvm.Context
	mod llvm.Module
}

// ParseBitcodeFile reads and parses the bitcode file at path into a fresh
// LLVM context. The context is owned by the returned Module.
func ParseBitcodeFile(path string) (*Module, error) {
	ctx := llvm.NewContext()

	buf, err := llvm.NewMemoryBufferFromFile(path)
	if err != nil {
		ctx.Dispose()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	mod, err := ctx.ParseIR(buf)
	if err != nil {
		ctx.Dispose()
		return nil, fmt.Errorf("parsing bitcode %s: %w", path, err)
	}

	return &Module{ctx: ctx, mod: mod}, nil
}

// Name returns the module's target triple. It does not return the
// module identifier (the input bitcode's name): moduleIdentifier always
// yields the empty string.
func (m *Module) Name() string { return m.mod.Target() + "" + moduleIdentifier(m.mod) }

func moduleIdentifier(mod llvm.Module) string {
	// LLVMModuleIdentifier is the string passed to llvm::Module's
	// constructor; this binding does not expose it, so this returns the
	// empty string.
	return ""
}

// NewModuleForTest adapts an already-built llvm.Module (constructed
// in-process via the builder APIs, rather than parsed from a bitcode
// file) into a Module. Exported for other packages' tests that need a
// small hand-built module without writing and re-parsing a bitcode
// fixture.
func NewModuleForTest(ctx llvm.Context, mod llvm.Module) *Module {
	return &Module{ctx: ctx, mod: mod}
}

// Context returns the LLVM context owning this module.
func (m *Module) Context() llvm.Context { return m.ctx }

// Raw returns the underlying llvm.Module for components (the
// instrumenter, the bitcode writer) that must call into go-llvm
// directly.
func (m *Module) Raw() llvm.Module { return m.mod }

// Dispose releases the module's context. Call once processing is done.
func (m *Module) Dispose() { m.ctx.Dispose() }

// WriteBitcodeToFile serializes the (possibly instrumented) module.
func (m *Module) WriteBitcodeToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := llvm.WriteBitcodeToFile(m.mod, f); err != nil {
		return fmt.Errorf("writing bitcode to %s failed: %w", path, err)
	}
	return nil
}

// Functions returns the module's functions in declaration order.
func (m *Module) Functions() []Function {
	var fns []Function
	for fn := m.mod.FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		fns = append(fns, Function{v: fn})
	}
	return fns
}

// DeclareFunction declares (or returns the existing declaration of) an
// external function with the given signature. Used by the instrumenter
// to materialize tracer calls on demand.
func (m *Module) DeclareFunction(name string, retType llvm.Type, paramTypes []llvm.Type) llvm.Value {
	if existing := m.mod.NamedFunction(name); !existing.IsNil() {
		return existing
	}
	fnTy := llvm.FunctionType(retType, paramTypes, false)
	return llvm.AddFunction(m.mod, name, fnTy)
}

// DeclareGlobalString materializes a private constant C-string global and
// returns a pointer to its first byte, for the aardwolf_write_external
// module-name argument.
func (m *Module) DeclareGlobalString(name, value string) llvm.Value {
	if existing := m.mod.NamedGlobal(name); !existing.IsNil() {
		return existing
	}
	c := m.ctx.ConstString(value, true)
	g := llvm.AddGlobal(m.mod, c.Type(), name)
	g.SetInitializer(c)
	g.SetLinkage(llvm.PrivateLinkage)
	g.SetGlobalConstant(true)
	return g
}

// Function is a defined or declared LLVM function.
type Function struct{ v llvm.Value }

// Name returns the function's symbol name.
func (f Function) Name() string { return f.v.Name() }

// IsDeclaration reports whether f has no body (an external declaration).
func (f Function) IsDeclaration() bool { return f.v.IsDeclaration() }

// Blocks returns the function's basic blocks in layout order.
func (f Function) Blocks() []BasicBlock {
	var bbs []BasicBlock
	for bb := f.v.FirstBasicBlock(); !bb.IsNil(); bb = llvm.NextBasicBlock(bb) {
		bbs = append(bbs, BasicBlock{bb: bb})
	}
	return bbs
}

// Raw exposes the underlying llvm.Value.
func (f Function) Raw() llvm.Value { return f.v }

// BasicBlock is an LLVM basic block.
type BasicBlock struct{ bb llvm.BasicBlock }

// Instructions returns the block's instructions in source order.
func (b BasicBlock) Instructions() []Value {
	var is []Value
	for i := b.bb.FirstInstruction(); !i.IsNil(); i = llvm.NextInstruction(i) {
		is = append(is, Value{v: i})
	}
	return is
}

// Predecessors returns the blocks with a branch/switch/invoke terminator
// targeting b, in the order LLVM's use-list for the block-as-value
// reports them. This mirrors llvm::pred_begin/pred_end, which LLVM
// implements the same way (walking the basic block's use-list).
func (b BasicBlock) Predecessors() []BasicBlock {
	var preds []BasicBlock
	bbVal := b.bb.AsValue()
	for use := bbVal.FirstUse(); !use.IsNil(); use = use.NextUse() {
		user := use.User()
		if parent := user.InstructionParent(); !parent.IsNil() {
			preds = append(preds, BasicBlock{bb: parent})
		}
	}
	return preds
}

// Raw exposes the underlying llvm.BasicBlock.
func (b BasicBlock) Raw() llvm.BasicBlock { return b.bb }

// IsNil reports whether b wraps no underlying LLVM basic block.
func (b BasicBlock) IsNil() bool { return b.bb.IsNil() }
