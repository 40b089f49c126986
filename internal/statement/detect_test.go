package statement

import (
	"testing"

	"tinygo.org/x/go-llvm"

	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
)

// fixture builds: alloca n; store 1, n; %v = load n; %s = mul %v, %v;
// ret void. No debug info, so buildStatement (and Run as a whole) would
// skip everything here; these tests exercise runOnInstr/findInputs
// directly, which don't touch location at all.
func fixture(t *testing.T) (store, load, mul, ret llvm.Value) {
	t.Helper()
	ctx := llvm.NewContext()
	mod := ctx.NewModule("m")
	builder := ctx.NewBuilder()
	defer builder.Dispose()

	i32 := ctx.Int32Type()
	fnTy := llvm.FunctionType(ctx.VoidType(), nil, false)
	fn := llvm.AddFunction(mod, "f", fnTy)
	entry := llvm.AddBasicBlock(fn, "entry")
	builder.SetInsertPointAtEnd(entry)

	slot := builder.CreateAlloca(i32, "n")
	store = builder.CreateStore(llvm.ConstInt(i32, 1, false), slot)
	load = builder.CreateLoad(i32, slot, "v")
	mul = builder.CreateMul(load, load, "s")
	ret = builder.CreateRetVoid()
	return
}

func TestRunOnInstrClassifiesStoreAsStatement(t *testing.T) {
	storeV, _, _, _ := fixture(t)
	d := runOnInstr(ir.WrapValue(storeV))
	if !d.ok {
		t.Fatal("a store should be detected as a statement")
	}
	if d.output == nil {
		t.Fatal("a store to a local alloca should have a non-nil output")
	}
	if d.isRet || d.isCall {
		t.Fatal("a store is neither a return nor a call")
	}
}

func TestRunOnInstrClassifiesReturnAsStatement(t *testing.T) {
	_, _, _, retV := fixture(t)
	d := runOnInstr(ir.WrapValue(retV))
	if !d.ok {
		t.Fatal("a return should be detected as a statement")
	}
	if !d.isRet {
		t.Fatal("expected isRet to be set")
	}
}

func TestRunOnInstrSkipsNonStatementInstructions(t *testing.T) {
	_, loadV, mulV, _ := fixture(t)
	if d := runOnInstr(ir.WrapValue(loadV)); d.ok {
		t.Fatal("a bare load is not one of spec.md §4.4's statement kinds")
	}
	if d := runOnInstr(ir.WrapValue(mulV)); d.ok {
		t.Fatal("a bare arithmetic instruction is not a statement")
	}
}

func TestFindInputsExcludesStoreDestination(t *testing.T) {
	storeV, _, _, _ := fixture(t)
	set := findInputs(ir.WrapValue(storeV))
	// The store's stored operand is a constant (not enqueueable) and its
	// destination alloca is never enqueued, so the use set should be
	// empty: there is no non-constant input feeding this particular store.
	if set.Len() != 0 {
		t.Fatalf("expected no inputs for a store of a bare constant, got %d", set.Len())
	}
}

func TestFindInputsTraversesThroughLoadToAlloca(t *testing.T) {
	_, _, mulV, _ := fixture(t)
	set := findInputs(ir.WrapValue(mulV))
	if set.Len() != 1 {
		t.Fatalf("expected mul's two (identical) load-of-alloca operands to collapse to one input, got %d", set.Len())
	}
}
