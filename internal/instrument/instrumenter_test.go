package instrument

import (
	"strings"
	"testing"

	"tinygo.org/x/go-llvm"

	"github.com/aardwolf-fl/llvm-frontend/internal/access"
	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
	"github.com/aardwolf-fl/llvm-frontend/internal/location"
	"github.com/aardwolf-fl/llvm-frontend/internal/repository"
)

// buildSquareIR hand-builds the IR shape of spec.md §8's square()
// scenario (one parameter-init store, one return) without attaching
// debug info: this test exercises instrumentation in isolation, so the
// statements are registered directly against the Repository rather than
// discovered through the LocationResolver.
func buildSquareIR(t *testing.T) (*ir.Module, llvm.Value, llvm.Value) {
	t.Helper()

	ctx := llvm.NewContext()
	mod := ctx.NewModule("square")
	builder := ctx.NewBuilder()
	defer builder.Dispose()

	i32 := ctx.Int32Type()
	fnTy := llvm.FunctionType(i32, []llvm.Type{i32}, false)
	fn := llvm.AddFunction(mod, "square", fnTy)
	param := fn.Param(0)

	entry := llvm.AddBasicBlock(fn, "entry")
	builder.SetInsertPointAtEnd(entry)

	slot := builder.CreateAlloca(i32, "n.addr")
	store := builder.CreateStore(param, slot)
	loaded := builder.CreateLoad(i32, slot, "n")
	mul := builder.CreateMul(loaded, loaded, "mul")
	ret := builder.CreateRet(mul)
	_ = mul

	return ir.NewModuleForTest(ctx, mod), store, ret
}

// TestRunInsertsStatementMarkers registers the store and return as
// statements directly (bypassing detection), instruments the module,
// and checks that both got a preceding aardwolf_write_statement call
// and that the store — whose def is a scalar Access over a primitive
// i32 — got a following aardwolf_write_data_i32 call.
func TestRunInsertsStatementMarkers(t *testing.T) {
	m, store, ret := buildSquareIR(t)
	defer m.Dispose()

	storeVal := ir.WrapValue(store)
	retVal := ir.WrapValue(ret)

	repo := repository.New()

	out := access.NewScalar(storeVal)
	repo.RegisterStatement("square", repository.Statement{
		Instr:  storeVal,
		Inputs: access.NewSet(0),
		Output: &out,
		Location: location.Location{
			File:  "square.c",
			Begin: location.LineCol{Line: 1, Col: 10},
			End:   location.LineCol{Line: 1, Col: 10},
		},
		IsArg: true,
	})

	uses := access.NewSet(1)
	uses.Add(out)
	repo.RegisterStatement("square", repository.Statement{
		Instr:  retVal,
		Inputs: uses,
		Location: location.Location{
			File:  "square.c",
			Begin: location.LineCol{Line: 2, Col: 3},
			End:   location.LineCol{Line: 2, Col: 3},
		},
		IsRet: true,
	})
	repo.AddSuccessor(storeVal, retVal)

	if err := Run(m, repo); err != nil {
		t.Fatalf("Run: %v", err)
	}

	raw := m.Raw()
	fn := raw.NamedFunction("square")
	if fn.IsNil() {
		t.Fatal("square function missing after instrumentation")
	}

	var statementCalls, typedTracerCalls int
	for bb := fn.FirstBasicBlock(); !bb.IsNil(); bb = llvm.NextBasicBlock(bb) {
		for i := bb.FirstInstruction(); !i.IsNil(); i = llvm.NextInstruction(i) {
			if i.InstructionOpcode() != llvm.Call {
				continue
			}
			callee := i.CalledFunction()
			if callee.IsNil() {
				continue
			}
			switch callee.Name() {
			case fnWriteStatement:
				statementCalls++
			case "aardwolf_write_data_i32":
				typedTracerCalls++
			}
		}
	}

	if statementCalls != 2 {
		t.Errorf("got %d aardwolf_write_statement calls, want 2", statementCalls)
	}
	if typedTracerCalls != 1 {
		t.Errorf("got %d aardwolf_write_data_i32 calls, want 1", typedTracerCalls)
	}
}

// TestRunSkipsDataTracerWithoutDef checks that a statement with no
// Output (the return in the square() scenario) gets no data tracer
// call of any kind, only its statement marker.
func TestRunSkipsDataTracerWithoutDef(t *testing.T) {
	m, _, ret := buildSquareIR(t)
	defer m.Dispose()

	retVal := ir.WrapValue(ret)
	repo := repository.New()
	repo.RegisterStatement("square", repository.Statement{
		Instr:  retVal,
		Inputs: access.NewSet(0),
		Location: location.Location{
			File:  "square.c",
			Begin: location.LineCol{Line: 2, Col: 3},
			End:   location.LineCol{Line: 2, Col: 3},
		},
		IsRet: true,
	})

	if err := Run(m, repo); err != nil {
		t.Fatalf("Run: %v", err)
	}

	fn := m.Raw().NamedFunction("square")
	for bb := fn.FirstBasicBlock(); !bb.IsNil(); bb = llvm.NextBasicBlock(bb) {
		for i := bb.FirstInstruction(); !i.IsNil(); i = llvm.NextInstruction(i) {
			if i.InstructionOpcode() != llvm.Call {
				continue
			}
			if callee := i.CalledFunction(); !callee.IsNil() && strings.HasPrefix(callee.Name(), "aardwolf_write_data_") {
				t.Errorf("unexpected %s call for a def-less statement", callee.Name())
			}
		}
	}
}
