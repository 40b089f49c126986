package location_test

import (
	"errors"
	"testing"

	"tinygo.org/x/go-llvm"

	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
	"github.com/aardwolf-fl/llvm-frontend/internal/location"
)

func buildPlainStore(t *testing.T) (*ir.Module, ir.Value) {
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
	store := builder.CreateStore(llvm.ConstInt(i32, 1, false), slot)
	return ir.NewModuleForTest(ctx, mod), ir.WrapValue(store)
}

func TestResolveFailsWithoutDebugInfoOrArgStore(t *testing.T) {
	m, store := buildPlainStore(t)
	defer m.Dispose()

	_, err := location.Resolve(m, store)
	if !errors.Is(err, location.ErrUnknownLocation) {
		t.Fatalf("expected ErrUnknownLocation for a debug-info-free, non-argument store, got %v", err)
	}
}
