package repository_test

import (
	"testing"

	"tinygo.org/x/go-llvm"

	"github.com/aardwolf-fl/llvm-frontend/internal/access"
	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
	"github.com/aardwolf-fl/llvm-frontend/internal/location"
	"github.com/aardwolf-fl/llvm-frontend/internal/repository"
)

// twoStores builds a function with two independent stores, stand-ins
// for two statements in the same file.
func twoStores(t *testing.T) (a, b ir.Value) {
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
	sa := builder.CreateStore(llvm.ConstInt(i32, 1, false), slot)
	sb := builder.CreateStore(llvm.ConstInt(i32, 2, false), slot)
	return ir.WrapValue(sa), ir.WrapValue(sb)
}

func TestAssignFileScopedIDIsDenseAndStable(t *testing.T) {
	a, b := twoStores(t)
	repo := repository.New()
	loc := location.Location{File: "a.c"}

	id1 := repo.AssignFileScopedID(a, loc.File)
	id2 := repo.AssignFileScopedID(b, loc.File)
	if id1.Counter != 1 || id2.Counter != 2 {
		t.Fatalf("expected counters 1,2, got %d,%d", id1.Counter, id2.Counter)
	}
	if id1.FileID != id2.FileID {
		t.Fatal("statements in the same file must share a file id")
	}

	again := repo.AssignFileScopedID(a, loc.File)
	if again != id1 {
		t.Fatal("re-assigning an already-known instruction must return the same id")
	}
}

func TestFileIDAllocatesPerDistinctPath(t *testing.T) {
	repo := repository.New()
	id1 := repo.FileID("a.c")
	id2 := repo.FileID("b.c")
	id1again := repo.FileID("a.c")

	if id1 == id2 {
		t.Fatal("distinct paths must get distinct ids")
	}
	if id1 != id1again {
		t.Fatal("the same path must always resolve to the same id")
	}
}

func TestFileIDPrefersResolverOverCounter(t *testing.T) {
	repo := repository.New()
	repo.SetFileIdentityResolver(func(path string) (uint64, bool) {
		if path == "a.c" {
			return 42, true
		}
		return 0, false
	})

	resolved := repo.FileID("a.c")
	fallback := repo.FileID("b.c")

	if resolved == fallback {
		t.Fatal("a resolver-derived id must not collide with a counter-derived id")
	}
	if resolved&(1<<63) == 0 {
		t.Fatal("a resolver-derived id must be tagged so it can never collide with the counter's id space")
	}
	if again := repo.FileID("a.c"); again != resolved {
		t.Fatal("the same path must always resolve to the same id, even with a resolver installed")
	}
}

func TestFileIDFallsBackWhenResolverDeclines(t *testing.T) {
	repo := repository.New()
	repo.SetFileIdentityResolver(func(path string) (uint64, bool) { return 0, false })

	id := repo.FileID("a.c")
	if id&(1<<63) != 0 {
		t.Fatal("a declined resolver lookup must fall back to the plain counter, not a tagged id")
	}
	if id != 1 {
		t.Fatalf("expected the counter fallback to start at 1, got %d", id)
	}
}

func TestRegisterStatementPreseedsValueIDs(t *testing.T) {
	a, _ := twoStores(t)
	repo := repository.New()

	set := access.NewSet(1)
	set.Add(access.NewScalar(a))

	repo.RegisterStatement("f", repository.Statement{
		Instr:    a,
		Inputs:   set,
		Location: location.Location{File: "a.c"},
	})

	id := repo.ValueID(a)
	if id != 1 {
		t.Fatalf("expected the first registered value to get id 1, got %d", id)
	}

	stmt, ok := repo.Statement(a)
	if !ok || stmt.Instr.Raw() != a.Raw() {
		t.Fatal("expected the statement to be retrievable by its instruction")
	}

	if got := repo.FunctionOrder(); len(got) != 1 || got[0] != "f" {
		t.Fatalf("expected function order [f], got %v", got)
	}
	if got := repo.FunctionInstrs("f"); len(got) != 1 {
		t.Fatalf("expected one instruction registered under f, got %d", len(got))
	}
}

func TestRegisterStatementIsIdempotentOnFunctionList(t *testing.T) {
	a, _ := twoStores(t)
	repo := repository.New()
	set := access.NewSet(0)

	repo.RegisterStatement("f", repository.Statement{Instr: a, Inputs: set, Location: location.Location{File: "a.c"}})
	repo.RegisterStatement("f", repository.Statement{Instr: a, Inputs: set, Location: location.Location{File: "a.c"}, IsCall: true})

	if got := repo.FunctionInstrs("f"); len(got) != 1 {
		t.Fatalf("re-registering the same instruction must not duplicate the function list, got %d entries", len(got))
	}
	stmt, _ := repo.Statement(a)
	if !stmt.IsCall {
		t.Fatal("re-registering must overwrite the stored Statement")
	}
}

func TestAddSuccessorPreservesInsertionOrderAndAllowsDuplicates(t *testing.T) {
	a, b := twoStores(t)
	repo := repository.New()

	repo.AddSuccessor(a, b)
	repo.AddSuccessor(a, b)

	succ := repo.Successors(a)
	if len(succ) != 2 {
		t.Fatalf("duplicate successor edges must be preserved, got %d", len(succ))
	}
}
