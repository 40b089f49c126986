package statement

import (
	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
	"github.com/aardwolf-fl/llvm-frontend/internal/repository"
)

// blockBounds records the first and last detected-statement instruction
// of a non-empty basic block, used by the inter-block chaining phase.
type blockBounds struct {
	first ir.Value
	last  ir.Value
}

// Run populates repo with every statement detected across every defined
// function of m, and chains them into the per-function successor graph.
// This is StatementDetectionBase::runBase in the original, ported from
// its single combined loop into the two explicit phases spec.md §4.4
// names ("Intra-block" and "Inter-block").
func Run(m *ir.Module, repo *repository.Repository) {
	for _, fn := range m.Functions() {
		if fn.IsDeclaration() {
			continue
		}
		runFunction(m, repo, fn)
	}
}

func runFunction(m *ir.Module, repo *repository.Repository, fn ir.Function) {
	bounds := make(map[ir.BasicBlock]blockBounds)

	for _, bb := range fn.Blocks() {
		chainIntraBlock(m, repo, fn, bb, bounds)
	}

	for _, bb := range fn.Blocks() {
		chainInterBlock(repo, bb, bounds)
	}
}

// chainIntraBlock implements the "Intra-block" phase: in source order,
// detect each instruction, register it, and chain each detected
// statement to the next within the block. Non-empty blocks get a
// (first, last) entry in bounds for the later inter-block phase.
func chainIntraBlock(
	m *ir.Module,
	repo *repository.Repository,
	fn ir.Function,
	bb ir.BasicBlock,
	bounds map[ir.BasicBlock]blockBounds,
) {
	var first, prev ir.Value

	for _, instr := range bb.Instructions() {
		d := runOnInstr(instr)
		if !d.ok {
			continue
		}

		stmt, ok := buildStatement(m, d)
		if !ok {
			// UnknownLocation: recoverable, silently skip (§4.4).
			continue
		}

		repo.RegisterStatement(fn.Name(), stmt)

		if first.IsNil() {
			first = stmt.Instr
			prev = stmt.Instr
		} else {
			repo.AddSuccessor(prev, stmt.Instr)
			prev = stmt.Instr
		}
	}

	if !prev.IsNil() {
		bounds[bb] = blockBounds{first: first, last: prev}
	}
}

// chainInterBlock implements the "Inter-block" phase: for a non-empty
// block B, walk B's predecessors; an empty predecessor contributes its
// own predecessors to the worklist instead (transitively skipping empty
// blocks), while a non-empty predecessor's last statement gets an edge
// to B's first statement.
func chainInterBlock(repo *repository.Repository, bb ir.BasicBlock, bounds map[ir.BasicBlock]blockBounds) {
	bbBounds, ok := bounds[bb]
	if !ok {
		// Empty basic block: ignore it as a target; it contributes no
		// edges of its own (its predecessors will instead be walked
		// through when one of ITS successors is processed).
		return
	}

	worklist := bb.Predecessors()

	for len(worklist) > 0 {
		p := worklist[0]
		worklist = worklist[1:]

		predBounds, ok := bounds[p]
		if !ok {
			worklist = append(worklist, p.Predecessors()...)
			continue
		}

		repo.AddSuccessor(predBounds.last, bbBounds.first)
	}
}
