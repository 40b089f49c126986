// Package repository implements the per-module Repository of spec.md
// §3/§4.3: tables assigning stable numeric ids to statements, values,
// and files, per-function statement lists in detection order, and the
// successor adjacency used for both the binary artifact and the dynamic
// instrumenter.
//
// Grounded on
// original_source/frontends/llvm/include/StatementRepository.h and
// lib/StatementRepository.cpp (registerStatement/addSuccessor/
// getStatementId/getValueId/getFileId — the size+1 dense-allocator
// pattern is carried over unchanged), with id-table bookkeeping styled
// after the teacher's internal/funcutil generic map helpers (ported
// here as internal/setutil).
package repository

import (
	"github.com/aardwolf-fl/llvm-frontend/internal/access"
	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
	"github.com/aardwolf-fl/llvm-frontend/internal/location"
)

// StatementID is the (file, intra-file-counter) pair spec.md §3 assigns
// each statement: a file-scoped id plus a module-wide monotonic counter
// in detection order.
type StatementID struct {
	FileID  uint64
	Counter uint64
}

// Statement is one detected IR instruction record, per spec.md §3.
type Statement struct {
	Instr    ir.Value
	Inputs   *access.Set
	Output   *access.Access // nil for non-defining statements
	Location location.Location
	IsArg    bool
	IsRet    bool
	IsCall   bool
}

// Repository holds the per-module tables built by the StatementDetector
// and consumed read-only by the StaticEncoder and DynamicInstrumenter.
type Repository struct {
	instrToStatement map[ir.Value]*Statement
	functionToInstrs map[string][]ir.Value // keyed by function name (unique within a module)
	functionOrder    []string
	successors       map[ir.Value][]ir.Value

	statementIDs   map[ir.Value]StatementID
	valueIDs       map[access.Key]uint64
	valueIDOrder   []access.Key
	fileIDs        map[string]uint64
	fileIDOrder    []string
	nextFileID     uint64
	fileIdentityFn func(path string) (uint64, bool)
}

// New returns an empty Repository.
func New() *Repository {
	return &Repository{
		instrToStatement: make(map[ir.Value]*Statement),
		functionToInstrs: make(map[string][]ir.Value),
		successors:       make(map[ir.Value][]ir.Value),
		statementIDs:     make(map[ir.Value]StatementID),
		valueIDs:         make(map[access.Key]uint64),
		fileIDs:          make(map[string]uint64),
		nextFileID:       1,
	}
}

// RegisterStatement inserts stmt under its instruction key, appends the
// instruction to fn's statement list, and pre-seeds ids for the
// statement itself plus each input's and the output's ValueOrBase.
// Idempotent: re-registering the same instruction overwrites the
// Statement but does not duplicate the per-function list entry or
// reassign ids.
func (r *Repository) RegisterStatement(fn string, stmt Statement) {
	_, already := r.instrToStatement[stmt.Instr]
	r.instrToStatement[stmt.Instr] = &stmt

	if !already {
		if _, seen := r.functionToInstrs[fn]; !seen {
			r.functionOrder = append(r.functionOrder, fn)
		}
		r.functionToInstrs[fn] = append(r.functionToInstrs[fn], stmt.Instr)
	}

	r.AssignFileScopedID(stmt.Instr, stmt.Location.File)

	for _, in := range stmt.Inputs.Slice() {
		r.ValueID(in.ValueOrBase())
	}
	if stmt.Output != nil {
		r.ValueID(stmt.Output.ValueOrBase())
	}
}

// AddSuccessor records to as a control-flow successor of from. Both
// must already be registered statements. Duplicates are permitted (they
// can legitimately arise when multiple empty-predecessor paths converge
// on the same non-empty block, per spec.md §9's Open Question on this)
// and insertion order is preserved.
func (r *Repository) AddSuccessor(from, to ir.Value) {
	r.successors[from] = append(r.successors[from], to)
}

// Statement returns the registered Statement for instr, if any.
func (r *Repository) Statement(instr ir.Value) (*Statement, bool) {
	s, ok := r.instrToStatement[instr]
	return s, ok
}

// FunctionOrder returns function names in the order their first
// statement was registered (module declaration order, since the
// detector walks functions in declaration order).
func (r *Repository) FunctionOrder() []string { return r.functionOrder }

// FunctionInstrs returns fn's statement-bearing instructions in
// detection order (= source order, by construction).
func (r *Repository) FunctionInstrs(fn string) []ir.Value { return r.functionToInstrs[fn] }

// Successors returns instr's recorded successor instructions, in
// insertion order.
func (r *Repository) Successors(instr ir.Value) []ir.Value { return r.successors[instr] }

// AssignFileScopedID returns the existing (file_id, counter) for instr
// if already known, otherwise allocates a fresh id: the file's own id is
// obtained (or allocated) first, then the counter is the number of
// statement ids assigned so far plus one (module-wide, starting at 1).
func (r *Repository) AssignFileScopedID(instr ir.Value, file string) StatementID {
	if id, ok := r.statementIDs[instr]; ok {
		return id
	}

	fileID := r.FileID(file)
	next := uint64(len(r.statementIDs)) + 1

	id := StatementID{FileID: fileID, Counter: next}
	r.statementIDs[instr] = id
	return id
}

// StatementIDOf returns the previously assigned StatementID for instr.
func (r *Repository) StatementIDOf(instr ir.Value) (StatementID, bool) {
	id, ok := r.statementIDs[instr]
	return id, ok
}

// ValueID returns the existing id for v if already known; otherwise it
// assigns size+1 (1-based, dense) and records it. v is keyed by
// access.Access identity semantics (the ValueOrBase of some Access),
// not by the raw ir.Value it wraps, matching the Repository's
// value_id table in spec.md §3.
func (r *Repository) ValueID(v ir.Value) uint64 {
	k := access.NewScalar(v).Key()
	if id, ok := r.valueIDs[k]; ok {
		return id
	}
	id := uint64(len(r.valueIDs) + 1)
	r.valueIDs[k] = id
	r.valueIDOrder = append(r.valueIDOrder, k)
	return id
}

// SetFileIdentityResolver installs the filesystem-identity lookup FileID
// consults on first sight of a path (e.g. a POSIX device+inode number,
// per spec.md §3's "derived from the filesystem's unique file identity").
// The Repository itself never touches the filesystem; the driver, which
// spec.md places in charge of filesystem access, supplies this hook
// before running the StatementDetector so every path's id is resolved
// exactly once, at first use, rather than needing to know every
// referenced path up front. A resolver that returns ok=false for a given
// path (missing file, unsupported platform, stat error) falls back to
// the dense per-module counter. Left unset, every path uses that
// counter, matching spec.md's "otherwise a stable assigned counter".
func (r *Repository) SetFileIdentityResolver(resolve func(path string) (uint64, bool)) {
	r.fileIdentityFn = resolve
}

// FileID returns the existing id for path if already known; otherwise
// it assigns a fresh one: the filesystem-derived identity from the
// resolver installed via SetFileIdentityResolver when available, or the
// dense module-local counter (size+1) otherwise. Filesystem-derived ids
// are tagged with the high bit set so they can never collide with the
// counter's id space, since an inode number carries no relationship to
// this module's allocation order.
func (r *Repository) FileID(path string) uint64 {
	if id, ok := r.fileIDs[path]; ok {
		return id
	}

	if r.fileIdentityFn != nil {
		if raw, ok := r.fileIdentityFn(path); ok {
			id := raw | fileIdentityTag
			r.fileIDs[path] = id
			r.fileIDOrder = append(r.fileIDOrder, path)
			return id
		}
	}

	id := r.nextFileID
	r.nextFileID++
	r.fileIDs[path] = id
	r.fileIDOrder = append(r.fileIDOrder, path)
	return id
}

// fileIdentityTag marks a file id as filesystem-derived rather than
// counter-assigned, keeping the two allocators' id spaces disjoint.
const fileIdentityTag = uint64(1) << 63

// Files returns (path, id) pairs in assignment order, for the static
// encoder's filenames table.
func (r *Repository) Files() []FileEntry {
	out := make([]FileEntry, 0, len(r.fileIDOrder))
	for _, p := range r.fileIDOrder {
		out = append(out, FileEntry{Path: p, ID: r.fileIDs[p]})
	}
	return out
}

// FileEntry is one row of the filenames table.
type FileEntry struct {
	Path string
	ID   uint64
}
