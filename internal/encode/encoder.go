// Package encode implements the StaticEncoder of spec.md §4.5: a stable
// binary encoding of a Repository, plus a decoder (used for tests and
// the stats/render companion command) that round-trips it exactly.
//
// The original frontend (original_source/frontends/llvm/lib/StaticData.cpp)
// wrote an ad hoc human-readable text dump; this rewrite targets
// spec.md §4.5's binary grammar instead, keeping only the original's
// per-function/per-statement iteration shape and its scoped
// (os.Create/defer Close) file-writing idiom.
package encode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/aardwolf-fl/llvm-frontend/internal/access"
	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
	"github.com/aardwolf-fl/llvm-frontend/internal/repository"
)

// Header is the fixed 7-byte magic every artifact begins with.
const Header = "AARD/S1"

// Token bytes, per §4.5's record grammar.
const (
	tokFunction  = 0xFE
	tokStatement = 0xFF
	tokFilenames = 0xFD

	tokScalar     = 0xE0
	tokStructural = 0xE1
	tokArrayLike  = 0xE2
)

// Meta bits, per §4.5's meta_bits grammar.
const (
	metaIsArg  = 0x61
	metaIsRet  = 0x62
	metaIsCall = 0x64
)

// WriteModule writes repo's statements, ordered by functionOrder (module
// declaration order) and, within each function, by statement detection
// order, to path. On any I/O failure, the partial file is removed and
// the error is reported — per spec.md §7, no partial file is kept.
func WriteModule(repo *repository.Repository, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("encode: opening %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := Write(repo, w); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode: flushing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("encode: closing %s: %w", path, err)
	}
	return nil
}

// Write serializes repo to w in full, per spec.md §4.5's record
// grammar: header, then one function token followed by its statement
// records for each function in declaration order, then the trailing
// filenames table.
func Write(repo *repository.Repository, w io.Writer) error {
	bw := &byteWriter{w: w}

	bw.bytes([]byte(Header))

	for _, fn := range repo.FunctionOrder() {
		bw.byte(tokFunction)
		bw.cstring(fn)

		for _, instr := range repo.FunctionInstrs(fn) {
			stmt, ok := repo.Statement(instr)
			if !ok {
				continue
			}
			if err := writeStatement(bw, repo, instr, stmt); err != nil {
				return err
			}
		}
	}

	writeFilenames(bw, repo)

	return bw.err
}

func writeStatement(bw *byteWriter, repo *repository.Repository, instr ir.Value, stmt *repository.Statement) error {
	id, ok := repo.StatementIDOf(instr)
	if !ok {
		return fmt.Errorf("encode: statement %v has no assigned id", stmt.Location)
	}

	bw.byte(tokStatement)
	bw.u64(statementIDValue(id))

	succs := repo.Successors(instr)
	bw.byte(byte(len(succs)))
	for _, s := range succs {
		sid, ok := repo.StatementIDOf(s)
		if !ok {
			return fmt.Errorf("encode: successor of statement has no assigned id")
		}
		bw.u64(statementIDValue(sid))
	}

	if stmt.Output != nil {
		bw.byte(1)
		writeAccess(bw, repo, *stmt.Output)
	} else {
		bw.byte(0)
	}

	uses := stmt.Inputs.Slice()
	bw.byte(byte(len(uses)))
	for _, a := range uses {
		writeAccess(bw, repo, a)
	}

	bw.u64(repo.FileID(stmt.Location.File))
	bw.u32(stmt.Location.Begin.Line)
	bw.u32(stmt.Location.Begin.Col)
	bw.u32(stmt.Location.End.Line)
	bw.u32(stmt.Location.End.Col)

	var meta byte
	if stmt.IsArg {
		meta |= metaIsArg
	}
	if stmt.IsRet {
		meta |= metaIsRet
	}
	if stmt.IsCall {
		meta |= metaIsCall
	}
	bw.byte(meta)

	return bw.err
}

// writeAccess serializes an Access tree per the `access` grammar: a
// scalar leaf carries only a value id; structural/array-like nodes
// recurse through base (and, for array-like, indices).
func writeAccess(bw *byteWriter, repo *repository.Repository, a access.Access) {
	switch a.Kind() {
	case access.Scalar:
		bw.byte(tokScalar)
		bw.u64(repo.ValueID(a.Value()))
	case access.Structural:
		bw.byte(tokStructural)
		writeAccess(bw, repo, a.Base())
		writeAccess(bw, repo, a.Accessor())
	case access.ArrayLike:
		bw.byte(tokArrayLike)
		writeAccess(bw, repo, a.Base())
		idx := a.Indices()
		bw.u32(uint32(len(idx)))
		for _, i := range idx {
			writeAccess(bw, repo, i)
		}
	}
}

func writeFilenames(bw *byteWriter, repo *repository.Repository) {
	bw.byte(tokFilenames)
	files := repo.Files()
	bw.u32(uint32(len(files)))
	for _, f := range files {
		bw.u64(f.ID)
		bw.cstring(f.Path)
	}
}

func statementIDValue(id repository.StatementID) uint64 {
	// The wire format's stmt_id is a single u64; spec.md §3 models the
	// id as a (file_id, intra_file_counter) pair but only requires that
	// ids be dense and injective within the module, so the two halves
	// are packed into one 64-bit value (32 bits of file id, 32 bits of
	// counter) rather than serialized as two separate fields the
	// grammar in §4.5 does not reserve room for.
	return uint64(uint32(id.FileID))<<32 | uint64(uint32(id.Counter))
}

// byteWriter is a tiny little-endian writer that sticks the first
// error and makes every subsequent call a no-op, so callers can chain
// writes without checking each one (mirrors the teacher's scoped
// acquire/release idiom for file output: one place checks the error).
type byteWriter struct {
	w   io.Writer
	err error
}

func (bw *byteWriter) bytes(b []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(b)
}

func (bw *byteWriter) byte(b byte) { bw.bytes([]byte{b}) }

func (bw *byteWriter) cstring(s string) {
	bw.bytes([]byte(s))
	bw.byte(0)
}

func (bw *byteWriter) u32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	bw.bytes(buf[:])
}

func (bw *byteWriter) u64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	bw.bytes(buf[:])
}
