package encode

import (
	"bytes"
	"testing"

	"github.com/aardwolf-fl/llvm-frontend/internal/repository"
)

// TestWriteReadEmptyModule covers the degenerate case: header plus an
// empty filenames table, no functions.
func TestWriteReadEmptyModule(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	bw := &byteWriter{w: &buf}
	writeFilenames(bw, repository.New())
	if bw.err != nil {
		t.Fatalf("writeFilenames: %v", bw.err)
	}

	mod, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(mod.Functions) != 0 {
		t.Fatalf("got %d functions, want 0", len(mod.Functions))
	}
	if len(mod.Files) != 0 {
		t.Fatalf("got %d files, want 0", len(mod.Files))
	}
}

// TestDecodeRejectsBadHeader covers spec.md §7's requirement that a
// corrupted or foreign file is rejected rather than silently
// misinterpreted.
func TestDecodeRejectsBadHeader(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("NOT/A1\x00filenames...")))
	if err == nil {
		t.Fatal("Read: expected error for bad header, got nil")
	}
}

// TestDecodeStatementAccessRoundTrip exercises the access grammar's
// three token shapes (scalar, structural, array-like with indices)
// directly against the byte-level writer/reader pair, independent of
// any live ir.Module or Repository.
func TestDecodeStatementAccessRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	bw := &byteWriter{w: &buf}

	// A hand-built access tree mirroring `a[i].f`: Structural over
	// ArrayLike over Scalar, to make sure nesting round-trips.
	bw.byte(tokStructural)
	bw.byte(tokArrayLike)
	bw.byte(tokScalar)
	bw.u64(7) // base value id
	bw.u32(1) // one index
	bw.byte(tokScalar)
	bw.u64(9) // index value id
	bw.byte(tokScalar)
	bw.u64(3) // accessor value id
	if bw.err != nil {
		t.Fatalf("writing access: %v", bw.err)
	}

	br := &byteReader{r: bytes.NewReader(buf.Bytes())}
	got, err := readAccess(br)
	if err != nil {
		t.Fatalf("readAccess: %v", err)
	}

	if got.Kind != AccessStructural {
		t.Fatalf("outer kind = %v, want Structural", got.Kind)
	}
	if got.Base.Kind != AccessArrayLike {
		t.Fatalf("base kind = %v, want ArrayLike", got.Base.Kind)
	}
	if got.Base.Base.Kind != AccessScalar || got.Base.Base.ValueID != 7 {
		t.Fatalf("base.base = %+v, want scalar value id 7", got.Base.Base)
	}
	if len(got.Base.Indices) != 1 || got.Base.Indices[0].ValueID != 9 {
		t.Fatalf("base.indices = %+v, want one scalar index with value id 9", got.Base.Indices)
	}
	if got.Accessor.Kind != AccessScalar || got.Accessor.ValueID != 3 {
		t.Fatalf("accessor = %+v, want scalar value id 3", got.Accessor)
	}
}

// TestDecodeFilenamesTable exercises the trailing filenames table in
// isolation, including a file path containing no special characters
// so the NUL-terminated cstring encoding is unambiguous.
func TestDecodeFilenamesTable(t *testing.T) {
	var buf bytes.Buffer
	bw := &byteWriter{w: &buf}
	bw.byte(tokFilenames)
	bw.u32(2)
	bw.u64(1)
	bw.cstring("/src/main.c")
	bw.u64(2)
	bw.cstring("/src/util.c")
	if bw.err != nil {
		t.Fatalf("writing filenames: %v", bw.err)
	}

	full := append([]byte(Header), buf.Bytes()...)
	mod, err := Read(bytes.NewReader(full))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if mod.Files[1] != "/src/main.c" || mod.Files[2] != "/src/util.c" {
		t.Fatalf("files = %+v, want {1:/src/main.c 2:/src/util.c}", mod.Files)
	}
}
