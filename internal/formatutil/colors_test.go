package formatutil_test

import (
	"testing"

	"github.com/aardwolf-fl/llvm-frontend/internal/formatutil"
)

// Tests assume stdout is not a terminal under `go test`, so Color
// formatters fall back to plain text; that branch is what's worth
// locking down here, since the ANSI-escaping branch is just fmt.Sprintf.
func TestColorFallsBackToPlainTextWhenNotATerminal(t *testing.T) {
	got := formatutil.Bold("summary")
	if got != "summary" {
		t.Fatalf("expected plain text fallback, got %q", got)
	}
}

func TestColorJoinsMultipleArgsLikeFmtSprint(t *testing.T) {
	got := formatutil.Red("a", "b", 1)
	want := "ab1"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSanitizeEscapesControlCharacters(t *testing.T) {
	got := formatutil.Sanitize("line1\nline2\ttabbed")
	if got != `line1\nline2\ttabbed` {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizePassesThroughPlainText(t *testing.T) {
	got := formatutil.Sanitize("main.c")
	if got != "main.c" {
		t.Fatalf("got %q", got)
	}
}
