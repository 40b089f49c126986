// Package formatutil provides terminal-aware colored output for the CLI
// commands, shared between aardwolf-llvm and aardwolf-llvm-stats.
package formatutil

import (
	"fmt"

	"golang.org/x/term"
)

var (
	Bold   = Color("\033[1m%s\033[0m")
	Faint  = Color("\033[2m%s\033[0m")
	Red    = Color("\033[1;31m%s\033[0m")
	Green  = Color("\033[1;32m%s\033[0m")
	Yellow = Color("\033[1;33m%s\033[0m")
	Cyan   = Color("\033[1;36m%s\033[0m")
)

// Color builds a formatter that wraps its arguments in colorString's
// escape codes only when stdout is a terminal, so piped/redirected
// output (e.g. into a log file or CI artifact) stays plain text.
func Color(colorString string) func(...interface{}) string {
	return func(args ...interface{}) string {
		if term.IsTerminal(1) {
			return fmt.Sprintf(colorString, fmt.Sprint(args...))
		}
		return fmt.Sprint(args...)
	}
}

// Sanitize escapes control characters (and double quotes) in s by
// round-tripping it through a quoted Go string representation, for
// safely echoing
// file-derived strings (function names, paths) to the terminal.
func Sanitize(s string) string {
	r := fmt.Sprintf("%q", s)
	if len(r) >= 2 {
		return r[1 : len(r)-1]
	}
	return r
}
