// File: internal/printer/printer.go
// License: Apache-2.0

// Package printer writes colored command line output.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// Out is where non-error output goes.
var Out io.Writer = os.Stdout

// Success prints a success message in green with a checkmark prefix
func Success(format string, a ...any) {
	green.Fprintf(Out, "✓ %s", fmt.Sprintf(format, a...))
}

// Info prints an informational message in the default color
func Info(format string, a ...any) {
	fmt.Fprintf(Out, format, a...)
}

// Warning prints a warning message in yellow
func Warning(format string, a ...any) {
	yellow.Fprintf(Out, "! %s", fmt.Sprintf(format, a...))
}

// Error prints title, explanation and suggestions to stderr and returns a
// plain error for cobra, which is configured not to print it again.
func Error(title string, explanation string, suggestions ...string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	fmt.Fprintf(os.Stderr, "%s\n", explanation)
	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		for _, s := range suggestions {
			fmt.Fprintf(os.Stderr, "  - %s\n", s)
		}
	}
	return fmt.Errorf("%s", title)
}

// Variable prints one "name = value" line, with the name highlighted.
func Variable(name, value, description string) {
	cyan.Fprintf(Out, "%-20s", name)
	fmt.Fprintf(Out, " = %s", value)
	if description != "" {
		faint.Fprintf(Out, "  # %s", description)
	}
	fmt.Fprintln(Out)
}

// LogLine prints a library log line colored by its level.
func LogLine(line string) {
	switch {
	case strings.Contains(line, "\tERROR\t"):
		red.Fprintln(Out, line)
	case strings.Contains(line, "\tWARN\t"):
		yellow.Fprintln(Out, line)
	case strings.Contains(line, "\tDEBUG\t"):
		faint.Fprintln(Out, line)
	default:
		fmt.Fprintln(Out, line)
	}
}
