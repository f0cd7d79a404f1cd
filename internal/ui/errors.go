package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conneroisu/patternlab/internal/errors"
)

// PrintError writes err with a red first line. Suggestions attached to the
// error follow in the default color.
func PrintError(w io.Writer, err error, noColor bool) {
	if err == nil {
		return
	}

	red := color.New(color.FgRed, color.Bold)
	if noColor {
		red.DisableColor()
	}

	lines := strings.SplitN(errors.FormatError(err), "\n", 2)
	red.Fprintf(w, "Error: %s\n", lines[0])
	if len(lines) > 1 {
		fmt.Fprintln(w, strings.TrimRight(lines[1], "\n"))
	}
}

// PrintWarning writes a yellow warning line.
func PrintWarning(w io.Writer, msg string, noColor bool) {
	yellow := color.New(color.FgYellow)
	if noColor {
		yellow.DisableColor()
	}
	yellow.Fprintf(w, "Warning: %s\n", msg)
}
