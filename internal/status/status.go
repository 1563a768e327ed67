// Package status writes transient one-line progress markers to stderr:
// shown while a slow step runs, erased before the real output lands.
// stdout is never touched; it belongs to the conversation.
package status

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Line manages a single transient status line.
type Line struct {
	out     *termenv.Output
	visible bool
	isTTY   bool
}

// New creates a status line writer on stderr. When stderr is not a
// terminal, nothing is ever printed; erasing would not work there.
func New() *Line {
	out := termenv.NewOutput(os.Stderr)
	return &Line{
		out:   out,
		isTTY: isTerminal(os.Stderr),
	}
}

// Show replaces the current status line with text.
func (l *Line) Show(format string, args ...any) {
	if !l.isTTY {
		return
	}
	l.clearLine()
	fmt.Fprintf(l.out, format, args...)
	l.visible = true
}

// Clear erases the status line.
func (l *Line) Clear() {
	if !l.isTTY || !l.visible {
		return
	}
	l.clearLine()
	l.visible = false
}

func (l *Line) clearLine() {
	fmt.Fprint(l.out, "\r")
	l.out.ClearLineRight()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
