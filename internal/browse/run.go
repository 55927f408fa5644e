package browse

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ErrNotTerminal is returned by Run when output is not a terminal.
var ErrNotTerminal = errors.New("browse: requires a terminal (TTY)")

// IsTerminal reports whether w is connected to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run opens the browser full screen on out and blocks until the user quits.
// It returns the final model so the caller can tell whether anything changed.
func Run(m Model, out io.Writer) (Model, error) {
	if !IsTerminal(out) {
		return m, ErrNotTerminal
	}
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(out))
	return run(prog, m)
}

// run executes prog, enabling testable wiring.
func run(prog teaRunner, initial Model) (Model, error) {
	final, err := prog.Run()
	if err != nil {
		return initial, fmt.Errorf("browse: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return initial, fmt.Errorf("browse: unexpected model type %T", final)
	}
	return fm, nil
}
