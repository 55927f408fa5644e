package browse

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/contactbook/internal/contact"
)

// CursorMarker is the prefix shown on the selected row.
const CursorMarker = "▸ "

// MinLeftWidth fits the longest allowed name, its row prefix and the pane
// border, so names are never wrapped.
const MinLeftWidth = contact.MaxNameLen + len("  ") + borderChrome

var (
	accent = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dim    = lipgloss.AdaptiveColor{Light: "240", Dark: "240"}
	alert  = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}

	titleText = lipgloss.NewStyle().Bold(true)
	mutedText = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
	labelText = lipgloss.NewStyle().
			Foreground(accent).
			Width(len("Address") + 2)
	warnText = lipgloss.NewStyle().
			Foreground(alert).
			Bold(true)
)

// paneStyle returns a rounded pane of the given outer size with a border
// in color.
func paneStyle(color lipgloss.TerminalColor, width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(width - borderChrome).
		Height(height)
}

// detailBorder is the detail pane's border color; it turns to the alert
// color while a delete of the shown contact awaits confirmation.
func detailBorder(mode Mode) lipgloss.TerminalColor {
	if mode == ModeConfirm {
		return alert
	}
	return dim
}

// PaneWidths splits totalWidth between the name list and the detail pane.
// The list takes MinLeftWidth; on terminals narrower than two lists the
// space is split evenly.
func PaneWidths(totalWidth int) (left, right int) {
	if totalWidth <= 0 {
		return 0, 0
	}
	left = MinLeftWidth
	if totalWidth < 2*MinLeftWidth {
		left = totalWidth / 2
	}
	return left, totalWidth - left
}
