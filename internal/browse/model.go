// Package browse implements a two-pane TUI for viewing, filtering, and
// deleting contacts. It operates on a contact.Store directly; the caller
// saves the store after the program exits.
package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/smileynet/contactbook/internal/contact"
)

// Mode represents the current input mode.
type Mode int

const (
	ModeList    Mode = iota // Moving through the contact list.
	ModeFilter              // Typing a name filter.
	ModeConfirm             // Confirming a delete.
)

// helpBarHeight is the number of lines reserved for the help bar.
const helpBarHeight = 1

// statusBarHeight is the number of lines reserved for the filter/status line.
const statusBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Model is the Bubble Tea model for the contact browser.
type Model struct {
	store    *contact.Store
	logger   *zap.Logger
	contacts []contact.Contact
	cursor   int
	mode     Mode
	filter   textinput.Model
	status   string
	deleted  int
	width    int
	height   int
	help     help.Model
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) ModelOption {
	return func(m *Model) {
		m.logger = l
	}
}

// NewModel creates a Model showing every contact in store, sorted by name.
func NewModel(store *contact.Store, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "name"
	ti.CharLimit = contact.MaxNameLen

	m := Model{
		store:  store,
		logger: zap.NewNop(),
		filter: ti,
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Deleted returns how many contacts were deleted during the session.
func (m Model) Deleted() int { return m.deleted }

// Selected returns the contact under the cursor.
func (m Model) Selected() (contact.Contact, bool) {
	if m.cursor < 0 || m.cursor >= len(m.contacts) {
		return contact.Contact{}, false
	}
	return m.contacts[m.cursor], true
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := ListKeyMap()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if len(m.contacts) > 0 {
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.contacts) - 1
			}
		}

	case key.Matches(msg, keys.Down):
		if len(m.contacts) > 0 {
			m.cursor++
			if m.cursor >= len(m.contacts) {
				m.cursor = 0
			}
		}

	case key.Matches(msg, keys.Filter):
		m.mode = ModeFilter
		m.status = ""
		return m, m.filter.Focus()

	case key.Matches(msg, keys.Clear):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.refresh()
		}

	case key.Matches(msg, keys.Delete):
		if _, ok := m.Selected(); ok {
			m.mode = ModeConfirm
			m.status = ""
		}
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := FilterKeyMap()
	switch {
	case key.Matches(msg, keys.Apply):
		m.mode = ModeList
		m.filter.Blur()
		return m, nil

	case key.Matches(msg, keys.Cancel):
		m.mode = ModeList
		m.filter.Blur()
		m.filter.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refresh()
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := ConfirmKeyMap()
	switch {
	case key.Matches(msg, keys.Confirm):
		m.mode = ModeList
		selected, ok := m.Selected()
		if !ok {
			return m, nil
		}
		if err := m.store.DeleteContact(selected); err != nil {
			m.status = fmt.Sprintf("Delete failed: %v", err)
			return m, nil
		}
		m.deleted++
		m.logger.Debug("contact deleted", zap.String("name", selected.Name))
		m.status = fmt.Sprintf("Deleted %s", selected.Name)
		m.refresh()

	case key.Matches(msg, keys.Cancel):
		m.mode = ModeList
	}
	return m, nil
}

// refresh reloads the visible contacts from the store and clamps the cursor.
// Both List and Search sort the store in place.
func (m *Model) refresh() {
	if q := m.filter.Value(); q != "" {
		m.contacts = m.store.Search(q)
	} else {
		m.contacts = m.store.List()
	}
	if m.cursor >= len(m.contacts) {
		m.cursor = len(m.contacts) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome, the status line and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - statusBarHeight - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the two-pane layout with status line and help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle(accent, leftWidth, contentHeight).Render(m.viewList(contentHeight)),
		paneStyle(detailBorder(m.mode), rightWidth, contentHeight).Render(m.viewDetail()),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		panes,
		m.viewStatus(),
		m.help.View(HelpBindings(m.mode)),
	)
}

// viewList renders the name list, scrolled so the cursor stays visible.
func (m Model) viewList(height int) string {
	if len(m.contacts) == 0 {
		if m.filter.Value() != "" {
			return mutedText.Render(fmt.Sprintf("No contact found containing '%s'", m.filter.Value()))
		}
		return mutedText.Render("No contacts")
	}

	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := start + height
	if end > len(m.contacts) {
		end = len(m.contacts)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		if i == m.cursor {
			b.WriteString(CursorMarker)
		} else {
			b.WriteString("  ")
		}
		b.WriteString(m.contacts[i].Name)
	}
	return b.String()
}

// viewDetail renders the selected contact's fields.
func (m Model) viewDetail() string {
	c, ok := m.Selected()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleText.Render(c.Name))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s%s\n", labelText.Render("Phone"), c.Phone)
	fmt.Fprintf(&b, "%s%s\n", labelText.Render("Address"), c.Address)
	fmt.Fprintf(&b, "%s%s", labelText.Render("Email"), c.Email)
	return b.String()
}

// viewStatus renders the line between the panes and the help bar.
func (m Model) viewStatus() string {
	switch m.mode {
	case ModeFilter:
		return m.filter.View()
	case ModeConfirm:
		c, _ := m.Selected()
		return warnText.Render(fmt.Sprintf("Delete %s? [Enter] Confirm   [Esc] Cancel", c.Name))
	}
	if m.status != "" {
		return m.status
	}
	if q := m.filter.Value(); q != "" {
		return mutedText.Render(fmt.Sprintf("filter: %s (%d of %d)", q, len(m.contacts), m.store.Len()))
	}
	return mutedText.Render(fmt.Sprintf("%d of %d contacts", m.store.Len(), m.store.Cap()))
}
