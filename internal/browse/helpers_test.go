package browse

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/smileynet/contactbook/internal/contact"
)

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(ansi.Strip(s), sub)
}

// sampleStore returns a store with contacts added out of alphabetical order.
func sampleStore(t *testing.T) *contact.Store {
	t.Helper()
	s := contact.NewStore(10)
	for _, c := range []contact.Contact{
		{Name: "Zoe Martin", Phone: "3", Address: "Oak", Email: "z@z.z"},
		{Name: "alice", Phone: "1", Address: "Elm", Email: "a@a.a"},
		{Name: "Mark", Phone: "2", Address: "Pine", Email: "m@m.m"},
	} {
		if err := s.Add(c); err != nil {
			t.Fatalf("Add(%+v) error = %v", c, err)
		}
	}
	return s
}

// press sends each key to m in order and returns the resulting model.
func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends s one rune at a time.
func typeText(m Model, s string) Model {
	for _, r := range s {
		m = press(m, runes(string(r)))
	}
	return m
}
