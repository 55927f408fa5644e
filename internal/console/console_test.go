package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smileynet/contactbook/internal/contact"
)

// stubSaver implements Saver for tests.
type stubSaver struct {
	saved [][]contact.Contact
	err   error
}

func (s *stubSaver) Save(cs []contact.Contact) error {
	s.saved = append(s.saved, cs)
	return s.err
}

// runSession feeds input lines to a Controller over store and returns the
// output and the saver.
func runSession(t *testing.T, store *contact.Store, lines ...string) (string, *stubSaver) {
	t.Helper()
	saver := &stubSaver{}
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	c := New(in, &out, store, saver)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String(), saver
}

func seeded(t *testing.T, cs ...contact.Contact) *contact.Store {
	t.Helper()
	s := contact.NewStore(0)
	for _, c := range cs {
		if err := s.Add(c); err != nil {
			t.Fatalf("Add(%+v) error = %v", c, err)
		}
	}
	return s
}

func TestRun_ExitSaves(t *testing.T) {
	// Given a store with one contact
	store := seeded(t, contact.Contact{Name: "Bob", Phone: "1", Email: "b@b.b"})

	// When the user chooses 0
	out, saver := runSession(t, store, "0")

	// Then the store is saved once and a goodbye is printed
	if len(saver.saved) != 1 {
		t.Fatalf("Save called %d times, want 1", len(saver.saved))
	}
	if len(saver.saved[0]) != 1 || saver.saved[0][0].Name != "Bob" {
		t.Errorf("saved = %+v, want [Bob]", saver.saved[0])
	}
	for _, want := range []string{"Contact Management System", "Exiting the program. Goodbye!", "Contacts saved to file."} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestRun_EOFSaves(t *testing.T) {
	// Given input that ends without choosing Exit
	store := contact.NewStore(0)
	saver := &stubSaver{}
	var out bytes.Buffer
	c := New(strings.NewReader("2\n"), &out, store, saver)

	// When Run consumes it
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Then the session ends as if Exit were chosen
	if len(saver.saved) != 1 {
		t.Errorf("Save called %d times, want 1", len(saver.saved))
	}
	if !strings.Contains(out.String(), "No contacts to display.") {
		t.Errorf("output should list first, got:\n%s", out.String())
	}
}

func TestRun_CancelledContextSaves(t *testing.T) {
	// Given an input that never delivers a line
	pr, pw := io.Pipe()
	defer pw.Close()
	saver := &stubSaver{}
	var out bytes.Buffer
	c := New(pr, &out, contact.NewStore(0), saver)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	// When the context is cancelled
	cancel()

	// Then Run saves and returns
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if len(saver.saved) != 1 {
		t.Errorf("Save called %d times, want 1", len(saver.saved))
	}
}

func TestRun_SaveFailureIsReported(t *testing.T) {
	// Given a saver that fails and an observed logger
	core, logs := observer.New(zapcore.WarnLevel)
	saver := &stubSaver{err: errors.New("disk full")}
	var out bytes.Buffer
	c := New(strings.NewReader("0\n"), &out, contact.NewStore(0), saver, WithLogger(zap.New(core)))

	// When the user exits
	err := c.Run(context.Background())

	// Then Run still succeeds, the user is told, and a warning is logged
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if !strings.Contains(out.String(), "Failed to open file for saving contacts.") {
		t.Errorf("output should report save failure, got:\n%s", out.String())
	}
	if logs.FilterMessage("saving contacts failed").Len() != 1 {
		t.Errorf("expected one save failure warning, got %v", logs.All())
	}
}

func TestRun_InvalidMenuInput(t *testing.T) {
	out, _ := runSession(t, contact.NewStore(0), "abc", "", "9", "-1", "0")

	if got := strings.Count(out, "Invalid input! Please enter a number."); got != 2 {
		t.Errorf("invalid input messages = %d, want 2\n%s", got, out)
	}
	if got := strings.Count(out, "Invalid choice! Please enter a valid option."); got != 2 {
		t.Errorf("invalid choice messages = %d, want 2\n%s", got, out)
	}
	// The menu is printed before every prompt.
	if got := strings.Count(out, "[1] Add a New Contact"); got != 5 {
		t.Errorf("menu printed %d times, want 5", got)
	}
}

func TestAddFlow_RepromptsUntilValid(t *testing.T) {
	// Given a store holding Alice
	store := seeded(t, contact.Contact{Name: "Alice", Phone: "+12345678901", Address: "1 Main St", Email: "alice@x.com"})

	// When the user adds a contact, correcting each rejected field
	out, saver := runSession(t, store,
		"1",
		"", "ALICE", "Bob",
		"", "12a45", "+12345678901", "0044123",
		"2 Side St",
		"", "bob-at-host", "bob@host.org",
		"0",
	)

	// Then every rejection was explained once
	for _, want := range []string{
		"Name cannot be empty. Please enter a valid name.",
		"A contact with this name already exists. Please Enter a New Name:",
		"Phone number cannot be empty.",
		"Invalid characters in phone number.",
		"This phone number already exists please try again:",
		"Email cannot be empty!",
		"Invalid email! Email must contain both '@' and '.'.",
		"Contact added successfully!",
	} {
		if got := strings.Count(out, want); got != 1 {
			t.Errorf("output contains %q %d times, want 1\n%s", want, got, out)
		}
	}

	// And the new contact was appended and saved
	want := []contact.Contact{
		{Name: "Alice", Phone: "+12345678901", Address: "1 Main St", Email: "alice@x.com"},
		{Name: "Bob", Phone: "0044123", Address: "2 Side St", Email: "bob@host.org"},
	}
	if diff := cmp.Diff(want, saver.saved[0]); diff != "" {
		t.Errorf("saved contacts mismatch (-want +got):\n%s", diff)
	}
}

func TestAddFlow_TruncatesLongInput(t *testing.T) {
	long := strings.Repeat("x", 40)
	_, saver := runSession(t, contact.NewStore(0), "1", long, "123", strings.Repeat("a", 60), "e@e.e", "0")

	got := saver.saved[0][0]
	if len(got.Name) != contact.MaxNameLen {
		t.Errorf("name length = %d, want %d", len(got.Name), contact.MaxNameLen)
	}
	if len(got.Address) != contact.MaxAddressLen {
		t.Errorf("address length = %d, want %d", len(got.Address), contact.MaxAddressLen)
	}
}

func TestAddFlow_RejectsCarriageReturnInAddress(t *testing.T) {
	// Given an address line with a bare carriage return in the middle
	out, saver := runSession(t, contact.NewStore(0),
		"1", "Ann", "1", "1 Main\rApt 2", "1 Main Apt 2", "a@b.c", "0")

	// Then it is refused and the corrected address is stored
	if got := strings.Count(out, "Line breaks are not allowed."); got != 1 {
		t.Errorf("line break message shown %d times, want 1\n%s", got, out)
	}
	if got := saver.saved[0][0].Address; got != "1 Main Apt 2" {
		t.Errorf("address = %q, want %q", got, "1 Main Apt 2")
	}
}

func TestAddFlow_Full(t *testing.T) {
	// Given a store at capacity
	store := contact.NewStore(1)
	if err := store.Add(contact.Contact{Name: "Only", Phone: "1", Email: "o@o.o"}); err != nil {
		t.Fatal(err)
	}

	// When the user tries to add, the next line is read as a menu choice
	out, saver := runSession(t, store, "1", "0")

	// Then the add is refused without prompting
	if !strings.Contains(out, "Contact list is full. Cannot add more contacts.") {
		t.Errorf("output should report full store, got:\n%s", out)
	}
	if strings.Contains(out, "Enter contact name:") {
		t.Error("full store should not prompt for a name")
	}
	if len(saver.saved[0]) != 1 {
		t.Errorf("saved %d contacts, want 1", len(saver.saved[0]))
	}
}

func TestListFlow(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		out, _ := runSession(t, contact.NewStore(0), "2", "0")
		if !strings.Contains(out, "No contacts to display.") {
			t.Errorf("output should report no contacts, got:\n%s", out)
		}
	})

	t.Run("sorted table and sorted save", func(t *testing.T) {
		// Given contacts in insertion order
		store := seeded(t,
			contact.Contact{Name: "zed", Phone: "1", Email: "z@z.z"},
			contact.Contact{Name: "Amy", Phone: "2", Email: "a@a.a"},
		)

		// When the list is shown and the user exits
		out, saver := runSession(t, store, "2", "0")

		// Then rows appear alphabetically
		amy := strings.Index(out, "Amy")
		zed := strings.Index(out, "zed")
		if amy < 0 || zed < 0 || amy > zed {
			t.Errorf("Amy should be listed before zed, got:\n%s", out)
		}
		if !strings.Contains(out, "*** List of Contacts ***") {
			t.Errorf("output should contain table title, got:\n%s", out)
		}

		// And the sorted order is what gets saved
		if saver.saved[0][0].Name != "Amy" {
			t.Errorf("first saved = %q, want Amy", saver.saved[0][0].Name)
		}
	})
}

func TestSearchFlow(t *testing.T) {
	people := []contact.Contact{
		{Name: "Mark", Phone: "1", Address: "Elm", Email: "m@m.m"},
		{Name: "Zoe Martin", Phone: "2", Address: "Oak", Email: "z@z.z"},
		{Name: "Lee", Phone: "3", Email: "l@l.l"},
	}

	tests := []struct {
		name     string
		store    func(*testing.T) *contact.Store
		input    []string
		want     []string
		wantNone []string
	}{
		{
			name:  "empty store",
			store: func(t *testing.T) *contact.Store { return contact.NewStore(0) },
			input: []string{"3", "0"},
			want:  []string{"No contacts to search."},
		},
		{
			name:  "empty query",
			store: func(t *testing.T) *contact.Store { return seeded(t, people...) },
			input: []string{"3", "", "0"},
			want:  []string{"No input provided. Returning."},
		},
		{
			name:     "matches any case",
			store:    func(t *testing.T) *contact.Store { return seeded(t, people...) },
			input:    []string{"3", "mAR", "0"},
			want:     []string{"Contacts matching 'mAR':", "Name: Mark", "Name: Zoe Martin", "Address: Oak"},
			wantNone: []string{"Name: Lee"},
		},
		{
			name:  "no match",
			store: func(t *testing.T) *contact.Store { return seeded(t, people...) },
			input: []string{"3", "quinn", "0"},
			want:  []string{"No contact found containing 'quinn'."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := runSession(t, tt.store(t), tt.input...)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output should contain %q, got:\n%s", w, out)
				}
			}
			for _, w := range tt.wantNone {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q, got:\n%s", w, out)
				}
			}
		})
	}
}

func TestEditFlow(t *testing.T) {
	t.Run("not found skips field prompts", func(t *testing.T) {
		out, _ := runSession(t, contact.NewStore(0), "4", "ghost", "0")
		if !strings.Contains(out, "No contact found with the name 'ghost'.") {
			t.Errorf("output should report not found, got:\n%s", out)
		}
		if strings.Contains(out, "New Name:") {
			t.Error("missing contact should not prompt for new fields")
		}
	})

	t.Run("overwrites every field without validation", func(t *testing.T) {
		// Given two contacts
		store := seeded(t,
			contact.Contact{Name: "Alice", Phone: "1", Email: "a@a.a"},
			contact.Contact{Name: "Bob", Phone: "2", Email: "b@b.b"},
		)

		// When Bob is edited into a duplicate of Alice with a bad email
		out, saver := runSession(t, store, "4", "BOB", "Alice", "1", "", "oops", "0")

		// Then the edit is accepted as entered
		if !strings.Contains(out, "Editing contact 'Bob'") || !strings.Contains(out, "Contact updated successfully!") {
			t.Errorf("unexpected edit output:\n%s", out)
		}
		want := []contact.Contact{
			{Name: "Alice", Phone: "1", Email: "a@a.a"},
			{Name: "Alice", Phone: "1", Email: "oops"},
		}
		if diff := cmp.Diff(want, saver.saved[0]); diff != "" {
			t.Errorf("saved contacts mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDeleteFlow(t *testing.T) {
	// Given one contact named Bob
	store := seeded(t, contact.Contact{Name: "Bob", Phone: "1", Email: "b@b.b"})

	// When bob is deleted twice
	out, saver := runSession(t, store, "5", "bob", "5", "bob", "0")

	// Then the first succeeds and the second reports not found
	if !strings.Contains(out, "Contact deleted successfully.") {
		t.Errorf("output should confirm deletion, got:\n%s", out)
	}
	if !strings.Contains(out, "No contact found with the name 'bob'.") {
		t.Errorf("output should report not found, got:\n%s", out)
	}
	if len(saver.saved[0]) != 0 {
		t.Errorf("saved %d contacts, want 0", len(saver.saved[0]))
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, []contact.Contact{{Name: "Amy", Phone: "12", Address: "Elm", Email: "a@a.a"}})

	want := "Amy" + strings.Repeat(" ", 28) + "12" + strings.Repeat(" ", 19) + "Elm" + strings.Repeat(" ", 28) + "a@a.a\n"
	if !strings.HasSuffix(buf.String(), want) {
		t.Errorf("table row = %q, want suffix %q", buf.String(), want)
	}
}
