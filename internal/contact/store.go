package contact

import (
	"fmt"
	"slices"
	"strings"

	"github.com/smileynet/contactbook/internal/textmatch"
)

// DefaultCapacity is the number of contacts a Store holds when no capacity
// is configured.
const DefaultCapacity = 100

// Store is an ordered, capacity-bounded collection of contacts.
//
// Entries keep insertion order until List or Search is called; both sort the
// backing sequence in place by case-insensitive name, and that order is what
// later operations (and Save) observe.
//
// Store is not safe for concurrent use.
type Store struct {
	items    []Contact
	capacity int
}

// NewStore creates an empty Store. A capacity <= 0 selects DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{items: make([]Contact, 0, capacity), capacity: capacity}
}

// Len returns the number of stored contacts.
func (s *Store) Len() int { return len(s.items) }

// Cap returns the maximum number of contacts.
func (s *Store) Cap() int { return s.capacity }

// Full reports whether another Add would exceed capacity.
func (s *Store) Full() bool { return len(s.items) >= s.capacity }

// Contacts returns a copy of the contacts in their current order.
func (s *Store) Contacts() []Contact {
	return slices.Clone(s.items)
}

// Restore replaces the store contents with previously persisted records.
// Records are trusted and not validated. Records beyond capacity are
// discarded; the number discarded is returned.
func (s *Store) Restore(cs []Contact) int {
	dropped := 0
	if len(cs) > s.capacity {
		dropped = len(cs) - s.capacity
		cs = cs[:s.capacity]
	}
	s.items = append(s.items[:0], cs...)
	return dropped
}

// CheckName validates a candidate name against the field rules and the
// names already stored.
func (s *Store) CheckName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := checkField("name", name, MaxNameLen); err != nil {
		return err
	}
	if s.indexOf(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return nil
}

// CheckPhone validates a candidate phone number's format and uniqueness.
func (s *Store) CheckPhone(phone string) error {
	if !ValidPhoneFormat(phone) {
		return fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	if err := checkField("phone", phone, MaxPhoneLen); err != nil {
		return err
	}
	for _, c := range s.items {
		if c.Phone == phone {
			return fmt.Errorf("%w: %q", ErrDuplicatePhone, phone)
		}
	}
	return nil
}

// CheckAddress validates a candidate address. Any single-line value within
// the length limit is accepted, including an empty one.
func (s *Store) CheckAddress(address string) error {
	return checkField("address", address, MaxAddressLen)
}

// CheckEmail validates a candidate email address.
func (s *Store) CheckEmail(email string) error {
	if !ValidEmail(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return checkField("email", email, MaxEmailLen)
}

// Add validates c and appends it.
func (s *Store) Add(c Contact) error {
	if s.Full() {
		return fmt.Errorf("%w (capacity %d)", ErrCapacityExceeded, s.capacity)
	}
	if err := s.CheckName(c.Name); err != nil {
		return err
	}
	if err := s.CheckPhone(c.Phone); err != nil {
		return err
	}
	if err := s.CheckAddress(c.Address); err != nil {
		return err
	}
	if err := s.CheckEmail(c.Email); err != nil {
		return err
	}
	s.items = append(s.items, c)
	return nil
}

// List sorts the store by name and returns the sorted contacts.
func (s *Store) List() []Contact {
	s.sort()
	return s.Contacts()
}

// Search sorts the store by name and returns the contacts whose name
// contains query, ignoring case. An empty query matches every contact.
func (s *Store) Search(query string) []Contact {
	s.sort()
	matches := make([]Contact, 0)
	for _, c := range s.items {
		if textmatch.Contains(c.Name, query) {
			matches = append(matches, c)
		}
	}
	return matches
}

// Find returns the first contact whose name equals name, ignoring case.
func (s *Store) Find(name string) (Contact, bool) {
	i := s.indexOf(name)
	if i < 0 {
		return Contact{}, false
	}
	return s.items[i], true
}

// Edit overwrites every field of the first contact named name (ignoring
// case) with the fields of c.
//
// Line breaks are removed and fields are cut to their limits, but
// nothing else is checked: an edit may introduce a duplicate name or phone,
// or a malformed phone or email.
func (s *Store) Edit(name string, c Contact) error {
	i := s.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	s.items[i] = normalizeEdit(c)
	return nil
}

// Delete removes the first contact named name (ignoring case). Later
// contacts move up one position and keep their relative order.
func (s *Store) Delete(name string) error {
	i := s.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

// DeleteContact removes the first contact equal to c in every field. It
// tells apart entries whose names differ only in case, which Delete cannot.
func (s *Store) DeleteContact(c Contact) error {
	i := slices.Index(s.items, c)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, c.Name)
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *Store) indexOf(name string) int {
	key := foldName(name)
	return slices.IndexFunc(s.items, func(c Contact) bool {
		return foldName(c.Name) == key
	})
}

func (s *Store) sort() {
	slices.SortStableFunc(s.items, func(a, b Contact) int {
		return strings.Compare(foldName(a.Name), foldName(b.Name))
	})
}

// foldName is the case folding shared by ordering, lookup and uniqueness,
// and by textmatch.
func foldName(name string) string {
	return strings.ToLower(name)
}
