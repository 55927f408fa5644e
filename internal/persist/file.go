// Package persist saves and loads the contact list as a flat text file.
//
// Each record is four consecutive lines: name, phone, address, email. There
// is no header, count, delimiter, or escaping, so fields must not contain
// line breaks.
package persist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smileynet/contactbook/internal/contact"
)

// DefaultPath is the file used when no path is configured.
const DefaultPath = "contacts.txt"

// linesPerRecord is the number of lines one contact occupies.
const linesPerRecord = 4

// FileStore persists contacts to a single text file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for path. An empty path selects DefaultPath.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

// Path returns the file path.
func (s *FileStore) Path() string { return s.path }

// Exists reports whether the file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save truncates the file and writes every contact in the given order.
func (s *FileStore) Save(cs []contact.Contact) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("persist: opening %s: %w", s.path, err)
	}

	if err := Encode(f, cs); err != nil {
		_ = f.Close()
		return fmt.Errorf("persist: writing %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("persist: closing %s: %w", s.path, err)
	}
	return nil
}

// Load reads all complete records from the file. A missing file is not an
// error and yields no records.
func (s *FileStore) Load() ([]contact.Contact, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []contact.Contact{}, nil
		}
		return nil, fmt.Errorf("persist: opening %s: %w", s.path, err)
	}
	defer f.Close()

	cs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("persist: reading %s: %w", s.path, err)
	}
	return cs, nil
}

// Encode writes cs to w in the four-line record format.
func Encode(w io.Writer, cs []contact.Contact) error {
	bw := bufio.NewWriter(w)
	for _, c := range cs {
		for _, field := range [linesPerRecord]string{c.Name, c.Phone, c.Address, c.Email} {
			if _, err := bw.WriteString(field); err != nil {
				return err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Decode reads four-line records from r until end of input. A trailing group
// of fewer than four lines is ignored. Fields are not validated.
func Decode(r io.Reader) ([]contact.Contact, error) {
	sc := bufio.NewScanner(r)
	cs := []contact.Contact{}
	var group [linesPerRecord]string
	n := 0
	for sc.Scan() {
		group[n] = strings.TrimSuffix(sc.Text(), "\r")
		n++
		if n < linesPerRecord {
			continue
		}
		cs = append(cs, contact.Contact{
			Name:    group[0],
			Phone:   group[1],
			Address: group[2],
			Email:   group[3],
		})
		n = 0
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cs, nil
}
