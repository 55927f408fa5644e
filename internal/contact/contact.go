// Package contact holds the Contact record, its field rules, and the
// capacity-bounded Store that enforces them.
package contact

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field length limits in bytes.
const (
	MaxNameLen    = 29
	MaxPhoneLen   = 19
	MaxAddressLen = 49
	MaxEmailLen   = 29
)

// Contact is a single directory entry.
type Contact struct {
	Name    string
	Phone   string
	Address string
	Email   string
}

// Sentinel errors returned by Store operations. Callers match with errors.Is.
var (
	ErrCapacityExceeded = errors.New("contact: store is full")
	ErrEmptyName        = errors.New("contact: name cannot be empty")
	ErrDuplicateName    = errors.New("contact: name already exists")
	ErrInvalidPhone     = errors.New("contact: invalid phone number")
	ErrDuplicatePhone   = errors.New("contact: phone number already exists")
	ErrInvalidEmail     = errors.New("contact: invalid email")
	ErrFieldTooLong     = errors.New("contact: field too long")
	ErrLineBreak        = errors.New("contact: field contains a line break")
	ErrNotFound         = errors.New("contact: not found")
)

// IsValidation reports whether err is a field validation failure, which the
// console recovers from by prompting again.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrInvalidPhone) ||
		errors.Is(err, ErrDuplicatePhone) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrFieldTooLong) ||
		errors.Is(err, ErrLineBreak)
}

// ValidPhoneFormat reports whether phone is non-empty and, after an optional
// leading "+" or "00", consists only of ASCII digits. A bare "+" or "00" is
// accepted.
func ValidPhoneFormat(phone string) bool {
	if phone == "" {
		return false
	}
	rest := phone
	switch {
	case strings.HasPrefix(rest, "+"):
		rest = rest[1:]
	case strings.HasPrefix(rest, "00"):
		rest = rest[2:]
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return false
		}
	}
	return true
}

// ValidEmail reports whether email contains at least one '@' and one '.'.
func ValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// Truncate shortens s to at most max bytes without splitting a UTF-8
// sequence.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// normalizeEdit prepares an edited record: trailing line breaks are removed,
// inner ones become spaces, and each field is cut to its limit. No other
// rule is applied.
func normalizeEdit(c Contact) Contact {
	return Contact{
		Name:    Truncate(flattenLine(c.Name), MaxNameLen),
		Phone:   Truncate(flattenLine(c.Phone), MaxPhoneLen),
		Address: Truncate(flattenLine(c.Address), MaxAddressLen),
		Email:   Truncate(flattenLine(c.Email), MaxEmailLen),
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// flattenLine keeps a field on one line of the contacts file.
func flattenLine(s string) string {
	return lineBreaks.Replace(strings.TrimRight(s, "\r\n"))
}

// checkField rejects line breaks anywhere in value and values over max bytes.
func checkField(field, value string, max int) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: %s", ErrLineBreak, field)
	}
	if len(value) > max {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFieldTooLong, field, len(value), max)
	}
	return nil
}
