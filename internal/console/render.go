package console

import (
	"fmt"
	"io"

	"github.com/smileynet/contactbook/internal/contact"
)

const tableRule = "====================================================================="

// WriteTable prints contacts as the fixed-width list table.
func WriteTable(w io.Writer, contacts []contact.Contact) {
	_, _ = fmt.Fprintf(w, "\n\t\t*** List of Contacts ***\n")
	_, _ = fmt.Fprintln(w, tableRule)
	_, _ = fmt.Fprintf(w, "Name\t\t\tPhone\t\t\tAddress\t\t\tEmail\n")
	_, _ = fmt.Fprintln(w, tableRule)
	for _, c := range contacts {
		_, _ = fmt.Fprintf(w, "%-30s %-20s %-30s %s\n", c.Name, c.Phone, c.Address, c.Email)
	}
}

// WriteMatches prints search results as one block per contact.
func WriteMatches(w io.Writer, query string, matches []contact.Contact) {
	_, _ = fmt.Fprintf(w, "\nContacts matching '%s':\n", query)
	for _, c := range matches {
		_, _ = fmt.Fprintf(w, "Name: %s\nPhone: %s\nAddress: %s\nEmail: %s\n\n", c.Name, c.Phone, c.Address, c.Email)
	}
}
