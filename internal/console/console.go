// Package console implements the numbered-menu interface over a contact
// store: it reads choices and field values line by line, re-prompts on
// validation failures, and saves the store on exit.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/smileynet/contactbook/internal/contact"
)

// Mode is a state of the menu loop.
type Mode int

const (
	ModeMainMenu Mode = iota // Waiting for a menu choice.
	ModeAdd                  // Prompting for a new contact.
	ModeList                 // Printing all contacts.
	ModeSearch               // Prompting for a name fragment.
	ModeEdit                 // Prompting for a contact to overwrite.
	ModeDelete               // Prompting for a contact to remove.
	ModeExit                 // Saving and leaving the loop.
)

// menuModes maps menu numbers to modes.
var menuModes = map[int]Mode{
	0: ModeExit,
	1: ModeAdd,
	2: ModeList,
	3: ModeSearch,
	4: ModeEdit,
	5: ModeDelete,
}

// Saver persists the store contents on exit.
type Saver interface {
	Save(cs []contact.Contact) error
}

// Controller drives the menu loop.
type Controller struct {
	r      io.Reader
	w      io.Writer
	store  *contact.Store
	saver  Saver
	logger *zap.Logger
	lines  *lineReader
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a Controller reading from r and writing to w.
func New(r io.Reader, w io.Writer, store *contact.Store, saver Saver, opts ...Option) *Controller {
	c := &Controller{
		r:      r,
		w:      w,
		store:  store,
		saver:  saver,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run loops over the menu until the user chooses Exit, input ends, or ctx is
// cancelled. In every case the store is saved before Run returns. A failed
// save is reported to the user but is not returned as an error.
func (c *Controller) Run(ctx context.Context) error {
	c.lines = newLineReader(c.r)
	defer c.lines.stop()

	mode := ModeMainMenu
	for {
		var err error
		switch mode {
		case ModeMainMenu:
			mode, err = c.mainMenu(ctx)
			if err != nil {
				mode = ModeExit
			}
			continue
		case ModeAdd:
			err = c.addFlow(ctx)
		case ModeList:
			c.listFlow()
		case ModeSearch:
			err = c.searchFlow(ctx)
		case ModeEdit:
			err = c.editFlow(ctx)
		case ModeDelete:
			err = c.deleteFlow(ctx)
		case ModeExit:
			c.exit()
			return nil
		}

		mode = ModeMainMenu
		if err != nil {
			c.logger.Debug("input ended", zap.Error(err))
			mode = ModeExit
		}
	}
}

// mainMenu prints the menu and returns the mode for the chosen option.
func (c *Controller) mainMenu(ctx context.Context) (Mode, error) {
	c.printMenu()
	c.printf("Enter your choice: ")
	line, err := c.lines.next(ctx)
	if err != nil {
		return ModeExit, err
	}

	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		c.println("Invalid input! Please enter a number.")
		return ModeMainMenu, nil
	}
	mode, ok := menuModes[choice]
	if !ok {
		c.println("Invalid choice! Please enter a valid option.")
		return ModeMainMenu, nil
	}
	return mode, nil
}

func (c *Controller) printMenu() {
	c.println("")
	c.println("\t\t***** Contact Management System *****")
	c.println("\t\t=====================================")
	c.println("\t\t[1] Add a New Contact")
	c.println("\t\t[2] List All Contacts")
	c.println("\t\t[3] Search for a Contact")
	c.println("\t\t[4] Edit a Contact")
	c.println("\t\t[5] Delete a Contact")
	c.println("\t\t[0] Exit")
	c.println("\t\t=====================================")
}

func (c *Controller) addFlow(ctx context.Context) error {
	if c.store.Full() {
		c.println("Contact list is full. Cannot add more contacts.")
		return nil
	}

	var nc contact.Contact
	var err error

	nc.Name, err = c.promptUntil(ctx, "Enter contact name: ", contact.MaxNameLen, c.store.CheckName)
	if err != nil {
		return err
	}
	nc.Phone, err = c.promptUntil(ctx, "Enter phone number: ", contact.MaxPhoneLen, c.store.CheckPhone)
	if err != nil {
		return err
	}
	nc.Address, err = c.promptUntil(ctx, "Enter address: ", contact.MaxAddressLen, c.store.CheckAddress)
	if err != nil {
		return err
	}
	nc.Email, err = c.promptUntil(ctx, "Enter email: ", contact.MaxEmailLen, c.store.CheckEmail)
	if err != nil {
		return err
	}

	if err := c.store.Add(nc); err != nil {
		if !contact.IsValidation(err) {
			c.logger.Warn("adding contact failed", zap.Error(err))
		}
		c.printf("Could not add contact: %v\n", err)
		return nil
	}
	c.logger.Debug("contact added", zap.String("name", nc.Name), zap.Int("count", c.store.Len()))
	c.println("Contact added successfully!")
	return nil
}

// promptUntil asks for a field until check accepts it, printing the
// validation message for each rejected value.
func (c *Controller) promptUntil(ctx context.Context, label string, max int, check func(string) error) (string, error) {
	for {
		value, err := c.prompt(ctx, label, max)
		if err != nil {
			return "", err
		}
		err = check(value)
		if err == nil {
			return value, nil
		}
		c.println(validationMessage(value, err))
	}
}

// validationMessage returns the user-facing text for a rejected field value.
func validationMessage(value string, err error) string {
	switch {
	case errors.Is(err, contact.ErrEmptyName):
		return "Name cannot be empty. Please enter a valid name."
	case errors.Is(err, contact.ErrDuplicateName):
		return "A contact with this name already exists. Please Enter a New Name:"
	case errors.Is(err, contact.ErrInvalidPhone) && value == "":
		return "Phone number cannot be empty."
	case errors.Is(err, contact.ErrInvalidPhone):
		return "Invalid characters in phone number. Please enter number in the format +XXXXXXXXXXXX or 00XXXXXXXXXXXX or XXXXXXXXXXXX"
	case errors.Is(err, contact.ErrDuplicatePhone):
		return "This phone number already exists please try again:"
	case errors.Is(err, contact.ErrInvalidEmail) && value == "":
		return "Email cannot be empty!"
	case errors.Is(err, contact.ErrInvalidEmail):
		return "Invalid email! Email must contain both '@' and '.'."
	case errors.Is(err, contact.ErrLineBreak):
		return "Line breaks are not allowed. Please enter a single line."
	default:
		return fmt.Sprintf("Invalid value: %v", err)
	}
}

func (c *Controller) listFlow() {
	contacts := c.store.List()
	if len(contacts) == 0 {
		c.println("No contacts to display.")
		return
	}
	WriteTable(c.w, contacts)
}

func (c *Controller) searchFlow(ctx context.Context) error {
	if c.store.Len() == 0 {
		c.println("No contacts to search.")
		return nil
	}

	query, err := c.prompt(ctx, "Please enter the contact's name: ", contact.MaxNameLen)
	if err != nil {
		return err
	}
	if query == "" {
		c.println("No input provided. Returning.")
		return nil
	}

	matches := c.store.Search(query)
	if len(matches) == 0 {
		c.printf("No contact found containing '%s'.\n", query)
		return nil
	}
	WriteMatches(c.w, query, matches)
	return nil
}

func (c *Controller) editFlow(ctx context.Context) error {
	name, err := c.prompt(ctx, "Enter the name of the contact to edit: ", contact.MaxNameLen)
	if err != nil {
		return err
	}
	current, ok := c.store.Find(name)
	if !ok {
		c.printf("No contact found with the name '%s'.\n", name)
		return nil
	}

	c.printf("Editing contact '%s'\n", current.Name)
	var updated contact.Contact
	fields := []struct {
		label string
		max   int
		dst   *string
	}{
		{"New Name: ", contact.MaxNameLen, &updated.Name},
		{"New Phone: ", contact.MaxPhoneLen, &updated.Phone},
		{"New Address: ", contact.MaxAddressLen, &updated.Address},
		{"New Email: ", contact.MaxEmailLen, &updated.Email},
	}
	for _, f := range fields {
		v, err := c.prompt(ctx, f.label, f.max)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if err := c.store.Edit(name, updated); err != nil {
		c.printf("No contact found with the name '%s'.\n", name)
		return nil
	}
	c.logger.Debug("contact edited", zap.String("from", current.Name), zap.String("to", updated.Name))
	c.println("Contact updated successfully!")
	return nil
}

func (c *Controller) deleteFlow(ctx context.Context) error {
	name, err := c.prompt(ctx, "Enter the name of the contact to delete: ", contact.MaxNameLen)
	if err != nil {
		return err
	}
	if err := c.store.Delete(name); err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			c.printf("No contact found with the name '%s'.\n", name)
			return nil
		}
		return err
	}
	c.logger.Debug("contact deleted", zap.String("name", name), zap.Int("count", c.store.Len()))
	c.println("Contact deleted successfully.")
	return nil
}

func (c *Controller) exit() {
	c.println("Exiting the program. Goodbye!")
	if err := c.saver.Save(c.store.Contacts()); err != nil {
		c.logger.Warn("saving contacts failed", zap.Error(err))
		c.println("Failed to open file for saving contacts.")
		return
	}
	c.logger.Info("contacts saved", zap.Int("count", c.store.Len()))
	c.println("Contacts saved to file.")
}

// prompt prints label and reads one line, cut to max bytes.
func (c *Controller) prompt(ctx context.Context, label string, max int) (string, error) {
	c.printf("%s", label)
	line, err := c.lines.next(ctx)
	if err != nil {
		return "", err
	}
	return contact.Truncate(line, max), nil
}

func (c *Controller) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.w, format, args...)
}

func (c *Controller) println(s string) {
	_, _ = fmt.Fprintln(c.w, s)
}

// lineReader delivers input lines over a channel so a blocked read can be
// abandoned when the context is cancelled.
type lineReader struct {
	lines chan string
	errc  chan error
	done  chan struct{}
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		lines: make(chan string),
		errc:  make(chan error, 1),
		done:  make(chan struct{}),
	}
	go lr.read(bufio.NewReader(r))
	return lr
}

func (lr *lineReader) read(br *bufio.Reader) {
	for {
		s, err := br.ReadString('\n')
		if s != "" || err == nil {
			select {
			case lr.lines <- strings.TrimRight(s, "\r\n"):
			case <-lr.done:
				return
			}
		}
		if err != nil {
			lr.errc <- err
			return
		}
	}
}

// next returns the next line without its line terminator. It returns io.EOF
// once input is exhausted and ctx.Err() if ctx is cancelled first.
func (lr *lineReader) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case s := <-lr.lines:
		return s, nil
	case err := <-lr.errc:
		// Keep the error for later calls.
		lr.errc <- err
		return "", err
	}
}

func (lr *lineReader) stop() {
	close(lr.done)
}
