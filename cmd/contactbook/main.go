package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/smileynet/contactbook/internal/browse"
	"github.com/smileynet/contactbook/internal/config"
	"github.com/smileynet/contactbook/internal/console"
	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/logging"
	"github.com/smileynet/contactbook/internal/persist"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals holds flags shared by every command.
type Globals struct {
	Config string `help:"Extra config file layered over the user and project files." placeholder:"PATH"`
	File   string `help:"Contacts file to load and save (overrides store.path)." placeholder:"PATH"`
}

// CLI is the top-level command structure for contactbook.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Menu    MenuCmd          `cmd:"" default:"1" help:"Open the interactive menu (default)."`
	List    ListCmd          `cmd:"" help:"Print all contacts sorted by name."`
	Search  SearchCmd        `cmd:"" help:"Print contacts whose name contains a fragment."`
	Browse  BrowseCmd        `cmd:"" help:"Browse, filter and delete contacts in a full-screen view."`
}

// contactFile abstracts the persisted contacts file for testing.
type contactFile interface {
	Path() string
	Exists() bool
	Load() ([]contact.Contact, error)
	Save(cs []contact.Contact) error
}

// StoreError marks a contacts file failure in a command that reports it
// through the exit status.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// session is the state every command starts from.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	file   *persist.FileStore
}

// loadConfig loads layered config from user, project and explicit paths,
// applies env overrides, then the --file flag.
func loadConfig(g *Globals) (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/contactbook/config.yaml"),
		".contactbook.yaml",
		g.Config,
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if g.File != "" {
		cfg.Store.Path = g.File
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// open resolves config and builds the logger and file adapter.
func (g *Globals) open() (*session, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Output)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:    cfg,
		logger: logger,
		file:   persist.NewFileStore(cfg.Store.Path),
	}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// loadStore fills a new store from f. On a read failure the store is empty
// and the error is returned so the caller can decide whether it is fatal.
func loadStore(w io.Writer, f contactFile, capacity int, logger *zap.Logger) (*contact.Store, error) {
	store := contact.NewStore(capacity)
	if !f.Exists() {
		_, _ = fmt.Fprintln(w, "No previous contacts file found. Starting fresh.")
		return store, nil
	}

	cs, err := f.Load()
	if err != nil {
		logger.Warn("loading contacts failed", zap.String("path", f.Path()), zap.Error(err))
		return store, err
	}

	if dropped := store.Restore(cs); dropped > 0 {
		_, _ = fmt.Fprintf(w, "%d contacts beyond capacity %d were not loaded.\n", dropped, store.Cap())
		logger.Warn("contacts beyond capacity discarded",
			zap.String("path", f.Path()), zap.Int("dropped", dropped), zap.Int("capacity", store.Cap()))
	}
	logger.Info("contacts loaded", zap.String("path", f.Path()), zap.Int("count", store.Len()))
	return store, nil
}

// MenuCmd runs the interactive numbered menu.
type MenuCmd struct{}

// Run executes the menu command.
func (m *MenuCmd) Run(g *Globals) error {
	sess, err := g.open()
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	defer sess.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return m.run(ctx, os.Stdin, os.Stdout, sess.file, sess.cfg.Store.Capacity, sess.logger)
}

// run loads the store and drives the menu, enabling testable wiring.
// A file that cannot be read degrades to an empty store.
func (m *MenuCmd) run(ctx context.Context, r io.Reader, w io.Writer, f contactFile, capacity int, logger *zap.Logger) error {
	store, err := loadStore(w, f, capacity, logger)
	if err != nil {
		_, _ = fmt.Fprintln(w, "Could not read the contacts file. Starting fresh.")
	}
	return console.New(r, w, store, f, console.WithLogger(logger)).Run(ctx)
}

// ListCmd prints the contact table once.
type ListCmd struct{}

// Run executes the list command.
func (l *ListCmd) Run(g *Globals) error {
	sess, err := g.open()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	defer sess.close()
	return l.run(os.Stdout, sess.file, sess.cfg.Store.Capacity, sess.logger)
}

func (l *ListCmd) run(w io.Writer, f contactFile, capacity int, logger *zap.Logger) error {
	store, err := loadStore(w, f, capacity, logger)
	if err != nil {
		return &StoreError{Err: fmt.Errorf("list: %w", err)}
	}
	if store.Len() == 0 {
		_, _ = fmt.Fprintln(w, "No contacts to display.")
		return nil
	}
	console.WriteTable(w, store.List())
	return nil
}

// SearchCmd prints contacts matching a name fragment once.
type SearchCmd struct {
	Query string `arg:"" help:"Case-insensitive name fragment."`
}

// Run executes the search command.
func (s *SearchCmd) Run(g *Globals) error {
	sess, err := g.open()
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	defer sess.close()
	return s.run(os.Stdout, sess.file, sess.cfg.Store.Capacity, sess.logger)
}

func (s *SearchCmd) run(w io.Writer, f contactFile, capacity int, logger *zap.Logger) error {
	if s.Query == "" {
		_, _ = fmt.Fprintln(w, "No input provided. Returning.")
		return nil
	}
	store, err := loadStore(w, f, capacity, logger)
	if err != nil {
		return &StoreError{Err: fmt.Errorf("search: %w", err)}
	}
	if store.Len() == 0 {
		_, _ = fmt.Fprintln(w, "No contacts to search.")
		return nil
	}
	matches := store.Search(s.Query)
	if len(matches) == 0 {
		_, _ = fmt.Fprintf(w, "No contact found containing '%s'.\n", s.Query)
		return nil
	}
	console.WriteMatches(w, s.Query, matches)
	return nil
}

// BrowseCmd opens the full-screen browser and saves on quit.
type BrowseCmd struct{}

// browser runs the browser program; browse.Run in production.
type browser func(m browse.Model, out io.Writer) (browse.Model, error)

// Run executes the browse command.
func (b *BrowseCmd) Run(g *Globals) error {
	sess, err := g.open()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	defer sess.close()

	if !browse.IsTerminal(os.Stdout) {
		return fmt.Errorf("browse: %w", browse.ErrNotTerminal)
	}
	return b.run(os.Stdout, sess.file, sess.cfg.Store.Capacity, sess.logger, browse.Run)
}

// run loads the store, hands it to open and saves whatever is left.
func (b *BrowseCmd) run(w io.Writer, f contactFile, capacity int, logger *zap.Logger, open browser) error {
	store, err := loadStore(w, f, capacity, logger)
	if err != nil {
		return &StoreError{Err: fmt.Errorf("browse: %w", err)}
	}

	final, err := open(browse.NewModel(store, browse.WithLogger(logger)), w)
	if err != nil {
		return err
	}
	logger.Debug("browser closed", zap.Int("deleted", final.Deleted()))

	if err := f.Save(store.Contacts()); err != nil {
		_, _ = fmt.Fprintln(w, "Failed to open file for saving contacts.")
		return &StoreError{Err: fmt.Errorf("browse: %w", err)}
	}
	_, _ = fmt.Fprintln(w, "Contacts saved to file.")
	return nil
}

const (
	exitSuccess = 0
	exitStore   = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *StoreError
	if errors.As(err, &se) {
		return exitStore
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contactbook"),
		kong.Description("A small contact book kept in a flat file."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
