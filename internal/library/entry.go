package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
)

// ErrBusy is returned when a command is already running for the entry.
var ErrBusy = errors.New("entry is busy")

// Mutator performs the entry mutations.
type Mutator interface {
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
	RemoveGame(ctx context.Context, id int64) error
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to [Confirmer].
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// AlwaysConfirm approves every prompt. Used when the confirmation already happened (a submitted form).
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Navigator moves the front end to another path.
type Navigator interface {
	Navigate(path string)
}

// NavigateFunc adapts a function to [Navigator].
type NavigateFunc func(path string)

func (f NavigateFunc) Navigate(path string) { f(path) }

// EntryOpts configures an [Entry].
type EntryOpts struct {
	Confirmer Confirmer
	Navigator Navigator
	Logger    *log.Logger
}

// Entry runs status changes and removal for a single library entry.
type Entry struct {
	id      int64
	store   *Store
	backend Mutator
	confirm Confirmer
	nav     Navigator
	logger  *log.Logger

	mu       sync.Mutex
	updating bool
	deleting bool
}

// NewEntry binds the commands for entry id.
func NewEntry(id int64, store *Store, backend Mutator, opts EntryOpts) *Entry {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Navigator == nil {
		opts.Navigator = NavigateFunc(func(string) {})
	}
	if opts.Confirmer == nil {
		opts.Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
	}
	return &Entry{
		id:      id,
		store:   store,
		backend: backend,
		confirm: opts.Confirmer,
		nav:     opts.Navigator,
		logger:  shared.WithLogger(opts.Logger, "component", "entry", "id", id),
	}
}

// ID returns the entry id.
func (e *Entry) ID() int64 { return e.id }

// Game returns the cached entry, if present.
func (e *Entry) Game() (models.Game, bool) { return e.store.Find(e.id) }

// Updating reports whether a status change is in flight.
func (e *Entry) Updating() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updating
}

// Deleting reports whether a removal is in flight.
func (e *Entry) Deleting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deleting
}

func (e *Entry) begin(flag *bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.updating || e.deleting {
		return false
	}
	*flag = true
	return true
}

func (e *Entry) end(flag *bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	*flag = false
}

// ChangeStatus submits status and refreshes the store once the backend accepts it.
//
// The cached entry is not touched before the refresh.
func (e *Entry) ChangeStatus(ctx context.Context, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, string(status))
	}
	if !e.begin(&e.updating) {
		return ErrBusy
	}
	defer e.end(&e.updating)

	if err := e.backend.UpdateStatus(ctx, e.id, status); err != nil {
		e.logger.Error("failed to update status", "status", status.Name(), "error", err)
		return err
	}

	_ = e.store.Refresh(ctx)
	return nil
}

// Remove asks for confirmation, deletes the entry, refreshes the store and navigates to the collection.
//
// It reports false when the user declined. On a failed delete nothing is refreshed and the view stays put.
func (e *Entry) Remove(ctx context.Context) (bool, error) {
	title := fmt.Sprintf("entry %d", e.id)
	if g, ok := e.Game(); ok {
		title = g.Title
	}

	ok, err := e.confirm.Confirm(ctx, fmt.Sprintf("Remove %q from your library?", title))
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrConfirmationNeeded, err)
	}
	if !ok {
		return false, nil
	}

	if !e.begin(&e.deleting) {
		return false, ErrBusy
	}
	defer e.end(&e.deleting)

	if err := e.backend.RemoveGame(ctx, e.id); err != nil {
		e.logger.Error("failed to remove entry", "error", err)
		return false, err
	}

	_ = e.store.Refresh(ctx)
	e.nav.Navigate(session.PathCollection)
	return true, nil
}
