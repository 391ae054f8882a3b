package library

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
)

type fakeMutator struct {
	updateErr error
	removeErr error
	updates   []models.Status
	removes   int
}

func (f *fakeMutator) UpdateStatus(_ context.Context, _ int64, status models.Status) error {
	f.updates = append(f.updates, status)
	return f.updateErr
}

func (f *fakeMutator) RemoveGame(context.Context, int64) error {
	f.removes++
	return f.removeErr
}

type recordingNavigator struct{ paths []string }

func (r *recordingNavigator) Navigate(path string) { r.paths = append(r.paths, path) }

func TestEntry(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeLoader, *Store, *fakeMutator, *recordingNavigator) {
		loader := &fakeLoader{games: sampleGames()}
		store := NewStore(loader, nil)
		_ = store.Load(ctx)
		return loader, store, &fakeMutator{}, &recordingNavigator{}
	}

	t.Run("ChangeStatus", func(t *testing.T) {
		t.Run("Refreshes After Success", func(t *testing.T) {
			loader, store, backend, _ := setup()
			e := NewEntry(1, store, backend, EntryOpts{})

			if err := e.ChangeStatus(ctx, models.StatusCompleted); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(backend.updates) != 1 || backend.updates[0] != models.StatusCompleted {
				t.Errorf("unexpected updates %v", backend.updates)
			}
			if loader.Calls() != 2 {
				t.Errorf("expected one refresh after load, got %d fetches", loader.Calls())
			}
			if e.Updating() {
				t.Error("expected updating to be cleared")
			}
		})

		t.Run("No Refresh On Failure", func(t *testing.T) {
			loader, store, backend, _ := setup()
			backend.updateErr = errors.New("boom")
			e := NewEntry(1, store, backend, EntryOpts{})

			if err := e.ChangeStatus(ctx, models.StatusAbandoned); err == nil {
				t.Error("expected error")
			}
			if loader.Calls() != 1 {
				t.Errorf("expected no refresh, got %d fetches", loader.Calls())
			}
			if g, _ := store.Find(1); g.Status != models.StatusPlaying {
				t.Errorf("cached status should be untouched, got %s", g.Status)
			}
		})

		t.Run("Rejects Invalid Status", func(t *testing.T) {
			_, store, backend, _ := setup()
			e := NewEntry(1, store, backend, EntryOpts{})

			if err := e.ChangeStatus(ctx, "NOPE"); !errors.Is(err, models.ErrInvalidStatus) {
				t.Errorf("expected ErrInvalidStatus, got %v", err)
			}
			if len(backend.updates) != 0 {
				t.Error("invalid status should not be submitted")
			}
		})
	})

	t.Run("Remove", func(t *testing.T) {
		t.Run("Confirmed Success", func(t *testing.T) {
			loader, store, backend, nav := setup()
			var prompt string
			confirm := ConfirmFunc(func(_ context.Context, p string) (bool, error) {
				prompt = p
				return true, nil
			})
			e := NewEntry(2, store, backend, EntryOpts{Confirmer: confirm, Navigator: nav})

			removed, err := e.Remove(ctx)
			if err != nil || !removed {
				t.Fatalf("expected removal, got %v, %v", removed, err)
			}
			if backend.removes != 1 {
				t.Errorf("expected 1 delete, got %d", backend.removes)
			}
			if loader.Calls() != 2 {
				t.Errorf("expected 1 refresh, got %d fetches", loader.Calls()-1)
			}
			if len(nav.paths) != 1 || nav.paths[0] != session.PathCollection {
				t.Errorf("expected navigation to collection, got %v", nav.paths)
			}
			if prompt == "" || e.Deleting() {
				t.Errorf("unexpected state: prompt=%q deleting=%v", prompt, e.Deleting())
			}
		})

		t.Run("Failure Stays Put", func(t *testing.T) {
			loader, store, backend, nav := setup()
			backend.removeErr = errors.New("boom")
			e := NewEntry(2, store, backend, EntryOpts{Confirmer: AlwaysConfirm, Navigator: nav})

			removed, err := e.Remove(ctx)
			if err == nil || removed {
				t.Errorf("expected failure, got %v, %v", removed, err)
			}
			if loader.Calls() != 1 {
				t.Errorf("expected zero refreshes, got %d", loader.Calls()-1)
			}
			if len(nav.paths) != 0 {
				t.Errorf("expected zero navigations, got %v", nav.paths)
			}
			if e.Deleting() {
				t.Error("expected deleting to be cleared")
			}
		})

		t.Run("Declined", func(t *testing.T) {
			_, store, backend, nav := setup()
			e := NewEntry(2, store, backend, EntryOpts{Navigator: nav})

			removed, err := e.Remove(ctx)
			if err != nil || removed {
				t.Errorf("expected nothing to happen, got %v, %v", removed, err)
			}
			if backend.removes != 0 || len(nav.paths) != 0 {
				t.Error("declined removal should not delete or navigate")
			}
		})

		t.Run("Confirmer Error", func(t *testing.T) {
			_, store, backend, _ := setup()
			confirm := ConfirmFunc(func(context.Context, string) (bool, error) { return false, errors.New("no tty") })
			e := NewEntry(2, store, backend, EntryOpts{Confirmer: confirm})

			if _, err := e.Remove(ctx); !errors.Is(err, shared.ErrConfirmationNeeded) {
				t.Errorf("expected ErrConfirmationNeeded, got %v", err)
			}
		})
	})
}
