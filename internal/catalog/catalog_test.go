package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/gamelog/internal/library"
	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/services"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
	tu "github.com/desertthunder/gamelog/internal/testing"
)

func setup(t *testing.T) (*tu.Backend, *library.Store, *Results) {
	t.Helper()
	b := tu.NewBackend(t)
	b.SetCatalog(
		models.SearchResult{ExternalAPIID: 100, Title: "Hades", ReleaseYear: 2020, Genres: "Roguelike"},
		models.SearchResult{ExternalAPIID: 101, Title: "Hades II", ReleaseYear: 2024},
		models.SearchResult{ExternalAPIID: 200, Title: "Celeste"},
	)
	client := services.NewClient(services.ClientOpts{
		BaseURL:   b.URL(),
		Tokens:    session.StaticToken(tu.DefaultToken),
		RateLimit: 1000,
	})
	store := library.NewStore(client, nil)
	return b, store, NewResults(client, store, nil)
}

func TestResults(t *testing.T) {
	ctx := context.Background()

	t.Run("Search", func(t *testing.T) {
		t.Run("Replaces Results", func(t *testing.T) {
			_, _, r := setup(t)

			if err := r.Search(ctx, "hades"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := r.Results(); len(got) != 2 {
				t.Fatalf("expected 2 results, got %d", len(got))
			}

			_ = r.Search(ctx, "celeste")
			if got := r.Results(); len(got) != 1 || got[0].Title != "Celeste" {
				t.Errorf("unexpected results %+v", got)
			}
			if r.Query() != "celeste" {
				t.Errorf("expected query celeste, got %s", r.Query())
			}
		})

		t.Run("Blank Query Is No-op", func(t *testing.T) {
			b, _, r := setup(t)

			if err := r.Search(ctx, "   "); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Calls(tu.EndpointSearch) != 0 {
				t.Error("blank query should not reach the backend")
			}
		})

		t.Run("Failure Keeps Previous Results", func(t *testing.T) {
			b, _, r := setup(t)
			_ = r.Search(ctx, "hades")

			b.Fail(tu.EndpointSearch, 502)
			if err := r.Search(ctx, "celeste"); err == nil {
				t.Error("expected error")
			}
			if got := r.Results(); len(got) != 2 {
				t.Errorf("expected previous results to survive, got %+v", got)
			}
			if r.Searching() {
				t.Error("expected searching to be cleared")
			}
		})
	})

	t.Run("Add", func(t *testing.T) {
		t.Run("Marks Result Without Searching Again", func(t *testing.T) {
			b, store, r := setup(t)
			_ = r.Search(ctx, "hades")
			searches := b.Calls(tu.EndpointSearch)

			game, err := r.Add(ctx, 100)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if game == nil || game.Title != "Hades" || game.ReleaseYear != 2020 {
				t.Errorf("unexpected game %+v", game)
			}
			if res, _ := r.Find(100); !res.InLibrary {
				t.Error("expected result to be marked in library")
			}
			if res, _ := r.Find(101); res.InLibrary {
				t.Error("other results should be untouched")
			}
			if b.Calls(tu.EndpointSearch) != searches {
				t.Error("add should not trigger a search")
			}
			if b.Calls(tu.EndpointList) != 1 || len(store.Games()) != 1 {
				t.Errorf("expected one library refresh, got %d", b.Calls(tu.EndpointList))
			}
			if r.Adding(100) {
				t.Error("expected adding to be cleared")
			}
		})

		t.Run("Failure Leaves Flag", func(t *testing.T) {
			b, _, r := setup(t)
			_ = r.Search(ctx, "celeste")
			b.Fail(tu.EndpointAdd, 500)

			if _, err := r.Add(ctx, 200); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if res, _ := r.Find(200); res.InLibrary {
				t.Error("flag should stay false on failure")
			}
			if b.Calls(tu.EndpointList) != 0 {
				t.Error("failed add should not refresh")
			}
		})

		t.Run("Unknown Result", func(t *testing.T) {
			_, _, r := setup(t)
			if _, err := r.Add(ctx, 999); !errors.Is(err, shared.ErrResultNotFound) {
				t.Errorf("expected ErrResultNotFound, got %v", err)
			}
		})

		t.Run("Already In Library", func(t *testing.T) {
			b, _, r := setup(t)
			_ = r.Search(ctx, "celeste")
			r.MarkInLibrary(200)

			if game, err := r.Add(ctx, 200); game != nil || err != nil {
				t.Errorf("expected no-op, got %+v, %v", game, err)
			}
			if b.Calls(tu.EndpointAdd) != 0 {
				t.Error("expected no add request")
			}
		})
	})

	t.Run("MarkInLibrary", func(t *testing.T) {
		_, _, r := setup(t)
		if r.MarkInLibrary(1) {
			t.Error("expected no match on empty results")
		}
	})
}
