package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
	tu "github.com/desertthunder/gamelog/internal/testing"
)

func newTestClient(b *tu.Backend, token string) *Client {
	return NewClient(ClientOpts{BaseURL: b.URL(), Tokens: session.StaticToken(token), RateLimit: 1000})
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("NewClient", func(t *testing.T) {
		t.Run("Applies Defaults", func(t *testing.T) {
			c := NewClient(ClientOpts{})
			if c.BaseURL() != defaultBaseURL {
				t.Errorf("expected %s, got %s", defaultBaseURL, c.BaseURL())
			}
			if c.limiter.Limit() != defaultRateLimit {
				t.Errorf("expected limit %v, got %v", defaultRateLimit, c.limiter.Limit())
			}
		})

		t.Run("Trims Trailing Slash", func(t *testing.T) {
			c := NewClient(ClientOpts{BaseURL: "http://example.com/api/"})
			if c.BaseURL() != "http://example.com/api" {
				t.Errorf("unexpected base url %s", c.BaseURL())
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		b := tu.NewBackend(t)
		b.AddUser("ana", "secret")
		c := newTestClient(b, "")

		t.Run("Returns Token", func(t *testing.T) {
			resp, err := c.Login(ctx, models.LoginRequest{Username: "ana", Password: "secret"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Token != tu.DefaultToken {
				t.Errorf("expected %s, got %s", tu.DefaultToken, resp.Token)
			}
		})

		t.Run("Rejects Bad Password", func(t *testing.T) {
			_, err := c.Login(ctx, models.LoginRequest{Username: "ana", Password: "nope"})
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Sends No Authorization Without Token", func(t *testing.T) {
			if got := b.LastAuthorization(); got != "" {
				t.Errorf("expected no authorization header, got %q", got)
			}
		})
	})

	t.Run("Register", func(t *testing.T) {
		b := tu.NewBackend(t)
		c := newTestClient(b, "")

		if err := c.Register(ctx, models.RegisterRequest{Username: "ana", Email: "a@b.c", Password: "pw"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err := c.Register(ctx, models.RegisterRequest{Username: "ana", Email: "a@b.c", Password: "pw"})
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
			t.Errorf("expected 409 APIError, got %v", err)
		}
	})

	t.Run("ListGames", func(t *testing.T) {
		b := tu.NewBackend(t)
		b.SetGames(
			models.Game{ID: 1, Title: "Hollow Knight", Status: models.StatusPlaying},
			models.Game{ID: 2, Title: "Celeste", Status: models.StatusCompleted},
		)

		t.Run("Sends Bearer Token", func(t *testing.T) {
			games, err := newTestClient(b, tu.DefaultToken).ListGames(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(games) != 2 || games[0].Title != "Hollow Knight" {
				t.Errorf("unexpected games %+v", games)
			}
			if got := b.LastAuthorization(); got != "Bearer "+tu.DefaultToken {
				t.Errorf("unexpected authorization %q", got)
			}
			if b.LastRequestID() == "" {
				t.Error("expected request id header")
			}
		})

		t.Run("Maps Unauthorized", func(t *testing.T) {
			_, err := newTestClient(b, "wrong").ListGames(ctx)
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("Server Error", func(t *testing.T) {
			b.Fail(tu.EndpointList, http.StatusInternalServerError)
			defer b.Recover(tu.EndpointList)

			_, err := newTestClient(b, tu.DefaultToken).ListGames(ctx)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if errors.Is(err, shared.ErrNotAuthenticated) {
				t.Error("500 should not read as unauthenticated")
			}
		})
	})

	t.Run("SearchGames", func(t *testing.T) {
		b := tu.NewBackend(t)
		b.SetCatalog(
			models.SearchResult{ExternalAPIID: 10, Title: "Zelda & Friends"},
			models.SearchResult{ExternalAPIID: 11, Title: "Portal"},
		)
		b.SetGames(models.Game{ID: 1, ExternalAPIID: 11, Title: "Portal"})
		c := newTestClient(b, tu.DefaultToken)

		t.Run("Encodes Query", func(t *testing.T) {
			results, err := c.SearchGames(ctx, "zelda & f")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != 1 || results[0].ExternalAPIID != 10 {
				t.Errorf("unexpected results %+v", results)
			}
		})

		t.Run("Reports Library Membership", func(t *testing.T) {
			results, err := c.SearchGames(ctx, "portal")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != 1 || !results[0].InLibrary {
				t.Errorf("expected portal in library, got %+v", results)
			}
		})
	})

	t.Run("AddGame", func(t *testing.T) {
		b := tu.NewBackend(t)
		c := newTestClient(b, tu.DefaultToken)

		game, err := c.AddGame(ctx, models.AddGameRequest{ExternalAPIID: 42, Title: "Outer Wilds"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if game.ID == 0 || game.Status != models.DefaultStatus {
			t.Errorf("unexpected game %+v", game)
		}
		if len(b.Games()) != 1 {
			t.Errorf("expected 1 game on backend, got %d", len(b.Games()))
		}
	})

	t.Run("RemoveGame", func(t *testing.T) {
		b := tu.NewBackend(t)
		b.SetGames(models.Game{ID: 7, Title: "Hades"})
		c := newTestClient(b, tu.DefaultToken)

		if err := c.RemoveGame(ctx, 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := c.RemoveGame(ctx, 7); !errors.Is(err, shared.ErrGameNotFound) {
			t.Errorf("expected ErrGameNotFound, got %v", err)
		}
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		b := tu.NewBackend(t)
		b.SetGames(models.Game{ID: 3, Title: "Hades", Status: models.StatusWantToPlay})
		c := newTestClient(b, tu.DefaultToken)

		t.Run("Sends Wire Value", func(t *testing.T) {
			if err := c.UpdateStatus(ctx, 3, models.StatusCompleted); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := b.Games()[0].Status; got != models.StatusCompleted {
				t.Errorf("expected %s, got %s", models.StatusCompleted, got)
			}
		})

		t.Run("Rejects Invalid Status", func(t *testing.T) {
			calls := b.Calls(tu.EndpointUpdate)
			err := c.UpdateStatus(ctx, 3, models.Status("BOGUS"))
			if !errors.Is(err, models.ErrInvalidStatus) {
				t.Errorf("expected ErrInvalidStatus, got %v", err)
			}
			if b.Calls(tu.EndpointUpdate) != calls {
				t.Error("invalid status should not reach the backend")
			}
		})
	})

	t.Run("WithTokens", func(t *testing.T) {
		b := tu.NewBackend(t)
		base := newTestClient(b, "")
		bound := base.WithTokens(session.StaticToken(tu.DefaultToken))

		if _, err := base.ListGames(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected base client to stay anonymous, got %v", err)
		}
		if _, err := bound.ListGames(ctx); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("WithLogger", func(t *testing.T) {
		b := tu.NewBackend(t)
		base := newTestClient(b, tu.DefaultToken)

		var buf bytes.Buffer
		logger := shared.NewLogger(&buf)
		if err := shared.SetLogLevel(logger, "debug"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		logged := base.WithLogger(logger)

		if _, err := base.ListGames(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected the original client to keep its logger, got %q", buf.String())
		}

		if _, err := logged.ListGames(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "backend request") {
			t.Errorf("expected request log in the new logger, got %q", buf.String())
		}
	})

	t.Run("Do", func(t *testing.T) {
		t.Run("Request Creation Error", func(t *testing.T) {
			c := NewClient(ClientOpts{BaseURL: "://bad"})
			_, err := c.Do(ctx, http.MethodGet, "/games", nil)
			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected request creation error, got %v", err)
			}
		})

		t.Run("Transport Error", func(t *testing.T) {
			c := NewClient(ClientOpts{
				HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("network down"))},
			})
			_, err := c.Do(ctx, http.MethodGet, "/games", nil)
			if err == nil || !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected request failure, got %v", err)
			}
		})

		t.Run("Body Read Error", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
			c := NewClient(ClientOpts{HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}})
			_, err := c.Do(ctx, http.MethodGet, "/games", nil)
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected read error, got %v", err)
			}
		})

		t.Run("Returns Raw Response", func(t *testing.T) {
			resp := &http.Response{
				StatusCode: http.StatusTeapot,
				Body:       io.NopCloser(strings.NewReader(`{"ok":false}`)),
				Header:     http.Header{},
			}
			c := NewClient(ClientOpts{HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}})
			got, err := c.Do(ctx, http.MethodGet, "/anything", nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.OK() || !got.IsJSON() || got.StatusCode != http.StatusTeapot {
				t.Errorf("unexpected response %+v", got)
			}
		})

		t.Run("Cancelled Context", func(t *testing.T) {
			b := tu.NewBackend(t)
			c := newTestClient(b, tu.DefaultToken)
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			if _, err := c.Do(cctx, http.MethodGet, "/games", nil); err == nil {
				t.Error("expected error for cancelled context")
			}
		})
	})
}

func TestAPIError(t *testing.T) {
	t.Run("Truncates Long Bodies", func(t *testing.T) {
		err := &APIError{Method: "GET", Path: "/games", StatusCode: 500, Body: []byte(strings.Repeat("x", 500))}
		if !strings.HasSuffix(err.Error(), "...") {
			t.Errorf("expected truncated message, got %s", err.Error())
		}
	})

	t.Run("Forbidden Is Unauthenticated", func(t *testing.T) {
		err := &APIError{StatusCode: http.StatusForbidden}
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Error("expected 403 to match ErrNotAuthenticated")
		}
	})
}
