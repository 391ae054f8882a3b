package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestCookieRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Set And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)
		expires := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)

		if err := repo.Set(ctx, session.Cookie{Name: "gamelog_token", Value: "abc123", ExpiresAt: expires}); err != nil {
			t.Fatalf("failed to set cookie: %v", err)
		}

		cookie, err := repo.Get(ctx, "gamelog_token")
		if err != nil {
			t.Fatalf("failed to get cookie: %v", err)
		}
		if cookie.Value != "abc123" {
			t.Errorf("expected value abc123, got %s", cookie.Value)
		}
		if !cookie.ExpiresAt.Equal(expires) {
			t.Errorf("expected expiry %v, got %v", expires, cookie.ExpiresAt)
		}
	})

	t.Run("Set Replaces Existing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)
		expires := time.Now().Add(time.Hour)

		repo.Set(ctx, session.Cookie{Name: "gamelog_token", Value: "first", ExpiresAt: expires})
		if err := repo.Set(ctx, session.Cookie{Name: "gamelog_token", Value: "second", ExpiresAt: expires}); err != nil {
			t.Fatalf("failed to replace cookie: %v", err)
		}

		cookie, err := repo.Get(ctx, "gamelog_token")
		if err != nil {
			t.Fatalf("failed to get cookie: %v", err)
		}
		if cookie.Value != "second" {
			t.Errorf("expected value second, got %s", cookie.Value)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewCookieRepository(db).Get(ctx, "gamelog_token")
		if !errors.Is(err, shared.ErrNoCredential) {
			t.Errorf("expected ErrNoCredential, got %v", err)
		}
	})

	t.Run("Get Expired Deletes Row", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)
		repo.Set(ctx, session.Cookie{Name: "gamelog_token", Value: "stale", ExpiresAt: time.Now().Add(-time.Hour)})

		if _, err := repo.Get(ctx, "gamelog_token"); !errors.Is(err, shared.ErrNoCredential) {
			t.Fatalf("expected ErrNoCredential, got %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM cookies").Scan(&count); err != nil {
			t.Fatalf("failed to count cookies: %v", err)
		}
		if count != 0 {
			t.Errorf("expected expired cookie to be deleted, %d rows remain", count)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)
		repo.Set(ctx, session.Cookie{Name: "gamelog_token", Value: "abc", ExpiresAt: time.Now().Add(time.Hour)})

		if err := repo.Delete(ctx, "gamelog_token"); err != nil {
			t.Fatalf("failed to delete cookie: %v", err)
		}
		if err := repo.Delete(ctx, "gamelog_token"); err != nil {
			t.Errorf("deleting a missing cookie should not fail: %v", err)
		}
		if _, err := repo.Get(ctx, "gamelog_token"); !errors.Is(err, shared.ErrNoCredential) {
			t.Errorf("expected ErrNoCredential, got %v", err)
		}
	})

	t.Run("PurgeExpired", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)
		repo.Set(ctx, session.Cookie{Name: "old", Value: "a", ExpiresAt: time.Now().Add(-time.Hour)})
		repo.Set(ctx, session.Cookie{Name: "fresh", Value: "b", ExpiresAt: time.Now().Add(time.Hour)})

		n, err := repo.PurgeExpired(ctx)
		if err != nil {
			t.Fatalf("failed to purge: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 purged cookie, got %d", n)
		}
		if _, err := repo.Get(ctx, "fresh"); err != nil {
			t.Errorf("fresh cookie should survive purge: %v", err)
		}
	})

	t.Run("Works As Credentials Jar", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		creds := session.NewCredentials(NewCookieRepository(db), "", 0)
		if err := creds.Save(ctx, "abc123"); err != nil {
			t.Fatalf("failed to save credential: %v", err)
		}
		if tok, ok := creds.Token(); !ok || tok != "abc123" {
			t.Errorf("expected token abc123, got %q", tok)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		repo := NewCookieRepository(db)
		if _, err := repo.Get(ctx, "gamelog_token"); err == nil || errors.Is(err, shared.ErrNoCredential) {
			t.Errorf("expected query error, got %v", err)
		}
		if err := repo.Set(ctx, session.Cookie{Name: "x", ExpiresAt: time.Now()}); err == nil {
			t.Error("expected error on closed database")
		}
	})
}
