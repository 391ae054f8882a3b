// package repositories provides persistence layer implementations for the cookie jar.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
)

var _ session.Jar = (*CookieRepository)(nil)

// CookieRepository implements [session.Jar] on the cookies table.
type CookieRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCookieRepository creates a new [CookieRepository] with the given database connection
func NewCookieRepository(db *sql.DB) *CookieRepository {
	return &CookieRepository{db: db, now: time.Now}
}

// Get returns the named cookie, deleting it first if it has expired.
func (r *CookieRepository) Get(ctx context.Context, name string) (*session.Cookie, error) {
	query := `SELECT name, value, expires_at FROM cookies WHERE name = ?`

	var c session.Cookie
	err := r.db.QueryRowContext(ctx, query, name).Scan(&c.Name, &c.Value, &c.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cookie: %w", err)
	}

	if c.Expired(r.now()) {
		if err := r.Delete(ctx, name); err != nil {
			return nil, err
		}
		return nil, shared.ErrNoCredential
	}

	return &c, nil
}

// Set inserts or replaces the named cookie.
func (r *CookieRepository) Set(ctx context.Context, cookie session.Cookie) error {
	if cookie.Name == "" {
		return fmt.Errorf("%w: cookie name is required", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO cookies (name, value, expires_at, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at, created_at = excluded.created_at
	`

	if _, err := r.db.ExecContext(ctx, query, cookie.Name, cookie.Value, cookie.ExpiresAt.UTC(), r.now().UTC()); err != nil {
		return fmt.Errorf("failed to store cookie: %w", err)
	}
	return nil
}

// Delete removes the named cookie. Deleting a missing cookie is not an error.
func (r *CookieRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete cookie: %w", err)
	}
	return nil
}

// PurgeExpired deletes every expired cookie and returns how many were removed.
func (r *CookieRepository) PurgeExpired(ctx context.Context) (int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, expires_at FROM cookies`)
	if err != nil {
		return 0, fmt.Errorf("failed to list cookies: %w", err)
	}

	now := r.now()
	var expired []string
	for rows.Next() {
		var (
			name      string
			expiresAt time.Time
		)
		if err := rows.Scan(&name, &expiresAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan cookie: %w", err)
		}
		if !expiresAt.After(now) {
			expired = append(expired, name)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("failed to iterate cookies: %w", err)
	}
	rows.Close()

	for _, name := range expired {
		if err := r.Delete(ctx, name); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}
