package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/gamelog/internal/shared"
)

// DefaultCookieName names the credential cookie.
const DefaultCookieName = "gamelog_token"

// DefaultTTL is the fixed credential lifetime applied on login.
const DefaultTTL = 24 * time.Hour

// Cookie is a stored credential.
type Cookie struct {
	Name      string
	Value     string
	ExpiresAt time.Time
}

// Expired reports whether the cookie is past its expiry at now.
func (c Cookie) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// Jar stores cookies by name. Expired cookies read as [shared.ErrNoCredential].
type Jar interface {
	Get(ctx context.Context, name string) (*Cookie, error)
	Set(ctx context.Context, cookie Cookie) error
	Delete(ctx context.Context, name string) error
}

// MemoryJar is an in-process [Jar].
type MemoryJar struct {
	mu      sync.Mutex
	cookies map[string]Cookie
	now     func() time.Time
}

// NewMemoryJar creates an empty [MemoryJar].
func NewMemoryJar() *MemoryJar {
	return &MemoryJar{cookies: map[string]Cookie{}, now: time.Now}
}

func (j *MemoryJar) Get(_ context.Context, name string) (*Cookie, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	c, ok := j.cookies[name]
	if !ok {
		return nil, shared.ErrNoCredential
	}
	if c.Expired(j.now()) {
		delete(j.cookies, name)
		return nil, shared.ErrNoCredential
	}
	return &c, nil
}

func (j *MemoryJar) Set(_ context.Context, cookie Cookie) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[cookie.Name] = cookie
	return nil
}

func (j *MemoryJar) Delete(_ context.Context, name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, name)
	return nil
}

// TokenSource yields the current bearer token, if any.
type TokenSource interface {
	Token() (string, bool)
}

// StaticToken is a [TokenSource] for a token already in hand (e.g. read from a request cookie).
type StaticToken string

func (s StaticToken) Token() (string, bool) { return string(s), s != "" }

// Credentials manages the credential cookie in a [Jar].
type Credentials struct {
	jar  Jar
	name string
	ttl  time.Duration
	now  func() time.Time
}

// NewCredentials wraps jar. Empty name and non-positive ttl fall back to the defaults.
func NewCredentials(jar Jar, name string, ttl time.Duration) *Credentials {
	if name == "" {
		name = DefaultCookieName
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Credentials{jar: jar, name: name, ttl: ttl, now: time.Now}
}

// Name returns the cookie name.
func (c *Credentials) Name() string { return c.name }

// TTL returns the cookie lifetime.
func (c *Credentials) TTL() time.Duration { return c.ttl }

// Save stores token with an expiry of now + TTL.
func (c *Credentials) Save(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidInput)
	}
	cookie := Cookie{Name: c.name, Value: token, ExpiresAt: c.now().Add(c.ttl)}
	if err := c.jar.Set(ctx, cookie); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// Clear removes the cookie.
func (c *Credentials) Clear(ctx context.Context) error {
	if err := c.jar.Delete(ctx, c.name); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

// Cookie returns the stored cookie.
func (c *Credentials) Cookie(ctx context.Context) (*Cookie, error) {
	return c.jar.Get(ctx, c.name)
}

// Token implements [TokenSource]. Jar errors read as "no token".
func (c *Credentials) Token() (string, bool) {
	cookie, err := c.jar.Get(context.Background(), c.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Present reports whether a token exists.
func (c *Credentials) Present() bool {
	_, ok := c.Token()
	return ok
}
