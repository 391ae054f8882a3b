package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/gamelog/internal/models"
)

// Endpoint names accepted by [Backend.Fail] and [Backend.Calls].
const (
	EndpointLogin    = "login"
	EndpointRegister = "register"
	EndpointList     = "list"
	EndpointSearch   = "search"
	EndpointAdd      = "add"
	EndpointRemove   = "remove"
	EndpointUpdate   = "update"
)

// DefaultToken is issued by [Backend] on a successful login.
const DefaultToken = "test-token"

// Backend is an in-memory gamelog API served over [httptest.Server].
//
// Collection and search endpoints require "Authorization: Bearer <Token>".
type Backend struct {
	Server *httptest.Server
	Token  string

	mu       sync.Mutex
	users    map[string]string
	games    []models.Game
	catalog  []models.SearchResult
	nextID   int64
	fail     map[string]int
	calls    map[string]int
	lastAuth string
	lastReq  string
}

// NewBackend starts a [Backend] closed when t finishes.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		Token:  DefaultToken,
		users:  map[string]string{},
		nextID: 1,
		fail:   map[string]int{},
		calls:  map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", b.handle(EndpointLogin, false, b.login))
	mux.HandleFunc("POST /auth/register", b.handle(EndpointRegister, false, b.register))
	mux.HandleFunc("GET /games", b.handle(EndpointList, true, b.list))
	mux.HandleFunc("POST /games", b.handle(EndpointAdd, true, b.add))
	mux.HandleFunc("DELETE /games/{id}", b.handle(EndpointRemove, true, b.remove))
	mux.HandleFunc("PATCH /games/{id}", b.handle(EndpointUpdate, true, b.update))
	mux.HandleFunc("GET /search/games", b.handle(EndpointSearch, true, b.search))

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API root.
func (b *Backend) URL() string { return b.Server.URL }

// AddUser registers an account directly.
func (b *Backend) AddUser(username, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[username] = password
}

// SetGames replaces the collection. Ids are kept; the next id continues after the largest.
func (b *Backend) SetGames(games ...models.Game) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.games = append([]models.Game(nil), games...)
	for _, g := range games {
		if g.ID >= b.nextID {
			b.nextID = g.ID + 1
		}
	}
}

// Games returns a copy of the collection.
func (b *Backend) Games() []models.Game {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Game(nil), b.games...)
}

// SetCatalog replaces the searchable catalog.
func (b *Backend) SetCatalog(results ...models.SearchResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalog = append([]models.SearchResult(nil), results...)
}

// Fail makes endpoint respond with status until [Backend.Recover].
func (b *Backend) Fail(endpoint string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[endpoint] = status
}

// Recover clears a failure set by [Backend.Fail].
func (b *Backend) Recover(endpoint string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.fail, endpoint)
}

// Calls reports how many requests reached endpoint.
func (b *Backend) Calls(endpoint string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[endpoint]
}

// LastAuthorization returns the Authorization header of the most recent request.
func (b *Backend) LastAuthorization() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAuth
}

// LastRequestID returns the X-Request-ID header of the most recent request.
func (b *Backend) LastRequestID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastReq
}

func (b *Backend) handle(endpoint string, protected bool, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[endpoint]++
		b.lastAuth = r.Header.Get("Authorization")
		b.lastReq = r.Header.Get("X-Request-ID")
		status, failing := b.fail[endpoint]
		token := b.Token
		b.mu.Unlock()

		if failing {
			http.Error(w, http.StatusText(status), status)
			return
		}
		if protected && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	password, ok := b.users[req.Username]
	b.mu.Unlock()

	if !ok || password != req.Password {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: b.Token})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[req.Username]; exists {
		http.Error(w, "username taken", http.StatusConflict)
		return
	}
	b.users[req.Username] = req.Password
	w.WriteHeader(http.StatusCreated)
}

func (b *Backend) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.Games())
}

func (b *Backend) search(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))

	b.mu.Lock()
	owned := map[int64]bool{}
	for _, g := range b.games {
		owned[g.ExternalAPIID] = true
	}
	results := []models.SearchResult{}
	for _, c := range b.catalog {
		if strings.Contains(strings.ToLower(c.Title), query) {
			c.InLibrary = owned[c.ExternalAPIID]
			results = append(results, c)
		}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, results)
}

func (b *Backend) add(w http.ResponseWriter, r *http.Request) {
	var req models.AddGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, g := range b.games {
		if g.ExternalAPIID == req.ExternalAPIID {
			http.Error(w, "already in library", http.StatusConflict)
			return
		}
	}

	game := models.Game{
		ID:            b.nextID,
		ExternalAPIID: req.ExternalAPIID,
		Title:         req.Title,
		ImageURL:      req.ImageURL,
		ReleaseYear:   req.ReleaseYear,
		Genres:        req.Genres,
		Platforms:     req.Platforms,
		Status:        models.DefaultStatus,
	}
	b.nextID++
	b.games = append(b.games, game)
	writeJSON(w, http.StatusCreated, game)
}

func (b *Backend) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, g := range b.games {
		if g.ID == id {
			b.games = append(b.games[:i], b.games[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (b *Backend) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	var req models.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Status.Valid() {
		http.Error(w, "bad status", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.games {
		if b.games[i].ID == id {
			b.games[i].Status = req.Status
			writeJSON(w, http.StatusOK, b.games[i])
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
