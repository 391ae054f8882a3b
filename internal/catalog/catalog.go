// Package catalog runs searches against the external game catalog and adds hits to the library.
//
// [Results] holds the most recent result set. A failed search keeps the previous results. Adding a hit
// flips its InLibrary flag locally and asks the library store to refresh; the two are independent and may
// briefly disagree until the refreshed collection arrives.
package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/shared"
)

// Backend is the subset of the API client used by [Results].
type Backend interface {
	SearchGames(ctx context.Context, query string) ([]models.SearchResult, error)
	AddGame(ctx context.Context, req models.AddGameRequest) (*models.Game, error)
}

// Refresher reloads the library after an add.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Results is the search state for one session.
type Results struct {
	backend Backend
	library Refresher
	logger  *log.Logger

	mu        sync.Mutex
	query     string
	results   []models.SearchResult
	searching int
	issued    uint64
	applied   uint64
	adding    map[int64]bool
}

// NewResults creates an empty result set. library may be nil when no store is mounted.
func NewResults(backend Backend, library Refresher, logger *log.Logger) *Results {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Results{
		backend: backend,
		library: library,
		logger:  shared.WithLogger(logger, "component", "catalog"),
		results: []models.SearchResult{},
		adding:  map[int64]bool{},
	}
}

// Query returns the query of the last applied search.
func (r *Results) Query() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.query
}

// Results returns a copy of the current result set.
func (r *Results) Results() []models.SearchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.SearchResult(nil), r.results...)
}

// Searching reports whether a search is in flight.
func (r *Results) Searching() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.searching > 0
}

// Adding reports whether externalID is being added.
func (r *Results) Adding(externalID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adding[externalID]
}

// Find returns the result with externalID.
func (r *Results) Find(externalID int64) (models.SearchResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.results {
		if res.ExternalAPIID == externalID {
			return res, true
		}
	}
	return models.SearchResult{}, false
}

// Search replaces the result set with the hits for query.
//
// A blank query does nothing. On failure the error is logged and returned and the previous results stay.
func (r *Results) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	r.mu.Lock()
	r.issued++
	seq := r.issued
	r.searching++
	r.mu.Unlock()

	hits, err := r.backend.SearchGames(ctx, query)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.searching--

	if err != nil {
		r.logger.Error("search failed", "query", query, "error", err)
		return err
	}
	if seq < r.applied {
		r.logger.Debug("discarding stale search", "query", query)
		return nil
	}
	if hits == nil {
		hits = []models.SearchResult{}
	}
	r.results = hits
	r.query = query
	r.applied = seq
	return nil
}

// MarkInLibrary sets InLibrary on the result with externalID. It reports whether a result matched.
func (r *Results) MarkInLibrary(externalID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.results {
		if r.results[i].ExternalAPIID == externalID {
			r.results[i].InLibrary = true
			return true
		}
	}
	return false
}

// Add creates a library entry from the result with externalID.
//
// On success the result is marked as in the library and the library is refreshed separately. Results
// already in the library are left alone.
func (r *Results) Add(ctx context.Context, externalID int64) (*models.Game, error) {
	r.mu.Lock()
	var hit *models.SearchResult
	for i := range r.results {
		if r.results[i].ExternalAPIID == externalID {
			res := r.results[i]
			hit = &res
			break
		}
	}
	if hit == nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", shared.ErrResultNotFound, externalID)
	}
	if hit.InLibrary || r.adding[externalID] {
		r.mu.Unlock()
		return nil, nil
	}
	r.adding[externalID] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.adding, externalID)
		r.mu.Unlock()
	}()

	game, err := r.backend.AddGame(ctx, models.NewAddGameRequest(*hit))
	if err != nil {
		r.logger.Error("failed to add game", "external_id", externalID, "error", err)
		return nil, err
	}

	r.MarkInLibrary(externalID)
	if r.library != nil {
		_ = r.library.Refresh(ctx)
	}
	return game, nil
}
