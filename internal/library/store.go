// package library caches the user's collection for the front ends
package library

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/shared"
	"golang.org/x/text/cases"
)

// Loader fetches the complete collection.
type Loader interface {
	ListGames(ctx context.Context) ([]models.Game, error)
}

// Snapshot is an immutable view of a [Store].
type Snapshot struct {
	Version uint64
	Games   []models.Game
	Loading bool
	Filter  string
}

// Visible applies the filter to the cached games.
func (s Snapshot) Visible() []models.Game { return FilterGames(s.Games, s.Filter) }

// FilterGames returns the games whose title contains filter, ignoring case. An empty filter matches all.
func FilterGames(games []models.Game, filter string) []models.Game {
	if filter == "" {
		return games
	}

	fold := cases.Fold()
	needle := fold.String(filter)
	out := make([]models.Game, 0, len(games))
	for _, g := range games {
		if strings.Contains(fold.String(g.Title), needle) {
			out = append(out, g)
		}
	}
	return out
}

// Store is the shared in-memory collection for one authenticated session.
type Store struct {
	loader Loader
	logger *log.Logger

	mu       sync.Mutex
	games    []models.Game
	filter   string
	version  uint64
	inflight int
	issued   uint64
	applied  uint64
	loaded   bool
	subs     map[int]func(Snapshot)
	nextSub  int
}

// NewStore creates an empty [Store]. A nil logger discards output.
func NewStore(loader Loader, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Store{
		loader: loader,
		logger: shared.WithLogger(logger, "component", "library"),
		games:  []models.Game{},
		subs:   map[int]func(Snapshot){},
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Version: s.version, Games: s.games, Loading: s.inflight > 0, Filter: s.filter}
}

// Games returns the cached collection in server order.
func (s *Store) Games() []models.Game { return s.Snapshot().Games }

// Loading reports whether a refresh is in flight.
func (s *Store) Loading() bool { return s.Snapshot().Loading }

// Filter returns the current filter text.
func (s *Store) Filter() string { return s.Snapshot().Filter }

// Filtered returns the cached games matching the current filter.
func (s *Store) Filtered() []models.Game { return s.Snapshot().Visible() }

// Find looks up a cached entry by id.
func (s *Store) Find(id int64) (models.Game, bool) {
	for _, g := range s.Games() {
		if g.ID == id {
			return g, true
		}
	}
	return models.Game{}, false
}

// SetFilter replaces the filter text. No request is made.
func (s *Store) SetFilter(text string) {
	s.mu.Lock()
	if s.filter == text {
		s.mu.Unlock()
		return
	}
	s.filter = text
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// Load performs the initial refresh. Only the first call on a store reaches the backend.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return nil
	}
	s.loaded = true
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// Refresh fetches the whole collection and replaces the cache.
//
// On failure the previous games are kept and the error is logged and returned. A response is dropped when a
// later-issued refresh has already been applied.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.inflight++
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)

	games, err := s.loader.ListGames(ctx)

	s.mu.Lock()
	s.inflight--
	s.version++
	switch {
	case err != nil:
		s.logger.Error("failed to refresh library", "error", err, "seq", seq)
	case seq < s.applied:
		s.logger.Debug("discarding stale refresh", "seq", seq, "applied", s.applied)
	default:
		if games == nil {
			games = []models.Game{}
		}
		s.games = games
		s.applied = seq
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)

	return err
}

// Subscribe registers fn for every new snapshot and returns a function that removes it.
//
// fn is called without the store's lock held, from whichever goroutine changed the state.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) publish(snap Snapshot) {
	s.mu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
