package web

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gamelog/internal/catalog"
	"github.com/desertthunder/gamelog/internal/library"
	"github.com/desertthunder/gamelog/internal/services"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/patrickmn/go-cache"
)

// State is everything the web front keeps for one signed-in session.
type State struct {
	Client  *services.Client
	Store   *library.Store
	Results *catalog.Results
}

// Sessions caches [State] by token for the credential lifetime.
type Sessions struct {
	client *services.Client
	logger *log.Logger
	cache  *cache.Cache
	mu     sync.Mutex

	onChange func(n int)
}

// NewSessions creates a cache whose entries expire after ttl.
func NewSessions(client *services.Client, ttl time.Duration, logger *log.Logger) *Sessions {
	s := &Sessions{
		client: client,
		logger: logger,
		cache:  cache.New(ttl, 10*time.Minute),
	}
	s.cache.OnEvicted(func(string, any) { s.changed() })
	return s
}

// OnChange registers fn to receive the session count whenever it changes.
func (s *Sessions) OnChange(fn func(n int)) { s.onChange = fn }

func (s *Sessions) changed() {
	if s.onChange != nil {
		s.onChange(s.cache.ItemCount())
	}
}

// Get returns the state for token, creating it on first use.
func (s *Sessions) Get(token string) *State {
	if v, ok := s.cache.Get(token); ok {
		return v.(*State)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.cache.Get(token); ok {
		return v.(*State)
	}

	client := s.client.WithTokens(session.StaticToken(token))
	store := library.NewStore(client, s.logger)
	st := &State{
		Client:  client,
		Store:   store,
		Results: catalog.NewResults(client, store, s.logger),
	}
	s.cache.SetDefault(token, st)
	s.changed()
	return st
}

// Drop discards the state for token.
func (s *Sessions) Drop(token string) {
	s.cache.Delete(token)
}

// Count returns the number of cached sessions.
func (s *Sessions) Count() int { return s.cache.ItemCount() }
