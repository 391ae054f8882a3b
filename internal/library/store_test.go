package library

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/gamelog/internal/models"
)

type fakeLoader struct {
	mu    sync.Mutex
	games []models.Game
	err   error
	calls int
	gates []chan struct{}
}

func (f *fakeLoader) ListGames(ctx context.Context) ([]models.Game, error) {
	f.mu.Lock()
	f.calls++
	var gate chan struct{}
	if len(f.gates) > 0 {
		gate = f.gates[0]
		f.gates = f.gates[1:]
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Game(nil), f.games...), nil
}

func (f *fakeLoader) set(games []models.Game, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games = games
	f.err = err
}

func (f *fakeLoader) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func sampleGames() []models.Game {
	return []models.Game{
		{ID: 1, Title: "Hollow Knight", Status: models.StatusPlaying},
		{ID: 2, Title: "Celeste", Status: models.StatusCompleted},
		{ID: 3, Title: "Hollow Knight: Silksong", Status: models.StatusWantToPlay},
	}
}

func TestFilterGames(t *testing.T) {
	games := sampleGames()

	t.Run("Empty Filter Returns All", func(t *testing.T) {
		if got := FilterGames(games, ""); len(got) != 3 {
			t.Errorf("expected 3 games, got %d", len(got))
		}
	})

	t.Run("Case Insensitive Substring", func(t *testing.T) {
		got := FilterGames(games, "hOLLOW")
		if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
			t.Errorf("unexpected match %+v", got)
		}
	})

	t.Run("Unicode Folding", func(t *testing.T) {
		got := FilterGames([]models.Game{{ID: 9, Title: "Ōkami HD"}}, "ŌKAMI")
		if len(got) != 1 {
			t.Errorf("expected folded match, got %+v", got)
		}
	})

	t.Run("No Match", func(t *testing.T) {
		if got := FilterGames(games, "zelda"); len(got) != 0 {
			t.Errorf("expected no games, got %+v", got)
		}
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts Empty And Idle", func(t *testing.T) {
		s := NewStore(&fakeLoader{}, nil)
		snap := s.Snapshot()
		if snap.Loading || len(snap.Games) != 0 || snap.Filter != "" {
			t.Errorf("unexpected initial snapshot %+v", snap)
		}
	})

	t.Run("Refresh", func(t *testing.T) {
		t.Run("Replaces Cache", func(t *testing.T) {
			loader := &fakeLoader{games: sampleGames()}
			s := NewStore(loader, nil)

			if err := s.Refresh(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(s.Games()) != 3 {
				t.Errorf("expected 3 games, got %d", len(s.Games()))
			}
			if s.Loading() {
				t.Error("expected loading to be false after refresh")
			}

			loader.set(sampleGames()[:1], nil)
			_ = s.Refresh(ctx)
			if len(s.Games()) != 1 {
				t.Errorf("expected 1 game after second refresh, got %d", len(s.Games()))
			}
		})

		t.Run("Keeps Previous On Failure", func(t *testing.T) {
			loader := &fakeLoader{games: sampleGames()}
			s := NewStore(loader, nil)
			_ = s.Refresh(ctx)

			loader.set(nil, errors.New("boom"))
			if err := s.Refresh(ctx); err == nil {
				t.Error("expected refresh error")
			}
			if len(s.Games()) != 3 {
				t.Errorf("expected previous games to survive, got %d", len(s.Games()))
			}
			if s.Loading() {
				t.Error("expected loading to be false after failed refresh")
			}
		})

		t.Run("Toggles Loading", func(t *testing.T) {
			gate := make(chan struct{})
			loader := &fakeLoader{games: sampleGames(), gates: []chan struct{}{gate}}
			s := NewStore(loader, nil)

			var mu sync.Mutex
			var states []bool
			unsub := s.Subscribe(func(snap Snapshot) {
				mu.Lock()
				states = append(states, snap.Loading)
				mu.Unlock()
			})
			defer unsub()

			done := make(chan struct{})
			go func() {
				_ = s.Refresh(ctx)
				close(done)
			}()

			eventually(t, s.Loading)
			close(gate)
			<-done

			mu.Lock()
			defer mu.Unlock()
			if len(states) != 2 || !states[0] || states[1] {
				t.Errorf("expected [true false], got %v", states)
			}
		})

		t.Run("Latest Issued Wins", func(t *testing.T) {
			first, second := make(chan struct{}), make(chan struct{})
			loader := &fakeLoader{games: sampleGames(), gates: []chan struct{}{first, second}}
			s := NewStore(loader, nil)

			older := make(chan struct{})
			go func() {
				_ = s.Refresh(ctx)
				close(older)
			}()
			eventually(t, func() bool { return loader.Calls() >= 1 })

			newer := make(chan struct{})
			go func() {
				_ = s.Refresh(ctx)
				close(newer)
			}()
			eventually(t, func() bool { return loader.Calls() >= 2 })

			close(second)
			<-newer
			if !s.Loading() {
				t.Error("expected loading while the older refresh is in flight")
			}
			if len(s.Games()) != 3 {
				t.Fatalf("expected newer response applied, got %d games", len(s.Games()))
			}

			loader.set(sampleGames()[:1], nil)
			close(first)
			<-older

			if len(s.Games()) != 3 {
				t.Errorf("expected stale response to be discarded, got %d games", len(s.Games()))
			}
			if s.Loading() {
				t.Error("expected loading to be false once both refreshes finished")
			}
		})
	})

	t.Run("Load Only Once", func(t *testing.T) {
		loader := &fakeLoader{games: sampleGames()}
		s := NewStore(loader, nil)

		_ = s.Load(ctx)
		_ = s.Load(ctx)
		if loader.Calls() != 1 {
			t.Errorf("expected 1 fetch, got %d", loader.Calls())
		}
	})

	t.Run("Filter", func(t *testing.T) {
		loader := &fakeLoader{games: sampleGames()}
		s := NewStore(loader, nil)
		_ = s.Refresh(ctx)

		t.Run("Does Not Fetch", func(t *testing.T) {
			calls := loader.Calls()
			s.SetFilter("celeste")
			if loader.Calls() != calls {
				t.Error("filter change should not fetch")
			}
		})

		t.Run("Recomputes On Read", func(t *testing.T) {
			s.SetFilter("hollow")
			if got := s.Filtered(); len(got) != 2 {
				t.Errorf("expected 2 games, got %d", len(got))
			}

			loader.set(append(sampleGames(), models.Game{ID: 4, Title: "Hollow Ground"}), nil)
			_ = s.Refresh(ctx)
			if got := s.Filtered(); len(got) != 3 {
				t.Errorf("expected 3 games after refresh, got %d", len(got))
			}
		})

		t.Run("Clear Shows All", func(t *testing.T) {
			s.SetFilter("")
			if len(s.Filtered()) != len(s.Games()) {
				t.Error("expected empty filter to show the full collection")
			}
		})
	})

	t.Run("Find", func(t *testing.T) {
		s := NewStore(&fakeLoader{games: sampleGames()}, nil)
		_ = s.Refresh(ctx)

		if g, ok := s.Find(2); !ok || g.Title != "Celeste" {
			t.Errorf("expected Celeste, got %+v (%v)", g, ok)
		}
		if _, ok := s.Find(99); ok {
			t.Error("expected missing entry")
		}
	})

	t.Run("Subscribe", func(t *testing.T) {
		s := NewStore(&fakeLoader{games: sampleGames()}, nil)
		count := 0
		unsub := s.Subscribe(func(Snapshot) { count++ })

		s.SetFilter("a")
		s.SetFilter("a")
		if count != 1 {
			t.Errorf("expected 1 notification, got %d", count)
		}

		unsub()
		unsub()
		s.SetFilter("b")
		if count != 1 {
			t.Errorf("expected no notification after unsubscribe, got %d", count)
		}
	})
}
