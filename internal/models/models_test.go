package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestStatus(t *testing.T) {
	t.Run("ParseStatus", func(t *testing.T) {
		tc := []struct {
			name  string
			input string
			want  Status
		}{
			{name: "wire value", input: "JOGANDO", want: StatusPlaying},
			{name: "lower case wire value", input: "zerado", want: StatusCompleted},
			{name: "kebab name", input: "want-to-play", want: StatusWantToPlay},
			{name: "mixed case kebab name", input: " Abandoned ", want: StatusAbandoned},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got, err := ParseStatus(tt.input)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if got != tt.want {
					t.Errorf("ParseStatus(%q) = %v, want %v", tt.input, got, tt.want)
				}
			})
		}

		t.Run("Unknown Value", func(t *testing.T) {
			_, err := ParseStatus("finished")
			if !errors.Is(err, ErrInvalidStatus) {
				t.Errorf("expected ErrInvalidStatus, got %v", err)
			}
		})
	})

	t.Run("Decoding", func(t *testing.T) {
		t.Run("Empty Status Defaults To Want To Play", func(t *testing.T) {
			var g Game
			if err := json.Unmarshal([]byte(`{"id":1,"title":"Hades","status":""}`), &g); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if g.Status != StatusWantToPlay {
				t.Errorf("expected %v, got %v", StatusWantToPlay, g.Status)
			}
		})

		t.Run("Unknown Status Fails", func(t *testing.T) {
			var g Game
			if err := json.Unmarshal([]byte(`{"id":1,"status":"BEATEN"}`), &g); err == nil {
				t.Error("expected decode error for unknown status")
			}
		})

		t.Run("Encodes Wire Value", func(t *testing.T) {
			data, err := json.Marshal(StatusUpdate{Status: StatusCompleted})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if string(data) != `{"status":"ZERADO"}` {
				t.Errorf("unexpected body %s", data)
			}
		})
	})

	t.Run("Labels", func(t *testing.T) {
		if StatusWantToPlay.Label() != "Want to Play" {
			t.Errorf("unexpected label %q", StatusWantToPlay.Label())
		}
		if StatusAbandoned.Name() != "abandoned" {
			t.Errorf("unexpected name %q", StatusAbandoned.Name())
		}
		if Status("nope").Valid() {
			t.Error("expected unknown status to be invalid")
		}
	})
}

func TestGame(t *testing.T) {
	t.Run("Lists", func(t *testing.T) {
		g := Game{Genres: "Action, RPG,  ,Roguelike", Platforms: ""}
		if got := g.GenreList(); !reflect.DeepEqual(got, []string{"Action", "RPG", "Roguelike"}) {
			t.Errorf("unexpected genres %v", got)
		}
		if got := g.PlatformList(); got != nil {
			t.Errorf("expected nil platforms, got %v", got)
		}
	})

	t.Run("Missing Or Null Status Defaults To Want To Play", func(t *testing.T) {
		for _, body := range []string{
			`{"id":1,"title":"Hades"}`,
			`{"id":1,"title":"Hades","status":null}`,
		} {
			var g Game
			if err := json.Unmarshal([]byte(body), &g); err != nil {
				t.Fatalf("unexpected error for %s: %v", body, err)
			}
			if g.Status != StatusWantToPlay || g.Title != "Hades" {
				t.Errorf("%s decoded as %+v", body, g)
			}
			if _, err := json.Marshal(g); err != nil {
				t.Errorf("expected re-encoding to succeed, got %v", err)
			}
		}

		var games []Game
		if err := json.Unmarshal([]byte(`[{"id":1},{"id":2,"status":"ZERADO"}]`), &games); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if games[0].Status != StatusWantToPlay || games[1].Status != StatusCompleted {
			t.Errorf("unexpected statuses %s, %s", games[0].Status, games[1].Status)
		}
	})

	t.Run("Year", func(t *testing.T) {
		if (Game{}).Year() != "N/A" {
			t.Error("expected N/A for missing year")
		}
		if (Game{ReleaseYear: 2020}).Year() != "2020" {
			t.Error("expected 2020")
		}
	})

	t.Run("NewAddGameRequest", func(t *testing.T) {
		r := SearchResult{ExternalAPIID: 7, Title: "Celeste", ReleaseYear: 2018, Platforms: "PC", InLibrary: false}
		req := NewAddGameRequest(r)
		if req.ExternalAPIID != 7 || req.Title != "Celeste" || req.ReleaseYear != 2018 || req.Platforms != "PC" {
			t.Errorf("unexpected request %+v", req)
		}
	})
}
