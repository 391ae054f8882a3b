// package models defines the data model for the game library client
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Game is an entry in the authenticated user's collection.
type Game struct {
	ID            int64  `json:"id"`
	ExternalAPIID int64  `json:"externalApiId"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl,omitempty"`
	ReleaseYear   int    `json:"releaseYear,omitempty"`
	Genres        string `json:"genres,omitempty"`
	Platforms     string `json:"platforms,omitempty"`
	Status        Status `json:"status"`
}

// UnmarshalJSON decodes a game. A missing or null status decodes as [DefaultStatus].
func (g *Game) UnmarshalJSON(data []byte) error {
	type plain Game
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Status == "" {
		v.Status = DefaultStatus
	}
	*g = Game(v)
	return nil
}

// GenreList splits the comma-joined genre text.
func (g Game) GenreList() []string { return splitList(g.Genres) }

// PlatformList splits the comma-joined platform text.
func (g Game) PlatformList() []string { return splitList(g.Platforms) }

// Year renders the release year, or "N/A" when the backend did not provide one.
func (g Game) Year() string {
	if g.ReleaseYear == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", g.ReleaseYear)
}

// SearchResult is a hit from the backend-proxied external catalog.
type SearchResult struct {
	ExternalAPIID int64  `json:"externalApiId"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl,omitempty"`
	ReleaseYear   int    `json:"releaseYear,omitempty"`
	Genres        string `json:"genres,omitempty"`
	Platforms     string `json:"platforms,omitempty"`
	InLibrary     bool   `json:"inLibrary"`
}

// AddGameRequest is the body of POST /games.
type AddGameRequest struct {
	ExternalAPIID int64  `json:"externalApiId"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl,omitempty"`
	ReleaseYear   int    `json:"releaseYear,omitempty"`
	Genres        string `json:"genres,omitempty"`
	Platforms     string `json:"platforms,omitempty"`
}

// NewAddGameRequest copies the descriptive fields of a catalog hit.
func NewAddGameRequest(r SearchResult) AddGameRequest {
	return AddGameRequest{
		ExternalAPIID: r.ExternalAPIID,
		Title:         r.Title,
		ImageURL:      r.ImageURL,
		ReleaseYear:   r.ReleaseYear,
		Genres:        r.Genres,
		Platforms:     r.Platforms,
	}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued by the backend.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StatusUpdate is the body of PATCH /games/{id}.
type StatusUpdate struct {
	Status Status `json:"status"`
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
