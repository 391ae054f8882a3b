// package services defines the backend client used by every view
package services

import (
	"context"

	"github.com/desertthunder/gamelog/internal/models"
)

// Backend is the full set of backend operations the client performs.
type Backend interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	ListGames(ctx context.Context) ([]models.Game, error)
	SearchGames(ctx context.Context, query string) ([]models.SearchResult, error)
	AddGame(ctx context.Context, req models.AddGameRequest) (*models.Game, error)
	RemoveGame(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
}

var _ Backend = (*Client)(nil)
