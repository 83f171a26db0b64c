package database

import (
	"context"
	"errors"

	"github.com/giannis84/favorites-admin/internal/models"
)

var ErrNotFound = errors.New("favorite not found")

// FavoritesRepository defines the interface for managing favorites storage.
type FavoritesRepository interface {
	// CreateFavorite inserts the favorite and sets its ID and IsActivated
	// from the values assigned by the store.
	CreateFavorite(ctx context.Context, favorite *models.Favorite) error
	GetFavorite(ctx context.Context, id int) (*models.Favorite, error)
	ListFavorites(ctx context.Context) ([]*models.Favorite, error)
	UpdateFavorite(ctx context.Context, favorite *models.Favorite) error
	DeleteFavorite(ctx context.Context, id int) error
	Ping(ctx context.Context) error
}
