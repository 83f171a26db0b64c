package database

import (
	"context"
	"sort"
	"sync"

	"github.com/giannis84/favorites-admin/internal/models"
)

var _ FavoritesRepository = (*MockRepository)(nil)

// MockRepository is a simple in-memory FavoritesRepository intended for unit tests only.
// It hands out copies so callers cannot mutate stored records behind its back.
type MockRepository struct {
	mu        sync.RWMutex
	favorites map[int]*models.Favorite
	nextID    int

	// PingErr is returned by Ping when set.
	PingErr error
}

// NewMockRepository returns a MockRepository for testing.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		favorites: make(map[int]*models.Favorite),
	}
}

func (r *MockRepository) CreateFavorite(_ context.Context, favorite *models.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	favorite.ID = r.nextID
	favorite.IsActivated = true
	r.favorites[favorite.ID] = favorite.Clone()
	return nil
}

func (r *MockRepository) GetFavorite(_ context.Context, id int) (*models.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	favorite, exists := r.favorites[id]
	if !exists {
		return nil, ErrNotFound
	}
	return favorite.Clone(), nil
}

func (r *MockRepository) ListFavorites(_ context.Context) ([]*models.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Favorite, 0, len(r.favorites))
	for _, fav := range r.favorites {
		result = append(result, fav.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MockRepository) UpdateFavorite(_ context.Context, favorite *models.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.favorites[favorite.ID]; !exists {
		return ErrNotFound
	}
	r.favorites[favorite.ID] = favorite.Clone()
	return nil
}

func (r *MockRepository) DeleteFavorite(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.favorites[id]; !exists {
		return ErrNotFound
	}
	delete(r.favorites, id)
	return nil
}

func (r *MockRepository) Ping(_ context.Context) error {
	return r.PingErr
}
