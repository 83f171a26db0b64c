package handlers

import (
	"context"
	"fmt"

	"github.com/giannis84/favorites-admin/internal/database"
	"github.com/giannis84/favorites-admin/internal/logging"
	"github.com/giannis84/favorites-admin/internal/models"
)

// FavoriteService is the read accessor used when an action must work on the
// stored record rather than on the session's draft.
type FavoriteService struct {
	repo database.FavoritesRepository
}

func NewFavoriteService(repo database.FavoritesRepository) *FavoriteService {
	return &FavoriteService{repo: repo}
}

// FindByPrimaryKey loads a favorite by id. It returns database.ErrNotFound
// when no such favorite exists.
func (s *FavoriteService) FindByPrimaryKey(ctx context.Context, id int) (*models.Favorite, error) {
	return s.repo.GetFavorite(ctx, id)
}

func ListFavorites(ctx context.Context, repo database.FavoritesRepository) ([]*models.Favorite, error) {
	return repo.ListFavorites(ctx)
}

// CreateFavorite validates the favorite and persists it. On success the
// favorite carries the id and activation flag assigned by the store.
func CreateFavorite(ctx context.Context, repo database.FavoritesRepository, favorite *models.Favorite, tr Translator) error {
	if err := Validate(favorite, FavoriteNamespace, tr); err != nil {
		return err
	}
	if err := repo.CreateFavorite(ctx, favorite); err != nil {
		return fmt.Errorf("creating favorite: %w", err)
	}

	logging.Log(ctx).Layer("handlers").Op("createFavorite").Favorite(favorite.ID).Info("favorite created")
	return nil
}

func UpdateFavorite(ctx context.Context, repo database.FavoritesRepository, favorite *models.Favorite, tr Translator) error {
	if err := Validate(favorite, FavoriteNamespace, tr); err != nil {
		return err
	}
	if err := repo.UpdateFavorite(ctx, favorite); err != nil {
		return fmt.Errorf("updating favorite %d: %w", favorite.ID, err)
	}

	logging.Log(ctx).Layer("handlers").Op("modifyFavorite").Favorite(favorite.ID).Info("favorite updated")
	return nil
}

func RemoveFavorite(ctx context.Context, repo database.FavoritesRepository, id int) error {
	if err := repo.DeleteFavorite(ctx, id); err != nil {
		return fmt.Errorf("removing favorite %d: %w", id, err)
	}

	logging.Log(ctx).Layer("handlers").Op("removeFavorite").Favorite(id).Info("favorite removed")
	return nil
}

// ToggleActivation flips the activation flag of the stored favorite and
// returns the updated record.
func ToggleActivation(ctx context.Context, repo database.FavoritesRepository, id int) (*models.Favorite, error) {
	favorite, err := NewFavoriteService(repo).FindByPrimaryKey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading favorite %d: %w", id, err)
	}

	favorite.IsActivated = !favorite.IsActivated
	if err := repo.UpdateFavorite(ctx, favorite); err != nil {
		return nil, fmt.Errorf("updating favorite %d: %w", id, err)
	}

	logging.Log(ctx).Layer("handlers").Op("toggleActivationFavorite").Favorite(id).
		Bool("is_activated", favorite.IsActivated).Info("favorite activation toggled")
	return favorite, nil
}
