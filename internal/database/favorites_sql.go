package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/giannis84/favorites-admin/internal/models"
)

var _ FavoritesRepository = (*SQLRepository)(nil)

// SQLRepository implements FavoritesRepository on top of database/sql.
// Queries are written with "?" placeholders and rebound for the dialect.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLRepository creates a new SQLRepository backed by the given *sql.DB.
func NewSQLRepository(db *sql.DB, dialect Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

const favoriteColumns = "id, label, url, remote_id, is_default, is_activated"

func (r *SQLRepository) CreateFavorite(ctx context.Context, favorite *models.Favorite) error {
	query := r.rebind(`
		INSERT INTO favorites (label, url, remote_id, is_default)
		VALUES (?, ?, ?, ?)
		RETURNING id, is_activated`)

	err := r.db.QueryRowContext(ctx, query,
		favorite.Label, favorite.URL, favorite.RemoteID, favorite.IsDefault,
	).Scan(&favorite.ID, &favorite.IsActivated)
	if err != nil {
		return fmt.Errorf("inserting favorite: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetFavorite(ctx context.Context, id int) (*models.Favorite, error) {
	query := r.rebind(`SELECT ` + favoriteColumns + ` FROM favorites WHERE id = ?`)

	var fav models.Favorite
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&fav.ID, &fav.Label, &fav.URL, &fav.RemoteID, &fav.IsDefault, &fav.IsActivated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning favorite: %w", err)
	}
	return &fav, nil
}

func (r *SQLRepository) ListFavorites(ctx context.Context) ([]*models.Favorite, error) {
	query := `SELECT ` + favoriteColumns + ` FROM favorites ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	favorites := []*models.Favorite{}
	for rows.Next() {
		var fav models.Favorite
		if err := rows.Scan(
			&fav.ID, &fav.Label, &fav.URL, &fav.RemoteID, &fav.IsDefault, &fav.IsActivated,
		); err != nil {
			return nil, fmt.Errorf("scanning favorite row: %w", err)
		}
		favorites = append(favorites, &fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}
	return favorites, nil
}

func (r *SQLRepository) UpdateFavorite(ctx context.Context, favorite *models.Favorite) error {
	query := r.rebind(`
		UPDATE favorites
		SET label = ?, url = ?, remote_id = ?, is_default = ?, is_activated = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		favorite.Label, favorite.URL, favorite.RemoteID,
		favorite.IsDefault, favorite.IsActivated, favorite.ID,
	)
	if err != nil {
		return fmt.Errorf("updating favorite: %w", err)
	}
	return checkAffected(result)
}

func (r *SQLRepository) DeleteFavorite(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM favorites WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}
	return checkAffected(result)
}

// Ping checks database connectivity. Intended for health check endpoints.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// rebind rewrites "?" placeholders to "$1", "$2", ... for postgres.
func (r *SQLRepository) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
