package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/giannis84/favorites-admin/internal/models"
)

var testCols = []string{"id", "label", "url", "remote_id", "is_default", "is_activated"}

func newTestRepo(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLRepository(db, DialectPostgres), mock
}

// --- CreateFavorite ---

func TestCreateFavorite(t *testing.T) {
	t.Run("assigns id and activation from the store", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(`INSERT INTO favorites .+ RETURNING id, is_activated`).
			WithArgs("Lunch Menu", "https://example.org/lunch", "", false).
			WillReturnRows(sqlmock.NewRows([]string{"id", "is_activated"}).AddRow(1, true))

		fav := &models.Favorite{Label: "Lunch Menu", URL: "https://example.org/lunch"}
		if err := repo.CreateFavorite(context.Background(), fav); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fav.ID != 1 || !fav.IsActivated {
			t.Errorf("unexpected favorite after create: %+v", fav)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("returns error on insert failure", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery("INSERT INTO favorites").
			WillReturnError(fmt.Errorf("connection failed"))

		err := repo.CreateFavorite(context.Background(), &models.Favorite{Label: "L", URL: "https://x.y"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

// --- GetFavorite ---

func TestGetFavorite(t *testing.T) {
	t.Run("returns favorite", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(`SELECT .+ FROM favorites WHERE id = \$1`).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows(testCols).
				AddRow(3, "Docs", "https://docs.example", "r3", true, false))

		fav, err := repo.GetFavorite(context.Background(), 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := models.Favorite{ID: 3, Label: "Docs", URL: "https://docs.example", RemoteID: "r3", IsDefault: true}
		if *fav != want {
			t.Errorf("got %+v, want %+v", *fav, want)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("returns ErrNotFound", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery("SELECT .+ FROM favorites WHERE id").
			WithArgs(42).
			WillReturnRows(sqlmock.NewRows(testCols))

		_, err := repo.GetFavorite(context.Background(), 42)
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

// --- ListFavorites ---

func TestListFavorites(t *testing.T) {
	t.Run("returns favorites in order", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery("SELECT .+ FROM favorites ORDER BY id").
			WillReturnRows(sqlmock.NewRows(testCols).
				AddRow(1, "A", "https://a.example", "", false, true).
				AddRow(2, "B", "https://b.example", "", true, false))

		favs, err := repo.ListFavorites(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(favs) != 2 || favs[0].ID != 1 || favs[1].ID != 2 {
			t.Errorf("unexpected favorites: %+v", favs)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("returns empty slice when table is empty", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery("SELECT .+ FROM favorites").
			WillReturnRows(sqlmock.NewRows(testCols))

		favs, err := repo.ListFavorites(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if favs == nil || len(favs) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", favs)
		}
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery("SELECT .+ FROM favorites").
			WillReturnError(fmt.Errorf("connection failed"))

		if _, err := repo.ListFavorites(context.Background()); err == nil {
			t.Fatal("expected error, got nil")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

// --- UpdateFavorite ---

func TestUpdateFavorite(t *testing.T) {
	fav := &models.Favorite{ID: 1, Label: "Dinner Menu", URL: "https://example.org/dinner", IsActivated: true}

	t.Run("updates successfully", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectExec(`UPDATE favorites .+ WHERE id = \$6`).
			WithArgs("Dinner Menu", "https://example.org/dinner", "", false, true, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.UpdateFavorite(context.Background(), fav); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("returns ErrNotFound when no rows affected", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectExec("UPDATE favorites").
			WillReturnResult(sqlmock.NewResult(0, 0))

		if err := repo.UpdateFavorite(context.Background(), fav); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

// --- DeleteFavorite ---

func TestDeleteFavorite(t *testing.T) {
	t.Run("deletes successfully", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectExec("DELETE FROM favorites").
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.DeleteFavorite(context.Background(), 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("returns ErrNotFound when no rows affected", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectExec("DELETE FROM favorites").
			WillReturnResult(sqlmock.NewResult(0, 0))

		if err := repo.DeleteFavorite(context.Background(), 9); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{name: "postgres numbers placeholders", dialect: DialectPostgres, query: "a = ? AND b = ?", want: "a = $1 AND b = $2"},
		{name: "sqlite keeps question marks", dialect: DialectSQLite, query: "a = ? AND b = ?", want: "a = ? AND b = ?"},
		{name: "no placeholders", dialect: DialectPostgres, query: "SELECT 1", want: "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &SQLRepository{dialect: tt.dialect}
			if got := repo.rebind(tt.query); got != tt.want {
				t.Errorf("rebind(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
