package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

var userCols = []string{"id", "user_name", "email", "password_hash", "profile_picture"}

func TestUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users \(user_name, email, password_hash\)`).
		WithArgs("neo", "neo@glitch.io", "$2a$10$hash").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "neo", "neo@glitch.io", "$2a$10$hash", ""))

	repo := NewUserRepo(db)
	user, err := repo.Create(context.Background(), "neo", "neo@glitch.io", "$2a$10$hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID != 1 || user.UserName != "neo" || user.Email != "neo@glitch.io" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_Create_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users \(user_name, email, password_hash\)`).
		WithArgs("neo", "neo@glitch.io", "h").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	repo := NewUserRepo(db)
	_, err = repo.Create(context.Background(), "neo", "neo@glitch.io", "h")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, user_name, email, password_hash, profile_picture`).
		WithArgs("trinity").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(2, "trinity", "trinity@glitch.io", "h", ""))

	repo := NewUserRepo(db)
	user, err := repo.GetByUsername(context.Background(), "trinity")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if user.ID != 2 || user.UserName != "trinity" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByUsername_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, user_name, email, password_hash, profile_picture`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(userCols))

	repo := NewUserRepo(db)
	_, err = repo.GetByUsername(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, user_name, email, password_hash, profile_picture`).
		WithArgs("neo@glitch.io").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "neo", "neo@glitch.io", "h", ""))

	repo := NewUserRepo(db)
	user, err := repo.GetByEmail(context.Background(), "neo@glitch.io")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.Email != "neo@glitch.io" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_FollowCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM follows`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"followers", "following"}).AddRow(3, 5))

	repo := NewUserRepo(db)
	followers, following, err := repo.FollowCounts(context.Background(), 1)
	if err != nil {
		t.Fatalf("FollowCounts: %v", err)
	}
	if followers != 3 || following != 5 {
		t.Errorf("counts: got %d/%d, want 3/5", followers, following)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
