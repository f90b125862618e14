package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/glitchgg/glitch/internal/models"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
// Create inserts a new user. Uniqueness of user_name and email is enforced by
// the unique indexes, so a concurrent duplicate signup loses the race here and
// gets ErrConflict rather than a second row.
func (r *UserRepo) Create(ctx context.Context, userName, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (user_name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, user_name, email, password_hash, profile_picture
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, userName, email, passwordHash).
		Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.ProfilePicture)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, userName string) (*models.User, error) {
	return r.getOne(ctx, `WHERE user_name = $1`, userName)
}

// ==========================
// Get By Email
// ==========================
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT id, user_name, email, password_hash, profile_picture
		FROM users
	` + where

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.ProfilePicture)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}

	return user, nil
}

// ==========================
// Follow Counts
// ==========================
// FollowCounts returns how many users follow id and how many id follows.
func (r *UserRepo) FollowCounts(ctx context.Context, id int64) (followers, following int, err error) {
	query := `
		SELECT
			(SELECT count(*) FROM follows WHERE followee_id = $1),
			(SELECT count(*) FROM follows WHERE follower_id = $1)
	`

	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&followers, &following); err != nil {
		return 0, 0, fmt.Errorf("count follows: %w", err)
	}

	return followers, following, nil
}
