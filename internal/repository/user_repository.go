package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ohana-pos/pos/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	*DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.executor(ctx).QueryRow(ctx,
		"SELECT id, username, password_hash FROM users WHERE username = $1", username).
		Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
