package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/agroshare/internal/core/domain"
)

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, COALESCE(full_name, ''), COALESCE(avatar_url, ''), COALESCE(email, ''),
		       COALESCE(role, ''), COALESCE(phone, ''), COALESCE(address, '')
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.FullName, &u.AvatarURL, &u.Email, &u.Role, &u.Phone, &u.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}
