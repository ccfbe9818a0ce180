package userRepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"filesharing-service/internal/errs"
	"filesharing-service/internal/model/user"
	"filesharing-service/pkg/database/postgres"
)

type UserRepo struct {
	db postgres.PgxPool
}

func New(db postgres.PgxPool) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, full_name, avatar_url, created_at`

func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (uint32, error) {
	var userID uint32
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		username, email, passwordHash).Scan(&userID)
	if postgres.IsUniqueViolation(err) {
		return 0, errs.ErrAlreadyExists
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return userID, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uint32) (*user.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail returns ErrNotFound for an email with no account. Callers that
// treat absence as optional (share recipient resolution) check for it.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.FullName, &u.AvatarURL, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uint32, fullName, avatarURL string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET full_name = $1, avatar_url = $2 WHERE id = $3`, fullName, avatarURL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uint32, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
