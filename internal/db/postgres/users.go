package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/user"
)

func (s *Store) FindUser(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT username, password, role, created_at FROM users WHERE username = $1`, username,
	).Scan(&u.Username, &u.Password, &role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = user.Role(role)
	return &u, nil
}

func (s *Store) InsertUser(ctx context.Context, u *user.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (username, password, role, created_at) VALUES ($1, $2, $3, $4)`,
		u.Username, u.Password, string(u.Role), u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) SetRole(ctx context.Context, username string, role user.Role) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET role = $1 WHERE username = $2`, string(role), username)
	if err != nil {
		return err
	}
	return affectedOrNotFound(tag)
}
