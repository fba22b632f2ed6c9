package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/user"
)

func (s *Store) FindUser(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	var role string
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT username, password, role, created_at FROM users WHERE username = ?`, username,
	).Scan(&u.Username, &u.Password, &role, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = user.Role(role)
	u.CreatedAt = time.UnixMicro(created).UTC()
	return &u, nil
}

func (s *Store) InsertUser(ctx context.Context, u *user.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password, role, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.Password, string(u.Role), u.CreatedAt.UnixMicro(),
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) SetRole(ctx context.Context, username string, role user.Role) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE username = ?`, string(role), username)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
