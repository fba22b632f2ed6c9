// Package postgres is the PostgreSQL storage backend built on pgxpool.
package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pkgerrors "github.com/pkg/errors"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, pings the server and ensures the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "unable to connect to database")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, pkgerrors.Wrap(err, "unable to ping database")
	}
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if err := s.ensureUsersTable(ctx); err != nil {
		return pkgerrors.Wrap(err, "ensure users table")
	}
	if err := s.ensureTypesTable(ctx); err != nil {
		return pkgerrors.Wrap(err, "ensure blog_types table")
	}
	if err := s.ensureBlogsTable(ctx); err != nil {
		return pkgerrors.Wrap(err, "ensure blogs table")
	}
	return nil
}

func (s *Store) ensureUsersTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            username TEXT PRIMARY KEY,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin','user')),
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`)
	return err
}

func (s *Store) ensureTypesTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS blog_types (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            image TEXT NOT NULL DEFAULT '',
            created_by TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`)
	return err
}

// ensureBlogsTable creates blogs with its listing indexes. Posts reference a
// type by name only, so renames and deletes cascade in application code.
func (s *Store) ensureBlogsTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS blogs (
            id UUID PRIMARY KEY,
            title TEXT NOT NULL,
            content TEXT NOT NULL,
            tags TEXT[] NOT NULL DEFAULT '{}',
            type TEXT NOT NULL DEFAULT '',
            cover_image TEXT NOT NULL DEFAULT '',
            image_public_id TEXT NOT NULL DEFAULT '',
            author TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL,
            updated_at TIMESTAMP WITH TIME ZONE NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_blogs_created ON blogs(created_at DESC, id DESC);
        CREATE INDEX IF NOT EXISTS idx_blogs_type ON blogs(type);
    `)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func affectedOrNotFound(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// placeholder returns the n-th positional parameter, 1-based.
func placeholder(n int) string { return "$" + strconv.Itoa(n) }
