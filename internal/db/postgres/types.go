package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/blog"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
)

const typeColumns = `id::text, name, image, created_by, created_at`

func scanType(row pgx.Row) (*blog.Type, error) {
	var t blog.Type
	if err := row.Scan(&t.ID, &t.Name, &t.Image, &t.CreatedBy, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

func (s *Store) ListTypes(ctx context.Context) ([]blog.Type, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+typeColumns+` FROM blog_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := []blog.Type{}
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, *t)
	}
	return types, rows.Err()
}

func (s *Store) FindType(ctx context.Context, name string) (*blog.Type, error) {
	t, err := scanType(s.pool.QueryRow(ctx, `SELECT `+typeColumns+` FROM blog_types WHERE name = $1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return t, err
}

func (s *Store) GetTypeByID(ctx context.Context, id string) (*blog.Type, error) {
	if !validID(id) {
		return nil, store.ErrInvalidID
	}
	t, err := scanType(s.pool.QueryRow(ctx, `SELECT `+typeColumns+` FROM blog_types WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return t, err
}

func (s *Store) InsertType(ctx context.Context, t *blog.Type) (string, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO blog_types (id, name, image, created_by, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, t.Name, t.Image, t.CreatedBy, t.CreatedAt,
	)
	if isUniqueViolation(err) {
		return "", store.ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) RenameTypeEntity(ctx context.Context, id, newName string) error {
	if !validID(id) {
		return store.ErrInvalidID
	}
	tag, err := s.pool.Exec(ctx, `UPDATE blog_types SET name = $1 WHERE id = $2`, newName, id)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	if err != nil {
		return err
	}
	return affectedOrNotFound(tag)
}

func (s *Store) DeleteType(ctx context.Context, id string) error {
	if !validID(id) {
		return store.ErrInvalidID
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM blog_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(tag)
}
