package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/blog"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
)

const typeColumns = `id, name, image, created_by, created_at`

func scanType(row rowScanner) (*blog.Type, error) {
	var t blog.Type
	var created int64
	if err := row.Scan(&t.ID, &t.Name, &t.Image, &t.CreatedBy, &created); err != nil {
		return nil, err
	}
	t.CreatedAt = time.UnixMicro(created).UTC()
	return &t, nil
}

func (s *Store) ListTypes(ctx context.Context) ([]blog.Type, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+typeColumns+` FROM blog_types ORDER BY name`)
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
	t, err := scanType(s.db.QueryRowContext(ctx, `SELECT `+typeColumns+` FROM blog_types WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return t, err
}

func (s *Store) GetTypeByID(ctx context.Context, id string) (*blog.Type, error) {
	if !validID(id) {
		return nil, store.ErrInvalidID
	}
	t, err := scanType(s.db.QueryRowContext(ctx, `SELECT `+typeColumns+` FROM blog_types WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return t, err
}

func (s *Store) InsertType(ctx context.Context, t *blog.Type) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_types (`+typeColumns+`) VALUES (?, ?, ?, ?, ?)`,
		id, t.Name, t.Image, t.CreatedBy, t.CreatedAt.UnixMicro(),
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
	res, err := s.db.ExecContext(ctx, `UPDATE blog_types SET name = ? WHERE id = ?`, newName, id)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (s *Store) DeleteType(ctx context.Context, id string) error {
	if !validID(id) {
		return store.ErrInvalidID
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_types WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
