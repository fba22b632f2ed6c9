package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/blog"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
)

const postColumns = `id, title, content, tags, type, cover_image, image_public_id, author, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*blog.Post, error) {
	var p blog.Post
	var tags string
	var created, updated int64
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &tags, &p.Type, &p.CoverImage,
		&p.ImagePublicID, &p.Author, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil || p.Tags == nil {
		p.Tags = []string{}
	}
	p.CreatedAt = time.UnixMicro(created).UTC()
	p.UpdatedAt = time.UnixMicro(updated).UTC()
	return &p, nil
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Store) ListPosts(ctx context.Context, f blog.PostFilter) ([]blog.Post, int64, error) {
	where := ""
	var args []any
	if f.Type != "" {
		where = ` WHERE type = ?`
		args = append(args, f.Type)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blogs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM blogs`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, f.Limit, f.Skip)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []blog.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

func (s *Store) GetPost(ctx context.Context, id string) (*blog.Post, error) {
	if !validID(id) {
		return nil, store.ErrInvalidID
	}
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blogs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return p, err
}

func (s *Store) InsertPost(ctx context.Context, p *blog.Post) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blogs (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Title, p.Content, encodeTags(p.Tags), p.Type, p.CoverImage, p.ImagePublicID,
		p.Author, p.CreatedAt.UnixMicro(), p.UpdatedAt.UnixMicro(),
	)
	if isUniqueViolation(err) {
		return "", store.ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, patch blog.PostPatch) error {
	if !validID(id) {
		return store.ErrInvalidID
	}
	sets := []string{"updated_at = ?"}
	args := []any{patch.UpdatedAt.UnixMicro()}
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.Tags != nil {
		set("tags", encodeTags(*patch.Tags))
	}
	if patch.Type != nil {
		set("type", *patch.Type)
	}
	if patch.CoverImage != nil {
		set("cover_image", *patch.CoverImage)
	}
	if patch.ImagePublicID != nil {
		set("image_public_id", *patch.ImagePublicID)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE blogs SET `+strings.Join(sets, ", ")+` WHERE id = ?`, append(args, id)...)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	if !validID(id) {
		return store.ErrInvalidID
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (s *Store) RenameType(ctx context.Context, oldName, newName string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE blogs SET type = ? WHERE type = ?`, newName, oldName)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) ClearType(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE blogs SET type = '' WHERE type = ?`, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
