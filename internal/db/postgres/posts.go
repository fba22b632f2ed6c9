package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/blog"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
)

const postColumns = `id::text, title, content, tags, type, cover_image, image_public_id, author, created_at, updated_at`

func scanPost(row pgx.Row) (*blog.Post, error) {
	var p blog.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Tags, &p.Type, &p.CoverImage,
		&p.ImagePublicID, &p.Author, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (s *Store) ListPosts(ctx context.Context, f blog.PostFilter) ([]blog.Post, int64, error) {
	where := ""
	var args []any
	if f.Type != "" {
		where = ` WHERE type = $1`
		args = append(args, f.Type)
	}

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blogs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + postColumns + ` FROM blogs` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	rows, err := s.pool.Query(ctx, q, append(args, f.Limit, f.Skip)...)
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
	p, err := scanPost(s.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM blogs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return p, err
}

func (s *Store) InsertPost(ctx context.Context, p *blog.Post) (string, error) {
	id := uuid.NewString()
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO blogs (id, title, content, tags, type, cover_image, image_public_id, author, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, p.Title, p.Content, tags, p.Type, p.CoverImage, p.ImagePublicID,
		p.Author, p.CreatedAt, p.UpdatedAt,
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
	args := []any{patch.UpdatedAt}
	sets := []string{"updated_at = $1"}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = "+placeholder(len(args)))
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.Tags != nil {
		set("tags", *patch.Tags)
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
	args = append(args, id)

	tag, err := s.pool.Exec(ctx,
		`UPDATE blogs SET `+strings.Join(sets, ", ")+` WHERE id = `+placeholder(len(args)), args...)
	if err != nil {
		return err
	}
	return affectedOrNotFound(tag)
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	if !validID(id) {
		return store.ErrInvalidID
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(tag)
}

func (s *Store) RenameType(ctx context.Context, oldName, newName string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE blogs SET type = $1 WHERE type = $2`, newName, oldName)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) ClearType(ctx context.Context, name string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE blogs SET type = '' WHERE type = $1`, name)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
