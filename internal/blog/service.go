package blog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/apperror"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/media"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
)

const (
	StatusUpdated   = "updated"
	StatusNoChanges = "no changes"

	defaultMediaTimeout = 20 * time.Second
)

// Manager applies the post and type rules on top of the repositories and the media host.
type Manager struct {
	posts        PostRepository
	types        TypeRepository
	media        media.Store
	mediaTimeout time.Duration
	log          zerolog.Logger
	now          func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now as the source of post and type timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(posts PostRepository, types TypeRepository, m media.Store, mediaTimeout time.Duration, log zerolog.Logger, opts ...Option) *Manager {
	if mediaTimeout <= 0 {
		mediaTimeout = defaultMediaTimeout
	}
	mgr := &Manager{
		posts:        posts,
		types:        types,
		media:        m,
		mediaTimeout: mediaTimeout,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(mgr)
	}
	return mgr
}

// stamp returns the current time at millisecond precision, the coarsest
// precision any backend stores.
func (m *Manager) stamp() time.Time {
	return m.now().UTC().Truncate(time.Millisecond)
}

type CreateInput struct {
	Title      string
	Content    string
	Tags       []string
	Type       string
	CoverImage string
	Image      *media.File
}

// UpdateInput carries only the fields the caller supplied.
type UpdateInput struct {
	Title      *string
	Content    *string
	Tags       *[]string
	Type       *string
	CoverImage *string
	Image      *media.File
}

func postError(err error) error {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		return apperror.Validation("Invalid blog id")
	case errors.Is(err, store.ErrNotFound):
		return apperror.NotFound("Blog not found")
	case errors.Is(err, store.ErrDuplicate):
		return apperror.Conflict("Blog already exists")
	default:
		return apperror.StorageUnavailable(err)
	}
}

// List returns one page of posts, newest first. typ "" or "all" disables the filter.
func (m *Manager) List(ctx context.Context, typ string, page, limit int) (*Page, error) {
	if page < 1 {
		return nil, apperror.Validation("page must be 1 or greater")
	}
	if limit < 1 || limit > MaxPageSize {
		return nil, apperror.Validation("limit must be between 1 and 100")
	}
	typ = strings.TrimSpace(typ)
	if strings.EqualFold(typ, "all") {
		typ = ""
	}

	items, total, err := m.posts.ListPosts(ctx, PostFilter{Type: typ, Skip: (page - 1) * limit, Limit: limit})
	if err != nil {
		return nil, apperror.StorageUnavailable(err)
	}
	if items == nil {
		items = []Post{}
	}
	return &Page{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Post, error) {
	p, err := m.posts.GetPost(ctx, id)
	if err != nil {
		return nil, postError(err)
	}
	return p, nil
}

// Create stores a new post authored by author. A failed image upload does not
// fail the request; the post is stored without an image.
func (m *Manager) Create(ctx context.Context, author string, in CreateInput) (*Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, apperror.Validation("title is required")
	}
	if content == "" {
		return nil, apperror.Validation("content is required")
	}
	if in.Image != nil {
		if err := media.ValidateImage(in.Image.Name, in.Image.ContentType); err != nil {
			return nil, err
		}
	}
	label, err := m.typeLabel(ctx, in.Type)
	if err != nil {
		return nil, err
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	now := m.stamp()
	p := &Post{
		Title:      title,
		Content:    content,
		Tags:       tags,
		Type:       label,
		CoverImage: strings.TrimSpace(in.CoverImage),
		Author:     author,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if in.Image != nil {
		asset, err := m.upload(ctx, *in.Image)
		if err != nil {
			m.log.Warn().Err(err).Str("backend", m.media.Name()).Msg("image upload failed, creating post without image")
		} else {
			p.CoverImage = asset.URL
			p.ImagePublicID = asset.Handle
		}
	}

	id, err := m.posts.InsertPost(ctx, p)
	if err != nil {
		if p.ImagePublicID != "" {
			m.release(ctx, p.ImagePublicID)
		}
		return nil, postError(err)
	}
	p.ID = id
	m.log.Info().Str("id", id).Str("author", author).Msg("post created")
	return p, nil
}

// Update merges the supplied fields into post id. It returns StatusNoChanges
// when nothing was supplied. A replaced managed image is released after the
// store accepts the new one; release failures are only logged.
func (m *Manager) Update(ctx context.Context, id string, in UpdateInput) (string, error) {
	cur, err := m.posts.GetPost(ctx, id)
	if err != nil {
		return "", postError(err)
	}

	var patch PostPatch
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return "", apperror.Validation("title cannot be empty")
		}
		patch.Title = &t
	}
	if in.Content != nil {
		c := strings.TrimSpace(*in.Content)
		if c == "" {
			return "", apperror.Validation("content cannot be empty")
		}
		patch.Content = &c
	}
	if in.Tags != nil {
		tags := cleanTags(*in.Tags)
		patch.Tags = &tags
	}
	if in.Type != nil {
		label, err := m.typeLabel(ctx, *in.Type)
		if err != nil {
			return "", err
		}
		patch.Type = &label
	}
	if in.Image != nil {
		if err := media.ValidateImage(in.Image.Name, in.Image.ContentType); err != nil {
			return "", err
		}
	}

	var oldHandle, newHandle string
	if in.CoverImage != nil {
		url := strings.TrimSpace(*in.CoverImage)
		patch.CoverImage = &url
		if cur.ImagePublicID != "" {
			cleared := ""
			patch.ImagePublicID = &cleared
			oldHandle = cur.ImagePublicID
		}
	}
	if in.Image != nil {
		asset, err := m.upload(ctx, *in.Image)
		if err != nil {
			m.log.Warn().Err(err).Str("id", id).Msg("image upload failed, keeping previous image")
		} else {
			patch.CoverImage = &asset.URL
			patch.ImagePublicID = &asset.Handle
			newHandle = asset.Handle
			oldHandle = cur.ImagePublicID
		}
	}

	if patch.Empty() {
		return StatusNoChanges, nil
	}

	now := m.stamp()
	if last := cur.UpdatedAt.Truncate(time.Millisecond); !now.After(last) {
		now = last.Add(time.Millisecond)
	}
	patch.UpdatedAt = now

	if err := m.posts.UpdatePost(ctx, id, patch); err != nil {
		if newHandle != "" {
			m.release(ctx, newHandle)
		}
		return "", postError(err)
	}
	if oldHandle != "" && oldHandle != newHandle {
		m.release(ctx, oldHandle)
	}
	return StatusUpdated, nil
}

// Delete releases the post's managed image, if any, then removes the post.
func (m *Manager) Delete(ctx context.Context, id string) error {
	cur, err := m.posts.GetPost(ctx, id)
	if err != nil {
		return postError(err)
	}
	if cur.ImagePublicID != "" {
		m.release(ctx, cur.ImagePublicID)
	}
	if err := m.posts.DeletePost(ctx, id); err != nil {
		return postError(err)
	}
	m.log.Info().Str("id", id).Msg("post deleted")
	return nil
}

func (m *Manager) upload(ctx context.Context, f media.File) (media.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, m.mediaTimeout)
	defer cancel()
	return m.media.Upload(ctx, f)
}

// release deletes a media handle, detached from the request's cancellation.
func (m *Manager) release(ctx context.Context, handle string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.mediaTimeout)
	defer cancel()
	if err := m.media.Delete(ctx, handle); err != nil {
		m.log.Warn().Err(err).Str("handle", handle).Str("backend", m.media.Name()).Msg("media cleanup failed")
	}
}

// typeLabel resolves a client supplied type name. Empty means no type.
func (m *Manager) typeLabel(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	t, err := m.types.FindType(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperror.Validation("unknown blog type: " + name)
	}
	if err != nil {
		return "", apperror.StorageUnavailable(err)
	}
	return t.Name, nil
}
