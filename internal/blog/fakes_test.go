package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/media"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
)

// memStore is an in-memory PostRepository and TypeRepository. Valid ids start with "id-".
type memStore struct {
	posts  map[string]Post
	types  map[string]Type
	nextID int

	insertErr error
}

func newMemStore() *memStore {
	return &memStore{posts: map[string]Post{}, types: map[string]Type{}}
}

func (s *memStore) id() string {
	s.nextID++
	return fmt.Sprintf("id-%03d", s.nextID)
}

func checkID(id string) error {
	if !strings.HasPrefix(id, "id-") {
		return store.ErrInvalidID
	}
	return nil
}

func (s *memStore) ListPosts(_ context.Context, f PostFilter) ([]Post, int64, error) {
	var all []Post
	for _, p := range s.posts {
		if f.Type == "" || p.Type == f.Type {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	total := int64(len(all))
	if f.Skip >= len(all) {
		return []Post{}, total, nil
	}
	end := f.Skip + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Skip:end], total, nil
}

func (s *memStore) GetPost(_ context.Context, id string) (*Post, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) InsertPost(_ context.Context, p *Post) (string, error) {
	if s.insertErr != nil {
		return "", s.insertErr
	}
	cp := *p
	cp.ID = s.id()
	s.posts[cp.ID] = cp
	return cp.ID, nil
}

func (s *memStore) UpdatePost(_ context.Context, id string, patch PostPatch) error {
	if err := checkID(id); err != nil {
		return err
	}
	p, ok := s.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.CoverImage != nil {
		p.CoverImage = *patch.CoverImage
	}
	if patch.ImagePublicID != nil {
		p.ImagePublicID = *patch.ImagePublicID
	}
	p.UpdatedAt = patch.UpdatedAt
	s.posts[id] = p
	return nil
}

func (s *memStore) DeletePost(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *memStore) RenameType(_ context.Context, oldName, newName string) (int64, error) {
	var n int64
	for id, p := range s.posts {
		if p.Type == oldName {
			p.Type = newName
			s.posts[id] = p
			n++
		}
	}
	return n, nil
}

func (s *memStore) ClearType(ctx context.Context, name string) (int64, error) {
	return s.RenameType(ctx, name, "")
}

func (s *memStore) ListTypes(context.Context) ([]Type, error) {
	out := []Type{}
	for _, t := range s.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) FindType(_ context.Context, name string) (*Type, error) {
	for _, t := range s.types {
		if t.Name == name {
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memStore) GetTypeByID(_ context.Context, id string) (*Type, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	t, ok := s.types[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *memStore) InsertType(ctx context.Context, t *Type) (string, error) {
	if _, err := s.FindType(ctx, t.Name); err == nil {
		return "", store.ErrDuplicate
	}
	cp := *t
	cp.ID = s.id()
	s.types[cp.ID] = cp
	return cp.ID, nil
}

func (s *memStore) RenameTypeEntity(ctx context.Context, id, newName string) error {
	if _, err := s.FindType(ctx, newName); err == nil {
		return store.ErrDuplicate
	}
	t, ok := s.types[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Name = newName
	s.types[id] = t
	return nil
}

func (s *memStore) DeleteType(_ context.Context, id string) error {
	if _, ok := s.types[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.types, id)
	return nil
}

// fakeMedia records calls. Handles are "h-<n>".
type fakeMedia struct {
	uploads   int
	deletes   []string
	uploadErr error
	deleteErr error
}

func (f *fakeMedia) Name() string { return "fake" }

func (f *fakeMedia) Upload(_ context.Context, file media.File) (media.Asset, error) {
	if f.uploadErr != nil {
		return media.Asset{}, f.uploadErr
	}
	if _, err := io.ReadAll(file.Body); err != nil {
		return media.Asset{}, err
	}
	f.uploads++
	h := fmt.Sprintf("h-%d", f.uploads)
	return media.Asset{URL: "https://img.example/" + h + ".png", Handle: h}, nil
}

func (f *fakeMedia) Delete(_ context.Context, handle string) error {
	f.deletes = append(f.deletes, handle)
	return f.deleteErr
}

var errMediaDown = errors.New("media host unreachable")

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager() (*Manager, *memStore, *fakeMedia, *testClock) {
	s := newMemStore()
	m := &fakeMedia{}
	clock := &testClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	mgr := NewManager(s, s, m, time.Second, zerolog.Nop(), WithClock(clock.now))
	return mgr, s, m, clock
}

func pngFile(name string) *media.File {
	return &media.File{Name: name, ContentType: "image/png", Body: strings.NewReader("png-bytes")}
}
