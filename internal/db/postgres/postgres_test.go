package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/blog"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/user"
)

// setupTestStore opens TEST_DATABASE_URL and empties the tables it owns.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	truncate := func() {
		if _, err := s.pool.Exec(context.Background(), `TRUNCATE users, blog_types, blogs`); err != nil {
			t.Fatalf("truncate failed: %v", err)
		}
	}
	truncate()
	return s, func() {
		truncate()
		s.Close()
	}
}

var base = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func insertPost(t *testing.T, s *Store, title, typ string, created time.Time) string {
	t.Helper()
	id, err := s.InsertPost(context.Background(), &blog.Post{
		Title:     title,
		Content:   "content of " + title,
		Tags:      []string{"go"},
		Type:      typ,
		Author:    "ashan",
		CreatedAt: created,
		UpdatedAt: created,
	})
	if err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	return id
}

func TestUsers(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := s.InsertUser(ctx, &user.User{Username: "alice", Password: "hash", Role: user.RoleUser}); err != nil {
		t.Fatalf("InsertUser failed: %v", err)
	}
	err := s.InsertUser(ctx, &user.User{Username: "alice", Password: "other", Role: user.RoleUser})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := s.SetRole(ctx, "alice", user.RoleAdmin); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	u, err := s.FindUser(ctx, "alice")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if u.Role != user.RoleAdmin || u.Password != "hash" {
		t.Errorf("unexpected user %+v", u)
	}
	if err := s.SetRole(ctx, "nobody", user.RoleAdmin); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInvalidAndMissingIDs(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	title := "x"

	if _, err := s.GetPost(ctx, "not-an-id"); !errors.Is(err, store.ErrInvalidID) {
		t.Errorf("GetPost: expected ErrInvalidID, got %v", err)
	}
	if err := s.UpdatePost(ctx, "not-an-id", blog.PostPatch{Title: &title, UpdatedAt: base}); !errors.Is(err, store.ErrInvalidID) {
		t.Errorf("UpdatePost: expected ErrInvalidID, got %v", err)
	}
	if err := s.DeletePost(ctx, "not-an-id"); !errors.Is(err, store.ErrInvalidID) {
		t.Errorf("DeletePost: expected ErrInvalidID, got %v", err)
	}
	if _, err := s.GetTypeByID(ctx, "golang"); !errors.Is(err, store.ErrInvalidID) {
		t.Errorf("GetTypeByID: expected ErrInvalidID, got %v", err)
	}

	missing := uuid.NewString()
	if _, err := s.GetPost(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetPost: expected ErrNotFound, got %v", err)
	}
	if err := s.UpdatePost(ctx, missing, blog.PostPatch{Title: &title, UpdatedAt: base}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdatePost: expected ErrNotFound, got %v", err)
	}
	if err := s.DeletePost(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeletePost: expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePostPatch(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := s.InsertPost(ctx, &blog.Post{
		Title:         "Hello",
		Content:       "body",
		Tags:          []string{"go"},
		Type:          "go",
		CoverImage:    "https://cdn.example.com/a.png",
		ImagePublicID: "blog_images/a",
		Author:        "ashan",
		CreatedAt:     base,
		UpdatedAt:     base,
	})
	if err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	// Every column at once: placeholders run $1..$7 plus the id.
	title, content := "Hello again", "new body"
	tags := []string{"a", "b"}
	empty := ""
	later := base.Add(time.Hour)
	patch := blog.PostPatch{
		Title:         &title,
		Content:       &content,
		Tags:          &tags,
		Type:          &empty,
		CoverImage:    &empty,
		ImagePublicID: &empty,
		UpdatedAt:     later,
	}
	if err := s.UpdatePost(ctx, id, patch); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	p, err := s.GetPost(ctx, id)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if p.Title != title || p.Content != content || !reflect.DeepEqual(p.Tags, tags) {
		t.Errorf("patch not applied: %+v", p)
	}
	if p.Type != "" || p.CoverImage != "" || p.ImagePublicID != "" {
		t.Errorf("optional fields should be cleared: %+v", p)
	}
	if p.Author != "ashan" || !p.CreatedAt.Equal(base) || !p.UpdatedAt.Equal(later) {
		t.Errorf("author or timestamps wrong: %+v", p)
	}

	// A sparse patch skips columns, so the numbering must stay contiguous.
	cover := "https://cdn.example.com/b.png"
	if err := s.UpdatePost(ctx, id, blog.PostPatch{CoverImage: &cover, UpdatedAt: later.Add(time.Minute)}); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	p, _ = s.GetPost(ctx, id)
	if p.CoverImage != cover || p.Title != title || p.Content != content {
		t.Errorf("sparse patch not applied: %+v", p)
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		typ := "go"
		if i%2 == 1 {
			typ = "rust"
		}
		insertPost(t, s, fmt.Sprintf("post %d", i), typ, base.Add(time.Duration(i)*time.Minute))
	}
	insertPost(t, s, "post 5", "go", base.Add(4*time.Minute))

	posts, total, err := s.ListPosts(ctx, blog.PostFilter{Limit: 3})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 6 || len(posts) != 3 {
		t.Fatalf("expected 3 of 6, got %d of %d", len(posts), total)
	}
	if !posts[0].CreatedAt.Equal(posts[1].CreatedAt) || posts[0].ID < posts[1].ID {
		t.Errorf("tied posts should be ordered by id descending: %s, %s", posts[0].ID, posts[1].ID)
	}
	if posts[2].Title != "post 3" {
		t.Errorf("expected post 3 third, got %q", posts[2].Title)
	}

	posts, total, _ = s.ListPosts(ctx, blog.PostFilter{Type: "rust", Skip: 1, Limit: 10})
	if total != 2 || len(posts) != 1 || posts[0].Title != "post 1" {
		t.Errorf("unexpected filtered page %+v (total %d)", posts, total)
	}

	posts, _, err = s.ListPosts(ctx, blog.PostFilter{Skip: 10, Limit: 10})
	if err != nil || posts == nil || len(posts) != 0 {
		t.Errorf("expected empty non-nil page, got %v (err %v)", posts, err)
	}
}

func TestTypesAndCascade(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := s.InsertType(ctx, &blog.Type{Name: "go", CreatedBy: "ashan", CreatedAt: base})
	if err != nil {
		t.Fatalf("InsertType failed: %v", err)
	}
	if _, err := s.InsertType(ctx, &blog.Type{Name: "go", CreatedAt: base}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := s.InsertType(ctx, &blog.Type{Name: "rust", CreatedAt: base}); err != nil {
		t.Fatalf("InsertType failed: %v", err)
	}

	p1 := insertPost(t, s, "a", "go", base)
	insertPost(t, s, "b", "go", base.Add(time.Second))
	p3 := insertPost(t, s, "c", "rust", base.Add(2*time.Second))

	if err := s.RenameTypeEntity(ctx, id, "rust"); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on rename clash, got %v", err)
	}
	if err := s.RenameTypeEntity(ctx, id, "golang"); err != nil {
		t.Fatalf("RenameTypeEntity failed: %v", err)
	}
	n, err := s.RenameType(ctx, "go", "golang")
	if err != nil || n != 2 {
		t.Fatalf("RenameType: n=%d err=%v", n, err)
	}
	if typ, err := s.FindType(ctx, "golang"); err != nil || typ.ID != id {
		t.Fatalf("FindType: %+v %v", typ, err)
	}

	n, err = s.ClearType(ctx, "golang")
	if err != nil || n != 2 {
		t.Fatalf("ClearType: n=%d err=%v", n, err)
	}
	if p, _ := s.GetPost(ctx, p1); p.Type != "" {
		t.Errorf("expected cleared type, got %q", p.Type)
	}
	if p, _ := s.GetPost(ctx, p3); p.Type != "rust" {
		t.Errorf("unrelated post relabelled: %q", p.Type)
	}

	if err := s.DeleteType(ctx, id); err != nil {
		t.Fatalf("DeleteType failed: %v", err)
	}
	if err := s.DeleteType(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	types, _ := s.ListTypes(ctx)
	if len(types) != 1 || types[0].Name != "rust" {
		t.Errorf("unexpected types %+v", types)
	}
}
