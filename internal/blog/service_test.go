package blog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/apperror"
)

func strPtr(s string) *string { return &s }

func TestCreateStampsAuthorAndTimes(t *testing.T) {
	mgr, s, _, clock := newTestManager()
	ctx := context.Background()

	p, err := mgr.Create(ctx, "ashan", CreateInput{Title: " Hello ", Content: "World", Tags: []string{"go"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	stored := s.posts[p.ID]
	if stored.Author != "ashan" {
		t.Errorf("expected author ashan, got %q", stored.Author)
	}
	if stored.Title != "Hello" {
		t.Errorf("expected trimmed title, got %q", stored.Title)
	}
	if !stored.CreatedAt.Equal(clock.t) || !stored.UpdatedAt.Equal(clock.t) {
		t.Errorf("expected created_at = updated_at = now, got %v / %v", stored.CreatedAt, stored.UpdatedAt)
	}
	if !reflect.DeepEqual(stored.Tags, []string{"go"}) {
		t.Errorf("unexpected tags %v", stored.Tags)
	}
}

func TestCreateValidation(t *testing.T) {
	mgr, _, m, _ := newTestManager()
	ctx := context.Background()

	cases := map[string]CreateInput{
		"missing title":   {Content: "c"},
		"missing content": {Title: "t", Content: "   "},
		"unknown type":    {Title: "t", Content: "c", Type: "poetry"},
		"bad image":       {Title: "t", Content: "c", Image: pngFile("notes.pdf")},
	}
	for name, in := range cases {
		_, err := mgr.Create(ctx, "ashan", in)
		if !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
	if m.uploads != 0 {
		t.Errorf("no upload should happen for invalid input, got %d", m.uploads)
	}
}

func TestCreateWithImage(t *testing.T) {
	mgr, s, m, _ := newTestManager()

	p, err := mgr.Create(context.Background(), "ashan", CreateInput{Title: "t", Content: "c", Image: pngFile("cover.png")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if m.uploads != 1 {
		t.Fatalf("expected one upload, got %d", m.uploads)
	}
	stored := s.posts[p.ID]
	if stored.ImagePublicID != "h-1" || stored.CoverImage == "" {
		t.Errorf("expected image stored with handle, got %+v", stored)
	}
}

func TestCreateSurvivesUploadFailure(t *testing.T) {
	mgr, s, m, _ := newTestManager()
	m.uploadErr = errMediaDown

	p, err := mgr.Create(context.Background(), "ashan", CreateInput{Title: "t", Content: "c", Image: pngFile("cover.png")})
	if err != nil {
		t.Fatalf("Create should succeed without image: %v", err)
	}
	if s.posts[p.ID].ImagePublicID != "" {
		t.Error("post should have no image handle")
	}
}

func TestCreateReleasesImageWhenInsertFails(t *testing.T) {
	mgr, s, m, _ := newTestManager()
	s.insertErr = errors.New("disk full")

	_, err := mgr.Create(context.Background(), "ashan", CreateInput{Title: "t", Content: "c", Image: pngFile("cover.png")})
	if !apperror.Is(err, apperror.KindStorageUnavailable) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !reflect.DeepEqual(m.deletes, []string{"h-1"}) {
		t.Fatalf("expected uploaded image to be released, got %v", m.deletes)
	}
}

func TestUpdatePartial(t *testing.T) {
	mgr, s, _, clock := newTestManager()
	ctx := context.Background()
	p, _ := mgr.Create(ctx, "ashan", CreateInput{Title: "old", Content: "body", Tags: []string{"a", "b"}})
	before := s.posts[p.ID]

	clock.advance(time.Minute)
	status, err := mgr.Update(ctx, p.ID, UpdateInput{Title: strPtr("new")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if status != StatusUpdated {
		t.Errorf("expected %q, got %q", StatusUpdated, status)
	}

	after := s.posts[p.ID]
	if after.Title != "new" {
		t.Errorf("expected new title, got %q", after.Title)
	}
	if after.Content != before.Content || !reflect.DeepEqual(after.Tags, before.Tags) {
		t.Errorf("omitted fields changed: %+v", after)
	}
	if after.Author != before.Author || !after.CreatedAt.Equal(before.CreatedAt) {
		t.Error("author and created_at must not change")
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("updated_at should advance: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestUpdateAdvancesTimestampWithoutClockMovement(t *testing.T) {
	mgr, s, _, _ := newTestManager()
	ctx := context.Background()
	p, _ := mgr.Create(ctx, "ashan", CreateInput{Title: "t", Content: "c"})

	if _, err := mgr.Update(ctx, p.ID, UpdateInput{Content: strPtr("c2")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !s.posts[p.ID].UpdatedAt.After(p.UpdatedAt) {
		t.Fatal("updated_at should advance even when the clock has not")
	}
}

func TestTimestampsUseMillisecondPrecision(t *testing.T) {
	mgr, s, _, clock := newTestManager()
	ctx := context.Background()
	clock.advance(100 * time.Nanosecond)
	p, _ := mgr.Create(ctx, "ashan", CreateInput{Title: "t", Content: "c"})
	if p.CreatedAt.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("created_at = %v, want whole milliseconds", p.CreatedAt)
	}

	clock.advance(300 * time.Nanosecond)
	if _, err := mgr.Update(ctx, p.ID, UpdateInput{Content: strPtr("c2")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got := s.posts[p.ID].UpdatedAt
	if want := p.UpdatedAt.Add(time.Millisecond); !got.Equal(want) {
		t.Errorf("updated_at = %v, want %v", got, want)
	}
}

func TestUpdateNoChanges(t *testing.T) {
	mgr, s, _, clock := newTestManager()
	ctx := context.Background()
	p, _ := mgr.Create(ctx, "ashan", CreateInput{Title: "t", Content: "c"})

	clock.advance(time.Minute)
	status, err := mgr.Update(ctx, p.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("empty update should succeed: %v", err)
	}
	if status != StatusNoChanges {
		t.Errorf("expected %q, got %q", StatusNoChanges, status)
	}
	if !s.posts[p.ID].UpdatedAt.Equal(p.UpdatedAt) {
		t.Error("a no-op update must not touch updated_at")
	}
}

func TestUpdateErrors(t *testing.T) {
	mgr, _, _, _ := newTestManager()
	ctx := context.Background()

	if _, err := mgr.Update(ctx, "id-999", UpdateInput{Title: strPtr("x")}); !apperror.Is(err, apperror.KindNotFound) {
		t.Errorf("missing id: expected not found, got %v", err)
	}
	if _, err := mgr.Update(ctx, "not-an-id", UpdateInput{}); !apperror.Is(err, apperror.KindValidation) {
		t.Errorf("bad id: expected validation, got %v", err)
	}

	p, _ := mgr.Create(ctx, "ashan", CreateInput{Title: "t", Content: "c"})
	if _, err := mgr.Update(ctx, p.ID, UpdateInput{Title: strPtr("  ")}); !apperror.Is(err, apperror.KindValidation) {
		t.Errorf("blank title: expected validation, got %v", err)
	}
}

func TestUpdateReplacesImage(t *testing.T) {
	mgr, s, m, _ := newTestManager()
	ctx := context.Background()
	p, _ := mgr.Create(ctx, "ashan", CreateInput{Title: "t", Content: "c", Image: pngFile("a.png")})

	// A failing release must not fail the update.
	m.deleteErr = errMediaDown
	if _, err := mgr.Update(ctx, p.ID, UpdateInput{Image: pngFile("b.png")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := s.posts[p.ID].ImagePublicID; got != "h-2" {
		t.Errorf("expected new handle h-2, got %q", got)
	}
	if !reflect.DeepEqual(m.deletes, []string{"h-1"}) {
		t.Errorf("expected old handle released once, got %v", m.deletes)
	}
}

func TestUpdateKeepsImageWhenUploadFails(t *testing.T) {
	mgr, s, m, _ := newTestManager()
	ctx := context.Background()
	p, _ := mgr.Create(ctx, "ashan", CreateInput{Title: "t", Content: "c", Image: pngFile("a.png")})

	m.uploadErr = errMediaDown
	status, err := mgr.Update(ctx, p.ID, UpdateInput{Title: strPtr("t2"), Image: pngFile("b.png")})
	if err != nil || status != StatusUpdated {
		t.Fatalf("Update: status=%q err=%v", status, err)
	}
	if got := s.posts[p.ID].ImagePublicID; got != "h-1" {
		t.Errorf("expected previous handle kept, got %q", got)
	}
	if len(m.deletes) != 0 {
		t.Errorf("nothing should be released, got %v", m.deletes)
	}
}

func TestUpdateCoverURLReleasesManagedImage(t *testing.T) {
	mgr, s, m, _ := newTestManager()
	ctx := context.Background()
	p, _ := mgr.Create(ctx, "ashan", CreateInput{Title: "t", Content: "c", Image: pngFile("a.png")})

	if _, err := mgr.Update(ctx, p.ID, UpdateInput{CoverImage: strPtr("https://cdn.example/x.jpg")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	stored := s.posts[p.ID]
	if stored.CoverImage != "https://cdn.example/x.jpg" || stored.ImagePublicID != "" {
		t.Errorf("unexpected image fields: %+v", stored)
	}
	if !reflect.DeepEqual(m.deletes, []string{"h-1"}) {
		t.Errorf("expected managed image released, got %v", m.deletes)
	}
}

func TestDeleteReleasesHandleOnce(t *testing.T) {
	mgr, s, m, _ := newTestManager()
	ctx := context.Background()
	p, _ := mgr.Create(ctx, "ashan", CreateInput{Title: "t", Content: "c", Image: pngFile("a.png")})

	m.deleteErr = errMediaDown
	if err := mgr.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete should ignore media failures: %v", err)
	}
	if !reflect.DeepEqual(m.deletes, []string{"h-1"}) {
		t.Errorf("expected exactly one release of h-1, got %v", m.deletes)
	}
	if _, ok := s.posts[p.ID]; ok {
		t.Error("post should be removed")
	}
}

func TestDeleteWithoutImage(t *testing.T) {
	mgr, _, m, _ := newTestManager()
	ctx := context.Background()
	p, _ := mgr.Create(ctx, "ashan", CreateInput{Title: "t", Content: "c"})

	if err := mgr.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(m.deletes) != 0 {
		t.Errorf("no media call expected, got %v", m.deletes)
	}
	if err := mgr.Delete(ctx, p.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	mgr, _, _, clock := newTestManager()
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		if _, err := mgr.Create(ctx, "ashan", CreateInput{Title: fmt.Sprintf("post %d", i), Content: "c"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		clock.advance(time.Second)
	}

	page, err := mgr.List(ctx, "", 1, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 5 || page.Pages != 3 || len(page.Items) != 2 {
		t.Fatalf("unexpected page: total=%d pages=%d items=%d", page.Total, page.Pages, len(page.Items))
	}
	if page.Items[0].Title != "post 5" || page.Items[1].Title != "post 4" {
		t.Errorf("expected newest first, got %q, %q", page.Items[0].Title, page.Items[1].Title)
	}

	last, _ := mgr.List(ctx, "", 3, 2)
	if len(last.Items) != 1 || last.Items[0].Title != "post 1" {
		t.Errorf("unexpected last page: %+v", last.Items)
	}

	beyond, err := mgr.List(ctx, "", 4, 2)
	if err != nil {
		t.Fatalf("page beyond range should not error: %v", err)
	}
	if beyond.Items == nil || len(beyond.Items) != 0 {
		t.Errorf("expected empty item list, got %v", beyond.Items)
	}
}

func TestListEmpty(t *testing.T) {
	mgr, _, _, _ := newTestManager()
	page, err := mgr.List(context.Background(), "all", 1, DefaultPageSize)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 0 || page.Pages != 0 || page.Items == nil {
		t.Errorf("unexpected empty page: %+v", page)
	}
}

func TestListValidation(t *testing.T) {
	mgr, _, _, _ := newTestManager()
	for _, tc := range []struct{ page, limit int }{{0, 10}, {-1, 10}, {1, 0}, {1, MaxPageSize + 1}} {
		if _, err := mgr.List(context.Background(), "", tc.page, tc.limit); !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("page=%d limit=%d: expected validation error, got %v", tc.page, tc.limit, err)
		}
	}
}

func TestListTypeFilter(t *testing.T) {
	mgr, _, _, _ := newTestManager()
	ctx := context.Background()
	if _, err := mgr.CreateType(ctx, "ashan", "go", ""); err != nil {
		t.Fatalf("CreateType failed: %v", err)
	}
	mgr.Create(ctx, "ashan", CreateInput{Title: "a", Content: "c", Type: "go"})
	mgr.Create(ctx, "ashan", CreateInput{Title: "b", Content: "c"})

	filtered, _ := mgr.List(ctx, "go", 1, 10)
	if filtered.Total != 1 || filtered.Items[0].Title != "a" {
		t.Errorf("unexpected filtered list: %+v", filtered)
	}
	all, _ := mgr.List(ctx, "all", 1, 10)
	if all.Total != 2 {
		t.Errorf("\"all\" should not filter, got total %d", all.Total)
	}
}
