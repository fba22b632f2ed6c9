package blog

import "time"

const (
	DefaultPageSize = 100
	MaxPageSize     = 100
)

// Post is a blog entry. Type holds the name of a Type entity or is empty.
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Tags          []string  `json:"tags"`
	Type          string    `json:"type,omitempty"`
	CoverImage    string    `json:"cover_image,omitempty"`
	ImagePublicID string    `json:"image_public_id,omitempty"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Type is a post category. Name is unique.
type Type struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// PostPatch lists the fields an update sets. Nil means untouched; a pointer
// to "" clears Type, CoverImage or ImagePublicID.
type PostPatch struct {
	Title         *string
	Content       *string
	Tags          *[]string
	Type          *string
	CoverImage    *string
	ImagePublicID *string
	UpdatedAt     time.Time
}

// Empty reports whether the patch changes no field besides the timestamp.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil &&
		p.Type == nil && p.CoverImage == nil && p.ImagePublicID == nil
}

// PostFilter selects a window of posts, newest first. An empty Type matches all posts.
type PostFilter struct {
	Type  string
	Skip  int
	Limit int
}

type Page struct {
	Items []Post `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
}
