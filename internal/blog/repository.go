package blog

import "context"

// PostRepository persists posts. Implementations return the sentinels from
// the store package: ErrInvalidID for ids they cannot parse, ErrNotFound for
// missing records.
type PostRepository interface {
	ListPosts(ctx context.Context, f PostFilter) ([]Post, int64, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	InsertPost(ctx context.Context, p *Post) (string, error)
	UpdatePost(ctx context.Context, id string, patch PostPatch) error
	DeletePost(ctx context.Context, id string) error

	// RenameType relabels every post carrying oldName and returns how many changed.
	RenameType(ctx context.Context, oldName, newName string) (int64, error)
	// ClearType removes the label name from every post carrying it.
	ClearType(ctx context.Context, name string) (int64, error)
}

// TypeRepository persists Type entities. Names are unique; a clash yields ErrDuplicate.
type TypeRepository interface {
	ListTypes(ctx context.Context) ([]Type, error)
	FindType(ctx context.Context, name string) (*Type, error)
	GetTypeByID(ctx context.Context, id string) (*Type, error)
	InsertType(ctx context.Context, t *Type) (string, error)
	RenameTypeEntity(ctx context.Context, id, newName string) error
	DeleteType(ctx context.Context, id string) error
}
