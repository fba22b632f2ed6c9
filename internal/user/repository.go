package user

import "context"

// Repository is the user collection as seen by auth and the admin tools.
// Implementations return store.ErrNotFound for unknown usernames and
// store.ErrDuplicate when the username is already taken.
type Repository interface {
	FindUser(ctx context.Context, username string) (*User, error)
	InsertUser(ctx context.Context, u *User) error
	SetRole(ctx context.Context, username string, role Role) error
}
