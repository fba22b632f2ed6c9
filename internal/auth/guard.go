package auth

import (
	"context"
	"errors"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/apperror"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/user"
)

// Guard resolves bearer tokens to users and enforces the admin role.
type Guard struct {
	signer *Signer
	users  user.Repository
}

func NewGuard(signer *Signer, users user.Repository) *Guard {
	return &Guard{signer: signer, users: users}
}

// Authenticate returns the user a token was issued to. An invalid or expired
// token and a subject that no longer exists fail the same way.
func (g *Guard) Authenticate(ctx context.Context, token string) (*user.User, error) {
	claims, err := g.signer.Verify(token)
	if err != nil {
		return nil, apperror.Unauthenticated()
	}
	u, err := g.users.FindUser(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Unauthenticated()
	}
	if err != nil {
		return nil, apperror.StorageUnavailable(err)
	}
	return u, nil
}

// AuthorizeAdmin passes admins through and rejects every other role.
func (g *Guard) AuthorizeAdmin(u *user.User) (*user.User, error) {
	if u == nil {
		return nil, apperror.Unauthenticated()
	}
	if !u.IsAdmin() {
		return nil, apperror.Forbidden("Not enough permissions")
	}
	return u, nil
}
