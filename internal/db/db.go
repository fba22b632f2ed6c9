// Package db opens the configured storage backend.
package db

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/blog"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/db/mongodb"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/db/postgres"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/db/sqlite"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/user"
)

// Store is everything the API persists. It is constructed once in main and
// passed to the components that need it.
type Store interface {
	user.Repository
	blog.PostRepository
	blog.TypeRepository

	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*mongodb.Store)(nil)
	_ Store = (*postgres.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
)

const (
	BackendMongo    = "mongodb"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Backend names the backend a connection string selects.
func Backend(dsn string) (string, error) {
	switch {
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return BackendMongo, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return BackendPostgres, nil
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file:"):
		return BackendSQLite, nil
	case dsn == "":
		return "", errors.New("DATABASE_URL is not set")
	default:
		return "", errors.Errorf("unsupported DATABASE_URL scheme in %q", MaskDSN(dsn))
	}
}

// Open connects to the backend selected by dsn. mongoDB names the database
// for MongoDB connection strings and is ignored otherwise.
func Open(ctx context.Context, dsn, mongoDB string) (Store, error) {
	backend, err := Backend(dsn)
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendMongo:
		s, err := mongodb.Open(ctx, dsn, mongoDB)
		if err != nil {
			return nil, errors.Wrap(err, "open mongodb store")
		}
		return s, nil
	case BackendPostgres:
		s, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, errors.Wrap(err, "open postgres store")
		}
		return s, nil
	default:
		s, err := sqlite.Open(sqlitePath(dsn))
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite store")
		}
		return s, nil
	}
}

func sqlitePath(dsn string) string {
	if p, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		return p
	}
	return strings.TrimPrefix(dsn, "file:")
}

// MaskDSN hides the password in a connection string so it can be logged.
func MaskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
