package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/user"
)

type userDoc struct {
	Username  string    `bson:"username"`
	Password  string    `bson:"password"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"created_at,omitempty"`
}

func (s *Store) FindUser(ctx context.Context, username string) (*user.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	role := user.Role(doc.Role)
	if !role.Valid() {
		role = user.RoleUser
	}
	return &user.User{
		Username:  doc.Username,
		Password:  doc.Password,
		Role:      role,
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}

func (s *Store) InsertUser(ctx context.Context, u *user.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.users.InsertOne(ctx, userDoc{
		Username:  u.Username,
		Password:  u.Password,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) SetRole(ctx context.Context, username string, role user.Role) error {
	res, err := s.users.UpdateOne(ctx, bson.M{"username": username}, bson.M{"$set": bson.M{"role": string(role)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
