package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/blog"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/store"
)

type typeDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Image     string             `bson:"image,omitempty"`
	CreatedBy string             `bson:"created_by"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d typeDoc) blogType() *blog.Type {
	return &blog.Type{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Image:     d.Image,
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (s *Store) ListTypes(ctx context.Context) ([]blog.Type, error) {
	cur, err := s.types.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []typeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	types := make([]blog.Type, 0, len(docs))
	for _, d := range docs {
		types = append(types, *d.blogType())
	}
	return types, nil
}

func (s *Store) FindType(ctx context.Context, name string) (*blog.Type, error) {
	var doc typeDoc
	if err := s.types.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.blogType(), nil
}

func (s *Store) GetTypeByID(ctx context.Context, id string) (*blog.Type, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc typeDoc
	if err := s.types.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.blogType(), nil
}

func (s *Store) InsertType(ctx context.Context, t *blog.Type) (string, error) {
	res, err := s.types.InsertOne(ctx, typeDoc{
		Name:      t.Name,
		Image:     t.Image,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return "", store.ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Errorf("mongodb: unexpected inserted id %v", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *Store) RenameTypeEntity(ctx context.Context, id, newName string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.types.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"name": newName}})
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteType(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.types.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
