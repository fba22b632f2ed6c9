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

// postDoc mirrors the stored document. Optional labels are omitted rather
// than stored empty, matching documents written by earlier deployments.
type postDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Content       string             `bson:"content"`
	Tags          []string           `bson:"tags"`
	Type          string             `bson:"type,omitempty"`
	CoverImage    string             `bson:"cover_image,omitempty"`
	ImagePublicID string             `bson:"image_public_id,omitempty"`
	Author        string             `bson:"author"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d postDoc) post() blog.Post {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return blog.Post{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Content:       d.Content,
		Tags:          tags,
		Type:          d.Type,
		CoverImage:    d.CoverImage,
		ImagePublicID: d.ImagePublicID,
		Author:        d.Author,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

func (s *Store) ListPosts(ctx context.Context, f blog.PostFilter) ([]blog.Post, int64, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	total, err := s.posts.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(f.Skip)).
		SetLimit(int64(f.Limit))
	cur, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	posts := make([]blog.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.post())
	}
	return posts, total, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*blog.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc postDoc
	if err := s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	p := doc.post()
	return &p, nil
}

func (s *Store) InsertPost(ctx context.Context, p *blog.Post) (string, error) {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	res, err := s.posts.InsertOne(ctx, postDoc{
		Title:         p.Title,
		Content:       p.Content,
		Tags:          tags,
		Type:          p.Type,
		CoverImage:    p.CoverImage,
		ImagePublicID: p.ImagePublicID,
		Author:        p.Author,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
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

// UpdatePost applies patch with $set, and $unset for optional fields patched to "".
func (s *Store) UpdatePost(ctx context.Context, id string, patch blog.PostPatch) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	set := bson.M{"updated_at": patch.UpdatedAt}
	unset := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}
	optional := func(field string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			unset[field] = ""
		} else {
			set[field] = *v
		}
	}
	optional("type", patch.Type)
	optional("cover_image", patch.CoverImage)
	optional("image_public_id", patch.ImagePublicID)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := s.posts.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) RenameType(ctx context.Context, oldName, newName string) (int64, error) {
	res, err := s.posts.UpdateMany(ctx, bson.M{"type": oldName}, bson.M{"$set": bson.M{"type": newName}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) ClearType(ctx context.Context, name string) (int64, error) {
	res, err := s.posts.UpdateMany(ctx, bson.M{"type": name}, bson.M{"$unset": bson.M{"type": ""}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
