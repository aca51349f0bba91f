package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bias-lens/models"
)

type SourceRepository struct {
	col *mongo.Collection
}

func NewSourceRepository(db *mongo.Database) *SourceRepository {
	return &SourceRepository{col: db.Collection("sources")}
}

// UpsertByName upserts a source uniquely identified by name.
func (r *SourceRepository) UpsertByName(ctx context.Context, s *models.Source) (*mongo.UpdateResult, error) {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	filter := bson.M{"name": s.Name}
	update := bson.M{
		"$setOnInsert": bson.M{
			"created_at": s.CreatedAt,
		},
		"$set": bson.M{
			"updated_at":  s.UpdatedAt,
			"name":        s.Name,
			"url":         s.URL,
			"rss_url":     s.RSSURL,
			"source_type": s.SourceType,
			"language":    s.Language,
		},
	}
	opts := options.Update().SetUpsert(true)
	return r.col.UpdateOne(ctx, filter, update, opts)
}

func (r *SourceRepository) GetByName(ctx context.Context, name string) (*models.Source, error) {
	var s models.Source
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SourceRepository) List(ctx context.Context) ([]models.Source, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Source
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
