package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bias-lens/models"
)

type ArticleRepository struct {
	col *mongo.Collection
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{col: db.Collection("articles")}
}

// UpsertByURL upserts an article uniquely identified by url.
// The unique indexes on url and content_hash make the check-and-insert
// atomic: two racing ingestions of the same article resolve to a single
// document, the loser's write becoming an update.
func (r *ArticleRepository) UpsertByURL(ctx context.Context, a *models.Article) (*mongo.UpdateResult, error) {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	filter := bson.M{"url": a.URL}
	update := bson.M{
		"$setOnInsert": bson.M{
			"created_at":  a.CreatedAt,
			"ingested_at": a.IngestedAt,
		},
		"$set": bson.M{
			"updated_at":   a.UpdatedAt,
			"url":          a.URL,
			"title":        a.Title,
			"body":         a.Body,
			"author":       a.Author,
			"source_name":  a.SourceName,
			"language":     a.Language,
			"published_at": a.PublishedAt,
			"content_hash": a.ContentHash,
		},
	}
	opts := options.Update().SetUpsert(true)
	return r.col.UpdateOne(ctx, filter, update, opts)
}

// FindByURL returns the article with the given url, or mongo.ErrNoDocuments.
func (r *ArticleRepository) FindByURL(ctx context.Context, url string) (*models.Article, error) {
	var a models.Article
	if err := r.col.FindOne(ctx, bson.M{"url": url}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByHash returns the article with the given content hash.
func (r *ArticleRepository) FindByHash(ctx context.Context, hash string) (*models.Article, error) {
	var a models.Article
	if err := r.col.FindOne(ctx, bson.M{"content_hash": hash}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Article, error) {
	var a models.Article
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByIDs loads a batch of articles; missing ids are silently skipped.
func (r *ArticleRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Article
	for cur.Next(ctx) {
		var a models.Article
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, cur.Err()
}

// UpdateBias attaches (or clears) the bias vector and status.
func (r *ArticleRepository) UpdateBias(ctx context.Context, id primitive.ObjectID, status models.BiasStatus, bias *models.BiasVector) error {
	set := bson.M{
		"bias_status": status,
		"updated_at":  time.Now().UTC(),
	}
	if bias != nil {
		set["bias"] = bias
	}
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetCluster records the article's cluster assignment.
func (r *ArticleRepository) SetCluster(ctx context.Context, id, clusterID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"cluster_id": clusterID, "updated_at": time.Now().UTC()},
	})
	return err
}

// QueryCandidates returns the similarity candidate set: articles from
// other sources published inside [from, to]. Own-source articles are
// excluded because the clustering goal is cross-source story matching.
func (r *ArticleRepository) QueryCandidates(ctx context.Context, excludeSource string, from, to time.Time) ([]*models.Article, error) {
	filter := bson.M{
		"source_name":  bson.M{"$ne": excludeSource},
		"published_at": bson.M{"$gte": from, "$lte": to},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Article
	for cur.Next(ctx) {
		var a models.Article
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, cur.Err()
}

// FindPendingOlderThan lists articles stuck in pending since before the
// cutoff. Used by the ingest recovery pass to re-publish score requests.
func (r *ArticleRepository) FindPendingOlderThan(ctx context.Context, cutoff time.Time, limit int64) ([]*models.Article, error) {
	filter := bson.M{
		"bias_status": models.BiasPending,
		"updated_at":  bson.M{"$lt": cutoff},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Article
	for cur.Next(ctx) {
		var a models.Article
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, cur.Err()
}

// SourceStat is one source's aggregate bias over a date range.
type SourceStat struct {
	SourceName   string  `bson:"_id" json:"source_name"`
	ArticleCount int64   `bson:"article_count" json:"article_count"`
	MeanOverall  float64 `bson:"mean_overall" json:"mean_overall"`
	MeanLean     float64 `bson:"mean_lean" json:"mean_lean"`
}

// AggregateSourceStats groups scored articles by source over a date range.
func (r *ArticleRepository) AggregateSourceStats(ctx context.Context, from, to time.Time) ([]SourceStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"bias_status":  models.BiasScored,
			"published_at": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$source_name",
			"article_count": bson.M{"$sum": 1},
			"mean_overall":  bson.M{"$avg": "$bias.overall_bias"},
			"mean_lean":     bson.M{"$avg": "$bias.political_lean"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []SourceStat
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
