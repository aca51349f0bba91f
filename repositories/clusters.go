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

type ClusterRepository struct {
	col      *mongo.Collection
	articles *mongo.Collection
}

func NewClusterRepository(db *mongo.Database) *ClusterRepository {
	return &ClusterRepository{
		col:      db.Collection("clusters"),
		articles: db.Collection("articles"),
	}
}

func (r *ClusterRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.StoryCluster, error) {
	var c models.StoryCluster
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert stores a new cluster and backfills its generated id.
func (r *ClusterRepository) Insert(ctx context.Context, c *models.StoryCluster) error {
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return nil
}

// AddMember appends the article to the cluster's member set.
// $addToSet keeps retries idempotent: membership is a set, not a sequence.
func (r *ClusterRepository) AddMember(ctx context.Context, clusterID, articleID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, clusterID, bson.M{
		"$addToSet": bson.M{"member_ids": articleID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// Members loads the cluster's member articles.
func (r *ClusterRepository) Members(ctx context.Context, clusterID primitive.ObjectID) ([]*models.Article, error) {
	cluster, err := r.FindByID(ctx, clusterID)
	if err != nil {
		return nil, err
	}
	if len(cluster.MemberIDs) == 0 {
		return nil, nil
	}

	cur, err := r.articles.Find(ctx, bson.M{"_id": bson.M{"$in": cluster.MemberIDs}})
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

// SaveReport caches the freshly computed comparison report on the
// cluster document. The cache is regenerable and never authoritative.
func (r *ClusterRepository) SaveReport(ctx context.Context, clusterID primitive.ObjectID, report *models.ComparisonReport) error {
	_, err := r.col.UpdateByID(ctx, clusterID, bson.M{
		"$set": bson.M{"report": report, "updated_at": time.Now().UTC()},
	})
	return err
}

// List returns recently created clusters, newest first.
func (r *ClusterRepository) List(ctx context.Context, page, pageSize int) ([]models.StoryCluster, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.StoryCluster
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByMember returns the cluster containing the given article, if any.
func (r *ClusterRepository) FindByMember(ctx context.Context, articleID primitive.ObjectID) (*models.StoryCluster, error) {
	var c models.StoryCluster
	err := r.col.FindOne(ctx, bson.M{"member_ids": articleID}).Decode(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
