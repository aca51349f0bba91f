package ingest

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bias-lens/cluster"
	"bias-lens/models"
)

// ArticleStore is the article side of the corpus store, implemented by
// repositories.ArticleRepository. The store is handed to the pipeline
// explicitly so every component can be tested against an in-memory fake.
type ArticleStore interface {
	UpsertByURL(ctx context.Context, a *models.Article) (*mongo.UpdateResult, error)
	FindByURL(ctx context.Context, url string) (*models.Article, error)
	FindByHash(ctx context.Context, hash string) (*models.Article, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Article, error)
	UpdateBias(ctx context.Context, id primitive.ObjectID, status models.BiasStatus, bias *models.BiasVector) error
	SetCluster(ctx context.Context, id, clusterID primitive.ObjectID) error
	QueryCandidates(ctx context.Context, excludeSource string, from, to time.Time) ([]*models.Article, error)
}

// ClusterStore extends the clusterer's store slice with report caching.
type ClusterStore interface {
	cluster.Store
	SaveReport(ctx context.Context, clusterID primitive.ObjectID, report *models.ComparisonReport) error
}

// ScoreRequester hands an article off to the external bias-scoring
// collaborator, typically by publishing an event for the scorer worker.
// The call must not block on the scorer itself.
type ScoreRequester interface {
	RequestScore(ctx context.Context, a *models.Article) error
}
