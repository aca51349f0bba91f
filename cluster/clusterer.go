package cluster

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bias-lens/models"
	"bias-lens/similarity"
)

// Store is the slice of the corpus store the clusterer needs.
// Implemented by repositories.ClusterRepository and by in-memory fakes
// in tests.
type Store interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.StoryCluster, error)
	Insert(ctx context.Context, c *models.StoryCluster) error
	AddMember(ctx context.Context, clusterID, articleID primitive.ObjectID) error
	Members(ctx context.Context, clusterID primitive.ObjectID) ([]*models.Article, error)
}

// Clusterer assigns incoming articles to story clusters using greedy
// online assignment: join the cluster with the highest max-member
// similarity above its threshold, otherwise start a singleton. Clusters
// are never split or merged retroactively.
//
// Cluster mutation is serialized through an internal mutex (single
// writer); similarity scoring itself is read-only and safe to run
// concurrently.
type Clusterer struct {
	engine           *similarity.Engine
	store            Store
	defaultThreshold float64

	mu sync.Mutex
}

func NewClusterer(engine *similarity.Engine, store Store, defaultThreshold float64) *Clusterer {
	if defaultThreshold <= 0 || defaultThreshold > 1 {
		defaultThreshold = 0.42
	}
	return &Clusterer{engine: engine, store: store, defaultThreshold: defaultThreshold}
}

// Assign places the article into an existing or new cluster and returns
// it. Candidates are the windowed cross-source articles pulled by the
// caller; only clusters touched by the candidate set are considered.
//
// Idempotent: reprocessing an already-clustered article returns its
// current cluster without duplicating membership, and re-running on an
// unchanged corpus never moves an article to a different cluster.
func (c *Clusterer) Assign(ctx context.Context, article *models.Article, candidates []*models.Article) (*models.StoryCluster, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// retry path: membership is a set keyed by article identity
	if !article.ClusterID.IsZero() {
		existing, err := c.store.FindByID(ctx, article.ClusterID)
		if err == nil && existing != nil && existing.HasMember(article.ID) {
			return existing, nil
		}
	}

	best, err := c.bestCluster(ctx, article, candidates)
	if err != nil {
		return nil, err
	}

	if best != nil {
		if err := c.store.AddMember(ctx, best.ID, article.ID); err != nil {
			return nil, fmt.Errorf("add member to cluster %s: %w", best.ID.Hex(), err)
		}
		if !best.HasMember(article.ID) {
			best.MemberIDs = append(best.MemberIDs, article.ID)
		}
		article.ClusterID = best.ID
		return best, nil
	}

	// no sufficiently similar cluster: new singleton
	now := time.Now().UTC()
	fresh := &models.StoryCluster{
		CreatedAt: now,
		UpdatedAt: now,
		Threshold: c.defaultThreshold,
		MemberIDs: []primitive.ObjectID{article.ID},
	}
	if err := c.store.Insert(ctx, fresh); err != nil {
		return nil, fmt.Errorf("insert cluster: %w", err)
	}
	article.ClusterID = fresh.ID
	return fresh, nil
}

// bestCluster scores the article against every member of every cluster
// touched by the candidate set and returns the qualifying cluster with
// the highest max-member similarity. Ties break toward the earliest
// created cluster so repeated runs stay deterministic.
func (c *Clusterer) bestCluster(ctx context.Context, article *models.Article, candidates []*models.Article) (*models.StoryCluster, error) {
	touched := map[primitive.ObjectID]bool{}
	for _, cand := range candidates {
		if !cand.ClusterID.IsZero() {
			touched[cand.ClusterID] = true
		}
	}
	if len(touched) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })

	var best *models.StoryCluster
	var bestSim float64
	for _, id := range ids {
		cl, err := c.store.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load cluster %s: %w", id.Hex(), err)
		}
		members, err := c.store.Members(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load members of cluster %s: %w", id.Hex(), err)
		}

		var maxSim float64
		for _, m := range members {
			if m.ID == article.ID {
				continue
			}
			if s := c.engine.Score(article, m); s > maxSim {
				maxSim = s
			}
		}

		if maxSim < cl.Threshold {
			continue
		}
		if best == nil || maxSim > bestSim ||
			(maxSim == bestSim && cl.CreatedAt.Before(best.CreatedAt)) {
			best = cl
			bestSim = maxSim
		}
	}
	return best, nil
}
