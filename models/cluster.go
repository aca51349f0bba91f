package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryCluster groups articles from different sources that report the
// same real-world story.
// Collection: clusters. MemberIDs is a set keyed by article id; ordering
// reflects arrival. Clusters are never merged automatically; SupersededBy
// is reserved for a future reconciliation pass and stays nil for now.
type StoryCluster struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
	Threshold    float64              `bson:"threshold" json:"threshold"`
	MemberIDs    []primitive.ObjectID `bson:"member_ids" json:"member_ids"`
	SupersededBy *primitive.ObjectID  `bson:"superseded_by,omitempty" json:"superseded_by,omitempty"`

	// Report is a cached projection; always regenerable from members.
	Report *ComparisonReport `bson:"report,omitempty" json:"report,omitempty"`
}

// HasMember reports whether the article is already in the cluster.
func (c *StoryCluster) HasMember(id primitive.ObjectID) bool {
	for _, m := range c.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// ComparisonReport is the derived per-source bias comparison for one
// cluster. Cached on the cluster document but never authoritative over
// a fresh recomputation.
type ComparisonReport struct {
	GeneratedAt    time.Time         `bson:"generated_at" json:"generated_at"`
	ClusterMean    float64           `bson:"cluster_mean" json:"cluster_mean"`
	ScoredMembers  int               `bson:"scored_members" json:"scored_members"`
	PendingMembers int               `bson:"pending_members" json:"pending_members"`
	SourceDeltas   []SourceBiasDelta `bson:"source_deltas" json:"source_deltas"`
	KeyDifferences []string          `bson:"key_differences" json:"key_differences"`
}

// SourceBiasDelta is one source's deviation from the cluster mean.
// PctDiff is (sourceMean - clusterMean) / clusterMean * 100, with a
// zero-mean guard that reports 0 instead of dividing by zero.
type SourceBiasDelta struct {
	SourceName   string  `bson:"source_name" json:"source_name"`
	ArticleCount int     `bson:"article_count" json:"article_count"`
	SourceMean   float64 `bson:"source_mean" json:"source_mean"`
	PctDiff      float64 `bson:"pct_diff" json:"pct_diff"`
}
