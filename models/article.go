package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BiasStatus tracks the lifecycle of an article's bias vector.
// Modeled as an explicit tri-state so the pending path is a checked
// case rather than an implicit nil.
type BiasStatus string

const (
	// BiasAbsent means scoring has never been requested.
	BiasAbsent BiasStatus = "absent"
	// BiasPending means a score request is in flight or failed transiently.
	BiasPending BiasStatus = "pending"
	// BiasScored means the article carries a valid bias vector.
	BiasScored BiasStatus = "scored"
)

// Article is one collected news article.
// Collection: articles. Unique indexes on url and content_hash; a later
// ingestion of the same url or hash updates the document in place.
type Article struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
	URL         string             `bson:"url" json:"url"`
	Title       string             `bson:"title" json:"title"`
	Body        string             `bson:"body" json:"body"`
	Author      string             `bson:"author,omitempty" json:"author,omitempty"`
	SourceName  string             `bson:"source_name" json:"source_name"`
	Language    string             `bson:"language" json:"language"`
	PublishedAt time.Time          `bson:"published_at" json:"published_at"`
	IngestedAt  time.Time          `bson:"ingested_at" json:"ingested_at"`
	ContentHash string             `bson:"content_hash" json:"content_hash"`
	ClusterID   primitive.ObjectID `bson:"cluster_id,omitempty" json:"cluster_id,omitempty"`
	BiasStatus  BiasStatus         `bson:"bias_status" json:"bias_status"`
	Bias        *BiasVector        `bson:"bias,omitempty" json:"bias,omitempty"`
}

// ArticleDraft is the normalized record a scraper hands to the core.
// URL and Body are required; drafts missing either are rejected at ingress.
type ArticleDraft struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Author      string    `json:"author,omitempty"`
	SourceName  string    `json:"source_name"`
	Language    string    `json:"language"`
	PublishedAt time.Time `json:"published_at"`
}

// Valid reports whether the draft carries the required fields.
func (d ArticleDraft) Valid() bool {
	return d.URL != "" && d.Body != "" && d.SourceName != ""
}
