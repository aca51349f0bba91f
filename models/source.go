package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Source is a configured news site, mirrored into storage so API
// consumers can enumerate sources without reading config.
// Collection: sources. Unique index on name.
type Source struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
	Name       string             `bson:"name" json:"name"`
	URL        string             `bson:"url" json:"url"`
	RSSURL     string             `bson:"rss_url" json:"rss_url"`
	SourceType string             `bson:"source_type" json:"source_type"`
	Language   string             `bson:"language" json:"language"`
}
