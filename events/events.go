package events

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bias-lens/models"
)

// EventType identifies the payload type of an article event.
type EventType string

const (
	ArticleScoreRequested EventType = "article.score_requested"
	ArticleScored         EventType = "article.scored"
	ArticleScoreFailed    EventType = "article.score_failed"
)

// BaseEvent is the common envelope of all events.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// ArticleScoreRequestedEvent asks the scorer worker to analyze one
// article. The body text travels in the event so the worker needs no
// database access.
type ArticleScoreRequestedEvent struct {
	BaseEvent
	ArticleID  primitive.ObjectID `json:"article_id"`
	URL        string             `json:"url"`
	Title      string             `json:"title"`
	Body       string             `json:"body"`
	Language   string             `json:"language"`
	SourceName string             `json:"source_name"`
}

// ArticleScoredEvent carries the primitive bias scores back to the
// ingest side, which derives the overall score and updates storage.
type ArticleScoredEvent struct {
	BaseEvent
	ArticleID primitive.ObjectID `json:"article_id"`
	URL       string             `json:"url"`
	Vector    models.BiasVector  `json:"vector"`
}

// ArticleScoreFailedEvent reports a permanently unscorable article so
// the ingest side can stop waiting for it.
type ArticleScoreFailedEvent struct {
	BaseEvent
	ArticleID primitive.ObjectID `json:"article_id"`
	URL       string             `json:"url"`
	Reason    string             `json:"reason"`
}
