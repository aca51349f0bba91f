package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bias-lens/eventbus"
	"bias-lens/events"
	"bias-lens/models"
)

// EventDispatcher publishes scoring results for the scorer worker.
type EventDispatcher struct {
	bus eventbus.EventBus
}

func NewEventDispatcher(bus eventbus.EventBus) *EventDispatcher {
	return &EventDispatcher{bus: bus}
}

// PublishArticleScored reports a completed bias analysis.
func (s *EventDispatcher) PublishArticleScored(ctx context.Context, articleID primitive.ObjectID, url string, vector models.BiasVector) error {
	e := events.ArticleScoredEvent{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.ArticleScored,
			Timestamp: time.Now(),
			Source:    "scorer",
			Version:   "1.0",
		},
		ArticleID: articleID,
		URL:       url,
		Vector:    vector,
	}
	evt, err := eventbus.NewJSONEvent("", e, 0)
	if err != nil {
		return fmt.Errorf("failed to build event: %w", err)
	}
	return s.bus.Publish(ctx, eventbus.TopicArticleEvents.Base(), evt)
}

// PublishArticleScoreFailed reports a permanently unscorable article.
func (s *EventDispatcher) PublishArticleScoreFailed(ctx context.Context, articleID primitive.ObjectID, url, reason string) error {
	e := events.ArticleScoreFailedEvent{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.ArticleScoreFailed,
			Timestamp: time.Now(),
			Source:    "scorer",
			Version:   "1.0",
		},
		ArticleID: articleID,
		URL:       url,
		Reason:    reason,
	}
	evt, err := eventbus.NewJSONEvent("", e, 0)
	if err != nil {
		return fmt.Errorf("failed to build event: %w", err)
	}
	return s.bus.Publish(ctx, eventbus.TopicArticleEvents.Base(), evt)
}
