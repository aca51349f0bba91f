package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bias-lens/eventbus"
	"bias-lens/events"
	"bias-lens/models"
)

// EventDispatcher publishes article events for the ingest service.
type EventDispatcher struct {
	bus eventbus.EventBus
}

func NewEventDispatcher(bus eventbus.EventBus) *EventDispatcher {
	return &EventDispatcher{bus: bus}
}

// RequestScore publishes an ArticleScoreRequested event. The article
// body travels in the payload so the scorer worker stays database-free.
func (s *EventDispatcher) RequestScore(ctx context.Context, article *models.Article) error {
	e := events.ArticleScoreRequestedEvent{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.ArticleScoreRequested,
			Timestamp: time.Now(),
			Source:    "ingest",
			Version:   "1.0",
		},
		ArticleID:  article.ID,
		URL:        article.URL,
		Title:      article.Title,
		Body:       article.Body,
		Language:   article.Language,
		SourceName: article.SourceName,
	}
	evt, err := eventbus.NewJSONEvent("", e, 0)
	if err != nil {
		return fmt.Errorf("failed to build event: %w", err)
	}
	return s.bus.Publish(ctx, eventbus.TopicArticleEvents.Base(), evt)
}
