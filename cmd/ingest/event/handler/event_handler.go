package handler

import (
	"context"

	"bias-lens/config"
	"bias-lens/events"
	"bias-lens/ingest"
	"bias-lens/models"
)

type EventHandlers struct {
	pipeline *ingest.Pipeline
	articles ingest.ArticleStore
}

func NewEventHandlers(pipeline *ingest.Pipeline, articles ingest.ArticleStore) *EventHandlers {
	return &EventHandlers{pipeline: pipeline, articles: articles}
}

// HandleArticleScored attaches the primitive scores to the article,
// derives the overall score and refreshes the cluster report.
func (h *EventHandlers) HandleArticleScored(ctx context.Context, event *events.ArticleScoredEvent) error {
	config.Logger.Infof("handling ArticleScored event for: %s", event.URL)
	if err := h.pipeline.AttachScore(ctx, event.ArticleID, event.Vector); err != nil {
		config.Logger.Errorf("failed to attach score for %s: %v", event.URL, err)
		return err
	}
	return nil
}

// HandleArticleScoreFailed moves the article back to the unscored
// state. Unscorable articles stay visible in comparison reports as
// unanalyzed members instead of waiting forever as pending.
func (h *EventHandlers) HandleArticleScoreFailed(ctx context.Context, event *events.ArticleScoreFailedEvent) error {
	config.Logger.Warnf("article score failed for %s: %s", event.URL, event.Reason)
	return h.articles.UpdateBias(ctx, event.ArticleID, models.BiasAbsent, nil)
}
