package handler

import (
	"context"
	"errors"

	"bias-lens/cmd/scorer/event/dispatcher"
	"bias-lens/config"
	"bias-lens/events"
	"bias-lens/repositories"
	"bias-lens/scorer"
)

type EventHandlers struct {
	eventDispatcher *dispatcher.EventDispatcher
	biasScorer      scorer.BiasScorer
	scoreQuota      *scorer.QuotaLimiter
	aiLogRepo       *repositories.AILogRepository
}

func NewEventHandlers(eventDispatcher *dispatcher.EventDispatcher, biasScorer scorer.BiasScorer, scoreQuota *scorer.QuotaLimiter, aiLogRepo *repositories.AILogRepository) *EventHandlers {
	return &EventHandlers{
		eventDispatcher: eventDispatcher,
		biasScorer:      biasScorer,
		scoreQuota:      scoreQuota,
		aiLogRepo:       aiLogRepo,
	}
}

// HandleArticleScoreRequested analyzes one article and publishes the
// result. Quota exhaustion returns the event to the retry schedule so
// it is scored when the budget resets.
func (h *EventHandlers) HandleArticleScoreRequested(ctx context.Context, event *events.ArticleScoreRequestedEvent) error {
	allowed, err := h.scoreQuota.WaitAndReserve(ctx)
	if err != nil {
		config.Logger.Errorf("failed to apply score quota for %s: %v", event.URL, err)
		return err
	}
	if !allowed {
		config.Logger.Warnf("daily score quota exceeded, deferring %s", event.URL)
		return errors.New("daily score quota exceeded")
	}

	config.Logger.Infof("handling ArticleScoreRequested event for: %s", event.URL)

	vector, reqLog, err := h.biasScorer.Score(ctx, event.Title+"\n\n"+event.Body, event.Language)
	if reqLog != nil {
		reqLog.ArticleURL = event.URL
		if logErr := h.aiLogRepo.Insert(ctx, reqLog); logErr != nil {
			config.Logger.Errorf("failed to insert AI log for %s: %v", event.URL, logErr)
		}
	}
	if errors.Is(err, scorer.ErrUnscorable) {
		config.Logger.Warnf("article unscorable: %s", event.URL)
		return h.eventDispatcher.PublishArticleScoreFailed(ctx, event.ArticleID, event.URL, err.Error())
	}
	if err != nil {
		config.Logger.Errorf("failed to score %s: %v", event.URL, err)
		return err
	}

	config.Logger.Infof("bias analysis completed for %s - model:%s sentiment:%.2f lean:%.2f emotional:%.2f factual:%.2f",
		event.URL, vector.ModelName, vector.Sentiment, vector.PoliticalLean, vector.EmotionalLanguage, vector.FactualVsOpinion)

	return h.eventDispatcher.PublishArticleScored(ctx, event.ArticleID, event.URL, *vector)
}
