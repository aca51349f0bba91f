package main

import (
	"context"
	"time"

	"bias-lens/cmd/ingest/event/dispatcher"
	"bias-lens/config"
	"bias-lens/db"
	"bias-lens/repositories"
)

const recoveryBatchLimit = 50

// RecoveryService re-publishes score requests for articles stuck in
// pending, e.g. after a scorer outage or lost events.
type RecoveryService struct {
	articleRepo     *repositories.ArticleRepository
	eventDispatcher *dispatcher.EventDispatcher
}

func NewRecoveryService(eventDispatcher *dispatcher.EventDispatcher) *RecoveryService {
	return &RecoveryService{
		articleRepo:     repositories.NewArticleRepository(db.Database()),
		eventDispatcher: eventDispatcher,
	}
}

func (s *RecoveryService) RunOnce(ctx context.Context) error {
	cfg := config.GetConfig()
	cutoff := time.Now().Add(-time.Duration(cfg.PendingRetryAgeMin) * time.Minute)

	stale, err := s.articleRepo.FindPendingOlderThan(ctx, cutoff, recoveryBatchLimit)
	if err != nil {
		return err
	}
	for _, a := range stale {
		if err := s.eventDispatcher.RequestScore(ctx, a); err != nil {
			config.Logger.Errorf("failed to re-request score for %s: %v", a.URL, err)
			continue
		}
		config.Logger.Infof("re-requested bias score for stale pending article: %s", a.URL)
	}
	return nil
}
