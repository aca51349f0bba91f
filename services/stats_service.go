package services

import (
	"context"
	"time"

	"bias-lens/repositories"
)

// StatsService aggregates per-source bias figures for the read API.
type StatsService struct {
	repo *repositories.ArticleRepository
}

func NewStatsService(repo *repositories.ArticleRepository) *StatsService {
	return &StatsService{repo: repo}
}

// SourceStats returns per-source aggregates over [from, to]. A zero
// `to` means "now"; a zero `from` defaults to 30 days before `to`.
func (s *StatsService) SourceStats(ctx context.Context, from, to time.Time) ([]repositories.SourceStat, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	return s.repo.AggregateSourceStats(ctx, from, to)
}
