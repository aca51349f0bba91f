package main

import (
	"context"
	"time"

	"bias-lens/config"
	"bias-lens/db"
	"bias-lens/ingest"
	"bias-lens/models"
	"bias-lens/repositories"
	"bias-lens/scraper"
)

const batchWorkers = 4

// IngestService runs one ingestion cycle: mirror configured sources
// into storage, fetch fresh articles from each of them and push the
// drafts through the pipeline.
type IngestService struct {
	pipeline   *ingest.Pipeline
	sourceRepo *repositories.SourceRepository
}

func NewIngestService(pipeline *ingest.Pipeline) *IngestService {
	return &IngestService{
		pipeline:   pipeline,
		sourceRepo: repositories.NewSourceRepository(db.Database()),
	}
}

func (s *IngestService) RunOnce(ctx context.Context) error {
	cfg := config.GetConfig()
	if len(cfg.Sources) == 0 {
		config.Logger.Warn("no sources configured in config.yaml (key: sources)")
		return nil
	}

	for _, src := range cfg.Sources {
		ms := &models.Source{
			Name:       src.Name,
			URL:        src.URL,
			RSSURL:     src.RSSURL,
			SourceType: src.SourceType,
			Language:   src.Language,
		}
		if _, err := s.sourceRepo.UpsertByName(ctx, ms); err != nil {
			config.Logger.Errorf("failed to upsert source %s: %v", src.Name, err)
		}
	}

	for _, src := range cfg.Sources {
		start := time.Now()
		drafts, err := scraper.ForSource(src).Fetch(ctx, cfg.SourceFetchLimit)
		if err != nil {
			config.Logger.Errorf("fetch error for %s: %v", src.Name, err)
			continue
		}

		summary := s.pipeline.ProcessBatch(ctx, drafts, batchWorkers)
		config.Logger.Infof("ingest cycle for %s done in %s: processed=%d skipped_malformed=%d pending_analysis=%d failed_store=%d",
			src.Name, time.Since(start).Round(time.Millisecond),
			summary.Processed, summary.SkippedMalformed, summary.PendingAnalysis, summary.FailedStore)
	}
	return nil
}
