package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"bias-lens/cmd/ingest/event/dispatcher"
	"bias-lens/cmd/ingest/event/handler"
	"bias-lens/cluster"
	"bias-lens/compare"
	"bias-lens/config"
	"bias-lens/db"
	"bias-lens/eventbus"
	"bias-lens/events"
	"bias-lens/ingest"
	"bias-lens/models"
	"bias-lens/repositories"
	"bias-lens/similarity"
)

const ingestInterval = time.Hour

func main() {
	config.InitApp()
	cfg := config.GetConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Init(ctx); err != nil {
		config.Logger.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}

	brokers := eventbus.GetBrokers()
	if err := eventbus.EnsureTopics(brokers, eventbus.TopicArticleEvents, 3); err != nil {
		config.Logger.Errorf("failed to ensure eventbus topics: %v", err)
	}

	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		config.Logger.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	articleRepo := repositories.NewArticleRepository(db.Database())
	clusterRepo := repositories.NewClusterRepository(db.Database())

	eventDispatcher := dispatcher.NewEventDispatcher(bus)
	clusterer := cluster.NewClusterer(similarity.NewEngine(), clusterRepo, cfg.Clustering.SimilarityThreshold)
	pipeline := ingest.NewPipeline(ingest.PipelineDeps{
		Articles:   articleRepo,
		Clusters:   clusterRepo,
		Clusterer:  clusterer,
		Comparator: compare.NewComparator(),
		Requester:  eventDispatcher,
		Weights: models.BiasWeights{
			Sentiment: cfg.BiasWeights.Sentiment,
			Emotional: cfg.BiasWeights.Emotional,
			Factual:   cfg.BiasWeights.Factual,
			Political: cfg.BiasWeights.Political,
		},
		WindowDays: cfg.Clustering.WindowDays,
	})

	ingestService := NewIngestService(pipeline)
	recoveryService := NewRecoveryService(eventDispatcher)
	eventHandler := handler.NewEventHandlers(pipeline, articleRepo)

	groupID := eventbus.GetGroupID()

	// Score results come back through the same topic the requests go
	// out on; peek the type before decoding.
	subscribeRunner := func() error {
		return bus.Subscribe(ctx, groupID, eventbus.TopicArticleEvents, func(ctx context.Context, ev eventbus.Event) error {
			var peek struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(ev.Payload, &peek); err != nil {
				return err
			}
			switch events.EventType(peek.Type) {
			case events.ArticleScored:
				v, err := eventbus.DecodeJSON[events.ArticleScoredEvent](ev)
				if err != nil {
					return err
				}
				return eventHandler.HandleArticleScored(ctx, &v)
			case events.ArticleScoreFailed:
				v, err := eventbus.DecodeJSON[events.ArticleScoreFailedEvent](ev)
				if err != nil {
					return err
				}
				return eventHandler.HandleArticleScoreFailed(ctx, &v)
			default:
				// requests are for the scorer worker; commit and move on
				return nil
			}
		})
	}

	config.Logger.Info("starting ingest service with eventbus...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := subscribeRunner(); err != nil && err != context.Canceled {
			config.Logger.Errorf("eventbus subscribe error: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runCycle := func() {
			if err := ingestService.RunOnce(ctx); err != nil {
				config.Logger.Errorf("ingest cycle error: %v", err)
			}
			if err := recoveryService.RunOnce(ctx); err != nil {
				config.Logger.Errorf("recovery pass error: %v", err)
			}
		}
		runCycle()
		ticker := time.NewTicker(ingestInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCycle()
			}
		}
	}()

	<-sigChan
	config.Logger.Info("received shutdown signal, shutting down ingest service...")

	cancel()
	wg.Wait()

	config.Logger.Info("ingest service stopped")
}
