package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"bias-lens/cmd/scorer/event/dispatcher"
	"bias-lens/cmd/scorer/event/handler"
	"bias-lens/config"
	"bias-lens/db"
	"bias-lens/eventbus"
	"bias-lens/events"
	"bias-lens/repositories"
	"bias-lens/scorer"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MongoDB is only needed for the AI call audit log
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

	eventDispatcher := dispatcher.NewEventDispatcher(bus)
	biasScorer := scorer.NewGeminiScorer(cfg.GeminiModel, config.GetGeminiAPIKey())
	scoreQuota := scorer.NewQuotaLimiterFromConfig(cfg)
	aiLogRepo := repositories.NewAILogRepository(db.Database())
	eventHandler := handler.NewEventHandlers(eventDispatcher, biasScorer, scoreQuota, aiLogRepo)

	groupID := eventbus.GetGroupID() + "-scorer"

	subscribeRunner := func() error {
		return bus.Subscribe(ctx, groupID, eventbus.TopicArticleEvents, func(ctx context.Context, ev eventbus.Event) error {
			var peek struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(ev.Payload, &peek); err != nil {
				return err
			}
			switch events.EventType(peek.Type) {
			case events.ArticleScoreRequested:
				v, err := eventbus.DecodeJSON[events.ArticleScoreRequestedEvent](ev)
				if err != nil {
					return err
				}
				return eventHandler.HandleArticleScoreRequested(ctx, &v)
			default:
				// results are for the ingest service; commit and move on
				return nil
			}
		})
	}

	config.Logger.Info("starting scorer service with eventbus...")

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

	<-sigChan
	config.Logger.Info("received shutdown signal, shutting down scorer service...")

	cancel()
	wg.Wait()

	config.Logger.Info("scorer service stopped")
}
