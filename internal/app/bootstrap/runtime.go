package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/adapters/cache"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/adapters/docstore"
	eventadapter "github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/adapters/events"
	httpadapter "github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/adapters/http"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/application"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/contracts"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	outbox     *eventadapter.OutboxWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	store := docstore.NewFileStore(cfg.DataFilePath, cfg.StoreTimeout)
	outboxRepo := docstore.NewOutboxRepository(store)

	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	cacheStore := cache.NewRedisCache(redisClient)

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:     cfg.ServiceID,
			SocialCacheTTL:  cfg.SocialCacheTTL,
			SuggestionLimit: cfg.SuggestionLimit,
		},
		Store:  store,
		Cache:  cacheStore,
		Logger: logger,
	})

	handler := httpadapter.NewHandler(service)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	var closers []io.Closer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			contracts.EventUserFollowed:      cfg.KafkaTopicSocial,
			contracts.EventUserUnfollowed:    cfg.KafkaTopicSocial,
			contracts.EventCollabRequested:   cfg.KafkaTopicCollab,
			contracts.EventCollabAccepted:    cfg.KafkaTopicCollab,
			contracts.EventCollabDeclined:    cfg.KafkaTopicCollab,
			contracts.EventCampaignRequested: cfg.KafkaTopicCampaign,
			contracts.EventCampaignApproved:  cfg.KafkaTopicCampaign,
			contracts.EventCampaignRejected:  cfg.KafkaTopicCampaign,
		})
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}
	}
	outbox := eventadapter.NewOutboxWorker(logger, outboxRepo, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		outbox:     outbox,
		cleanupFn: func(ctx context.Context) {
			for _, closer := range closers {
				_ = closer.Close()
			}
			_ = redisClient.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)

	go func() {
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		r.cleanupFn(context.Background())
		return nil
	case err := <-errCh:
		r.cleanupFn(context.Background())
		return err
	}
}
