package application

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/ports"
)

type Service struct {
	cfg    Config
	store  ports.Store
	cache  ports.Cache
	logger *slog.Logger
	nowFn  func() time.Time
	newID  func() string
}

type Dependencies struct {
	Config Config
	Store  ports.Store
	Cache  ports.Cache
	Logger *slog.Logger
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "M07-Social-Collab-Service"
	}
	if cfg.SocialCacheTTL <= 0 {
		cfg.SocialCacheTTL = 30 * time.Second
	}
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = 10
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:    cfg,
		store:  deps.Store,
		cache:  deps.Cache,
		logger: logger,
		nowFn:  func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}
