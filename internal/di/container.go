package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/ecosort/internal/adapters/httpserver"
	"github.com/mikey/ecosort/internal/allowlist"
	"github.com/mikey/ecosort/internal/config"
	"github.com/mikey/ecosort/internal/core"
	"github.com/mikey/ecosort/internal/factory"
	"github.com/mikey/ecosort/internal/imaging"
	"github.com/mikey/ecosort/internal/logging"
	"github.com/mikey/ecosort/internal/ports"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}

	// Register the oracle client
	if err := container.Provide(func(f *factory.LLMFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register classification service
	if err := container.Provide(core.NewClassificationService); err != nil {
		return nil, err
	}

	// Register image normalizer
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *imaging.Normalizer {
		imageCfg := cfg.GetImage()
		return imaging.NewNormalizer(imageCfg.MaxDimension, imageCfg.JPEGQuality, logger)
	}); err != nil {
		return nil, err
	}

	// Register origin allow-list
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *allowlist.Checker {
		origins := cfg.GetServer().AllowedOrigins
		return allowlist.NewChecker(origins, logger)
	}); err != nil {
		return nil, err
	}

	// Register API server
	if err := container.Provide(func(
		service *core.ClassificationService,
		normalizer *imaging.Normalizer,
		origins *allowlist.Checker,
		logger *zap.Logger,
		cfg *config.Config,
	) ports.APIServer {
		serverCfg := cfg.GetServer()
		return httpserver.NewServer(
			service,
			normalizer,
			origins,
			logger,
			serverCfg.ListenAddress,
			serverCfg.MaxBodyBytes,
			serverCfg.RateLimitPerMinute,
			serverCfg.TrustProxy,
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
