package core

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ClassificationService is the core service for waste classification.
// It orchestrates the oracle call and an optional result cache; all
// classification intelligence lives behind the Classifier port.
type ClassificationService struct {
	classifier   Classifier
	cache        CacheRepository
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewClassificationService creates a new classification service
func NewClassificationService(
	classifier Classifier,
	cache CacheRepository,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *ClassificationService {
	return &ClassificationService{
		classifier:   classifier,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
	}
}

// cacheKey derives a cache key for a text subject. Image subjects are never
// cached: the payload is not a usable key and repeat uploads rarely match.
func cacheKey(subject Subject, dirty bool) (string, bool) {
	if subject.IsImage() {
		return "", false
	}
	key := strings.ToLower(strings.TrimSpace(subject.Text))
	if dirty {
		key += "|dirty"
	} else {
		key += "|clean"
	}
	return key, true
}

// Classify categorizes a waste item, consulting the cache for repeat text
// subjects before calling the oracle
func (s *ClassificationService) Classify(ctx context.Context, subject Subject, dirty bool) (*ClassificationResult, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}

	key, cacheable := cacheKey(subject, dirty)
	if s.cacheEnabled && cacheable {
		if result, ok := s.cache.Get(key); ok {
			s.logger.Debug("Cache hit for item",
				zap.String("item", subject.Text),
				zap.Bool("dirty", dirty))
			return result, nil
		}
	}

	result, err := s.classifier.Classify(ctx, subject, dirty)
	if err != nil {
		return nil, err
	}

	// The oracle sometimes omits echoing the item for text input
	if !subject.IsImage() && result.ItemDetected == "" {
		result.ItemDetected = subject.Text
	}

	if s.cacheEnabled && cacheable {
		s.cache.Set(key, result, s.cacheTTL)
	}

	return result, nil
}
