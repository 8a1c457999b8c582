package core

import (
	"context"
	"time"
)

// Classifier defines the interface for the external classification oracle
type Classifier interface {
	// Classify categorizes a waste item into a disposal category
	Classify(ctx context.Context, subject Subject, dirty bool) (*ClassificationResult, error)
}

// CacheRepository defines the interface for caching classification results
type CacheRepository interface {
	// Get retrieves a cached result for a key
	Get(key string) (*ClassificationResult, bool)

	// Set stores a result under a key with a time-to-live
	Set(key string, result *ClassificationResult, ttl time.Duration)
}
