package allowlist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker provides functionality to check request origins against a
// configured allow-list
type Checker struct {
	origins []string
	logger  *zap.Logger
}

// NewChecker creates a new origin allow-list checker
func NewChecker(origins []string, logger *zap.Logger) *Checker {
	// Normalize origins (lowercase, no trailing slash)
	normalized := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
		if origin != "" {
			normalized = append(normalized, origin)
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized origin allow-list", zap.Strings("origins", normalized))
	}

	return &Checker{
		origins: normalized,
		logger:  logger,
	}
}

// IsAllowed checks whether a request origin may use the API. Requests
// without an Origin header (same-origin or non-browser callers) pass.
func (c *Checker) IsAllowed(origin string) bool {
	if origin == "" {
		return true
	}

	origin = strings.TrimSuffix(strings.ToLower(origin), "/")
	for _, allowed := range c.origins {
		if allowed == origin {
			return true
		}
	}

	if c.logger != nil {
		c.logger.Debug("Origin rejected", zap.String("origin", origin))
	}
	return false
}
