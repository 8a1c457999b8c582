// Package httpserver exposes the classification operations over HTTP. It
// enforces input shape, payload limits, origin policy and rate limits
// before anything reaches the oracle.
package httpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mikey/ecosort/internal/allowlist"
	"github.com/mikey/ecosort/internal/content"
	"github.com/mikey/ecosort/internal/core"
	"github.com/mikey/ecosort/internal/imaging"
)

const (
	rateLimitWindow  = time.Minute
	shutdownTimeout  = 10 * time.Second
	rateLimitMessage = "Rate limit reached. Please wait a minute."
)

// Server is the HTTP request boundary for the classification service
type Server struct {
	service      *core.ClassificationService
	normalizer   *imaging.Normalizer
	origins      *allowlist.Checker
	logger       *zap.Logger
	listenAddr   string
	maxBodyBytes int64
	trustProxy   bool
	limiter      *rateLimiter
	httpServer   *http.Server
}

// NewServer creates a new API server
func NewServer(
	service *core.ClassificationService,
	normalizer *imaging.Normalizer,
	origins *allowlist.Checker,
	logger *zap.Logger,
	listenAddr string,
	maxBodyBytes int64,
	rateLimitPerMinute int,
	trustProxy bool,
) *Server {
	return &Server{
		service:      service,
		normalizer:   normalizer,
		origins:      origins,
		logger:       logger,
		listenAddr:   listenAddr,
		maxBodyBytes: maxBodyBytes,
		trustProxy:   trustProxy,
		limiter:      newRateLimiter(rateLimitPerMinute, rateLimitWindow),
	}
}

// Start starts serving in the background
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: s.routes(),
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped unexpectedly", zap.Error(err))
		}
	}()

	s.logger.Info("API server listening", zap.String("address", s.listenAddr))
	return nil
}

// Stop drains in-flight requests and shuts the server down
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return s.origins.IsAllowed(origin)
		},
		AllowedMethods: []string{http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/learn", s.handleLearn)
		r.Get("/suggestions", s.handleSuggestions)

		// Only the classification routes carry the protective middleware
		r.Group(func(r chi.Router) {
			r.Use(s.checkOrigin)
			r.Use(s.rateLimit)
			r.Use(s.limitBody)
			r.Post("/classify-text", s.handleClassifyText)
			r.Post("/classify-image", s.handleClassifyImage)
		})
	})

	return r
}

// checkOrigin rejects browser requests from origins outside the allow-list.
// Requests without an Origin header pass.
func (s *Server) checkOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.origins.IsAllowed(r.Header.Get("Origin")) {
			s.writeError(w, core.ErrOriginRejected)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimit rejects requests past the per-client fixed-window ceiling
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r, s.trustProxy)) {
			s.writeError(w, core.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody caps the request body before any JSON parsing happens
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, content.LearnCards())
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, content.QuickSuggestions())
}

// classifyTextRequest is the body of POST /api/classify-text. IsDirty is a
// pointer so a missing or non-boolean flag is distinguishable from false.
type classifyTextRequest struct {
	Item    string `json:"item"`
	IsDirty *bool  `json:"isDirty"`
}

func (s *Server) handleClassifyText(w http.ResponseWriter, r *http.Request) {
	var req classifyTextRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if strings.TrimSpace(req.Item) == "" || req.IsDirty == nil {
		s.writeError(w, core.ErrInvalidInput)
		return
	}

	result, err := s.service.Classify(r.Context(), core.TextSubject(req.Item), *req.IsDirty)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// classifyImageRequest is the body of POST /api/classify-image
type classifyImageRequest struct {
	Base64  string `json:"base64"`
	Mime    string `json:"mime"`
	IsDirty bool   `json:"isDirty"`
}

func (s *Server) handleClassifyImage(w http.ResponseWriter, r *http.Request) {
	var req classifyImageRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if req.Base64 == "" || req.Mime == "" {
		writeErrorJSON(w, http.StatusBadRequest, "Missing image data")
		return
	}

	blob, err := base64.StdEncoding.DecodeString(req.Base64)
	if err != nil {
		s.writeError(w, core.ErrInvalidInput)
		return
	}

	// Bound the payload before it travels to the oracle
	normalized, err := s.normalizer.Normalize(blob)
	if err != nil {
		s.writeError(w, err)
		return
	}

	subject := core.ImageSubject(normalized.Data, normalized.MimeType)
	result, err := s.service.Classify(r.Context(), subject, req.IsDirty)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// decodeBody parses a JSON request body, distinguishing an oversized body
// from a malformed one
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return core.ErrPayloadTooLarge
		}
		return core.ErrInvalidInput
	}
	return nil
}

// writeError maps a failure to a client-safe response. Oracle failures are
// logged with their detail and surface as a generic message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		writeErrorJSON(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, core.ErrDecode):
		writeErrorJSON(w, http.StatusBadRequest, "Unable to decode image")
	case errors.Is(err, core.ErrPayloadTooLarge):
		writeErrorJSON(w, http.StatusRequestEntityTooLarge, "Payload too large")
	case errors.Is(err, core.ErrRateLimited):
		writeErrorJSON(w, http.StatusTooManyRequests, rateLimitMessage)
	case errors.Is(err, core.ErrOriginRejected):
		writeErrorJSON(w, http.StatusForbidden, "Origin not allowed")
	default:
		s.logger.Error("Classification failed", zap.Error(err))
		writeErrorJSON(w, http.StatusInternalServerError, "Classification failed.")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
