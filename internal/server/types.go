// Package server exposes the snippet classifier over HTTP: JSON and
// multipart classification endpoints, a WebSocket stream, Prometheus
// metrics, and per-client rate limiting.
package server

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glotscan/glot/internal/classifier"
	"github.com/glotscan/glot/internal/models"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	classifier      *classifier.Classifier
	corsOrigin      string
	maxSnippetBytes int64
	timeoutSec      int
	rateLimiter     *RateLimiter
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	RequestsPerHour   int
	MaxRequestsPerDay int
	MaxDataPerDay     int64 // bytes of snippet data per client per day
}

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	CORSOrigin   string
	MaxSnippetKB int64
	TimeoutSec   int
	ModelPath    string
	ModelsDir    string
	RateLimit    RateLimitConfig
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type LanguageInfo struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

type LanguagesResponse struct {
	Languages []LanguageInfo `json:"languages"`
	Count     int            `json:"count"`
}

type ModelResponse struct {
	Model map[string]interface{} `json:"model"`
}

// ClassifyRequest is the JSON body for classification endpoints.
type ClassifyRequest struct {
	Snippet string `json:"snippet"`
	Rank    bool   `json:"rank,omitempty"`
}

type ClassifyResult struct {
	Language   string             `json:"language"`
	Name       string             `json:"name"`
	Confidence float64            `json:"confidence"`
	Scores     []classifier.Score `json:"scores,omitempty"`
	DurationMs int64              `json:"duration_ms"`
}

type ClassifyResponse struct {
	Success bool            `json:"success"`
	Result  *ClassifyResult `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// BatchClassifyRequest carries multiple snippets in one request.
type BatchClassifyRequest struct {
	Snippets []string `json:"snippets"`
	Rank     bool     `json:"rank,omitempty"`
}

type BatchClassifyResponse struct {
	Success bool             `json:"success"`
	Results []ClassifyResult `json:"results,omitempty"`
	Count   int              `json:"count"`
	Error   string           `json:"error,omitempty"`
}

// NewServer creates a new classification server instance.
func NewServer(config Config) (*Server, error) {
	var model *classifier.Model
	var err error

	if config.ModelPath != "" {
		path := models.ResolveModelPath(config.ModelsDir, config.ModelPath)
		if err := models.ValidateModelExists(path); err != nil {
			return nil, err
		}
		model, err = classifier.LoadModel(path)
	} else {
		model, err = classifier.DefaultModel()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	c, err := classifier.New(model)
	if err != nil {
		return nil, err
	}

	s := &Server{
		classifier:      c,
		corsOrigin:      config.CORSOrigin,
		maxSnippetBytes: config.MaxSnippetKB * 1024,
		timeoutSec:      config.TimeoutSec,
	}

	if config.RateLimit.Enabled {
		s.rateLimiter = NewRateLimiter(
			config.RateLimit.RequestsPerMinute,
			config.RateLimit.RequestsPerHour,
			config.RateLimit.MaxRequestsPerDay,
			config.RateLimit.MaxDataPerDay,
		)
	}

	return s, nil
}

// Classifier exposes the server's classifier for handlers and tests.
func (s *Server) Classifier() *classifier.Classifier {
	return s.classifier
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/languages", s.corsMiddleware(s.languagesHandler))
	mux.HandleFunc("/model", s.corsMiddleware(s.modelHandler))
	mux.HandleFunc("/classify", s.corsMiddleware(s.rateLimitMiddleware(s.classifyHandler)))
	mux.HandleFunc("/classify/batch", s.corsMiddleware(s.rateLimitMiddleware(s.classifyBatchHandler)))
	mux.HandleFunc("/ws/classify", s.classifyWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
