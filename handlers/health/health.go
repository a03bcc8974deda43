// Package health provides health check handlers for the trident-rss backend
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tridentlabs/trident-rss/middleware"
	"github.com/tridentlabs/trident-rss/utils"
)

// UpstreamProber checks that the scraped blog is reachable.
type UpstreamProber interface {
	Head(ctx context.Context, rawURL string) error
}

// HealthStatus represents the health check response structure
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
}

// Handler contains dependencies for health handlers
type Handler struct {
	Prober     UpstreamProber
	ListingURL string
	Logger     *logrus.Logger
}

// NewHandler creates a new health handler
func NewHandler(prober UpstreamProber, listingURL string, logger *logrus.Logger) *Handler {
	return &Handler{
		Prober:     prober,
		ListingURL: listingURL,
		Logger:     logger,
	}
}

// HandleHealthCheck provides a health check endpoint for monitoring
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = utils.GenerateRequestID()
		w.Header().Set("X-Request-ID", requestID)
	}

	health := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   "1.0.0",
		Services:  make(map[string]string),
		Uptime:    time.Since(startTime).String(),
	}

	// Check upstream blog connectivity
	if err := h.checkUpstreamHealth(r.Context()); err != nil {
		health.Status = "unhealthy"
		health.Services["upstream_blog"] = "unhealthy: " + err.Error()
		h.Logger.WithFields(logrus.Fields{
			"service": "upstream_blog",
			"error":   err.Error(),
		}).Error("Health check failed for upstream blog")
	} else {
		health.Services["upstream_blog"] = "healthy"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(health)
}

// HandleLivenessCheck provides a simple liveness probe
func (h *Handler) HandleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// HandleReadinessCheck provides a readiness probe
func (h *Handler) HandleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = utils.GenerateRequestID()
	}

	// Not ready until the blog we scrape answers
	if err := h.checkUpstreamHealth(r.Context()); err != nil {
		middleware.RespondServiceUnavailable(w, err, requestID)
		return
	}

	response := map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
		"services": map[string]string{
			"upstream_blog": "ready",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// checkUpstreamHealth checks if the blog listing page is reachable
func (h *Handler) checkUpstreamHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return h.Prober.Head(ctx, h.ListingURL)
}

var startTime = time.Now()
