/*
Package handlers provides HTTP handlers with dependency injection support.

The Handler struct carries all service dependencies, avoiding globals and
keeping the feed pipeline testable behind a small interface.
*/
package handlers

import (
	"context"

	"github.com/sirupsen/logrus"
)

// FeedBuilder produces a rendered RSS document for the configured blog.
type FeedBuilder interface {
	BuildFeed(ctx context.Context) (string, error)
}

// UpstreamReporter receives the outcome of listing fetches for alerting.
// Optional; a nil reporter is ignored.
type UpstreamReporter interface {
	RecordUpstreamResult(ok bool)
}

// Handler contains all service dependencies for HTTP handlers
type Handler struct {
	FeedBuilder  FeedBuilder
	Logger       *logrus.Logger
	CacheControl string
	Reporter     UpstreamReporter
}

// NewHandler creates a new handler instance with injected dependencies
func NewHandler(builder FeedBuilder, logger *logrus.Logger, cacheControl string) *Handler {
	return &Handler{
		FeedBuilder:  builder,
		Logger:       logger,
		CacheControl: cacheControl,
	}
}
