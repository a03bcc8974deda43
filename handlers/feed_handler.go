package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tridentlabs/trident-rss/scraper"
	"github.com/tridentlabs/trident-rss/utils"
)

/*
HandleFeed serves the generated RSS document for the configured blog.

Responses:
  - 200 OK: the RSS 2.0 XML document, with shared-cache hints.
  - 502 Bad Gateway: the listing page could not be fetched.
  - 500 Internal Server Error: any other failure.

The caller always receives either a complete, valid document or one of the
two plain-text error statuses; nothing is written before the pipeline has
finished.
*/
func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = utils.GenerateRequestID()
		w.Header().Set("X-Request-ID", requestID)
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.Logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"panic":      fmt.Sprintf("%v", rec),
			}).Error("Feed pipeline panicked")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}()

	doc, err := h.FeedBuilder.BuildFeed(r.Context())
	if err != nil {
		var upstream *scraper.UpstreamError
		if errors.As(err, &upstream) {
			if h.Reporter != nil {
				h.Reporter.RecordUpstreamResult(false)
			}
			h.Logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Listing fetch failed")
			http.Error(w, "Upstream blog fetch failed", http.StatusBadGateway)
			return
		}
		h.Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Feed build failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if h.Reporter != nil {
		h.Reporter.RecordUpstreamResult(true)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", h.CacheControl)
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, doc)
}
