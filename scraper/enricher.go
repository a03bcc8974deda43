package scraper

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/tridentlabs/trident-rss/monitoring"
)

// timestampLayouts are tried in order when parsing date text scraped from
// article pages. Upstream markup varies; RFC 3339 covers the common
// article:published_time case.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2, 2006",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Enricher attaches a publication date to a single article by fetching its
// page and inspecting two candidate locations in priority order: the
// article:published_time meta element, then the first time element.
type Enricher struct {
	client *Client
	logger *logrus.Logger
}

// NewEnricher creates a new date enricher
func NewEnricher(client *Client, logger *logrus.Logger) *Enricher {
	return &Enricher{client: client, logger: logger}
}

// EnrichDate fetches articleURL and extracts a publication timestamp.
// Enrichment is best effort: every failure, from transport errors to
// unparseable dates, maps to ok=false and never propagates.
func (e *Enricher) EnrichDate(ctx context.Context, articleURL string) (time.Time, bool) {
	start := time.Now()
	monitoring.EnrichmentStarted()
	defer monitoring.EnrichmentFinished()

	body, err := e.client.Get(ctx, articleURL)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"article_url": articleURL,
			"error":       err.Error(),
		}).Debug("Article fetch failed, publication date unavailable")
		monitoring.RecordEnrichment("fetch_error", time.Since(start).Seconds())
		return time.Time{}, false
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		monitoring.RecordEnrichment("parse_error", time.Since(start).Seconds())
		return time.Time{}, false
	}

	meta := doc.Find(`meta[property="article:published_time"]`).First()
	if meta.Length() == 0 {
		meta = doc.Find(`meta[name="article:published_time"]`).First()
	}
	if content, ok := meta.Attr("content"); ok {
		if ts, parsed := parseTimestamp(content); parsed {
			monitoring.RecordEnrichment("meta", time.Since(start).Seconds())
			return ts, true
		}
		// An unparseable meta value falls through to the time element rule
		// instead of propagating an invalid timestamp.
	}

	timeEl := doc.Find("time").First()
	if timeEl.Length() > 0 {
		value, ok := timeEl.Attr("datetime")
		if !ok || strings.TrimSpace(value) == "" {
			value = timeEl.Text()
		}
		if ts, parsed := parseTimestamp(value); parsed {
			monitoring.RecordEnrichment("time_element", time.Since(start).Seconds())
			return ts, true
		}
	}

	monitoring.RecordEnrichment("absent", time.Since(start).Seconds())
	return time.Time{}, false
}
