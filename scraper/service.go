package scraper

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tridentlabs/trident-rss/feed"
	"github.com/tridentlabs/trident-rss/monitoring"
	"github.com/tridentlabs/trident-rss/types"
)

// Options configures the scraping pipeline.
type Options struct {
	ListingURL        string
	SiteOrigin        string
	UserAgent         string
	FetchTimeout      time.Duration
	MaxItems          int
	EnrichConcurrency int
	Channel           types.ChannelMetadata
}

// Service runs the full pipeline: fetch listing, extract links, enrich with
// publication dates, render the RSS document. All entities live and die
// within one BuildFeed call; nothing is cached across requests.
type Service struct {
	client     *Client
	extractor  *Extractor
	scheduler  *Scheduler
	channel    types.ChannelMetadata
	listingURL string
	maxItems   int
	logger     *logrus.Logger
	now        func() time.Time
}

// NewService wires the pipeline components from the given options
func NewService(opts Options, logger *logrus.Logger) *Service {
	client := NewClient(opts.FetchTimeout, opts.UserAgent)
	resolver := NewResolver(opts.SiteOrigin)
	return &Service{
		client:     client,
		extractor:  NewExtractor(resolver),
		scheduler:  NewScheduler(NewEnricher(client, logger), opts.EnrichConcurrency),
		channel:    opts.Channel,
		listingURL: opts.ListingURL,
		maxItems:   opts.MaxItems,
		logger:     logger,
		now:        time.Now,
	}
}

// Client returns the outbound HTTP client, shared with readiness probes.
func (s *Service) Client() *Client {
	return s.client
}

// BuildFeed produces the rendered RSS document for the configured blog.
// A listing fetch failure is returned as *UpstreamError; per-article
// enrichment failures never surface.
func (s *Service) BuildFeed(ctx context.Context) (string, error) {
	start := time.Now()
	ctx, span := monitoring.CreateSpan(ctx, "scraper.BuildFeed")
	defer span.End()

	body, err := s.client.Get(ctx, s.listingURL)
	if err != nil {
		monitoring.RecordListingFetch("error", time.Since(start).Seconds())
		monitoring.SetSpanError(span, err)
		s.logger.WithFields(logrus.Fields{
			"listing_url": s.listingURL,
			"error":       err.Error(),
		}).Error("Listing page fetch failed")
		return "", err
	}
	monitoring.RecordListingFetch("success", time.Since(start).Seconds())

	links := s.extractor.Extract(string(body))
	monitoring.RecordLinksExtracted(len(links))
	if len(links) > s.maxItems {
		links = links[:s.maxItems]
	}

	items := s.scheduler.EnrichAll(ctx, links)
	doc := feed.Render(s.channel, items, s.now())

	monitoring.SetSpanAttributes(span, map[string]interface{}{
		"listing_url": s.listingURL,
		"items":       len(items),
	})
	s.logger.WithFields(logrus.Fields{
		"listing_url": s.listingURL,
		"items":       len(items),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Feed built")

	return doc, nil
}
