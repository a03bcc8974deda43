package scraper

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tridentlabs/trident-rss/feed"
	"github.com/tridentlabs/trident-rss/types"
)

// DateEnricher resolves a publication timestamp for a single article URL.
// The second return value reports whether a date was found.
type DateEnricher interface {
	EnrichDate(ctx context.Context, articleURL string) (time.Time, bool)
}

// Scheduler runs the date enricher over a candidate list with a fixed-size
// worker pool, bounding the number of simultaneous outbound article fetches.
type Scheduler struct {
	enricher    DateEnricher
	concurrency int
	now         func() time.Time
}

// NewScheduler creates a scheduler with the given worker count
func NewScheduler(enricher DateEnricher, concurrency int) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{
		enricher:    enricher,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// EnrichAll attaches a pubDate to every candidate, preserving input order and
// length. Workers claim indexes off a shared atomic cursor, so at most
// concurrency fetches are in flight at once and each worker writes only the
// slots it claimed. Enrichment failure degrades to the current wall-clock
// time; no item is ever dropped.
func (s *Scheduler) EnrichAll(ctx context.Context, links []types.CandidateLink) []types.FeedItem {
	items := make([]types.FeedItem, len(links))
	if len(links) == 0 {
		return items
	}

	workers := s.concurrency
	if workers > len(links) {
		workers = len(links)
	}

	var cursor atomic.Int64
	cursor.Store(-1)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx := int(cursor.Add(1))
				if idx >= len(links) {
					return
				}
				ts, ok := s.enricher.EnrichDate(ctx, links[idx].URL)
				if !ok {
					ts = s.now()
				}
				items[idx] = types.FeedItem{
					CandidateLink: links[idx],
					PubDate:       feed.FormatDate(ts),
				}
			}
		}()
	}
	wg.Wait()

	return items
}
