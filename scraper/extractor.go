package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tridentlabs/trident-rss/types"
)

// Extractor discovers candidate article links on a blog listing page.
//
// The matching rule is a deliberately loose heuristic tuned to common
// blog-grid markup: any anchor whose href contains "/blog/" is a candidate,
// regardless of surrounding structure.
type Extractor struct {
	resolver *Resolver
}

// NewExtractor creates a new link extractor
func NewExtractor(resolver *Resolver) *Extractor {
	return &Extractor{resolver: resolver}
}

// Extract scans listing HTML for blog-post anchors and returns the ordered,
// URL-deduplicated candidate list. Malformed or unusable anchors are skipped
// individually; the whole page always yields a sequence, possibly empty.
func (e *Extractor) Extract(listingHTML string) []types.CandidateLink {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		return nil
	}

	var links []types.CandidateLink
	seen := make(map[string]bool)

	doc.Find(`a[href*="/blog/"]`).Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		// Skip self-referential entries pointing at the listing itself.
		if href == "/blog" || href == "/blog/" {
			return
		}

		resolved := e.resolver.Resolve(href)
		if seen[resolved] {
			return
		}
		seen[resolved] = true

		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			title = strings.TrimSpace(anchor.Find("h1, h2, h3, h4").First().Text())
		}
		if title == "" {
			// No derivable title; discard rather than invent one.
			return
		}

		links = append(links, types.CandidateLink{Title: title, URL: resolved})
	})

	return links
}
