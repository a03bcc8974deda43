// Package types contains shared types used across the trident-rss backend
package types

// CandidateLink is a discovered, deduplicated article reference taken from
// the blog listing page. Immutable once produced by the extractor.
type CandidateLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// FeedItem is a CandidateLink with a publication date attached. PubDate is
// always set after enrichment, falling back to the enrichment wall-clock
// time when no date could be extracted from the article page.
type FeedItem struct {
	CandidateLink
	PubDate string `json:"pub_date"` // RFC 1123 text, GMT
}

// ChannelMetadata describes the RSS channel. Supplied by configuration and
// constant for the lifetime of one request.
type ChannelMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}
