package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tridentlabs/trident-rss/types"
)

func newTestService(t *testing.T, server *httptest.Server, maxItems int) *Service {
	t.Helper()
	return NewService(Options{
		ListingURL:        server.URL + "/blog",
		SiteOrigin:        server.URL,
		UserAgent:         "trident-rss/1.0",
		FetchTimeout:      5 * time.Second,
		MaxItems:          maxItems,
		EnrichConcurrency: 5,
		Channel: types.ChannelMetadata{
			Title:       "Trident Blog",
			Description: "Latest posts from the Trident blog",
			Link:        server.URL + "/blog",
		},
	}, testLogger())
}

func blogSite(t *testing.T, postCount int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString("<html><body>")
		for i := 0; i < postCount; i++ {
			fmt.Fprintf(&b, `<a href="/blog/post-%d">Post %d</a>`, i, i)
		}
		b.WriteString("</body></html>")
		fmt.Fprint(w, b.String())
	})
	mux.HandleFunc("/blog/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<meta property="article:published_time" content="2024-03-15T10:30:00Z"/>
		</head><body>article</body></html>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestBuildFeedEndToEnd(t *testing.T) {
	server := blogSite(t, 3)
	service := newTestService(t, server, 15)

	doc, err := service.BuildFeed(context.Background())
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(doc)
	require.NoError(t, err)
	require.Len(t, parsed.Items, 3)
	assert.Equal(t, "Post 0", parsed.Items[0].Title)
	assert.Equal(t, server.URL+"/blog/post-0", parsed.Items[0].Link)
	assert.Contains(t, doc, "<pubDate>Fri, 15 Mar 2024 10:30:00 GMT</pubDate>")
}

func TestBuildFeedTruncatesToMaxItems(t *testing.T) {
	server := blogSite(t, 40)
	service := newTestService(t, server, 15)

	doc, err := service.BuildFeed(context.Background())
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(doc)
	require.NoError(t, err)
	require.Len(t, parsed.Items, 15)
	// The first fifteen links in document order survive.
	assert.Equal(t, "Post 0", parsed.Items[0].Title)
	assert.Equal(t, "Post 14", parsed.Items[14].Title)
}

func TestBuildFeedEmptyListing(t *testing.T) {
	server := blogSite(t, 0)
	service := newTestService(t, server, 15)

	doc, err := service.BuildFeed(context.Background())
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(doc)
	require.NoError(t, err)
	assert.Equal(t, "Trident Blog", parsed.Title)
	assert.Empty(t, parsed.Items)
}

func TestBuildFeedListingFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)
	service := newTestService(t, server, 15)

	_, err := service.BuildFeed(context.Background())

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
}

func TestBuildFeedEnrichmentFailureDoesNotFail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/blog/broken">Broken Post</a></body></html>`)
	})
	mux.HandleFunc("/blog/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	service := newTestService(t, server, 15)

	before := time.Now().UTC().Truncate(time.Second)
	doc, err := service.BuildFeed(context.Background())
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(doc)
	require.NoError(t, err)
	require.Len(t, parsed.Items, 1)
	require.NotNil(t, parsed.Items[0].PublishedParsed)
	// Fallback date is the build wall clock.
	assert.False(t, parsed.Items[0].PublishedParsed.Before(before))
}

func TestUpstreamErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &UpstreamError{URL: "https://t.dev/blog", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "https://t.dev/blog")
}
