package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEnricher() *Enricher {
	return NewEnricher(NewClient(5*time.Second, "trident-rss/1.0"), testLogger())
}

func articleServer(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, html)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestEnrichDateFromMetaProperty(t *testing.T) {
	server := articleServer(t, `<html><head>
		<meta property="article:published_time" content="2024-03-15T10:30:00Z"/>
	</head><body><time datetime="2020-01-01">old</time></body></html>`)

	ts, ok := newTestEnricher().EnrichDate(context.Background(), server.URL)

	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), ts.UTC())
}

func TestEnrichDateFromMetaName(t *testing.T) {
	server := articleServer(t, `<html><head>
		<meta name="article:published_time" content="2024-03-15"/>
	</head><body></body></html>`)

	ts, ok := newTestEnricher().EnrichDate(context.Background(), server.URL)

	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ts.UTC())
}

func TestEnrichDateInvalidMetaFallsBackToTimeElement(t *testing.T) {
	server := articleServer(t, `<html><head>
		<meta property="article:published_time" content="not a date"/>
	</head><body><time datetime="2024-02-01T08:00:00Z">Feb 1</time></body></html>`)

	ts, ok := newTestEnricher().EnrichDate(context.Background(), server.URL)

	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC), ts.UTC())
}

func TestEnrichDateFromTimeElementText(t *testing.T) {
	server := articleServer(t, `<html><body>
		<time>January 5, 2024</time>
	</body></html>`)

	ts, ok := newTestEnricher().EnrichDate(context.Background(), server.URL)

	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), ts.UTC())
}

func TestEnrichDateAbsentWhenNothingParses(t *testing.T) {
	server := articleServer(t, `<html><body>
		<time>sometime last week</time>
	</body></html>`)

	_, ok := newTestEnricher().EnrichDate(context.Background(), server.URL)

	assert.False(t, ok)
}

func TestEnrichDateAbsentOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	_, ok := newTestEnricher().EnrichDate(context.Background(), server.URL)

	assert.False(t, ok)
}

func TestEnrichDateAbsentOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, ok := newTestEnricher().EnrichDate(context.Background(), server.URL)

	assert.False(t, ok)
}

func TestEnrichDateSendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `<html><body><time datetime="2024-01-01">x</time></body></html>`)
	}))
	t.Cleanup(server.Close)

	_, ok := newTestEnricher().EnrichDate(context.Background(), server.URL)

	require.True(t, ok)
	assert.Equal(t, "trident-rss/1.0", gotUA)
}
