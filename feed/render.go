/*
Package feed assembles RSS 2.0 documents from scraped blog items.

The renderer builds the document directly rather than through encoding/xml:
the output contract pins the exact entity set used for escaping (&amp;, &lt;,
&gt;, &quot;, &apos;) and the exact element order, and the input is a flat,
fully-controlled structure.
*/
package feed

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tridentlabs/trident-rss/types"
)

// escaper applies the XML escape set to user- or remote-supplied text.
// Single-character patterns, one pass, never rescans its own output.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape escapes a text value for embedding in an XML element.
func Escape(s string) string {
	return escaper.Replace(s)
}

// FormatDate renders a timestamp as RFC 1123 GMT text, the form used for
// pubDate and lastBuildDate fields.
func FormatDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

// Render serializes channel metadata and items into a complete RSS 2.0
// document. Items appear in input order. pubDate is emitted verbatim since
// it is always produced by FormatDate. An empty item list renders a valid,
// empty channel.
func Render(channel types.ChannelMetadata, items []types.FeedItem, buildTime time.Time) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<rss version=\"2.0\">\n")
	b.WriteString("  <channel>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", Escape(channel.Title))
	fmt.Fprintf(&b, "    <link>%s</link>\n", Escape(channel.Link))
	fmt.Fprintf(&b, "    <description>%s</description>\n", Escape(channel.Description))
	fmt.Fprintf(&b, "    <lastBuildDate>%s</lastBuildDate>\n", FormatDate(buildTime))
	for _, item := range items {
		b.WriteString("    <item>\n")
		fmt.Fprintf(&b, "      <title>%s</title>\n", Escape(item.Title))
		fmt.Fprintf(&b, "      <link>%s</link>\n", Escape(item.URL))
		fmt.Fprintf(&b, "      <guid>%s</guid>\n", Escape(item.URL))
		fmt.Fprintf(&b, "      <pubDate>%s</pubDate>\n", item.PubDate)
		b.WriteString("    </item>\n")
	}
	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}
