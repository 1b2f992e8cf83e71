package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const maxHookChars = 280

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

type RSSFetcher struct {
	SourceName string
	FeedURL    string
	Category   string
	// HookType tags every entry of the feed; empty leaves it unclassified.
	HookType string

	parser *gofeed.Parser
}

func NewRSSFetcher(name, feedURL, category string) *RSSFetcher {
	fp := gofeed.NewParser()
	fp.Client = httpClient
	return &RSSFetcher{SourceName: name, FeedURL: feedURL, Category: category, parser: fp}
}

func (f *RSSFetcher) Name() string { return f.SourceName }

func (f *RSSFetcher) Fetch(ctx context.Context) ([]Candidate, error) {
	feed, err := f.parser.ParseURLWithContext(f.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", f.FeedURL, err)
	}

	out := make([]Candidate, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry.Link == "" {
			continue
		}
		hook := openingLine(entry)
		if hook == "" || len(hook) > maxHookChars {
			continue
		}

		pub := time.Now().UTC()
		if entry.PublishedParsed != nil {
			pub = *entry.PublishedParsed
		}
		author := ""
		if len(entry.Authors) > 0 {
			author = entry.Authors[0].Name
		}

		out = append(out, Candidate{
			Hook:        hook,
			Category:    f.Category,
			HookType:    f.HookType,
			Source:      f.SourceName,
			SourceURL:   entry.Link,
			Author:      author,
			PublishedAt: pub,
		})
	}
	return out, nil
}

// openingLine is the first non-empty line of the entry body, falling back
// to the title.
func openingLine(entry *gofeed.Item) string {
	for _, body := range []string{entry.Content, entry.Description} {
		if line := firstLine(htmlToText(body)); line != "" {
			return line
		}
	}
	return strings.TrimSpace(entry.Title)
}

// htmlToText flattens markup, turning block elements and <br> into newlines.
func htmlToText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, blockquote").AppendHtml("\n")
	return doc.Text()
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			return line
		}
	}
	return ""
}
