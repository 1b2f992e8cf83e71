// Package fetcher pulls candidate hooks for the inspiration library from
// RSS and Atom feeds.
package fetcher

import (
	"context"
	"time"

	"sharkin/internal/config"
)

// Candidate is one feed entry reduced to its opening line.
type Candidate struct {
	Hook        string
	Category    string
	HookType    string
	Source      string
	SourceURL   string
	Author      string
	PublishedAt time.Time
}

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]Candidate, error)
}

// FromConfig builds one RSS fetcher per configured feed.
func FromConfig(feeds []config.FeedConfig) []Fetcher {
	out := make([]Fetcher, 0, len(feeds))
	for _, f := range feeds {
		r := NewRSSFetcher(f.Name, f.URL, f.Category)
		r.HookType = f.HookType
		out = append(out, r)
	}
	return out
}
