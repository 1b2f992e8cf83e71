// Package harvest fills the inspiration library: fetch feed entries, score
// their opening lines in batches and keep the ones that clear the threshold.
package harvest

import (
	"context"
	"fmt"
	"time"

	"sharkin/internal/fetcher"
	"sharkin/internal/logger"
	"sharkin/internal/models"
	"sharkin/internal/prompt"
	"sharkin/internal/scorer"
)

const (
	DefaultBatchSize = 5
	DefaultPause     = 500 * time.Millisecond
	featuredGrade    = "A+"
	harvestSource    = "harvest"
)

type Store interface {
	KnownSourceURLs(ctx context.Context, urls []string) (map[string]bool, error)
	SaveInspiration(ctx context.Context, posts []models.InspirationPost) (int, error)
}

type Harvester struct {
	fetchers  []fetcher.Fetcher
	scorer    *scorer.Scorer
	store     Store
	threshold float64
	batchSize int
	pause     time.Duration
	log       *logger.Logger
}

func New(fetchers []fetcher.Fetcher, sc *scorer.Scorer, st Store, threshold float64, log *logger.Logger) *Harvester {
	return &Harvester{
		fetchers:  fetchers,
		scorer:    sc,
		store:     st,
		threshold: threshold,
		batchSize: DefaultBatchSize,
		pause:     DefaultPause,
		log:       log.With("component", "harvest"),
	}
}

// Report counts one harvest pass.
type Report struct {
	Fetched int
	New     int
	Scored  int
	Saved   int
}

// Run performs one pass over every feed. A failing feed or batch is logged
// and skipped; only cancellation stops the pass early.
func (h *Harvester) Run(ctx context.Context) (Report, error) {
	var rep Report
	h.log.Info("Starting harvest", "feeds", len(h.fetchers))

	for _, f := range h.fetchers {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		cands, err := f.Fetch(ctx)
		if err != nil {
			h.log.Warn("Failed to fetch feed", "feed", f.Name(), "error", err)
			continue
		}
		rep.Fetched += len(cands)

		fresh, err := h.unseen(ctx, cands)
		if err != nil {
			h.log.Warn("Failed to check known entries", "feed", f.Name(), "error", err)
			continue
		}
		rep.New += len(fresh)
		h.log.Info("Fetched feed", "feed", f.Name(), "entries", len(cands), "new", len(fresh))

		for start := 0; start < len(fresh); start += h.batchSize {
			batch := fresh[start:min(start+h.batchSize, len(fresh))]
			scored, saved, err := h.scoreBatch(ctx, batch)
			rep.Scored += scored
			rep.Saved += saved
			if err != nil {
				h.log.Warn("Failed to save batch", "feed", f.Name(), "error", err)
			}
			if err := sleep(ctx, h.pause); err != nil {
				return rep, err
			}
		}
	}

	h.log.Info("Harvest completed", "fetched", rep.Fetched, "new", rep.New, "scored", rep.Scored, "saved", rep.Saved)
	return rep, nil
}

// unseen drops candidates already stored or repeated within the feed.
func (h *Harvester) unseen(ctx context.Context, cands []fetcher.Candidate) ([]fetcher.Candidate, error) {
	urls := make([]string, len(cands))
	for i, c := range cands {
		urls[i] = c.SourceURL
	}
	known, err := h.store.KnownSourceURLs(ctx, urls)
	if err != nil {
		return nil, err
	}
	out := make([]fetcher.Candidate, 0, len(cands))
	for _, c := range cands {
		if known[c.SourceURL] {
			continue
		}
		known[c.SourceURL] = true
		out = append(out, c)
	}
	return out, nil
}

func (h *Harvester) scoreBatch(ctx context.Context, batch []fetcher.Candidate) (int, int, error) {
	hooks := make([]models.Hook, len(batch))
	for i, c := range batch {
		hooks[i] = models.Hook{ID: fmt.Sprintf("hook_%d", i+1), Text: c.Hook}
	}
	result := h.scorer.ScoreHooks(ctx, hooks, prompt.DefaultAudience)
	if result.Degraded {
		return 0, 0, nil
	}

	keep := make([]models.InspirationPost, 0, len(batch))
	scored := 0
	for i, sh := range result.Hooks {
		if sh.Scoring == nil {
			continue
		}
		scored++
		c := batch[i]
		if sh.Scoring.TotalScore < h.threshold {
			h.log.Debug("[DROP]", "score", sh.Scoring.TotalScore, "hook", c.Hook)
			continue
		}
		h.log.Debug("[PASS]", "score", sh.Scoring.TotalScore, "hook", c.Hook)
		keep = append(keep, models.InspirationPost{
			Hook:                c.Hook,
			Category:            c.Category,
			HookType:            c.HookType,
			Source:              c.Source,
			SourceURL:           c.SourceURL,
			Author:              c.Author,
			PublishedAt:         c.PublishedAt,
			TotalScore:          sh.Scoring.TotalScore,
			Grade:               sh.Scoring.Grade,
			EstimatedEngagement: engagement(sh.Scoring.TotalScore),
			IsFeatured:          sh.Scoring.Grade == featuredGrade,
			IsActive:            true,
		})
	}
	saved, err := h.store.SaveInspiration(ctx, keep)
	return scored, saved, err
}

// engagement buckets a score into the label shown on inspiration cards.
func engagement(total float64) string {
	switch {
	case total >= 9:
		return "high"
	case total >= 7.5:
		return "medium"
	default:
		return "low"
	}
}

// Start runs a pass immediately and then every interval until ctx ends.
func (h *Harvester) Start(ctx context.Context, interval time.Duration) {
	h.runLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.runLogged(ctx)
		}
	}
}

// Launch runs Start in its own goroutine. The returned stop cancels the loop
// and blocks until any in-flight pass has returned.
func (h *Harvester) Launch(ctx context.Context, interval time.Duration) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Start(ctx, interval)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (h *Harvester) runLogged(ctx context.Context) {
	if _, err := h.Run(ctx); err != nil {
		h.log.Warn("Harvest interrupted", "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
