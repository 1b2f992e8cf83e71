package scorer

import (
	"context"
	"math"
	"time"

	"sharkin/internal/llm"
	"sharkin/internal/logger"
	"sharkin/internal/models"
	"sharkin/internal/prompt"
)

// Placeholder values for hooks that could not be scored.
const (
	GradeNA            = "N/A"
	degradedReasoning  = "Scoring failed, please try again"
	reconcileTolerance = 0.05
)

// Scorer rates a batch of hooks with a single completion.
type Scorer struct {
	llm llm.Completer
	log *logger.Logger
	now func() time.Time
}

func NewScorer(c llm.Completer, log *logger.Logger) *Scorer {
	return &Scorer{
		llm: c,
		log: log.With("component", "scorer"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

type scoringReply struct {
	Scores []models.HookScore `json:"scores"`
}

// ScoreHooks grades hooks against the engagement rubric. It never fails: a
// provider or parse error yields a degraded result that still lists every
// hook with placeholder scores.
func (s *Scorer) ScoreHooks(ctx context.Context, hooks []models.Hook, targetAudience string) *models.ScoringResult {
	refs := make([]models.HookRef, len(hooks))
	for i, h := range hooks {
		refs[i] = models.HookRef{ID: h.ID, Text: h.Text}
	}

	p, err := prompt.Build(prompt.KindScoring, prompt.PhaseScoring, prompt.Input{
		Request: models.GenerationRequest{TargetAudience: targetAudience},
		Hooks:   refs,
	})
	if err != nil {
		s.log.Error("Failed to build scoring prompt", "error", err)
		return Degraded(hooks, s.now())
	}

	settings := prompt.SettingsFor(prompt.KindScoring, prompt.PhaseScoring)
	raw, err := s.llm.Complete(ctx, llm.Request{
		Phase:       "hooks/scoring",
		Prompt:      p,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	})
	if err != nil {
		s.log.Warn("Hook scoring call failed, returning placeholder scores", "provider", s.llm.Name(), "error", err)
		return Degraded(hooks, s.now())
	}

	var reply scoringReply
	if err := llm.ExtractJSON(raw, &reply); err != nil {
		s.log.Error("Failed to parse scoring response", "error", err, "raw", raw)
		return Degraded(hooks, s.now())
	}
	if len(reply.Scores) == 0 {
		s.log.Error("Scoring response has no scores", "raw", raw)
		return Degraded(hooks, s.now())
	}

	for i := range reply.Scores {
		sc := &reply.Scores[i]
		if expected := ExpectedTotal(*sc); math.Abs(expected-sc.TotalScore) > reconcileTolerance {
			s.log.Warn("Reported total differs from rubric arithmetic",
				"hook_id", sc.HookID, "reported", sc.TotalScore, "expected", expected)
		}
	}

	return Build(hooks, reply.Scores, s.now())
}

// Build merges scores onto hooks and computes the aggregates.
func Build(hooks []models.Hook, scores []models.HookScore, ts time.Time) *models.ScoringResult {
	scores = normalize(hooks, scores)
	merged := Merge(hooks, scores)

	partial := false
	for _, h := range merged {
		if h.Scoring == nil {
			partial = true
			break
		}
	}

	avg, best := Aggregate(scores)
	return &models.ScoringResult{
		Hooks:        merged,
		Scores:       scores,
		AverageScore: avg,
		BestHook:     best,
		Partial:      partial,
		Timestamp:    ts,
	}
}

// Merge left-joins scores onto hooks by id. Every hook is kept, in input
// order; the first score with a matching hookId wins.
func Merge(hooks []models.Hook, scores []models.HookScore) []models.ScoredHook {
	out := make([]models.ScoredHook, len(hooks))
	for i, h := range hooks {
		out[i] = models.ScoredHook{Hook: h}
		for j := range scores {
			if scores[j].HookID == h.ID {
				sc := scores[j]
				sc.HookText = h.Text
				out[i].Scoring = &sc
				break
			}
		}
	}
	return out
}

// Aggregate returns the mean totalScore rounded to one decimal and the first
// score reaching the maximum. Reported totals are used verbatim.
func Aggregate(scores []models.HookScore) (float64, *models.HookScore) {
	if len(scores) == 0 {
		return 0, nil
	}
	var sum float64
	best := 0
	for i, sc := range scores {
		sum += sc.TotalScore
		if sc.TotalScore > scores[best].TotalScore {
			best = i
		}
	}
	b := scores[best]
	return math.Round(sum/float64(len(scores))*10) / 10, &b
}

// Degraded is the placeholder result used when scoring is unavailable.
func Degraded(hooks []models.Hook, ts time.Time) *models.ScoringResult {
	scores := make([]models.HookScore, len(hooks))
	merged := make([]models.ScoredHook, len(hooks))
	for i, h := range hooks {
		scores[i] = models.HookScore{
			HookID:    h.ID,
			HookText:  h.Text,
			Bonuses:   []string{},
			Penalties: []string{},
			Grade:     GradeNA,
			Reasoning: degradedReasoning,
		}
		sc := scores[i]
		merged[i] = models.ScoredHook{Hook: h, Scoring: &sc}
	}
	return &models.ScoringResult{
		Hooks:     merged,
		Scores:    scores,
		Degraded:  true,
		Timestamp: ts,
	}
}

func normalize(hooks []models.Hook, scores []models.HookScore) []models.HookScore {
	text := make(map[string]string, len(hooks))
	for _, h := range hooks {
		if _, ok := text[h.ID]; !ok {
			text[h.ID] = h.Text
		}
	}
	out := make([]models.HookScore, len(scores))
	for i, sc := range scores {
		if sc.Bonuses == nil {
			sc.Bonuses = []string{}
		}
		if sc.Penalties == nil {
			sc.Penalties = []string{}
		}
		if sc.Grade == "" {
			sc.Grade = Grade(sc.TotalScore)
		}
		if t, ok := text[sc.HookID]; ok {
			sc.HookText = t
		}
		out[i] = sc
	}
	return out
}
