package models

import "time"

// GenerationRequest carries the user's form input for one generation call.
type GenerationRequest struct {
	UserID         string
	Language       string
	Tone           string
	TargetAudience string
	Purpose        string
	SourceText     string // bullet points, idea or the post being commented on
	Relationship   string

	// Ghostwriter only.
	Hook          string
	Outline       []string
	PostType      string
	PreviousPosts string
}

type HookAnalysis struct {
	CentralInsight  string `json:"centralInsight"`
	EmotionalDriver string `json:"emotionalDriver"`
	PostArchetype   string `json:"postArchetype"`
}

type Hook struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	HookType string   `json:"hookType"`
	Outline  []string `json:"outline"`
	Reason   string   `json:"reason,omitempty"` // research backed hooks cite their source
}

// HookRef is the minimal hook view the scorer needs.
type HookRef struct {
	ID   string
	Text string
}

type ScoreBreakdown struct {
	ScrollStop   float64 `json:"scrollStop"`
	CuriosityGap float64 `json:"curiosityGap"`
	Relatability float64 `json:"relatability"`
	Specificity  float64 `json:"specificity"`
}

func (b ScoreBreakdown) Sum() float64 {
	return b.ScrollStop + b.CuriosityGap + b.Relatability + b.Specificity
}

type HookScore struct {
	HookID         string         `json:"hookId"`
	HookText       string         `json:"hookText,omitempty"`
	Scores         ScoreBreakdown `json:"scores"`
	Bonuses        []string       `json:"bonuses"`
	Penalties      []string       `json:"penalties"`
	TotalScore     float64        `json:"totalScore"`
	Grade          string         `json:"grade"`
	Reasoning      string         `json:"reasoning"`
	ImprovementTip string         `json:"improvementTip"`
}

// ScoredHook is a hook joined with its score; Scoring is nil when the
// model returned no score for the hook.
type ScoredHook struct {
	Hook
	Scoring *HookScore `json:"scoring,omitempty"`
}

type ScoringResult struct {
	Hooks        []ScoredHook
	Scores       []HookScore
	AverageScore float64
	BestHook     *HookScore
	Partial      bool
	Degraded     bool
	Timestamp    time.Time
}

// ScoringSummary is the "scoring" block of the hooks response.
type ScoringSummary struct {
	Scores       []HookScore `json:"scores"`
	AverageScore float64     `json:"averageScore"`
	BestHook     *HookScore  `json:"bestHook"`
	BestHookID   string      `json:"bestHookId,omitempty"`
	Partial      bool        `json:"partial,omitempty"`
	Degraded     bool        `json:"degraded,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
}

func (r *ScoringResult) Summary() *ScoringSummary {
	if r == nil {
		return nil
	}
	s := &ScoringSummary{
		Scores:       r.Scores,
		AverageScore: r.AverageScore,
		BestHook:     r.BestHook,
		Partial:      r.Partial,
		Degraded:     r.Degraded,
		Timestamp:    r.Timestamp,
	}
	if r.BestHook != nil {
		s.BestHookID = r.BestHook.HookID
	}
	return s
}

type HookResponse struct {
	Analysis *HookAnalysis   `json:"analysis,omitempty"`
	Hooks    []ScoredHook    `json:"hooks"`
	Scoring  *ScoringSummary `json:"scoring,omitempty"`
}

type Post struct {
	Content   string `json:"content"`
	Angle     string `json:"angle"`
	WordCount int    `json:"wordCount"`
}

type PostResponse struct {
	Posts []Post `json:"posts"`
}

type PostAnalysis struct {
	CoreTopic            string `json:"coreTopic"`
	PosterIntent         string `json:"posterIntent"`
	BestAngleForRelation string `json:"bestAngleForRelation"`
}

type Comment struct {
	Text      string `json:"text"`
	Angle     string `json:"angle"`
	Strategy  string `json:"strategy,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
	WordCount int    `json:"wordCount"`
}

type CommentResponse struct {
	PostAnalysis *PostAnalysis `json:"postAnalysis,omitempty"`
	Comments     []Comment     `json:"comments"`
}
