package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"sharkin/internal/llm"
	"sharkin/internal/models"
	"sharkin/internal/prompt"
)

const hookScoreSource = "hook_generator"

type HookRequest struct {
	UserID         string `json:"userId" binding:"required"`
	Language       string `json:"language"`
	Tone           string `json:"tone"`
	TargetAudience string `json:"targetAudience"`
	Purpose        string `json:"purpose"`
	BulletPoints   string `json:"bulletPoints" binding:"required"`
	IncludeScoring *bool  `json:"includeScoring"`
	DeepResearch   bool   `json:"deepResearch"`
}

func (r HookRequest) scoring() bool {
	return r.IncludeScoring == nil || *r.IncludeScoring
}

type hooksReply struct {
	Analysis *models.HookAnalysis `json:"analysis"`
	Hooks    []models.Hook        `json:"hooks"`
}

var errNoHooks = errors.New("reply contains no hooks")

// GenerateHooks produces a batch of hooks with outlines, scored unless the
// caller opted out.
func (s *Service) GenerateHooks(ctx context.Context, req HookRequest) (*models.HookResponse, error) {
	if err := requireFields("userId", req.UserID, "bulletPoints", req.BulletPoints); err != nil {
		return nil, err
	}
	ctx = withUser(ctx, req.UserID)
	if _, err := s.authorize(ctx, req.UserID); err != nil {
		return nil, err
	}

	gr := models.GenerationRequest{
		UserID:         req.UserID,
		Language:       orDefault(req.Language, DefaultLanguage),
		Tone:           orDefault(req.Tone, DefaultTone),
		TargetAudience: req.TargetAudience,
		Purpose:        req.Purpose,
		SourceText:     req.BulletPoints,
	}

	var research string
	if req.DeepResearch {
		raw, err := s.complete(ctx, prompt.KindHooks, prompt.PhaseResearch, prompt.Input{Request: gr})
		if err != nil {
			return nil, err
		}
		research = strings.TrimSpace(raw)
	}

	var reply hooksReply
	raw, err := s.generate(ctx, prompt.KindHooks, prompt.Input{Request: gr, Research: research}, &reply)
	if err != nil {
		return nil, err
	}
	if len(reply.Hooks) == 0 {
		s.log.Error("Failed to parse AI response", "phase", "hooks/generation", "error", errNoHooks, "raw", raw)
		return nil, &llm.ParseError{Raw: raw, Err: errNoHooks}
	}

	hooks := assignHookIDs(reply.Hooks)
	resp := &models.HookResponse{Analysis: reply.Analysis}

	if req.scoring() {
		result := s.scorer.ScoreHooks(ctx, hooks, gr.TargetAudience)
		resp.Hooks = result.Hooks
		resp.Scoring = result.Summary()
		s.persistHooks(gr, hooks, result)
	} else {
		resp.Hooks = make([]models.ScoredHook, len(hooks))
		for i, h := range hooks {
			resp.Hooks[i] = models.ScoredHook{Hook: h}
		}
		s.persistHooks(gr, hooks, nil)
	}
	return resp, nil
}

// assignHookIDs gives every hook a batch-unique id, replacing empty or
// repeated ids with hook_N.
func assignHookIDs(hooks []models.Hook) []models.Hook {
	out := make([]models.Hook, len(hooks))
	seen := make(map[string]bool, len(hooks))
	for i, h := range hooks {
		if h.ID == "" || seen[h.ID] {
			n := i + 1
			for seen[fmt.Sprintf("hook_%d", n)] {
				n++
			}
			h.ID = fmt.Sprintf("hook_%d", n)
		}
		seen[h.ID] = true
		out[i] = h
	}
	return out
}

func (s *Service) persistHooks(gr models.GenerationRequest, hooks []models.Hook, result *models.ScoringResult) {
	hooksJSON, _ := json.Marshal(hooks)
	scoringJSON, _ := json.Marshal(result.Summary())
	row := &models.GeneratedHooks{
		UserID:         gr.UserID,
		InputText:      gr.SourceText,
		Language:       gr.Language,
		Tone:           gr.Tone,
		TargetAudience: gr.TargetAudience,
		Hooks:          datatypes.JSON(hooksJSON),
		Scoring:        datatypes.JSON(scoringJSON),
	}

	steps := []func(ctx context.Context) error{
		func(ctx context.Context) error { return s.store.SaveHooks(ctx, row) },
	}
	if result != nil && !result.Degraded {
		scoreRows := hookScoreRows(gr, result)
		steps = append(steps, func(ctx context.Context) error { return s.store.SaveHookScores(ctx, scoreRows) })
	}
	steps = append(steps, s.incrementUsage(gr.UserID))
	s.persist("persist_hooks", gr.UserID, steps...)
}

func hookScoreRows(gr models.GenerationRequest, result *models.ScoringResult) []models.HookScoreRecord {
	rows := make([]models.HookScoreRecord, 0, len(result.Hooks))
	for _, h := range result.Hooks {
		if h.Scoring == nil {
			continue
		}
		sc := h.Scoring
		bonuses, _ := json.Marshal(sc.Bonuses)
		penalties, _ := json.Marshal(sc.Penalties)
		rows = append(rows, models.HookScoreRecord{
			UserID:            gr.UserID,
			HookText:          h.Text,
			HookType:          h.HookType,
			ScrollStopScore:   sc.Scores.ScrollStop,
			CuriosityGapScore: sc.Scores.CuriosityGap,
			RelatabilityScore: sc.Scores.Relatability,
			SpecificityScore:  sc.Scores.Specificity,
			Bonuses:           datatypes.JSON(bonuses),
			Penalties:         datatypes.JSON(penalties),
			TotalScore:        sc.TotalScore,
			Grade:             sc.Grade,
			Reasoning:         sc.Reasoning,
			ImprovementTip:    sc.ImprovementTip,
			TargetAudience:    gr.TargetAudience,
			Language:          gr.Language,
			Source:            hookScoreSource,
		})
	}
	return rows
}
