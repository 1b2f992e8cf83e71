// Package generator is the single generation pipeline behind every content
// route: authorize, prompt, complete, extract, optionally score, then hand
// bookkeeping to a background task.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sharkin/internal/llm"
	"sharkin/internal/logger"
	"sharkin/internal/models"
	"sharkin/internal/prompt"
	"sharkin/internal/scorer"
	"sharkin/internal/store"
	"sharkin/internal/tasks"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrQuotaExceeded  = errors.New("monthly credit limit reached")
	ErrInvalidRequest = errors.New("invalid request")
)

const (
	DefaultLanguage = "English"
	DefaultTone     = "professional"

	creditsPerGeneration = 1
)

// Store is the persistence the pipeline needs. FindUser reports a missing
// user with store.ErrNotFound.
type Store interface {
	FindUser(ctx context.Context, id string) (*models.User, error)
	IncrementUsage(ctx context.Context, userID string, amount int) error
	SaveHooks(ctx context.Context, row *models.GeneratedHooks) error
	SaveHookScores(ctx context.Context, rows []models.HookScoreRecord) error
	SavePosts(ctx context.Context, row *models.GeneratedPosts) error
	SaveComments(ctx context.Context, row *models.GeneratedComments) error
	LogAICall(ctx context.Context, row *models.AICallLog) error
}

type Service struct {
	store    Store
	llm      llm.Completer
	provider string
	scorer   *scorer.Scorer
	tasks    *tasks.Runner
	log      *logger.Logger
}

// New wires the pipeline. Every completion made through the service,
// scoring included, is recorded in ai_call_logs.
func New(st Store, c llm.Completer, runner *tasks.Runner, log *logger.Logger) *Service {
	s := &Service{
		store:    st,
		provider: c.Name(),
		tasks:    runner,
		log:      log.With("component", "generator"),
	}
	s.llm = llm.WithTrace(c, s.recordCall)
	s.scorer = scorer.NewScorer(s.llm, log)
	return s
}

type userKey struct{}

func withUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

func userFrom(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}

// authorize loads the user and checks the monthly quota. It runs before any
// completion is requested.
func (s *Service) authorize(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.store.FindUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !u.HasCredits() {
		return nil, ErrQuotaExceeded
	}
	return u, nil
}

func phaseLabel(kind prompt.Kind, phase prompt.Phase) string {
	return string(kind) + "/" + phase.String()
}

// complete renders the prompt for kind at phase and returns the raw reply.
func (s *Service) complete(ctx context.Context, kind prompt.Kind, phase prompt.Phase, in prompt.Input) (string, error) {
	label := phaseLabel(kind, phase)
	p, err := prompt.Build(kind, phase, in)
	if err != nil {
		return "", fmt.Errorf("build %s prompt: %w", label, err)
	}
	settings := prompt.SettingsFor(kind, phase)
	raw, err := s.llm.Complete(ctx, llm.Request{
		Phase:       label,
		Prompt:      p,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	})
	if err != nil {
		s.log.Error("Completion failed", "phase", label, "provider", s.provider, "user_id", userFrom(ctx), "error", err)
		return "", err
	}
	return raw, nil
}

// generate runs the generation phase and decodes the reply into out.
func (s *Service) generate(ctx context.Context, kind prompt.Kind, in prompt.Input, out any) (string, error) {
	raw, err := s.complete(ctx, kind, prompt.PhaseGeneration, in)
	if err != nil {
		return "", err
	}
	if err := llm.ExtractJSON(raw, out); err != nil {
		s.log.Error("Failed to parse AI response",
			"phase", phaseLabel(kind, prompt.PhaseGeneration), "user_id", userFrom(ctx), "error", err, "raw", raw)
		return raw, err
	}
	return raw, nil
}

// recordCall stores every completion with its raw reply for diagnostics.
func (s *Service) recordCall(ctx context.Context, req llm.Request, raw string, err error) {
	row := &models.AICallLog{
		UserID:   userFrom(ctx),
		Phase:    req.Phase,
		Provider: s.provider,
		Prompt:   req.Prompt,
		Response: raw,
		Success:  err == nil,
	}
	if err != nil {
		row.Error = err.Error()
	}
	s.tasks.Go("ai_call_log", func(ctx context.Context) error {
		return s.store.LogAICall(ctx, row)
	})
}

// persist runs the bookkeeping steps in order on a background task. Each
// step is independent: a failure is logged and the next step still runs.
func (s *Service) persist(name, userID string, steps ...func(ctx context.Context) error) {
	s.tasks.Go(name, func(ctx context.Context) error {
		var errs []error
		for _, step := range steps {
			if err := step(ctx); err != nil {
				s.log.Warn("Persistence step failed", "task", name, "user_id", userID, "error", err)
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

func (s *Service) incrementUsage(userID string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return s.store.IncrementUsage(ctx, userID, creditsPerGeneration)
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func requireFields(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidRequest, fields[i])
		}
	}
	return nil
}
