// Package prompt renders the instruction text sent to the completion model
// for every content kind and pipeline phase. Builders are pure: user fields
// are inserted verbatim and nothing is validated here.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"sharkin/internal/models"
)

type Kind string

const (
	KindHooks    Kind = "hooks"
	KindPosts    Kind = "posts"
	KindComments Kind = "comments"
	KindScoring  Kind = "scoring"
)

type Phase int

const (
	PhaseResearch Phase = iota + 1
	PhaseGeneration
	PhaseScoring
)

func (p Phase) String() string {
	switch p {
	case PhaseResearch:
		return "research"
	case PhaseGeneration:
		return "generation"
	case PhaseScoring:
		return "scoring"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrUnsupported is returned for kind/phase pairs that have no template.
var ErrUnsupported = errors.New("unsupported prompt kind/phase")

const (
	DefaultAudience = "LinkedIn professionals"
	DefaultPurpose  = "engagement and visibility"
)

// HookTypes is the archetype vocabulary offered to the model.
var HookTypes = []string{
	"Contrast hook",
	"Number hook",
	"Question hook",
	"Confession hook",
	"Bold claim",
	"Secret hook",
	"Timeline hook",
	"Observation hook",
	"List tease",
	"Either-or hook",
	"Provocation hook",
	"Story opener",
}

var (
	Bonuses   = []string{"pattern_interrupt", "emotional_trigger", "contrarian_angle"}
	Penalties = []string{"clickbait_feel", "overused_pattern", "vague_promise", "emoji_overload"}
)

// Blocklist holds phrases every generated text must avoid.
var Blocklist = []string{
	"game-changer", "dive deep", "unlock", "secret sauce", "crush it",
	"revolutionary", "amazing", "mind-blowing",
}

// Input is everything a template may interpolate.
type Input struct {
	Request  models.GenerationRequest
	Research string           // findings of the research phase, hooks only
	Hooks    []models.HookRef // hooks to score
}

// Build renders the prompt for kind at phase.
func Build(kind Kind, phase Phase, in Input) (string, error) {
	r := in.Request
	switch {
	case kind == KindHooks && phase == PhaseResearch:
		return fmt.Sprintf(researchTemplate,
			r.SourceText, orDefault(r.TargetAudience, DefaultAudience), orDefault(r.Purpose, DefaultPurpose), r.Language), nil

	case kind == KindHooks && phase == PhaseGeneration:
		research := ""
		if strings.TrimSpace(in.Research) != "" {
			research = fmt.Sprintf(researchBlockTemplate, in.Research)
		}
		return fmt.Sprintf(hooksTemplate,
			r.Language, r.Tone, orDefault(r.TargetAudience, DefaultAudience), orDefault(r.Purpose, DefaultPurpose),
			research, r.SourceText, numbered(HookTypes), quotedList(Blocklist)), nil

	case kind == KindPosts && phase == PhaseGeneration:
		return fmt.Sprintf(postsTemplate,
			orDefault(r.Hook, "No hook given, write one from the idea"), r.SourceText, orDefault(r.PostType, "any"),
			r.Language, r.Tone, orDefault(r.TargetAudience, DefaultAudience),
			outlineBlock(r.Outline), styleBlock(r.PreviousPosts), quotedList(Blocklist)), nil

	case kind == KindComments && phase == PhaseGeneration:
		return fmt.Sprintf(commentsTemplate,
			r.Language, r.Tone, RelationshipContext(r.Relationship), r.SourceText, quotedList(Blocklist)), nil

	case kind == KindScoring && phase == PhaseScoring:
		return fmt.Sprintf(scoringTemplate,
			strings.Join(Bonuses, ", "), strings.Join(Penalties, ", "),
			orDefault(r.TargetAudience, DefaultAudience), hookList(in.Hooks)), nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrUnsupported, kind, phase)
}

// RelationshipContext describes the commenter's relation to the post author.
func RelationshipContext(relationship string) string {
	switch strings.ToLower(strings.TrimSpace(relationship)) {
	case "peer":
		return "colleague or peer in the same industry"
	case "prospect":
		return "potential customer or lead"
	case "client":
		return "existing customer"
	case "leader":
		return "leader or decision maker"
	default:
		return "professional contact"
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func numbered(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
	}
	return sb.String()
}

func quotedList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = `"` + item + `"`
	}
	return strings.Join(quoted, ", ")
}

func hookList(hooks []models.HookRef) string {
	var sb strings.Builder
	for i, h := range hooks {
		fmt.Fprintf(&sb, "Hook %d (%s): %q\n", i+1, h.ID, h.Text)
	}
	return sb.String()
}

func outlineBlock(outline []string) string {
	if len(outline) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Outline to follow:\n")
	for _, section := range outline {
		sb.WriteString("- ")
		sb.WriteString(section)
		sb.WriteString("\n")
	}
	return sb.String()
}

func styleBlock(previousPosts string) string {
	if strings.TrimSpace(previousPosts) == "" {
		return ""
	}
	return "The user's previous posts (match sentence length, paragraph rhythm, word choice and CTA style):\n" + previousPosts + "\n"
}
