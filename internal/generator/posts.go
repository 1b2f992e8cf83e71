package generator

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"

	"sharkin/internal/llm"
	"sharkin/internal/models"
	"sharkin/internal/prompt"
)

// PostRequest is the ghostwriter form. Hook and Outline usually come from a
// previously generated hook.
type PostRequest struct {
	UserID         string   `json:"userId" binding:"required"`
	Language       string   `json:"language"`
	Tone           string   `json:"tone"`
	TargetAudience string   `json:"targetAudience"`
	Hook           string   `json:"hook"`
	Outline        []string `json:"outline"`
	PostType       string   `json:"postType"`
	Idea           string   `json:"idea" binding:"required"`
	PreviousPosts  string   `json:"previousPosts"`
}

var errNoPosts = errors.New("reply contains no posts")

func (s *Service) GeneratePosts(ctx context.Context, req PostRequest) (*models.PostResponse, error) {
	if err := requireFields("userId", req.UserID, "idea", req.Idea); err != nil {
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
		SourceText:     req.Idea,
		Hook:           req.Hook,
		Outline:        req.Outline,
		PostType:       req.PostType,
		PreviousPosts:  req.PreviousPosts,
	}

	var resp models.PostResponse
	raw, err := s.generate(ctx, prompt.KindPosts, prompt.Input{Request: gr}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Posts) == 0 {
		s.log.Error("Failed to parse AI response", "phase", "posts/generation", "error", errNoPosts, "raw", raw)
		return nil, &llm.ParseError{Raw: raw, Err: errNoPosts}
	}
	for i := range resp.Posts {
		if resp.Posts[i].WordCount == 0 {
			resp.Posts[i].WordCount = wordCount(resp.Posts[i].Content)
		}
	}

	postsJSON, _ := json.Marshal(resp.Posts)
	row := &models.GeneratedPosts{
		UserID:         gr.UserID,
		Hook:           gr.Hook,
		Idea:           gr.SourceText,
		Language:       gr.Language,
		Tone:           gr.Tone,
		TargetAudience: gr.TargetAudience,
		Posts:          datatypes.JSON(postsJSON),
	}
	s.persist("persist_posts", gr.UserID,
		func(ctx context.Context) error { return s.store.SavePosts(ctx, row) },
		s.incrementUsage(gr.UserID),
	)
	return &resp, nil
}
