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

type CommentRequest struct {
	UserID       string `json:"userId" binding:"required"`
	Language     string `json:"language"`
	Tone         string `json:"tone"`
	Relationship string `json:"relationship"`
	PostText     string `json:"postText" binding:"required"`
}

var errNoComments = errors.New("reply contains no comments")

func (s *Service) GenerateComments(ctx context.Context, req CommentRequest) (*models.CommentResponse, error) {
	if err := requireFields("userId", req.UserID, "postText", req.PostText); err != nil {
		return nil, err
	}
	ctx = withUser(ctx, req.UserID)
	if _, err := s.authorize(ctx, req.UserID); err != nil {
		return nil, err
	}

	gr := models.GenerationRequest{
		UserID:       req.UserID,
		Language:     orDefault(req.Language, DefaultLanguage),
		Tone:         orDefault(req.Tone, DefaultTone),
		Relationship: req.Relationship,
		SourceText:   req.PostText,
	}

	var resp models.CommentResponse
	raw, err := s.generate(ctx, prompt.KindComments, prompt.Input{Request: gr}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Comments) == 0 {
		s.log.Error("Failed to parse AI response", "phase", "comments/generation", "error", errNoComments, "raw", raw)
		return nil, &llm.ParseError{Raw: raw, Err: errNoComments}
	}
	for i := range resp.Comments {
		if resp.Comments[i].WordCount == 0 {
			resp.Comments[i].WordCount = wordCount(resp.Comments[i].Text)
		}
	}

	commentsJSON, _ := json.Marshal(resp.Comments)
	row := &models.GeneratedComments{
		UserID:       gr.UserID,
		PostText:     gr.SourceText,
		Language:     gr.Language,
		Tone:         gr.Tone,
		Relationship: gr.Relationship,
		Comments:     datatypes.JSON(commentsJSON),
	}
	s.persist("persist_comments", gr.UserID,
		func(ctx context.Context) error { return s.store.SaveComments(ctx, row) },
		s.incrementUsage(gr.UserID),
	)
	return &resp, nil
}
