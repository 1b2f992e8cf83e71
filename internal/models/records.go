package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GeneratedHooks struct {
	gorm.Model
	UserID         string         `json:"user_id" gorm:"index;not null"`
	InputText      string         `json:"input_text"`
	Language       string         `json:"language"`
	Tone           string         `json:"tone"`
	TargetAudience string         `json:"target_audience"`
	Hooks          datatypes.JSON `json:"hooks" gorm:"type:jsonb"`
	Scoring        datatypes.JSON `json:"scoring" gorm:"type:jsonb"`
}

func (GeneratedHooks) TableName() string { return "generated_hooks" }

// HookScoreRecord is one scored hook, flattened for reporting.
type HookScoreRecord struct {
	gorm.Model
	UserID            string         `json:"user_id" gorm:"index;not null"`
	HookText          string         `json:"hook_text"`
	HookType          string         `json:"hook_type"`
	ScrollStopScore   float64        `json:"scroll_stop_score"`
	CuriosityGapScore float64        `json:"curiosity_gap_score"`
	RelatabilityScore float64        `json:"relatability_score"`
	SpecificityScore  float64        `json:"specificity_score"`
	Bonuses           datatypes.JSON `json:"bonuses" gorm:"type:jsonb"`
	Penalties         datatypes.JSON `json:"penalties" gorm:"type:jsonb"`
	TotalScore        float64        `json:"total_score"`
	Grade             string         `json:"grade"`
	Reasoning         string         `json:"reasoning"`
	ImprovementTip    string         `json:"improvement_tip"`
	TargetAudience    string         `json:"target_audience"`
	Language          string         `json:"language"`
	Source            string         `json:"source"` // hook_generator, harvest
}

func (HookScoreRecord) TableName() string { return "hook_scores" }

type GeneratedPosts struct {
	gorm.Model
	UserID         string         `json:"user_id" gorm:"index;not null"`
	Hook           string         `json:"hook"`
	Idea           string         `json:"idea"`
	Language       string         `json:"language"`
	Tone           string         `json:"tone"`
	TargetAudience string         `json:"target_audience"`
	Posts          datatypes.JSON `json:"posts" gorm:"type:jsonb"`
}

func (GeneratedPosts) TableName() string { return "generated_posts" }

type GeneratedComments struct {
	gorm.Model
	UserID       string         `json:"user_id" gorm:"index;not null"`
	PostText     string         `json:"post_text"`
	Language     string         `json:"language"`
	Tone         string         `json:"tone"`
	Relationship string         `json:"relationship"`
	Comments     datatypes.JSON `json:"comments" gorm:"type:jsonb"`
}

func (GeneratedComments) TableName() string { return "generated_comments" }

// AICallLog keeps the prompt and raw reply of every completion.
type AICallLog struct {
	gorm.Model
	UserID   string `json:"user_id" gorm:"index"`
	Phase    string `json:"phase" gorm:"not null"`
	Provider string `json:"provider"`
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
	Success  bool   `json:"success"`
	Error    string `json:"error"`
}

func (AICallLog) TableName() string { return "ai_call_logs" }

type InspirationPost struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:uuid"`
	Hook                string    `json:"hook" gorm:"not null"`
	Category            string    `json:"category" gorm:"index"`
	Subcategory         string    `json:"subcategory"`
	HookType            string    `json:"hook_type" gorm:"index"`
	Tone                string    `json:"tone"`
	EstimatedEngagement string    `json:"estimated_engagement"`
	Source              string    `json:"source"`
	SourceURL           string    `json:"source_url" gorm:"uniqueIndex"`
	Author              string    `json:"author"`
	PublishedAt         time.Time `json:"published_at"`
	TotalScore          float64   `json:"total_score"`
	Grade               string    `json:"grade"`
	IsFeatured          bool      `json:"is_featured"`
	IsActive            bool      `json:"is_active" gorm:"index"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (InspirationPost) TableName() string { return "inspiration_posts" }

type UserFavorite struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            string    `json:"user_id" gorm:"uniqueIndex:idx_user_favorite;not null"`
	InspirationPostID string    `json:"inspiration_post_id" gorm:"uniqueIndex:idx_user_favorite;not null"`
	CreatedAt         time.Time `json:"created_at"`
}

func (UserFavorite) TableName() string { return "user_favorites" }
