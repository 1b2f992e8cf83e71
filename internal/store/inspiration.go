package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sharkin/internal/models"
)

const (
	DefaultInspirationLimit = 50
	MaxInspirationLimit     = 200
	filterAll               = "all"
)

type InspirationFilter struct {
	Category string
	HookType string
	Query    string
	Limit    int
}

// ListInspiration returns active posts, best scored first.
func (s *Store) ListInspiration(ctx context.Context, f InspirationFilter) ([]models.InspirationPost, error) {
	q := s.db.WithContext(ctx).Model(&models.InspirationPost{}).Where("is_active = ?", true)
	if f.Category != "" && f.Category != filterAll {
		q = q.Where("category = ?", f.Category)
	}
	if f.HookType != "" && f.HookType != filterAll {
		q = q.Where("hook_type = ?", f.HookType)
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(hook) LIKE ? OR LOWER(category) LIKE ?", like, like)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultInspirationLimit
	}
	limit = min(limit, MaxInspirationLimit)

	var out []models.InspirationPost
	err := q.Order("total_score DESC").Order("created_at DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list inspiration: %w", err)
	}
	return out, nil
}

// KnownSourceURLs reports which of urls are already stored.
func (s *Store) KnownSourceURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	known := make(map[string]bool, len(urls))
	if len(urls) == 0 {
		return known, nil
	}
	var found []string
	err := s.db.WithContext(ctx).Model(&models.InspirationPost{}).
		Where("source_url IN ?", urls).
		Pluck("source_url", &found).Error
	if err != nil {
		return nil, fmt.Errorf("lookup source urls: %w", err)
	}
	for _, u := range found {
		known[u] = true
	}
	return known, nil
}

// SaveInspiration inserts posts, skipping any whose source_url is already
// stored. It returns the number of rows written.
func (s *Store) SaveInspiration(ctx context.Context, posts []models.InspirationPost) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}
	for i := range posts {
		if posts[i].ID == "" {
			posts[i].ID = uuid.NewString()
		}
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "source_url"}}, DoNothing: true}).
		Create(&posts)
	if res.Error != nil {
		return 0, fmt.Errorf("save inspiration: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// FavoriteIDs lists the inspiration post ids a user has favorited.
func (s *Store) FavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).Model(&models.UserFavorite{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("inspiration_post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return ids, nil
}

// ToggleFavorite adds the favorite when absent and removes it when present.
// It reports whether the post is a favorite afterwards.
func (s *Store) ToggleFavorite(ctx context.Context, userID, postID string) (bool, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return false, ErrNotFound
	}
	favorited := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fav models.UserFavorite
		err := tx.Where("user_id = ? AND inspiration_post_id = ?", userID, postID).First(&fav).Error
		if err == nil {
			return tx.Delete(&fav).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var n int64
		if err := tx.Model(&models.InspirationPost{}).Where("id = ?", postID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		favorited = true
		return tx.Create(&models.UserFavorite{UserID: userID, InspirationPostID: postID}).Error
	})
	if errors.Is(err, ErrNotFound) {
		return false, err
	}
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	return favorited, nil
}
