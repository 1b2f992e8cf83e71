// Package store persists generated content, usage counters and the
// inspiration library through GORM.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sharkin/internal/logger"
	"sharkin/internal/models"
)

// ErrNotFound is returned when a user or inspiration post does not exist.
var ErrNotFound = errors.New("record not found")

const sqlitePrefix = "sqlite://"

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to Postgres, or to SQLite when dsn starts with sqlite://
// (local development).
func Open(dsn string, log *logger.Logger) (*Store, error) {
	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = postgres.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return New(db, log), nil
}

func New(db *gorm.DB, log *logger.Logger) *Store {
	return &Store{db: db, log: log.With("component", "store")}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.GeneratedHooks{},
		&models.HookScoreRecord{},
		&models.GeneratedPosts{},
		&models.GeneratedComments{},
		&models.AICallLog{},
		&models.InspirationPost{},
		&models.UserFavorite{},
	)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// FindUser loads a user by id. Ids that are not UUIDs cannot exist in the
// users table and are reported as ErrNotFound without a query.
func (s *Store) FindUser(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var u models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// IncrementUsage adds amount to the user's monthly counter in one statement.
func (s *Store) IncrementUsage(ctx context.Context, userID string, amount int) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("monthly_credits_used", gorm.Expr("monthly_credits_used + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("increment usage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SaveHooks(ctx context.Context, row *models.GeneratedHooks) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("save hooks: %w", err)
	}
	return nil
}

func (s *Store) SaveHookScores(ctx context.Context, rows []models.HookScoreRecord) error {
	if len(rows) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("save hook scores: %w", err)
	}
	return nil
}

func (s *Store) SavePosts(ctx context.Context, row *models.GeneratedPosts) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("save posts: %w", err)
	}
	return nil
}

func (s *Store) SaveComments(ctx context.Context, row *models.GeneratedComments) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("save comments: %w", err)
	}
	return nil
}

func (s *Store) LogAICall(ctx context.Context, row *models.AICallLog) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("log ai call: %w", err)
	}
	return nil
}
