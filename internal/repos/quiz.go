package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidquiz/vidquiz-backend/internal/logger"
	"github.com/vidquiz/vidquiz-backend/internal/types"
)

type QuizRepo interface {
	Create(ctx context.Context, tx *gorm.DB, quizzes []*types.Quiz) ([]*types.Quiz, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, quizIDs []uuid.UUID) ([]*types.Quiz, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Quiz, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID, fields map[string]interface{}) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, quizIDs []uuid.UUID) error
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Create(ctx context.Context, tx *gorm.DB, quizzes []*types.Quiz) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(quizzes) == 0 {
		return []*types.Quiz{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepo) GetByIDs(ctx context.Context, tx *gorm.DB, quizIDs []uuid.UUID) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Quiz
	if len(quizIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id IN ?", quizIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Quiz
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizRepo) UpdateByID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Quiz{}).
		Where("id = ?", quizID).
		Updates(fields).Error
}

func (r *quizRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, quizIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(quizIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", quizIDs).
		Delete(&types.Quiz{}).Error
}
