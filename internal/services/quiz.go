package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidquiz/vidquiz-backend/internal/logger"
	"github.com/vidquiz/vidquiz-backend/internal/repos"
	"github.com/vidquiz/vidquiz-backend/internal/types"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuizAccessDenied = errors.New("quiz does not belong to the user")
)

// QuizService covers reads and mutations of quizzes the user already owns.
// Every operation takes the acting user and enforces ownership itself.
type QuizService interface {
	GetUserQuizzes(ctx context.Context, userID uuid.UUID) ([]*types.Quiz, error)
	GetQuiz(ctx context.Context, userID, quizID uuid.UUID) (*types.Quiz, error)
	UpdateQuiz(ctx context.Context, userID, quizID uuid.UUID, title, description *string) (*types.Quiz, error)
	DeleteQuiz(ctx context.Context, userID, quizID uuid.UUID) error
}

type quizService struct {
	db           *gorm.DB
	log          *logger.Logger
	quizRepo     repos.QuizRepo
	questionRepo repos.QuestionRepo
}

func NewQuizService(db *gorm.DB, log *logger.Logger, quizRepo repos.QuizRepo, questionRepo repos.QuestionRepo) QuizService {
	return &quizService{
		db:           db,
		log:          log.With("service", "QuizService"),
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
	}
}

func (qs *quizService) GetUserQuizzes(ctx context.Context, userID uuid.UUID) ([]*types.Quiz, error) {
	quizzes, err := qs.quizRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quizzes: %w", err)
	}
	return quizzes, nil
}

func (qs *quizService) GetQuiz(ctx context.Context, userID, quizID uuid.UUID) (*types.Quiz, error) {
	return qs.getOwnedQuiz(ctx, nil, userID, quizID)
}

func (qs *quizService) UpdateQuiz(ctx context.Context, userID, quizID uuid.UUID, title, description *string) (*types.Quiz, error) {
	if _, err := qs.getOwnedQuiz(ctx, nil, userID, quizID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return nil, fmt.Errorf("quiz title cannot be blank")
		}
		fields["title"] = trimmed
	}
	if description != nil {
		fields["description"] = strings.TrimSpace(*description)
	}
	if len(fields) > 0 {
		if err := qs.quizRepo.UpdateByID(ctx, nil, quizID, fields); err != nil {
			return nil, fmt.Errorf("failed to update quiz: %w", err)
		}
	}
	return qs.getOwnedQuiz(ctx, nil, userID, quizID)
}

func (qs *quizService) DeleteQuiz(ctx context.Context, userID, quizID uuid.UUID) error {
	if _, err := qs.getOwnedQuiz(ctx, nil, userID, quizID); err != nil {
		return err
	}
	return qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := qs.questionRepo.FullDeleteByQuizIDs(ctx, tx, []uuid.UUID{quizID}); err != nil {
			return fmt.Errorf("failed to delete quiz questions: %w", err)
		}
		if err := qs.quizRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{quizID}); err != nil {
			return fmt.Errorf("failed to delete quiz: %w", err)
		}
		return nil
	})
}

func (qs *quizService) getOwnedQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) (*types.Quiz, error) {
	quizzes, err := qs.quizRepo.GetByIDs(ctx, tx, []uuid.UUID{quizID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quiz: %w", err)
	}
	if len(quizzes) == 0 {
		return nil, ErrQuizNotFound
	}
	quiz := quizzes[0]
	if quiz.UserID != userID {
		return nil, ErrQuizAccessDenied
	}
	return quiz, nil
}
