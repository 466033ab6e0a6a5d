package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vidquiz/vidquiz-backend/internal/logger"
	"github.com/vidquiz/vidquiz-backend/internal/normalization"
	"github.com/vidquiz/vidquiz-backend/internal/repos"
	"github.com/vidquiz/vidquiz-backend/internal/types"
)

// TextGenerator is the slice of the model client the generation pipeline
// depends on.
type TextGenerator interface {
	GenerateQuizDraft(ctx context.Context, prompt string) (*QuizDraft, error)
}

// QuizGenerationService runs the full pipeline: normalize the URL, fetch a
// transcript, prompt the model, validate the draft, and persist the quiz
// with its questions in one transaction. Each stage fails the job outright;
// there are no partial results.
type QuizGenerationService interface {
	CreateQuizFromYouTube(ctx context.Context, userID uuid.UUID, rawURL string) (*types.Quiz, error)
}

type quizGenerationService struct {
	db  *gorm.DB
	log *logger.Logger

	transcripts  TranscriptService
	generator    TextGenerator
	quizRepo     repos.QuizRepo
	questionRepo repos.QuestionRepo
}

func NewQuizGenerationService(db *gorm.DB, log *logger.Logger, transcripts TranscriptService, generator TextGenerator, quizRepo repos.QuizRepo, questionRepo repos.QuestionRepo) QuizGenerationService {
	return &quizGenerationService{
		db:           db,
		log:          log.With("service", "QuizGenerationService"),
		transcripts:  transcripts,
		generator:    generator,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
	}
}

func (s *quizGenerationService) CreateQuizFromYouTube(ctx context.Context, userID uuid.UUID, rawURL string) (*types.Quiz, error) {
	watchURL, ok := normalization.NormalizeYouTubeURL(rawURL)
	if !ok {
		return nil, newPipelineError(CodeInvalidURL, "Invalid YouTube URL.", nil)
	}

	transcript, err := s.transcripts.FetchTranscript(ctx, watchURL)
	if err != nil {
		return nil, err
	}

	draft, err := s.generator.GenerateQuizDraft(ctx, BuildQuizPrompt(transcript))
	if err != nil {
		return nil, err
	}
	if err := ValidateQuizDraft(draft); err != nil {
		return nil, err
	}

	quiz := &types.Quiz{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       draft.Title,
		Description: draft.Description,
		VideoURL:    watchURL,
	}
	questions := make([]*types.Question, 0, len(draft.Questions))
	for i, q := range draft.Questions {
		questions = append(questions, &types.Question{
			ID:              uuid.New(),
			QuizID:          quiz.ID,
			QuestionTitle:   q.QuestionTitle,
			QuestionOptions: datatypes.NewJSONSlice(q.QuestionOptions),
			Answer:          q.Answer,
			Position:        i,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.quizRepo.Create(ctx, tx, []*types.Quiz{quiz}); err != nil {
			return err
		}
		if _, err := s.questionRepo.Create(ctx, tx, questions); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.log.Error("quiz persistence failed", "user_id", userID, "url", watchURL, "error", err)
		return nil, newPipelineError(CodePersistenceFailed, "Failed to save the generated quiz.", err)
	}

	quiz.Questions = make([]types.Question, 0, len(questions))
	for _, q := range questions {
		quiz.Questions = append(quiz.Questions, *q)
	}
	return quiz, nil
}
