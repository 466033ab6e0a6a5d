package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidquiz/vidquiz-backend/internal/repos"
	"github.com/vidquiz/vidquiz-backend/internal/types"
)

type fakeTranscripts struct {
	transcript string
	err        error
	lastURL    string
}

func (f *fakeTranscripts) FetchTranscript(ctx context.Context, watchURL string) (string, error) {
	f.lastURL = watchURL
	return f.transcript, f.err
}

type fakeGenerator struct {
	draft      *QuizDraft
	err        error
	lastPrompt string
}

func (f *fakeGenerator) GenerateQuizDraft(ctx context.Context, prompt string) (*QuizDraft, error) {
	f.lastPrompt = prompt
	return f.draft, f.err
}

type failingQuestionRepo struct {
	repos.QuestionRepo
}

func (f *failingQuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.Question) ([]*types.Question, error) {
	return nil, fmt.Errorf("simulated insert failure")
}

func newGenerationFixture(t *testing.T, transcripts TranscriptService, generator TextGenerator) (*gorm.DB, QuizGenerationService) {
	t.Helper()
	db := newTestDB(t)
	log := testLogger(t)
	quizRepo := repos.NewQuizRepo(db, log)
	questionRepo := repos.NewQuestionRepo(db, log)
	svc := NewQuizGenerationService(db, log, transcripts, generator, quizRepo, questionRepo)
	return db, svc
}

func TestCreateQuizFromYouTube(t *testing.T) {
	transcripts := &fakeTranscripts{transcript: strings.Repeat("go is a compiled language ", 5)}
	generator := &fakeGenerator{draft: validDraft()}
	db, svc := newGenerationFixture(t, transcripts, generator)
	user := seedUser(t, db, "alice", "alice@example.com")

	quiz, err := svc.CreateQuizFromYouTube(context.Background(), user.ID, "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("CreateQuizFromYouTube: %v", err)
	}
	if quiz.UserID != user.ID {
		t.Fatalf("quiz.UserID=%v, want %v", quiz.UserID, user.ID)
	}
	if quiz.VideoURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Fatalf("quiz.VideoURL=%q, want normalized watch URL", quiz.VideoURL)
	}
	if transcripts.lastURL != quiz.VideoURL {
		t.Fatalf("transcript fetched for %q, want %q", transcripts.lastURL, quiz.VideoURL)
	}
	if !strings.Contains(generator.lastPrompt, transcripts.transcript) {
		t.Fatalf("prompt does not contain the transcript")
	}
	if len(quiz.Questions) != 10 {
		t.Fatalf("len(quiz.Questions)=%d, want 10", len(quiz.Questions))
	}

	// Stored questions keep their original order.
	var stored []types.Question
	if err := db.Where("quiz_id = ?", quiz.ID).Order("position ASC").Find(&stored).Error; err != nil {
		t.Fatalf("load stored questions: %v", err)
	}
	if len(stored) != 10 {
		t.Fatalf("stored questions=%d, want 10", len(stored))
	}
	for i, q := range stored {
		if q.Position != i {
			t.Fatalf("stored[%d].Position=%d, want %d", i, q.Position, i)
		}
		if q.QuestionTitle != fmt.Sprintf("Question %d", i+1) {
			t.Fatalf("stored[%d].QuestionTitle=%q, want %q", i, q.QuestionTitle, fmt.Sprintf("Question %d", i+1))
		}
		if len(q.QuestionOptions) != 4 {
			t.Fatalf("stored[%d] has %d options, want 4", i, len(q.QuestionOptions))
		}
	}
}

func TestCreateQuizFromYouTubeInvalidURL(t *testing.T) {
	_, svc := newGenerationFixture(t, &fakeTranscripts{}, &fakeGenerator{})
	_, err := svc.CreateQuizFromYouTube(context.Background(), uuid.New(), "https://example.com/not-youtube")
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Code != CodeInvalidURL {
		t.Fatalf("err=%v, want invalid_url pipeline error", err)
	}
	if perr.Message != "Invalid YouTube URL." {
		t.Fatalf("message=%q, want %q", perr.Message, "Invalid YouTube URL.")
	}
}

func TestCreateQuizFromYouTubeNoTranscript(t *testing.T) {
	transcripts := &fakeTranscripts{err: newPipelineError(CodeNoTranscript, noTranscriptMessage, nil)}
	_, svc := newGenerationFixture(t, transcripts, &fakeGenerator{})
	_, err := svc.CreateQuizFromYouTube(context.Background(), uuid.New(), "https://youtu.be/dQw4w9WgXcQ")
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Code != CodeNoTranscript {
		t.Fatalf("err=%v, want no_transcript pipeline error", err)
	}
}

func TestCreateQuizFromYouTubeInvalidDraft(t *testing.T) {
	draft := validDraft()
	draft.Questions = draft.Questions[:7]
	transcripts := &fakeTranscripts{transcript: strings.Repeat("long enough transcript ", 5)}
	db, svc := newGenerationFixture(t, transcripts, &fakeGenerator{draft: draft})
	user := seedUser(t, db, "bob", "bob@example.com")

	_, err := svc.CreateQuizFromYouTube(context.Background(), user.ID, "https://youtu.be/dQw4w9WgXcQ")
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Code != CodeInvalidDraft {
		t.Fatalf("err=%v, want invalid_draft pipeline error", err)
	}

	var count int64
	if err := db.Model(&types.Quiz{}).Count(&count).Error; err != nil {
		t.Fatalf("count quizzes: %v", err)
	}
	if count != 0 {
		t.Fatalf("invalid draft persisted %d quizzes, want 0", count)
	}
}

func TestCreateQuizFromYouTubeAtomicPersistence(t *testing.T) {
	transcripts := &fakeTranscripts{transcript: strings.Repeat("long enough transcript ", 5)}
	generator := &fakeGenerator{draft: validDraft()}
	db := newTestDB(t)
	log := testLogger(t)
	quizRepo := repos.NewQuizRepo(db, log)
	questionRepo := &failingQuestionRepo{QuestionRepo: repos.NewQuestionRepo(db, log)}
	svc := NewQuizGenerationService(db, log, transcripts, generator, quizRepo, questionRepo)
	user := seedUser(t, db, "carol", "carol@example.com")

	_, err := svc.CreateQuizFromYouTube(context.Background(), user.ID, "https://youtu.be/dQw4w9WgXcQ")
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Code != CodePersistenceFailed {
		t.Fatalf("err=%v, want persistence_failed pipeline error", err)
	}

	// The quiz row written before the question failure must be rolled back.
	var quizCount, questionCount int64
	if err := db.Model(&types.Quiz{}).Count(&quizCount).Error; err != nil {
		t.Fatalf("count quizzes: %v", err)
	}
	if err := db.Model(&types.Question{}).Count(&questionCount).Error; err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if quizCount != 0 || questionCount != 0 {
		t.Fatalf("partial persistence: quizzes=%d questions=%d, want 0/0", quizCount, questionCount)
	}
}

func TestCreateQuizFromYouTubeGenerationFailure(t *testing.T) {
	transcripts := &fakeTranscripts{transcript: strings.Repeat("long enough transcript ", 5)}
	generator := &fakeGenerator{err: newPipelineError(CodeGenerationFailed, generationFailedPrefix+": Empty response from model.", nil)}
	_, svc := newGenerationFixture(t, transcripts, generator)
	_, err := svc.CreateQuizFromYouTube(context.Background(), uuid.New(), "https://youtu.be/dQw4w9WgXcQ")
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Code != CodeGenerationFailed {
		t.Fatalf("err=%v, want generation_failed pipeline error", err)
	}
	if !perr.ClientFault() {
		t.Fatalf("generation failures should be client faults")
	}
}
