package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vidquiz/vidquiz-backend/internal/repos"
	"github.com/vidquiz/vidquiz-backend/internal/types"
)

func newQuizFixture(t *testing.T) (*gorm.DB, QuizService) {
	t.Helper()
	db := newTestDB(t)
	log := testLogger(t)
	svc := NewQuizService(db, log, repos.NewQuizRepo(db, log), repos.NewQuestionRepo(db, log))
	return db, svc
}

func seedQuiz(t *testing.T, db *gorm.DB, userID uuid.UUID, title string) *types.Quiz {
	t.Helper()
	quiz := &types.Quiz{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: "seeded quiz",
		VideoURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	for i := 0; i < 3; i++ {
		question := &types.Question{
			ID:              uuid.New(),
			QuizID:          quiz.ID,
			QuestionTitle:   fmt.Sprintf("Seed question %d", i+1),
			QuestionOptions: datatypes.NewJSONSlice([]string{"A", "B", "C", "D"}),
			Answer:          "A",
			Position:        i,
		}
		if err := db.Create(question).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}
	return quiz
}

func TestGetUserQuizzesScopedToOwner(t *testing.T) {
	db, svc := newQuizFixture(t)
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")
	seedQuiz(t, db, alice.ID, "Alice quiz one")
	seedQuiz(t, db, alice.ID, "Alice quiz two")
	seedQuiz(t, db, bob.ID, "Bob quiz")

	quizzes, err := svc.GetUserQuizzes(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("GetUserQuizzes: %v", err)
	}
	if len(quizzes) != 2 {
		t.Fatalf("len(quizzes)=%d, want 2", len(quizzes))
	}
	for _, q := range quizzes {
		if q.UserID != alice.ID {
			t.Fatalf("quiz %q belongs to %v, want %v", q.Title, q.UserID, alice.ID)
		}
		if len(q.Questions) != 3 {
			t.Fatalf("quiz %q has %d questions preloaded, want 3", q.Title, len(q.Questions))
		}
	}
}

func TestGetUserQuizzesNewestFirst(t *testing.T) {
	db, svc := newQuizFixture(t)
	alice := seedUser(t, db, "alice", "alice@example.com")
	older := seedQuiz(t, db, alice.ID, "Older quiz")
	if err := db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate quiz: %v", err)
	}
	seedQuiz(t, db, alice.ID, "Newer quiz")

	quizzes, err := svc.GetUserQuizzes(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("GetUserQuizzes: %v", err)
	}
	if len(quizzes) != 2 || quizzes[0].Title != "Newer quiz" {
		t.Fatalf("quizzes not ordered newest first: %+v", quizzes)
	}
}

func TestGetQuizOwnership(t *testing.T) {
	db, svc := newQuizFixture(t)
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")
	quiz := seedQuiz(t, db, alice.ID, "Alice quiz")

	got, err := svc.GetQuiz(context.Background(), alice.ID, quiz.ID)
	if err != nil {
		t.Fatalf("GetQuiz as owner: %v", err)
	}
	if got.ID != quiz.ID {
		t.Fatalf("GetQuiz returned %v, want %v", got.ID, quiz.ID)
	}
	if len(got.Questions) != 3 {
		t.Fatalf("GetQuiz preloaded %d questions, want 3", len(got.Questions))
	}

	if _, err := svc.GetQuiz(context.Background(), bob.ID, quiz.ID); !errors.Is(err, ErrQuizAccessDenied) {
		t.Fatalf("GetQuiz as non-owner err=%v, want ErrQuizAccessDenied", err)
	}
	if _, err := svc.GetQuiz(context.Background(), alice.ID, uuid.New()); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("GetQuiz for missing quiz err=%v, want ErrQuizNotFound", err)
	}
}

func TestUpdateQuiz(t *testing.T) {
	db, svc := newQuizFixture(t)
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")
	quiz := seedQuiz(t, db, alice.ID, "Original title")

	newTitle := "Updated title"
	newDescription := "Updated description"
	updated, err := svc.UpdateQuiz(context.Background(), alice.ID, quiz.ID, &newTitle, &newDescription)
	if err != nil {
		t.Fatalf("UpdateQuiz: %v", err)
	}
	if updated.Title != newTitle || updated.Description != newDescription {
		t.Fatalf("UpdateQuiz result title=%q description=%q", updated.Title, updated.Description)
	}

	blank := "   "
	if _, err := svc.UpdateQuiz(context.Background(), alice.ID, quiz.ID, &blank, nil); err == nil {
		t.Fatalf("UpdateQuiz accepted a blank title")
	}

	other := "Hijacked"
	if _, err := svc.UpdateQuiz(context.Background(), bob.ID, quiz.ID, &other, nil); !errors.Is(err, ErrQuizAccessDenied) {
		t.Fatalf("UpdateQuiz as non-owner err=%v, want ErrQuizAccessDenied", err)
	}
}

func TestUpdateQuizPartial(t *testing.T) {
	db, svc := newQuizFixture(t)
	alice := seedUser(t, db, "alice", "alice@example.com")
	quiz := seedQuiz(t, db, alice.ID, "Keep me")

	newDescription := "Only the description changes"
	updated, err := svc.UpdateQuiz(context.Background(), alice.ID, quiz.ID, nil, &newDescription)
	if err != nil {
		t.Fatalf("UpdateQuiz: %v", err)
	}
	if updated.Title != "Keep me" {
		t.Fatalf("title changed unexpectedly: %q", updated.Title)
	}
	if updated.Description != newDescription {
		t.Fatalf("description=%q, want %q", updated.Description, newDescription)
	}
}

func TestDeleteQuiz(t *testing.T) {
	db, svc := newQuizFixture(t)
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")
	quiz := seedQuiz(t, db, alice.ID, "Doomed quiz")

	if err := svc.DeleteQuiz(context.Background(), bob.ID, quiz.ID); !errors.Is(err, ErrQuizAccessDenied) {
		t.Fatalf("DeleteQuiz as non-owner err=%v, want ErrQuizAccessDenied", err)
	}
	if err := svc.DeleteQuiz(context.Background(), alice.ID, quiz.ID); err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}

	var quizCount, questionCount int64
	if err := db.Model(&types.Quiz{}).Count(&quizCount).Error; err != nil {
		t.Fatalf("count quizzes: %v", err)
	}
	if err := db.Model(&types.Question{}).Count(&questionCount).Error; err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if quizCount != 0 || questionCount != 0 {
		t.Fatalf("delete left quizzes=%d questions=%d, want 0/0", quizCount, questionCount)
	}

	if err := svc.DeleteQuiz(context.Background(), alice.ID, quiz.ID); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("DeleteQuiz of missing quiz err=%v, want ErrQuizNotFound", err)
	}
}
