package services

import (
	"errors"
	"fmt"
	"testing"
)

func validDraft() *QuizDraft {
	draft := &QuizDraft{
		Title:       "Go Concurrency Basics",
		Description: "A quick tour of goroutines and channels.",
	}
	for i := 0; i < 10; i++ {
		draft.Questions = append(draft.Questions, DraftQuestion{
			QuestionTitle:   fmt.Sprintf("Question %d", i+1),
			QuestionOptions: []string{"A", "B", "C", "D"},
			Answer:          "B",
		})
	}
	return draft
}

func TestValidateQuizDraftAccepts(t *testing.T) {
	if err := ValidateQuizDraft(validDraft()); err != nil {
		t.Fatalf("ValidateQuizDraft(valid)=%v, want nil", err)
	}
}

func TestValidateQuizDraftRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(d *QuizDraft)
		wantMsg string
	}{
		{
			name:    "nil_draft_handled_via_missing_fields",
			mutate:  func(d *QuizDraft) { d.Title = "" },
			wantMsg: "Missing required quiz fields.",
		},
		{
			name:    "missing_description",
			mutate:  func(d *QuizDraft) { d.Description = "" },
			wantMsg: "Missing required quiz fields.",
		},
		{
			name:    "missing_questions",
			mutate:  func(d *QuizDraft) { d.Questions = nil },
			wantMsg: "Missing required quiz fields.",
		},
		{
			name:    "too_few_questions",
			mutate:  func(d *QuizDraft) { d.Questions = d.Questions[:9] },
			wantMsg: "Quiz must contain exactly 10 questions.",
		},
		{
			name: "too_many_questions",
			mutate: func(d *QuizDraft) {
				d.Questions = append(d.Questions, d.Questions[0])
			},
			wantMsg: "Quiz must contain exactly 10 questions.",
		},
		{
			name:    "question_missing_title",
			mutate:  func(d *QuizDraft) { d.Questions[3].QuestionTitle = "" },
			wantMsg: "Question is missing required fields.",
		},
		{
			name:    "question_missing_answer",
			mutate:  func(d *QuizDraft) { d.Questions[3].Answer = "" },
			wantMsg: "Question is missing required fields.",
		},
		{
			name:    "three_options",
			mutate:  func(d *QuizDraft) { d.Questions[0].QuestionOptions = []string{"A", "B", "C"} },
			wantMsg: "Every question must have exactly 4 options.",
		},
		{
			name:    "five_options",
			mutate:  func(d *QuizDraft) { d.Questions[0].QuestionOptions = []string{"A", "B", "C", "D", "E"} },
			wantMsg: "Every question must have exactly 4 options.",
		},
		{
			name:    "duplicate_options",
			mutate:  func(d *QuizDraft) { d.Questions[9].QuestionOptions = []string{"A", "A", "C", "D"} },
			wantMsg: "Options must be unique.",
		},
		{
			name: "answer_not_in_options",
			mutate: func(d *QuizDraft) {
				d.Questions[5].Answer = "Z"
			},
			wantMsg: "Answer must be one of the question options.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := validDraft()
			tc.mutate(draft)
			err := ValidateQuizDraft(draft)
			if err == nil {
				t.Fatalf("ValidateQuizDraft accepted an invalid draft")
			}
			var perr *PipelineError
			if !errors.As(err, &perr) {
				t.Fatalf("ValidateQuizDraft error type=%T, want *PipelineError", err)
			}
			if perr.Code != CodeInvalidDraft {
				t.Fatalf("ValidateQuizDraft code=%q, want %q", perr.Code, CodeInvalidDraft)
			}
			if perr.Message != tc.wantMsg {
				t.Fatalf("ValidateQuizDraft message=%q, want %q", perr.Message, tc.wantMsg)
			}
		})
	}
}

func TestValidateQuizDraftNil(t *testing.T) {
	err := ValidateQuizDraft(nil)
	if err == nil {
		t.Fatalf("ValidateQuizDraft(nil)=nil, want error")
	}
}
