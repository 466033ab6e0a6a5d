package services

// QuizDraft is the model output before it earns persistence.
type QuizDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []DraftQuestion `json:"questions"`
}

type DraftQuestion struct {
	QuestionTitle   string   `json:"question_title"`
	QuestionOptions []string `json:"question_options"`
	Answer          string   `json:"answer"`
}

// ValidateQuizDraft rejects drafts that do not meet the quiz contract:
// exactly 10 questions, each with exactly 4 distinct options, and an
// answer drawn from those options. The first violation wins.
func ValidateQuizDraft(draft *QuizDraft) error {
	if draft == nil || draft.Title == "" || draft.Description == "" || draft.Questions == nil {
		return newPipelineError(CodeInvalidDraft, "Missing required quiz fields.", nil)
	}
	if len(draft.Questions) != 10 {
		return newPipelineError(CodeInvalidDraft, "Quiz must contain exactly 10 questions.", nil)
	}
	for _, q := range draft.Questions {
		if q.QuestionTitle == "" || q.QuestionOptions == nil || q.Answer == "" {
			return newPipelineError(CodeInvalidDraft, "Question is missing required fields.", nil)
		}
		if len(q.QuestionOptions) != 4 {
			return newPipelineError(CodeInvalidDraft, "Every question must have exactly 4 options.", nil)
		}
		seen := make(map[string]struct{}, len(q.QuestionOptions))
		for _, opt := range q.QuestionOptions {
			seen[opt] = struct{}{}
		}
		if len(seen) != 4 {
			return newPipelineError(CodeInvalidDraft, "Options must be unique.", nil)
		}
		if _, ok := seen[q.Answer]; !ok {
			return newPipelineError(CodeInvalidDraft, "Answer must be one of the question options.", nil)
		}
	}
	return nil
}
