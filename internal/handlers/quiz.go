package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vidquiz/vidquiz-backend/internal/requestdata"
	"github.com/vidquiz/vidquiz-backend/internal/services"
)

type QuizHandler struct {
	quizService       services.QuizService
	generationService services.QuizGenerationService
}

func NewQuizHandler(quizService services.QuizService, generationService services.QuizGenerationService) *QuizHandler {
	return &QuizHandler{quizService: quizService, generationService: generationService}
}

func (qh *QuizHandler) CreateQuiz(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing request data"))
		return
	}
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	quiz, err := qh.generationService.CreateQuizFromYouTube(c.Request.Context(), rd.UserID, req.URL)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	RespondCreated(c, quiz)
}

func (qh *QuizHandler) ListQuizzes(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing request data"))
		return
	}
	quizzes, err := qh.quizService.GetUserQuizzes(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", fmt.Errorf("failed to list quizzes"))
		return
	}
	RespondOK(c, quizzes)
}

func (qh *QuizHandler) GetQuiz(c *gin.Context) {
	rd, quizID, ok := quizRequestParams(c)
	if !ok {
		return
	}
	quiz, err := qh.quizService.GetQuiz(c.Request.Context(), rd.UserID, quizID)
	if err != nil {
		respondQuizError(c, err)
		return
	}
	RespondOK(c, quiz)
}

func (qh *QuizHandler) UpdateQuiz(c *gin.Context) {
	rd, quizID, ok := quizRequestParams(c)
	if !ok {
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	quiz, err := qh.quizService.UpdateQuiz(c.Request.Context(), rd.UserID, quizID, req.Title, req.Description)
	if err != nil {
		respondQuizError(c, err)
		return
	}
	RespondOK(c, quiz)
}

func (qh *QuizHandler) DeleteQuiz(c *gin.Context) {
	rd, quizID, ok := quizRequestParams(c)
	if !ok {
		return
	}
	if err := qh.quizService.DeleteQuiz(c.Request.Context(), rd.UserID, quizID); err != nil {
		respondQuizError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "quiz deleted"})
}

func quizRequestParams(c *gin.Context) (*requestdata.RequestData, uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing request data"))
		return nil, uuid.Nil, false
	}
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid quiz id"))
		return nil, uuid.Nil, false
	}
	return rd, quizID, true
}

func respondQuizError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrQuizNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrQuizAccessDenied):
		RespondError(c, http.StatusForbidden, "forbidden", err)
	default:
		RespondError(c, http.StatusBadRequest, "bad_request", err)
	}
}

// respondPipelineError maps generation pipeline failures onto HTTP codes.
// Server-side failures get a generic message; the wrapped cause stays in
// the logs.
func respondPipelineError(c *gin.Context, err error) {
	var perr *services.PipelineError
	if errors.As(err, &perr) {
		if perr.ClientFault() {
			RespondError(c, http.StatusBadRequest, string(perr.Code), errors.New(perr.Message))
			return
		}
		RespondError(c, http.StatusInternalServerError, string(perr.Code), errors.New(perr.Message))
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("quiz generation failed"))
}
