package handlers

import (
	"context"
	"net/http"

	"github.com/appcurriculum/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// QuizService is the interface that wraps methods for lesson quizzes
type QuizService interface {
	// GetQuiz retrieves the lesson's questions without the correct answers.
	//
	// Returns services.ErrLessonNotFound, services.ErrQuizNotFound or services.ErrModuleLocked
	// when the quiz cannot be shown.
	GetQuiz(ctx context.Context, userID int, lessonID string) (*models.QuizResponse, error)
	// SubmitQuiz scores the answers and completes the lesson when every answer is correct.
	//
	// Please reference GetQuiz method for the returned errors.
	SubmitQuiz(ctx context.Context, userID int, lessonID string, req models.SubmitQuizRequest) (*models.SubmitQuizResponse, error)
}

// QuizHandler handles HTTP requests for lesson quizzes
type QuizHandler struct {
	BaseHandler
	service QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(svc QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		service:     svc,
		BaseHandler: newBaseHandler(logger),
	}
}

// RegisterRoutes registers all quiz handler routes
func (h *QuizHandler) RegisterRoutes(r chi.Router) {
	r.Get("/lessons/{id}/quiz", h.GetQuiz)
	r.Post("/lessons/{id}/quiz", h.SubmitQuiz)
}

// GetQuiz handles GET /lessons/{id}/quiz
// @Summary Get lesson quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 200 {object} models.QuizResponse "Quiz questions"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Module is locked"
// @Failure 404 {object} map[string]string "Lesson or quiz not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{id}/quiz [get]
func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	quiz, err := h.service.GetQuiz(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err, "failed to get quiz")
		return
	}

	h.RespondJSON(w, http.StatusOK, quiz)
}

// SubmitQuiz handles POST /lessons/{id}/quiz
// @Summary Submit lesson quiz
// @Description Score the answers. All answers correct completes the lesson.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Param request body models.SubmitQuizRequest true "Chosen option index per question ID"
// @Success 200 {object} models.SubmitQuizResponse "Quiz result"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Module is locked"
// @Failure 404 {object} map[string]string "Lesson or quiz not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{id}/quiz [post]
func (h *QuizHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.SubmitQuizRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.SubmitQuiz(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondServiceError(w, r, err, "failed to submit quiz")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}
