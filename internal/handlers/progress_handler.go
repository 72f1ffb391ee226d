package handlers

import (
	"context"
	"net/http"

	"github.com/appcurriculum/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProgressService is the interface that wraps methods for learner progress
type ProgressService interface {
	// GetProgress retrieves the learner's completed lessons, module percentages, time, streak and achievements.
	//
	// A learner without any progress gets an empty view, not an error.
	GetProgress(ctx context.Context, userID int) (*models.ProgressResponse, error)
	// CompleteLesson marks the lesson as completed, counts today's activity and awards reached achievements.
	//
	// "lessonID" and "req.ModuleID" identify the lesson, "req.MinutesSpent" is credited as learning time
	// the first time the lesson is completed.
	// Unknown lessons are not an error, the response then has Recorded set to false.
	// Returns services.ErrModuleLocked when the module's prerequisites are not completed.
	CompleteLesson(ctx context.Context, userID int, lessonID string, req models.CompleteLessonRequest) (*models.CompleteLessonResponse, error)
	// RecordActivity counts today towards the learner's streak.
	//
	// Calling it several times on the same day keeps the streak unchanged.
	RecordActivity(ctx context.Context, userID int) (*models.ActivityResponse, error)
	// GetAchievements retrieves every achievement with the learner's earned flag and progress percent.
	GetAchievements(ctx context.Context, userID int) ([]models.AchievementStatus, error)
}

// ProgressHandler handles HTTP requests for learner progress
type ProgressHandler struct {
	BaseHandler
	service ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(svc ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		service:     svc,
		BaseHandler: newBaseHandler(logger),
	}
}

// RegisterRoutes registers all progress handler routes
func (h *ProgressHandler) RegisterRoutes(r chi.Router) {
	r.Get("/progress", h.GetProgress)
	r.Post("/lessons/{id}/complete", h.CompleteLesson)
	r.Post("/activity", h.RecordActivity)
	r.Get("/achievements", h.GetAchievements)
}

// GetProgress handles GET /progress
// @Summary Get progress
// @Description Get the learner's progress with module percentages recomputed from completed lessons
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ProgressResponse "Learner progress"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /progress [get]
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	progress, err := h.service.GetProgress(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err, "failed to get progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}

// CompleteLesson handles POST /lessons/{id}/complete
// @Summary Complete lesson
// @Description Mark a lesson as completed. Completing a lesson twice changes nothing.
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Param request body models.CompleteLessonRequest true "Module of the lesson and minutes spent"
// @Success 200 {object} models.CompleteLessonResponse "Completion result"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Module is locked"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{id}/complete [post]
func (h *ProgressHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.CompleteLessonRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	response, err := h.service.CompleteLesson(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondServiceError(w, r, err, "failed to complete lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, response)
}

// RecordActivity handles POST /activity
// @Summary Record activity
// @Description Count today towards the learner's daily streak
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ActivityResponse "Current streak"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /activity [post]
func (h *ProgressHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	response, err := h.service.RecordActivity(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err, "failed to record activity")
		return
	}

	h.RespondJSON(w, http.StatusOK, response)
}

// GetAchievements handles GET /achievements
// @Summary Get achievements
// @Description Get every achievement with the learner's earned flag and progress
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AchievementStatus "Achievements"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /achievements [get]
func (h *ProgressHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	achievements, err := h.service.GetAchievements(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err, "failed to get achievements")
		return
	}

	h.RespondJSON(w, http.StatusOK, achievements)
}
