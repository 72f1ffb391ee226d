package handlers

import (
	"context"
	"net/http"

	"github.com/appcurriculum/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ModuleService is the interface that wraps methods for browsing the curriculum as a learner
type ModuleService interface {
	// ListModules retrieves all modules in catalog order.
	//
	// "userID" identifies the learner whose percent and unlock status are reported for every module.
	//
	// If the catalog or the progress cannot be loaded, the error will be returned together with "nil" value.
	ListModules(ctx context.Context, userID int) ([]models.ModuleListItem, error)
	// GetModule retrieves a module with its ordered lessons.
	//
	// "moduleID" identifies the module, "userID" the learner.
	//
	// Returns services.ErrModuleNotFound for an unknown module and services.ErrModuleLocked
	// when the learner has not completed its prerequisites.
	GetModule(ctx context.Context, userID int, moduleID string) (*models.ModuleDetailResponse, error)
	// GetLesson retrieves a lesson with its content and neighbor lessons.
	//
	// Returns services.ErrLessonNotFound for an unknown lesson and services.ErrModuleLocked
	// when the lesson's module is locked for the learner.
	GetLesson(ctx context.Context, userID int, lessonID string) (*models.LessonDetailResponse, error)
}

// ModuleHandler handles HTTP requests for modules and lessons
type ModuleHandler struct {
	BaseHandler
	service ModuleService
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(svc ModuleService, logger *zap.Logger) *ModuleHandler {
	return &ModuleHandler{
		service:     svc,
		BaseHandler: newBaseHandler(logger),
	}
}

// RegisterRoutes registers all module handler routes
func (h *ModuleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/modules", h.ListModules)
	r.Get("/modules/{id}", h.GetModule)
	r.Get("/lessons/{id}", h.GetLesson)
}

// ListModules handles GET /modules
// @Summary List modules
// @Description Get all modules in catalog order with the learner's percent and unlock status
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ModuleListItem "List of modules"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /modules [get]
func (h *ModuleHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	modules, err := h.service.ListModules(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err, "failed to list modules")
		return
	}

	h.RespondJSON(w, http.StatusOK, modules)
}

// GetModule handles GET /modules/{id}
// @Summary Get module
// @Description Get a module with its lessons and the learner's completion status
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Success 200 {object} models.ModuleDetailResponse "Module with lessons"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Module is locked"
// @Failure 404 {object} map[string]string "Module not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /modules/{id} [get]
func (h *ModuleHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	module, err := h.service.GetModule(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err, "failed to get module")
		return
	}

	h.RespondJSON(w, http.StatusOK, module)
}

// GetLesson handles GET /lessons/{id}
// @Summary Get lesson
// @Description Get lesson content with previous and next lesson IDs
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 200 {object} models.LessonDetailResponse "Lesson"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Module is locked"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{id} [get]
func (h *ModuleHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	lesson, err := h.service.GetLesson(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err, "failed to get lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, lesson)
}
