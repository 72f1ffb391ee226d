package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/appcurriculum/backend/internal/middlewares"
	"github.com/appcurriculum/backend/internal/models"
	"github.com/appcurriculum/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "valid-token"

// fakeValidator accepts testToken as learner 1
type fakeValidator struct{}

func (fakeValidator) ValidateAccessToken(token string) (int, error) {
	if token != testToken {
		return 0, errors.New("invalid token")
	}
	return 1, nil
}

type mockModuleService struct {
	modules []models.ModuleListItem
	module  *models.ModuleDetailResponse
	lesson  *models.LessonDetailResponse
	err     error
	userID  int
	id      string
}

func (m *mockModuleService) ListModules(ctx context.Context, userID int) ([]models.ModuleListItem, error) {
	m.userID = userID
	return m.modules, m.err
}

func (m *mockModuleService) GetModule(ctx context.Context, userID int, moduleID string) (*models.ModuleDetailResponse, error) {
	m.userID, m.id = userID, moduleID
	return m.module, m.err
}

func (m *mockModuleService) GetLesson(ctx context.Context, userID int, lessonID string) (*models.LessonDetailResponse, error) {
	m.userID, m.id = userID, lessonID
	return m.lesson, m.err
}

type mockProgressService struct {
	progress     *models.ProgressResponse
	completion   *models.CompleteLessonResponse
	activity     *models.ActivityResponse
	achievements []models.AchievementStatus
	err          error
	lessonID     string
	req          models.CompleteLessonRequest
}

func (m *mockProgressService) GetProgress(ctx context.Context, userID int) (*models.ProgressResponse, error) {
	return m.progress, m.err
}

func (m *mockProgressService) CompleteLesson(ctx context.Context, userID int, lessonID string, req models.CompleteLessonRequest) (*models.CompleteLessonResponse, error) {
	m.lessonID, m.req = lessonID, req
	return m.completion, m.err
}

func (m *mockProgressService) RecordActivity(ctx context.Context, userID int) (*models.ActivityResponse, error) {
	return m.activity, m.err
}

func (m *mockProgressService) GetAchievements(ctx context.Context, userID int) ([]models.AchievementStatus, error) {
	return m.achievements, m.err
}

type mockQuizService struct {
	quiz   *models.QuizResponse
	result *models.SubmitQuizResponse
	err    error
	req    models.SubmitQuizRequest
}

func (m *mockQuizService) GetQuiz(ctx context.Context, userID int, lessonID string) (*models.QuizResponse, error) {
	return m.quiz, m.err
}

func (m *mockQuizService) SubmitQuiz(ctx context.Context, userID int, lessonID string, req models.SubmitQuizRequest) (*models.SubmitQuizResponse, error) {
	m.req = req
	return m.result, m.err
}

// setupTestRouter mounts the handlers behind the auth middleware the way the API does
func setupTestRouter(modules ModuleService, progress ProgressService, quiz QuizService) chi.Router {
	logger := zap.NewNop()
	r := chi.NewRouter()
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(middlewares.AuthMiddleware(fakeValidator{}))
	NewModuleHandler(modules, logger).RegisterRoutes(r)
	NewProgressHandler(progress, logger).RegisterRoutes(r)
	NewQuizHandler(quiz, logger).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["error"]
}

func TestAuthRequired(t *testing.T) {
	router := setupTestRouter(&mockModuleService{}, &mockProgressService{}, &mockQuizService{})

	tests := []struct {
		name   string
		header string
		cookie string
	}{
		{name: "no credentials"},
		{name: "invalid bearer token", header: "Bearer nope"},
		{name: "invalid cookie", cookie: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/progress", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	t.Run("cookie token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/progress", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: testToken})
		w := httptest.NewRecorder()

		setupTestRouter(&mockModuleService{}, &mockProgressService{progress: &models.ProgressResponse{}}, &mockQuizService{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestModuleHandler(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		svc            *mockModuleService
		expectedStatus int
		expectedID     string
	}{
		{
			name:           "list modules",
			path:           "/modules",
			svc:            &mockModuleService{modules: []models.ModuleListItem{{ID: "app-fundamentals", Unlocked: true}}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "get module",
			path:           "/modules/app-fundamentals",
			svc:            &mockModuleService{module: &models.ModuleDetailResponse{Module: models.ModuleListItem{ID: "app-fundamentals"}}},
			expectedStatus: http.StatusOK,
			expectedID:     "app-fundamentals",
		},
		{
			name:           "locked module",
			path:           "/modules/mastery",
			svc:            &mockModuleService{err: services.ErrModuleLocked},
			expectedStatus: http.StatusForbidden,
			expectedID:     "mastery",
		},
		{
			name:           "unknown module",
			path:           "/modules/nope",
			svc:            &mockModuleService{err: services.ErrModuleNotFound},
			expectedStatus: http.StatusNotFound,
			expectedID:     "nope",
		},
		{
			name:           "get lesson",
			path:           "/lessons/af-1",
			svc:            &mockModuleService{lesson: &models.LessonDetailResponse{ID: "af-1", NextLesson: "af-2"}},
			expectedStatus: http.StatusOK,
			expectedID:     "af-1",
		},
		{
			name:           "unknown lesson",
			path:           "/lessons/nope",
			svc:            &mockModuleService{err: services.ErrLessonNotFound},
			expectedStatus: http.StatusNotFound,
			expectedID:     "nope",
		},
		{
			name:           "unexpected error is hidden",
			path:           "/modules",
			svc:            &mockModuleService{err: errors.New("database error")},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(tt.svc, &mockProgressService{}, &mockQuizService{})

			w := doRequest(t, router, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, 1, tt.svc.userID)
			assert.Equal(t, tt.expectedID, tt.svc.id)
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", decodeError(t, w))
			}
		})
	}
}

func TestProgressHandler_CompleteLesson(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		svcErr         error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "success",
			body:           `{"moduleId":"app-fundamentals","minutesSpent":6}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid json",
			body:           `{"moduleId":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "missing module",
			body:           `{"minutesSpent":6}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "moduleId is required",
		},
		{
			name:           "negative minutes",
			body:           `{"moduleId":"app-fundamentals","minutesSpent":-1}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "minutesSpent must be at least 0",
		},
		{
			name:           "locked module",
			body:           `{"moduleId":"study-techniques"}`,
			svcErr:         services.ErrModuleLocked,
			expectedStatus: http.StatusForbidden,
			expectedError:  "module is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockProgressService{
				completion: &models.CompleteLessonResponse{Recorded: true, UnlockedModules: []string{}, NewAchievements: []models.Achievement{}},
				err:        tt.svcErr,
			}
			router := setupTestRouter(&mockModuleService{}, svc, &mockQuizService{})

			w := doRequest(t, router, http.MethodPost, "/lessons/af-1/complete", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w))
				return
			}
			assert.Equal(t, "af-1", svc.lessonID)
			assert.Equal(t, models.CompleteLessonRequest{ModuleID: "app-fundamentals", MinutesSpent: 6}, svc.req)

			var response models.CompleteLessonResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.True(t, response.Recorded)
		})
	}
}

func TestProgressHandler_Reads(t *testing.T) {
	svc := &mockProgressService{
		progress:     &models.ProgressResponse{CompletedLessons: []string{"af-1"}, Streak: 2, LastActive: "2024-03-12"},
		activity:     &models.ActivityResponse{Streak: 2, LastActive: "2024-03-12"},
		achievements: []models.AchievementStatus{{Achievement: models.DefaultAchievements[0], Earned: true, Progress: 100}},
	}
	router := setupTestRouter(&mockModuleService{}, svc, &mockQuizService{})

	t.Run("progress", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/progress", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, []any{"af-1"}, body["completedLessons"])
		assert.Equal(t, "2024-03-12", body["lastActive"])
	})

	t.Run("activity", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/activity", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body models.ActivityResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, *svc.activity, body)
	})

	t.Run("achievements", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/achievements", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body []map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "first-lesson", body[0]["id"])
		assert.Equal(t, true, body[0]["earned"])
	})
}

func TestQuizHandler(t *testing.T) {
	t.Run("get quiz hides answers", func(t *testing.T) {
		svc := &mockQuizService{quiz: &models.QuizResponse{
			LessonID:  "af-3",
			Questions: []models.QuizQuestion{{ID: "q1", Prompt: "Pick", Options: []string{"a", "b"}, CorrectOption: 1}},
		}}
		router := setupTestRouter(&mockModuleService{}, &mockProgressService{}, svc)

		w := doRequest(t, router, http.MethodGet, "/lessons/af-3/quiz", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "correct")
	})

	t.Run("lesson without quiz", func(t *testing.T) {
		router := setupTestRouter(&mockModuleService{}, &mockProgressService{}, &mockQuizService{err: services.ErrQuizNotFound})

		w := doRequest(t, router, http.MethodGet, "/lessons/af-1/quiz", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("submit", func(t *testing.T) {
		svc := &mockQuizService{result: &models.SubmitQuizResponse{CorrectCount: 2, Total: 2, Passed: true}}
		router := setupTestRouter(&mockModuleService{}, &mockProgressService{}, svc)

		w := doRequest(t, router, http.MethodPost, "/lessons/af-3/quiz", `{"answers":{"q1":1,"q2":0}}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]int{"q1": 1, "q2": 0}, svc.req.Answers)
		var body models.SubmitQuizResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.True(t, body.Passed)
	})

	t.Run("submit without answers", func(t *testing.T) {
		router := setupTestRouter(&mockModuleService{}, &mockProgressService{}, &mockQuizService{})

		w := doRequest(t, router, http.MethodPost, "/lessons/af-3/quiz", `{"answers":{}}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "answers must be at least 1", decodeError(t, w))
	})
}

func TestBaseHandler_RespondError(t *testing.T) {
	h := newBaseHandler(zap.NewNop())
	w := httptest.NewRecorder()

	h.RespondError(w, http.StatusTeapot, "short and stout")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "short and stout", decodeError(t, w))
}
