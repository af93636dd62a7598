package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tuition-tracker/tracker-service/internal/events"
	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories/memory"
	"github.com/tuition-tracker/tracker-service/internal/services"
	"github.com/tuition-tracker/tracker-service/internal/utils"
	"github.com/tuition-tracker/tracker-service/internal/validator"
)

const (
	adminUser = "admin"
	adminPass = "admin-pass"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slogLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogLogger)

	sm := services.NewDefaultServiceManager(
		memory.NewRepository(),
		events.NewMockEventPublisher(slogLogger),
		slogLogger,
		validator.New(),
		services.AuthConfig{
			JWTSecret:     "test-secret",
			AdminUsername: adminUser,
			AdminPassword: adminPass,
		},
	)
	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	router := gin.New()
	SetupMiddleware(router, logger)
	NewHandlerManager(sm, logger).SetupRoutes(router)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Username: username, Password: password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}
	return decode[models.LoginResponse](t, w).Token
}

func createStudent(t *testing.T, router *gin.Engine, adminToken, username string) uint {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/v1/admin/students", adminToken, models.StudentCreateRequest{Username: username, Password: "secret"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create %s: status %d body %s", username, w.Code, w.Body.String())
	}
	return decode[models.StudentResponse](t, w).ID
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestRouter_Auth(t *testing.T) {
	router := newTestRouter(t)
	admin := login(t, router, adminUser, adminPass)
	createStudent(t, router, admin, "alice")
	student := login(t, router, "alice", "secret")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/v1/admin/students", want: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodGet, path: "/api/v1/admin/students", token: "junk", want: http.StatusUnauthorized},
		{name: "student on admin route", method: http.MethodGet, path: "/api/v1/admin/students", token: student, want: http.StatusForbidden},
		{name: "admin on student route", method: http.MethodGet, path: "/api/v1/student/dashboard", token: admin, want: http.StatusForbidden},
		{name: "admin lists students", method: http.MethodGet, path: "/api/v1/admin/students", token: admin, want: http.StatusOK},
		{name: "student dashboard", method: http.MethodGet, path: "/api/v1/student/dashboard", token: student, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, tt.token, nil)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	t.Run("wrong password", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Username: "alice", Password: "nope"})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})
}

func TestRouter_StudentLifecycle(t *testing.T) {
	router := newTestRouter(t)
	admin := login(t, router, adminUser, adminPass)
	id := createStudent(t, router, admin, "alice")

	if w := do(t, router, http.MethodPost, "/api/v1/admin/students", admin, models.StudentCreateRequest{Username: "alice", Password: "secret"}); w.Code != http.StatusConflict {
		t.Errorf("duplicate create: status %d, want 409", w.Code)
	}

	w := do(t, router, http.MethodPost, "/api/v1/admin/students", admin, models.StudentCreateRequest{Username: "x", Password: "1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid create: status %d, want 400", w.Code)
	}
	if resp := decode[ErrorResponse](t, w); resp.Details == nil {
		t.Error("validation failure carries no details")
	}

	hw := do(t, router, http.MethodPost, "/api/v1/admin/homework", admin, models.HomeworkCreateRequest{Title: "Fractions", DueDate: "2024-01-15", StudentID: &id})
	if hw.Code != http.StatusCreated {
		t.Fatalf("assign: status %d body %s", hw.Code, hw.Body.String())
	}
	submissionID := decode[services.HomeworkResponse](t, hw).SubmissionID

	grade := do(t, router, http.MethodPut, "/api/v1/admin/submissions/"+itoa(submissionID), admin, models.GradeSubmissionRequest{Status: models.SubmissionDone})
	if grade.Code != http.StatusOK {
		t.Fatalf("grade: status %d body %s", grade.Code, grade.Body.String())
	}
	if result := decode[services.GradeResult](t, grade); result.Student.Percentage != 100 || result.Student.Streak != 1 {
		t.Errorf("unexpected grade result %+v", result.Student)
	}

	if w := do(t, router, http.MethodPut, "/api/v1/admin/submissions/abc", admin, models.GradeSubmissionRequest{Status: models.SubmissionDone}); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status %d, want 400", w.Code)
	}

	if w := do(t, router, http.MethodDelete, "/api/v1/admin/students/"+itoa(id), admin, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: status %d body %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodDelete, "/api/v1/admin/students/"+itoa(id), admin, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/api/v1/admin/homework", admin, nil); w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("homework after delete: %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_AttendancePartialFailure(t *testing.T) {
	router := newTestRouter(t)
	admin := login(t, router, adminUser, adminPass)
	id := createStudent(t, router, admin, "alice")

	present := models.AttendancePresent
	body := models.AttendanceReconcileRequest{
		Date: "2024-01-10",
		Records: []models.AttendanceRecordInput{
			{StudentID: id, Status: &present},
			{StudentID: 999, Status: &present},
		},
	}

	w := do(t, router, http.MethodPost, "/api/v1/admin/attendance", admin, body)
	if w.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d, want 207 (body %s)", w.Code, w.Body.String())
	}
	result := decode[models.AttendanceReconcileResult](t, w)
	if len(result.Records) != 1 || len(result.Failures) != 1 || result.Failures[0].StudentID != 999 {
		t.Errorf("unexpected result %+v", result)
	}

	body.Records = body.Records[:1]
	if w := do(t, router, http.MethodPost, "/api/v1/admin/attendance", admin, body); w.Code != http.StatusOK {
		t.Errorf("clean batch: status %d, want 200", w.Code)
	}

	w = do(t, router, http.MethodGet, "/api/v1/admin/attendance?date=2024-01-10", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	if records := decode[[]models.Attendance](t, w); len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}

	if w := do(t, router, http.MethodGet, "/api/v1/admin/attendance?date=tomorrow", admin, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad date: status %d, want 400", w.Code)
	}
}

func TestRouter_Export(t *testing.T) {
	router := newTestRouter(t)
	admin := login(t, router, adminUser, adminPass)
	createStudent(t, router, admin, "alice")

	w := do(t, router, http.MethodGet, "/api/v1/admin/exports/leaderboard", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, ".xlsx") {
		t.Errorf("content disposition = %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Error("empty workbook")
	}
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decode[map[string]any](t, w); body["status"] != "healthy" {
		t.Errorf("unexpected body %v", body)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}
