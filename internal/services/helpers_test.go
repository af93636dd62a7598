package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tuition-tracker/tracker-service/internal/events"
	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories/memory"
	"github.com/tuition-tracker/tracker-service/internal/validator"
)

type testEnv struct {
	repo      *memory.Repository
	publisher *events.MockEventPublisher

	ranking    RankingService
	students   StudentService
	homework   HomeworkService
	grading    GradingService
	attendance AttendanceService
	dashboard  DashboardService
	export     ExportService
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := newTestLogger()
	v := validator.New()
	repo := memory.NewRepository()
	pub := events.NewMockEventPublisher(logger)
	ranking := NewRankingService(repo, pub, logger)

	return &testEnv{
		repo:       repo,
		publisher:  pub,
		ranking:    ranking,
		students:   NewStudentService(repo, ranking, pub, logger, v),
		homework:   NewHomeworkService(repo, ranking, pub, logger, v),
		grading:    NewGradingService(repo, ranking, pub, logger, v),
		attendance: NewAttendanceService(repo, pub, logger, v, 4),
		dashboard:  NewDashboardService(repo, ranking, logger),
		export:     NewExportService(repo, ranking, logger),
	}
}

func (e *testEnv) createStudent(t *testing.T, username string) *models.StudentResponse {
	t.Helper()
	student, err := e.students.Create(context.Background(), &models.StudentCreateRequest{
		Username: username,
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("create student %s: %v", username, err)
	}
	return student
}

func (e *testEnv) assign(t *testing.T, studentID uint, title string) *HomeworkResponse {
	t.Helper()
	hw, err := e.homework.Assign(context.Background(), &models.HomeworkCreateRequest{
		Title:     title,
		DueDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Format(models.DateLayout),
		StudentID: &studentID,
	})
	if err != nil {
		t.Fatalf("assign %s: %v", title, err)
	}
	return hw
}

func (e *testEnv) grade(t *testing.T, submissionID uint, status models.SubmissionStatus) *GradeResult {
	t.Helper()
	result, err := e.grading.GradeSubmission(context.Background(), submissionID, &models.GradeSubmissionRequest{Status: status})
	if err != nil {
		t.Fatalf("grade submission %d as %q: %v", submissionID, status, err)
	}
	return result
}

func (e *testEnv) student(t *testing.T, id uint) *models.Student {
	t.Helper()
	student, err := e.repo.Student().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get student %d: %v", id, err)
	}
	return student
}

func ptr[T any](v T) *T {
	return &v
}
