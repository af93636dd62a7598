package services

import (
	"bytes"
	"context"

	"github.com/tuition-tracker/tracker-service/internal/leaderboard"
	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

// ===== REQUEST/RESPONSE DTOs =====

type GradeResult struct {
	Submission     *models.Submission      `json:"submission"`
	Student        *models.StudentResponse `json:"student"`
	PreviousStatus models.SubmissionStatus `json:"previous_status"`
}

type HomeworkResponse struct {
	*models.Homework
	SubmissionID uint `json:"submission_id"`
}

// ===== SERVICES =====

type StudentService interface {
	Create(ctx context.Context, req *models.StudentCreateRequest) (*models.StudentResponse, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.StudentResponse, error)
	// List returns every student ordered by stored rank
	List(ctx context.Context) ([]*models.StudentResponse, error)
	ListSubmissions(ctx context.Context, studentID uint) ([]*models.Submission, error)
}

type HomeworkService interface {
	Assign(ctx context.Context, req *models.HomeworkCreateRequest) (*HomeworkResponse, error)
	List(ctx context.Context) ([]*models.Homework, error)
	ListSubmissions(ctx context.Context, homeworkID uint) ([]*models.Submission, error)
}

type GradingService interface {
	GradeSubmission(ctx context.Context, submissionID uint, req *models.GradeSubmissionRequest) (*GradeResult, error)
}

type RankingService interface {
	// InTransaction runs fn and a full rank recomputation in one transaction
	// while holding the ranking lock, and returns the resulting standings.
	InTransaction(ctx context.Context, trigger string, fn func(tx repositories.Repository) error) ([]leaderboard.Standing, error)
	RecomputeRanks(ctx context.Context) ([]leaderboard.Standing, error)
	// RefreshStudentRank persists only the given student's current rank.
	RefreshStudentRank(ctx context.Context, studentID uint) (int, error)
	// Standings computes the current order without persisting anything.
	Standings(ctx context.Context) ([]leaderboard.Standing, error)
}

type AttendanceService interface {
	Reconcile(ctx context.Context, req *models.AttendanceReconcileRequest) (*models.AttendanceReconcileResult, error)
	GetByDate(ctx context.Context, date string) ([]*models.Attendance, error)
}

type DashboardService interface {
	GetStudentDashboard(ctx context.Context, studentID uint) (*models.StudentDashboard, error)
}

type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	ParseToken(token string) (*Claims, error)
}

type ExportService interface {
	ExportLeaderboard(ctx context.Context) (*bytes.Buffer, error)
	ExportAttendance(ctx context.Context, date string) (*bytes.Buffer, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Student() StudentService
	Homework() HomeworkService
	Grading() GradingService
	Ranking() RankingService
	Attendance() AttendanceService
	Dashboard() DashboardService
	Auth() AuthService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
