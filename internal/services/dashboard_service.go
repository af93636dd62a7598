package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tuition-tracker/tracker-service/internal/leaderboard"
	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

type dashboardService struct {
	repo    repositories.Repository
	ranking RankingService
	logger  *slog.Logger
}

func NewDashboardService(repo repositories.Repository, ranking RankingService, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:    repo,
		ranking: ranking,
		logger:  logger,
	}
}

// GetStudentDashboard returns the student's stats, homework split by state
// and attendance history. Viewing it refreshes the student's stored rank.
func (s *dashboardService) GetStudentDashboard(ctx context.Context, studentID uint) (*models.StudentDashboard, error) {
	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("student", studentID)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	rank, err := s.ranking.RefreshStudentRank(ctx, studentID)
	if err != nil {
		return nil, err
	}
	student.Rank = rank

	submissions, err := s.repo.Submission().List(ctx, repositories.SubmissionFilters{StudentID: &studentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	attendance, err := s.repo.Attendance().List(ctx, repositories.AttendanceFilters{StudentID: &studentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	dashboard := &models.StudentDashboard{
		PendingHomeworks:   make([]*models.Submission, 0),
		CompletedHomeworks: make([]*models.Submission, 0),
		AttendanceRecords:  attendance,
	}
	if dashboard.AttendanceRecords == nil {
		dashboard.AttendanceRecords = make([]*models.Attendance, 0)
	}

	for _, sub := range submissions {
		if sub.Status.IsGraded() {
			dashboard.CompletedHomeworks = append(dashboard.CompletedHomeworks, sub)
		} else {
			dashboard.PendingHomeworks = append(dashboard.PendingHomeworks, sub)
		}
	}

	var present int
	for _, record := range attendance {
		if record.Status == models.AttendancePresent {
			present++
		}
	}

	dashboard.Stats = models.StudentStats{
		ID:                     student.ID,
		Username:               student.Username,
		Streak:                 student.Streak,
		Rank:                   student.Rank,
		Percentage:             leaderboard.StudentPercentage(student),
		CompletedHomeworks:     student.CompletedHomeworks,
		TotalHomeworksAssigned: student.TotalHomeworksAssigned,
		AttendancePercentage:   leaderboard.AttendancePercentage(present, len(attendance)),
	}

	s.logger.Debug("Dashboard built",
		"student_id", studentID,
		"pending", len(dashboard.PendingHomeworks),
		"completed", len(dashboard.CompletedHomeworks),
		"attendance", len(attendance))
	return dashboard, nil
}
