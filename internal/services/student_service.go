package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tuition-tracker/tracker-service/internal/events"
	"github.com/tuition-tracker/tracker-service/internal/leaderboard"
	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
	"github.com/tuition-tracker/tracker-service/internal/validator"
)

type studentService struct {
	repo      repositories.Repository
	ranking   RankingService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(repo repositories.Repository, ranking RankingService, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) StudentService {
	return &studentService{
		repo:      repo,
		ranking:   ranking,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *studentService) Create(ctx context.Context, req *models.StudentCreateRequest) (*models.StudentResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationErrors(errs)
	}

	s.logger.Info("Creating student", "username", req.Username)

	exists, err := s.repo.Student().ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, NewConflictError("student", "username", req.Username)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		Username: req.Username,
		Password: hash,
		Role:     models.RoleStudent,
		Rank:     1,
	}

	standings, err := s.ranking.InTransaction(ctx, string(events.StudentCreated), func(tx repositories.Repository) error {
		if err := tx.Student().Create(ctx, student); err != nil {
			// Lost a race with a concurrent create of the same username
			if repositories.IsDuplicateError(err) {
				return NewConflictError("student", "username", req.Username)
			}
			return fmt.Errorf("failed to create student: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rank, ok := leaderboard.RankOf(standings, student.ID); ok {
		student.Rank = rank
	}

	publishEvent(ctx, s.publisher, s.logger, events.StudentCreated, events.StudentCreatedData{
		StudentID: student.ID,
		Username:  student.Username,
	})

	s.logger.Info("Student created", "student_id", student.ID, "username", student.Username)
	return toStudentResponse(student), nil
}

// Delete removes the student with every submission, homework and
// attendance row that belongs to them.
func (s *studentService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("Deleting student", "student_id", id)

	var removed events.StudentDeletedData
	_, err := s.ranking.InTransaction(ctx, string(events.StudentDeleted), func(tx repositories.Repository) error {
		exists, err := tx.Student().ExistsByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check student: %w", err)
		}
		if !exists {
			return NewNotFoundError("student", id)
		}

		if removed.DeletedSubmissions, err = tx.Submission().DeleteByStudent(ctx, id); err != nil {
			return fmt.Errorf("failed to delete submissions: %w", err)
		}
		if removed.DeletedHomeworks, err = tx.Homework().DeleteByAssignee(ctx, id); err != nil {
			return fmt.Errorf("failed to delete homework: %w", err)
		}
		if removed.DeletedAttendance, err = tx.Attendance().DeleteByStudent(ctx, id); err != nil {
			return fmt.Errorf("failed to delete attendance: %w", err)
		}
		if err := tx.Student().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete student: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	removed.StudentID = id
	publishEvent(ctx, s.publisher, s.logger, events.StudentDeleted, removed)

	s.logger.Info("Student deleted",
		"student_id", id,
		"submissions", removed.DeletedSubmissions,
		"homeworks", removed.DeletedHomeworks,
		"attendance", removed.DeletedAttendance)
	return nil
}

func (s *studentService) GetByID(ctx context.Context, id uint) (*models.StudentResponse, error) {
	student, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("student", id)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return toStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context) ([]*models.StudentResponse, error) {
	students, err := s.repo.Student().List(ctx, repositories.StudentFilters{SortBy: "rank", SortOrder: "asc"})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	responses := make([]*models.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, toStudentResponse(student))
	}
	return responses, nil
}

func (s *studentService) ListSubmissions(ctx context.Context, studentID uint) ([]*models.Submission, error) {
	exists, err := s.repo.Student().ExistsByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student: %w", err)
	}
	if !exists {
		return nil, NewNotFoundError("student", studentID)
	}

	submissions, err := s.repo.Submission().List(ctx, repositories.SubmissionFilters{StudentID: &studentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

func toStudentResponse(student *models.Student) *models.StudentResponse {
	return &models.StudentResponse{
		Student:    student,
		Percentage: leaderboard.StudentPercentage(student),
	}
}
