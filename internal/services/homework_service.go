package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/datatypes"

	"github.com/tuition-tracker/tracker-service/internal/events"
	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
	"github.com/tuition-tracker/tracker-service/internal/validator"
)

type homeworkService struct {
	repo      repositories.Repository
	ranking   RankingService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewHomeworkService(repo repositories.Repository, ranking RankingService, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) HomeworkService {
	return &homeworkService{
		repo:      repo,
		ranking:   ranking,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Assign creates a homework for one student together with its pending
// submission and bumps the student's assigned counter.
func (s *homeworkService) Assign(ctx context.Context, req *models.HomeworkCreateRequest) (*HomeworkResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationErrors(errs)
	}

	dueDate, err := validator.ParseDueDate(req.DueDate)
	if err != nil {
		return nil, NewValidationError("due_date", err.Error(), req.DueDate)
	}
	studentID := *req.StudentID

	s.logger.Info("Assigning homework", "student_id", studentID, "title", req.Title)

	homework := &models.Homework{
		Title:      req.Title,
		DueDate:    datatypes.Date(dueDate),
		AssignedTo: studentID,
	}
	if req.Description != nil {
		homework.Description = strings.TrimSpace(*req.Description)
	}
	submission := &models.Submission{
		StudentID: studentID,
		Status:    models.SubmissionPending,
	}

	_, err = s.ranking.InTransaction(ctx, string(events.HomeworkAssigned), func(tx repositories.Repository) error {
		exists, err := tx.Student().ExistsByID(ctx, studentID)
		if err != nil {
			return fmt.Errorf("failed to check student: %w", err)
		}
		if !exists {
			return NewNotFoundError("student", studentID)
		}

		if err := tx.Homework().Create(ctx, homework); err != nil {
			return fmt.Errorf("failed to create homework: %w", err)
		}

		submission.HomeworkID = homework.ID
		if err := tx.Submission().Create(ctx, submission); err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}

		if err := tx.Student().IncrementAssigned(ctx, studentID); err != nil {
			return fmt.Errorf("failed to update assigned count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, events.HomeworkAssigned, events.HomeworkAssignedData{
		HomeworkID:   homework.ID,
		SubmissionID: submission.ID,
		StudentID:    studentID,
		Title:        homework.Title,
		DueDate:      homework.DueTime(),
	})

	// Reload to include the assignee
	if stored, err := s.repo.Homework().GetByID(ctx, homework.ID); err == nil {
		homework = stored
	} else {
		s.logger.Warn("Failed to reload homework", "homework_id", homework.ID, "error", err)
	}

	s.logger.Info("Homework assigned", "homework_id", homework.ID, "submission_id", submission.ID)
	return &HomeworkResponse{Homework: homework, SubmissionID: submission.ID}, nil
}

func (s *homeworkService) List(ctx context.Context) ([]*models.Homework, error) {
	homeworks, err := s.repo.Homework().List(ctx, repositories.HomeworkFilters{SortOrder: "desc"})
	if err != nil {
		return nil, fmt.Errorf("failed to list homework: %w", err)
	}
	return homeworks, nil
}

func (s *homeworkService) ListSubmissions(ctx context.Context, homeworkID uint) ([]*models.Submission, error) {
	if _, err := s.repo.Homework().GetByID(ctx, homeworkID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("homework", homeworkID)
		}
		return nil, fmt.Errorf("failed to get homework: %w", err)
	}

	submissions, err := s.repo.Submission().List(ctx, repositories.SubmissionFilters{HomeworkID: &homeworkID})
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}
