package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tuition-tracker/tracker-service/internal/events"
	"github.com/tuition-tracker/tracker-service/internal/leaderboard"
	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
	"github.com/tuition-tracker/tracker-service/internal/validator"
)

type gradingService struct {
	repo      repositories.Repository
	ranking   RankingService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewGradingService(repo repositories.Repository, ranking RankingService, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) GradingService {
	return &gradingService{
		repo:      repo,
		ranking:   ranking,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// GradeSubmission sets a submission's status, applies the counter effects to
// its student and re-ranks everyone, all in one transaction.
func (s *gradingService) GradeSubmission(ctx context.Context, submissionID uint, req *models.GradeSubmissionRequest) (*GradeResult, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationErrors(errs)
	}

	s.logger.Info("Grading submission",
		"submission_id", submissionID,
		"status", req.Status)

	var (
		submission *models.Submission
		student    *models.Student
		previous   models.SubmissionStatus
	)

	standings, err := s.ranking.InTransaction(ctx, string(events.SubmissionGraded), func(tx repositories.Repository) error {
		var err error
		submission, err = tx.Submission().GetByID(ctx, submissionID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("submission", submissionID)
			}
			return fmt.Errorf("failed to get submission: %w", err)
		}

		student, err = tx.Student().GetByID(ctx, submission.StudentID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("student", submission.StudentID)
			}
			return fmt.Errorf("failed to get student: %w", err)
		}

		previous = submission.Status
		if err := applyStatusTransition(student, previous, req.Status); err != nil {
			return err
		}

		submission.Status = req.Status
		if req.Remark != nil && *req.Remark != "" {
			submission.Remark = *req.Remark
		}

		if err := tx.Submission().UpdateGrade(ctx, submission); err != nil {
			return fmt.Errorf("failed to update submission: %w", err)
		}
		if err := tx.Student().UpdateCounters(ctx, student); err != nil {
			return fmt.Errorf("failed to update student counters: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Grading failed", "submission_id", submissionID, "error", err)
		return nil, err
	}

	if rank, ok := leaderboard.RankOf(standings, student.ID); ok {
		student.Rank = rank
	}
	percentage := leaderboard.StudentPercentage(student)

	publishEvent(ctx, s.publisher, s.logger, events.SubmissionGraded, events.SubmissionGradedData{
		SubmissionID:       submission.ID,
		StudentID:          student.ID,
		HomeworkID:         submission.HomeworkID,
		PreviousStatus:     string(previous),
		Status:             string(submission.Status),
		Streak:             student.Streak,
		CompletedHomeworks: student.CompletedHomeworks,
		Percentage:         percentage,
	})

	s.logger.Info("Submission graded",
		"submission_id", submission.ID,
		"student_id", student.ID,
		"previous_status", previous,
		"status", submission.Status,
		"streak", student.Streak,
		"rank", student.Rank)

	return &GradeResult{
		Submission:     submission,
		Student:        &models.StudentResponse{Student: student, Percentage: percentage},
		PreviousStatus: previous,
	}, nil
}
