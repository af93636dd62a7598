package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tuition-tracker/tracker-service/internal/events"
	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
	"github.com/tuition-tracker/tracker-service/internal/validator"
)

const defaultAttendanceWorkers = 8

type attendanceService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	workers   int
}

func NewAttendanceService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, workers int) AttendanceService {
	if workers <= 0 {
		workers = defaultAttendanceWorkers
	}
	return &attendanceService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		workers:   workers,
	}
}

type recordOutcome struct {
	stored  *models.Attendance
	removed bool
	err     error
}

// Reconcile applies every record for the date independently. A record with no
// status clears that student's row; anything else is upserted. Failures are
// reported per student and never abort the rest of the batch.
func (s *attendanceService) Reconcile(ctx context.Context, req *models.AttendanceReconcileRequest) (*models.AttendanceReconcileResult, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationErrors(errs)
	}

	records := dedupeAttendance(req.Records)
	s.logger.Info("Reconciling attendance", "date", req.Date, "records", len(records))

	outcomes := make([]recordOutcome, len(records))

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, rec := range records {
		g.Go(func() error {
			outcomes[i] = s.applyRecord(ctx, req.Date, rec)
			return nil
		})
	}
	// Workers never return an error; failures are collected per record
	_ = g.Wait()

	result := &models.AttendanceReconcileResult{
		Date:    req.Date,
		Records: make([]*models.Attendance, 0, len(records)),
	}
	var removed int
	for i, out := range outcomes {
		switch {
		case out.err != nil:
			result.Failures = append(result.Failures, models.AttendanceFailure{
				StudentID: records[i].StudentID,
				Error:     out.err.Error(),
			})
		case out.removed:
			removed++
		case out.stored != nil:
			result.Records = append(result.Records, out.stored)
		}
	}

	publishEvent(ctx, s.publisher, s.logger, events.AttendanceReconciled, events.AttendanceReconciledData{
		Date:     req.Date,
		Upserted: len(result.Records),
		Removed:  removed,
		Failed:   len(result.Failures),
	})

	s.logger.Info("Attendance reconciled",
		"date", req.Date,
		"upserted", len(result.Records),
		"removed", removed,
		"failed", len(result.Failures))
	return result, nil
}

func (s *attendanceService) applyRecord(ctx context.Context, date string, rec models.AttendanceRecordInput) recordOutcome {
	if err := ctx.Err(); err != nil {
		return recordOutcome{err: err}
	}
	if errs := s.validator.Validate(&rec); errs != nil {
		return recordOutcome{err: NewValidationErrors(errs)}
	}

	exists, err := s.repo.Student().ExistsByID(ctx, rec.StudentID)
	if err != nil {
		return recordOutcome{err: fmt.Errorf("failed to check student: %w", err)}
	}
	if !exists {
		return recordOutcome{err: NewNotFoundError("student", rec.StudentID)}
	}

	if rec.Status == nil || *rec.Status == "" {
		deleted, err := s.repo.Attendance().DeleteByStudentAndDate(ctx, rec.StudentID, date)
		if err != nil {
			return recordOutcome{err: fmt.Errorf("failed to clear attendance: %w", err)}
		}
		return recordOutcome{removed: deleted}
	}

	attendance := &models.Attendance{
		StudentID: rec.StudentID,
		Date:      date,
		Status:    *rec.Status,
	}
	if err := s.repo.Attendance().Upsert(ctx, attendance); err != nil {
		return recordOutcome{err: fmt.Errorf("failed to save attendance: %w", err)}
	}
	return recordOutcome{stored: attendance}
}

// dedupeAttendance keeps the last record per student, in first-seen order.
func dedupeAttendance(records []models.AttendanceRecordInput) []models.AttendanceRecordInput {
	index := make(map[uint]int, len(records))
	out := make([]models.AttendanceRecordInput, 0, len(records))
	for _, rec := range records {
		if i, ok := index[rec.StudentID]; ok {
			out[i] = rec
			continue
		}
		index[rec.StudentID] = len(out)
		out = append(out, rec)
	}
	return out
}

func (s *attendanceService) GetByDate(ctx context.Context, date string) ([]*models.Attendance, error) {
	if _, err := validator.ParseDate(date); err != nil {
		return nil, NewValidationError("date", "must be a date in YYYY-MM-DD format", date)
	}

	records, err := s.repo.Attendance().List(ctx, repositories.AttendanceFilters{Date: &date})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}
