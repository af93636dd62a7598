package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
	"github.com/tuition-tracker/tracker-service/internal/validator"
)

const (
	LeaderboardSheet = "Leaderboard"
	AttendanceSheet  = "Attendance"

	// excelize.NewFile always starts with this sheet
	defaultSheet = "Sheet1"
)

var (
	leaderboardHeaders = []string{"Rank", "Username", "Percentage", "Streak", "Completed", "Assigned"}
	attendanceHeaders  = []string{"Username", "Date", "Status"}
)

type exportService struct {
	repo    repositories.Repository
	ranking RankingService
	logger  *slog.Logger
}

func NewExportService(repo repositories.Repository, ranking RankingService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:    repo,
		ranking: ranking,
		logger:  logger,
	}
}

// ExportLeaderboard writes the current standings as an xlsx workbook
func (s *exportService) ExportLeaderboard(ctx context.Context) (*bytes.Buffer, error) {
	students, err := s.repo.Student().List(ctx, repositories.StudentFilters{SortBy: "id"})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	byID := make(map[uint]*models.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	standings, err := s.ranking.Standings(ctx)
	if err != nil {
		return nil, err
	}

	f, err := newWorkbook(LeaderboardSheet, leaderboardHeaders)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i, standing := range standings {
		var completed, assigned int
		if st, ok := byID[standing.StudentID]; ok {
			completed = st.CompletedHomeworks
			assigned = st.TotalHomeworksAssigned
		}
		row := []interface{}{standing.Rank, standing.Username, standing.Percentage, standing.Streak, completed, assigned}
		if err := writeRow(f, LeaderboardSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Leaderboard exported", "students", len(standings))
	return f.WriteToBuffer()
}

// ExportAttendance writes every attendance row for the date as an xlsx workbook
func (s *exportService) ExportAttendance(ctx context.Context, date string) (*bytes.Buffer, error) {
	if _, err := validator.ParseDate(date); err != nil {
		return nil, NewValidationError("date", "must be a date in YYYY-MM-DD format", date)
	}

	records, err := s.repo.Attendance().List(ctx, repositories.AttendanceFilters{Date: &date})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	f, err := newWorkbook(AttendanceSheet, attendanceHeaders)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i, record := range records {
		var username string
		if record.Student != nil {
			username = record.Student.Username
		}
		row := []interface{}{username, record.Date, string(record.Status)}
		if err := writeRow(f, AttendanceSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Attendance exported", "date", date, "records", len(records))
	return f.WriteToBuffer()
}

func newWorkbook(sheet string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	row := make([]interface{}, len(headers))
	for i, header := range headers {
		row[i] = header
	}
	if err := writeRow(f, sheet, 1, row); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
