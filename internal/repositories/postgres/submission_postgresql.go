package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (s *SubmissionPostgreSQL) Create(ctx context.Context, submission *models.Submission) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(submission).Error
	return translateError(err, "create submission")
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, translateError(err, "get submission")
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) UpdateGrade(ctx context.Context, submission *models.Submission) error {
	submission.UpdatedAt = time.Now()
	result := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", submission.ID).
		Updates(map[string]interface{}{
			"status":     submission.Status,
			"remark":     submission.Remark,
			"updated_at": submission.UpdatedAt,
		})
	return requireAffected(result, "update submission grade")
}

func (s *SubmissionPostgreSQL) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	var submissions []*models.Submission

	query := s.db.WithContext(ctx).Preload("Student").Preload("Homework")
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.HomeworkID != nil {
		query = query.Where("homework_id = ?", *filters.HomeworkID)
	}
	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}

	err := query.Order("created_at DESC, id DESC").Find(&submissions).Error
	return submissions, translateError(err, "list submissions")
}

func (s *SubmissionPostgreSQL) DeleteByStudent(ctx context.Context, studentID uint) (int64, error) {
	result := s.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.Submission{})
	return result.RowsAffected, translateError(result.Error, "delete submissions by student")
}
