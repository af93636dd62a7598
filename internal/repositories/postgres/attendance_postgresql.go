package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

type AttendancePostgreSQL struct {
	db *gorm.DB
}

func NewAttendancePostgreSQL(db *gorm.DB) repositories.AttendanceRepository {
	return &AttendancePostgreSQL{db: db}
}

// Upsert relies on the (student_id, date) unique index so concurrent writers
// for the same key converge on one row.
func (a *AttendancePostgreSQL) Upsert(ctx context.Context, attendance *models.Attendance) error {
	db := a.db.WithContext(ctx)

	err := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": attendance.Status, "updated_at": time.Now()}),
		}).
		Create(attendance).Error
	if err != nil {
		return translateError(err, "upsert attendance")
	}

	// Reload so created_at reflects the original insert on updates
	var stored models.Attendance
	err = db.Where("student_id = ? AND date = ?", attendance.StudentID, attendance.Date).First(&stored).Error
	if err != nil {
		return translateError(err, "reload attendance")
	}
	*attendance = stored
	return nil
}

func (a *AttendancePostgreSQL) Get(ctx context.Context, studentID uint, date string) (*models.Attendance, error) {
	var attendance models.Attendance
	err := a.db.WithContext(ctx).Where("student_id = ? AND date = ?", studentID, date).First(&attendance).Error
	if err != nil {
		return nil, translateError(err, "get attendance")
	}
	return &attendance, nil
}

func (a *AttendancePostgreSQL) DeleteByStudentAndDate(ctx context.Context, studentID uint, date string) (bool, error) {
	result := a.db.WithContext(ctx).
		Where("student_id = ? AND date = ?", studentID, date).
		Delete(&models.Attendance{})
	if result.Error != nil {
		return false, translateError(result.Error, "delete attendance")
	}
	return result.RowsAffected > 0, nil
}

func (a *AttendancePostgreSQL) List(ctx context.Context, filters repositories.AttendanceFilters) ([]*models.Attendance, error) {
	var records []*models.Attendance

	query := a.db.WithContext(ctx).Preload("Student")
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.Date != nil {
		query = query.Where("date = ?", *filters.Date)
	}

	err := query.Order("date DESC, student_id ASC").Find(&records).Error
	return records, translateError(err, "list attendance")
}

func (a *AttendancePostgreSQL) DeleteByStudent(ctx context.Context, studentID uint) (int64, error) {
	result := a.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.Attendance{})
	return result.RowsAffected, translateError(result.Error, "delete attendance by student")
}
