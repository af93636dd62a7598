package repositories

import (
	"context"

	"github.com/tuition-tracker/tracker-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type StudentFilters struct {
	Username  *string `json:"username"`
	SortBy    string  `json:"sort_by"`    // "rank", "username", "created_at"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

type HomeworkFilters struct {
	AssignedTo *uint  `json:"assigned_to"`
	SortOrder  string `json:"sort_order"` // by due date; "desc" by default
}

type SubmissionFilters struct {
	StudentID  *uint                     `json:"student_id"`
	HomeworkID *uint                     `json:"homework_id"`
	Statuses   []models.SubmissionStatus `json:"statuses"`
}

type AttendanceFilters struct {
	StudentID *uint   `json:"student_id"`
	Date      *string `json:"date"`
}

// ===== STUDENT REPOSITORY =====

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByUsername(ctx context.Context, username string) (*models.Student, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, filters StudentFilters) ([]*models.Student, error)

	// ListForRanking returns every student; inside a transaction the rows stay
	// locked until commit so concurrent recomputations serialize.
	ListForRanking(ctx context.Context) ([]*models.Student, error)

	// UpdateCounters persists streak, completed and assigned counters only.
	UpdateCounters(ctx context.Context, student *models.Student) error
	UpdateRank(ctx context.Context, id uint, rank int) error
	IncrementAssigned(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

// ===== HOMEWORK REPOSITORY =====

type HomeworkRepository interface {
	Create(ctx context.Context, homework *models.Homework) error
	GetByID(ctx context.Context, id uint) (*models.Homework, error)
	List(ctx context.Context, filters HomeworkFilters) ([]*models.Homework, error)
	DeleteByAssignee(ctx context.Context, studentID uint) (int64, error)
}

// ===== SUBMISSION REPOSITORY =====

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	// UpdateGrade persists status and remark only.
	UpdateGrade(ctx context.Context, submission *models.Submission) error
	// List returns submissions newest first with student and homework loaded.
	List(ctx context.Context, filters SubmissionFilters) ([]*models.Submission, error)
	DeleteByStudent(ctx context.Context, studentID uint) (int64, error)
}

// ===== ATTENDANCE REPOSITORY =====

type AttendanceRepository interface {
	// Upsert inserts or updates the row keyed by (student_id, date) atomically
	// and fills in the stored ID and timestamps.
	Upsert(ctx context.Context, attendance *models.Attendance) error
	Get(ctx context.Context, studentID uint, date string) (*models.Attendance, error)
	// DeleteByStudentAndDate reports whether a row was removed.
	DeleteByStudentAndDate(ctx context.Context, studentID uint, date string) (bool, error)
	// List returns records newest date first with the student loaded.
	List(ctx context.Context, filters AttendanceFilters) ([]*models.Attendance, error)
	DeleteByStudent(ctx context.Context, studentID uint) (int64, error)
}
