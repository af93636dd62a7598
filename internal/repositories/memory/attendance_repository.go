package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

type attendanceRepository struct {
	r *Repository
}

func (a *attendanceRepository) Upsert(ctx context.Context, attendance *models.Attendance) error {
	return a.r.run(func(st *state) error {
		if _, ok := st.students[attendance.StudentID]; !ok {
			return fmt.Errorf("upsert attendance: student %d: %w", attendance.StudentID, errForeignKey)
		}

		now := a.r.now()
		for id, existing := range st.attendance {
			if existing.StudentID == attendance.StudentID && existing.Date == attendance.Date {
				existing.Status = attendance.Status
				existing.UpdatedAt = now
				st.attendance[id] = existing
				*attendance = existing
				return nil
			}
		}

		attendance.ID = st.newID()
		attendance.CreatedAt = now
		attendance.UpdatedAt = now
		attendance.Student = nil
		st.attendance[attendance.ID] = *attendance
		return nil
	})
}

func (a *attendanceRepository) Get(ctx context.Context, studentID uint, date string) (*models.Attendance, error) {
	var found *models.Attendance
	err := a.r.run(func(st *state) error {
		for _, att := range st.attendance {
			if att.StudentID == studentID && att.Date == date {
				found = &att
				return nil
			}
		}
		return fmt.Errorf("get attendance: %w", repositories.ErrNotFound)
	})
	return found, err
}

func (a *attendanceRepository) DeleteByStudentAndDate(ctx context.Context, studentID uint, date string) (bool, error) {
	var deleted bool
	err := a.r.run(func(st *state) error {
		for id, att := range st.attendance {
			if att.StudentID == studentID && att.Date == date {
				delete(st.attendance, id)
				deleted = true
			}
		}
		return nil
	})
	return deleted, err
}

func (a *attendanceRepository) List(ctx context.Context, filters repositories.AttendanceFilters) ([]*models.Attendance, error) {
	records := make([]*models.Attendance, 0)
	err := a.r.run(func(st *state) error {
		for _, att := range st.attendance {
			if filters.StudentID != nil && att.StudentID != *filters.StudentID {
				continue
			}
			if filters.Date != nil && att.Date != *filters.Date {
				continue
			}
			if student, ok := st.students[att.StudentID]; ok {
				att.Student = &student
			}
			records = append(records, &att)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Dates are YYYY-MM-DD so string order is calendar order
	slices.SortFunc(records, func(x, y *models.Attendance) int {
		if c := cmp.Compare(y.Date, x.Date); c != 0 {
			return c
		}
		return cmp.Compare(x.StudentID, y.StudentID)
	})
	return records, nil
}

func (a *attendanceRepository) DeleteByStudent(ctx context.Context, studentID uint) (int64, error) {
	var deleted int64
	err := a.r.run(func(st *state) error {
		for id, att := range st.attendance {
			if att.StudentID == studentID {
				delete(st.attendance, id)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}
