package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

type studentRepository struct {
	r *Repository
}

func (s *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return s.r.run(func(st *state) error {
		for _, existing := range st.students {
			if existing.Username == student.Username {
				return fmt.Errorf("create student: %w", repositories.ErrDuplicate)
			}
		}

		now := s.r.now()
		student.ID = st.newID()
		if student.Role == "" {
			student.Role = models.RoleStudent
		}
		if student.Rank == 0 {
			student.Rank = 1
		}
		student.CreatedAt = now
		student.UpdatedAt = now
		st.students[student.ID] = *student
		return nil
	})
}

func (s *studentRepository) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var found *models.Student
	err := s.r.run(func(st *state) error {
		student, ok := st.students[id]
		if !ok {
			return fmt.Errorf("get student: %w", repositories.ErrNotFound)
		}
		found = &student
		return nil
	})
	return found, err
}

func (s *studentRepository) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	var found *models.Student
	err := s.r.run(func(st *state) error {
		for _, student := range st.students {
			if student.Username == username {
				found = &student
				return nil
			}
		}
		return fmt.Errorf("get student by username: %w", repositories.ErrNotFound)
	})
	return found, err
}

func (s *studentRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var exists bool
	err := s.r.run(func(st *state) error {
		_, exists = st.students[id]
		return nil
	})
	return exists, err
}

func (s *studentRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.GetByUsername(ctx, username)
	if repositories.IsNotFoundError(err) {
		return false, nil
	}
	return err == nil, err
}

func (s *studentRepository) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, error) {
	students := make([]*models.Student, 0)
	err := s.r.run(func(st *state) error {
		for _, student := range st.students {
			if filters.Username != nil && student.Username != *filters.Username {
				continue
			}
			students = append(students, &student)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	desc := strings.EqualFold(filters.SortOrder, "desc")
	slices.SortFunc(students, func(a, b *models.Student) int {
		var c int
		switch filters.SortBy {
		case "username":
			c = cmp.Compare(a.Username, b.Username)
		case "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		case "id":
			c = cmp.Compare(a.ID, b.ID)
		default:
			c = cmp.Compare(a.Rank, b.Rank)
		}
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return students, nil
}

func (s *studentRepository) ListForRanking(ctx context.Context) ([]*models.Student, error) {
	return s.List(ctx, repositories.StudentFilters{SortBy: "id"})
}

func (s *studentRepository) UpdateCounters(ctx context.Context, student *models.Student) error {
	return s.update(student.ID, "update student counters", func(stored *models.Student) {
		stored.Streak = student.Streak
		stored.CompletedHomeworks = student.CompletedHomeworks
		stored.TotalHomeworksAssigned = student.TotalHomeworksAssigned
	})
}

func (s *studentRepository) UpdateRank(ctx context.Context, id uint, rank int) error {
	return s.update(id, "update student rank", func(stored *models.Student) {
		stored.Rank = rank
	})
}

func (s *studentRepository) IncrementAssigned(ctx context.Context, id uint) error {
	return s.update(id, "increment assigned homework", func(stored *models.Student) {
		stored.TotalHomeworksAssigned++
	})
}

// Delete cascades like the ON DELETE CASCADE foreign keys in Postgres
func (s *studentRepository) Delete(ctx context.Context, id uint) error {
	return s.r.run(func(st *state) error {
		if _, ok := st.students[id]; !ok {
			return fmt.Errorf("delete student: %w", repositories.ErrNotFound)
		}
		delete(st.students, id)

		for hid, hw := range st.homeworks {
			if hw.AssignedTo == id {
				delete(st.homeworks, hid)
			}
		}
		for sid, sub := range st.submissions {
			if sub.StudentID == id {
				delete(st.submissions, sid)
			} else if _, ok := st.homeworks[sub.HomeworkID]; !ok {
				delete(st.submissions, sid)
			}
		}
		for aid, att := range st.attendance {
			if att.StudentID == id {
				delete(st.attendance, aid)
			}
		}
		return nil
	})
}

func (s *studentRepository) update(id uint, op string, mutate func(*models.Student)) error {
	return s.r.run(func(st *state) error {
		stored, ok := st.students[id]
		if !ok {
			return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
		}
		mutate(&stored)
		stored.UpdatedAt = s.r.now()
		st.students[id] = stored
		return nil
	})
}
