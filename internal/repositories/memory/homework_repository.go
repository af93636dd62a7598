package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

var errForeignKey = errors.New("foreign key violation")

type homeworkRepository struct {
	r *Repository
}

func (h *homeworkRepository) Create(ctx context.Context, homework *models.Homework) error {
	return h.r.run(func(st *state) error {
		if _, ok := st.students[homework.AssignedTo]; !ok {
			return fmt.Errorf("create homework: student %d: %w", homework.AssignedTo, errForeignKey)
		}

		now := h.r.now()
		homework.ID = st.newID()
		homework.CreatedAt = now
		homework.UpdatedAt = now

		stored := *homework
		stored.Assignee = nil
		st.homeworks[homework.ID] = stored
		return nil
	})
}

func (h *homeworkRepository) GetByID(ctx context.Context, id uint) (*models.Homework, error) {
	var found *models.Homework
	err := h.r.run(func(st *state) error {
		hw, ok := st.homeworks[id]
		if !ok {
			return fmt.Errorf("get homework: %w", repositories.ErrNotFound)
		}
		found = withAssignee(st, hw)
		return nil
	})
	return found, err
}

func (h *homeworkRepository) List(ctx context.Context, filters repositories.HomeworkFilters) ([]*models.Homework, error) {
	homeworks := make([]*models.Homework, 0)
	err := h.r.run(func(st *state) error {
		for _, hw := range st.homeworks {
			if filters.AssignedTo != nil && hw.AssignedTo != *filters.AssignedTo {
				continue
			}
			homeworks = append(homeworks, withAssignee(st, hw))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	asc := filters.SortOrder == "asc"
	slices.SortFunc(homeworks, func(a, b *models.Homework) int {
		c := a.DueTime().Compare(b.DueTime())
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if !asc {
			c = -c
		}
		return c
	})
	return homeworks, nil
}

func (h *homeworkRepository) DeleteByAssignee(ctx context.Context, studentID uint) (int64, error) {
	var deleted int64
	err := h.r.run(func(st *state) error {
		for id, hw := range st.homeworks {
			if hw.AssignedTo != studentID {
				continue
			}
			delete(st.homeworks, id)
			deleted++
			for sid, sub := range st.submissions {
				if sub.HomeworkID == id {
					delete(st.submissions, sid)
				}
			}
		}
		return nil
	})
	return deleted, err
}

func withAssignee(st *state, hw models.Homework) *models.Homework {
	if student, ok := st.students[hw.AssignedTo]; ok {
		hw.Assignee = &student
	}
	return &hw
}
