package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

type submissionRepository struct {
	r *Repository
}

func (s *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return s.r.run(func(st *state) error {
		if _, ok := st.students[submission.StudentID]; !ok {
			return fmt.Errorf("create submission: student %d: %w", submission.StudentID, errForeignKey)
		}
		if _, ok := st.homeworks[submission.HomeworkID]; !ok {
			return fmt.Errorf("create submission: homework %d: %w", submission.HomeworkID, errForeignKey)
		}
		for _, existing := range st.submissions {
			if existing.StudentID == submission.StudentID && existing.HomeworkID == submission.HomeworkID {
				return fmt.Errorf("create submission: %w", repositories.ErrDuplicate)
			}
		}

		now := s.r.now()
		submission.ID = st.newID()
		if submission.Status == "" {
			submission.Status = models.SubmissionPending
		}
		submission.CreatedAt = now
		submission.UpdatedAt = now

		stored := *submission
		stored.Student, stored.Homework = nil, nil
		st.submissions[submission.ID] = stored
		return nil
	})
}

func (s *submissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var found *models.Submission
	err := s.r.run(func(st *state) error {
		sub, ok := st.submissions[id]
		if !ok {
			return fmt.Errorf("get submission: %w", repositories.ErrNotFound)
		}
		found = &sub
		return nil
	})
	return found, err
}

func (s *submissionRepository) UpdateGrade(ctx context.Context, submission *models.Submission) error {
	return s.r.run(func(st *state) error {
		stored, ok := st.submissions[submission.ID]
		if !ok {
			return fmt.Errorf("update submission grade: %w", repositories.ErrNotFound)
		}
		stored.Status = submission.Status
		stored.Remark = submission.Remark
		stored.UpdatedAt = s.r.now()
		submission.UpdatedAt = stored.UpdatedAt
		st.submissions[submission.ID] = stored
		return nil
	})
}

func (s *submissionRepository) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	submissions := make([]*models.Submission, 0)
	err := s.r.run(func(st *state) error {
		for _, sub := range st.submissions {
			if filters.StudentID != nil && sub.StudentID != *filters.StudentID {
				continue
			}
			if filters.HomeworkID != nil && sub.HomeworkID != *filters.HomeworkID {
				continue
			}
			if len(filters.Statuses) > 0 && !slices.Contains(filters.Statuses, sub.Status) {
				continue
			}
			if student, ok := st.students[sub.StudentID]; ok {
				sub.Student = &student
			}
			if hw, ok := st.homeworks[sub.HomeworkID]; ok {
				sub.Homework = &hw
			}
			submissions = append(submissions, &sub)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(submissions, func(a, b *models.Submission) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return submissions, nil
}

func (s *submissionRepository) DeleteByStudent(ctx context.Context, studentID uint) (int64, error) {
	var deleted int64
	err := s.r.run(func(st *state) error {
		for id, sub := range st.submissions {
			if sub.StudentID == studentID {
				delete(st.submissions, id)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}
