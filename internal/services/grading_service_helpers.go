package services

import (
	"fmt"

	"github.com/tuition-tracker/tracker-service/internal/models"
)

type counterEffect int

const (
	effectNone counterEffect = iota
	// streak+1, completed+1
	effectComplete
	// streak reset, completed-1 floored at zero
	effectRevoke
	// streak reset only
	effectBreakStreak
)

type statusTransition struct {
	from models.SubmissionStatus
	to   models.SubmissionStatus
}

// transitionEffects covers every (previous, new) pair of submission statuses.
var transitionEffects = map[statusTransition]counterEffect{
	{models.SubmissionPending, models.SubmissionPending}: effectNone,
	{models.SubmissionPending, models.SubmissionDone}:    effectComplete,
	{models.SubmissionPending, models.SubmissionNotDone}: effectBreakStreak,
	{models.SubmissionDone, models.SubmissionPending}:    effectRevoke,
	{models.SubmissionDone, models.SubmissionDone}:       effectNone,
	{models.SubmissionDone, models.SubmissionNotDone}:    effectRevoke,
	{models.SubmissionNotDone, models.SubmissionPending}: effectNone,
	{models.SubmissionNotDone, models.SubmissionDone}:    effectComplete,
	{models.SubmissionNotDone, models.SubmissionNotDone}: effectBreakStreak,
}

// applyStatusTransition updates the student's counters for a regrade
func applyStatusTransition(student *models.Student, from, to models.SubmissionStatus) error {
	effect, ok := transitionEffects[statusTransition{from: from, to: to}]
	if !ok {
		return fmt.Errorf("unsupported submission transition %q -> %q", from, to)
	}

	switch effect {
	case effectComplete:
		student.Streak++
		student.CompletedHomeworks++
	case effectRevoke:
		student.Streak = 0
		student.CompletedHomeworks = max(0, student.CompletedHomeworks-1)
	case effectBreakStreak:
		student.Streak = 0
	case effectNone:
	}
	return nil
}
