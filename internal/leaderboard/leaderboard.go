// Package leaderboard holds the pure scoring functions behind student
// percentages and ranks. Nothing here touches storage.
package leaderboard

import (
	"cmp"
	"slices"

	"github.com/tuition-tracker/tracker-service/internal/models"
)

// Percentage returns round(completed/total*100), rounding half up.
// A student with no assigned homework scores 100.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 100
	}
	return clamp(roundRatio(completed, total))
}

// AttendancePercentage returns round(present/total*100), or 100 with no records.
func AttendancePercentage(present, total int) int {
	if total <= 0 {
		return 100
	}
	return clamp(roundRatio(present, total))
}

// StudentPercentage is Percentage over a student's counters.
func StudentPercentage(s *models.Student) int {
	return Percentage(s.CompletedHomeworks, s.TotalHomeworksAssigned)
}

// Standing is one row of the ordered leaderboard.
type Standing struct {
	StudentID  uint   `json:"student_id"`
	Username   string `json:"username"`
	Percentage int    `json:"percentage"`
	Streak     int    `json:"streak"`
	Rank       int    `json:"rank"`
}

// Compare orders two standings: percentage desc, streak desc, id asc.
func Compare(a, b Standing) int {
	if c := cmp.Compare(b.Percentage, a.Percentage); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Streak, a.Streak); c != 0 {
		return c
	}
	return cmp.Compare(a.StudentID, b.StudentID)
}

// Order sorts students into the leaderboard and assigns 1-based ranks.
// The input slice is not modified.
func Order(students []*models.Student) []Standing {
	standings := make([]Standing, 0, len(students))
	for _, s := range students {
		if s == nil {
			continue
		}
		standings = append(standings, Standing{
			StudentID:  s.ID,
			Username:   s.Username,
			Percentage: StudentPercentage(s),
			Streak:     s.Streak,
		})
	}

	slices.SortFunc(standings, Compare)
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

// RankOf returns the rank of studentID within standings.
func RankOf(standings []Standing, studentID uint) (int, bool) {
	for _, st := range standings {
		if st.StudentID == studentID {
			return st.Rank, true
		}
	}
	return 0, false
}

// Changes returns the new rank for every student whose stored rank differs
// from its position in standings.
func Changes(students []*models.Student, standings []Standing) map[uint]int {
	stored := make(map[uint]int, len(students))
	for _, s := range students {
		if s != nil {
			stored[s.ID] = s.Rank
		}
	}

	changed := make(map[uint]int)
	for _, st := range standings {
		if rank, ok := stored[st.StudentID]; !ok || rank != st.Rank {
			changed[st.StudentID] = st.Rank
		}
	}
	return changed
}

func roundRatio(part, total int) int {
	if part <= 0 {
		return 0
	}
	// Integer round-half-up of part*100/total.
	return (part*200 + total) / (2 * total)
}

func clamp(v int) int {
	return max(0, min(100, v))
}
