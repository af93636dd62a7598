package leaderboard

import (
	"testing"

	"github.com/tuition-tracker/tracker-service/internal/models"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{name: "no homework", completed: 0, total: 0, want: 100},
		{name: "three of four", completed: 3, total: 4, want: 75},
		{name: "all done", completed: 4, total: 4, want: 100},
		{name: "none done", completed: 0, total: 5, want: 0},
		{name: "rounds down", completed: 1, total: 3, want: 33},
		{name: "rounds up", completed: 2, total: 3, want: 67},
		{name: "half rounds up", completed: 1, total: 8, want: 13},
		{name: "completed above total is clamped", completed: 5, total: 4, want: 100},
		{name: "negative completed is clamped", completed: -1, total: 4, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.completed, tt.total); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestPercentage_AlwaysInRange(t *testing.T) {
	for total := 0; total <= 12; total++ {
		for completed := 0; completed <= total; completed++ {
			got := Percentage(completed, total)
			if got < 0 || got > 100 {
				t.Fatalf("Percentage(%d, %d) = %d, out of range", completed, total, got)
			}
		}
	}
}

func TestAttendancePercentage(t *testing.T) {
	if got := AttendancePercentage(0, 0); got != 100 {
		t.Errorf("no records: got %d, want 100", got)
	}
	if got := AttendancePercentage(9, 10); got != 90 {
		t.Errorf("9/10: got %d, want 90", got)
	}
	if got := AttendancePercentage(2, 3); got != 67 {
		t.Errorf("2/3: got %d, want 67", got)
	}
}

func TestOrder(t *testing.T) {
	t.Run("streak breaks percentage tie", func(t *testing.T) {
		a := &models.Student{ID: 1, Username: "a", CompletedHomeworks: 4, TotalHomeworksAssigned: 5, Streak: 2}
		b := &models.Student{ID: 2, Username: "b", CompletedHomeworks: 4, TotalHomeworksAssigned: 5, Streak: 5}

		standings := Order([]*models.Student{a, b})

		if rank, _ := RankOf(standings, b.ID); rank != 1 {
			t.Errorf("expected b to rank 1, got %d", rank)
		}
		if rank, _ := RankOf(standings, a.ID); rank != 2 {
			t.Errorf("expected a to rank 2, got %d", rank)
		}
	})

	t.Run("id breaks full tie", func(t *testing.T) {
		students := []*models.Student{
			{ID: 9, Username: "late"},
			{ID: 3, Username: "early"},
		}

		standings := Order(students)

		if standings[0].StudentID != 3 || standings[1].StudentID != 9 {
			t.Fatalf("unexpected order: %+v", standings)
		}
		if students[0].ID != 9 {
			t.Error("Order must not reorder its input")
		}
	})

	t.Run("percentage dominates streak", func(t *testing.T) {
		students := []*models.Student{
			{ID: 1, CompletedHomeworks: 1, TotalHomeworksAssigned: 2, Streak: 10},
			{ID: 2, CompletedHomeworks: 2, TotalHomeworksAssigned: 2, Streak: 0},
			{ID: 3, CompletedHomeworks: 0, TotalHomeworksAssigned: 0, Streak: 0},
		}

		standings := Order(students)

		want := []uint{2, 3, 1}
		for i, id := range want {
			if standings[i].StudentID != id {
				t.Fatalf("position %d: got student %d, want %d", i, standings[i].StudentID, id)
			}
			if standings[i].Rank != i+1 {
				t.Errorf("position %d: got rank %d", i, standings[i].Rank)
			}
		}
	})

	t.Run("ranks are a permutation", func(t *testing.T) {
		var students []*models.Student
		for i := 1; i <= 20; i++ {
			students = append(students, &models.Student{
				ID:                     uint(i),
				CompletedHomeworks:     i % 4,
				TotalHomeworksAssigned: 4,
				Streak:                 i % 3,
			})
		}

		standings := Order(students)

		seen := make(map[int]bool)
		for _, st := range standings {
			if st.Rank < 1 || st.Rank > len(students) || seen[st.Rank] {
				t.Fatalf("invalid or duplicate rank %d", st.Rank)
			}
			seen[st.Rank] = true
		}
		for i := 1; i < len(standings); i++ {
			if Compare(standings[i-1], standings[i]) >= 0 {
				t.Fatalf("standings not strictly ordered at %d", i)
			}
		}
	})
}

func TestChanges(t *testing.T) {
	students := []*models.Student{
		{ID: 1, Rank: 1, CompletedHomeworks: 0, TotalHomeworksAssigned: 1},
		{ID: 2, Rank: 2, CompletedHomeworks: 1, TotalHomeworksAssigned: 1},
		{ID: 3, Rank: 3, CompletedHomeworks: 0, TotalHomeworksAssigned: 2},
	}

	changed := Changes(students, Order(students))

	if len(changed) != 2 {
		t.Fatalf("expected 2 changed ranks, got %v", changed)
	}
	if changed[2] != 1 || changed[1] != 2 {
		t.Errorf("unexpected changes: %v", changed)
	}
	if _, ok := changed[3]; ok {
		t.Error("student 3 kept its rank and should not be rewritten")
	}
}
