package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tuition-tracker/tracker-service/internal/events"
	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

func TestRankingService_InTransactionRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createStudent(t, "alice")
	env.publisher.ClearEvents()

	boom := errors.New("boom")
	_, err := env.ranking.InTransaction(ctx, "test", func(tx repositories.Repository) error {
		if err := tx.Student().Create(ctx, &models.Student{Username: "ghost", Password: "x", Role: models.RoleStudent}); err != nil {
			return err
		}
		if err := tx.Student().IncrementAssigned(ctx, alice.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}

	if exists, _ := env.repo.Student().ExistsByUsername(ctx, "ghost"); exists {
		t.Error("student created in a failed transaction was kept")
	}
	if got := env.student(t, alice.ID).TotalHomeworksAssigned; got != 0 {
		t.Errorf("assigned = %d, want 0", got)
	}
	if len(env.publisher.EventsOfType(events.RanksRecomputed)) != 0 {
		t.Error("ranks.recomputed published for a rolled back transaction")
	}
}

func TestRankingService_RecomputeRanksFixesDrift(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createStudent(t, "alice")
	bob := env.createStudent(t, "bob")

	for _, id := range []uint{alice.ID, bob.ID} {
		if err := env.repo.Student().UpdateRank(ctx, id, 5); err != nil {
			t.Fatalf("UpdateRank: %v", err)
		}
	}

	standings, err := env.ranking.RecomputeRanks(ctx)
	if err != nil {
		t.Fatalf("RecomputeRanks: %v", err)
	}
	if len(standings) != 2 || standings[0].StudentID != alice.ID || standings[1].StudentID != bob.ID {
		t.Fatalf("unexpected standings %+v", standings)
	}
	if env.student(t, alice.ID).Rank != 1 || env.student(t, bob.ID).Rank != 2 {
		t.Error("stored ranks not rewritten")
	}
}

func TestRankingService_ConcurrentGradingKeepsRanksDistinct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var submissions []uint
	for _, name := range []string{"alice", "bob", "carol", "dave", "erin", "frank"} {
		s := env.createStudent(t, name)
		submissions = append(submissions, env.assign(t, s.ID, name+"-hw").SubmissionID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(submissions))
	for i, id := range submissions {
		status := models.SubmissionDone
		if i%2 == 1 {
			status = models.SubmissionNotDone
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.grading.GradeSubmission(ctx, id, &models.GradeSubmissionRequest{Status: status})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("GradeSubmission: %v", err)
		}
	}

	students, err := env.repo.Student().List(ctx, repositories.StudentFilters{SortBy: "rank", SortOrder: "asc"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i, s := range students {
		if s.Rank != i+1 {
			t.Errorf("position %d has rank %d", i, s.Rank)
		}
	}
}
