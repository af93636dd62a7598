package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tuition-tracker/tracker-service/internal/events"
	"github.com/tuition-tracker/tracker-service/internal/leaderboard"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

type rankingService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger

	// Serializes every rank write. Always taken before a transaction opens.
	mu sync.Mutex
}

func NewRankingService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) RankingService {
	return &rankingService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *rankingService) InTransaction(ctx context.Context, trigger string, fn func(tx repositories.Repository) error) ([]leaderboard.Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		standings []leaderboard.Standing
		changed   map[uint]int
	)
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := fn(tx); err != nil {
			return err
		}

		var err error
		standings, changed, err = s.recompute(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		s.logger.Info("Ranks recomputed", "trigger", trigger, "changed", len(changed), "students", len(standings))
		publishEvent(ctx, s.publisher, s.logger, events.RanksRecomputed, events.RanksRecomputedData{
			Trigger: trigger,
			Changed: changed,
		})
	}
	return standings, nil
}

func (s *rankingService) RecomputeRanks(ctx context.Context) ([]leaderboard.Standing, error) {
	return s.InTransaction(ctx, "manual", func(repositories.Repository) error { return nil })
}

// recompute orders every student and writes only the ranks that moved
func (s *rankingService) recompute(ctx context.Context, tx repositories.Repository) ([]leaderboard.Standing, map[uint]int, error) {
	students, err := tx.Student().ListForRanking(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load students for ranking: %w", err)
	}

	standings := leaderboard.Order(students)
	changed := leaderboard.Changes(students, standings)
	for id, rank := range changed {
		if err := tx.Student().UpdateRank(ctx, id, rank); err != nil {
			return nil, nil, fmt.Errorf("failed to update rank for student %d: %w", id, err)
		}
	}
	return standings, changed, nil
}

func (s *rankingService) RefreshStudentRank(ctx context.Context, studentID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rank int
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		students, err := tx.Student().ListForRanking(ctx)
		if err != nil {
			return fmt.Errorf("failed to load students for ranking: %w", err)
		}

		standings := leaderboard.Order(students)
		var ok bool
		rank, ok = leaderboard.RankOf(standings, studentID)
		if !ok {
			return NewNotFoundError("student", studentID)
		}

		for _, st := range students {
			if st.ID == studentID && st.Rank != rank {
				return tx.Student().UpdateRank(ctx, studentID, rank)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rank, nil
}

func (s *rankingService) Standings(ctx context.Context) ([]leaderboard.Standing, error) {
	students, err := s.repo.Student().List(ctx, repositories.StudentFilters{SortBy: "id"})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return leaderboard.Order(students), nil
}
