package badges

import (
	"context"
	"fmt"

	"github.com/fitware/fitware/internal/telemetry/metrics"
	"github.com/fitware/fitware/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=badges

type badgesRepo interface {
	List(ctx context.Context, userID int) ([]Badge, error)
	ExistingTypes(ctx context.Context, userID int) (map[string]bool, error)
	Add(ctx context.Context, b Badge) error
	CompletionCounts(ctx context.Context, userID int) (CompletionCounts, error)
}

type Service struct {
	repo    badgesRepo
	metrics *metrics.Manager
}

func NewService(repo badgesRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (s *Service) List(ctx context.Context, userID int) ([]Badge, error) {
	return s.repo.List(ctx, userID)
}

// CheckMilestoneBadges awards every milestone badge the user's completion
// counts have reached but which was not awarded before. Idempotent: calling
// it again with unchanged counts awards nothing. Returns the newly awarded
// badges.
func (s *Service) CheckMilestoneBadges(ctx context.Context, userID int) (_ []Badge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "badgesService.checkMilestoneBadges")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	counts, err := s.repo.CompletionCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("completion counts: %w", err)
	}

	existing, err := s.repo.ExistingTypes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("existing badge types: %w", err)
	}

	var newBadges []Badge
	award := func(milestones []Milestone, count int) error {
		for _, m := range milestones {
			if count < m.Threshold || existing[m.BadgeType] {
				continue
			}
			b := Badge{
				UserID:      userID,
				BadgeType:   m.BadgeType,
				Name:        m.Name,
				Description: m.Description,
			}
			if err := s.repo.Add(ctx, b); err != nil {
				return fmt.Errorf("award badge %s: %w", m.BadgeType, err)
			}
			s.metrics.CounterBadgesAwarded.Inc()
			newBadges = append(newBadges, b)
		}
		return nil
	}

	if err := award(GoalMilestones, counts.Goals); err != nil {
		return nil, err
	}
	if err := award(ChallengeMilestones, counts.Challenges); err != nil {
		return nil, err
	}
	if err := award(WorkoutMilestones, counts.Workouts); err != nil {
		return nil, err
	}

	return newBadges, nil
}
