// Package progress keeps goal and challenge progress consistent regardless
// of which side an update came in through. A challenge can have many
// independent participants, each with their own goal of the same shape, so
// counterparts are located both by foreign key and by matching attributes.
package progress

import (
	"context"
	"fmt"

	"github.com/fitware/fitware/internal/challenges"
	"github.com/fitware/fitware/internal/goals"
	"github.com/fitware/fitware/internal/telemetry/metrics"
	"github.com/fitware/fitware/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=syncer_mocks_test.go -package=progress

type goalsStore interface {
	FindMatching(ctx context.Context, userID int, title, unit string, targetValue float64) ([]goals.Goal, error)
	Get(ctx context.Context, id, userID int) (*goals.Goal, error)
	Update(ctx context.Context, goal *goals.Goal) error
}

type challengesStore interface {
	FindLinkedOrMatching(ctx context.Context, goalID int, title, unit string, targetValue float64) ([]challenges.Challenge, error)
	GetJoin(ctx context.Context, userID, challengeID int) (*challenges.Join, error)
	UpdateJoin(ctx context.Context, j challenges.Join) error
}

type Syncer struct {
	goals      goalsStore
	challenges challengesStore
	metrics    *metrics.Manager
}

func NewSyncer(goalsStore goalsStore, challengesStore challengesStore, metricsManager *metrics.Manager) *Syncer {
	return &Syncer{
		goals:      goalsStore,
		challenges: challengesStore,
		metrics:    metricsManager,
	}
}

// GoalProgressUpdated propagates a goal's new current value to the owner's
// join rows in every linked or attribute-matched challenge. Participants
// without a join row for a matched challenge are skipped.
//
// Callers treat failures as non-fatal: the goal write has already happened
// and must not be rolled back over a sync problem.
func (s *Syncer) GoalProgressUpdated(ctx context.Context, goal goals.Goal) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.goalProgressUpdated")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		if err != nil {
			s.metrics.CounterSyncFailures.Inc()
		}
	}()

	matched, err := s.challenges.FindLinkedOrMatching(ctx, goal.ID, goal.Title, goal.Unit, goal.TargetValue)
	if err != nil {
		return fmt.Errorf("find challenges for goal %d: %w", goal.ID, err)
	}

	for _, ch := range matched {
		join, err := s.challenges.GetJoin(ctx, goal.UserID, ch.ID)
		if err != nil {
			// not a participant of this one
			continue
		}

		join.ProgressValue = goal.CurrentValue
		if ch.TargetValue > 0 {
			join.IsCompleted = goal.CurrentValue >= ch.TargetValue
		}
		if err := s.challenges.UpdateJoin(ctx, *join); err != nil {
			return fmt.Errorf("update join [user %d, challenge %d]: %w", goal.UserID, ch.ID, err)
		}
	}
	return nil
}

// ChallengeProgressUpdated propagates a participant's new challenge progress
// to that user's matching goals: same title, unit and target value, plus the
// challenge's directly linked goal when the participant owns it.
func (s *Syncer) ChallengeProgressUpdated(ctx context.Context, challenge challenges.Challenge, userID int, value float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.challengeProgressUpdated")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		if err != nil {
			s.metrics.CounterSyncFailures.Inc()
		}
	}()

	matched, err := s.goals.FindMatching(ctx, userID, challenge.Title, challenge.Unit, challenge.TargetValue)
	if err != nil {
		return fmt.Errorf("find goals for challenge %d: %w", challenge.ID, err)
	}

	seen := make(map[int]bool, len(matched)+1)
	targets := make([]goals.Goal, 0, len(matched)+1)
	for _, g := range matched {
		if !seen[g.ID] {
			seen[g.ID] = true
			targets = append(targets, g)
		}
	}

	if challenge.GoalID != nil && !seen[*challenge.GoalID] {
		// owner-scoped get: nil result means the linked goal belongs to
		// someone else (the creator) and is not ours to touch
		if linked, err := s.goals.Get(ctx, *challenge.GoalID, userID); err == nil {
			targets = append(targets, *linked)
		}
	}

	for i := range targets {
		g := targets[i]
		g.CurrentValue = value
		if g.TargetValue > 0 && value >= g.TargetValue {
			g.IsCompleted = true
		}
		if err := s.goals.Update(ctx, &g); err != nil {
			return fmt.Errorf("update goal %d: %w", g.ID, err)
		}
	}
	return nil
}
