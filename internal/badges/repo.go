package badges

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitware/fitware/internal/telemetry/tracing"
)

// CompletionCounts are the per-user totals the milestone thresholds are
// checked against.
type CompletionCounts struct {
	Goals      int
	Challenges int
	Workouts   int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) List(ctx context.Context, userID int) (_ []Badge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "badgesRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, badge_type, name, description, awarded_at
			FROM badge WHERE user_id = $1
			ORDER BY awarded_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []Badge
	for rows.Next() {
		var b Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.BadgeType, &b.Name, &b.Description, &b.AwardedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// ExistingTypes returns the badge type keys already awarded to the user.
func (r *Repo) ExistingTypes(ctx context.Context, userID int) (_ map[string]bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "badgesRepo.existingTypes")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT badge_type FROM badge WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make(map[string]bool)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types[t] = true
	}
	return types, rows.Err()
}

// Add inserts the badge; a concurrent award of the same type is a no-op
// (the unique constraint backstops the idempotency check).
func (r *Repo) Add(ctx context.Context, b Badge) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "badgesRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if b.AwardedAt.IsZero() {
		b.AwardedAt = time.Now()
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO badge (user_id, badge_type, name, description, awarded_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, badge_type) DO NOTHING`,
		b.UserID, b.BadgeType, b.Name, b.Description, b.AwardedAt,
	)
	return err
}

// CompletionCounts gathers the user's completed goal, challenge and workout
// totals in one round of counting.
func (r *Repo) CompletionCounts(ctx context.Context, userID int) (_ CompletionCounts, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "badgesRepo.completionCounts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var counts CompletionCounts
	err = r.db.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM goal WHERE user_id = $1 AND is_completed),
			(SELECT COUNT(*) FROM challenge_joined WHERE user_id = $1 AND is_completed),
			(SELECT COUNT(*) FROM workout_session WHERE user_id = $1 AND is_completed)`,
		userID,
	).Scan(&counts.Goals, &counts.Challenges, &counts.Workouts)
	return counts, err
}
