package goals

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitware/fitware/internal/telemetry/tracing"
)

var ErrGoalNotFound = errors.New("goal not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const goalColumns = `id, user_id, title, description, icon,
	start_value, current_value, target_value, unit,
	is_completed, is_active, created_at, updated_at`

func scanGoal(row pgx.Row) (*Goal, error) {
	var g Goal
	err := row.Scan(
		&g.ID, &g.UserID, &g.Title, &g.Description, &g.Icon,
		&g.StartValue, &g.CurrentValue, &g.TargetValue, &g.Unit,
		&g.IsCompleted, &g.IsActive, &g.CreatedAt, &g.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Add inserts the goal. A zero start value is initialized from the current
// value so progress is measured from where the user actually started.
func (r *Repo) Add(ctx context.Context, goal Goal) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "goalsRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if goal.StartValue == 0 {
		goal.StartValue = goal.CurrentValue
	}
	if goal.Icon == "" {
		goal.Icon = DefaultIcon
	}
	if goal.Unit == "" {
		goal.Unit = DefaultUnit
	}

	now := time.Now()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	err = r.db.QueryRow(ctx,
		`INSERT INTO goal
			(user_id, title, description, icon, start_value, current_value, target_value,
				unit, is_completed, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id`,
		goal.UserID, goal.Title, goal.Description, goal.Icon,
		goal.StartValue, goal.CurrentValue, goal.TargetValue, goal.Unit,
		goal.IsCompleted, goal.IsActive, goal.CreatedAt, goal.UpdatedAt,
	).Scan(&goal.ID)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// Get is owner scoped: asking for another user's goal behaves like the goal
// does not exist.
func (r *Repo) Get(ctx context.Context, id, userID int) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "goalsRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return scanGoal(r.db.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goal WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
}

func (r *Repo) List(ctx context.Context, userID int) ([]Goal, error) {
	return r.list(ctx, `user_id = $1`, userID)
}

func (r *Repo) ListActive(ctx context.Context, userID int) ([]Goal, error) {
	return r.list(ctx, `user_id = $1 AND is_active AND NOT is_completed`, userID)
}

// FindMatching returns the user's goals with the given title, unit and
// target value. Used to locate goal counterparts of a challenge when no
// foreign key links them.
func (r *Repo) FindMatching(ctx context.Context, userID int, title, unit string, targetValue float64) ([]Goal, error) {
	return r.list(ctx,
		`user_id = $1 AND title = $2 AND unit = $3 AND target_value = $4`,
		userID, title, unit, targetValue,
	)
}

func (r *Repo) list(ctx context.Context, where string, args ...any) (_ []Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "goalsRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT `+goalColumns+` FROM goal WHERE `+where+` ORDER BY created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (r *Repo) Update(ctx context.Context, goal *Goal) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "goalsRepo.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	goal.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx,
		`UPDATE goal SET
			title = $1, description = $2, icon = $3,
			start_value = $4, current_value = $5, target_value = $6, unit = $7,
			is_completed = $8, is_active = $9, updated_at = $10
			WHERE id = $11 AND user_id = $12`,
		goal.Title, goal.Description, goal.Icon,
		goal.StartValue, goal.CurrentValue, goal.TargetValue, goal.Unit,
		goal.IsCompleted, goal.IsActive, goal.UpdatedAt,
		goal.ID, goal.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "goalsRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`DELETE FROM goal WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// CountCompleted is used by the badge milestone checks.
func (r *Repo) CountCompleted(ctx context.Context, userID int) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "goalsRepo.countCompleted")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM goal WHERE user_id = $1 AND is_completed`,
		userID,
	).Scan(&count)
	return count, err
}
