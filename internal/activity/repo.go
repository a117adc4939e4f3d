package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitware/fitware/internal/telemetry/tracing"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// GetOrCreate records an action for the given day; at most one row per
// (user, day, action) triple exists. Returns created=false when the action
// was already logged for that day.
func (r *Repo) GetOrCreate(ctx context.Context, userID int, date time.Time, actionType string) (_ *Log, created bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "activityRepo.getOrCreate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	day := date.Format("2006-01-02")

	var l Log
	err = r.db.QueryRow(ctx,
		`INSERT INTO activity_log (user_id, date, action_type)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, date, action_type) DO NOTHING
			RETURNING id, user_id, date, action_type`,
		userID, day, actionType,
	).Scan(&l.ID, &l.UserID, &l.Date, &l.ActionType)
	if err == nil {
		return &l, true, nil
	}

	// conflict: the row already exists, fetch it
	err = r.db.QueryRow(ctx,
		`SELECT id, user_id, date, action_type FROM activity_log
			WHERE user_id = $1 AND date = $2 AND action_type = $3`,
		userID, day, actionType,
	).Scan(&l.ID, &l.UserID, &l.Date, &l.ActionType)
	if err != nil {
		return nil, false, fmt.Errorf("get activity log: %w", err)
	}
	return &l, false, nil
}

// ListSince returns the user's activity logs on or after the given date,
// most recent first.
func (r *Repo) ListSince(ctx context.Context, userID int, since time.Time) (_ []Log, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "activityRepo.listSince")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, date, action_type FROM activity_log
			WHERE user_id = $1 AND date >= $2
			ORDER BY date DESC, id DESC`,
		userID, since.Format("2006-01-02"),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.UserID, &l.Date, &l.ActionType); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
