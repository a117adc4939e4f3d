package challenges

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitware/fitware/internal/telemetry/tracing"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrJoinNotFound      = errors.New("challenge join not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const challengeColumns = `id, title, description, badge_name, due_date,
	target_value, unit, created_by, goal_id, created_at`

func scanChallenge(row pgx.Row) (*Challenge, error) {
	var c Challenge
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.BadgeName, &c.DueDate,
		&c.TargetValue, &c.Unit, &c.CreatedBy, &c.GoalID, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Add(ctx context.Context, c Challenge) (_ *Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "challengesRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	c.CreatedAt = time.Now()
	err = r.db.QueryRow(ctx,
		`INSERT INTO challenge
			(title, description, badge_name, due_date, target_value, unit, created_by, goal_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
		c.Title, c.Description, c.BadgeName, c.DueDate,
		c.TargetValue, c.Unit, c.CreatedBy, c.GoalID, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "challengesRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return scanChallenge(r.db.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM challenge WHERE id = $1`,
		id,
	))
}

func (r *Repo) List(ctx context.Context) ([]Challenge, error) {
	return r.list(ctx, `SELECT `+challengeColumns+` FROM challenge ORDER BY created_at DESC`)
}

// ListJoinedBy returns the challenges the user participates in.
func (r *Repo) ListJoinedBy(ctx context.Context, userID int) ([]Challenge, error) {
	return r.list(ctx,
		`SELECT `+challengeColumns+` FROM challenge
			WHERE id IN (SELECT challenge_id FROM challenge_joined WHERE user_id = $1)
			ORDER BY created_at DESC`,
		userID,
	)
}

// FindLinkedOrMatching returns the union of challenges linked to the goal by
// foreign key and those matching its title, unit and target value. The
// foreign key only identifies the creator's goal; attribute matching picks
// up every other participant's counterpart.
func (r *Repo) FindLinkedOrMatching(ctx context.Context, goalID int, title, unit string, targetValue float64) ([]Challenge, error) {
	return r.list(ctx,
		`SELECT `+challengeColumns+` FROM challenge
			WHERE goal_id = $1 OR (title = $2 AND unit = $3 AND target_value = $4)
			ORDER BY created_at DESC`,
		goalID, title, unit, targetValue,
	)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) (_ []Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "challengesRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

// GetOrCreateJoin makes the user a participant; joining twice is a no-op.
func (r *Repo) GetOrCreateJoin(ctx context.Context, userID, challengeID int) (_ *Join, created bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "challengesRepo.getOrCreateJoin")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var j Join
	err = r.db.QueryRow(ctx,
		`INSERT INTO challenge_joined (user_id, challenge_id, progress_value, is_completed, joined_at)
			VALUES ($1, $2, 0, false, $3)
			ON CONFLICT (user_id, challenge_id) DO NOTHING
			RETURNING id, user_id, challenge_id, progress_value, is_completed, joined_at`,
		userID, challengeID, time.Now(),
	).Scan(&j.ID, &j.UserID, &j.ChallengeID, &j.ProgressValue, &j.IsCompleted, &j.JoinedAt)
	if err == nil {
		return &j, true, nil
	}
	// DO NOTHING swallows the conflicting row, leaving the scan with no rows;
	// anything else is a real failure
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	existing, err := r.GetJoin(ctx, userID, challengeID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *Repo) GetJoin(ctx context.Context, userID, challengeID int) (_ *Join, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "challengesRepo.getJoin")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var j Join
	err = r.db.QueryRow(ctx,
		`SELECT id, user_id, challenge_id, progress_value, is_completed, joined_at
			FROM challenge_joined WHERE user_id = $1 AND challenge_id = $2`,
		userID, challengeID,
	).Scan(&j.ID, &j.UserID, &j.ChallengeID, &j.ProgressValue, &j.IsCompleted, &j.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJoinNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) UpdateJoin(ctx context.Context, j Join) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "challengesRepo.updateJoin")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`UPDATE challenge_joined SET progress_value = $1, is_completed = $2
			WHERE user_id = $3 AND challenge_id = $4`,
		j.ProgressValue, j.IsCompleted, j.UserID, j.ChallengeID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJoinNotFound
	}
	return nil
}

func (r *Repo) DeleteJoin(ctx context.Context, userID, challengeID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "challengesRepo.deleteJoin")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`DELETE FROM challenge_joined WHERE user_id = $1 AND challenge_id = $2`,
		userID, challengeID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJoinNotFound
	}
	return nil
}

func (r *Repo) CountParticipants(ctx context.Context, challengeID int) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "challengesRepo.countParticipants")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM challenge_joined WHERE challenge_id = $1`,
		challengeID,
	).Scan(&count)
	return count, err
}
