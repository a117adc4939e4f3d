package exercises

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitware/fitware/internal/telemetry/tracing"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const exerciseColumns = `id, created_by, name, category, metric_type`

func scanExercise(row pgx.Row) (*Exercise, error) {
	var e Exercise
	err := row.Scan(&e.ID, &e.CreatedBy, &e.Name, &e.Category, &e.MetricType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exercisesRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if exercise.MetricType == "" {
		exercise.MetricType = DefaultMetricType
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO exercise (created_by, name, category, metric_type)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
		exercise.CreatedBy, exercise.Name, exercise.Category, exercise.MetricType,
	).Scan(&exercise.ID)
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

// Get returns a global exercise or one of the caller's own. Someone else's
// custom exercise behaves like it does not exist.
func (r *Repo) Get(ctx context.Context, id, userID int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exercisesRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return scanExercise(r.db.QueryRow(ctx,
		`SELECT `+exerciseColumns+` FROM exercise
			WHERE id = $1 AND (created_by IS NULL OR created_by = $2)`,
		id, userID,
	))
}

// List returns the global catalog merged with the caller's custom
// exercises, optionally filtered by a case-insensitive name substring.
func (r *Repo) List(ctx context.Context, userID int, search string) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exercisesRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query := `SELECT ` + exerciseColumns + ` FROM exercise
		WHERE (created_by IS NULL OR created_by = $1)`
	args := []any{userID}
	if search != "" {
		query += ` AND name ILIKE $2`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *e)
	}
	return exercises, rows.Err()
}

// Update only touches rows owned by the user, global rows stay immutable.
func (r *Repo) Update(ctx context.Context, exercise Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exercisesRepo.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if exercise.CreatedBy == nil {
		return ErrExerciseNotFound
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE exercise SET name = $1, category = $2, metric_type = $3
			WHERE id = $4 AND created_by = $5`,
		exercise.Name, exercise.Category, exercise.MetricType,
		exercise.ID, *exercise.CreatedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exercisesRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`DELETE FROM exercise WHERE id = $1 AND created_by = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}
