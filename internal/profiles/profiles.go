package profiles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitware/fitware/internal/telemetry/tracing"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile holds per-user fitness context. One row per user, created empty at
// signup time.
type Profile struct {
	UserID       int     `json:"userId"`
	PhotoURL     string  `json:"photoUrl"`
	Bio          string  `json:"bio"`
	FitnessLevel string  `json:"fitnessLevel"`
	Height       float64 `json:"height"`
	Weight       float64 `json:"weight"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesRepo.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx,
		`INSERT INTO profile (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	return err
}

func (r *Repo) Get(ctx context.Context, userID int) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var p Profile
	err = r.db.QueryRow(ctx,
		`SELECT user_id, photo_url, bio, fitness_level, height, weight
			FROM profile WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.PhotoURL, &p.Bio, &p.FitnessLevel, &p.Height, &p.Weight)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Update(ctx context.Context, p Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesRepo.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`UPDATE profile SET photo_url = $1, bio = $2, fitness_level = $3, height = $4, weight = $5
			WHERE user_id = $6`,
		p.PhotoURL, p.Bio, p.FitnessLevel, p.Height, p.Weight, p.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
