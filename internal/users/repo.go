package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitware/fitware/internal/telemetry/tracing"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrTokenNotFound = errors.New("password reset token not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Add(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx,
		`INSERT INTO fituser (username, email, first_name, last_name, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
		user.Username, user.Email, user.FirstName, user.LastName, user.PasswordHash, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repo) Get(ctx context.Context, id int) (*User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getBy(ctx, "username = $1", username)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *Repo) getBy(ctx context.Context, where string, arg any) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var u User
	err = r.db.QueryRow(ctx,
		`SELECT id, username, email, first_name, last_name, password_hash, created_at
			FROM fituser WHERE `+where,
		arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) UpdatePassword(ctx context.Context, userID int, passwordHash string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.updatePassword")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`UPDATE fituser SET password_hash = $1 WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) AddResetToken(ctx context.Context, t PasswordResetToken) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.addResetToken")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx,
		`INSERT INTO password_reset_token (token, user_id, expires_at, used)
			VALUES ($1, $2, $3, false)`,
		t.Token, t.UserID, t.ExpiresAt,
	)
	return err
}

func (r *Repo) GetResetToken(ctx context.Context, token string) (_ *PasswordResetToken, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.getResetToken")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var t PasswordResetToken
	err = r.db.QueryRow(ctx,
		`SELECT token, user_id, expires_at, used FROM password_reset_token WHERE token = $1`,
		token,
	).Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.Used)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) MarkResetTokenUsed(ctx context.Context, token string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.markResetTokenUsed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`UPDATE password_reset_token SET used = true WHERE token = $1`,
		token,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// GetOrCreateByEmail looks a user up by email and creates one when missing.
// Used by the OAuth callback, where the identity provider vouches for the
// email and no password is set.
func (r *Repo) GetOrCreateByEmail(ctx context.Context, email, firstName, lastName string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.getOrCreateByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	u, err := r.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	created, err := r.Add(ctx, User{
		Username:  email,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create oauth user: %w", err)
	}
	return created, nil
}
