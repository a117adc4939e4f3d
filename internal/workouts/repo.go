package workouts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitware/fitware/internal/telemetry/tracing"
)

var (
	ErrTemplateNotFound = errors.New("workout template not found")
	ErrSessionNotFound  = errors.New("workout session not found")
	ErrSetNotFound      = errors.New("workout set not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// AddTemplate writes the template and its exercise slots in one
// transaction and returns the stored template with catalog fields joined in.
func (r *Repo) AddTemplate(ctx context.Context, template Template) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.addTemplate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	template.CreatedAt = time.Now()
	err = tx.QueryRow(ctx,
		`INSERT INTO workout_template (user_id, title, description, is_ai_generated, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
		template.UserID, template.Title, template.Description,
		template.IsAIGenerated, template.CreatedAt,
	).Scan(&template.ID)
	if err != nil {
		return nil, err
	}

	if err := insertTemplateExercises(ctx, tx, template.ID, template.Exercises); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetTemplate(ctx, template.ID, template.UserID)
}

func insertTemplateExercises(ctx context.Context, tx pgx.Tx, templateID int, exercises []TemplateExercise) error {
	for _, e := range exercises {
		_, err := tx.Exec(ctx,
			`INSERT INTO template_exercise (template_id, exercise_id, exercise_order, sets, target_reps)
				VALUES ($1, $2, $3, $4, $5)`,
			templateID, e.ExerciseID, e.Order, e.Sets, e.TargetReps,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) GetTemplate(ctx context.Context, id, userID int) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.getTemplate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	templates, err := r.listTemplates(ctx, `wt.id = $1 AND wt.user_id = $2`, id, userID)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, ErrTemplateNotFound
	}
	return &templates[0], nil
}

func (r *Repo) ListTemplates(ctx context.Context, userID int) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.listTemplates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.listTemplates(ctx, `wt.user_id = $1`, userID)
}

func (r *Repo) listTemplates(ctx context.Context, where string, args ...any) ([]Template, error) {
	rows, err := r.db.Query(ctx,
		`SELECT wt.id, wt.user_id, wt.title, wt.description, wt.is_ai_generated, wt.created_at
			FROM workout_template wt WHERE `+where+` ORDER BY wt.created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []Template
	byID := map[int]int{}
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsAIGenerated, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Exercises = []TemplateExercise{}
		byID[t.ID] = len(templates)
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return templates, nil
	}

	ids := make([]int, 0, len(templates))
	for id := range byID {
		ids = append(ids, id)
	}
	exRows, err := r.db.Query(ctx,
		`SELECT te.id, te.template_id, te.exercise_id, te.exercise_order, te.sets, te.target_reps,
				e.name, e.category, e.metric_type
			FROM template_exercise te
			JOIN exercise e ON e.id = te.exercise_id
			WHERE te.template_id = ANY($1)
			ORDER BY te.exercise_order`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer exRows.Close()

	for exRows.Next() {
		var e TemplateExercise
		err := exRows.Scan(
			&e.ID, &e.TemplateID, &e.ExerciseID, &e.Order, &e.Sets, &e.TargetReps,
			&e.ExerciseName, &e.Category, &e.MetricType,
		)
		if err != nil {
			return nil, err
		}
		i := byID[e.TemplateID]
		templates[i].Exercises = append(templates[i].Exercises, e)
	}
	return templates, exRows.Err()
}

// UpdateTemplate rewrites title and description; when replaceExercises is
// set, the slot list is cleared and re-created from the given exercises so
// removals and re-ordering come for free.
func (r *Repo) UpdateTemplate(ctx context.Context, template Template, replaceExercises bool) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.updateTemplate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx,
		`UPDATE workout_template SET title = $1, description = $2
			WHERE id = $3 AND user_id = $4`,
		template.Title, template.Description, template.ID, template.UserID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTemplateNotFound
	}

	if replaceExercises {
		if _, err := tx.Exec(ctx,
			`DELETE FROM template_exercise WHERE template_id = $1`, template.ID,
		); err != nil {
			return nil, err
		}
		if err := insertTemplateExercises(ctx, tx, template.ID, template.Exercises); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetTemplate(ctx, template.ID, template.UserID)
}

func (r *Repo) DeleteTemplate(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.deleteTemplate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`DELETE FROM workout_template WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// StartSession deep-copies the template into a fresh session: one exercise
// container per slot, sets pre-filled with the planned rep count at zero
// weight so the user only fills in what actually happened.
func (r *Repo) StartSession(ctx context.Context, template Template) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.startSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var sessionID int
	err = tx.QueryRow(ctx,
		`INSERT INTO workout_session (user_id, template_id, title, date)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
		template.UserID, template.ID, template.Title, time.Now(),
	).Scan(&sessionID)
	if err != nil {
		return nil, err
	}

	for _, slot := range template.Exercises {
		var exerciseID int
		err = tx.QueryRow(ctx,
			`INSERT INTO workout_exercise (session_id, exercise_id, exercise_order)
				VALUES ($1, $2, $3)
				RETURNING id`,
			sessionID, slot.ExerciseID, slot.Order,
		).Scan(&exerciseID)
		if err != nil {
			return nil, err
		}
		for setNum := 1; setNum <= slot.Sets; setNum++ {
			if _, err := tx.Exec(ctx,
				`INSERT INTO workout_set (workout_exercise_id, set_number, weight_kg, reps)
					VALUES ($1, $2, 0, $3)`,
				exerciseID, setNum, slot.TargetReps,
			); err != nil {
				return nil, err
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetSession(ctx, sessionID, template.UserID)
}

func (r *Repo) AddSession(ctx context.Context, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.addSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if session.Date.IsZero() {
		session.Date = time.Now()
	}
	err = r.db.QueryRow(ctx,
		`INSERT INTO workout_session
			(user_id, template_id, title, date, duration_minutes, mood_emoji, notes, is_completed)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
		session.UserID, session.TemplateID, session.Title, session.Date,
		session.DurationMinutes, session.MoodEmoji, session.Notes, session.IsCompleted,
	).Scan(&session.ID)
	if err != nil {
		return nil, err
	}
	return r.GetSession(ctx, session.ID, session.UserID)
}

func (r *Repo) GetSession(ctx context.Context, id, userID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.getSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sessions, err := r.listSessions(ctx, `ws.id = $1 AND ws.user_id = $2`, id, userID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrSessionNotFound
	}
	return &sessions[0], nil
}

func (r *Repo) ListSessions(ctx context.Context, userID int) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.listSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.listSessions(ctx, `ws.user_id = $1`, userID)
}

func (r *Repo) listSessions(ctx context.Context, where string, args ...any) ([]Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ws.id, ws.user_id, ws.template_id, COALESCE(wt.title, ''),
				ws.title, ws.date, ws.duration_minutes, ws.mood_emoji, ws.notes, ws.is_completed
			FROM workout_session ws
			LEFT JOIN workout_template wt ON wt.id = ws.template_id
			WHERE `+where+` ORDER BY ws.date DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	sessionIdx := map[int]int{}
	for rows.Next() {
		var s Session
		err := rows.Scan(
			&s.ID, &s.UserID, &s.TemplateID, &s.TemplateTitle,
			&s.Title, &s.Date, &s.DurationMinutes, &s.MoodEmoji, &s.Notes, &s.IsCompleted,
		)
		if err != nil {
			return nil, err
		}
		s.Exercises = []SessionExercise{}
		sessionIdx[s.ID] = len(sessions)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	sessionIDs := make([]int, 0, len(sessions))
	for id := range sessionIdx {
		sessionIDs = append(sessionIDs, id)
	}
	exRows, err := r.db.Query(ctx,
		`SELECT we.id, we.session_id, we.exercise_id, we.exercise_order, we.notes,
				e.name, e.category, e.metric_type
			FROM workout_exercise we
			JOIN exercise e ON e.id = we.exercise_id
			WHERE we.session_id = ANY($1)
			ORDER BY we.exercise_order`,
		sessionIDs,
	)
	if err != nil {
		return nil, err
	}
	defer exRows.Close()

	exerciseIdx := map[int][2]int{}
	var exerciseIDs []int
	for exRows.Next() {
		var e SessionExercise
		err := exRows.Scan(
			&e.ID, &e.SessionID, &e.ExerciseID, &e.Order, &e.Notes,
			&e.ExerciseName, &e.Category, &e.MetricType,
		)
		if err != nil {
			return nil, err
		}
		e.Sets = []Set{}
		si := sessionIdx[e.SessionID]
		exerciseIdx[e.ID] = [2]int{si, len(sessions[si].Exercises)}
		exerciseIDs = append(exerciseIDs, e.ID)
		sessions[si].Exercises = append(sessions[si].Exercises, e)
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}
	if len(exerciseIDs) == 0 {
		return sessions, nil
	}

	setRows, err := r.db.Query(ctx,
		`SELECT id, workout_exercise_id, set_number, weight_kg, reps, rpe, is_completed
			FROM workout_set
			WHERE workout_exercise_id = ANY($1)
			ORDER BY set_number`,
		exerciseIDs,
	)
	if err != nil {
		return nil, err
	}
	defer setRows.Close()

	for setRows.Next() {
		var set Set
		err := setRows.Scan(
			&set.ID, &set.SessionExerciseID, &set.SetNumber,
			&set.WeightKg, &set.Reps, &set.RPE, &set.IsCompleted,
		)
		if err != nil {
			return nil, err
		}
		pos := exerciseIdx[set.SessionExerciseID]
		ex := &sessions[pos[0]].Exercises[pos[1]]
		ex.Sets = append(ex.Sets, set)
	}
	return sessions, setRows.Err()
}

func (r *Repo) UpdateSession(ctx context.Context, session Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.updateSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`UPDATE workout_session SET
			title = $1, duration_minutes = $2, mood_emoji = $3, notes = $4, is_completed = $5
			WHERE id = $6 AND user_id = $7`,
		session.Title, session.DurationMinutes, session.MoodEmoji, session.Notes,
		session.IsCompleted, session.ID, session.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Repo) DeleteSession(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.deleteSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`DELETE FROM workout_session WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// GetOrCreateSessionExercise returns the session's container row for the
// exercise, creating one at the end of the ordering when logging an
// exercise the session did not plan for.
func (r *Repo) GetOrCreateSessionExercise(ctx context.Context, sessionID, exerciseID int) (_ *SessionExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.getOrCreateSessionExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var e SessionExercise
	err = r.db.QueryRow(ctx,
		`SELECT id, session_id, exercise_id, exercise_order, notes
			FROM workout_exercise WHERE session_id = $1 AND exercise_id = $2`,
		sessionID, exerciseID,
	).Scan(&e.ID, &e.SessionID, &e.ExerciseID, &e.Order, &e.Notes)
	if err == nil {
		return &e, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO workout_exercise (session_id, exercise_id, exercise_order)
			VALUES ($1, $2,
				(SELECT COALESCE(MAX(exercise_order), 0) + 1 FROM workout_exercise WHERE session_id = $1))
			RETURNING id, session_id, exercise_id, exercise_order, notes`,
		sessionID, exerciseID,
	).Scan(&e.ID, &e.SessionID, &e.ExerciseID, &e.Order, &e.Notes)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// AddSet appends a set to the exercise container, numbering it after the
// existing sets.
func (r *Repo) AddSet(ctx context.Context, sessionExerciseID int, set Set) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.addSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	set.SessionExerciseID = sessionExerciseID
	err = r.db.QueryRow(ctx,
		`INSERT INTO workout_set (workout_exercise_id, set_number, weight_kg, reps, rpe, is_completed)
			VALUES ($1,
				(SELECT COALESCE(MAX(set_number), 0) + 1 FROM workout_set WHERE workout_exercise_id = $1),
				$2, $3, $4, $5)
			RETURNING id, set_number`,
		sessionExerciseID, set.WeightKg, set.Reps, set.RPE, set.IsCompleted,
	).Scan(&set.ID, &set.SetNumber)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// GetSet resolves a set through its session so ownership is enforced the
// same way as everywhere else.
func (r *Repo) GetSet(ctx context.Context, id, userID int) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.getSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var set Set
	err = r.db.QueryRow(ctx,
		`SELECT s.id, s.workout_exercise_id, s.set_number, s.weight_kg, s.reps, s.rpe, s.is_completed
			FROM workout_set s
			JOIN workout_exercise we ON we.id = s.workout_exercise_id
			JOIN workout_session ws ON ws.id = we.session_id
			WHERE s.id = $1 AND ws.user_id = $2`,
		id, userID,
	).Scan(&set.ID, &set.SessionExerciseID, &set.SetNumber, &set.WeightKg, &set.Reps, &set.RPE, &set.IsCompleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *Repo) UpdateSet(ctx context.Context, set Set) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.updateSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`UPDATE workout_set SET weight_kg = $1, reps = $2, rpe = $3, is_completed = $4
			WHERE id = $5`,
		set.WeightKg, set.Reps, set.RPE, set.IsCompleted, set.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}
	return nil
}

func (r *Repo) DeleteSet(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.deleteSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`DELETE FROM workout_set s
			USING workout_exercise we, workout_session ws
			WHERE s.id = $1 AND we.id = s.workout_exercise_id
				AND ws.id = we.session_id AND ws.user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}
	return nil
}

// Stats aggregates the user's history: completed workout count, total
// minutes, lifted volume and how many sessions fall after weekStart.
func (r *Repo) Stats(ctx context.Context, userID int, weekStart time.Time) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutsRepo.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var stats Stats
	err = r.db.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM workout_session WHERE user_id = $1 AND is_completed),
			(SELECT COALESCE(SUM(duration_minutes), 0) FROM workout_session WHERE user_id = $1 AND is_completed),
			(SELECT COALESCE(SUM(s.weight_kg * s.reps), 0)
				FROM workout_set s
				JOIN workout_exercise we ON we.id = s.workout_exercise_id
				JOIN workout_session ws ON ws.id = we.session_id
				WHERE ws.user_id = $1),
			(SELECT COUNT(*) FROM workout_session WHERE user_id = $1 AND date >= $2)`,
		userID, weekStart,
	).Scan(&stats.TotalWorkouts, &stats.TotalDuration, &stats.TotalVolume, &stats.SessionsThisWeek)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
