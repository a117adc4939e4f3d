package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitware/fitware/internal/activity"
	"github.com/fitware/fitware/internal/auth"
	"github.com/fitware/fitware/internal/badges"
	"github.com/fitware/fitware/internal/telemetry/tracing"
	"github.com/fitware/fitware/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

const defaultTemplateSets = 3

type workoutsRepo interface {
	AddTemplate(ctx context.Context, template Template) (*Template, error)
	GetTemplate(ctx context.Context, id, userID int) (*Template, error)
	ListTemplates(ctx context.Context, userID int) ([]Template, error)
	UpdateTemplate(ctx context.Context, template Template, replaceExercises bool) (*Template, error)
	DeleteTemplate(ctx context.Context, id, userID int) error

	StartSession(ctx context.Context, template Template) (*Session, error)
	AddSession(ctx context.Context, session Session) (*Session, error)
	GetSession(ctx context.Context, id, userID int) (*Session, error)
	ListSessions(ctx context.Context, userID int) ([]Session, error)
	UpdateSession(ctx context.Context, session Session) error
	DeleteSession(ctx context.Context, id, userID int) error

	GetOrCreateSessionExercise(ctx context.Context, sessionID, exerciseID int) (*SessionExercise, error)
	AddSet(ctx context.Context, sessionExerciseID int, set Set) (*Set, error)
	GetSet(ctx context.Context, id, userID int) (*Set, error)
	UpdateSet(ctx context.Context, set Set) error
	DeleteSet(ctx context.Context, id, userID int) error

	Stats(ctx context.Context, userID int, weekStart time.Time) (*Stats, error)
}

type badgeService interface {
	CheckMilestoneBadges(ctx context.Context, userID int) ([]badges.Badge, error)
}

type activityLogger interface {
	Log(ctx context.Context, userID int, actionType string)
}

type Handler struct {
	repo        workoutsRepo
	badges      badgeService
	activityLog activityLogger
	nowFunc     func() time.Time
}

func NewHandler(repo workoutsRepo, badgeService badgeService, activityLog activityLogger) *Handler {
	return &Handler{
		repo:        repo,
		badges:      badgeService,
		activityLog: activityLog,
		nowFunc:     time.Now,
	}
}

type templateExercisePayload struct {
	Exercise int       `json:"exercise"`
	Order    int       `json:"order"`
	Sets     int       `json:"sets"`
	Reps     RepsValue `json:"reps"`
}

func (p templateExercisePayload) toTemplateExercise() TemplateExercise {
	sets := p.Sets
	if sets <= 0 {
		sets = defaultTemplateSets
	}
	return TemplateExercise{
		ExerciseID: p.Exercise,
		Order:      p.Order,
		Sets:       sets,
		TargetReps: p.Reps.TargetReps(),
	}
}

type templateRequest struct {
	Title         *string                    `json:"title"`
	Description   *string                    `json:"description"`
	IsAIGenerated *bool                      `json:"is_ai_generated"`
	ExercisesData *[]templateExercisePayload `json:"exercises_data"`
}

func (h *Handler) HandleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.createTemplate")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Title == nil || *req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	template := Template{
		UserID: userID,
		Title:  *req.Title,
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.IsAIGenerated != nil {
		template.IsAIGenerated = *req.IsAIGenerated
	}
	if req.ExercisesData != nil {
		for _, p := range *req.ExercisesData {
			template.Exercises = append(template.Exercises, p.toTemplateExercise())
		}
	}

	created, err := h.repo.AddTemplate(ctx, template)
	if err != nil {
		log.Errorf("create workout template for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, created.WithDerived(), http.StatusCreated)
}

func (h *Handler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.listTemplates")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	templates, err := h.repo.ListTemplates(ctx, userID)
	if err != nil {
		log.Errorf("list workout templates for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]Template, 0, len(templates))
	for _, t := range templates {
		out = append(out, t.WithDerived())
	}
	h.writeJSON(w, out, http.StatusOK)
}

func (h *Handler) HandleGetTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.getTemplate")
	defer span.End()

	template, ok := h.templateFromRequest(ctx, w, r)
	if !ok {
		return
	}
	h.writeJSON(w, template.WithDerived(), http.StatusOK)
}

func (h *Handler) HandleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.updateTemplate")
	defer span.End()

	template, ok := h.templateFromRequest(ctx, w, r)
	if !ok {
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		template.Title = *req.Title
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	replaceExercises := req.ExercisesData != nil
	if replaceExercises {
		template.Exercises = nil
		for _, p := range *req.ExercisesData {
			template.Exercises = append(template.Exercises, p.toTemplateExercise())
		}
	}

	updated, err := h.repo.UpdateTemplate(ctx, *template, replaceExercises)
	if err != nil {
		log.Errorf("update workout template %d: %s", template.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, updated.WithDerived(), http.StatusOK)
}

func (h *Handler) HandleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.deleteTemplate")
	defer span.End()

	template, ok := h.templateFromRequest(ctx, w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteTemplate(ctx, template.ID, template.UserID); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			http.Error(w, "workout template not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete workout template %d: %s", template.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStartSession copies the template into a new in-progress session the
// user can start logging sets against.
func (h *Handler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.startSession")
	defer span.End()

	template, ok := h.templateFromRequest(ctx, w, r)
	if !ok {
		return
	}

	session, err := h.repo.StartSession(ctx, *template)
	if err != nil {
		log.Errorf("start session from template %d: %s", template.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, session.WithDerived(), http.StatusCreated)
}

type sessionRequest struct {
	Title           *string `json:"title"`
	Template        *int    `json:"template"`
	Date            *string `json:"date"`
	DurationMinutes *int    `json:"duration_minutes"`
	MoodEmoji       *string `json:"mood_emoji"`
	Notes           *string `json:"notes"`
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.createSession")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Title == nil || *req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	session := Session{
		UserID:     userID,
		TemplateID: req.Template,
		Title:      *req.Title,
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			http.Error(w, "date must be RFC 3339", http.StatusBadRequest)
			return
		}
		session.Date = date
	}
	if req.DurationMinutes != nil {
		session.DurationMinutes = *req.DurationMinutes
	}
	if req.MoodEmoji != nil {
		session.MoodEmoji = *req.MoodEmoji
	}
	if req.Notes != nil {
		session.Notes = *req.Notes
	}

	created, err := h.repo.AddSession(ctx, session)
	if err != nil {
		log.Errorf("create workout session for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, created.WithDerived(), http.StatusCreated)
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.listSessions")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	sessions, err := h.repo.ListSessions(ctx, userID)
	if err != nil {
		log.Errorf("list workout sessions for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.WithDerived())
	}
	h.writeJSON(w, out, http.StatusOK)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.getSession")
	defer span.End()

	session, ok := h.sessionFromRequest(ctx, w, r)
	if !ok {
		return
	}
	h.writeJSON(w, session.WithDerived(), http.StatusOK)
}

func (h *Handler) HandleUpdateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.updateSession")
	defer span.End()

	session, ok := h.sessionFromRequest(ctx, w, r)
	if !ok {
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		session.Title = *req.Title
	}
	if req.DurationMinutes != nil {
		session.DurationMinutes = *req.DurationMinutes
	}
	if req.MoodEmoji != nil {
		session.MoodEmoji = *req.MoodEmoji
	}
	if req.Notes != nil {
		session.Notes = *req.Notes
	}

	if err := h.repo.UpdateSession(ctx, *session); err != nil {
		log.Errorf("update workout session %d: %s", session.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, session.WithDerived(), http.StatusOK)
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.deleteSession")
	defer span.End()

	session, ok := h.sessionFromRequest(ctx, w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteSession(ctx, session.ID, session.UserID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "workout session not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete workout session %d: %s", session.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addSetRequest struct {
	ExerciseID  *int     `json:"exercise_id"`
	WeightKg    *float64 `json:"weight_kg"`
	Reps        *int     `json:"reps"`
	RPE         *int     `json:"rpe"`
	IsCompleted *bool    `json:"is_completed"`
}

// HandleAddSet logs one set against a running session, creating the
// per-exercise container on first use. Completed sessions are sealed.
func (h *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.addSet")
	defer span.End()

	session, ok := h.sessionFromRequest(ctx, w, r)
	if !ok {
		return
	}
	if session.IsCompleted {
		http.Error(w, "session is already completed", http.StatusBadRequest)
		return
	}

	var req addSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ExerciseID == nil || req.Reps == nil {
		http.Error(w, "exercise_id and reps are required", http.StatusBadRequest)
		return
	}

	sessionExercise, err := h.repo.GetOrCreateSessionExercise(ctx, session.ID, *req.ExerciseID)
	if err != nil {
		log.Errorf("add set to session %d, exercise container: %s", session.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	set := Set{Reps: *req.Reps, RPE: req.RPE}
	if req.WeightKg != nil {
		set.WeightKg = *req.WeightKg
	}
	if req.IsCompleted != nil {
		set.IsCompleted = *req.IsCompleted
	}

	added, err := h.repo.AddSet(ctx, sessionExercise.ID, set)
	if err != nil {
		log.Errorf("add set to session %d: %s", session.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, added, http.StatusCreated)
}

type setRequest struct {
	WeightKg    *float64 `json:"weight_kg"`
	Reps        *int     `json:"reps"`
	RPE         *int     `json:"rpe"`
	IsCompleted *bool    `json:"is_completed"`
}

func (h *Handler) HandleUpdateSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.updateSet")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["setId"])
	if err != nil {
		http.Error(w, "invalid set id", http.StatusBadRequest)
		return
	}

	set, err := h.repo.GetSet(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrSetNotFound) {
			http.Error(w, "workout set not found", http.StatusNotFound)
			return
		}
		log.Errorf("get workout set %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if req.WeightKg != nil {
		set.WeightKg = *req.WeightKg
	}
	if req.Reps != nil {
		set.Reps = *req.Reps
	}
	if req.RPE != nil {
		set.RPE = req.RPE
	}
	if req.IsCompleted != nil {
		set.IsCompleted = *req.IsCompleted
	}

	if err := h.repo.UpdateSet(ctx, *set); err != nil {
		log.Errorf("update workout set %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, set, http.StatusOK)
}

func (h *Handler) HandleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.deleteSet")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["setId"])
	if err != nil {
		http.Error(w, "invalid set id", http.StatusBadRequest)
		return
	}

	if err := h.repo.DeleteSet(ctx, id, userID); err != nil {
		if errors.Is(err, ErrSetNotFound) {
			http.Error(w, "workout set not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete workout set %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleComplete seals the session. Completing twice is rejected so badge
// counts and activity logs stay honest.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.complete")
	defer span.End()

	session, ok := h.sessionFromRequest(ctx, w, r)
	if !ok {
		return
	}
	if session.IsCompleted {
		http.Error(w, "session is already completed", http.StatusBadRequest)
		return
	}

	var req sessionRequest
	if r.Body != nil {
		// Ignore body decode errors, the duration is an optional extra.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.DurationMinutes != nil {
		session.DurationMinutes = *req.DurationMinutes
	}
	session.IsCompleted = true

	if err := h.repo.UpdateSession(ctx, *session); err != nil {
		log.Errorf("complete workout session %d: %s", session.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.activityLog.Log(ctx, session.UserID, activity.ActionWorkoutCompleted)

	newBadges, err := h.badges.CheckMilestoneBadges(ctx, session.UserID)
	if err != nil {
		log.Errorf("complete workout session %d, badge check: %s", session.ID, err)
	}
	if newBadges == nil {
		newBadges = []badges.Badge{}
	}

	resp := struct {
		Success   bool           `json:"success"`
		Session   Session        `json:"session"`
		NewBadges []badges.Badge `json:"new_badges"`
	}{Success: true, Session: session.WithDerived(), NewBadges: newBadges}
	h.writeJSON(w, resp, http.StatusOK)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.stats")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	stats, err := h.repo.Stats(ctx, userID, startOfWeek(h.nowFunc()))
	if err != nil {
		log.Errorf("workout stats for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, stats, http.StatusOK)
}

// startOfWeek returns midnight of the most recent Monday.
func startOfWeek(now time.Time) time.Time {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	day := now.AddDate(0, 0, -daysSinceMonday)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
}

func (h *Handler) templateFromRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Template, bool) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return nil, false
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid template id", http.StatusBadRequest)
		return nil, false
	}

	template, err := h.repo.GetTemplate(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			http.Error(w, "workout template not found", http.StatusNotFound)
			return nil, false
		}
		log.Errorf("get workout template %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return template, true
}

func (h *Handler) sessionFromRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, bool) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return nil, false
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return nil, false
	}

	session, err := h.repo.GetSession(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "workout session not found", http.StatusNotFound)
			return nil, false
		}
		log.Errorf("get workout session %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return session, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any, status int) {
	respBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal workouts response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, status)
}
