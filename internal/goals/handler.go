package goals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitware/fitware/internal/activity"
	"github.com/fitware/fitware/internal/auth"
	"github.com/fitware/fitware/internal/badges"
	"github.com/fitware/fitware/internal/telemetry/metrics"
	"github.com/fitware/fitware/internal/telemetry/tracing"
	"github.com/fitware/fitware/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=goals_test

const activityLogDays = 35

type goalsRepo interface {
	Add(ctx context.Context, goal Goal) (*Goal, error)
	Get(ctx context.Context, id, userID int) (*Goal, error)
	List(ctx context.Context, userID int) ([]Goal, error)
	ListActive(ctx context.Context, userID int) ([]Goal, error)
	Update(ctx context.Context, goal *Goal) error
	Delete(ctx context.Context, id, userID int) error
}

// challengeSyncer propagates a goal progress write to the owner's challenge
// joins. Best effort, failures never fail the request.
type challengeSyncer interface {
	GoalProgressUpdated(ctx context.Context, goal Goal) error
}

type badgeService interface {
	CheckMilestoneBadges(ctx context.Context, userID int) ([]badges.Badge, error)
	List(ctx context.Context, userID int) ([]badges.Badge, error)
}

type activityLogger interface {
	Log(ctx context.Context, userID int, actionType string)
	LogToday(ctx context.Context, userID int, actionType string) (*activity.Log, bool, error)
	Recent(ctx context.Context, userID, days int) ([]activity.Log, error)
}

type suggester interface {
	Suggest(ctx context.Context, req SuggestRequest) Suggestion
}

type Handler struct {
	repo        goalsRepo
	syncer      challengeSyncer
	badges      badgeService
	activityLog activityLogger
	suggester   suggester
	metrics     *metrics.Manager
}

func NewHandler(
	repo goalsRepo,
	syncer challengeSyncer,
	badgeService badgeService,
	activityLog activityLogger,
	suggestService suggester,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:        repo,
		syncer:      syncer,
		badges:      badgeService,
		activityLog: activityLog,
		suggester:   suggestService,
		metrics:     metricsManager,
	}
}

type goalRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Icon         *string  `json:"icon"`
	StartValue   *float64 `json:"start_value"`
	CurrentValue *float64 `json:"current_value"`
	TargetValue  *float64 `json:"target_value"`
	Unit         *string  `json:"unit"`
	IsActive     *bool    `json:"is_active"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Title == nil || *req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	if req.TargetValue == nil {
		http.Error(w, "target_value is required", http.StatusBadRequest)
		return
	}
	if req.Unit != nil && !slices.Contains(Units, *req.Unit) {
		http.Error(w, "invalid unit", http.StatusBadRequest)
		return
	}

	goal := Goal{
		UserID:      userID,
		Title:       *req.Title,
		TargetValue: *req.TargetValue,
		IsActive:    true,
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Icon != nil {
		goal.Icon = *req.Icon
	}
	if req.StartValue != nil {
		goal.StartValue = *req.StartValue
	}
	if req.CurrentValue != nil {
		goal.CurrentValue = *req.CurrentValue
	}
	if req.Unit != nil {
		goal.Unit = *req.Unit
	}
	if req.IsActive != nil {
		goal.IsActive = *req.IsActive
	}

	created, err := h.repo.Add(ctx, goal)
	if err != nil {
		log.Errorf("create goal for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterGoalsCreated.Inc()
	h.activityLog.Log(ctx, userID, activity.ActionCreateGoal)

	h.writeGoal(w, *created, http.StatusCreated)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.list")
	defer span.End()

	h.listWith(ctx, w, h.repo.List)
}

func (h *Handler) HandleActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.active")
	defer span.End()

	h.listWith(ctx, w, h.repo.ListActive)
}

func (h *Handler) listWith(ctx context.Context, w http.ResponseWriter, list func(context.Context, int) ([]Goal, error)) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	goals, err := list(ctx, userID)
	if err != nil {
		log.Errorf("list goals for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]Goal, 0, len(goals))
	for _, g := range goals {
		out = append(out, g.WithDerived())
	}

	respBytes, err := json.Marshal(out)
	if err != nil {
		log.Errorf("list goals, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.get")
	defer span.End()

	goal, ok := h.goalFromRequest(ctx, w, r)
	if !ok {
		return
	}
	h.writeGoal(w, *goal, http.StatusOK)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.update")
	defer span.End()

	goal, ok := h.goalFromRequest(ctx, w, r)
	if !ok {
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Unit != nil && !slices.Contains(Units, *req.Unit) {
		http.Error(w, "invalid unit", http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Icon != nil {
		goal.Icon = *req.Icon
	}
	if req.StartValue != nil {
		goal.StartValue = *req.StartValue
	}
	if req.CurrentValue != nil {
		goal.CurrentValue = *req.CurrentValue
	}
	if req.TargetValue != nil {
		goal.TargetValue = *req.TargetValue
	}
	if req.Unit != nil {
		goal.Unit = *req.Unit
	}
	if req.IsActive != nil {
		goal.IsActive = *req.IsActive
	}

	if err := h.repo.Update(ctx, goal); err != nil {
		log.Errorf("update goal %d: %s", goal.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeGoal(w, *goal, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete goal %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateProgressRequest struct {
	CurrentValue *float64 `json:"current_value"`
}

// HandleUpdateProgress sets the goal's current value and runs the
// completion pipeline: badge checks, activity logging and challenge sync.
// Only the goal write itself can fail the request.
func (h *Handler) HandleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.updateProgress")
	defer span.End()

	goal, ok := h.goalFromRequest(ctx, w, r)
	if !ok {
		return
	}

	var req updateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.CurrentValue == nil || *req.CurrentValue < 0 {
		http.Error(w, "current_value must be a non-negative number", http.StatusBadRequest)
		return
	}

	goal.CurrentValue = *req.CurrentValue

	if !goal.IsCompleted && goal.CurrentValue >= goal.TargetValue {
		goal.IsCompleted = true
		h.metrics.CounterGoalsCompleted.Inc()

		if _, err := h.badges.CheckMilestoneBadges(ctx, goal.UserID); err != nil {
			log.Errorf("update progress, badge check for user %d: %s", goal.UserID, err)
		}
		h.activityLog.Log(ctx, goal.UserID, activity.ActionGoalCompleted)
	}

	if err := h.repo.Update(ctx, goal); err != nil {
		log.Errorf("update progress, save goal %d: %s", goal.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.syncer.GoalProgressUpdated(ctx, *goal); err != nil {
		log.Errorf("update progress, challenge sync for goal %d: %s", goal.ID, err)
	}

	h.activityLog.Log(ctx, goal.UserID, activity.ActionUpdateProgress)

	resp := struct {
		Success bool `json:"success"`
		Goal    Goal `json:"goal"`
	}{Success: true, Goal: goal.WithDerived()}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("update progress, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

func (h *Handler) HandleLogVisit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.logVisit")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	logged, created, err := h.activityLog.LogToday(ctx, userID, activity.ActionVisit)
	if err != nil {
		log.Errorf("log visit for user %d: %s", userID, err)
		http.Error(w, "failed to log visit", http.StatusBadRequest)
		return
	}

	message := "Already logged today"
	if created {
		message = "Visit logged"
	}
	resp := struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Date    string `json:"date"`
	}{Success: true, Message: message, Date: logged.Date.Format("2006-01-02")}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("log visit, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

func (h *Handler) HandleActivityLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.activityLogs")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	logs, err := h.activityLog.Recent(ctx, userID, activityLogDays)
	if err != nil {
		log.Errorf("activity logs for user %d: %s", userID, err)
		logs = nil
	}
	if logs == nil {
		logs = []activity.Log{}
	}

	respBytes, err := json.Marshal(logs)
	if err != nil {
		log.Errorf("activity logs, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

func (h *Handler) HandleCheckBadges(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.checkBadges")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	if _, err := h.badges.CheckMilestoneBadges(ctx, userID); err != nil {
		log.Errorf("check badges for user %d: %s", userID, err)
		http.Error(w, "failed to check badges", http.StatusBadRequest)
		return
	}

	allBadges, err := h.badges.List(ctx, userID)
	if err != nil {
		log.Errorf("check badges, list for user %d: %s", userID, err)
		http.Error(w, "failed to check badges", http.StatusBadRequest)
		return
	}
	if allBadges == nil {
		allBadges = []badges.Badge{}
	}

	resp := struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Badges  []badges.Badge `json:"badges"`
	}{Success: true, Message: "Badges checked and awarded", Badges: allBadges}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("check badges, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "goalsHandler.suggest")
	defer span.End()

	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	suggestion := h.suggester.Suggest(ctx, req)

	respBytes, err := json.Marshal(suggestion)
	if err != nil {
		log.Errorf("suggest, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

// goalFromRequest resolves the {id} path var to one of the caller's goals;
// cross-user access looks identical to a missing goal.
func (h *Handler) goalFromRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Goal, bool) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return nil, false
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return nil, false
	}

	goal, err := h.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return nil, false
		}
		log.Errorf("get goal %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return goal, true
}

func (h *Handler) writeGoal(w http.ResponseWriter, goal Goal, status int) {
	respBytes, err := json.Marshal(goal.WithDerived())
	if err != nil {
		log.Errorf("marshal goal %d: %s", goal.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, status)
}
