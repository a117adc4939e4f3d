package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitware/fitware/internal/auth"
	"github.com/fitware/fitware/internal/telemetry/tracing"
	"github.com/fitware/fitware/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=exercises_test

type exercisesRepo interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	Get(ctx context.Context, id, userID int) (*Exercise, error)
	List(ctx context.Context, userID int, search string) ([]Exercise, error)
	Update(ctx context.Context, exercise Exercise) error
	Delete(ctx context.Context, id, userID int) error
}

type Handler struct {
	repo exercisesRepo
}

func NewHandler(repo exercisesRepo) *Handler {
	return &Handler{repo: repo}
}

type exerciseRequest struct {
	Name       *string `json:"name"`
	Category   *string `json:"category"`
	MetricType *string `json:"metric_type"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	exercises, err := h.repo.List(ctx, userID, r.URL.Query().Get("search"))
	if err != nil {
		log.Errorf("list exercises for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if exercises == nil {
		exercises = []Exercise{}
	}

	respBytes, err := json.Marshal(exercises)
	if err != nil {
		log.Errorf("list exercises, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == nil || *req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.Category == nil || !slices.Contains(Categories, *req.Category) {
		http.Error(w, "invalid category", http.StatusBadRequest)
		return
	}
	if req.MetricType != nil && !slices.Contains(MetricTypes, *req.MetricType) {
		http.Error(w, "invalid metric_type", http.StatusBadRequest)
		return
	}

	exercise := Exercise{
		CreatedBy: &userID,
		Name:      *req.Name,
		Category:  *req.Category,
	}
	if req.MetricType != nil {
		exercise.MetricType = *req.MetricType
	}

	created, err := h.repo.Add(ctx, exercise)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			http.Error(w, "you already have an exercise with that name", http.StatusBadRequest)
			return
		}
		log.Errorf("create exercise for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.writeExercise(w, *created, http.StatusCreated)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.get")
	defer span.End()

	_, exercise, ok := h.exerciseFromRequest(ctx, w, r)
	if !ok {
		return
	}
	h.writeExercise(w, *exercise, http.StatusOK)
}

// HandleUpdate edits one of the caller's custom exercises. Global catalog
// rows are visible but read-only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.update")
	defer span.End()

	userID, exercise, ok := h.exerciseFromRequest(ctx, w, r)
	if !ok {
		return
	}
	if exercise.IsGlobal() || *exercise.CreatedBy != userID {
		http.Error(w, "you do not have permission to edit this exercise", http.StatusForbidden)
		return
	}

	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Category != nil && !slices.Contains(Categories, *req.Category) {
		http.Error(w, "invalid category", http.StatusBadRequest)
		return
	}
	if req.MetricType != nil && !slices.Contains(MetricTypes, *req.MetricType) {
		http.Error(w, "invalid metric_type", http.StatusBadRequest)
		return
	}

	if req.Name != nil {
		exercise.Name = *req.Name
	}
	if req.Category != nil {
		exercise.Category = *req.Category
	}
	if req.MetricType != nil {
		exercise.MetricType = *req.MetricType
	}

	if err := h.repo.Update(ctx, *exercise); err != nil {
		if pkg.IsUniqueViolationError(err) {
			http.Error(w, "you already have an exercise with that name", http.StatusBadRequest)
			return
		}
		log.Errorf("update exercise %d: %s", exercise.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeExercise(w, *exercise, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.delete")
	defer span.End()

	userID, exercise, ok := h.exerciseFromRequest(ctx, w, r)
	if !ok {
		return
	}
	if exercise.IsGlobal() || *exercise.CreatedBy != userID {
		http.Error(w, "you do not have permission to delete this exercise", http.StatusForbidden)
		return
	}

	if err := h.repo.Delete(ctx, exercise.ID, userID); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete exercise %d: %s", exercise.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exerciseFromRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (int, *Exercise, bool) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return 0, nil, false
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid exercise id", http.StatusBadRequest)
		return 0, nil, false
	}

	exercise, err := h.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return 0, nil, false
		}
		log.Errorf("get exercise %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return 0, nil, false
	}
	return userID, exercise, true
}

func (h *Handler) writeExercise(w http.ResponseWriter, exercise Exercise, status int) {
	respBytes, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("marshal exercise %d: %s", exercise.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, status)
}
