package challenges

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitware/fitware/internal/auth"
	"github.com/fitware/fitware/internal/badges"
	"github.com/fitware/fitware/internal/goals"
	"github.com/fitware/fitware/internal/telemetry/tracing"
	"github.com/fitware/fitware/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=challenges_test

const dueDateLayout = "2006-01-02"

type challengesRepo interface {
	Add(ctx context.Context, c Challenge) (*Challenge, error)
	Get(ctx context.Context, id int) (*Challenge, error)
	List(ctx context.Context) ([]Challenge, error)
	ListJoinedBy(ctx context.Context, userID int) ([]Challenge, error)
	GetOrCreateJoin(ctx context.Context, userID, challengeID int) (*Join, bool, error)
	GetJoin(ctx context.Context, userID, challengeID int) (*Join, error)
	UpdateJoin(ctx context.Context, j Join) error
	DeleteJoin(ctx context.Context, userID, challengeID int) error
	CountParticipants(ctx context.Context, challengeID int) (int, error)
}

// goalsStore is the slice of the goals repo the challenge flows need: a
// challenge mirrors itself into personal goals for its creator and joiners.
type goalsStore interface {
	Add(ctx context.Context, goal goals.Goal) (*goals.Goal, error)
	FindMatching(ctx context.Context, userID int, title, unit string, targetValue float64) ([]goals.Goal, error)
}

// goalSyncer pushes a challenge progress write back into the caller's
// matching goals. Best effort, failures never fail the request.
type goalSyncer interface {
	ChallengeProgressUpdated(ctx context.Context, challenge Challenge, userID int, value float64) error
}

type badgeService interface {
	CheckMilestoneBadges(ctx context.Context, userID int) ([]badges.Badge, error)
}

type Handler struct {
	repo    challengesRepo
	goals   goalsStore
	syncer  goalSyncer
	badges  badgeService
	nowFunc func() time.Time
}

func NewHandler(repo challengesRepo, goalsRepo goalsStore, syncer goalSyncer, badgeService badgeService) *Handler {
	return &Handler{
		repo:    repo,
		goals:   goalsRepo,
		syncer:  syncer,
		badges:  badgeService,
		nowFunc: time.Now,
	}
}

type challengeRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Badge       *string  `json:"badge"`
	DueDate     *string  `json:"due_date"`
	TargetValue *float64 `json:"target_value"`
	Unit        *string  `json:"unit"`
}

// HandleCreate stores the challenge, mirrors it into a personal goal for the
// creator and joins the creator in one go.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "challengesHandler.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req challengeRequest
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

	challenge := Challenge{
		Title:       *req.Title,
		TargetValue: *req.TargetValue,
		CreatedBy:   userID,
	}
	if req.Description != nil {
		challenge.Description = *req.Description
	}
	if req.Badge != nil {
		challenge.BadgeName = *req.Badge
	}
	if req.Unit != nil {
		challenge.Unit = *req.Unit
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			http.Error(w, "due_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		challenge.DueDate = &due
	}

	goal, err := h.goals.Add(ctx, goals.Goal{
		UserID:      userID,
		Title:       challenge.Title,
		Description: challenge.Description,
		TargetValue: challenge.TargetValue,
		Unit:        challenge.Unit,
		IsActive:    true,
	})
	if err != nil {
		log.Errorf("create challenge, creator goal for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	challenge.GoalID = &goal.ID

	created, err := h.repo.Add(ctx, challenge)
	if err != nil {
		log.Errorf("create challenge for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	join, _, err := h.repo.GetOrCreateJoin(ctx, userID, created.ID)
	if err != nil {
		log.Errorf("create challenge %d, creator join: %s", created.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.writeView(w, NewView(*created, 1, join, h.nowFunc()), http.StatusCreated)
}

// HandleJoin is idempotent; the first join also mirrors the challenge into a
// personal goal unless the joiner already tracks one with the same
// title, unit and target.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "challengesHandler.join")
	defer span.End()

	userID, challenge, ok := h.challengeFromRequest(ctx, w, r)
	if !ok {
		return
	}

	join, created, err := h.repo.GetOrCreateJoin(ctx, userID, challenge.ID)
	if err != nil {
		log.Errorf("join challenge %d for user %d: %s", challenge.ID, userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if created {
		matching, err := h.goals.FindMatching(ctx, userID, challenge.Title, challenge.Unit, challenge.TargetValue)
		if err != nil {
			log.Errorf("join challenge %d, find matching goals: %s", challenge.ID, err)
		} else if len(matching) == 0 {
			if _, err := h.goals.Add(ctx, goals.Goal{
				UserID:      userID,
				Title:       challenge.Title,
				Description: challenge.Description,
				TargetValue: challenge.TargetValue,
				Unit:        challenge.Unit,
				IsActive:    true,
			}); err != nil {
				log.Errorf("join challenge %d, joiner goal: %s", challenge.ID, err)
			}
		}
	}

	h.writeChallengeView(ctx, w, *challenge, join, http.StatusOK)
}

func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "challengesHandler.leave")
	defer span.End()

	userID, challenge, ok := h.challengeFromRequest(ctx, w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteJoin(ctx, userID, challenge.ID); err != nil {
		if errors.Is(err, ErrJoinNotFound) {
			http.Error(w, "not a participant", http.StatusBadRequest)
			return
		}
		log.Errorf("leave challenge %d for user %d: %s", challenge.ID, userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateProgressRequest struct {
	ProgressValue *float64 `json:"progress_value"`
}

// HandleUpdateProgress writes the caller's challenge progress and runs the
// completion pipeline: badge checks and the sync back into matching goals.
// Callers who never joined are joined on the fly.
func (h *Handler) HandleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "challengesHandler.updateProgress")
	defer span.End()

	userID, challenge, ok := h.challengeFromRequest(ctx, w, r)
	if !ok {
		return
	}

	var req updateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ProgressValue == nil || *req.ProgressValue < 0 {
		http.Error(w, "progress_value must be a non-negative number", http.StatusBadRequest)
		return
	}

	join, _, err := h.repo.GetOrCreateJoin(ctx, userID, challenge.ID)
	if err != nil {
		log.Errorf("update challenge %d progress, join for user %d: %s", challenge.ID, userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	wasCompleted := join.IsCompleted
	join.ProgressValue = *req.ProgressValue
	if challenge.TargetValue > 0 {
		join.IsCompleted = join.ProgressValue >= challenge.TargetValue
	}

	if err := h.repo.UpdateJoin(ctx, *join); err != nil {
		log.Errorf("update challenge %d progress for user %d: %s", challenge.ID, userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if join.IsCompleted && !wasCompleted {
		if _, err := h.badges.CheckMilestoneBadges(ctx, userID); err != nil {
			log.Errorf("update challenge %d progress, badge check for user %d: %s", challenge.ID, userID, err)
		}
	}

	if err := h.syncer.ChallengeProgressUpdated(ctx, *challenge, userID, join.ProgressValue); err != nil {
		log.Errorf("update challenge %d progress, goal sync for user %d: %s", challenge.ID, userID, err)
	}

	h.writeChallengeView(ctx, w, *challenge, join, http.StatusOK)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "challengesHandler.list")
	defer span.End()

	h.listWith(ctx, w, func(ctx context.Context, _ int) ([]Challenge, error) {
		return h.repo.List(ctx)
	})
}

func (h *Handler) HandleMy(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "challengesHandler.my")
	defer span.End()

	h.listWith(ctx, w, h.repo.ListJoinedBy)
}

func (h *Handler) listWith(ctx context.Context, w http.ResponseWriter, list func(context.Context, int) ([]Challenge, error)) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	challenges, err := list(ctx, userID)
	if err != nil {
		log.Errorf("list challenges for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := h.nowFunc()
	views := make([]View, 0, len(challenges))
	for _, c := range challenges {
		participants, err := h.repo.CountParticipants(ctx, c.ID)
		if err != nil {
			log.Errorf("list challenges, participants of %d: %s", c.ID, err)
		}
		join, err := h.repo.GetJoin(ctx, userID, c.ID)
		if err != nil && !errors.Is(err, ErrJoinNotFound) {
			log.Errorf("list challenges, join of %d: %s", c.ID, err)
		}
		views = append(views, NewView(c, participants, join, now))
	}

	respBytes, err := json.Marshal(views)
	if err != nil {
		log.Errorf("list challenges, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

func (h *Handler) challengeFromRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (int, *Challenge, bool) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return 0, nil, false
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid challenge id", http.StatusBadRequest)
		return 0, nil, false
	}

	challenge, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			http.Error(w, "challenge not found", http.StatusNotFound)
			return 0, nil, false
		}
		log.Errorf("get challenge %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return 0, nil, false
	}
	return userID, challenge, true
}

func (h *Handler) writeChallengeView(ctx context.Context, w http.ResponseWriter, challenge Challenge, join *Join, status int) {
	participants, err := h.repo.CountParticipants(ctx, challenge.ID)
	if err != nil {
		log.Errorf("participants of challenge %d: %s", challenge.ID, err)
	}
	h.writeView(w, NewView(challenge, participants, join, h.nowFunc()), status)
}

func (h *Handler) writeView(w http.ResponseWriter, view View, status int) {
	respBytes, err := json.Marshal(view)
	if err != nil {
		log.Errorf("marshal challenge %d: %s", view.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, status)
}
