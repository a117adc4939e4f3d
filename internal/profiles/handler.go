package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/fitware/fitware/internal/auth"
	"github.com/fitware/fitware/internal/telemetry/tracing"
	"github.com/fitware/fitware/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=profiles_test

type profilesRepo interface {
	Create(ctx context.Context, userID int) error
	Get(ctx context.Context, userID int) (*Profile, error)
	Update(ctx context.Context, p Profile) error
}

type Handler struct {
	repo profilesRepo
}

func NewHandler(repo profilesRepo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "profilesHandler.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	profile, err := h.repo.Get(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		// profiles are created lazily for accounts that predate them
		if err = h.repo.Create(ctx, userID); err == nil {
			profile, err = h.repo.Get(ctx, userID)
		}
	}
	if err != nil {
		log.Errorf("get profile for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("get profile, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

type updateProfileRequest struct {
	PhotoURL     *string  `json:"photo_url"`
	Bio          *string  `json:"bio"`
	FitnessLevel *string  `json:"fitness_level"`
	Height       *float64 `json:"height"`
	Weight       *float64 `json:"weight"`
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "profilesHandler.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	profile, err := h.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("update profile, get for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.PhotoURL != nil {
		profile.PhotoURL = *req.PhotoURL
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.FitnessLevel != nil {
		profile.FitnessLevel = *req.FitnessLevel
	}
	if req.Height != nil {
		profile.Height = *req.Height
	}
	if req.Weight != nil {
		profile.Weight = *req.Weight
	}

	if err := h.repo.Update(ctx, *profile); err != nil {
		log.Errorf("update profile for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("update profile, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}
