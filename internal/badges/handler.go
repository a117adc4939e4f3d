package badges

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/fitware/fitware/internal/auth"
	"github.com/fitware/fitware/internal/telemetry/tracing"
	"github.com/fitware/fitware/pkg"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "badgesHandler.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	badges, err := h.service.List(ctx, userID)
	if err != nil {
		log.Errorf("list badges for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if badges == nil {
		badges = []Badge{}
	}

	respBytes, err := json.Marshal(badges)
	if err != nil {
		log.Errorf("list badges, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}
