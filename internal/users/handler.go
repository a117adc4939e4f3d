package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fitware/fitware/internal/activity"
	"github.com/fitware/fitware/internal/auth"
	"github.com/fitware/fitware/internal/telemetry/tracing"
	"github.com/fitware/fitware/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=users_test

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	Get(ctx context.Context, id int) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, userID int, passwordHash string) error
	AddResetToken(ctx context.Context, t PasswordResetToken) error
	GetResetToken(ctx context.Context, token string) (*PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, token string) error
}

type profileCreator interface {
	Create(ctx context.Context, userID int) error
}

type sessionManager interface {
	StartSession(ctx context.Context, userID int, createdAt time.Time) (string, error)
	EndSession(ctx context.Context, token string) error
}

type resetMailer interface {
	SendPasswordReset(ctx context.Context, email, resetLink string) error
}

type activityLogger interface {
	Log(ctx context.Context, userID int, actionType string)
}

const resetTokenTTL = time.Hour

type Handler struct {
	repo            usersRepo
	profiles        profileCreator
	sessions        sessionManager
	mailer          resetMailer
	activityLog     activityLogger
	frontendBaseURL string
}

func NewHandler(
	repo usersRepo,
	profiles profileCreator,
	sessions sessionManager,
	mailer resetMailer,
	activityLog activityLogger,
	frontendBaseURL string,
) *Handler {
	return &Handler{
		repo:            repo,
		profiles:        profiles,
		sessions:        sessions,
		mailer:          mailer,
		activityLog:     activityLog,
		frontendBaseURL: frontendBaseURL,
	}
}

type signupRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeat_password"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
}

type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.signup")
	defer span.End()

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	switch {
	case req.Username == "" || req.Email == "" || req.Password == "":
		http.Error(w, "username, email and password are required", http.StatusBadRequest)
		return
	case req.Password != req.RepeatPassword:
		http.Error(w, "passwords do not match", http.StatusBadRequest)
		return
	case !strings.Contains(req.Email, "@"):
		http.Error(w, "invalid email", http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		log.Errorf("signup, hash password: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.repo.Add(ctx, User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			http.Error(w, "username or email already taken", http.StatusBadRequest)
			return
		}
		log.Errorf("signup, add user: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.profiles.Create(ctx, user.ID); err != nil {
		log.Errorf("signup, create profile for user %d: %s", user.ID, err)
	}

	token, err := h.sessions.StartSession(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("signup, start session: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.activityLog.Log(ctx, user.ID, activity.ActionLogin)

	respBytes, err := json.Marshal(authResponse{Token: token, User: user})
	if err != nil {
		log.Errorf("signup, marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusCreated)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.login")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login, get user: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.sessions.StartSession(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("login, start session: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.activityLog.Log(ctx, user.ID, activity.ActionLogin)

	respBytes, err := json.Marshal(authResponse{Token: token, User: user})
	if err != nil {
		log.Errorf("login, marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.logout")
	defer span.End()

	token := r.Header.Get("X-FITWARE-TOKEN")
	if token == "" {
		if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		http.Error(w, "no token", http.StatusBadRequest)
		return
	}

	if err := h.sessions.EndSession(ctx, token); err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusBadRequest)
			return
		}
		log.Errorf("logout: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"loggedOut":true}`)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.me")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	user, err := h.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("get me, user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(user)
	if err != nil {
		log.Errorf("get me, marshal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// HandlePasswordReset always returns 200 so the endpoint cannot be used to
// probe which emails are registered.
func (h *Handler) HandlePasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.passwordReset")
	defer span.End()

	var req passwordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	okResponse := `{"sent":true}`

	user, err := h.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.Errorf("password reset, get user by email: %s", err)
		}
		pkg.WriteJSONResponseOK(w, okResponse)
		return
	}

	token, err := pkg.GenerateRandomString(40)
	if err != nil {
		log.Errorf("password reset, generate token: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.repo.AddResetToken(ctx, PasswordResetToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}); err != nil {
		log.Errorf("password reset, store token: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", h.frontendBaseURL, token)
	if err := h.mailer.SendPasswordReset(ctx, user.Email, resetLink); err != nil {
		log.Errorf("password reset, send email to user %d: %s", user.ID, err)
	}

	pkg.WriteJSONResponseOK(w, okResponse)
}

type passwordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) HandlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.passwordResetConfirm")
	defer span.End()

	var req passwordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		http.Error(w, "token and new_password are required", http.StatusBadRequest)
		return
	}

	resetToken, err := h.repo.GetResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			http.Error(w, "invalid or expired token", http.StatusBadRequest)
			return
		}
		log.Errorf("password reset confirm, get token: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if resetToken.Used || time.Now().After(resetToken.ExpiresAt) {
		http.Error(w, "invalid or expired token", http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(req.NewPassword)
	if err != nil {
		log.Errorf("password reset confirm, hash password: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.repo.UpdatePassword(ctx, resetToken.UserID, passwordHash); err != nil {
		log.Errorf("password reset confirm, update password: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.repo.MarkResetTokenUsed(ctx, req.Token); err != nil {
		log.Errorf("password reset confirm, mark token used: %s", err)
	}

	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}
