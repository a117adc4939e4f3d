package users

import (
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/fitware/fitware/internal/telemetry/tracing"
	"github.com/fitware/fitware/pkg"
)

const oauthStateCookie = "fitware_oauth_state"

type GoogleOAuthHandlerParams struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	Repo            *Repo
	Sessions        sessionManager
	FrontendBaseURL string
}

// GoogleOAuthHandler drives the Google login flow: redirect with a CSRF
// state cookie, then exchange the callback code, fetch the userinfo and get
// or create the matching account.
type GoogleOAuthHandler struct {
	config          *oauth2.Config
	repo            *Repo
	sessions        sessionManager
	frontendBaseURL string
}

func NewGoogleOAuthHandler(params GoogleOAuthHandlerParams) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		config: &oauth2.Config{
			ClientID:     params.ClientID,
			ClientSecret: params.ClientSecret,
			RedirectURL:  params.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		repo:            params.Repo,
		sessions:        params.Sessions,
		frontendBaseURL: params.FrontendBaseURL,
	}
}

func (h *GoogleOAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := pkg.GenerateRandomString(32)
	if err != nil {
		log.Errorf("google oauth, generate state: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *GoogleOAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "googleOAuth.callback")
	defer span.End()

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		log.Warnf("google oauth, state mismatch: %v", err)
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(ctx, code)
	if err != nil {
		log.Errorf("google oauth, code exchange: %s", err)
		http.Error(w, "oauth exchange failed", http.StatusUnauthorized)
		return
	}

	oauthService, err := googleoauth2.NewService(ctx,
		option.WithTokenSource(h.config.TokenSource(ctx, token)),
	)
	if err != nil {
		log.Errorf("google oauth, userinfo service: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userinfo, err := oauthService.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		log.Errorf("google oauth, get userinfo: %s", err)
		http.Error(w, "failed to fetch user info", http.StatusUnauthorized)
		return
	}
	if userinfo.Email == "" {
		http.Error(w, "no email in user info", http.StatusUnauthorized)
		return
	}

	user, err := h.repo.GetOrCreateByEmail(ctx, userinfo.Email, userinfo.GivenName, userinfo.FamilyName)
	if err != nil {
		log.Errorf("google oauth, get or create user: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sessionToken, err := h.sessions.StartSession(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("google oauth, start session: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("google oauth, user %d logged in", user.ID)
	http.Redirect(w, r,
		fmt.Sprintf("%s/auth/callback#token=%s", h.frontendBaseURL, sessionToken),
		http.StatusTemporaryRedirect,
	)
}
