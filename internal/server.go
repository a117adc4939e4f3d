package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/fitware/fitware/internal/activity"
	"github.com/fitware/fitware/internal/auth"
	"github.com/fitware/fitware/internal/badges"
	"github.com/fitware/fitware/internal/challenges"
	"github.com/fitware/fitware/internal/config"
	"github.com/fitware/fitware/internal/db"
	"github.com/fitware/fitware/internal/exercises"
	"github.com/fitware/fitware/internal/goals"
	"github.com/fitware/fitware/internal/middleware"
	"github.com/fitware/fitware/internal/profiles"
	"github.com/fitware/fitware/internal/progress"
	"github.com/fitware/fitware/internal/telemetry/metrics"
	"github.com/fitware/fitware/internal/telemetry/tracing"
	"github.com/fitware/fitware/internal/users"
	"github.com/fitware/fitware/internal/workouts"
	"github.com/fitware/fitware/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient *redis.Client
	authService *auth.Service

	resendAPIKey       string
	suggestionsAPIKey  string
	googleClientID     string
	googleClientSecret string
	googleRedirectURL  string

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	ResendAPIKey            string
	SuggestionsAPIKey       string
	GoogleClientID          string
	GoogleClientSecret      string
	GoogleRedirectURL       string
	RedisPassword           string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewService(auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "main-backend")
	if err != nil {
		return nil, err
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient: rdb,
		authService: authService,

		resendAPIKey:       params.ResendAPIKey,
		suggestionsAPIKey:  params.SuggestionsAPIKey,
		googleClientID:     params.GoogleClientID,
		googleClientSecret: params.GoogleClientSecret,
		googleRedirectURL:  params.GoogleRedirectURL,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	location, err := time.LoadLocation(s.config.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", s.config.TimeZone, err)
	}

	activityLog := activity.NewLogger(activity.NewRepo(s.dbPool), location)

	usersRepo := users.NewRepo(s.dbPool)
	profilesRepo := profiles.NewRepo(s.dbPool)
	goalsRepo := goals.NewRepo(s.dbPool)
	challengesRepo := challenges.NewRepo(s.dbPool)
	badgesRepo := badges.NewRepo(s.dbPool)
	exercisesRepo := exercises.NewRepo(s.dbPool)
	workoutsRepo := workouts.NewRepo(s.dbPool)

	badgeService := badges.NewService(badgesRepo, s.metricsManager)
	syncer := progress.NewSyncer(goalsRepo, challengesRepo, s.metricsManager)
	suggester := goals.NewSuggester(
		s.suggestionsAPIKey,
		s.config.SuggestionsBaseURL,
		s.config.SuggestionsModel,
		s.metricsManager,
	)

	var mailer users.ResetMailer
	if s.resendAPIKey != "" {
		mailer = users.NewMailer(s.resendAPIKey, users.DefaultFromAddress)
	} else {
		log.Warnln("no resend api key set, password reset emails will be dropped")
		mailer = users.NoopMailer{}
	}

	usersHandler := users.NewHandler(
		usersRepo,
		profilesRepo,
		s.authService,
		mailer,
		activityLog,
		s.config.FrontendBaseURL,
	)
	authRouter := r.PathPrefix("/v1/auth").Subrouter()
	authRouter.HandleFunc("/signup/", usersHandler.HandleSignup).Methods("POST", "OPTIONS").Name("signup")
	authRouter.HandleFunc("/logout/", usersHandler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	authRouter.HandleFunc("/me/", usersHandler.HandleMe).Methods("GET", "OPTIONS").Name("me")
	authRouter.HandleFunc("/password/reset/", usersHandler.HandlePasswordReset).Methods("POST", "OPTIONS").Name("password-reset")
	authRouter.HandleFunc("/password/reset/confirm/", usersHandler.HandlePasswordResetConfirm).Methods("POST", "OPTIONS").Name("password-reset-confirm")

	// login gets its own subrouter so it can be rate limited
	loginRouter := r.PathPrefix("/v1/auth/login").Subrouter()
	loginRouter.HandleFunc("/", usersHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	loginRouter.Use(middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		"login",
		s.config.LoginRateLimitAllowedPerMin,
		s.metricsManager,
	))

	googleOAuthHandler := users.NewGoogleOAuthHandler(users.GoogleOAuthHandlerParams{
		ClientID:        s.googleClientID,
		ClientSecret:    s.googleClientSecret,
		RedirectURL:     s.googleRedirectURL,
		Repo:            usersRepo,
		Sessions:        s.authService,
		FrontendBaseURL: s.config.FrontendBaseURL,
	})
	authRouter.HandleFunc("/google/login/", googleOAuthHandler.HandleLogin).Methods("GET", "OPTIONS").Name("google-login")
	authRouter.HandleFunc("/google/callback/", googleOAuthHandler.HandleCallback).Methods("GET", "OPTIONS").Name("google-callback")

	profilesHandler := profiles.NewHandler(profilesRepo)
	r.HandleFunc("/v1/profile/", profilesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/v1/profile/", profilesHandler.HandleUpdate).Methods("PUT", "PATCH", "OPTIONS").Name("update-profile")

	goalsHandler := goals.NewHandler(
		goalsRepo,
		syncer,
		badgeService,
		activityLog,
		suggester,
		s.metricsManager,
	)
	goalsRouter := r.PathPrefix("/v1/goals").Subrouter()
	goalsRouter.HandleFunc("/", goalsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-goals")
	goalsRouter.HandleFunc("/", goalsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-goal")
	goalsRouter.HandleFunc("/active/", goalsHandler.HandleActive).Methods("GET", "OPTIONS").Name("active-goals")
	goalsRouter.HandleFunc("/log-visit/", goalsHandler.HandleLogVisit).Methods("POST", "OPTIONS").Name("log-visit")
	goalsRouter.HandleFunc("/activity-logs/", goalsHandler.HandleActivityLogs).Methods("GET", "OPTIONS").Name("activity-logs")
	goalsRouter.HandleFunc("/check-badges/", goalsHandler.HandleCheckBadges).Methods("POST", "OPTIONS").Name("check-badges")
	goalsRouter.HandleFunc("/suggest/", goalsHandler.HandleSuggest).Methods("POST", "OPTIONS").Name("suggest-goal")
	goalsRouter.HandleFunc("/{id}/", goalsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-goal")
	goalsRouter.HandleFunc("/{id}/", goalsHandler.HandleUpdate).Methods("PUT", "PATCH", "OPTIONS").Name("update-goal")
	goalsRouter.HandleFunc("/{id}/", goalsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-goal")
	goalsRouter.HandleFunc("/{id}/update-progress/", goalsHandler.HandleUpdateProgress).Methods("POST", "OPTIONS").Name("goal-progress")

	challengesHandler := challenges.NewHandler(challengesRepo, goalsRepo, syncer, badgeService)
	challengesRouter := r.PathPrefix("/v1/challenges").Subrouter()
	challengesRouter.HandleFunc("/", challengesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-challenges")
	challengesRouter.HandleFunc("/", challengesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-challenge")
	challengesRouter.HandleFunc("/my/", challengesHandler.HandleMy).Methods("GET", "OPTIONS").Name("my-challenges")
	challengesRouter.HandleFunc("/{id}/join/", challengesHandler.HandleJoin).Methods("POST", "OPTIONS").Name("join-challenge")
	challengesRouter.HandleFunc("/{id}/leave/", challengesHandler.HandleLeave).Methods("POST", "OPTIONS").Name("leave-challenge")
	challengesRouter.HandleFunc("/{id}/update-progress/", challengesHandler.HandleUpdateProgress).Methods("POST", "OPTIONS").Name("challenge-progress")

	badgesHandler := badges.NewHandler(badgeService)
	r.HandleFunc("/v1/badges/", badgesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-badges")

	exercisesHandler := exercises.NewHandler(exercisesRepo)
	exercisesRouter := r.PathPrefix("/v1/exercises").Subrouter()
	exercisesRouter.HandleFunc("/", exercisesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	exercisesRouter.HandleFunc("/", exercisesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-exercise")
	exercisesRouter.HandleFunc("/{id}/", exercisesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")
	exercisesRouter.HandleFunc("/{id}/", exercisesHandler.HandleUpdate).Methods("PUT", "PATCH", "OPTIONS").Name("update-exercise")
	exercisesRouter.HandleFunc("/{id}/", exercisesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-exercise")

	workoutsHandler := workouts.NewHandler(workoutsRepo, badgeService, activityLog)
	workoutsRouter := r.PathPrefix("/v1/workouts").Subrouter()
	workoutsRouter.HandleFunc("/templates/", workoutsHandler.HandleListTemplates).Methods("GET", "OPTIONS").Name("list-workout-templates")
	workoutsRouter.HandleFunc("/templates/", workoutsHandler.HandleCreateTemplate).Methods("POST", "OPTIONS").Name("new-workout-template")
	workoutsRouter.HandleFunc("/templates/{id}/", workoutsHandler.HandleGetTemplate).Methods("GET", "OPTIONS").Name("get-workout-template")
	workoutsRouter.HandleFunc("/templates/{id}/", workoutsHandler.HandleUpdateTemplate).Methods("PUT", "PATCH", "OPTIONS").Name("update-workout-template")
	workoutsRouter.HandleFunc("/templates/{id}/", workoutsHandler.HandleDeleteTemplate).Methods("DELETE", "OPTIONS").Name("delete-workout-template")
	workoutsRouter.HandleFunc("/templates/{id}/start_session/", workoutsHandler.HandleStartSession).Methods("POST", "OPTIONS").Name("start-workout-session")
	workoutsRouter.HandleFunc("/sessions/", workoutsHandler.HandleListSessions).Methods("GET", "OPTIONS").Name("list-workout-sessions")
	workoutsRouter.HandleFunc("/sessions/", workoutsHandler.HandleCreateSession).Methods("POST", "OPTIONS").Name("new-workout-session")
	// stats goes first, {id} would otherwise swallow it
	workoutsRouter.HandleFunc("/sessions/stats/", workoutsHandler.HandleStats).Methods("GET", "OPTIONS").Name("workout-stats")
	workoutsRouter.HandleFunc("/sessions/{id}/", workoutsHandler.HandleGetSession).Methods("GET", "OPTIONS").Name("get-workout-session")
	workoutsRouter.HandleFunc("/sessions/{id}/", workoutsHandler.HandleUpdateSession).Methods("PUT", "PATCH", "OPTIONS").Name("update-workout-session")
	workoutsRouter.HandleFunc("/sessions/{id}/", workoutsHandler.HandleDeleteSession).Methods("DELETE", "OPTIONS").Name("delete-workout-session")
	workoutsRouter.HandleFunc("/sessions/{id}/add_set/", workoutsHandler.HandleAddSet).Methods("POST", "OPTIONS").Name("add-workout-set")
	workoutsRouter.HandleFunc("/sessions/{id}/complete/", workoutsHandler.HandleComplete).Methods("POST", "OPTIONS").Name("complete-workout-session")
	workoutsRouter.HandleFunc("/sets/{setId}/", workoutsHandler.HandleUpdateSet).Methods("PUT", "PATCH", "OPTIONS").Name("update-workout-set")
	workoutsRouter.HandleFunc("/sets/{setId}/", workoutsHandler.HandleDeleteSet).Methods("DELETE", "OPTIONS").Name("delete-workout-set")

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
	}).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "ok")
	}).Methods("GET", "OPTIONS").Name("health")
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET", "OPTIONS").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
