package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/fitware/fitware/internal"
	"github.com/fitware/fitware/internal/config"
	"github.com/fitware/fitware/internal/logging"
	"github.com/fitware/fitware/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "main-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	resendAPIKey := os.Getenv("FITWARE_RESEND_API_KEY")
	if resendAPIKey == "" {
		log.Errorf("resend API key not set, password reset emails disabled. use FITWARE_RESEND_API_KEY env var to set it")
	}

	suggestionsAPIKey := os.Getenv("FITWARE_SUGGESTIONS_API_KEY")
	if suggestionsAPIKey == "" {
		log.Errorf("suggestions API key not set, goal suggestions will use fallbacks. use FITWARE_SUGGESTIONS_API_KEY")
	}

	googleClientID := os.Getenv("FITWARE_GOOGLE_CLIENT_ID")
	if googleClientID == "" {
		log.Errorf("google client id not set. use FITWARE_GOOGLE_CLIENT_ID")
	}
	googleClientSecret := os.Getenv("FITWARE_GOOGLE_CLIENT_SECRET")
	if googleClientSecret == "" {
		log.Errorf("google client secret not set. use FITWARE_GOOGLE_CLIENT_SECRET")
	}
	googleRedirectURL := os.Getenv("FITWARE_GOOGLE_REDIRECT_URL")
	if googleRedirectURL == "" {
		googleRedirectURL = fmt.Sprintf("http://localhost:%d/v1/auth/google/callback/", cfg.Port)
		log.Warnf("google redirect url not set, using %s. use FITWARE_GOOGLE_REDIRECT_URL", googleRedirectURL)
	}

	redisPassword := os.Getenv("FITWARE_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use FITWARE_REDIS_PASS")
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			ResendAPIKey:            resendAPIKey,
			SuggestionsAPIKey:       suggestionsAPIKey,
			GoogleClientID:          googleClientID,
			GoogleClientSecret:      googleClientSecret,
			GoogleRedirectURL:       googleRedirectURL,
			RedisPassword:           redisPassword,
			VersionInfo:             versionInfo,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
