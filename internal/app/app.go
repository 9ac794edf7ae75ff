// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garyellow/varname-slackbot/internal/buildinfo"
	"github.com/garyellow/varname-slackbot/internal/config"
	"github.com/garyellow/varname-slackbot/internal/ctxutil"
	"github.com/garyellow/varname-slackbot/internal/feedback"
	"github.com/garyellow/varname-slackbot/internal/logger"
	"github.com/garyellow/varname-slackbot/internal/metrics"
	"github.com/garyellow/varname-slackbot/internal/sentry"
	"github.com/garyellow/varname-slackbot/internal/slackutil"
	"github.com/garyellow/varname-slackbot/internal/storage"
	"github.com/garyellow/varname-slackbot/internal/storage/postgres"
	"github.com/garyellow/varname-slackbot/internal/translator"
	"github.com/garyellow/varname-slackbot/internal/webhook"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slack-go/slack"
	"golang.org/x/sync/errgroup"
)

const projectURL = "https://github.com/garyellow/varname-slackbot"

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	store          storage.FeedbackRepository
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	slack          slackutil.Client
	translator     translator.Translator
	webhookHandler *webhook.Handler
	router         *gin.Engine
	server         *http.Server
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", "varname-slackbot")
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Set as default logger to enable context value extraction (user, channel, request)
	// via ContextHandler in package-level slog.*Context() calls.
	slog.SetDefault(log.Logger)

	log.Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed; error tracking disabled")
	} else if sentry.IsEnabled() {
		log.WithField("host", cfg.SentryHost).Info("Sentry error tracking enabled")
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	tr, err := translator.New(ctx, cfg.Translator, m)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("translator: %w", err)
	}
	log.WithField("provider", tr.Provider()).Info("Translator ready")

	slackClient := slackutil.Instrument(slack.New(cfg.SlackAPIKey), m)

	svc, err := feedback.NewService(feedback.Config{
		Store:      store,
		Translator: tr,
		Slack:      slackClient,
		Channel:    cfg.SlackChannel,
		Metrics:    m,
		Logger:     log,
		Report:     sentry.CaptureFlowError,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("feedback service: %w", err)
	}

	webhookHandler, err := webhook.NewHandler(svc,
		webhook.WithCommand(cfg.SlackCommand),
		webhook.WithSigningSecret(cfg.SlackSigningSecret),
		webhook.WithFlowTimeout(cfg.FlowTimeout),
		webhook.WithMetrics(m),
		webhook.WithLogger(log),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("webhook: %w", err)
	}
	if !cfg.VerifySignatures() {
		log.Warn("SLACK_SIGNING_SECRET is empty; request signatures are not verified")
	}

	app := &Application{
		cfg:            cfg,
		logger:         log,
		store:          store,
		metrics:        m,
		registry:       registry,
		slack:          slackClient,
		translator:     tr,
		webhookHandler: webhookHandler,
	}
	app.router = app.newRouter()

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: config.HTTPRead,
		ReadTimeout:       config.HTTPRead,
		WriteTimeout:      config.HTTPWrite,
		IdleTimeout:       config.HTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// openStore selects PostgreSQL when DATABASE_URL is set, SQLite otherwise.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.FeedbackRepository, error) {
	if cfg.UsePostgres() {
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		log.WithField("driver", "postgres").Info("Database connected")
		return db, nil
	}

	db, err := storage.New(ctx, cfg.SQLitePath())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	log.WithField("driver", "sqlite").WithField("path", db.Path()).Info("Database connected")
	return db, nil
}

func (a *Application) newRouter() *gin.Engine {
	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/", a.redirectToProject)
	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.GET("/readyz", a.readinessCheck)
	router.HEAD("/readyz", a.readinessCheck)

	slackGroup := router.Group("/slack")
	slackGroup.POST("/commands", a.webhookHandler.HandleCommand)
	slackGroup.POST("/interactions", a.webhookHandler.HandleInteraction)

	router.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsPassword != "", a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	return router
}

func (a *Application) redirectToProject(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, projectURL)
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.ReadinessCheck)
	defer cancel()

	if err := a.store.Ping(ctx); err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: database unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"database": "connected",
	})
}

// Run starts the HTTP server and blocks until ctx is canceled or
// SIGINT/SIGTERM is received, then shuts down gracefully.
//
// Shutdown order:
//  1. Stop accepting new HTTP requests
//  2. Wait for in-flight submit and vote flows
//  3. Close the store, flush Sentry and the logger
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logSlackIdentity(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Received shutdown signal")
		return a.shutdown()
	})

	return g.Wait()
}

// logSlackIdentity checks the bot token once at startup. A failure is
// logged and does not stop the server.
func (a *Application) logSlackIdentity(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := a.slack.AuthTestContext(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Slack auth test failed; check SLACK_API_KEY")
		return
	}
	a.logger.WithField("team", resp.Team).
		WithField("bot_user_id", resp.UserID).
		WithField("channel", a.cfg.SlackChannel).
		Info("Slack connection verified")
}

// shutdown performs graceful shutdown of HTTP server and resources.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	shutdownCtx = ctxutil.WithRequestID(shutdownCtx, "shutdown")

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	a.logger.Info("Waiting for in-flight flows to complete...")
	if err := a.webhookHandler.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Webhook handler shutdown timeout")
	}

	a.logger.Info("Closing resources...")
	if err := a.store.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "database").Error("Component close error")
	}

	if sentry.IsEnabled() {
		sentry.Flush(2 * time.Second)
	}

	a.logger.Info("Shutdown complete")
	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Logger shutdown timed out")
	}
	return nil
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Next()
	}
}

// loggingMiddleware logs HTTP requests with status-based log levels:
// 5xx=Error, 4xx=Warn, everything else Debug.
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := c.GetHeader("X-Request-Id")
		if requestID != "" {
			ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()

		status := c.Writer.Status()
		entry := log.WithField("http_method", method).
			WithField("http_path", path).
			WithField("http_status", status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("client_ip", c.ClientIP())

		if id := c.Writer.Header().Get("X-Request-Id"); id != "" {
			entry = entry.WithRequestID(id)
		}

		switch {
		case status >= 500:
			entry.Error("HTTP request failed")
		case status >= 400:
			entry.Warn("HTTP request rejected")
		default:
			entry.Debug("HTTP request completed")
		}
	}
}
