// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anoopvm/coconut-advisor-go/internal/answer"
	"github.com/anoopvm/coconut-advisor-go/internal/bot"
	"github.com/anoopvm/coconut-advisor-go/internal/buildinfo"
	"github.com/anoopvm/coconut-advisor-go/internal/cache"
	"github.com/anoopvm/coconut-advisor-go/internal/config"
	"github.com/anoopvm/coconut-advisor-go/internal/ctxutil"
	"github.com/anoopvm/coconut-advisor-go/internal/intent"
	"github.com/anoopvm/coconut-advisor-go/internal/llm"
	"github.com/anoopvm/coconut-advisor-go/internal/logger"
	"github.com/anoopvm/coconut-advisor-go/internal/metrics"
	"github.com/anoopvm/coconut-advisor-go/internal/modules/advisory"
	diagmod "github.com/anoopvm/coconut-advisor-go/internal/modules/diagnosis"
	weathermod "github.com/anoopvm/coconut-advisor-go/internal/modules/weather"
	"github.com/anoopvm/coconut-advisor-go/internal/pipeline"
	"github.com/anoopvm/coconut-advisor-go/internal/ratelimit"
	"github.com/anoopvm/coconut-advisor-go/internal/sentry"
	"github.com/anoopvm/coconut-advisor-go/internal/weather"
	"github.com/anoopvm/coconut-advisor-go/internal/webhook"
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	store          *cache.Store
	completer      llm.Completer
	weatherClient  *weather.Client
	senderLimiter  *ratelimit.KeyedLimiter
	llmLimiter     *ratelimit.KeyedLimiter
	webhookHandler *webhook.Handler
	actions        *bot.Registry
	server         *http.Server
	sweepCtx       context.Context
	sweepCancel    context.CancelFunc
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", "coconut-advisor")
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Set as default logger to enable context value extraction (senderID,
	// requestID) via ContextHandler in package-level slog.*Context() calls.
	slog.SetDefault(log.Logger)

	log.Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error tracking enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	// Pipeline stages and clients record through the global instance.
	metrics.InitGlobal(m)

	store := cache.New(cfg.CacheTTL)
	log.WithField("ttl", cfg.CacheTTL).WithField("sweep_interval", cfg.CacheSweepInterval).
		Info("Response cache ready")

	var completer llm.Completer
	if cfg.HasLLMProvider() {
		llmCfg := buildLLMConfig(cfg)
		fc, err := llm.New(ctx, llmCfg)
		if err != nil {
			return nil, fmt.Errorf("llm: %w", err)
		}
		completer = fc

		providers := llmCfg.ConfiguredProviders()
		providerNames := make([]string, len(providers))
		for i, p := range providers {
			providerNames[i] = string(p)
		}
		log.WithField("providers", providerNames).Info("LLM completion enabled")
	} else {
		log.Warn("No LLM provider configured; answers fall back to knowledge-base text")
	}

	denylist := cfg.AnswerDenylist
	if len(denylist) > 0 {
		denylist = append(append([]string{}, answer.DefaultDenylist...), denylist...)
	}
	validator, err := answer.NewValidator(denylist)
	if err != nil {
		return nil, fmt.Errorf("answer validator: %w", err)
	}

	// Per-sender budget on remote completion calls. A denied bucket sends
	// the pipeline down its degraded paths instead of calling the provider.
	var llmLimiter *ratelimit.KeyedLimiter
	if completer != nil {
		llmLimiter = ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
			Burst:         cfg.LLMRateBurst,
			RefillRate:    cfg.LLMRateRefillPerSec,
			CleanupPeriod: config.RateLimiterCleanupInterval,
			OnDrop: func() {
				m.RateLimiterDroppedTotal.WithLabelValues("llm").Inc()
			},
		})
	}

	classifier := intent.NewClassifier(store, completer, llmLimiter)
	generator := answer.NewGenerator(store, completer, validator, llmLimiter)
	pipe := pipeline.New(classifier, generator)

	var weatherClient *weather.Client
	if cfg.HasWeather() {
		weatherClient, err = weather.NewClient(weather.Config{
			APIKey:  cfg.OpenWeatherAPIKey,
			BaseURL: cfg.OpenWeatherBaseURL,
			Timeout: cfg.WeatherTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("weather client: %w", err)
		}
		log.Info("Weather advisory enabled")
	} else {
		log.Warn("No OpenWeatherMap key configured; weather actions degrade gracefully")
	}

	senderLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Burst:         cfg.SenderRateBurst,
		RefillRate:    cfg.SenderRateRefillPerSec,
		CleanupPeriod: config.RateLimiterCleanupInterval,
		OnDrop: func() {
			m.RateLimiterDroppedTotal.WithLabelValues("sender").Inc()
		},
	})

	actions := bot.NewRegistry()
	actions.Register(advisory.NewHandler(pipe).Actions()...)
	actions.Register(diagmod.NewHandler().Actions()...)
	actions.Register(weathermod.NewHandler(weatherClient).Actions()...)
	log.WithField("actions", actions.Names()).Info("Actions registered")

	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		Registry:    actions,
		Metrics:     m,
		Logger:      log,
		RateLimiter: senderLimiter,
		Timeout:     config.WebhookProcessing,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	app := &Application{
		cfg:            cfg,
		logger:         log,
		metrics:        m,
		registry:       registry,
		store:          store,
		completer:      completer,
		weatherClient:  weatherClient,
		senderLimiter:  senderLimiter,
		llmLimiter:     llmLimiter,
		webhookHandler: webhookHandler,
		actions:        actions,
	}
	app.sweepCtx, app.sweepCancel = context.WithCancel(context.Background())

	router.GET("/", app.rootInfo)
	router.GET("/actions", app.actionsList)
	router.GET("/livez", app.livenessCheck)
	router.HEAD("/livez", app.livenessCheck)
	router.GET("/readyz", app.readinessCheck)
	router.HEAD("/readyz", app.readinessCheck)
	router.POST("/webhook", webhookHandler.Handle)
	router.GET("/metrics",
		metricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: config.WebhookHTTPRead,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// buildLLMConfig creates an llm.Config from the application config.
func buildLLMConfig(cfg *config.Config) llm.Config {
	llmCfg := llm.DefaultConfig()

	llmCfg.Gemini.APIKey = cfg.GeminiAPIKey
	llmCfg.Groq.APIKey = cfg.GroqAPIKey
	llmCfg.Cerebras.APIKey = cfg.CerebrasAPIKey
	llmCfg.Timeout = cfg.LLMTimeout

	if len(cfg.GeminiModels) > 0 {
		llmCfg.Gemini.Models = cfg.GeminiModels
	}
	if len(cfg.GroqModels) > 0 {
		llmCfg.Groq.Models = cfg.GroqModels
	}
	if len(cfg.CerebrasModels) > 0 {
		llmCfg.Cerebras.Models = cfg.CerebrasModels
	}

	return llmCfg
}

func (a *Application) rootInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "coconut-advisor",
		"version": buildinfo.Version,
		"actions": a.actions.Names(),
	})
}

// actionsList reports the registered custom actions, mirroring the action
// server convention of exposing the action inventory for diagnostics.
func (a *Application) actionsList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"actions": a.actions.Names(),
	})
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ready",
		"cache_entries": a.store.Len(),
		"features": map[string]bool{
			"llm":     a.completer != nil,
			"weather": a.weatherClient != nil,
		},
	})
}

// Run starts the HTTP server and the cache sweep, then blocks until a
// shutdown signal arrives.
func (a *Application) Run() error {
	a.startBackgroundJobs()
	a.startHTTPServer()

	sig := a.waitForShutdownSignal()
	a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")

	return a.shutdown()
}

// startBackgroundJobs starts the periodic cache sweep and keeps the cache
// gauges current.
func (a *Application) startBackgroundJobs() {
	a.store.StartSweep(a.sweepCtx, a.cfg.CacheSweepInterval, func(evicted int) {
		a.metrics.CacheSweepEvicted.Add(float64(evicted))
		a.metrics.CacheEntries.Set(float64(a.store.Len()))
	})
}

// startHTTPServer starts the HTTP server in a goroutine.
func (a *Application) startHTTPServer() {
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.WithError(err).Error("HTTP server error")
		}
	}()
}

// waitForShutdownSignal blocks until SIGINT/SIGTERM is received.
func (a *Application) waitForShutdownSignal() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}

// shutdown performs graceful shutdown:
// 1. Stop accepting new HTTP requests and drain in-flight ones
// 2. Stop the cache sweep and rate limiter cleanup
// 3. Close the LLM clients and flush observability sinks
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	a.logger.Info("Closing resources...")

	a.sweepCancel()
	a.store.Stop()
	a.senderLimiter.Stop()
	if a.llmLimiter != nil {
		a.llmLimiter.Stop()
	}

	if a.completer != nil {
		if err := a.completer.Close(); err != nil {
			a.logger.WithError(err).WithField("component", "completer").Error("Component close error")
		}
	}

	if sentry.IsEnabled() && !sentry.Flush(2*time.Second) {
		a.logger.Warn("Sentry flush timed out")
	}

	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Logger shutdown timed out")
	}

	a.logger.Info("Shutdown complete")
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
// 5xx=Error, 4xx=Warn, 404=Debug, 3xx/2xx=Debug.
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = c.GetHeader("X-Correlation-Id")
		}
		if requestID != "" {
			ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		entry := log.WithField("http_method", method).
			WithField("http_path", path).
			WithField("http_status", status).
			WithField("duration_ms", duration.Milliseconds()).
			WithField("client_ip", c.ClientIP())

		if requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}

		switch {
		case status >= 500:
			entry.Error("HTTP request failed")
		case status >= 400 && status != 404:
			entry.Warn("HTTP request rejected")
		default:
			entry.Debug("HTTP request completed")
		}
	}
}
