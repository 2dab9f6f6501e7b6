// Package webhook exposes the Rasa custom-action endpoint. It decodes
// action requests, dispatches them to the registered actions and writes
// the event/response payload Rasa expects.
package webhook

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anoopvm/coconut-advisor-go/internal/bot"
	"github.com/anoopvm/coconut-advisor-go/internal/config"
	"github.com/anoopvm/coconut-advisor-go/internal/ctxutil"
	"github.com/anoopvm/coconut-advisor-go/internal/logger"
	"github.com/anoopvm/coconut-advisor-go/internal/metrics"
	"github.com/anoopvm/coconut-advisor-go/internal/rasa"
	"github.com/anoopvm/coconut-advisor-go/internal/ratelimit"
	"github.com/anoopvm/coconut-advisor-go/internal/sentry"
)

// rateLimitedMessage is returned instead of an answer when a sender
// exceeds their budget. Rasa still gets a well-formed 200 so the
// conversation continues.
const rateLimitedMessage = "You're sending messages too quickly. Please wait a moment and try again."

// Handler handles Rasa action webhook requests
type Handler struct {
	registry    *bot.Registry
	metrics     *metrics.Metrics
	logger      *logger.Logger
	rateLimiter *ratelimit.KeyedLimiter // per-sender limiter, may be nil
	timeout     time.Duration
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Registry    *bot.Registry
	Metrics     *metrics.Metrics
	Logger      *logger.Logger
	RateLimiter *ratelimit.KeyedLimiter
	Timeout     time.Duration // per-request budget, defaults to config.WebhookProcessing
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.WebhookProcessing
	}

	return &Handler{
		registry:    cfg.Registry,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		rateLimiter: cfg.RateLimiter,
		timeout:     timeout,
	}
}

// Handle is the Gin handler for the action webhook endpoint
func (h *Handler) Handle(c *gin.Context) {
	start := time.Now()

	var req rasa.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Malformed action request")
		h.metrics.WebhookRequestsTotal.WithLabelValues("unknown", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed action request"})
		return
	}

	ctx := ctxutil.WithRequestID(c.Request.Context(), uuid.NewString())
	if req.SenderID != "" {
		ctx = ctxutil.WithSenderID(ctx, req.SenderID)
	}

	if h.rateLimiter != nil && !h.rateLimiter.Allow(req.SenderID) {
		h.logger.WarnContext(ctx, "Sender rate limit exceeded", "action", req.NextAction)
		h.metrics.WebhookRequestsTotal.WithLabelValues(req.NextAction, "rate_limited").Inc()

		var dispatcher rasa.Dispatcher
		dispatcher.Utter(rateLimitedMessage)
		c.JSON(http.StatusOK, dispatcher.Response())
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp, err := h.registry.Dispatch(ctx, &req)
	duration := time.Since(start)
	h.metrics.WebhookDurationSeconds.WithLabelValues(req.NextAction).Observe(duration.Seconds())

	if err != nil {
		var unknown *bot.UnknownActionError
		if errors.As(err, &unknown) {
			h.logger.WarnContext(ctx, "Unknown action requested", "action", req.NextAction)
			h.metrics.WebhookRequestsTotal.WithLabelValues(req.NextAction, "unknown_action").Inc()
			// Rasa's own action server answers 404 for unregistered actions.
			c.JSON(http.StatusNotFound, gin.H{
				"error":       unknown.Error(),
				"action_name": req.NextAction,
			})
			return
		}

		sentry.CaptureExceptionWithContext(ctx, err)
		h.logger.ErrorContext(ctx, "Action failed",
			"action", req.NextAction,
			"error", err,
			"duration_ms", duration.Milliseconds(),
		)
		h.metrics.WebhookRequestsTotal.WithLabelValues(req.NextAction, "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "action execution failed"})
		return
	}

	h.metrics.WebhookRequestsTotal.WithLabelValues(req.NextAction, "success").Inc()
	h.logger.InfoContext(ctx, "Action handled",
		"action", req.NextAction,
		"events", len(resp.Events),
		"responses", len(resp.Responses),
		"duration_ms", duration.Milliseconds(),
	)
	c.JSON(http.StatusOK, resp)
}
