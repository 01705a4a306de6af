package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nixrix/site-api/internal/notify"
	"github.com/nixrix/site-api/internal/observability/metrics"
	"github.com/nixrix/site-api/pkg/logging"
)

// detailMaxLen bounds the provider error excerpt relayed to the caller.
const detailMaxLen = 300

// Handler turns lead submissions into outbound email notifications. It is
// stateless: each request is validated, rendered, relayed once, and
// discarded.
type Handler struct {
	sender    notify.EmailSender
	fromEmail string
	toEmail   string
	timeout   time.Duration
	metrics   *metrics.LeadMetrics
	logger    *logging.Logger
	now       func() time.Time
}

// HandlerConfig holds the intake handler's dependencies.
type HandlerConfig struct {
	Sender    notify.EmailSender
	FromEmail string
	ToEmail   string
	Timeout   time.Duration
	Metrics   *metrics.LeadMetrics
	Logger    *logging.Logger
}

// NewHandler creates a new lead intake handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Handler{
		sender:    cfg.Sender,
		fromEmail: cfg.FromEmail,
		toEmail:   cfg.ToEmail,
		timeout:   cfg.Timeout,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       time.Now,
	}
}

type response struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Submit handles /api/lead. OPTIONS gets a no-content success, anything
// but POST is refused, and configuration is checked before the body is
// touched.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, response{OK: false, Error: "method not allowed"})
		return
	}

	if h.sender == nil || h.fromEmail == "" || h.toEmail == "" {
		h.logger.Error("lead intake misconfigured", "has_sender", h.sender != nil)
		writeJSON(w, http.StatusInternalServerError, response{OK: false, Error: "server email env vars not set"})
		return
	}

	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, response{OK: false, Error: "invalid JSON"})
		return
	}

	sub.Normalize()
	if err := sub.Validate(); err != nil {
		h.metrics.ObserveSubmission(sub.Kind, "rejected")
		writeJSON(w, http.StatusBadRequest, response{OK: false, Error: err.Error()})
		return
	}

	text := TextBody(&sub, h.now())
	msg := notify.EmailMessage{
		From:    h.fromEmail,
		To:      h.toEmail,
		Subject: Subject(&sub),
		Text:    text,
		HTML:    HTMLBody(text),
		ReplyTo: sub.Email,
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	err := h.sender.Send(ctx, msg)
	h.metrics.ObserveProviderLatency(time.Since(start).Seconds())

	if err != nil {
		var pe *notify.ProviderError
		if errors.As(err, &pe) {
			h.logger.Error("email provider rejected lead", "kind", sub.Kind, "source", sub.Source, "error", err)
			h.metrics.ObserveSubmission(sub.Kind, "provider_failed")
			writeJSON(w, http.StatusBadGateway, response{
				OK:     false,
				Error:  "email provider failed",
				Detail: excerpt(pe.Body, detailMaxLen),
			})
			return
		}
		h.logger.Error("lead relay failed", "kind", sub.Kind, "source", sub.Source, "error", err)
		h.metrics.ObserveSubmission(sub.Kind, "error")
		writeJSON(w, http.StatusInternalServerError, response{
			OK:     false,
			Error:  "server error",
			Detail: err.Error(),
		})
		return
	}

	h.logger.Info("lead relayed", "kind", sub.Kind, "source", sub.Source, "page_url", sub.PageURL)
	h.metrics.ObserveSubmission(sub.Kind, "sent")
	writeJSON(w, http.StatusOK, response{OK: true})
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// excerpt caps s at max runes with no marker, for diagnostics fields.
func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
