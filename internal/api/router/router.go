package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nixrix/site-api/internal/chatbot"
	httpmiddleware "github.com/nixrix/site-api/internal/http/middleware"
	"github.com/nixrix/site-api/internal/leads"
	"github.com/nixrix/site-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadHandler        *leads.Handler
	ChatHandler        *chatbot.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health check, metrics)
	r.Get("/health", handleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Browser-facing API, rate limited per IP. The lead handler does its
	// own method gating so OPTIONS and stray verbs get the right answers.
	r.Group(func(api chi.Router) {
		if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}

		if cfg.LeadHandler != nil {
			api.HandleFunc("/api/lead", cfg.LeadHandler.Submit)
		}

		if cfg.ChatHandler != nil {
			api.Route("/api/chat", func(chat chi.Router) {
				chat.Post("/reply", cfg.ChatHandler.HandleReply)
				chat.Get("/quick-replies", cfg.ChatHandler.HandleQuickReplies)
				chat.Get("/ws", cfg.ChatHandler.HandleWebSocket)
			})
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
