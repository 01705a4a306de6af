package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nixrix/site-api/internal/api/router"
	"github.com/nixrix/site-api/internal/chatbot"
	appconfig "github.com/nixrix/site-api/internal/config"
	"github.com/nixrix/site-api/internal/leads"
	"github.com/nixrix/site-api/internal/notify"
	"github.com/nixrix/site-api/internal/observability/metrics"
	"github.com/nixrix/site-api/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewForEnv(cfg.LogLevel, cfg.Env)
	logger.Info("starting nixrix site API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	metricsHandler, leadMetrics := setupMetrics()

	sender := setupEmailSender(cfg, logger)
	if sender == nil {
		// The lead endpoint answers with its configuration error, so the
		// server still starts and health/metrics/chat stay available.
		logger.Error("email relay not configured; lead submissions will fail",
			"has_api_key", cfg.ResendAPIKey != "",
			"has_to", cfg.LeadToEmail != "",
			"has_from", cfg.LeadFromEmail != "",
		)
	}

	// Initialize handlers
	leadHandler := leads.NewHandler(leads.HandlerConfig{
		Sender:    sender,
		FromEmail: cfg.LeadFromEmail,
		ToEmail:   cfg.LeadToEmail,
		Timeout:   cfg.ProviderTimeout,
		Metrics:   leadMetrics,
		Logger:    logger,
	})
	chatHandler := chatbot.NewHandler(chatbot.NewResponder(), leadMetrics, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		LeadHandler:        leadHandler,
		ChatHandler:        chatHandler,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// setupMetrics builds the registry, the lead/chat metrics, and the
// /metrics handler backed by that registry.
func setupMetrics() (http.Handler, *metrics.LeadMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	leadMetrics := metrics.NewLeadMetrics(registry)
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return handler, leadMetrics
}

// setupEmailSender picks the outbound relay. Production wants Resend;
// development without credentials gets a logging stub so the form can be
// exercised locally.
func setupEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	if cfg.EmailConfigured() {
		return notify.NewResendSender(cfg.ResendAPIKey, logger)
	}
	if cfg.Env == "development" {
		logger.Warn("RESEND_API_KEY not set; using stub email sender")
		if cfg.LeadFromEmail == "" {
			cfg.LeadFromEmail = "dev@localhost"
		}
		if cfg.LeadToEmail == "" {
			cfg.LeadToEmail = "dev@localhost"
		}
		return notify.NewStubSender(logger)
	}
	return nil
}
