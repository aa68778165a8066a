// Package server provides the HTTP REST API for the job tracker.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/daniel/jobtrackr/internal/analytics"
	"github.com/daniel/jobtrackr/internal/billing"
	"github.com/daniel/jobtrackr/internal/config"
	"github.com/daniel/jobtrackr/internal/db"
	"github.com/daniel/jobtrackr/internal/llm"
	"github.com/daniel/jobtrackr/internal/mailer"
	"github.com/daniel/jobtrackr/internal/reminder"
	"github.com/daniel/jobtrackr/internal/server/middleware"
	"github.com/daniel/jobtrackr/internal/server/ratelimit"
)

// Server represents the HTTP server and its services.
type Server struct {
	httpServer  *http.Server
	db          Database
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	reminders   *reminder.Service
	analytics   *analytics.Service
	validator   *validator.Validate

	// Optional services, nil when not configured
	llmClient llm.Client
	enhancer  *llm.Enhancer
	billing   *billing.Service
}

// New creates a server from the application configuration and connects its
// dependencies.
func New(cfg *config.AppConfig) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:        database,
		validator: validator.New(),
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	var m mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTP.Enabled() {
		m = mailer.NewSMTPMailer(cfg.SMTP)
	}
	reminderCfg := reminder.DefaultConfig()
	reminderCfg.PollInterval = cfg.ReminderPollInterval
	reminderCfg.SweepInterval = cfg.DailySweepInterval
	s.reminders = reminder.NewService(database, m, reminderCfg, nil)

	s.analytics = analytics.NewService(database, nil)

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(context.Background(), nil, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		enhancer, err := llm.NewEnhancer(client)
		if err != nil {
			return nil, fmt.Errorf("failed to create enhancer: %w", err)
		}
		s.llmClient = client
		s.enhancer = enhancer
	}

	billingCfg := billing.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		PriceID:       cfg.StripePriceID,
	}
	if billingCfg.Enabled() {
		s.billing = billing.NewService(database, billingCfg)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the API router.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.Auth(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /v1/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", s.authHandler.Login)
	mux.Handle("PUT /v1/auth/password", protected(s.handleUpdatePassword))

	// Account
	mux.Handle("GET /v1/users/me", protected(s.handleGetMe))
	mux.Handle("PUT /v1/users/me", protected(s.handleUpdateMe))
	mux.Handle("DELETE /v1/users/me", protected(s.handleDeleteMe))

	// Applications
	mux.Handle("POST /v1/applications", protected(s.handleCreateApplication))
	mux.Handle("GET /v1/applications", protected(s.handleListApplications))
	mux.Handle("GET /v1/applications/{id}", protected(s.handleGetApplication))
	mux.Handle("PUT /v1/applications/{id}", protected(s.handleUpdateApplication))
	mux.Handle("PATCH /v1/applications/{id}/status", protected(s.handleUpdateApplicationStatus))
	mux.Handle("DELETE /v1/applications/{id}", protected(s.handleDeleteApplication))
	mux.Handle("GET /v1/applications/{id}/interviews", protected(s.handleListApplicationInterviews))

	// Interviews
	mux.Handle("POST /v1/interviews", protected(s.handleCreateInterview))
	mux.Handle("GET /v1/interviews", protected(s.handleListInterviews))
	mux.Handle("GET /v1/interviews/{id}", protected(s.handleGetInterview))
	mux.Handle("PUT /v1/interviews/{id}", protected(s.handleUpdateInterview))
	mux.Handle("DELETE /v1/interviews/{id}", protected(s.handleDeleteInterview))

	// Reminders
	mux.Handle("GET /v1/reminders/status", protected(s.handleReminderStatus))
	mux.Handle("POST /v1/interviews/{id}/reminders/test", protected(s.handleTestReminder))

	// Analytics
	mux.Handle("GET /v1/analytics/summary", protected(s.handleAnalyticsSummary))

	// Resumes
	mux.Handle("POST /v1/resumes", protected(s.handleCreateResume))
	mux.Handle("GET /v1/resumes", protected(s.handleListResumes))
	mux.Handle("GET /v1/resumes/{id}", protected(s.handleGetResume))
	mux.Handle("PUT /v1/resumes/{id}", protected(s.handleUpdateResume))
	mux.Handle("DELETE /v1/resumes/{id}", protected(s.handleDeleteResume))
	mux.Handle("POST /v1/resumes/{id}/enhance", protected(s.handleEnhanceResume))

	// Billing. The webhook authenticates by signature, not by bearer token.
	mux.Handle("POST /v1/billing/checkout", protected(s.handleBillingCheckout))
	mux.Handle("GET /v1/billing/subscription", protected(s.handleGetSubscription))
	mux.HandleFunc("POST /v1/billing/webhook", s.handleBillingWebhook)

	return mux
}

// Start launches the reminder scheduler and the HTTP listener, then blocks
// until SIGINT/SIGTERM and shuts down gracefully.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.reminders.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminder scheduler: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.reminders.Stop()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdatePassword changes the authenticated user's password.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePassword(w, r, userID)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier (IP address) from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
