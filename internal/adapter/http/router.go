package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/infrastructure/auth"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	AuthHandler      *handler.AuthHandler
	LedgerHandler    *handler.LedgerHandler
	TransferHandler  *handler.TransferHandler
	LoanHandler      *handler.LoanHandler
	HistoryHandler   *handler.HistoryHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	Metrics          *metrics.Metrics
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := middleware.AuthMiddleware(cfg.JWTManager)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Public: registration and login
		r.Post("/accounts", cfg.AccountHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		// Account-scoped routes, token must match {no}
		r.Route("/accounts/{no}", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireAccountOwner)

			r.Get("/", cfg.AccountHandler.Get)
			r.Get("/transactions", cfg.HistoryHandler.List)
			r.Get("/summary/categories", cfg.HistoryHandler.SpendingByCategory)
			r.Get("/summary/monthly", cfg.HistoryHandler.MonthlySummary)
			r.Get("/loans", cfg.LoanHandler.ListActive)
			r.Post("/deposits", cfg.LedgerHandler.Deposit)
			r.Post("/withdrawals", cfg.LedgerHandler.Withdraw)
		})

		// Transfers and loans
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/transfers", cfg.TransferHandler.Create)
			r.Post("/loans", cfg.LoanHandler.Apply)
			r.Post("/loans/{id}/payments", cfg.LoanHandler.Pay)
		})

		// Operational check over the whole ledger
		r.Get("/ledger/consistency", cfg.LedgerHandler.Consistency)
	})

	return r
}
