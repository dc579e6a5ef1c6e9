package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/crucial707/expense-tracker/internal/auth"
	"github.com/crucial707/expense-tracker/internal/config"
	"github.com/crucial707/expense-tracker/internal/events"
	"github.com/crucial707/expense-tracker/internal/handlers"
	"github.com/crucial707/expense-tracker/internal/middleware"
	"github.com/crucial707/expense-tracker/internal/service"
)

// newRouter wires services over st and mounts every route.
func newRouter(cfg config.Config, st *stores, pub events.Publisher) (http.Handler, error) {
	tokens, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	identity := service.NewIdentity(st.users, auth.NewHasher(cost), tokens)
	ledger := service.NewLedger(st.expenses,
		service.WithAudit(st.audit),
		service.WithPublisher(pub),
		service.WithLogger(slog.Default()),
	)
	aggregator := service.NewAggregator(st.expenses)

	errs := handlers.Errors{ConcealForeign: cfg.ConcealForeignExpenses}
	authH := &handlers.AuthHandler{Identity: identity, Errors: errs}
	expenseH := &handlers.ExpenseHandler{Ledger: ledger, Aggregator: aggregator, Errors: errs}
	auditH := &handlers.AuditHandler{Repo: st.audit, Errors: errs}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := st.ready(ctx); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthRateLimiter(cfg.AuthRatePerMin).Middleware)
			r.Post("/auth/register", authH.Register)
			r.Post("/auth/login", authH.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(identity))

			r.Get("/auth/me", authH.Me)

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", expenseH.Create)
				r.Get("/", expenseH.List)
				r.Get("/total", expenseH.Total)
				r.Get("/by-category", expenseH.ByCategory)
				r.Get("/report/monthly", expenseH.MonthlyReport)
				r.Get("/{id}", expenseH.Get)
				r.Put("/{id}", expenseH.Update)
				r.Delete("/{id}", expenseH.Delete)
			})

			r.Get("/audit", auditH.ListAudit)
		})
	})

	return r, nil
}
