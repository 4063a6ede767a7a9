package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/partytreasury/internal/adapter/http/handler"
	"github.com/iho/partytreasury/internal/adapter/http/middleware"
	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

// Observer receives HTTP, auth and throttling metrics.
type Observer interface {
	middleware.RequestObserver
	middleware.AuthObserver
}

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler     *handler.AuthHandler
	VaultHandler    *handler.VaultHandler
	CurrencyHandler *handler.CurrencyHandler
	CoinHandler     *handler.CoinHandler
	ItemHandler     *handler.ItemHandler
	TransferHandler *handler.TransferHandler
	RewardHandler   *handler.RewardHandler
	InviteHandler   *handler.InviteHandler
	ActivityHandler *handler.ActivityHandler
	HealthHandler   *handler.HealthHandler

	TokenVerifier    middleware.TokenVerifier
	AccessResolver   usecase.AccessResolver
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter

	Observer Observer
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Observer != nil {
		r.Use(middleware.Metrics(cfg.Observer))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	var authObserver middleware.AuthObserver
	if cfg.Observer != nil {
		authObserver = cfg.Observer
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier, authObserver))

			// Idempotency middleware for mutating requests
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
			}

			r.Get("/me", cfg.AuthHandler.Me)
			r.Patch("/me", cfg.AuthHandler.UpdateMe)

			r.Get("/invites/inspect", cfg.InviteHandler.Inspect)
			r.Post("/invites/accept", cfg.InviteHandler.Accept)

			r.Route("/vaults", func(r chi.Router) {
				r.Post("/", cfg.VaultHandler.Create)
				r.Get("/", cfg.VaultHandler.List)

				r.Route("/{"+middleware.VaultIDParam+"}", func(r chi.Router) {
					r.Use(middleware.VaultAccess(cfg.AccessResolver))
					vaultRoutes(r, cfg)
				})
			})
		})
	})

	return r
}

func vaultRoutes(r chi.Router, cfg RouterConfig) {
	can := middleware.RequireCapability

	r.Get("/", cfg.VaultHandler.Get)
	r.With(can(domain.CapabilityManage)).Patch("/", cfg.VaultHandler.Update)

	// Members and permissions
	r.Get("/members", cfg.VaultHandler.ListMembers)
	r.With(can(domain.CapabilityManage)).Put("/members/{userID}", cfg.VaultHandler.UpdateMember)
	r.Delete("/members/{userID}", cfg.VaultHandler.RemoveMember)
	r.Get("/permissions", cfg.VaultHandler.ListPermissions)
	r.With(can(domain.CapabilityManage)).Post("/permissions", cfg.VaultHandler.CreatePermission)

	// Currencies
	r.Get("/currencies", cfg.CurrencyHandler.List)
	r.With(can(domain.CapabilityManage)).Post("/currencies", cfg.CurrencyHandler.Create)
	r.With(can(domain.CapabilityManage)).Patch("/currencies/{currencyID}", cfg.CurrencyHandler.Update)
	r.With(can(domain.CapabilityManage)).Post("/currencies/{currencyID}/rebase", cfg.CurrencyHandler.Rebase)

	// Coin
	r.Get("/coin/balances", cfg.CoinHandler.Balances)
	r.Get("/coin/holdings", cfg.CoinHandler.Holdings)
	r.Get("/coin/entries", cfg.CoinHandler.ListEntries)
	r.With(can(domain.CapabilityEditCoin)).Post("/coin/entries", cfg.CoinHandler.AddEntry)
	r.With(can(domain.CapabilitySplit)).Post("/coin/split", cfg.CoinHandler.Split)

	// Items
	r.Get("/items", cfg.ItemHandler.List)
	r.Get("/items/{itemID}", cfg.ItemHandler.Get)
	r.With(can(domain.CapabilityEditItems)).Post("/items", cfg.ItemHandler.Create)
	r.With(can(domain.CapabilityEditItems)).Patch("/items/{itemID}", cfg.ItemHandler.Update)
	r.With(can(domain.CapabilityEditItems)).Delete("/items/{itemID}", cfg.ItemHandler.Delete)

	// Transfers and rewards
	r.Get("/transfers", cfg.TransferHandler.List)
	r.Get("/transfers/{transferID}", cfg.TransferHandler.Get)
	r.With(can(domain.CapabilityTransfer)).Post("/transfers", cfg.TransferHandler.Create)
	r.With(can(domain.CapabilityEditCoin)).Post("/rewards", cfg.RewardHandler.Prepare)

	// Invites
	r.With(can(domain.CapabilityInvite)).Get("/invites", cfg.InviteHandler.List)
	r.With(can(domain.CapabilityInvite)).Post("/invites", cfg.InviteHandler.Create)
	r.With(can(domain.CapabilityInvite)).Delete("/invites/{inviteID}", cfg.InviteHandler.Revoke)

	// Activity
	r.Get("/activity", cfg.ActivityHandler.List)
	r.Get("/reconciliation", cfg.ActivityHandler.Reconcile)
}
