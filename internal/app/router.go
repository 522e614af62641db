package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lucero-pos/lucero-pos/internal/accounting/accounts"
	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
	"github.com/lucero-pos/lucero-pos/internal/audit"
	"github.com/lucero-pos/lucero-pos/internal/auth"
	"github.com/lucero-pos/lucero-pos/internal/cashbox"
	closepkg "github.com/lucero-pos/lucero-pos/internal/close"
	"github.com/lucero-pos/lucero-pos/internal/masterdata/products"
	"github.com/lucero-pos/lucero-pos/internal/masterdata/suppliers"
	"github.com/lucero-pos/lucero-pos/internal/procurement"
	"github.com/lucero-pos/lucero-pos/internal/sales/customers"
	"github.com/lucero-pos/lucero-pos/internal/sales/orders"
	"github.com/lucero-pos/lucero-pos/internal/sales/quotations"
	"github.com/lucero-pos/lucero-pos/jobs"
)

// Dependencies aggregates what the router needs to assemble the application.
type Dependencies struct {
	Logger      *slog.Logger
	Config      *Config
	Pool        *pgxpool.Pool
	Redis       *redis.Client
	JobsHandler *jobs.Handler
}

// NewRouter wires repositories, services, and handlers into the HTTP surface.
func NewRouter(d Dependencies) http.Handler {
	logger := d.Logger
	recorder := audit.NewRecorder(logger, d.Pool)
	registry := audit.NewRegistry()

	accountsRepo := accounts.NewRepository(d.Pool)
	accountsHandler := accounts.NewHandler(logger, accountsRepo)

	journalsRepo := journals.NewRepository(d.Pool)
	journalsService := journals.NewService(logger, journalsRepo)
	journalsHandler := journals.NewHandler(logger, journalsService)

	priceCache := products.NewPriceCache(d.Redis, d.Config.PriceCacheTTL)
	productsRepo := products.NewRepository(d.Pool)
	productsService := products.NewService(logger, productsRepo, recorder, priceCache)
	productsHandler := products.NewHandler(logger, productsService)

	customersRepo := customers.NewRepository(d.Pool)
	customersService := customers.NewService(customersRepo, recorder)
	customersHandler := customers.NewHandler(logger, customersService)

	suppliersRepo := suppliers.NewRepository(d.Pool)
	suppliersService := suppliers.NewService(suppliersRepo, recorder)
	suppliersHandler := suppliers.NewHandler(logger, suppliersService)

	cashboxRepo := cashbox.NewRepository(d.Pool)
	cashboxService := cashbox.NewService(logger, cashboxRepo, recorder)
	cashboxHandler := cashbox.NewHandler(logger, cashboxService)

	ordersRepo := orders.NewRepository(d.Pool)
	ordersService := orders.NewService(logger, ordersRepo, productsService, cashboxService, recorder)
	ordersHandler := orders.NewHandler(logger, ordersService)

	quotationsRepo := quotations.NewRepository(d.Pool)
	quotationsService := quotations.NewService(logger, quotationsRepo, productsService, recorder)
	quotationsHandler := quotations.NewHandler(logger, quotationsService)

	procurementRepo := procurement.NewRepository(d.Pool)
	procurementService := procurement.NewService(logger, procurementRepo, productsService, recorder)
	procurementHandler := procurement.NewHandler(logger, procurementService)

	closeRepo := closepkg.NewRepository(d.Pool)
	closeService := closepkg.NewService(logger, closeRepo, recorder)
	closeHandler := closepkg.NewHandler(logger, closeService)

	tokenStore := auth.NewTokenStore(d.Redis, d.Config.TokenTTL)
	authRepo := auth.NewRepository(d.Pool)
	authService := auth.NewService(logger, authRepo, tokenStore, recorder)
	authHandler := auth.NewHandler(logger, authService)

	registerLoaders(registry, registryDeps{
		products:  productsRepo,
		customers: customersRepo,
		suppliers: suppliersRepo,
		orders:    ordersRepo,
		quotes:    quotationsRepo,
		purchases: procurementRepo,
		sessions:  cashboxRepo,
		users:     authRepo,
	})
	auditHandler := audit.NewHandler(logger, recorder, registry)

	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(logger, d.Config) {
		r.Use(mw)
	}
	r.Use(auth.Middleware(authService))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := d.Pool.Ping(req.Context()); err != nil {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", authHandler.MountRoutes)

		api.Group(func(protected chi.Router) {
			protected.Use(auth.RequireAuth)
			protected.Route("/products", productsHandler.MountRoutes)
			protected.Route("/customers", customersHandler.MountRoutes)
			protected.Route("/suppliers", suppliersHandler.MountRoutes)
			protected.Route("/sales", ordersHandler.MountRoutes)
			protected.Route("/quotes", quotationsHandler.MountRoutes)
			protected.Route("/purchases", procurementHandler.MountRoutes)
			protected.Route("/cash-sessions", cashboxHandler.MountRoutes)
			protected.Route("/accounts", accountsHandler.MountRoutes)
			protected.Route("/journal", journalsHandler.MountRoutes)
			protected.Route("/close", closeHandler.MountRoutes)
			protected.Route("/audit", auditHandler.MountRoutes)
			if d.JobsHandler != nil {
				protected.Route("/jobs", d.JobsHandler.MountRoutes)
			}
		})
	})

	return r
}

type registryDeps struct {
	products  *products.Repository
	customers *customers.Repository
	suppliers *suppliers.Repository
	orders    *orders.Repository
	quotes    *quotations.Repository
	purchases *procurement.Repository
	sessions  *cashbox.Repository
	users     *auth.Repository
}

// registerLoaders installs one label loader per audited entity type. The
// registry is the only place references resolve; nothing reflects over
// models at runtime.
func registerLoaders(registry *audit.Registry, deps registryDeps) {
	registry.Register(audit.EntityProduct, func(ctx context.Context, id int64) (string, error) {
		p, err := deps.products.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return p.Label(), nil
	})
	registry.Register(audit.EntityCustomer, func(ctx context.Context, id int64) (string, error) {
		c, err := deps.customers.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return c.Label(), nil
	})
	registry.Register(audit.EntitySupplier, func(ctx context.Context, id int64) (string, error) {
		s, err := deps.suppliers.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return s.Label(), nil
	})
	registry.Register(audit.EntitySale, func(ctx context.Context, id int64) (string, error) {
		s, err := deps.orders.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return s.Label(), nil
	})
	registry.Register(audit.EntityQuote, func(ctx context.Context, id int64) (string, error) {
		q, err := deps.quotes.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return q.Label(), nil
	})
	registry.Register(audit.EntityPurchase, func(ctx context.Context, id int64) (string, error) {
		p, err := deps.purchases.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return p.Label(), nil
	})
	registry.Register(audit.EntityCashSession, func(ctx context.Context, id int64) (string, error) {
		s, err := deps.sessions.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return s.Label(), nil
	})
	registry.Register(audit.EntityUser, func(ctx context.Context, id int64) (string, error) {
		u, err := deps.users.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return u.Label(), nil
	})
}
