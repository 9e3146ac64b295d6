package roommanagement

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/room-management/internal/config"
	"github.com/magabrotheeeer/room-management/internal/http/handlers/analytics/occupancy"
	"github.com/magabrotheeeer/room-management/internal/http/handlers/analytics/revenue"
	"github.com/magabrotheeeer/room-management/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/room-management/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/room-management/internal/http/handlers/bill/statement"
	"github.com/magabrotheeeer/room-management/internal/http/handlers/crud"
	"github.com/magabrotheeeer/room-management/internal/http/handlers/health"
	"github.com/magabrotheeeer/room-management/internal/http/middlewarectx"
	"github.com/magabrotheeeer/room-management/internal/lib/jwt"
	"github.com/magabrotheeeer/room-management/internal/models"
	analyticsservice "github.com/magabrotheeeer/room-management/internal/services/analytics"
	authservice "github.com/magabrotheeeer/room-management/internal/services/auth"
	billingservice "github.com/magabrotheeeer/room-management/internal/services/billing"
	inventoryservice "github.com/magabrotheeeer/room-management/internal/services/inventory"
	tenancyservice "github.com/magabrotheeeer/room-management/internal/services/tenancy"
)

// Services bundles everything the routes are served by.
type Services struct {
	Inventory *inventoryservice.InventoryService
	Tenancy   *tenancyservice.TenancyService
	Billing   *billingservice.BillingService
	Analytics *analyticsservice.AnalyticsService
	Auth      *authservice.AuthService
	Tokens    jwt.Maker
	DB        health.Pinger
}

// RegisterRoutes mounts the API under /api/v1 together with /metrics and /docs.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, s Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.Metrics,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.New(logger, s.DB).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateBurst))
			r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Tokens, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateBurst))

			r.Route("/kinds-of-room", crud.New[models.DummyKindOfRoom, models.KindOfRoom](logger, "kinds_of_room", s.Inventory.KindsOfRoom()).Routes)
			r.Route("/rooms", crud.New[models.DummyRoom, models.Room](logger, "rooms", s.Inventory.Rooms()).Routes)
			r.Route("/equipment", crud.New[models.DummyEquipment, models.Equipment](logger, "equipment", s.Inventory.Equipment()).Routes)
			r.Route("/customers", crud.New[models.DummyCustomer, models.Customer](logger, "customers", s.Tenancy.Customers()).Routes)
			r.Route("/agreements", crud.New[models.DummyAgreement, models.Agreement](logger, "agreements", s.Tenancy.Agreements()).Routes)
			r.Route("/unit-prices", crud.New[models.DummyUnitPrice, models.UnitPrice](logger, "unit_prices", s.Billing.UnitPrices()).Routes)

			bills := s.Billing.Bills()
			r.Route("/bills", func(r chi.Router) {
				r.Get("/statement", statement.New(logger, bills).ServeHTTP)
				crud.New[models.DummyBill, models.BillView](logger, "bills", bills).Routes(r)
			})

			r.Get("/analytics/revenue", revenue.New(logger, s.Analytics).ServeHTTP)
			r.Get("/analytics/occupancy", occupancy.New(logger, s.Analytics).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
