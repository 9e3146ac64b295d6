// Package roommanagement wires storage, cache and services into the HTTP API
// and the gRPC health endpoint of the rental management service.
package roommanagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/room-management/internal/cache"
	"github.com/magabrotheeeer/room-management/internal/config"
	grpcserver "github.com/magabrotheeeer/room-management/internal/grpc/server"
	"github.com/magabrotheeeer/room-management/internal/lib/jwt"
	"github.com/magabrotheeeer/room-management/internal/lib/sl"
	"github.com/magabrotheeeer/room-management/internal/migrations"
	analyticsservice "github.com/magabrotheeeer/room-management/internal/services/analytics"
	authservice "github.com/magabrotheeeer/room-management/internal/services/auth"
	billingservice "github.com/magabrotheeeer/room-management/internal/services/billing"
	inventoryservice "github.com/magabrotheeeer/room-management/internal/services/inventory"
	tenancyservice "github.com/magabrotheeeer/room-management/internal/services/tenancy"
	"github.com/magabrotheeeer/room-management/internal/storage"
)

const (
	shutdownTimeout = 15 * time.Second
	healthInterval  = 10 * time.Second
)

type App struct {
	server     *http.Server
	grpcServer *grpc.Server
	health     *grpcserver.HealthServer
	grpcAddr   string
	logger     *slog.Logger
	db         *storage.Storage
	cache      *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.roommanagement.New"

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tokens := jwt.NewJWTMaker(cfg.JWTToken.SecretKey, cfg.JWTToken.TokenTTL)
	services := Services{
		Inventory: inventoryservice.NewInventoryService(db, cacheRedis, logger),
		Tenancy:   tenancyservice.NewTenancyService(db, cacheRedis, logger),
		Billing:   billingservice.NewBillingService(db, logger),
		Analytics: analyticsservice.NewAnalyticsService(db, cacheRedis, cfg.Analytics.CacheTTL, logger),
		Auth:      authservice.NewAuthService(db, tokens, logger),
		Tokens:    tokens,
		DB:        db,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.HTTPServer, services)

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTPServer.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	healthServer := grpcserver.NewHealthServer(db, healthInterval, logger)
	grpcServer := grpc.NewServer()
	healthServer.Register(grpcServer)

	return &App{
		server:     srv,
		grpcServer: grpcServer,
		health:     healthServer,
		grpcAddr:   cfg.GRPCServer.Address,
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
	}, nil
}

// Run serves HTTP and gRPC until ctx is cancelled or one of them fails, then
// shuts both down.
func (a *App) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", a.grpcAddr)
	if err != nil {
		return fmt.Errorf("app.roommanagement.Run: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		a.logger.Info("gRPC health server starting", slog.String("address", lis.Addr().String()))
		return a.grpcServer.Serve(lis)
	})

	g.Go(func() error {
		a.health.Watch(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down servers gracefully")

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := a.server.Shutdown(timeoutCtx)
		a.grpcServer.GracefulStop()
		return err
	})

	err = g.Wait()
	a.close()
	return err
}

func (a *App) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
