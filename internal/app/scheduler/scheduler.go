// Package scheduler runs the lease expiry job on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/room-management/internal/config"
	"github.com/magabrotheeeer/room-management/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/room-management/internal/lib/sl"
	schedulerservice "github.com/magabrotheeeer/room-management/internal/services/scheduler"
	"github.com/magabrotheeeer/room-management/internal/storage"
)

const dbRetries = 10

// App is the lease scheduler process.
type App struct {
	schedulerService *schedulerservice.SchedulerService
	cron             *cron.Cron
	spec             string
	db               *storage.Storage
	conn             *amqp.Connection
	ch               *amqp.Channel
	logger           *slog.Logger
}

func waitForDB(ctx context.Context, db *storage.Storage) error {
	for i := 0; i < dbRetries; i++ {
		if err := db.Ping(ctx); err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New connects to RabbitMQ and PostgreSQL.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.LeaseQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		_ = db.Close()
		closeResources(ch, conn, logger)
		return nil, err
	}

	svc := schedulerservice.NewSchedulerService(db, rabbitmq.NewPublisher(ch), cfg.Scheduler.NoticeDays, logger)

	return &App{
		schedulerService: svc,
		cron:             cron.New(cron.WithLocation(time.UTC)),
		spec:             cfg.Scheduler.Spec,
		db:               db,
		conn:             conn,
		ch:               ch,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

func (a *App) runOnce(ctx context.Context) {
	count, err := a.schedulerService.NotifyExpiringLeases(ctx)
	if err != nil {
		a.logger.Error("lease scan failed", sl.Err(err))
		return
	}
	a.logger.Info("lease scan finished", slog.Int("queued", count))
}

// Run scans once at start and then on every cron tick until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if _, err := a.cron.AddFunc(a.spec, func() { a.runOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid scheduler spec %q: %w", a.spec, err)
	}

	a.runOnce(ctx)
	a.cron.Start()
	a.logger.Info("lease scheduler started", slog.String("spec", a.spec))

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	<-a.cron.Stop().Done()

	closeResources(a.ch, a.conn, a.logger)
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
