// Package services finds agreements that are about to end and queues a
// notification for each of them.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/room-management/internal/lib/month"
	"github.com/magabrotheeeer/room-management/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/room-management/internal/lib/sl"
	"github.com/magabrotheeeer/room-management/internal/metrics"
	"github.com/magabrotheeeer/room-management/internal/models"
)

type AgreementRepository interface {
	FindAgreementsEndingBetween(ctx context.Context, from, to time.Time) ([]models.LeaseExpiring, error)
}

// Publisher sends a message to the notifications exchange.
type Publisher interface {
	Publish(routingKey string, message any) error
}

type SchedulerService struct {
	repo       AgreementRepository
	publisher  Publisher
	noticeDays int
	log        *slog.Logger
	now        func() time.Time
}

// NewSchedulerService creates a SchedulerService that warns noticeDays
// before the last day of an agreement.
func NewSchedulerService(repo AgreementRepository, publisher Publisher, noticeDays int, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:       repo,
		publisher:  publisher,
		noticeDays: noticeDays,
		log:        log,
		now:        time.Now,
	}
}

// NotifyExpiringLeases publishes a LeaseExpiring message for every agreement
// whose last day is exactly noticeDays away and returns how many were queued.
// Run once a day, it notifies each agreement a single time. A failed publish is logged and does not stop the run.
func (s *SchedulerService) NotifyExpiringLeases(ctx context.Context) (int, error) {
	const op = "services.scheduler.NotifyExpiringLeases"

	today := s.now().UTC().Truncate(24 * time.Hour)
	horizon := today.AddDate(0, 0, s.noticeDays)

	s.log.Info("looking for expiring agreements",
		slog.String("from", month.Format(today)), slog.String("to", month.Format(horizon)))
	leases, err := s.repo.FindAgreementsEndingBetween(ctx, month.Start(today), month.Start(horizon))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	published := 0
	for _, lease := range leases {
		end, err := month.Parse(lease.EndMonth)
		if err != nil {
			s.log.Warn("skipping agreement with bad end month",
				slog.String("agreement", lease.AgreementCode), sl.Err(err))
			continue
		}
		lease.DaysLeft = int(month.End(end).Sub(today).Hours() / 24)
		if lease.DaysLeft != s.noticeDays {
			continue
		}

		if err = s.publisher.Publish(rabbitmq.LeaseExpiringRoutingKey, lease); err != nil {
			metrics.LeaseNotifications.WithLabelValues("publish", "error").Inc()
			s.log.Error("failed to publish message", slog.String("agreement", lease.AgreementCode), sl.Err(err))
			continue
		}
		metrics.LeaseNotifications.WithLabelValues("publish", "ok").Inc()
		published++
	}

	if published == 0 {
		s.log.Info("no expiring agreements found")
	} else {
		s.log.Info("queued lease notifications", slog.Int("count", published))
	}
	return published, nil
}
