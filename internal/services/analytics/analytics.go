// Package services serves the dashboard reports: the revenue chart and the
// occupancy split. Reports are computed from a fresh snapshot and cached in
// Redis until a write that affects them drops the analytics prefix.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/room-management/internal/analytics"
	"github.com/magabrotheeeer/room-management/internal/cache"
	"github.com/magabrotheeeer/room-management/internal/lib/month"
	"github.com/magabrotheeeer/room-management/internal/lib/sl"
	"github.com/magabrotheeeer/room-management/internal/metrics"
	"github.com/magabrotheeeer/room-management/internal/models"
)

// Repository loads the collections the reports are computed from.
type Repository interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListKindsOfRoom(ctx context.Context) ([]models.KindOfRoom, error)
	ListAgreements(ctx context.Context) ([]models.Agreement, error)
}

// Cache stores computed reports.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// presets map a date picker range to the number of months after the current one.
var presets = map[string]int{
	"1m":  0,
	"3m":  3,
	"6m":  6,
	"12m": 12,
}

// AnalyticsService computes and caches the dashboard reports.
type AnalyticsService struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
	now   func() time.Time
}

// NewAnalyticsService creates an AnalyticsService. Reports are kept in the
// cache for ttl.
func NewAnalyticsService(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
	}
}

// Window resolves the reporting window of a revenue request. A preset wins
// over explicit bounds; without either the current month is reported.
func (s *AnalyticsService) Window(preset, from, to string) (time.Time, time.Time, error) {
	const op = "services.analytics.Window"

	current := month.Start(s.now())
	preset = strings.ToLower(strings.TrimSpace(preset))
	if preset != "" {
		n, ok := presets[preset]
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("%s: %q: %w", op, preset, models.ErrInvalidPreset)
		}
		return current, month.Add(current, n), nil
	}

	if from == "" && to == "" {
		return current, current, nil
	}
	start, err := month.Parse(from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	end, err := month.Parse(to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return start, end, nil
}

// Revenue returns the revenue chart of [from, to]. An inverted window gives
// an empty chart.
func (s *AnalyticsService) Revenue(ctx context.Context, from, to time.Time) (*models.RevenueReport, error) {
	const op = "services.analytics.Revenue"

	key := fmt.Sprintf("%srevenue:%s:%s", cache.AnalyticsPrefix, month.Format(from), month.Format(to))
	var report models.RevenueReport
	if s.cached(ctx, "revenue", key, &report) {
		return &report, nil
	}

	var snap analytics.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { snap.Agreements, err = s.repo.ListAgreements(gctx); return })
	g.Go(func() (err error) { snap.Rooms, err = s.repo.ListRooms(gctx); return })
	g.Go(func() (err error) { snap.Kinds, err = s.repo.ListKindsOfRoom(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report = analytics.RevenueReport(snap, month.Start(from), month.Start(to))
	s.store(ctx, key, report)
	return &report, nil
}

// Occupancy returns how many rooms are vacant and occupied.
func (s *AnalyticsService) Occupancy(ctx context.Context) (*models.OccupancySplit, error) {
	const op = "services.analytics.Occupancy"

	key := cache.AnalyticsPrefix + "occupancy"
	var split models.OccupancySplit
	if s.cached(ctx, "occupancy", key, &split) {
		return &split, nil
	}

	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	split = analytics.Occupancy(rooms)
	s.store(ctx, key, split)
	return &split, nil
}

// cached looks the report up and counts the outcome. A failing cache is a miss.
func (s *AnalyticsService) cached(ctx context.Context, report, key string, result any) bool {
	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.Warn("failed to read report from cache", slog.String("key", key), sl.Err(err))
		found = false
	}
	metrics.AnalyticsRuns.WithLabelValues(report, metrics.CacheOutcome(found)).Inc()
	return found
}

func (s *AnalyticsService) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("failed to cache report", slog.String("key", key), sl.Err(err))
	}
}
