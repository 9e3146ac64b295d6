package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/room-management/internal/cache"
	"github.com/magabrotheeeer/room-management/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListRooms(ctx context.Context) ([]models.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *RepoMock) ListKindsOfRoom(ctx context.Context) ([]models.KindOfRoom, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.KindOfRoom), args.Error(1)
}

func (m *RepoMock) ListAgreements(ctx context.Context) ([]models.Agreement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Agreement), args.Error(1)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("redis is down")
}

func (brokenCache) Set(context.Context, string, any, time.Duration) error {
	return errors.New("redis is down")
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func m(y int, mo time.Month) time.Time {
	return time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC)
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func newService(repo Repository, c Cache) *AnalyticsService {
	s := NewAnalyticsService(repo, c, 10*time.Minute, newNoopLogger())
	s.now = func() time.Time { return time.Date(2023, time.February, 10, 9, 30, 0, 0, time.UTC) }
	return s
}

func seed(r *RepoMock) {
	r.On("ListKindsOfRoom", mock.Anything).Return([]models.KindOfRoom{
		{ID: "k-std", Code: "STD", Name: "Standard", Price: 2000000},
		{ID: "k-vip", Code: "VIP", Name: "Vip", Price: 3500000},
	}, nil)
	r.On("ListRooms", mock.Anything).Return([]models.Room{
		{ID: "r-101", Code: "101", Name: "Room 101", KindOfRoomID: "k-std", Occupied: true},
		{ID: "r-102", Code: "102", Name: "Room 102", KindOfRoomID: "k-vip", Occupied: true},
		{ID: "r-103", Code: "103", Name: "Room 103", KindOfRoomID: "k-std"},
	}, nil)
	r.On("ListAgreements", mock.Anything).Return([]models.Agreement{
		{ID: "a-1", Code: "HD01", RoomID: "r-101", StartMonth: m(2023, time.January), EndMonth: m(2023, time.March)},
		{ID: "a-2", Code: "HD02", RoomID: "r-102", StartMonth: m(2023, time.February), EndMonth: m(2023, time.December)},
		{ID: "a-3", Code: "HD03", RoomID: "r-deleted", StartMonth: m(2023, time.January), EndMonth: m(2023, time.December)},
	}, nil)
}

func TestWindow(t *testing.T) {
	s := newService(new(RepoMock), brokenCache{})

	tests := []struct {
		name      string
		preset    string
		from, to  string
		wantFrom  time.Time
		wantTo    time.Time
		wantError error
	}{
		{name: "one month preset", preset: "1m", wantFrom: m(2023, time.February), wantTo: m(2023, time.February)},
		{name: "three months preset", preset: "3m", wantFrom: m(2023, time.February), wantTo: m(2023, time.May)},
		{name: "twelve months preset", preset: " 12M ", wantFrom: m(2023, time.February), wantTo: m(2024, time.February)},
		{name: "preset wins over bounds", preset: "6m", from: "01/2020", to: "01/2021", wantFrom: m(2023, time.February), wantTo: m(2023, time.August)},
		{name: "explicit bounds", from: "11/2022", to: "01/2023", wantFrom: m(2022, time.November), wantTo: m(2023, time.January)},
		{name: "no parameters", wantFrom: m(2023, time.February), wantTo: m(2023, time.February)},
		{name: "unknown preset", preset: "2w", wantError: models.ErrInvalidPreset},
		{name: "bad from", from: "2023-01", to: "02/2023", wantError: models.ErrInvalidMonth},
		{name: "missing to", from: "01/2023", wantError: models.ErrInvalidMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := s.Window(tt.preset, tt.from, tt.to)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

func TestRevenue(t *testing.T) {
	repo := new(RepoMock)
	seed(repo)
	c, mr := newTestCache(t)
	s := newService(repo, c)

	got, err := s.Revenue(context.Background(), m(2023, time.February), m(2023, time.April))
	require.NoError(t, err)
	assert.Equal(t, &models.RevenueReport{
		From: "02/2023",
		To:   "04/2023",
		Points: []models.RevenuePoint{
			{Month: "02/2023", Total: 5500000},
			{Month: "03/2023", Total: 5500000},
			{Month: "04/2023", Total: 3500000},
		},
		Total: 14500000,
	}, got)
	assert.True(t, mr.Exists("analytics:revenue:02/2023:04/2023"))

	again, err := s.Revenue(context.Background(), m(2023, time.February), m(2023, time.April))
	require.NoError(t, err)
	assert.Equal(t, got, again)
	repo.AssertNumberOfCalls(t, "ListAgreements", 1)
}

func TestRevenue_InvertedWindowIsEmpty(t *testing.T) {
	repo := new(RepoMock)
	seed(repo)
	c, _ := newTestCache(t)

	got, err := newService(repo, c).Revenue(context.Background(), m(2023, time.May), m(2023, time.April))
	require.NoError(t, err)
	assert.Empty(t, got.Points)
	assert.Zero(t, got.Total)
}

func TestRevenue_CacheDownStillComputes(t *testing.T) {
	repo := new(RepoMock)
	seed(repo)

	got, err := newService(repo, brokenCache{}).Revenue(context.Background(), m(2023, time.January), m(2023, time.January))
	require.NoError(t, err)
	assert.Equal(t, int64(2000000), got.Total)
}

func TestRevenue_StorageError(t *testing.T) {
	repo := new(RepoMock)
	boom := errors.New("db error")
	repo.On("ListAgreements", mock.Anything).Return(nil, boom)
	repo.On("ListRooms", mock.Anything).Return([]models.Room{}, nil).Maybe()
	repo.On("ListKindsOfRoom", mock.Anything).Return([]models.KindOfRoom{}, nil).Maybe()
	c, mr := newTestCache(t)

	_, err := newService(repo, c).Revenue(context.Background(), m(2023, time.January), m(2023, time.March))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mr.Keys())
}

func TestOccupancy(t *testing.T) {
	repo := new(RepoMock)
	seed(repo)
	c, mr := newTestCache(t)
	s := newService(repo, c)

	got, err := s.Occupancy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.OccupancySplit{Vacant: 1, Occupied: 2, Total: 3}, got)
	assert.True(t, mr.Exists("analytics:occupancy"))

	// a write elsewhere drops the prefix, the next call recomputes
	require.NoError(t, c.InvalidatePrefix(context.Background(), cache.AnalyticsPrefix))
	_, err = s.Occupancy(context.Background())
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "ListRooms", 2)
}
