package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/room-management/internal/migrations"
	"github.com/magabrotheeeer/room-management/internal/models"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	path, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, path))

	return s
}

// fixtures inserts related rows with sensible defaults.
type fixtures struct {
	t *testing.T
	s *Storage
}

func newFixtures(t *testing.T, s *Storage) *fixtures {
	return &fixtures{t: t, s: s}
}

func (f *fixtures) kind(code string, price int64) models.KindOfRoom {
	k := models.KindOfRoom{ID: uuid.NewString(), Code: code, Name: "Kind " + code, Price: price, Deposit: price}
	require.NoError(f.t, f.s.CreateKindOfRoom(context.Background(), k))
	return k
}

func (f *fixtures) room(code, kindID string) models.Room {
	r := models.Room{ID: uuid.NewString(), Code: code, Name: "Room " + code, KindOfRoomID: kindID}
	require.NoError(f.t, f.s.CreateRoom(context.Background(), r))
	return r
}

func (f *fixtures) customer(code, name string) models.Customer {
	c := models.Customer{ID: uuid.NewString(), Code: code, FullName: name, IdentityCardNumber: "ID-" + code}
	require.NoError(f.t, f.s.CreateCustomer(context.Background(), c))
	return c
}

func (f *fixtures) roomOccupied(id string) bool {
	var occupied bool
	err := f.s.DB.QueryRow(`SELECT occupied FROM rooms WHERE id = $1`, id).Scan(&occupied)
	require.NoError(f.t, err)
	return occupied
}

func agreement(code, roomID string, start, end time.Time, customers ...string) models.Agreement {
	return models.Agreement{
		ID:          uuid.NewString(),
		Code:        code,
		RoomID:      roomID,
		CustomerIDs: customers,
		StartMonth:  start,
		EndMonth:    end,
	}
}

func ym(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

