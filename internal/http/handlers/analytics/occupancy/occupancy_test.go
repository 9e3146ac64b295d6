package occupancy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/room-management/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Occupancy(ctx context.Context) (*models.OccupancySplit, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*models.OccupancySplit), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestOccupancyHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("split", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Occupancy", mock.Anything).Return(&models.OccupancySplit{Vacant: 1, Occupied: 2, Total: 3}, nil).Once()

		w := httptest.NewRecorder()
		New(log, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/occupancy", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"OK","data":{"vacant":1,"occupied":2,"total":3}}`, w.Body.String())
	})

	t.Run("no rooms", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Occupancy", mock.Anything).Return(&models.OccupancySplit{}, nil).Once()

		w := httptest.NewRecorder()
		New(log, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/occupancy", nil))

		assert.JSONEq(t, `{"status":"OK","data":{"vacant":0,"occupied":0,"total":0}}`, w.Body.String())
	})

	t.Run("failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Occupancy", mock.Anything).Return(nil, errors.New("db error")).Once()

		w := httptest.NewRecorder()
		New(log, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/occupancy", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
