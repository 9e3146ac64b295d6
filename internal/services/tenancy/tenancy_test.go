package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/room-management/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateCustomer(ctx context.Context, c models.Customer) error {
	return m.Called(ctx, c).Error(0)
}
func (m *RepoMock) UpdateCustomer(ctx context.Context, c models.Customer) error {
	return m.Called(ctx, c).Error(0)
}
func (m *RepoMock) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}
func (m *RepoMock) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}
func (m *RepoMock) RemoveCustomerByCode(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}
func (m *RepoMock) CreateAgreement(ctx context.Context, a models.Agreement) error {
	return m.Called(ctx, a).Error(0)
}
func (m *RepoMock) UpdateAgreement(ctx context.Context, a models.Agreement) error {
	return m.Called(ctx, a).Error(0)
}
func (m *RepoMock) GetAgreement(ctx context.Context, id string) (*models.Agreement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Agreement), args.Error(1)
}
func (m *RepoMock) ListAgreements(ctx context.Context) ([]models.Agreement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Agreement), args.Error(1)
}
func (m *RepoMock) RemoveAgreementByCode(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) InvalidatePrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCustomerService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     models.DummyCustomer
		setup   func(r *RepoMock)
		wantDOB *time.Time
		wantErr error
	}{
		{
			name: "with date of birth",
			req:  models.DummyCustomer{Code: "C1", FullName: "Nguyen Van A", IdentityCardNumber: "0123", DateOfBirth: "1990-05-17"},
			setup: func(r *RepoMock) {
				r.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantDOB: func() *time.Time { t := time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC); return &t }(),
		},
		{
			name: "without date of birth",
			req:  models.DummyCustomer{Code: "C2", FullName: "Tran Thi B", IdentityCardNumber: "0456"},
			setup: func(r *RepoMock) {
				r.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name:    "bad date",
			req:     models.DummyCustomer{Code: "C3", FullName: "x", IdentityCardNumber: "1", DateOfBirth: "17/05/1990"},
			setup:   func(*RepoMock) {},
			wantErr: models.ErrInvalidDate,
		},
		{
			name: "code taken",
			req:  models.DummyCustomer{Code: "C1", FullName: "x", IdentityCardNumber: "1"},
			setup: func(r *RepoMock) {
				r.On("CreateCustomer", mock.Anything, mock.Anything).Return(models.ErrCodeTaken).Once()
			},
			wantErr: models.ErrCodeTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, cache := new(RepoMock), new(CacheMock)
			tt.setup(repo)

			got, err := NewTenancyService(repo, cache, newNoopLogger()).Customers().Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDOB, got.DateOfBirth)
			repo.AssertExpectations(t)
			cache.AssertNotCalled(t, "InvalidatePrefix", mock.Anything, mock.Anything)
		})
	}
}

func TestAgreementService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     models.DummyAgreement
		setup   func(r *RepoMock, c *CacheMock)
		wantErr error
	}{
		{
			name: "success",
			req:  models.DummyAgreement{Code: "A1", RoomID: "room-1", CustomerIDs: []string{"c1", "c2", "c1"}, StartMonth: "01/2024", EndMonth: "06/2024"},
			setup: func(r *RepoMock, c *CacheMock) {
				r.On("CreateAgreement", mock.Anything, mock.MatchedBy(func(a models.Agreement) bool {
					return a.RoomID == "room-1" &&
						assert.ObjectsAreEqual([]string{"c1", "c2"}, a.CustomerIDs) &&
						a.StartMonth.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)) &&
						a.EndMonth.Equal(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
				})).Return(nil).Once()
				c.On("InvalidatePrefix", mock.Anything, "analytics:").Return(nil).Once()
			},
		},
		{
			name:    "single month lease is valid",
			req:     models.DummyAgreement{Code: "A2", RoomID: "room-1", CustomerIDs: []string{"c1"}, StartMonth: "03/2024", EndMonth: "03/2024"},
			setup: func(r *RepoMock, c *CacheMock) {
				r.On("CreateAgreement", mock.Anything, mock.Anything).Return(nil).Once()
				c.On("InvalidatePrefix", mock.Anything, "analytics:").Return(nil).Once()
			},
		},
		{
			name:    "inverted interval",
			req:     models.DummyAgreement{Code: "A3", RoomID: "room-1", CustomerIDs: []string{"c1"}, StartMonth: "07/2024", EndMonth: "06/2024"},
			setup:   func(*RepoMock, *CacheMock) {},
			wantErr: models.ErrInvalidInterval,
		},
		{
			name:    "malformed month",
			req:     models.DummyAgreement{Code: "A4", RoomID: "room-1", CustomerIDs: []string{"c1"}, StartMonth: "2024-01", EndMonth: "06/2024"},
			setup:   func(*RepoMock, *CacheMock) {},
			wantErr: models.ErrInvalidMonth,
		},
		{
			name: "room occupied",
			req:  models.DummyAgreement{Code: "A5", RoomID: "room-1", CustomerIDs: []string{"c1"}, StartMonth: "01/2024", EndMonth: "02/2024"},
			setup: func(r *RepoMock, _ *CacheMock) {
				r.On("CreateAgreement", mock.Anything, mock.Anything).Return(models.ErrRoomInUse).Once()
			},
			wantErr: models.ErrRoomInUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, cache := new(RepoMock), new(CacheMock)
			tt.setup(repo, cache)

			got, err := NewTenancyService(repo, cache, newNoopLogger()).Agreements().Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				cache.AssertNotCalled(t, "InvalidatePrefix", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestAgreementService_UpdateAndRemove(t *testing.T) {
	repo, cache := new(RepoMock), new(CacheMock)
	svc := NewTenancyService(repo, cache, newNoopLogger()).Agreements()

	repo.On("UpdateAgreement", mock.Anything, mock.MatchedBy(func(a models.Agreement) bool { return a.ID == "agr-1" })).Return(nil).Once()
	repo.On("RemoveAgreementByCode", mock.Anything, "A1").Return(nil).Once()
	cache.On("InvalidatePrefix", mock.Anything, "analytics:").Return(nil).Twice()

	_, err := svc.Update(context.Background(), "agr-1", models.DummyAgreement{
		Code: "A1", RoomID: "room-2", CustomerIDs: []string{"c1"}, StartMonth: "01/2024", EndMonth: "12/2024",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(context.Background(), "A1"))

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
