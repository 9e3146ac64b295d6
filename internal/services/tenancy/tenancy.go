// Package services implements the tenancy use cases: customers and the
// agreements that lease rooms to them.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/room-management/internal/cache"
	"github.com/magabrotheeeer/room-management/internal/lib/month"
	"github.com/magabrotheeeer/room-management/internal/lib/sl"
	"github.com/magabrotheeeer/room-management/internal/models"
)

const dateLayout = "2006-01-02"

// Repository is the storage used by the tenancy services.
type Repository interface {
	CreateCustomer(ctx context.Context, c models.Customer) error
	UpdateCustomer(ctx context.Context, c models.Customer) error
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	RemoveCustomerByCode(ctx context.Context, code string) error

	CreateAgreement(ctx context.Context, a models.Agreement) error
	UpdateAgreement(ctx context.Context, a models.Agreement) error
	GetAgreement(ctx context.Context, id string) (*models.Agreement, error)
	ListAgreements(ctx context.Context) ([]models.Agreement, error)
	RemoveAgreementByCode(ctx context.Context, code string) error
}

// Cache drops cached analytics after agreement writes.
type Cache interface {
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// TenancyService groups the tenancy use cases.
type TenancyService struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// NewTenancyService creates a TenancyService.
func NewTenancyService(repo Repository, cache Cache, log *slog.Logger) *TenancyService {
	return &TenancyService{repo: repo, cache: cache, log: log}
}

// Customers returns the customer use cases.
func (s *TenancyService) Customers() CustomerService { return CustomerService{s} }

// Agreements returns the agreement use cases.
func (s *TenancyService) Agreements() AgreementService { return AgreementService{s} }

// ===== CUSTOMER =====

// CustomerService manages tenants.
type CustomerService struct{ s *TenancyService }

func customerFromRequest(id string, req models.DummyCustomer) (models.Customer, error) {
	c := models.Customer{
		ID:                 id,
		Code:               req.Code,
		FullName:           req.FullName,
		IdentityCardNumber: req.IdentityCardNumber,
		Sex:                req.Sex,
		Address:            req.Address,
		PhoneNumber:        req.PhoneNumber,
		Job:                req.Job,
	}
	if dob := strings.TrimSpace(req.DateOfBirth); dob != "" {
		t, err := time.Parse(dateLayout, dob)
		if err != nil {
			return models.Customer{}, models.ErrInvalidDate
		}
		c.DateOfBirth = &t
	}
	return c, nil
}

func (cs CustomerService) Create(ctx context.Context, req models.DummyCustomer) (*models.Customer, error) {
	const op = "services.tenancy.CreateCustomer"
	c, err := customerFromRequest(uuid.NewString(), req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = cs.s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cs.s.log.Info("customer created", slog.String("id", c.ID), slog.String("code", c.Code))
	return &c, nil
}

func (cs CustomerService) Update(ctx context.Context, id string, req models.DummyCustomer) (*models.Customer, error) {
	const op = "services.tenancy.UpdateCustomer"
	c, err := customerFromRequest(id, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = cs.s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

func (cs CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	const op = "services.tenancy.GetCustomer"
	c, err := cs.s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (cs CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	const op = "services.tenancy.ListCustomers"
	list, err := cs.s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (cs CustomerService) Remove(ctx context.Context, code string) error {
	const op = "services.tenancy.RemoveCustomer"
	if err := cs.s.repo.RemoveCustomerByCode(ctx, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ===== AGREEMENT =====

// AgreementService manages leases. Every write changes revenue and
// occupancy, so cached analytics are dropped.
type AgreementService struct{ s *TenancyService }

func agreementFromRequest(id string, req models.DummyAgreement) (models.Agreement, error) {
	start, err := month.Parse(req.StartMonth)
	if err != nil {
		return models.Agreement{}, err
	}
	end, err := month.Parse(req.EndMonth)
	if err != nil {
		return models.Agreement{}, err
	}
	if start.After(end) {
		return models.Agreement{}, models.ErrInvalidInterval
	}

	return models.Agreement{
		ID:          id,
		Code:        req.Code,
		RoomID:      req.RoomID,
		CustomerIDs: dedupe(req.CustomerIDs),
		StartMonth:  start,
		EndMonth:    end,
	}, nil
}

// dedupe keeps the first occurrence of every id.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (as AgreementService) Create(ctx context.Context, req models.DummyAgreement) (*models.Agreement, error) {
	const op = "services.tenancy.CreateAgreement"
	a, err := agreementFromRequest(uuid.NewString(), req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = as.s.repo.CreateAgreement(ctx, a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	as.s.log.Info("agreement created",
		slog.String("id", a.ID),
		slog.String("room_id", a.RoomID),
		slog.String("from", month.Format(a.StartMonth)),
		slog.String("to", month.Format(a.EndMonth)),
	)
	as.invalidateAnalytics(ctx)
	return &a, nil
}

func (as AgreementService) Update(ctx context.Context, id string, req models.DummyAgreement) (*models.Agreement, error) {
	const op = "services.tenancy.UpdateAgreement"
	a, err := agreementFromRequest(id, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = as.s.repo.UpdateAgreement(ctx, a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	as.invalidateAnalytics(ctx)
	return &a, nil
}

func (as AgreementService) Get(ctx context.Context, id string) (*models.Agreement, error) {
	const op = "services.tenancy.GetAgreement"
	a, err := as.s.repo.GetAgreement(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func (as AgreementService) List(ctx context.Context) ([]models.Agreement, error) {
	const op = "services.tenancy.ListAgreements"
	list, err := as.s.repo.ListAgreements(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (as AgreementService) Remove(ctx context.Context, code string) error {
	const op = "services.tenancy.RemoveAgreement"
	if err := as.s.repo.RemoveAgreementByCode(ctx, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	as.invalidateAnalytics(ctx)
	return nil
}

func (as AgreementService) invalidateAnalytics(ctx context.Context) {
	if err := as.s.cache.InvalidatePrefix(ctx, cache.AnalyticsPrefix); err != nil {
		as.s.log.Warn("failed to invalidate analytics cache", sl.Err(err))
	}
}
