// Package services implements the billing use cases: monthly unit prices,
// per-room bills with computed charges and the printable monthly statement.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/room-management/internal/analytics"
	"github.com/magabrotheeeer/room-management/internal/lib/month"
	"github.com/magabrotheeeer/room-management/internal/models"
)

// Repository is the storage used by the billing services.
type Repository interface {
	CreateUnitPrice(ctx context.Context, p models.UnitPrice) error
	UpdateUnitPrice(ctx context.Context, p models.UnitPrice) error
	GetUnitPrice(ctx context.Context, id string) (*models.UnitPrice, error)
	ListUnitPrices(ctx context.Context) ([]models.UnitPrice, error)
	RemoveUnitPriceByCode(ctx context.Context, code string) error

	CreateBill(ctx context.Context, b models.Bill) error
	UpdateBill(ctx context.Context, b models.Bill) error
	GetBill(ctx context.Context, id string) (*models.Bill, error)
	GetBillByCode(ctx context.Context, code string) (*models.Bill, error)
	ListBills(ctx context.Context) ([]models.Bill, error)
	ListBillsByMonth(ctx context.Context, m time.Time) ([]models.Bill, error)
	RemoveBillByCode(ctx context.Context, code string) error

	GetRoom(ctx context.Context, id string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
}

// BillingService groups the billing use cases.
type BillingService struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewBillingService creates a BillingService.
func NewBillingService(repo Repository, log *slog.Logger) *BillingService {
	return &BillingService{repo: repo, log: log, now: time.Now}
}

// UnitPrices returns the unit price use cases.
func (s *BillingService) UnitPrices() UnitPriceService { return UnitPriceService{s} }

// Bills returns the bill use cases.
func (s *BillingService) Bills() BillService { return BillService{s} }

// ===== UNIT PRICE =====

// UnitPriceService manages the tariffs of each month. The month label is the
// code, so a month can be priced once.
type UnitPriceService struct{ s *BillingService }

func unitPriceFromRequest(id string, req models.DummyUnitPrice) (models.UnitPrice, error) {
	m, err := month.Parse(req.Month)
	if err != nil {
		return models.UnitPrice{}, err
	}
	return models.UnitPrice{
		ID:          id,
		Code:        month.Format(m),
		Month:       m,
		Electricity: *req.Electricity,
		Water:       *req.Water,
		Parking:     *req.Parking,
		JunkMoney:   *req.JunkMoney,
	}, nil
}

func (us UnitPriceService) Create(ctx context.Context, req models.DummyUnitPrice) (*models.UnitPrice, error) {
	const op = "services.billing.CreateUnitPrice"
	p, err := unitPriceFromRequest(uuid.NewString(), req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = us.s.repo.CreateUnitPrice(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	us.s.log.Info("unit price created", slog.String("month", p.Code))
	return &p, nil
}

func (us UnitPriceService) Update(ctx context.Context, id string, req models.DummyUnitPrice) (*models.UnitPrice, error) {
	const op = "services.billing.UpdateUnitPrice"
	p, err := unitPriceFromRequest(id, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = us.s.repo.UpdateUnitPrice(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (us UnitPriceService) Get(ctx context.Context, id string) (*models.UnitPrice, error) {
	const op = "services.billing.GetUnitPrice"
	p, err := us.s.repo.GetUnitPrice(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (us UnitPriceService) List(ctx context.Context) ([]models.UnitPrice, error) {
	const op = "services.billing.ListUnitPrices"
	list, err := us.s.repo.ListUnitPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (us UnitPriceService) Remove(ctx context.Context, code string) error {
	const op = "services.billing.RemoveUnitPrice"
	if err := us.s.repo.RemoveUnitPriceByCode(ctx, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ===== BILL =====

// BillService manages bills. Bills of a month that is already over cannot be
// edited or removed.
type BillService struct{ s *BillingService }

func (bs BillService) locked(billMonth string) bool {
	m, err := month.Parse(billMonth)
	if err != nil {
		return false
	}
	return m.Before(month.Start(bs.s.now()))
}

func billFromRequest(id string, req models.DummyBill) (models.Bill, error) {
	m, err := month.Parse(req.Month)
	if err != nil {
		return models.Bill{}, err
	}
	return models.Bill{
		ID:                  id,
		Code:                req.Code,
		RoomID:              req.RoomID,
		Month:               month.Format(m),
		AmountOfElectricity: *req.AmountOfElectricity,
		AmountOfWater:       *req.AmountOfWater,
		NumberOfVehicles:    *req.NumberOfVehicles,
	}, nil
}

func (bs BillService) Create(ctx context.Context, req models.DummyBill) (*models.BillView, error) {
	const op = "services.billing.CreateBill"
	b, err := billFromRequest(uuid.NewString(), req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	b.IssuedAt = bs.s.now().UTC()

	if err = bs.s.repo.CreateBill(ctx, b); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	bs.s.log.Info("bill created", slog.String("code", b.Code), slog.String("month", b.Month))

	view, err := bs.view(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return view, nil
}

func (bs BillService) Update(ctx context.Context, id string, req models.DummyBill) (*models.BillView, error) {
	const op = "services.billing.UpdateBill"
	current, err := bs.s.repo.GetBill(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if bs.locked(current.Month) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrBillLocked)
	}

	b, err := billFromRequest(id, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if bs.locked(b.Month) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrBillLocked)
	}
	b.IssuedAt = current.IssuedAt

	if err = bs.s.repo.UpdateBill(ctx, b); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	view, err := bs.view(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return view, nil
}

func (bs BillService) Get(ctx context.Context, id string) (*models.BillView, error) {
	const op = "services.billing.GetBill"
	b, err := bs.s.repo.GetBill(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	view, err := bs.view(ctx, *b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return view, nil
}

// List returns every bill enriched with its room name and charges.
func (bs BillService) List(ctx context.Context) ([]models.BillView, error) {
	const op = "services.billing.ListBills"

	var (
		bills  []models.Bill
		rooms  []models.Room
		prices []models.UnitPrice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { bills, err = bs.s.repo.ListBills(gctx); return })
	g.Go(func() (err error) { rooms, err = bs.s.repo.ListRooms(gctx); return })
	g.Go(func() (err error) { prices, err = bs.s.repo.ListUnitPrices(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	roomIdx := analytics.IndexRooms(rooms)
	priceIdx := analytics.IndexPrices(prices)
	views := make([]models.BillView, 0, len(bills))
	for _, b := range bills {
		views = append(views, bs.compose(b, roomIdx, priceIdx))
	}
	return views, nil
}

// Remove deletes a bill of the current or a future month.
func (bs BillService) Remove(ctx context.Context, code string) error {
	const op = "services.billing.RemoveBill"
	b, err := bs.s.repo.GetBillByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if bs.locked(b.Month) {
		return fmt.Errorf("%s: %w", op, models.ErrBillLocked)
	}
	if err = bs.s.repo.RemoveBillByCode(ctx, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Statement builds the printable statement of one month.
func (bs BillService) Statement(ctx context.Context, label string) (*models.MonthlyStatement, error) {
	const op = "services.billing.Statement"
	m, err := month.Parse(label)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var snap analytics.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { snap.Bills, err = bs.s.repo.ListBillsByMonth(gctx, m); return })
	g.Go(func() (err error) { snap.Rooms, err = bs.s.repo.ListRooms(gctx); return })
	g.Go(func() (err error) { snap.UnitPrices, err = bs.s.repo.ListUnitPrices(gctx); return })
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st := analytics.Statement(month.Format(m), snap)
	return &st, nil
}

// view enriches a single bill. A deleted room leaves the name empty.
func (bs BillService) view(ctx context.Context, b models.Bill) (*models.BillView, error) {
	rooms := analytics.RoomIndex{}
	room, err := bs.s.repo.GetRoom(ctx, b.RoomID)
	switch {
	case err == nil:
		rooms[room.ID] = *room
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}

	prices, err := bs.s.repo.ListUnitPrices(ctx)
	if err != nil {
		return nil, err
	}

	v := bs.compose(b, rooms, analytics.IndexPrices(prices))
	return &v, nil
}

func (bs BillService) compose(b models.Bill, rooms analytics.RoomIndex, prices analytics.PriceIndex) models.BillView {
	v := models.BillView{
		Bill:    b,
		Charges: analytics.Charges(b, prices.For(b.Month)),
		Locked:  bs.locked(b.Month),
	}
	if r, ok := rooms.Room(b.RoomID); ok {
		v.RoomName = r.Name
	}
	return v
}
