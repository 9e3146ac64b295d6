package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/room-management/internal/lib/month"
	"github.com/magabrotheeeer/room-management/internal/models"
)

// ===== UNIT PRICE =====

const unitPriceColumns = `id, code, month, electricity, water, parking, junk_money`

func scanUnitPrice(row rowScanner) (models.UnitPrice, error) {
	var p models.UnitPrice
	err := row.Scan(&p.ID, &p.Code, &p.Month, &p.Electricity, &p.Water, &p.Parking, &p.JunkMoney)
	p.Month = month.Start(p.Month)
	return p, err
}

// CreateUnitPrice inserts p. Its code is the month label and must be unique.
func (s *Storage) CreateUnitPrice(ctx context.Context, p models.UnitPrice) error {
	const op = "storage.CreateUnitPrice"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUniqueCode(ctx, tx, "unit_prices", p.Code, ""); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO unit_prices (`+unitPriceColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, p.Code, p.Month, p.Electricity, p.Water, p.Parking, p.JunkMoney)
		return err
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// UpdateUnitPrice overwrites the unit price with id p.ID.
func (s *Storage) UpdateUnitPrice(ctx context.Context, p models.UnitPrice) error {
	const op = "storage.UpdateUnitPrice"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUniqueCode(ctx, tx, "unit_prices", p.Code, p.ID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE unit_prices
				SET code = $1, month = $2, electricity = $3, water = $4, parking = $5, junk_money = $6
				WHERE id = $7`,
			p.Code, p.Month, p.Electricity, p.Water, p.Parking, p.JunkMoney, p.ID)
		if err != nil {
			return err
		}
		return affected(res)
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// GetUnitPrice returns the unit price with the given id.
func (s *Storage) GetUnitPrice(ctx context.Context, id string) (*models.UnitPrice, error) {
	const op = "storage.GetUnitPrice"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanUnitPrice(s.DB.QueryRowContext(ctx, `SELECT `+unitPriceColumns+` FROM unit_prices WHERE id = $1`, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return &p, nil
}

// ListUnitPrices returns every unit price, newest month first.
func (s *Storage) ListUnitPrices(ctx context.Context) ([]models.UnitPrice, error) {
	const op = "storage.ListUnitPrices"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+unitPriceColumns+` FROM unit_prices ORDER BY month DESC`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := []models.UnitPrice{}
	for rows.Next() {
		p, err := scanUnitPrice(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// RemoveUnitPriceByCode deletes the unit price of a month.
func (s *Storage) RemoveUnitPriceByCode(ctx context.Context, code string) error {
	const op = "storage.RemoveUnitPriceByCode"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if err := removeByCode(ctx, s.DB, "unit_prices", code); err != nil {
		return wrap(op, err)
	}
	return nil
}

// ===== BILL =====

const billColumns = `id, code, room_id, month, amount_of_electricity, amount_of_water, number_of_vehicles, issued_at`

func scanBill(row rowScanner) (models.Bill, error) {
	var (
		b       models.Bill
		billFor time.Time
	)
	err := row.Scan(&b.ID, &b.Code, &b.RoomID, &billFor,
		&b.AmountOfElectricity, &b.AmountOfWater, &b.NumberOfVehicles, &b.IssuedAt)
	b.Month = month.Format(billFor)
	return b, err
}

// CreateBill inserts b. The room must exist, the code must be unique and the
// room must not have another bill for the same month.
func (s *Storage) CreateBill(ctx context.Context, b models.Bill) error {
	const op = "storage.CreateBill"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	billFor, err := month.Parse(b.Month)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkBill(ctx, tx, b, billFor); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO bills (`+billColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			b.ID, b.Code, b.RoomID, billFor, b.AmountOfElectricity, b.AmountOfWater, b.NumberOfVehicles, b.IssuedAt)
		return err
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// UpdateBill overwrites the bill with id b.ID. IssuedAt is kept.
func (s *Storage) UpdateBill(ctx context.Context, b models.Bill) error {
	const op = "storage.UpdateBill"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	billFor, err := month.Parse(b.Month)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkBill(ctx, tx, b, billFor); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE bills
				SET code = $1, room_id = $2, month = $3, amount_of_electricity = $4,
				    amount_of_water = $5, number_of_vehicles = $6
				WHERE id = $7`,
			b.Code, b.RoomID, billFor, b.AmountOfElectricity, b.AmountOfWater, b.NumberOfVehicles, b.ID)
		if err != nil {
			return err
		}
		return affected(res)
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// GetBill returns the bill with the given id.
func (s *Storage) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	const op = "storage.GetBill"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	b, err := scanBill(s.DB.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return &b, nil
}

// GetBillByCode returns the bill with the given code.
func (s *Storage) GetBillByCode(ctx context.Context, code string) (*models.Bill, error) {
	const op = "storage.GetBillByCode"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	b, err := scanBill(s.DB.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE code = $1`, code))
	if err != nil {
		return nil, wrap(op, err)
	}
	return &b, nil
}

// ListBills returns every bill, newest month first.
func (s *Storage) ListBills(ctx context.Context) ([]models.Bill, error) {
	const op = "storage.ListBills"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	bills, err := s.listBills(ctx, `ORDER BY month DESC, code`)
	if err != nil {
		return nil, wrap(op, err)
	}
	return bills, nil
}

// ListBillsByMonth returns the bills of one month ordered by code.
func (s *Storage) ListBillsByMonth(ctx context.Context, m time.Time) ([]models.Bill, error) {
	const op = "storage.ListBillsByMonth"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	bills, err := s.listBills(ctx, `WHERE month = $1 ORDER BY code`, month.Start(m))
	if err != nil {
		return nil, wrap(op, err)
	}
	return bills, nil
}

func (s *Storage) listBills(ctx context.Context, tail string, args ...any) ([]models.Bill, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+billColumns+` FROM bills `+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// RemoveBillByCode deletes a bill.
func (s *Storage) RemoveBillByCode(ctx context.Context, code string) error {
	const op = "storage.RemoveBillByCode"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if err := removeByCode(ctx, s.DB, "bills", code); err != nil {
		return wrap(op, err)
	}
	return nil
}

func checkBill(ctx context.Context, tx *sql.Tx, b models.Bill, billFor time.Time) error {
	if err := ensureUniqueCode(ctx, tx, "bills", b.Code, b.ID); err != nil {
		return err
	}
	if err := ensureExists(ctx, tx, "rooms", b.RoomID); err != nil {
		return err
	}

	var taken bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS (
			SELECT 1 FROM bills WHERE room_id = $1 AND month = $2 AND id::text <> $3
		)`, b.RoomID, billFor, b.ID).Scan(&taken)
	if err != nil {
		return err
	}
	if taken {
		return models.ErrBillExists
	}
	return nil
}
