package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/magabrotheeeer/room-management/internal/models"
)

// ===== CUSTOMER =====

const customerColumns = `id, code, full_name, identity_card_number, date_of_birth, sex, address, phone_number, job`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (models.Customer, error) {
	var (
		c   models.Customer
		dob sql.NullTime
	)
	err := row.Scan(&c.ID, &c.Code, &c.FullName, &c.IdentityCardNumber, &dob, &c.Sex, &c.Address, &c.PhoneNumber, &c.Job)
	if err != nil {
		return c, err
	}
	if dob.Valid {
		t := dob.Time
		c.DateOfBirth = &t
	}
	return c, nil
}

func nullableDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// CreateCustomer inserts c after checking its code.
func (s *Storage) CreateCustomer(ctx context.Context, c models.Customer) error {
	const op = "storage.CreateCustomer"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUniqueCode(ctx, tx, "customers", c.Code, ""); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO customers (`+customerColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			c.ID, c.Code, c.FullName, c.IdentityCardNumber, nullableDate(c.DateOfBirth),
			c.Sex, c.Address, c.PhoneNumber, c.Job)
		return err
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// UpdateCustomer overwrites the customer with id c.ID.
func (s *Storage) UpdateCustomer(ctx context.Context, c models.Customer) error {
	const op = "storage.UpdateCustomer"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUniqueCode(ctx, tx, "customers", c.Code, c.ID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE customers
				SET code = $1, full_name = $2, identity_card_number = $3, date_of_birth = $4,
				    sex = $5, address = $6, phone_number = $7, job = $8
				WHERE id = $9`,
			c.Code, c.FullName, c.IdentityCardNumber, nullableDate(c.DateOfBirth),
			c.Sex, c.Address, c.PhoneNumber, c.Job, c.ID)
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

// GetCustomer returns the customer with the given id.
func (s *Storage) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	const op = "storage.GetCustomer"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	c, err := scanCustomer(s.DB.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return &c, nil
}

// ListCustomers returns every customer ordered by code.
func (s *Storage) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	const op = "storage.ListCustomers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY code`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// RemoveCustomerByCode deletes a customer. Agreements listing the customer
// keep the id as a dangling reference.
func (s *Storage) RemoveCustomerByCode(ctx context.Context, code string) error {
	const op = "storage.RemoveCustomerByCode"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if err := removeByCode(ctx, s.DB, "customers", code); err != nil {
		return wrap(op, err)
	}
	return nil
}

// ===== AGREEMENT =====

// CreateAgreement inserts a and marks its room occupied in one transaction.
//
// The room must exist and have no other agreement overlapping
// [a.StartMonth, a.EndMonth]; every customer must exist and must not be a
// party to another overlapping agreement.
func (s *Storage) CreateAgreement(ctx context.Context, a models.Agreement) error {
	const op = "storage.CreateAgreement"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUniqueCode(ctx, tx, "agreements", a.Code, ""); err != nil {
			return err
		}
		if err := checkAgreement(ctx, tx, a); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO agreements (id, code, room_id, start_month, end_month) VALUES ($1, $2, $3, $4, $5)`,
			a.ID, a.Code, a.RoomID, a.StartMonth, a.EndMonth)
		if err != nil {
			return err
		}
		if err := insertParties(ctx, tx, a.ID, a.CustomerIDs); err != nil {
			return err
		}
		return syncOccupied(ctx, tx, a.RoomID)
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// UpdateAgreement overwrites the agreement with id a.ID. When the room
// changes both the old and the new room flags are recomputed.
func (s *Storage) UpdateAgreement(ctx context.Context, a models.Agreement) error {
	const op = "storage.UpdateAgreement"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var previousRoom string
		err := tx.QueryRowContext(ctx, `SELECT room_id FROM agreements WHERE id = $1 FOR UPDATE`, a.ID).
			Scan(&previousRoom)
		if err != nil {
			return err
		}
		if err := ensureUniqueCode(ctx, tx, "agreements", a.Code, a.ID); err != nil {
			return err
		}
		if err := checkAgreement(ctx, tx, a); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE agreements SET code = $1, room_id = $2, start_month = $3, end_month = $4 WHERE id = $5`,
			a.Code, a.RoomID, a.StartMonth, a.EndMonth, a.ID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM agreement_customers WHERE agreement_id = $1`, a.ID); err != nil {
			return err
		}
		if err := insertParties(ctx, tx, a.ID, a.CustomerIDs); err != nil {
			return err
		}
		if previousRoom != a.RoomID {
			if err := syncOccupied(ctx, tx, previousRoom); err != nil {
				return err
			}
		}
		return syncOccupied(ctx, tx, a.RoomID)
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// RemoveAgreementByCode deletes an agreement and marks its room vacant
// unless another agreement still references it.
func (s *Storage) RemoveAgreementByCode(ctx context.Context, code string) error {
	const op = "storage.RemoveAgreementByCode"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var roomID string
		err := tx.QueryRowContext(ctx, `DELETE FROM agreements WHERE code = $1 RETURNING room_id`, code).Scan(&roomID)
		if err != nil {
			return err
		}
		return syncOccupied(ctx, tx, roomID)
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// GetAgreement returns the agreement with the given id and its customers.
func (s *Storage) GetAgreement(ctx context.Context, id string) (*models.Agreement, error) {
	const op = "storage.GetAgreement"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var a models.Agreement
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, code, room_id, start_month, end_month FROM agreements WHERE id = $1`, id).
		Scan(&a.ID, &a.Code, &a.RoomID, &a.StartMonth, &a.EndMonth)
	if err != nil {
		return nil, wrap(op, err)
	}

	parties, err := s.parties(ctx, `WHERE agreement_id = $1`, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	a.CustomerIDs = parties[a.ID]
	if a.CustomerIDs == nil {
		a.CustomerIDs = []string{}
	}
	return &a, nil
}

// ListAgreements returns every agreement ordered by start month then code.
func (s *Storage) ListAgreements(ctx context.Context) ([]models.Agreement, error) {
	const op = "storage.ListAgreements"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, code, room_id, start_month, end_month FROM agreements ORDER BY start_month, code`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := []models.Agreement{}
	for rows.Next() {
		var a models.Agreement
		if err := rows.Scan(&a.ID, &a.Code, &a.RoomID, &a.StartMonth, &a.EndMonth); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}

	parties, err := s.parties(ctx, "")
	if err != nil {
		return nil, wrap(op, err)
	}
	for i := range result {
		result[i].CustomerIDs = parties[result[i].ID]
		if result[i].CustomerIDs == nil {
			result[i].CustomerIDs = []string{}
		}
	}
	return result, nil
}

func (s *Storage) parties(ctx context.Context, where string, args ...any) (map[string][]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT agreement_id, customer_id FROM agreement_customers `+where+` ORDER BY agreement_id, customer_id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]string)
	for rows.Next() {
		var agreementID, customerID string
		if err := rows.Scan(&agreementID, &customerID); err != nil {
			return nil, err
		}
		result[agreementID] = append(result[agreementID], customerID)
	}
	return result, rows.Err()
}

func checkAgreement(ctx context.Context, tx *sql.Tx, a models.Agreement) error {
	if err := ensureExists(ctx, tx, "rooms", a.RoomID); err != nil {
		return err
	}

	var roomBusy bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS (
			SELECT 1 FROM agreements
			WHERE room_id = $1 AND id::text <> $2 AND start_month <= $4 AND end_month >= $3
		)`, a.RoomID, a.ID, a.StartMonth, a.EndMonth).Scan(&roomBusy)
	if err != nil {
		return err
	}
	if roomBusy {
		return models.ErrRoomInUse
	}

	for _, customerID := range a.CustomerIDs {
		if err := ensureExists(ctx, tx, "customers", customerID); err != nil {
			return err
		}
		var customerBusy bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS (
				SELECT 1 FROM agreement_customers ac
				JOIN agreements a ON a.id = ac.agreement_id
				WHERE ac.customer_id = $1 AND a.id::text <> $2 AND a.start_month <= $4 AND a.end_month >= $3
			)`, customerID, a.ID, a.StartMonth, a.EndMonth).Scan(&customerBusy)
		if err != nil {
			return err
		}
		if customerBusy {
			return models.ErrCustomerInUse
		}
	}
	return nil
}

func insertParties(ctx context.Context, tx *sql.Tx, agreementID string, customerIDs []string) error {
	for _, customerID := range customerIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO agreement_customers (agreement_id, customer_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			agreementID, customerID)
		if err != nil {
			return err
		}
	}
	return nil
}

// syncOccupied recomputes the denormalized occupied flag of one room.
func syncOccupied(ctx context.Context, tx *sql.Tx, roomID string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE rooms SET occupied = EXISTS (SELECT 1 FROM agreements WHERE room_id = $1) WHERE id = $1`, roomID)
	return err
}
