package storage

import (
	"context"
	"database/sql"

	"github.com/magabrotheeeer/room-management/internal/models"
)

// ===== KIND OF ROOM =====

// CreateKindOfRoom inserts k after checking its code.
func (s *Storage) CreateKindOfRoom(ctx context.Context, k models.KindOfRoom) error {
	const op = "storage.CreateKindOfRoom"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUniqueCode(ctx, tx, "kinds_of_room", k.Code, ""); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO kinds_of_room (id, code, name, price, deposit) VALUES ($1, $2, $3, $4, $5)`,
			k.ID, k.Code, k.Name, k.Price, k.Deposit)
		return err
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// UpdateKindOfRoom overwrites the kind with id k.ID.
func (s *Storage) UpdateKindOfRoom(ctx context.Context, k models.KindOfRoom) error {
	const op = "storage.UpdateKindOfRoom"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUniqueCode(ctx, tx, "kinds_of_room", k.Code, k.ID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE kinds_of_room SET code = $1, name = $2, price = $3, deposit = $4 WHERE id = $5`,
			k.Code, k.Name, k.Price, k.Deposit, k.ID)
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

// GetKindOfRoom returns the kind with the given id.
func (s *Storage) GetKindOfRoom(ctx context.Context, id string) (*models.KindOfRoom, error) {
	const op = "storage.GetKindOfRoom"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var k models.KindOfRoom
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, code, name, price, deposit FROM kinds_of_room WHERE id = $1`, id).
		Scan(&k.ID, &k.Code, &k.Name, &k.Price, &k.Deposit)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &k, nil
}

// ListKindsOfRoom returns every kind ordered by code.
func (s *Storage) ListKindsOfRoom(ctx context.Context) ([]models.KindOfRoom, error) {
	const op = "storage.ListKindsOfRoom"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, code, name, price, deposit FROM kinds_of_room ORDER BY code`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := []models.KindOfRoom{}
	for rows.Next() {
		var k models.KindOfRoom
		if err := rows.Scan(&k.ID, &k.Code, &k.Name, &k.Price, &k.Deposit); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, k)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// RemoveKindOfRoomByCode deletes a kind unless a room still references it.
func (s *Storage) RemoveKindOfRoomByCode(ctx context.Context, code string) error {
	const op = "storage.RemoveKindOfRoomByCode"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var inUse bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS (
				SELECT 1 FROM rooms r JOIN kinds_of_room k ON k.id = r.kind_of_room_id WHERE k.code = $1
			)`, code).Scan(&inUse)
		if err != nil {
			return err
		}
		if inUse {
			return models.ErrKindInUse
		}
		err = removeByCode(ctx, tx, "kinds_of_room", code)
		if isForeignKeyViolation(err) {
			return models.ErrKindInUse
		}
		return err
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// ===== ROOM =====

// CreateRoom inserts a vacant room. Its kind must exist.
func (s *Storage) CreateRoom(ctx context.Context, r models.Room) error {
	const op = "storage.CreateRoom"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUniqueCode(ctx, tx, "rooms", r.Code, ""); err != nil {
			return err
		}
		if err := ensureExists(ctx, tx, "kinds_of_room", r.KindOfRoomID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (id, code, name, kind_of_room_id, occupied) VALUES ($1, $2, $3, $4, false)`,
			r.ID, r.Code, r.Name, r.KindOfRoomID)
		return err
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// UpdateRoom overwrites code, name and kind. The occupied flag is owned by
// agreement writes and is left untouched.
func (s *Storage) UpdateRoom(ctx context.Context, r models.Room) error {
	const op = "storage.UpdateRoom"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUniqueCode(ctx, tx, "rooms", r.Code, r.ID); err != nil {
			return err
		}
		if err := ensureExists(ctx, tx, "kinds_of_room", r.KindOfRoomID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE rooms SET code = $1, name = $2, kind_of_room_id = $3 WHERE id = $4`,
			r.Code, r.Name, r.KindOfRoomID, r.ID)
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

// GetRoom returns the room with the given id.
func (s *Storage) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	const op = "storage.GetRoom"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var r models.Room
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, code, name, kind_of_room_id, occupied FROM rooms WHERE id = $1`, id).
		Scan(&r.ID, &r.Code, &r.Name, &r.KindOfRoomID, &r.Occupied)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &r, nil
}

// ListRooms returns every room ordered by code.
func (s *Storage) ListRooms(ctx context.Context) ([]models.Room, error) {
	const op = "storage.ListRooms"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, code, name, kind_of_room_id, occupied FROM rooms ORDER BY code`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := []models.Room{}
	for rows.Next() {
		var r models.Room
		if err := rows.Scan(&r.ID, &r.Code, &r.Name, &r.KindOfRoomID, &r.Occupied); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// RemoveRoomByCode deletes a room. Its agreements and bills are kept and
// become dangling references for the read path.
func (s *Storage) RemoveRoomByCode(ctx context.Context, code string) error {
	const op = "storage.RemoveRoomByCode"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if err := removeByCode(ctx, s.DB, "rooms", code); err != nil {
		return wrap(op, err)
	}
	return nil
}

// ===== EQUIPMENT =====

// CreateEquipment inserts e after checking its code.
func (s *Storage) CreateEquipment(ctx context.Context, e models.Equipment) error {
	const op = "storage.CreateEquipment"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUniqueCode(ctx, tx, "equipment", e.Code, ""); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO equipment (id, code, name, number) VALUES ($1, $2, $3, $4)`,
			e.ID, e.Code, e.Name, e.Number)
		return err
	})
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// UpdateEquipment overwrites the item with id e.ID.
func (s *Storage) UpdateEquipment(ctx context.Context, e models.Equipment) error {
	const op = "storage.UpdateEquipment"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUniqueCode(ctx, tx, "equipment", e.Code, e.ID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE equipment SET code = $1, name = $2, number = $3 WHERE id = $4`,
			e.Code, e.Name, e.Number, e.ID)
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

// GetEquipment returns the item with the given id.
func (s *Storage) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	const op = "storage.GetEquipment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var e models.Equipment
	err := s.DB.QueryRowContext(ctx, `SELECT id, code, name, number FROM equipment WHERE id = $1`, id).
		Scan(&e.ID, &e.Code, &e.Name, &e.Number)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &e, nil
}

// ListEquipment returns every item ordered by code.
func (s *Storage) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	const op = "storage.ListEquipment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, code, name, number FROM equipment ORDER BY code`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := []models.Equipment{}
	for rows.Next() {
		var e models.Equipment
		if err := rows.Scan(&e.ID, &e.Code, &e.Name, &e.Number); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// RemoveEquipmentByCode deletes an item.
func (s *Storage) RemoveEquipmentByCode(ctx context.Context, code string) error {
	const op = "storage.RemoveEquipmentByCode"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if err := removeByCode(ctx, s.DB, "equipment", code); err != nil {
		return wrap(op, err)
	}
	return nil
}

func ensureExists(ctx context.Context, q querier, table, id string) error {
	found, err := exists(ctx, q, table, id)
	if err != nil {
		return err
	}
	if !found {
		return models.ErrNotFound
	}
	return nil
}
