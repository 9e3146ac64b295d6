// Package storage is the PostgreSQL data layer of the rental management
// service. Every write runs its uniqueness and reference pre-checks inside
// the same transaction as the write itself.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// pgx driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/room-management/internal/models"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Storage wraps the PostgreSQL connection pool.
type Storage struct {
	DB *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New opens the pool and checks connectivity.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Ping reports whether the database answers.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.Ping"
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close releases the pool.
func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// translate maps driver errors onto domain errors.
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code != pgUniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "bills_room_month_key":
		return models.ErrBillExists
	case "accounts_username_key":
		return models.ErrUserExists
	}
	return models.ErrCodeTaken
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, translate(err))
}

func checkCtx(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}

// codeTaken reports whether another row of table already uses code.
// table is always a constant from this package.
func codeTaken(ctx context.Context, q querier, table, code, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE code = $1 AND id::text <> $2)`
	var taken bool
	err := q.QueryRowContext(ctx, query, code, excludeID).Scan(&taken)
	return taken, err
}

func exists(ctx context.Context, q querier, table, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE id::text = $1)`
	var found bool
	err := q.QueryRowContext(ctx, query, id).Scan(&found)
	return found, err
}

func ensureUniqueCode(ctx context.Context, q querier, table, code, excludeID string) error {
	taken, err := codeTaken(ctx, q, table, code, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.ErrCodeTaken
	}
	return nil
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func removeByCode(ctx context.Context, q querier, table, code string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE code = $1`, code)
	if err != nil {
		return err
	}
	return affected(res)
}
