package storage

import (
	"context"

	"github.com/magabrotheeeer/room-management/internal/models"
)

// CreateAccount inserts a login. A taken username yields models.ErrUserExists.
func (s *Storage) CreateAccount(ctx context.Context, a models.Account) error {
	const op = "storage.CreateAccount"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO accounts (id, username, password_hash, role) VALUES ($1, $2, $3, $4)`,
		a.ID, a.Username, a.PasswordHash, a.Role)
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// GetAccountByUsername returns the login with the given username.
func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	const op = "storage.GetAccountByUsername"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var a models.Account
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at FROM accounts WHERE username = $1`, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &a, nil
}
