// Package services implements registration and login of console accounts.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/room-management/internal/lib/jwt"
	"github.com/magabrotheeeer/room-management/internal/lib/password"
	"github.com/magabrotheeeer/room-management/internal/models"
)

// RoleAdmin is granted to every registered account. The console has a single
// landlord role.
const RoleAdmin = "admin"

// AccountRepository stores console accounts.
type AccountRepository interface {
	CreateAccount(ctx context.Context, a models.Account) error
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
}

// AuthService registers accounts and issues tokens.
type AuthService struct {
	accounts AccountRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(accounts AccountRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		accounts: accounts,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register creates an account with a bcrypt password hash and returns its id.
func (s *AuthService) Register(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	account := models.Account{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		PasswordHash: hashed,
		Role:         RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err = s.accounts.CreateAccount(ctx, account); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("account registered", slog.String("username", account.Username))
	return account.ID, nil
}

// Login checks the credentials and returns a signed token with the account role.
// An unknown username and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	const op = "services.auth.Login"

	account, err := s.accounts.GetAccountByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, models.ErrNotFound) {
		return "", "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	if err = password.CompareHash(account.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return "", "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	token, err = s.jwtMaker.GenerateToken(account.Username, account.Role)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, account.Role, nil
}
