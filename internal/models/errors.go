package models

import (
	"errors"

	"github.com/magabrotheeeer/room-management/internal/lib/month"
)

// Domain errors shared by storage, services and the HTTP layer.
var (
	ErrNotFound           = errors.New("record not found")
	ErrCodeTaken          = errors.New("code already exists")
	ErrRoomInUse          = errors.New("room already has an agreement for this period")
	ErrCustomerInUse      = errors.New("customer already has an agreement for this period")
	ErrBillExists         = errors.New("room already has a bill for this month")
	ErrKindInUse          = errors.New("kind of room is still used by a room")
	ErrBillLocked         = errors.New("bills of past months are read-only")
	ErrInvalidMonth       = month.ErrInvalid
	ErrInvalidInterval    = errors.New("start month must not be after end month")
	ErrInvalidDate        = errors.New("date must be in format YYYY-MM-DD")
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidPreset      = errors.New("preset must be one of 1m, 3m, 6m, 12m")
)
