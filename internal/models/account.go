package models

import "time"

// Account is a login of the management console.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// DummyAccount carries credentials for register and login.
type DummyAccount struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// LeaseExpiring is published by the scheduler for every agreement that ends
// inside the notice window.
type LeaseExpiring struct {
	AgreementCode string `json:"agreement_code"`
	RoomCode      string `json:"room_code"`
	RoomName      string `json:"room_name"`
	Tenants       string `json:"tenants"`
	EndMonth      string `json:"end_month"`
	DaysLeft      int    `json:"days_left"`
}
