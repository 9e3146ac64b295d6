package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/magabrotheeeer/room-management/internal/lib/month"
)

// Customer is a tenant.
type Customer struct {
	ID                 string     `json:"id"`
	Code               string     `json:"code"`
	FullName           string     `json:"full_name"`
	IdentityCardNumber string     `json:"identity_card_number"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty"`
	Sex                string     `json:"sex,omitempty"`
	Address            string     `json:"address,omitempty"`
	PhoneNumber        string     `json:"phone_number,omitempty"`
	Job                string     `json:"job,omitempty"`
}

// DummyCustomer is the create/update payload of a customer.
// DateOfBirth is "YYYY-MM-DD" and optional.
type DummyCustomer struct {
	Code               string `json:"code" validate:"required,max=50"`
	FullName           string `json:"full_name" validate:"required,max=200"`
	IdentityCardNumber string `json:"identity_card_number" validate:"required,max=50"`
	DateOfBirth        string `json:"date_of_birth,omitempty"`
	Sex                string `json:"sex,omitempty" validate:"omitempty,oneof=male female other"`
	Address            string `json:"address,omitempty" validate:"max=300"`
	PhoneNumber        string `json:"phone_number,omitempty" validate:"omitempty,numeric,max=20"`
	Job                string `json:"job,omitempty" validate:"max=100"`
}

// Agreement is a lease of one room by one or more customers over an
// inclusive interval of months. In JSON the months are "MM/YYYY" labels, the
// same format DummyAgreement accepts.
type Agreement struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	RoomID      string    `json:"room_id"`
	CustomerIDs []string  `json:"customer_ids"`
	StartMonth  time.Time `json:"start_month"`
	EndMonth    time.Time `json:"end_month"`
}

type agreementJSON struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	RoomID      string   `json:"room_id"`
	CustomerIDs []string `json:"customer_ids"`
	StartMonth  string   `json:"start_month"`
	EndMonth    string   `json:"end_month"`
}

func (a Agreement) toJSON() agreementJSON {
	return agreementJSON{
		ID:          a.ID,
		Code:        a.Code,
		RoomID:      a.RoomID,
		CustomerIDs: a.CustomerIDs,
		StartMonth:  month.Format(a.StartMonth),
		EndMonth:    month.Format(a.EndMonth),
	}
}

func (a Agreement) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.toJSON())
}

func (a *Agreement) UnmarshalJSON(data []byte) error {
	var v agreementJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	start, err := month.Parse(v.StartMonth)
	if err != nil {
		return fmt.Errorf("start_month: %w", err)
	}
	end, err := month.Parse(v.EndMonth)
	if err != nil {
		return fmt.Errorf("end_month: %w", err)
	}

	*a = Agreement{
		ID:          v.ID,
		Code:        v.Code,
		RoomID:      v.RoomID,
		CustomerIDs: v.CustomerIDs,
		StartMonth:  start,
		EndMonth:    end,
	}
	return nil
}

// DummyAgreement is the create/update payload of an agreement.
type DummyAgreement struct {
	Code        string   `json:"code" validate:"required,max=50"`
	RoomID      string   `json:"room_id" validate:"required,uuid"`
	CustomerIDs []string `json:"customer_ids" validate:"required,min=1,dive,uuid"`
	StartMonth  string   `json:"start_month" validate:"required,month"`
	EndMonth    string   `json:"end_month" validate:"required,month"`
}
