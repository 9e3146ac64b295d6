package models

import "time"

// UnitPrice holds the utility tariffs of one calendar month.
// Code is the month label "MM/YYYY" and is unique.
type UnitPrice struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Month       time.Time `json:"month"`
	Electricity int64     `json:"electricity"` // per kWh
	Water       int64     `json:"water"`       // per m3
	Parking     int64     `json:"parking"`     // per vehicle
	JunkMoney   int64     `json:"junk_money"`  // flat fee
}

// DummyUnitPrice is the create/update payload of a unit price.
type DummyUnitPrice struct {
	Month       string `json:"month" validate:"required,month"`
	Electricity *int64 `json:"electricity" validate:"required,gte=0"`
	Water       *int64 `json:"water" validate:"required,gte=0"`
	Parking     *int64 `json:"parking" validate:"required,gte=0"`
	JunkMoney   *int64 `json:"junk_money" validate:"required,gte=0"`
}

// Bill records the consumption of one room in one month. Charges are not
// stored, they are computed from the matching UnitPrice.
type Bill struct {
	ID                  string    `json:"id"`
	Code                string    `json:"code"`
	RoomID              string    `json:"room_id"`
	Month               string    `json:"month"` // "MM/YYYY", matches UnitPrice.Code
	AmountOfElectricity int64     `json:"amount_of_electricity"`
	AmountOfWater       int64     `json:"amount_of_water"`
	NumberOfVehicles    int64     `json:"number_of_vehicles"`
	IssuedAt            time.Time `json:"issued_at"`
}

// DummyBill is the create/update payload of a bill.
type DummyBill struct {
	Code                string `json:"code" validate:"required,max=50"`
	RoomID              string `json:"room_id" validate:"required,uuid"`
	Month               string `json:"month" validate:"required,month"`
	AmountOfElectricity *int64 `json:"amount_of_electricity" validate:"required,gte=0"`
	AmountOfWater       *int64 `json:"amount_of_water" validate:"required,gte=0"`
	NumberOfVehicles    *int64 `json:"number_of_vehicles" validate:"required,gte=0"`
}

// BillCharges are the computed line items of a bill.
type BillCharges struct {
	Electricity int64 `json:"electricity_charge"`
	Water       int64 `json:"water_charge"`
	Parking     int64 `json:"parking_charge"`
	Junk        int64 `json:"junk_charge"`
	Total       int64 `json:"total"`
}

// BillView is a bill enriched for display.
type BillView struct {
	Bill
	RoomName string      `json:"room_name"`
	Charges  BillCharges `json:"charges"`
	Locked   bool        `json:"locked"` // month is over, edit and delete are refused
}

// StatementLine is one row of a printable monthly statement.
type StatementLine struct {
	BillCode            string      `json:"bill_code"`
	RoomName            string      `json:"room_name"`
	AmountOfElectricity int64       `json:"amount_of_electricity"`
	AmountOfWater       int64       `json:"amount_of_water"`
	NumberOfVehicles    int64       `json:"number_of_vehicles"`
	Charges             BillCharges `json:"charges"`
}

// MonthlyStatement groups every bill of one month.
type MonthlyStatement struct {
	Month          string          `json:"month"`
	Lines          []StatementLine `json:"lines"`
	Total          int64           `json:"total"`
	TotalFormatted string          `json:"total_formatted"`
}
