package models

import "encoding/json"

// EnrichedAgreement is an agreement joined with its room and kind of room.
// MonthlyPrice is 0 when either reference is dangling.
type EnrichedAgreement struct {
	Agreement
	RoomName     string `json:"room_name"`
	KindName     string `json:"kind_name"`
	MonthlyPrice int64  `json:"monthly_price"`
}

// MarshalJSON keeps the join fields next to the agreement, which has its own
// encoding.
func (e EnrichedAgreement) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		agreementJSON
		RoomName     string `json:"room_name"`
		KindName     string `json:"kind_name"`
		MonthlyPrice int64  `json:"monthly_price"`
	}{e.Agreement.toJSON(), e.RoomName, e.KindName, e.MonthlyPrice})
}

// RevenuePoint is the revenue of one month bucket.
type RevenuePoint struct {
	Month string `json:"month"`
	Total int64  `json:"total"`
}

// RevenueReport is the revenue chart of a reporting window.
type RevenueReport struct {
	From   string         `json:"from"`
	To     string         `json:"to"`
	Points []RevenuePoint `json:"points"`
	Total  int64          `json:"total"`
}

// OccupancySplit partitions rooms by their occupied flag.
type OccupancySplit struct {
	Vacant   int `json:"vacant"`
	Occupied int `json:"occupied"`
	Total    int `json:"total"`
}
