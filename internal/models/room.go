// Package models contains the domain entities of the rental management
// service and the request structures that are decoded from JSON before
// validation.
package models

// Room is a rentable unit.
type Room struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	KindOfRoomID string `json:"kind_of_room_id"`
	// Occupied is kept in sync by agreement writes: true while at least one
	// agreement references the room.
	Occupied bool `json:"occupied"`
}

// DummyRoom is the create/update payload of a room.
type DummyRoom struct {
	Code         string `json:"code" validate:"required,max=50"`
	Name         string `json:"name" validate:"required,max=100"`
	KindOfRoomID string `json:"kind_of_room_id" validate:"required,uuid"`
}

// KindOfRoom is a room category carrying the monthly rent.
type KindOfRoom struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Price   int64  `json:"price"`   // monthly rent
	Deposit int64  `json:"deposit"` // one-off deposit
}

// DummyKindOfRoom is the create/update payload of a kind of room.
// Amounts are pointers so that an explicit zero passes "required".
type DummyKindOfRoom struct {
	Code    string `json:"code" validate:"required,max=50"`
	Name    string `json:"name" validate:"required,max=100"`
	Price   *int64 `json:"price" validate:"required,gte=0"`
	Deposit *int64 `json:"deposit" validate:"required,gte=0"`
}

// Equipment is an inventory item unrelated to other entities.
type Equipment struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// DummyEquipment is the create/update payload of an equipment item.
type DummyEquipment struct {
	Code   string `json:"code" validate:"required,max=50"`
	Name   string `json:"name" validate:"required,max=100"`
	Number *int   `json:"number" validate:"required,gte=0"`
}
