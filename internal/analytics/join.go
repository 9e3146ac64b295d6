// Package analytics is the pure reporting core: it joins agreements with
// rooms and kinds of room, buckets a reporting window into months, sums
// revenue per month, splits rooms by occupancy and prices bills.
//
// Nothing here performs I/O or keeps state between calls. Callers pass
// snapshots loaded from storage and get values back.
package analytics

import "github.com/magabrotheeeer/room-management/internal/models"

// RoomIndex maps room id to room.
type RoomIndex map[string]models.Room

// KindIndex maps kind-of-room id to kind of room.
type KindIndex map[string]models.KindOfRoom

// IndexRooms builds a RoomIndex. Later duplicates win.
func IndexRooms(rooms []models.Room) RoomIndex {
	idx := make(RoomIndex, len(rooms))
	for _, r := range rooms {
		idx[r.ID] = r
	}
	return idx
}

// IndexKinds builds a KindIndex. Later duplicates win.
func IndexKinds(kinds []models.KindOfRoom) KindIndex {
	idx := make(KindIndex, len(kinds))
	for _, k := range kinds {
		idx[k.ID] = k
	}
	return idx
}

// Room resolves id, ok is false for a dangling reference.
func (idx RoomIndex) Room(id string) (models.Room, bool) {
	r, ok := idx[id]
	return r, ok
}

// Kind resolves id, ok is false for a dangling reference.
func (idx KindIndex) Kind(id string) (models.KindOfRoom, bool) {
	k, ok := idx[id]
	return k, ok
}

// Join attaches to every agreement the price of the kind of room reachable
// through its room. A missing room or kind yields MonthlyPrice 0 and the
// agreement is kept, in input order.
func Join(agreements []models.Agreement, rooms []models.Room, kinds []models.KindOfRoom) []models.EnrichedAgreement {
	return JoinIndexed(agreements, IndexRooms(rooms), IndexKinds(kinds))
}

// JoinIndexed is Join over prebuilt indexes.
func JoinIndexed(agreements []models.Agreement, rooms RoomIndex, kinds KindIndex) []models.EnrichedAgreement {
	result := make([]models.EnrichedAgreement, 0, len(agreements))
	for _, a := range agreements {
		enriched := models.EnrichedAgreement{Agreement: a}

		room, ok := rooms.Room(a.RoomID)
		if ok {
			enriched.RoomName = room.Name
			if kind, ok := kinds.Kind(room.KindOfRoomID); ok {
				enriched.KindName = kind.Name
				enriched.MonthlyPrice = kind.Price
			}
		}
		result = append(result, enriched)
	}
	return result
}
