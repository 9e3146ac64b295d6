package analytics

import "github.com/magabrotheeeer/room-management/internal/models"

// Occupancy counts rooms by their occupied flag. Agreements are not consulted.
func Occupancy(rooms []models.Room) models.OccupancySplit {
	split := models.OccupancySplit{Total: len(rooms)}
	for _, r := range rooms {
		if r.Occupied {
			split.Occupied++
		}
	}
	split.Vacant = split.Total - split.Occupied
	return split
}
