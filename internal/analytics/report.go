package analytics

import (
	"sort"
	"time"

	"github.com/magabrotheeeer/room-management/internal/lib/month"
	"github.com/magabrotheeeer/room-management/internal/lib/money"
	"github.com/magabrotheeeer/room-management/internal/models"
)

// Snapshot is a read-only copy of the collections the pipeline consumes.
type Snapshot struct {
	Rooms      []models.Room
	Kinds      []models.KindOfRoom
	Agreements []models.Agreement
	UnitPrices []models.UnitPrice
	Bills      []models.Bill
}

// RevenueReport runs Join, Bucket and Revenue over a snapshot.
func RevenueReport(s Snapshot, from, to time.Time) models.RevenueReport {
	enriched := Join(s.Agreements, s.Rooms, s.Kinds)
	points := Revenue(Bucket(from, to), enriched)

	report := models.RevenueReport{
		From:   month.Format(from),
		To:     month.Format(to),
		Points: points,
	}
	for _, p := range points {
		report.Total += p.Total
	}
	return report
}

// Statement lists every bill of monthCode with its charges, ordered by room
// name then bill code, and totals them.
func Statement(monthCode string, s Snapshot) models.MonthlyStatement {
	rooms := IndexRooms(s.Rooms)
	prices := IndexPrices(s.UnitPrices)
	price := prices.For(monthCode)

	st := models.MonthlyStatement{
		Month: monthCode,
		Lines: []models.StatementLine{},
	}
	for _, b := range s.Bills {
		if b.Month != monthCode {
			continue
		}
		line := models.StatementLine{
			BillCode:            b.Code,
			AmountOfElectricity: b.AmountOfElectricity,
			AmountOfWater:       b.AmountOfWater,
			NumberOfVehicles:    b.NumberOfVehicles,
			Charges:             Charges(b, price),
		}
		if r, ok := rooms.Room(b.RoomID); ok {
			line.RoomName = r.Name
		}
		st.Lines = append(st.Lines, line)
		st.Total += line.Charges.Total
	}

	sort.SliceStable(st.Lines, func(i, j int) bool {
		if st.Lines[i].RoomName != st.Lines[j].RoomName {
			return st.Lines[i].RoomName < st.Lines[j].RoomName
		}
		return st.Lines[i].BillCode < st.Lines[j].BillCode
	})
	st.TotalFormatted = money.FormatVND(st.Total)
	return st
}
