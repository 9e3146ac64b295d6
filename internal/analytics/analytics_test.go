package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/room-management/internal/models"
)

func m(y int, mo time.Month) time.Time {
	return time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC)
}

func fixture() Snapshot {
	return Snapshot{
		Kinds: []models.KindOfRoom{
			{ID: "k-std", Code: "STD", Name: "Standard", Price: 2000000},
			{ID: "k-vip", Code: "VIP", Name: "Vip", Price: 3500000},
		},
		Rooms: []models.Room{
			{ID: "r-101", Code: "101", Name: "Room 101", KindOfRoomID: "k-std", Occupied: true},
			{ID: "r-102", Code: "102", Name: "Room 102", KindOfRoomID: "k-vip", Occupied: true},
			{ID: "r-103", Code: "103", Name: "Room 103", KindOfRoomID: "k-gone"},
		},
		Agreements: []models.Agreement{
			{ID: "a-1", Code: "HD01", RoomID: "r-101", StartMonth: m(2023, time.January), EndMonth: m(2023, time.March)},
			{ID: "a-2", Code: "HD02", RoomID: "r-102", StartMonth: m(2023, time.February), EndMonth: m(2023, time.December)},
			{ID: "a-3", Code: "HD03", RoomID: "r-deleted", StartMonth: m(2023, time.January), EndMonth: m(2023, time.December)},
			{ID: "a-4", Code: "HD04", RoomID: "r-103", StartMonth: m(2023, time.January), EndMonth: m(2023, time.December)},
		},
	}
}

func TestJoin(t *testing.T) {
	s := fixture()

	got := Join(s.Agreements, s.Rooms, s.Kinds)
	require.Len(t, got, len(s.Agreements))

	tests := []struct {
		name      string
		idx       int
		wantPrice int64
		wantRoom  string
		wantKind  string
	}{
		{name: "standard room", idx: 0, wantPrice: 2000000, wantRoom: "Room 101", wantKind: "Standard"},
		{name: "vip room", idx: 1, wantPrice: 3500000, wantRoom: "Room 102", wantKind: "Vip"},
		{name: "deleted room keeps agreement", idx: 2, wantPrice: 0},
		{name: "dangling kind keeps agreement", idx: 3, wantPrice: 0, wantRoom: "Room 103"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := got[tt.idx]
			assert.Equal(t, s.Agreements[tt.idx], e.Agreement)
			assert.Equal(t, tt.wantPrice, e.MonthlyPrice)
			assert.Equal(t, tt.wantRoom, e.RoomName)
			assert.Equal(t, tt.wantKind, e.KindName)
		})
	}
}

func TestJoin_Empty(t *testing.T) {
	got := Join(nil, nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBucket(t *testing.T) {
	assert.Empty(t, Bucket(m(2023, time.May), m(2023, time.April)))
	assert.Equal(t, []time.Time{m(2023, time.December), m(2024, time.January)},
		Bucket(m(2023, time.December), m(2024, time.January)))
}

func TestRevenue_SingleAgreement(t *testing.T) {
	enriched := []models.EnrichedAgreement{{
		Agreement:    models.Agreement{StartMonth: m(2023, time.January), EndMonth: m(2023, time.March)},
		MonthlyPrice: 2000000,
	}}

	got := Revenue(Bucket(m(2023, time.January), m(2023, time.April)), enriched)

	assert.Equal(t, []models.RevenuePoint{
		{Month: "01/2023", Total: 2000000},
		{Month: "02/2023", Total: 2000000},
		{Month: "03/2023", Total: 2000000},
		{Month: "04/2023", Total: 0},
	}, got)
}

func TestRevenue_SumsWithoutDedup(t *testing.T) {
	enriched := []models.EnrichedAgreement{
		{Agreement: models.Agreement{RoomID: "r", StartMonth: m(2024, time.January), EndMonth: m(2024, time.January)}, MonthlyPrice: 100},
		{Agreement: models.Agreement{RoomID: "r", StartMonth: m(2024, time.January), EndMonth: m(2024, time.February)}, MonthlyPrice: 250},
	}

	got := Revenue(Bucket(m(2024, time.January), m(2024, time.February)), enriched)

	assert.Equal(t, []models.RevenuePoint{
		{Month: "01/2024", Total: 350},
		{Month: "02/2024", Total: 250},
	}, got)
}

func TestRevenue_AlignedWithBuckets(t *testing.T) {
	s := fixture()
	enriched := Join(s.Agreements, s.Rooms, s.Kinds)

	for _, window := range [][2]time.Time{
		{m(2022, time.June), m(2024, time.June)},
		{m(2023, time.March), m(2023, time.March)},
		{m(2023, time.March), m(2023, time.February)},
	} {
		buckets := Bucket(window[0], window[1])
		points := Revenue(buckets, enriched)
		require.Len(t, points, len(buckets))
		for i, p := range points {
			var want int64
			for _, a := range enriched {
				if !buckets[i].Before(a.StartMonth) && !buckets[i].After(a.EndMonth) {
					want += a.MonthlyPrice
				}
			}
			assert.Equal(t, want, p.Total, p.Month)
		}
	}
}

func TestOccupancy(t *testing.T) {
	rooms := make([]models.Room, 10)
	for i := range rooms {
		rooms[i].Occupied = i >= 3
	}

	got := Occupancy(rooms)

	assert.Equal(t, models.OccupancySplit{Vacant: 3, Occupied: 7, Total: 10}, got)
	assert.Equal(t, got.Total, got.Vacant+got.Occupied)
}

func TestOccupancy_Empty(t *testing.T) {
	assert.Equal(t, models.OccupancySplit{}, Occupancy(nil))
}

func TestCharges(t *testing.T) {
	price := &models.UnitPrice{Code: "05/2024", Electricity: 3000, Water: 15000, Parking: 50000, JunkMoney: 20000}
	bill := models.Bill{Month: "05/2024", AmountOfElectricity: 100, AmountOfWater: 10, NumberOfVehicles: 2}

	got := Charges(bill, price)

	assert.Equal(t, models.BillCharges{
		Electricity: 300000,
		Water:       150000,
		Parking:     100000,
		Junk:        20000,
		Total:       570000,
	}, got)
}

func TestCharges_NoUnitPrice(t *testing.T) {
	bill := models.Bill{Month: "05/2024", AmountOfElectricity: 100, AmountOfWater: 10, NumberOfVehicles: 2}

	got := Charges(bill, IndexPrices(nil).For(bill.Month))

	assert.Equal(t, models.BillCharges{}, got)
	assert.Zero(t, got.Total)
}

func TestRevenueReport_Idempotent(t *testing.T) {
	s := fixture()

	first := RevenueReport(s, m(2023, time.January), m(2023, time.June))
	second := RevenueReport(s, m(2023, time.January), m(2023, time.June))

	assert.Equal(t, first, second)
	assert.Equal(t, "01/2023", first.From)
	assert.Equal(t, "06/2023", first.To)
	require.Len(t, first.Points, 6)
	assert.Equal(t, int64(2000000), first.Points[0].Total)
	assert.Equal(t, int64(5500000), first.Points[1].Total)
	assert.Equal(t, int64(3500000), first.Points[5].Total)
	assert.Equal(t, int64(2000000*3+3500000*5), first.Total)
}

func TestStatement(t *testing.T) {
	s := fixture()
	s.UnitPrices = []models.UnitPrice{
		{Code: "05/2024", Electricity: 3000, Water: 15000, Parking: 50000, JunkMoney: 20000},
	}
	s.Bills = []models.Bill{
		{Code: "B2", RoomID: "r-102", Month: "05/2024", AmountOfElectricity: 10},
		{Code: "B1", RoomID: "r-101", Month: "05/2024", AmountOfElectricity: 100, AmountOfWater: 10, NumberOfVehicles: 2},
		{Code: "B3", RoomID: "r-101", Month: "04/2024", AmountOfElectricity: 50},
	}

	got := Statement("05/2024", s)

	require.Len(t, got.Lines, 2)
	assert.Equal(t, "B1", got.Lines[0].BillCode)
	assert.Equal(t, "Room 101", got.Lines[0].RoomName)
	assert.Equal(t, int64(570000), got.Lines[0].Charges.Total)
	assert.Equal(t, "B2", got.Lines[1].BillCode)
	assert.Equal(t, int64(50000), got.Lines[1].Charges.Total)
	assert.Equal(t, int64(620000), got.Total)
	assert.Equal(t, "₫620,000", got.TotalFormatted)
}

func TestStatement_EmptyMonth(t *testing.T) {
	got := Statement("01/2030", fixture())

	assert.NotNil(t, got.Lines)
	assert.Empty(t, got.Lines)
	assert.Zero(t, got.Total)
	assert.Equal(t, "₫0", got.TotalFormatted)
}
