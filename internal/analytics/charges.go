package analytics

import "github.com/magabrotheeeer/room-management/internal/models"

// PriceIndex maps a month code "MM/YYYY" to its unit price.
type PriceIndex map[string]models.UnitPrice

// IndexPrices builds a PriceIndex keyed by UnitPrice.Code.
func IndexPrices(prices []models.UnitPrice) PriceIndex {
	idx := make(PriceIndex, len(prices))
	for _, p := range prices {
		idx[p.Code] = p
	}
	return idx
}

// For returns the unit price of a bill month, nil when none exists.
func (idx PriceIndex) For(monthCode string) *models.UnitPrice {
	p, ok := idx[monthCode]
	if !ok {
		return nil
	}
	return &p
}

// Charges prices a bill. Without a unit price every charge, the flat junk
// fee included, is zero.
func Charges(bill models.Bill, price *models.UnitPrice) models.BillCharges {
	if price == nil {
		return models.BillCharges{}
	}

	c := models.BillCharges{
		Electricity: price.Electricity * bill.AmountOfElectricity,
		Water:       price.Water * bill.AmountOfWater,
		Parking:     price.Parking * bill.NumberOfVehicles,
		Junk:        price.JunkMoney,
	}
	c.Total = c.Electricity + c.Water + c.Parking + c.Junk
	return c
}
