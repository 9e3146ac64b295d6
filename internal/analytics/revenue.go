package analytics

import (
	"time"

	"github.com/magabrotheeeer/room-management/internal/lib/month"
	"github.com/magabrotheeeer/room-management/internal/models"
)

// Bucket returns one month per calendar month of [from, to], inclusive.
// from after to yields no buckets.
func Bucket(from, to time.Time) []time.Time {
	return month.Months(from, to)
}

// Revenue sums, for every bucket, the monthly price of each agreement whose
// interval covers the bucket month. Agreements on the same room are not
// deduplicated. The output is aligned with buckets.
func Revenue(buckets []time.Time, agreements []models.EnrichedAgreement) []models.RevenuePoint {
	points := make([]models.RevenuePoint, len(buckets))
	for i, m := range buckets {
		points[i].Month = month.Format(m)
		for _, a := range agreements {
			if month.Covers(a.StartMonth, a.EndMonth, m) {
				points[i].Total += a.MonthlyPrice
			}
		}
	}
	return points
}
