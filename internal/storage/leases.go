package storage

import (
	"context"
	"time"

	"github.com/magabrotheeeer/room-management/internal/lib/month"
	"github.com/magabrotheeeer/room-management/internal/models"
)

// FindAgreementsEndingBetween returns the agreements whose last month lies in
// [from, to], with room and tenant names resolved. DaysLeft is left to the
// caller.
func (s *Storage) FindAgreementsEndingBetween(ctx context.Context, from, to time.Time) ([]models.LeaseExpiring, error) {
	const op = "storage.FindAgreementsEndingBetween"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT a.code, COALESCE(r.code, ''), COALESCE(r.name, ''), a.end_month,
			      COALESCE(string_agg(c.full_name, ', ' ORDER BY c.full_name), '')
			  FROM agreements a
			  LEFT JOIN rooms r ON r.id = a.room_id
			  LEFT JOIN agreement_customers ac ON ac.agreement_id = a.id
			  LEFT JOIN customers c ON c.id = ac.customer_id
			  WHERE a.end_month BETWEEN $1 AND $2
			  GROUP BY a.id, a.code, r.code, r.name, a.end_month
			  ORDER BY a.end_month, a.code`
	rows, err := s.DB.QueryContext(ctx, query, month.Start(from), month.Start(to))
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := []models.LeaseExpiring{}
	for rows.Next() {
		var (
			l   models.LeaseExpiring
			end time.Time
		)
		if err := rows.Scan(&l.AgreementCode, &l.RoomCode, &l.RoomName, &end, &l.Tenants); err != nil {
			return nil, wrap(op, err)
		}
		l.EndMonth = month.Format(end)
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}
