package queries

import (
	"context"
	"database/sql"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// escalationThresholdHours is the waiting time after which a supplier's
// overdue position always requires escalation.
const escalationThresholdHours = 48

// GetOverdueSupplierSummaryQueryHandler computes the overdue summary straight
// from the order table.
type GetOverdueSupplierSummaryQueryHandler struct {
	db    *gorm.DB
	clock ports.Clock
}

// NewGetOverdueSupplierSummaryQueryHandler creates a handler for overdue
// summaries. Requires a GORM database connection for query execution.
func NewGetOverdueSupplierSummaryQueryHandler(db *gorm.DB, clock ports.Clock) GetOverdueSupplierSummaryQueryHandler {
	return GetOverdueSupplierSummaryQueryHandler{db: db, clock: clock}
}

// Handle executes the summary query. Suppliers without overdue orders are
// excluded; results are sorted by overdue count, largest first.
func (h GetOverdueSupplierSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetOverdueSupplierSummaryQuery,
) ([]GetOverdueSupplierSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	summaries := make([]GetOverdueSupplierSummaryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.name,
			COUNT(*) FILTER (WHERE o.supplier_confirmed_at IS NULL AND o.status IN (?, ?))                    AS overdue_count,
			COALESCE(SUM(o.total_amount) FILTER (WHERE o.supplier_confirmed_at IS NULL AND o.status IN (?, ?)), 0) AS overdue_value,
			MAX(EXTRACT(EPOCH FROM (? - o.sent_to_supplier_at)) / 3600.0)
				FILTER (WHERE o.supplier_confirmed_at IS NULL AND o.status IN (?, ?))                         AS max_elapsed_hours,
			COUNT(*) FILTER (WHERE o.supplier_confirmed_at IS NULL AND o.status IN (?, ?) AND o.priority = ?) AS urgent_overdue,
			AVG(EXTRACT(EPOCH FROM (o.supplier_confirmed_at - o.sent_to_supplier_at)) / 3600.0)
				FILTER (WHERE o.supplier_confirmed_at IS NOT NULL)                                            AS avg_confirmation_hours,
			COUNT(*) FILTER (WHERE o.supplier_confirmed_at IS NOT NULL)::float
				/ NULLIF(COUNT(*), 0)                                                                         AS response_rate
		FROM orders o
		JOIN suppliers s ON s.id = o.supplier_id
		WHERE o.sent_to_supplier_at IS NOT NULL
		GROUP BY s.id, s.name
		HAVING COUNT(*) FILTER (WHERE o.supplier_confirmed_at IS NULL AND o.status IN (?, ?)) > 0
		ORDER BY overdue_count DESC, s.name
	`,
		order.StatusSentToSupplier, order.StatusConfirmationOverdue,
		order.StatusSentToSupplier, order.StatusConfirmationOverdue,
		now,
		order.StatusSentToSupplier, order.StatusConfirmationOverdue,
		order.StatusSentToSupplier, order.StatusConfirmationOverdue,
		order.PriorityUrgent,
		order.StatusSentToSupplier, order.StatusConfirmationOverdue,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                   uuid.UUID
			name                 string
			overdueCount         int
			overdueValue         int64
			maxElapsedHours      sql.NullFloat64
			urgentOverdue        int
			avgConfirmationHours sql.NullFloat64
			responseRate         sql.NullFloat64
		)

		if err = rows.Scan(
			&id,
			&name,
			&overdueCount,
			&overdueValue,
			&maxElapsedHours,
			&urgentOverdue,
			&avgConfirmationHours,
			&responseRate,
		); err != nil {
			return nil, err
		}

		supplierID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		summary := GetOverdueSupplierSummaryQueryResponse{
			SupplierID:        supplierID,
			SupplierName:      name,
			OverdueCount:      overdueCount,
			OverdueValueCents: overdueValue,
		}
		if avgConfirmationHours.Valid {
			summary.AvgConfirmationHours = avgConfirmationHours.Float64
		}
		if responseRate.Valid {
			summary.ResponseRate = responseRate.Float64
		}
		summary.EscalationRequired = urgentOverdue > 0 ||
			(maxElapsedHours.Valid && maxElapsedHours.Float64 >= escalationThresholdHours)

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
