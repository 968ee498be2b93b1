package ports

import (
	"context"
	"time"

	"procurement/internal/core/domain/model/escalation"
	"procurement/internal/core/domain/model/kernel"
)

// TimeoutEventRepository defines the persistence contract for timeout-event
// aggregates.
type TimeoutEventRepository interface {
	// Add persists a new timeout event.
	Add(ctx context.Context, aggregate *escalation.TimeoutEvent) error

	// Update persists changes to an existing timeout event.
	Update(ctx context.Context, aggregate *escalation.TimeoutEvent) error

	// Get retrieves a timeout event by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*escalation.TimeoutEvent, error)

	// GetUnresolvedByOrder retrieves the order's open timeout event.
	// Returns an ObjectNotFoundError when the order has none.
	GetUnresolvedByOrder(ctx context.Context, orderID kernel.UUID) (*escalation.TimeoutEvent, error)

	// GetAllResolvedBefore retrieves resolved, unarchived events whose
	// resolution happened before the cutoff. The retention sweep archives
	// them.
	GetAllResolvedBefore(ctx context.Context, cutoff time.Time) ([]*escalation.TimeoutEvent, error)
}
