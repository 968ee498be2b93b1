package ports

import (
	"context"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for purchase-order
// aggregates.
type OrderRepository interface {
	// Add persists a new purchase order.
	Add(ctx context.Context, aggregate *order.PurchaseOrder) error

	// Update persists changes to an existing purchase order.
	Update(ctx context.Context, aggregate *order.PurchaseOrder) error

	// Get retrieves a purchase order by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.PurchaseOrder, error)

	// GetAllAwaitingConfirmation retrieves every order dispatched to its
	// supplier and not yet confirmed, including orders already flipped to
	// CONFIRMATION_OVERDUE. The escalation scan walks this set.
	GetAllAwaitingConfirmation(ctx context.Context) ([]*order.PurchaseOrder, error)
}
