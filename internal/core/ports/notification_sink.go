package ports

import (
	"context"

	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
)

// NotificationSink receives abstract notification requests. Rendering and
// transport are external concerns; the core only states who should hear what.
type NotificationSink interface {
	// Enqueue hands a notification request to the dispatch system.
	// Recipients are roles; the dispatcher resolves them to addresses.
	Enqueue(
		ctx context.Context,
		recipients []permissions.Role,
		templateID string,
		variables map[string]string,
		priority order.Priority,
	) error
}
