// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"procurement/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// SupplierRepoFactory provides access to the supplier directory within a transaction.
	SupplierRepoFactory interface {
		SupplierRepository() ports.SupplierRepository
	}

	// TimeoutEventRepoFactory provides access to the timeout-event repository within a transaction.
	TimeoutEventRepoFactory interface {
		TimeoutEventRepository() ports.TimeoutEventRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// TransitionUoW manages transactions for lifecycle transitions, which may
	// touch the order, its supplier snapshot, and its open timeout event.
	TransitionUoW interface {
		TxManager
		OrderRepoFactory
		SupplierRepoFactory
		TimeoutEventRepoFactory
	}

	// TransitionUoWFactory creates new transition unit of work instances.
	TransitionUoWFactory interface {
		Create() TransitionUoW
	}

	// EventUoW manages transactions for timeout-event-only operations.
	EventUoW interface {
		TxManager
		TimeoutEventRepoFactory
	}

	// EventUoWFactory creates new timeout-event unit of work instances.
	EventUoWFactory interface {
		Create() EventUoW
	}
)
