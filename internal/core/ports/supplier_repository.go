package ports

import (
	"context"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/supplier"
)

// SupplierRepository defines read access to the supplier directory. Suppliers
// are maintained by an external system; the core only reads them.
type SupplierRepository interface {
	// Get retrieves a supplier by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*supplier.Supplier, error)
}
