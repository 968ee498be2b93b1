// Package supplierrepo provides read access to the supplier directory.
// Suppliers are maintained externally; the core only reads them, so the
// repository exposes no write operations.
package supplierrepo

import (
	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/supplier"

	"github.com/google/uuid"
)

// SupplierDTO represents the database structure of a supplier record.
type SupplierDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string
	Specialist bool
	Approved   bool
	Rating     float64
}

// TableName specifies the database table name for suppliers.
func (SupplierDTO) TableName() string {
	return "suppliers"
}

// toDomain converts a database row to a supplier snapshot.
func toDomain(dto SupplierDTO) (*supplier.Supplier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return supplier.NewSupplier(id, dto.Name, dto.Specialist, dto.Approved, dto.Rating)
}
