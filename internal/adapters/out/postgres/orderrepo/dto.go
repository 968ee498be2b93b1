// Package orderrepo provides data transfer objects and mapping functions for
// purchase-order persistence. It implements the repository pattern for the
// order aggregate, handling the conversion between domain entities and
// database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting purchase orders.
// The line items travel as a JSONB document; the total amount is denormalized
// for reporting queries.
type OrderDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number              string    `gorm:"uniqueIndex"`
	SupplierID          uuid.UUID `gorm:"type:uuid;index"`
	Priority            string
	Status              string `gorm:"index"`
	LineItems           []byte `gorm:"type:jsonb"`
	TotalAmount         int64
	ApprovedBy          string
	ApprovedAt          *time.Time
	InvoiceRequired     bool
	InvoiceCreated      bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
	SentToSupplierAt    *time.Time `gorm:"index"`
	SupplierConfirmedAt *time.Time
}

// TableName specifies the database table name for purchase orders.
func (OrderDTO) TableName() string {
	return "orders"
}

// lineItemDTO is the JSONB shape of one line item.
type lineItemDTO struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
	CustomGlass bool   `json:"customGlass"`
}

// fromDomain converts a purchase-order aggregate to its database representation.
func fromDomain(aggregate *order.PurchaseOrder) (OrderDTO, error) {
	items := make([]lineItemDTO, 0, len(aggregate.LineItems()))
	for _, lineItem := range aggregate.LineItems() {
		items = append(items, lineItemDTO{
			Description: lineItem.Description(),
			Quantity:    lineItem.Quantity(),
			UnitPrice:   lineItem.UnitPrice(),
			CustomGlass: lineItem.IsCustomGlass(),
		})
	}
	rawItems, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:                  aggregate.ID().Bytes(),
		Number:              aggregate.Number(),
		SupplierID:          aggregate.SupplierID().Bytes(),
		Priority:            aggregate.Priority().String(),
		Status:              aggregate.Status().String(),
		LineItems:           rawItems,
		TotalAmount:         aggregate.TotalAmount(),
		ApprovedBy:          aggregate.ApprovedBy(),
		ApprovedAt:          aggregate.ApprovedAt(),
		InvoiceRequired:     aggregate.InvoiceRequired(),
		InvoiceCreated:      aggregate.InvoiceCreated(),
		CreatedAt:           aggregate.CreatedAt(),
		UpdatedAt:           aggregate.UpdatedAt(),
		SentToSupplierAt:    aggregate.SentToSupplierAt(),
		SupplierConfirmedAt: aggregate.SupplierConfirmedAt(),
	}, nil
}

// toDomain converts a database row back to a purchase-order aggregate using
// RestorePurchaseOrder.
func toDomain(dto OrderDTO) (*order.PurchaseOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	supplierID, err := kernel.UUIDFromBytes(dto.SupplierID[:])
	if err != nil {
		return nil, err
	}

	var items []lineItemDTO
	if err = json.Unmarshal(dto.LineItems, &items); err != nil {
		return nil, err
	}

	lineItems := make([]order.LineItem, 0, len(items))
	for _, item := range items {
		lineItem, itemErr := order.NewLineItem(item.Description, item.Quantity, item.UnitPrice, item.CustomGlass)
		if itemErr != nil {
			return nil, itemErr
		}
		lineItems = append(lineItems, lineItem)
	}

	return order.RestorePurchaseOrder(
		id,
		dto.Number,
		supplierID,
		order.Priority(dto.Priority),
		order.Status(dto.Status),
		lineItems,
		dto.ApprovedBy,
		dto.ApprovedAt,
		dto.InvoiceRequired,
		dto.InvoiceCreated,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.SentToSupplierAt,
		dto.SupplierConfirmedAt,
	)
}
