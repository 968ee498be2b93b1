// Package supplier provides the supplier read model consumed during rule and
// escalation evaluation. The procurement core never mutates suppliers; they
// are maintained by an external master-data system and read here as input.
package supplier

import (
	"errors"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/pkg/errs"
)

// ErrSupplierIsNotConstructed is returned when a Supplier instance was not
// created through the NewSupplier factory method.
var ErrSupplierIsNotConstructed = errors.New("Supplier must be created via NewSupplier constructor")

// Supplier is a read-only snapshot of a supplier. Rule conditions reference
// its classification (specialist glass manufacturers) and approval flag;
// timeout-rule filters can restrict escalation to specialist suppliers.
type Supplier struct {
	id         kernel.UUID
	name       string
	specialist bool
	approved   bool
	rating     float64

	isConstructed bool
}

// NewSupplier creates a validated supplier snapshot.
//
// Parameters:
//   - id: unique identifier (must be valid)
//   - name: display name (required)
//   - specialist: whether the supplier is classified as a specialist
//     (e.g., custom glass manufacturing)
//   - approved: whether procurement has approved the supplier
//   - rating: performance rating in [0, 5]
func NewSupplier(id kernel.UUID, name string, specialist, approved bool, rating float64) (*Supplier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if rating < 0 || rating > 5 {
		return nil, errs.NewValueIsOutOfRangeError("rating", rating, 0, 5)
	}

	return &Supplier{
		id:            id,
		name:          name,
		specialist:    specialist,
		approved:      approved,
		rating:        rating,
		isConstructed: true,
	}, nil
}

// Validate ensures the Supplier instance was properly constructed.
func (s *Supplier) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSupplierIsNotConstructed
	}
	return nil
}

// ID returns the supplier's unique identifier.
func (s *Supplier) ID() kernel.UUID {
	return s.id
}

// Name returns the supplier's display name.
func (s *Supplier) Name() string {
	return s.name
}

// IsSpecialist reports whether the supplier carries the specialist classification.
func (s *Supplier) IsSpecialist() bool {
	return s.specialist
}

// IsApproved reports whether procurement has approved the supplier.
func (s *Supplier) IsApproved() bool {
	return s.approved
}

// Rating returns the supplier's performance rating.
func (s *Supplier) Rating() float64 {
	return s.rating
}
