// Package order provides domain entities and business logic for purchase order
// management in the procurement system. It implements the PurchaseOrder
// aggregate root with lifecycle management and state transitions.
//
// The package includes:
//   - PurchaseOrder: The aggregate root carrying order content, approval
//     metadata, invoice flags, and the dispatch/confirmation timestamps
//   - Status: An eleven-state machine with a table of legal transitions
//   - Action: The closed set of operations actors can attempt
//   - Priority, LineItem: Supporting value objects
//
// Key business rules:
//   - Orders start in DRAFT and end in COMPLETED or CANCELLED (terminal)
//   - Every transition is an edge in the table; anything else is rejected
//   - Cancel is legal from every non-terminal status
//   - Two transitions cross rule gates: dispatch (APPROVED -> SENT_TO_SUPPLIER)
//     and completion (FULLY_RECEIVED -> INVOICED)
//
// The aggregate enforces only the transition table. Permission decisions and
// rule-gate evaluation live in the services package and run before Apply.
package order
