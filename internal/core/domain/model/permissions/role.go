package permissions

import (
	"fmt"

	"procurement/internal/pkg/errs"
)

// Role is the already-resolved identity class of an actor. Authentication is
// out of scope for the core; callers hand in a role and the evaluator decides
// what that role may do.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleManager        Role = "MANAGER"
	RoleEmployee       Role = "EMPLOYEE"
	RoleWarehouseStaff Role = "WAREHOUSE_STAFF"
	RoleAccounting     Role = "ACCOUNTING"

	// RoleSystem marks actions initiated by the escalation monitor itself.
	// System transitions bypass the permission matrix but not the lifecycle
	// table, and they are audit-recorded like any other actor.
	RoleSystem Role = "SYSTEM"
)

func getValidRoles() map[Role]struct{} {
	return map[Role]struct{}{
		RoleAdmin:          {},
		RoleManager:        {},
		RoleEmployee:       {},
		RoleWarehouseStaff: {},
		RoleAccounting:     {},
		RoleSystem:         {},
	}
}

// Validate checks that the role is one of the known values.
func (r Role) Validate() error {
	if _, ok := getValidRoles()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
	return nil
}

// String returns the wire name of the role.
func (r Role) String() string {
	return string(r)
}

// IsPrivileged reports whether the role may manually override escalation
// events and perform other supervisory resolutions.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleManager
}
