package services_test

import (
	"testing"
	"time"

	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures permission decisions for assertions.
type recordingSink struct {
	entries []services.PermissionAuditEntry
}

func (r *recordingSink) RecordDecision(entry services.PermissionAuditEntry) {
	r.entries = append(r.entries, entry)
}

func defaultEvaluator(t *testing.T) services.PermissionEvaluator {
	t.Helper()
	matrix, err := permissions.DefaultMatrix()
	require.NoError(t, err)
	return services.NewPermissionEvaluator(matrix, nil)
}

func TestPermissionEvaluator_Evaluate(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	evaluator := defaultEvaluator(t)

	t.Run("should deny unknown role", func(t *testing.T) {
		decision := evaluator.Evaluate("INTERN", order.ActionCreate, nil, now)

		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "unknown role")
	})

	t.Run("should deny unknown action", func(t *testing.T) {
		decision := evaluator.Evaluate(permissions.RoleAdmin, order.Action("teleport"), nil, now)

		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "unknown action")
	})

	t.Run("should deny action outside the grant set", func(t *testing.T) {
		o := newOrder(t, order.PriorityNormal, 10_000, false, false, now)
		walkTo(t, o, order.StatusApproved, now)

		decision := evaluator.Evaluate(permissions.RoleWarehouseStaff, order.ActionApprove, o, now)

		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "not granted")
	})

	t.Run("should always allow the system role", func(t *testing.T) {
		o := newOrder(t, order.PriorityNormal, 10_000, false, false, now)

		decision := evaluator.Evaluate(permissions.RoleSystem, order.ActionMarkOverdue, o, now)

		assert.True(t, decision.Allowed)
	})

	t.Run("should cap spend-committing actions by order value", func(t *testing.T) {
		// $6,000 exceeds the employee's $5,000 cap.
		o := newOrder(t, order.PriorityNormal, 600_000, false, false, now)

		decision := evaluator.Evaluate(permissions.RoleEmployee, order.ActionCreate, o, now)

		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "$5000 limit")
		assert.True(t, decision.EscalationRequired, "amount denial must route to a supervisor")
	})

	t.Run("should not apply the value cap to non-spending actions", func(t *testing.T) {
		// $6,000 order in the employee's allowed statuses: approving is not
		// capped by maxOrderValue, and under $10,000 no invariant applies.
		o := newOrder(t, order.PriorityNormal, 600_000, false, false, now)
		require.NoError(t, o.Apply(order.ActionSubmit, "worker", now))

		decision := evaluator.Evaluate(permissions.RoleEmployee, order.ActionApprove, o, now)

		assert.True(t, decision.Allowed)
	})

	t.Run("should restrict the employee to draft and pending orders", func(t *testing.T) {
		o := newOrder(t, order.PriorityNormal, 10_000, false, false, now)
		walkTo(t, o, order.StatusApproved, now)

		decision := evaluator.Evaluate(permissions.RoleEmployee, order.ActionEdit, o, now)

		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "status APPROVED")
	})

	t.Run("should mark employee actions as requiring approval", func(t *testing.T) {
		o := newOrder(t, order.PriorityNormal, 10_000, false, false, now)

		decision := evaluator.Evaluate(permissions.RoleEmployee, order.ActionCreate, o, now)

		assert.True(t, decision.Allowed)
		assert.True(t, decision.RequiresApproval)
		assert.False(t, decision.EscalationRequired)
	})

	t.Run("should escalate allowed urgent employee requests", func(t *testing.T) {
		o := newOrder(t, order.PriorityUrgent, 10_000, false, false, now)

		decision := evaluator.Evaluate(permissions.RoleEmployee, order.ActionCreate, o, now)

		assert.True(t, decision.Allowed)
		assert.True(t, decision.RequiresApproval)
		assert.True(t, decision.EscalationRequired)
	})
}

func TestPermissionEvaluator_ApprovalCeiling(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	evaluator := defaultEvaluator(t)

	// $15,000 order pending approval.
	pendingHighValue := func(t *testing.T) *order.PurchaseOrder {
		t.Helper()
		o := newOrder(t, order.PriorityNormal, 1_500_000, false, false, now)
		require.NoError(t, o.Apply(order.ActionSubmit, "worker", now))
		return o
	}

	t.Run("should deny employee approval over the ceiling with the ADMIN reason", func(t *testing.T) {
		decision := evaluator.Evaluate(permissions.RoleEmployee, order.ActionApprove, pendingHighValue(t), now)

		assert.False(t, decision.Allowed)
		assert.Equal(t, "Orders over $10,000 require ADMIN approval", decision.Reason)
		assert.True(t, decision.EscalationRequired)
	})

	t.Run("should deny manager approval over the ceiling", func(t *testing.T) {
		decision := evaluator.Evaluate(permissions.RoleManager, order.ActionApprove, pendingHighValue(t), now)

		assert.False(t, decision.Allowed)
		assert.Equal(t, "Orders over $10,000 require ADMIN approval", decision.Reason)
		assert.True(t, decision.EscalationRequired)
	})

	t.Run("should allow admin approval over the ceiling", func(t *testing.T) {
		decision := evaluator.Evaluate(permissions.RoleAdmin, order.ActionApprove, pendingHighValue(t), now)

		assert.True(t, decision.Allowed)
	})

	t.Run("should allow manager approval at exactly the ceiling", func(t *testing.T) {
		o := newOrder(t, order.PriorityNormal, 1_000_000, false, false, now)
		require.NoError(t, o.Apply(order.ActionSubmit, "worker", now))

		decision := evaluator.Evaluate(permissions.RoleManager, order.ActionApprove, o, now)

		assert.True(t, decision.Allowed)
	})
}

func TestPermissionEvaluator_StatusInvariants(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	evaluator := defaultEvaluator(t)

	t.Run("should require APPROVED before dispatch", func(t *testing.T) {
		o := newOrder(t, order.PriorityNormal, 10_000, false, false, now)

		decision := evaluator.Evaluate(permissions.RoleAdmin, order.ActionSendToSupplier, o, now)

		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "must be APPROVED before dispatch")
	})

	t.Run("should require confirmation before receipt", func(t *testing.T) {
		o := newOrder(t, order.PriorityNormal, 10_000, false, false, now)
		walkTo(t, o, order.StatusSentToSupplier, now)

		decision := evaluator.Evaluate(permissions.RoleWarehouseStaff, order.ActionConfirmReceipt, o, now)

		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "receipt")
	})

	t.Run("should allow receipt on partially received orders", func(t *testing.T) {
		o := newOrder(t, order.PriorityNormal, 10_000, false, false, now)
		walkTo(t, o, order.StatusSupplierConfirmed, now)
		require.NoError(t, o.Apply(order.ActionConfirmReceipt, "warehouse", now))

		decision := evaluator.Evaluate(permissions.RoleWarehouseStaff, order.ActionConfirmReceipt, o, now)

		assert.True(t, decision.Allowed)
	})

	t.Run("should require FULLY_RECEIVED before invoicing", func(t *testing.T) {
		o := newOrder(t, order.PriorityNormal, 10_000, false, false, now)
		walkTo(t, o, order.StatusSupplierConfirmed, now)

		decision := evaluator.Evaluate(permissions.RoleAccounting, order.ActionCreateInvoice, o, now)

		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "fully received")
	})

	t.Run("should freeze editing after invoicing and terminal statuses", func(t *testing.T) {
		for _, target := range []order.Status{order.StatusInvoiced, order.StatusCompleted} {
			o := newOrder(t, order.PriorityNormal, 10_000, false, false, now)
			walkTo(t, o, target, now)

			decision := evaluator.Evaluate(permissions.RoleAdmin, order.ActionEdit, o, now)

			assert.False(t, decision.Allowed, "edit must be denied in %s", target)
			assert.Contains(t, decision.Reason, "no longer be edited")
		}
	})

	t.Run("should restrict deletion to DRAFT orders for every role", func(t *testing.T) {
		draft := newOrder(t, order.PriorityNormal, 10_000, false, false, now)

		assert.True(t, evaluator.Evaluate(permissions.RoleAdmin, order.ActionDelete, draft, now).Allowed)

		approved := newOrder(t, order.PriorityNormal, 10_000, false, false, now)
		walkTo(t, approved, order.StatusApproved, now)

		decision := evaluator.Evaluate(permissions.RoleAdmin, order.ActionDelete, approved, now)

		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "only DRAFT orders can be deleted")
	})
}

func TestPermissionEvaluator_RoleMonotonicity(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	evaluator := defaultEvaluator(t)

	t.Run("should never allow employee what manager is denied", func(t *testing.T) {
		// Sweep the whole action set over a sample of orders; whenever the
		// employee is allowed, manager and admin must be allowed too.
		orders := []*order.PurchaseOrder{
			newOrder(t, order.PriorityNormal, 10_000, false, false, now),
			newOrder(t, order.PriorityUrgent, 400_000, true, true, now),
			newOrder(t, order.PriorityNormal, 1_500_000, false, false, now),
		}

		actions := []order.Action{
			order.ActionCreate, order.ActionEdit, order.ActionSubmit, order.ActionApprove,
			order.ActionViewAnalytics, order.ActionExportData, order.ActionCancel,
		}

		for _, o := range orders {
			for _, action := range actions {
				employee := evaluator.Evaluate(permissions.RoleEmployee, action, o, now)
				manager := evaluator.Evaluate(permissions.RoleManager, action, o, now)
				admin := evaluator.Evaluate(permissions.RoleAdmin, action, o, now)

				if employee.Allowed {
					assert.True(t, manager.Allowed,
						"manager denied %s on $%d order although employee is allowed", action, o.TotalAmount()/100)
				}
				if manager.Allowed {
					assert.True(t, admin.Allowed,
						"admin denied %s on $%d order although manager is allowed", action, o.TotalAmount()/100)
				}
			}
		}
	})
}

func TestPermissionEvaluator_Audit(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	matrix, err := permissions.DefaultMatrix()
	require.NoError(t, err)

	t.Run("should record every decision", func(t *testing.T) {
		sink := &recordingSink{}
		evaluator := services.NewPermissionEvaluator(matrix, sink)
		o := newOrder(t, order.PriorityNormal, 1_500_000, false, false, now)
		require.NoError(t, o.Apply(order.ActionSubmit, "worker", now))

		evaluator.Evaluate(permissions.RoleManager, order.ActionApprove, o, now)
		evaluator.Evaluate(permissions.RoleAdmin, order.ActionApprove, o, now)

		require.Len(t, sink.entries, 2)

		denial := sink.entries[0]
		assert.Equal(t, permissions.RoleManager, denial.Role)
		assert.Equal(t, order.ActionApprove, denial.Action)
		assert.False(t, denial.Allowed)
		assert.NotEmpty(t, denial.Reason)
		require.NotNil(t, denial.OrderID)
		assert.True(t, denial.OrderID.IsEqual(o.ID()))
		assert.Equal(t, now, denial.DecidedAt)

		assert.True(t, sink.entries[1].Allowed)
	})

	t.Run("should record order-independent decisions without an order id", func(t *testing.T) {
		sink := &recordingSink{}
		evaluator := services.NewPermissionEvaluator(matrix, sink)

		evaluator.Evaluate(permissions.RoleAccounting, order.ActionExportData, nil, now)

		require.Len(t, sink.entries, 1)
		assert.True(t, sink.entries[0].Allowed)
		assert.Nil(t, sink.entries[0].OrderID)
	})
}
