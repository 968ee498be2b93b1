package rules_test

import (
	"testing"
	"time"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/rules"
	"procurement/internal/core/domain/model/supplier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalContext(t *testing.T, o *order.PurchaseOrder, sup *supplier.Supplier, now time.Time) rules.EvalContext {
	t.Helper()
	return rules.EvalContext{Order: o, Supplier: sup, Now: now}
}

func buildOrder(t *testing.T, priority order.Priority, unitPrice int64, customGlass bool, now time.Time) *order.PurchaseOrder {
	t.Helper()
	item, err := order.NewLineItem("Glass panel", 1, unitPrice, customGlass)
	require.NoError(t, err)

	o, err := order.NewPurchaseOrder(kernel.NewUUID(), "PO-3001", kernel.NewUUID(), priority,
		[]order.LineItem{item}, true, now)
	require.NoError(t, err)
	return o
}

func TestCondition_Evaluate(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("should compare strings with equals and not_equals", func(t *testing.T) {
		ctx := evalContext(t, buildOrder(t, order.PriorityUrgent, 1_000, false, now), nil, now)

		assert.True(t, rules.Condition{Field: "priority", Operator: rules.OpEquals, Value: "URGENT"}.Evaluate(ctx))
		assert.False(t, rules.Condition{Field: "priority", Operator: rules.OpEquals, Value: "LOW"}.Evaluate(ctx))
		assert.True(t, rules.Condition{Field: "priority", Operator: rules.OpNotEquals, Value: "LOW"}.Evaluate(ctx))
	})

	t.Run("should compare numbers across JSON float and domain int64", func(t *testing.T) {
		// 15 units at $100 each: totalAmount is 150_000 cents.
		item, err := order.NewLineItem("Glass panel", 15, 10_000, false)
		require.NoError(t, err)
		o, err := order.NewPurchaseOrder(kernel.NewUUID(), "PO-3002", kernel.NewUUID(),
			order.PriorityNormal, []order.LineItem{item}, false, now)
		require.NoError(t, err)
		ctx := evalContext(t, o, nil, now)

		assert.True(t, rules.Condition{Field: "totalAmount", Operator: rules.OpEquals, Value: float64(150_000)}.Evaluate(ctx))
		assert.True(t, rules.Condition{Field: "totalAmount", Operator: rules.OpGreaterThan, Value: float64(100_000)}.Evaluate(ctx))
		assert.True(t, rules.Condition{Field: "totalAmount", Operator: rules.OpLessThan, Value: float64(200_000)}.Evaluate(ctx))
		assert.False(t, rules.Condition{Field: "totalAmount", Operator: rules.OpGreaterThan, Value: float64(150_000)}.Evaluate(ctx))
	})

	t.Run("should match membership with in", func(t *testing.T) {
		ctx := evalContext(t, buildOrder(t, order.PriorityNormal, 1_000, false, now), nil, now)

		condition := rules.Condition{Field: "status", Operator: rules.OpIn, Value: []any{"DRAFT", "PENDING_APPROVAL"}}
		assert.True(t, condition.Evaluate(ctx))

		condition = rules.Condition{Field: "status", Operator: rules.OpIn, Value: []any{"APPROVED"}}
		assert.False(t, condition.Evaluate(ctx))
	})

	t.Run("should fail closed when in literal is not a list", func(t *testing.T) {
		ctx := evalContext(t, buildOrder(t, order.PriorityNormal, 1_000, false, now), nil, now)

		condition := rules.Condition{Field: "status", Operator: rules.OpIn, Value: "DRAFT"}
		assert.False(t, condition.Evaluate(ctx))
	})

	t.Run("should test unset timestamps with null operators", func(t *testing.T) {
		o := buildOrder(t, order.PriorityNormal, 1_000, false, now)
		ctx := evalContext(t, o, nil, now)

		assert.True(t, rules.Condition{Field: "approvedAt", Operator: rules.OpIsNull}.Evaluate(ctx))
		assert.False(t, rules.Condition{Field: "approvedAt", Operator: rules.OpIsNotNull}.Evaluate(ctx))

		require.NoError(t, o.Apply(order.ActionSubmit, "worker", now))
		require.NoError(t, o.Apply(order.ActionApprove, "manager", now))

		assert.False(t, rules.Condition{Field: "approvedAt", Operator: rules.OpIsNull}.Evaluate(ctx))
		assert.True(t, rules.Condition{Field: "approvedAt", Operator: rules.OpIsNotNull}.Evaluate(ctx))
	})

	t.Run("should treat missing supplier as null", func(t *testing.T) {
		ctx := evalContext(t, buildOrder(t, order.PriorityNormal, 1_000, true, now), nil, now)

		assert.True(t, rules.Condition{Field: "supplier.specialist", Operator: rules.OpIsNull}.Evaluate(ctx))
		// Fail closed: a comparison against a missing supplier never matches.
		assert.False(t, rules.Condition{Field: "supplier.specialist", Operator: rules.OpEquals, Value: false}.Evaluate(ctx))
	})

	t.Run("should resolve supplier fields when supplier is present", func(t *testing.T) {
		sup, err := supplier.NewSupplier(kernel.NewUUID(), "Specialist Glass Co", true, true, 4.2)
		require.NoError(t, err)
		ctx := evalContext(t, buildOrder(t, order.PriorityNormal, 1_000, true, now), sup, now)

		assert.True(t, rules.Condition{Field: "supplier.specialist", Operator: rules.OpEquals, Value: true}.Evaluate(ctx))
		assert.True(t, rules.Condition{Field: "supplier.rating", Operator: rules.OpGreaterThan, Value: float64(4)}.Evaluate(ctx))
		assert.False(t, rules.Condition{Field: "supplier.specialist", Operator: rules.OpIsNull}.Evaluate(ctx))
	})

	t.Run("should fail closed on unknown field", func(t *testing.T) {
		ctx := evalContext(t, buildOrder(t, order.PriorityNormal, 1_000, false, now), nil, now)

		assert.False(t, rules.Condition{Field: "color", Operator: rules.OpEquals, Value: "blue"}.Evaluate(ctx))
	})

	t.Run("should fail closed on unknown operator", func(t *testing.T) {
		ctx := evalContext(t, buildOrder(t, order.PriorityNormal, 1_000, false, now), nil, now)

		assert.False(t, rules.Condition{Field: "priority", Operator: rules.Operator("matches"), Value: "URGENT"}.Evaluate(ctx))
	})

	t.Run("should fail closed comparing a string field numerically", func(t *testing.T) {
		ctx := evalContext(t, buildOrder(t, order.PriorityNormal, 1_000, false, now), nil, now)

		assert.False(t, rules.Condition{Field: "priority", Operator: rules.OpGreaterThan, Value: float64(1)}.Evaluate(ctx))
	})

	t.Run("should resolve hoursWithoutConfirmation against the evaluation clock", func(t *testing.T) {
		o := buildOrder(t, order.PriorityUrgent, 1_000, false, now)
		require.NoError(t, o.Apply(order.ActionSubmit, "worker", now))
		require.NoError(t, o.Apply(order.ActionApprove, "manager", now))
		require.NoError(t, o.Apply(order.ActionSendToSupplier, "manager", now))

		condition := rules.Condition{Field: "hoursWithoutConfirmation", Operator: rules.OpGreaterThan, Value: float64(24)}

		assert.False(t, condition.Evaluate(evalContext(t, o, nil, now.Add(10*time.Hour))))
		assert.True(t, condition.Evaluate(evalContext(t, o, nil, now.Add(30*time.Hour))))
	})
}

func TestSeverity(t *testing.T) {
	t.Run("should count CRITICAL and HIGH as errors", func(t *testing.T) {
		assert.True(t, rules.SeverityCritical.IsError())
		assert.True(t, rules.SeverityHigh.IsError())
		assert.False(t, rules.SeverityMedium.IsError())
		assert.False(t, rules.SeverityLow.IsError())
	})

	t.Run("should rank severities monotonically", func(t *testing.T) {
		assert.Less(t, rules.SeverityLow.Rank(), rules.SeverityMedium.Rank())
		assert.Less(t, rules.SeverityMedium.Rank(), rules.SeverityHigh.Rank())
		assert.Less(t, rules.SeverityHigh.Rank(), rules.SeverityCritical.Rank())
		assert.Equal(t, 0, rules.Severity("UNKNOWN").Rank())
	})
}
