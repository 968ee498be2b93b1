package escalation_test

import (
	"testing"
	"time"

	"procurement/internal/core/domain/model/escalation"
	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/core/domain/model/rules"
	"procurement/internal/core/domain/model/supplier"
	"procurement/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRule(t *testing.T, id string, hours int, level rules.Severity) escalation.TimeoutRule {
	t.Helper()
	rule, err := escalation.NewTimeoutRule(id, "Rule "+id, hours, escalation.ActionEscalationNotice, "",
		level, []permissions.Role{permissions.RoleManager}, escalation.Filters{})
	require.NoError(t, err)
	return rule
}

func buildOrder(t *testing.T, priority order.Priority, unitPrice int64, now time.Time) *order.PurchaseOrder {
	t.Helper()
	item, err := order.NewLineItem("Glass panel", 1, unitPrice, false)
	require.NoError(t, err)
	o, err := order.NewPurchaseOrder(kernel.NewUUID(), "PO-4001", kernel.NewUUID(), priority,
		[]order.LineItem{item}, false, now)
	require.NoError(t, err)
	return o
}

func TestNewTimeoutRule(t *testing.T) {
	t.Run("should create notification rule", func(t *testing.T) {
		rule, err := escalation.NewTimeoutRule("after-48h", "Escalate after 48 hours", 48,
			escalation.ActionEscalationNotice, "", rules.SeverityHigh,
			[]permissions.Role{permissions.RoleManager, permissions.RoleAdmin}, escalation.Filters{})

		require.NoError(t, err)
		assert.Equal(t, "after-48h", rule.ID())
		assert.Equal(t, 48, rule.TriggerAfterHours())
		assert.Equal(t, rules.SeverityHigh, rule.Level())
		assert.True(t, rule.Action().Notifies())
		assert.Len(t, rule.Recipients(), 2)
	})

	t.Run("should create status update rule with target status", func(t *testing.T) {
		rule, err := escalation.NewTimeoutRule("overdue-24h", "Mark overdue", 24,
			escalation.ActionStatusUpdate, order.StatusConfirmationOverdue, rules.SeverityLow,
			nil, escalation.Filters{})

		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmationOverdue, rule.TargetStatus())
		assert.False(t, rule.Action().Notifies())
	})

	t.Run("should fail status update without valid target status", func(t *testing.T) {
		_, err := escalation.NewTimeoutRule("bad", "Bad", 24,
			escalation.ActionStatusUpdate, "", rules.SeverityLow, nil, escalation.Filters{})

		require.ErrorIs(t, err, errs.ErrConfigurationInvalid)
	})

	t.Run("should fail notification rule without recipients", func(t *testing.T) {
		_, err := escalation.NewTimeoutRule("bad", "Bad", 24,
			escalation.ActionUrgentAlert, "", rules.SeverityCritical, nil, escalation.Filters{})

		require.ErrorIs(t, err, errs.ErrConfigurationInvalid)
	})

	t.Run("should fail notification rule with a target status", func(t *testing.T) {
		_, err := escalation.NewTimeoutRule("bad", "Bad", 24,
			escalation.ActionUrgentAlert, order.StatusCancelled, rules.SeverityCritical,
			[]permissions.Role{permissions.RoleAdmin}, escalation.Filters{})

		require.ErrorIs(t, err, errs.ErrConfigurationInvalid)
	})

	t.Run("should fail with non-positive trigger threshold", func(t *testing.T) {
		_, err := escalation.NewTimeoutRule("bad", "Bad", 0,
			escalation.ActionEscalationNotice, "", rules.SeverityHigh,
			[]permissions.Role{permissions.RoleManager}, escalation.Filters{})

		require.ErrorIs(t, err, errs.ErrConfigurationInvalid)
	})

	t.Run("should fail with unknown recipient role", func(t *testing.T) {
		_, err := escalation.NewTimeoutRule("bad", "Bad", 24,
			escalation.ActionEscalationNotice, "", rules.SeverityHigh,
			[]permissions.Role{"INTERN"}, escalation.Filters{})

		require.ErrorIs(t, err, errs.ErrConfigurationInvalid)
	})

	t.Run("should fail with unknown escalation level", func(t *testing.T) {
		_, err := escalation.NewTimeoutRule("bad", "Bad", 24,
			escalation.ActionEscalationNotice, "", rules.Severity("FATAL"),
			[]permissions.Role{permissions.RoleManager}, escalation.Filters{})

		require.ErrorIs(t, err, errs.ErrConfigurationInvalid)
	})
}

func TestTimeoutRule_AppliesTo(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("should match everything without filters", func(t *testing.T) {
		rule := mustRule(t, "any", 24, rules.SeverityHigh)

		assert.True(t, rule.AppliesTo(buildOrder(t, order.PriorityLow, 1_000, now), nil))
	})

	t.Run("should filter by priority", func(t *testing.T) {
		rule, err := escalation.NewTimeoutRule("urgent-only", "Urgent only", 6,
			escalation.ActionUrgentAlert, "", rules.SeverityCritical,
			[]permissions.Role{permissions.RoleAdmin},
			escalation.Filters{Priorities: []order.Priority{order.PriorityUrgent}})
		require.NoError(t, err)

		assert.True(t, rule.AppliesTo(buildOrder(t, order.PriorityUrgent, 1_000, now), nil))
		assert.False(t, rule.AppliesTo(buildOrder(t, order.PriorityNormal, 1_000, now), nil))
	})

	t.Run("should filter by specialist supplier", func(t *testing.T) {
		rule, err := escalation.NewTimeoutRule("specialist", "Specialist watch", 24,
			escalation.ActionEscalationNotice, "", rules.SeverityHigh,
			[]permissions.Role{permissions.RoleManager},
			escalation.Filters{SpecialistOnly: true})
		require.NoError(t, err)

		o := buildOrder(t, order.PriorityNormal, 1_000, now)
		specialist, err := supplier.NewSupplier(kernel.NewUUID(), "Specialist Glass Co", true, true, 4)
		require.NoError(t, err)
		regular, err := supplier.NewSupplier(kernel.NewUUID(), "Acme Glass", false, true, 4)
		require.NoError(t, err)

		assert.True(t, rule.AppliesTo(o, specialist))
		assert.False(t, rule.AppliesTo(o, regular))
		assert.False(t, rule.AppliesTo(o, nil), "missing supplier fails the specialist filter closed")
	})

	t.Run("should filter by minimum amount", func(t *testing.T) {
		rule, err := escalation.NewTimeoutRule("big-orders", "Big orders", 24,
			escalation.ActionEscalationNotice, "", rules.SeverityHigh,
			[]permissions.Role{permissions.RoleManager},
			escalation.Filters{MinTotalAmount: 100_000})
		require.NoError(t, err)

		assert.True(t, rule.AppliesTo(buildOrder(t, order.PriorityNormal, 100_000, now), nil))
		assert.False(t, rule.AppliesTo(buildOrder(t, order.PriorityNormal, 99_999, now), nil))
	})
}

func TestNewLadder(t *testing.T) {
	t.Run("should sort rungs by trigger hours then id", func(t *testing.T) {
		ladder, err := escalation.NewLadder([]escalation.TimeoutRule{
			mustRule(t, "b-72h", 72, rules.SeverityCritical),
			mustRule(t, "a-24h", 24, rules.SeverityLow),
			mustRule(t, "z-48h", 48, rules.SeverityHigh),
			mustRule(t, "a-48h", 48, rules.SeverityHigh),
		})

		require.NoError(t, err)
		rungs := ladder.Rungs()
		require.Len(t, rungs, 4)
		assert.Equal(t, "a-24h", rungs[0].ID())
		assert.Equal(t, "a-48h", rungs[1].ID())
		assert.Equal(t, "z-48h", rungs[2].ID())
		assert.Equal(t, "b-72h", rungs[3].ID())
	})

	t.Run("should reject duplicate rung ids", func(t *testing.T) {
		_, err := escalation.NewLadder([]escalation.TimeoutRule{
			mustRule(t, "dup", 24, rules.SeverityLow),
			mustRule(t, "dup", 48, rules.SeverityHigh),
		})

		require.ErrorIs(t, err, errs.ErrConfigurationInvalid)
	})
}

func TestLadder_NextDue(t *testing.T) {
	ladder, err := escalation.NewLadder([]escalation.TimeoutRule{
		mustRule(t, "low-24h", 24, rules.SeverityLow),
		mustRule(t, "high-48h", 48, rules.SeverityHigh),
		mustRule(t, "critical-72h", 72, rules.SeverityCritical),
	})
	require.NoError(t, err)

	none := map[string]struct{}{}

	t.Run("should return nothing before the first threshold", func(t *testing.T) {
		_, ok := ladder.NextDue(none, 0, 23)
		assert.False(t, ok)
	})

	t.Run("should return the first overdue rung", func(t *testing.T) {
		rung, ok := ladder.NextDue(none, 0, 30)

		require.True(t, ok)
		assert.Equal(t, "low-24h", rung.ID())
	})

	t.Run("should skip fired rungs", func(t *testing.T) {
		fired := map[string]struct{}{"low-24h": {}}

		rung, ok := ladder.NextDue(fired, rules.SeverityLow.Rank(), 50)

		require.True(t, ok)
		assert.Equal(t, "high-48h", rung.ID())
	})

	t.Run("should skip rungs below the current level permanently", func(t *testing.T) {
		// A scan starting late sees several overdue rungs; once the event sits
		// at HIGH the LOW rung must never fire.
		rung, ok := ladder.NextDue(none, rules.SeverityHigh.Rank(), 100)

		require.True(t, ok)
		assert.Equal(t, "high-48h", rung.ID())
	})

	t.Run("should return nothing when the ladder is exhausted", func(t *testing.T) {
		fired := map[string]struct{}{"low-24h": {}, "high-48h": {}, "critical-72h": {}}

		_, ok := ladder.NextDue(fired, 0, 1000)
		assert.False(t, ok)
	})
}

func TestLadder_NextPending(t *testing.T) {
	ladder, err := escalation.NewLadder([]escalation.TimeoutRule{
		mustRule(t, "low-24h", 24, rules.SeverityLow),
		mustRule(t, "high-48h", 48, rules.SeverityHigh),
	})
	require.NoError(t, err)

	t.Run("should return the next deadline regardless of elapsed time", func(t *testing.T) {
		rung, ok := ladder.NextPending(map[string]struct{}{}, 0)

		require.True(t, ok)
		assert.Equal(t, "low-24h", rung.ID())
	})

	t.Run("should report exhaustion", func(t *testing.T) {
		fired := map[string]struct{}{"low-24h": {}, "high-48h": {}}

		_, ok := ladder.NextPending(fired, 0)
		assert.False(t, ok)
	})
}

func TestSeedLadder(t *testing.T) {
	t.Run("should load the embedded ladder in canonical order", func(t *testing.T) {
		ladder, err := escalation.SeedLadder()

		require.NoError(t, err)
		rungs := ladder.Rungs()
		require.Len(t, rungs, 4)
		assert.Equal(t, "urgent-unconfirmed-6h", rungs[0].ID())
		assert.Equal(t, "confirmation-overdue-24h", rungs[1].ID())
		assert.Equal(t, "unconfirmed-48h-escalation", rungs[2].ID())
		assert.Equal(t, "unconfirmed-72h-alert", rungs[3].ID())
	})

	t.Run("should scope the urgent rung to urgent orders", func(t *testing.T) {
		ladder, err := escalation.SeedLadder()
		require.NoError(t, err)

		now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		normal := buildOrder(t, order.PriorityNormal, 1_000, now)

		sub := ladder.For(normal, nil)
		rungs := sub.Rungs()
		require.Len(t, rungs, 3)
		assert.Equal(t, "confirmation-overdue-24h", rungs[0].ID())
	})
}
