package queries_test

import (
	"testing"

	"procurement/internal/core/application/usecases/queries"
	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvaluateActionQuery(t *testing.T) {
	t.Run("should create valid query", func(t *testing.T) {
		orderID := kernel.NewUUID()

		query, err := queries.NewEvaluateActionQuery(orderID, order.ActionApprove, permissions.RoleManager)

		require.NoError(t, err)
		require.NoError(t, query.Validate())
		assert.True(t, query.OrderID().IsEqual(orderID))
		assert.Equal(t, order.ActionApprove, query.Action())
		assert.Equal(t, permissions.RoleManager, query.Role())
	})

	t.Run("should fail with invalid order id", func(t *testing.T) {
		var invalid kernel.UUID

		_, err := queries.NewEvaluateActionQuery(invalid, order.ActionApprove, permissions.RoleManager)

		require.Error(t, err)
	})

	t.Run("should fail with unknown action", func(t *testing.T) {
		_, err := queries.NewEvaluateActionQuery(kernel.NewUUID(), order.Action("teleport"), permissions.RoleManager)

		require.Error(t, err)
	})

	t.Run("should fail with unknown role", func(t *testing.T) {
		_, err := queries.NewEvaluateActionQuery(kernel.NewUUID(), order.ActionApprove, permissions.Role("INTERN"))

		require.Error(t, err)
	})
}

func TestEvaluateActionQuery_Validate(t *testing.T) {
	t.Run("should fail for zero value query", func(t *testing.T) {
		var query queries.EvaluateActionQuery

		require.ErrorIs(t, query.Validate(), queries.ErrEvaluateActionQueryIsNotConstructed)
	})
}
