package commands_test

import (
	"context"
	"testing"
	"time"

	"procurement/internal/core/application/usecases/commands"
	"procurement/internal/core/domain/model/escalation"
	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/core/domain/model/rules"
	"procurement/internal/core/domain/model/supplier"
	"procurement/internal/core/domain/services"
	"procurement/internal/core/ports"
	"procurement/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Get(ctx context.Context, id kernel.UUID) (*supplier.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplier.Supplier), args.Error(1)
}

type MockTimeoutEventRepository struct {
	mock.Mock
}

func (m *MockTimeoutEventRepository) Add(ctx context.Context, aggregate *escalation.TimeoutEvent) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTimeoutEventRepository) Update(ctx context.Context, aggregate *escalation.TimeoutEvent) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTimeoutEventRepository) Get(ctx context.Context, id kernel.UUID) (*escalation.TimeoutEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*escalation.TimeoutEvent), args.Error(1)
}

func (m *MockTimeoutEventRepository) GetUnresolvedByOrder(ctx context.Context, orderID kernel.UUID) (*escalation.TimeoutEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*escalation.TimeoutEvent), args.Error(1)
}

func (m *MockTimeoutEventRepository) GetAllResolvedBefore(ctx context.Context, cutoff time.Time) ([]*escalation.TimeoutEvent, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*escalation.TimeoutEvent), args.Error(1)
}

type MockTransitionUoW struct {
	mock.Mock
}

func (m *MockTransitionUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransitionUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransitionUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransitionUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockTransitionUoW) SupplierRepository() ports.SupplierRepository {
	args := m.Called()
	return args.Get(0).(ports.SupplierRepository)
}

func (m *MockTransitionUoW) TimeoutEventRepository() ports.TimeoutEventRepository {
	args := m.Called()
	return args.Get(0).(ports.TimeoutEventRepository)
}

type MockTransitionUoWFactory struct {
	mock.Mock
}

func (m *MockTransitionUoWFactory) Create() commands.TransitionUoW {
	args := m.Called()
	return args.Get(0).(commands.TransitionUoW)
}

func testTransitionService(t *testing.T) services.TransitionService {
	t.Helper()
	ruleSet, _, err := rules.SeedRules()
	require.NoError(t, err)
	return services.NewTransitionService(services.NewRuleEngine(ruleSet), testEvaluator(t))
}

// testOrder builds an order and walks it to the wanted status.
func testOrder(t *testing.T, target order.Status, now time.Time) *order.PurchaseOrder {
	t.Helper()
	item, err := order.NewLineItem("Tempered glass panel", 1, 50_000, false)
	require.NoError(t, err)
	aggregate, err := order.NewPurchaseOrder(kernel.NewUUID(), "PO-2001", kernel.NewUUID(),
		order.PriorityNormal, []order.LineItem{item}, false, now)
	require.NoError(t, err)

	path := map[order.Status]order.Action{
		order.StatusDraft:           order.ActionSubmit,
		order.StatusPendingApproval: order.ActionApprove,
		order.StatusApproved:        order.ActionSendToSupplier,
		order.StatusSentToSupplier:  order.ActionConfirmSupplier,
	}
	for aggregate.Status() != target {
		action, ok := path[aggregate.Status()]
		require.True(t, ok, "no path from %s to %s", aggregate.Status(), target)
		require.NoError(t, aggregate.Apply(action, "system", now))
	}
	return aggregate
}

func supplierNotFound(id kernel.UUID) error {
	return errs.NewObjectNotFoundError("supplierID", id)
}

func TestTransitionOrderCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	aggregate := testOrder(t, order.StatusDraft, now.Add(-time.Hour))

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), order.ActionSubmit,
		permissions.RoleManager, "alice", aggregate.UpdatedAt())
	require.NoError(t, err)

	mockOrders := new(MockOrderRepository)
	mockSuppliers := new(MockSupplierRepository)
	mockUoW := new(MockTransitionUoW)
	mockFactory := new(MockTransitionUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockOrders).Once(),
		mockOrders.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		mockUoW.On("SupplierRepository").Return(mockSuppliers).Once(),
		mockSuppliers.On("Get", ctx, aggregate.SupplierID()).
			Return(nil, supplierNotFound(aggregate.SupplierID())).Once(),
		mockUoW.On("OrderRepository").Return(mockOrders).Once(),
		mockOrders.On("Update", ctx, aggregate).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewTransitionOrderCommandHandler(mockFactory, testTransitionService(t),
		fixedClock{now: now})

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, order.StatusPendingApproval, aggregate.Status())
	assert.Equal(t, now, aggregate.UpdatedAt())

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockOrders.AssertExpectations(t)
	mockSuppliers.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_ConfirmationResolvesTimeoutEvent(t *testing.T) {
	// Arrange
	ctx := t.Context()
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	aggregate := testOrder(t, order.StatusSentToSupplier, now.Add(-48*time.Hour))

	event, err := escalation.NewTimeoutEvent(kernel.NewUUID(), aggregate.ID(), now.Add(-24*time.Hour))
	require.NoError(t, err)

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), order.ActionConfirmSupplier,
		permissions.RoleManager, "alice", aggregate.UpdatedAt())
	require.NoError(t, err)

	mockOrders := new(MockOrderRepository)
	mockSuppliers := new(MockSupplierRepository)
	mockEvents := new(MockTimeoutEventRepository)
	mockUoW := new(MockTransitionUoW)
	mockFactory := new(MockTransitionUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockOrders).Once(),
		mockOrders.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		mockUoW.On("SupplierRepository").Return(mockSuppliers).Once(),
		mockSuppliers.On("Get", ctx, aggregate.SupplierID()).
			Return(nil, supplierNotFound(aggregate.SupplierID())).Once(),
		mockUoW.On("OrderRepository").Return(mockOrders).Once(),
		mockOrders.On("Update", ctx, aggregate).Return(nil).Once(),
		mockUoW.On("TimeoutEventRepository").Return(mockEvents).Once(),
		mockEvents.On("GetUnresolvedByOrder", ctx, aggregate.ID()).Return(event, nil).Once(),
		mockUoW.On("TimeoutEventRepository").Return(mockEvents).Once(),
		mockEvents.On("Update", ctx, event).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewTransitionOrderCommandHandler(mockFactory, testTransitionService(t),
		fixedClock{now: now})

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, order.StatusSupplierConfirmed, aggregate.Status())

	assert.True(t, event.IsResolved())
	assert.Equal(t, escalation.ResolutionSupplierConfirmed, event.ResolutionMethod())
	assert.Equal(t, "resolved by alice", event.ResolutionReason())

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockOrders.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_ConfirmationWithoutOpenEvent(t *testing.T) {
	// Arrange
	ctx := t.Context()
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	aggregate := testOrder(t, order.StatusSentToSupplier, now.Add(-time.Hour))

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), order.ActionConfirmSupplier,
		permissions.RoleManager, "alice", aggregate.UpdatedAt())
	require.NoError(t, err)

	mockOrders := new(MockOrderRepository)
	mockSuppliers := new(MockSupplierRepository)
	mockEvents := new(MockTimeoutEventRepository)
	mockUoW := new(MockTransitionUoW)
	mockFactory := new(MockTransitionUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockOrders).Once(),
		mockOrders.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		mockUoW.On("SupplierRepository").Return(mockSuppliers).Once(),
		mockSuppliers.On("Get", ctx, aggregate.SupplierID()).
			Return(nil, supplierNotFound(aggregate.SupplierID())).Once(),
		mockUoW.On("OrderRepository").Return(mockOrders).Once(),
		mockOrders.On("Update", ctx, aggregate).Return(nil).Once(),
		mockUoW.On("TimeoutEventRepository").Return(mockEvents).Once(),
		mockEvents.On("GetUnresolvedByOrder", ctx, aggregate.ID()).
			Return(nil, errs.NewObjectNotFoundError("orderID", aggregate.ID())).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewTransitionOrderCommandHandler(mockFactory, testTransitionService(t),
		fixedClock{now: now})

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockOrders.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_Rejection(t *testing.T) {
	// Arrange
	ctx := t.Context()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	aggregate := testOrder(t, order.StatusApproved, now.Add(-time.Hour))

	// Approving an already approved order has no lifecycle edge; nothing is persisted.
	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), order.ActionApprove,
		permissions.RoleManager, "alice", aggregate.UpdatedAt())
	require.NoError(t, err)

	mockOrders := new(MockOrderRepository)
	mockSuppliers := new(MockSupplierRepository)
	mockUoW := new(MockTransitionUoW)
	mockFactory := new(MockTransitionUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockOrders).Once(),
		mockOrders.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		mockUoW.On("SupplierRepository").Return(mockSuppliers).Once(),
		mockSuppliers.On("Get", ctx, aggregate.SupplierID()).
			Return(nil, supplierNotFound(aggregate.SupplierID())).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewTransitionOrderCommandHandler(mockFactory, testTransitionService(t),
		fixedClock{now: now})

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.NotEmpty(t, result.Reasons)
	assert.Equal(t, order.StatusApproved, aggregate.Status())

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockOrders.AssertExpectations(t)
	mockSuppliers.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_ConcurrentModification(t *testing.T) {
	// Arrange
	ctx := t.Context()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	aggregate := testOrder(t, order.StatusDraft, now.Add(-time.Hour))

	staleRead := aggregate.UpdatedAt().Add(-time.Minute)
	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), order.ActionSubmit,
		permissions.RoleManager, "alice", staleRead)
	require.NoError(t, err)

	mockOrders := new(MockOrderRepository)
	mockSuppliers := new(MockSupplierRepository)
	mockUoW := new(MockTransitionUoW)
	mockFactory := new(MockTransitionUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockOrders).Once(),
		mockOrders.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		mockUoW.On("SupplierRepository").Return(mockSuppliers).Once(),
		mockSuppliers.On("Get", ctx, aggregate.SupplierID()).
			Return(nil, supplierNotFound(aggregate.SupplierID())).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewTransitionOrderCommandHandler(mockFactory, testTransitionService(t),
		fixedClock{now: now})

	// Act
	_, err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	assert.Equal(t, order.StatusDraft, aggregate.Status())

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockOrders.AssertExpectations(t)
	mockSuppliers.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	// Arrange
	ctx := t.Context()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	orderID := kernel.NewUUID()

	cmd, err := commands.NewTransitionOrderCommand(orderID, order.ActionSubmit,
		permissions.RoleManager, "alice", now)
	require.NoError(t, err)

	mockOrders := new(MockOrderRepository)
	mockUoW := new(MockTransitionUoW)
	mockFactory := new(MockTransitionUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockOrders).Once(),
		mockOrders.On("Get", ctx, orderID).
			Return(nil, errs.NewObjectNotFoundError("orderID", orderID)).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewTransitionOrderCommandHandler(mockFactory, testTransitionService(t),
		fixedClock{now: now})

	// Act
	_, err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockOrders.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_InvalidCommand(t *testing.T) {
	// Arrange
	ctx := t.Context()
	var invalidCmd commands.TransitionOrderCommand // zero value command

	mockFactory := new(MockTransitionUoWFactory)
	handler := commands.NewTransitionOrderCommandHandler(mockFactory, testTransitionService(t),
		fixedClock{now: time.Now()})

	// Act
	_, err := handler.Handle(ctx, invalidCmd)

	// Assert
	require.ErrorIs(t, err, commands.ErrTransitionOrderCommandIsNotConstructed)
	mockFactory.AssertExpectations(t)
}
