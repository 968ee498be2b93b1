// Package http exposes the procurement policy core over REST. Handlers do
// request parsing and status-code mapping only; every decision is made by the
// application layer.
package http

import (
	"errors"
	"net/http"
	"time"

	"procurement/internal/core/application/usecases/commands"
	"procurement/internal/core/application/usecases/queries"
	"procurement/internal/core/domain/model/escalation"
	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// EscalationControl is the operator surface of the escalation scan job.
type EscalationControl interface {
	Pause()
	Resume()
	IsPaused() bool
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler         commands.CreateOrderCommandHandler
	transitionOrderHandler     commands.TransitionOrderCommandHandler
	resolveTimeoutEventHandler commands.ResolveTimeoutEventCommandHandler

	// Query handlers
	evaluateActionHandler         queries.EvaluateActionQueryHandler
	evaluateRulesHandler          queries.EvaluateRulesQueryHandler
	overdueSupplierSummaryHandler queries.GetOverdueSupplierSummaryQueryHandler

	escalationControl EscalationControl
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	resolveTimeoutEventHandler commands.ResolveTimeoutEventCommandHandler,
	evaluateActionHandler queries.EvaluateActionQueryHandler,
	evaluateRulesHandler queries.EvaluateRulesQueryHandler,
	overdueSupplierSummaryHandler queries.GetOverdueSupplierSummaryQueryHandler,
	escalationControl EscalationControl,
) *Server {
	return &Server{
		createOrderHandler:            createOrderHandler,
		transitionOrderHandler:        transitionOrderHandler,
		resolveTimeoutEventHandler:    resolveTimeoutEventHandler,
		evaluateActionHandler:         evaluateActionHandler,
		evaluateRulesHandler:          evaluateRulesHandler,
		overdueSupplierSummaryHandler: overdueSupplierSummaryHandler,
		escalationControl:             escalationControl,
	}
}

// RegisterRoutes mounts all API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:id/transition", s.TransitionOrder)
	api.GET("/orders/:id/violations", s.GetOrderViolations)
	api.GET("/orders/:id/permissions", s.EvaluateOrderPermission)
	api.POST("/timeout-events/:id/resolve", s.ResolveTimeoutEvent)
	api.GET("/suppliers/overdue-summary", s.GetOverdueSupplierSummary)
	api.POST("/escalation/pause", s.PauseEscalation)
	api.POST("/escalation/resume", s.ResumeEscalation)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
}

// CreateOrder handles POST /api/v1/orders - registers a new purchase order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	supplierID, err := kernel.UUIDFromString(request.SupplierID)
	if err != nil {
		return badRequest(ctx, "Invalid supplier id: "+err.Error())
	}

	lineItems := make([]commands.LineItemSpec, 0, len(request.LineItems))
	for _, item := range request.LineItems {
		lineItems = append(lineItems, commands.LineItemSpec{
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			CustomGlass:    item.CustomGlass,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		request.Number,
		supplierID,
		order.Priority(request.Priority),
		lineItems,
		request.InvoiceRequired,
		permissions.Role(request.Role),
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	decision, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return internalError(ctx, "Failed to create order")
	}
	if !decision.Allowed {
		return ctx.JSON(http.StatusForbidden, CreateOrderResponse{
			Decision: decisionFromDomain(decision),
		})
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{
		ID:       orderID.String(),
		Decision: decisionFromDomain(decision),
	})
}

// TransitionOrder handles POST /api/v1/orders/:id/transition - applies one
// lifecycle action to an order.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var request TransitionOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	observedUpdatedAt, err := time.Parse(time.RFC3339Nano, request.ObservedUpdatedAt)
	if err != nil {
		return badRequest(ctx, "Invalid observedUpdatedAt: "+err.Error())
	}

	cmd, err := commands.NewTransitionOrderCommand(
		orderID,
		order.Action(request.Action),
		permissions.Role(request.Role),
		request.Actor,
		observedUpdatedAt,
	)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	result, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			return notFound(ctx, "Order not found")
		case errors.Is(err, errs.ErrConcurrentModification):
			return ctx.JSON(http.StatusConflict, ErrorResponse{
				Code:    http.StatusConflict,
				Message: "Order was modified concurrently, re-read and retry",
			})
		default:
			return internalError(ctx, "Failed to transition order")
		}
	}

	response := TransitionOrderResponse{
		Allowed:            result.Allowed,
		Reasons:            result.Reasons,
		RequiresApproval:   result.RequiresApproval,
		EscalationRequired: result.EscalationRequired,
	}
	if !result.Allowed {
		return ctx.JSON(http.StatusForbidden, response)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrderViolations handles GET /api/v1/orders/:id/violations - evaluates
// every active rule against the order.
func (s *Server) GetOrderViolations(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewEvaluateRulesQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	evaluation, err := s.evaluateRulesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return notFound(ctx, "Order not found")
		}
		return internalError(ctx, "Failed to evaluate rules")
	}

	response := OrderViolationsResponse{
		Violations:   make([]ViolationView, 0, len(evaluation.Violations)),
		CanDispatch:  evaluation.CanDispatch,
		CanComplete:  evaluation.CanComplete,
		ErrorCount:   evaluation.ErrorCount,
		WarningCount: evaluation.WarningCount,
	}
	for _, violation := range evaluation.Violations {
		response.Violations = append(response.Violations, ViolationView{
			RuleID:   violation.RuleID,
			RuleName: violation.RuleName,
			Category: string(violation.Category),
			Severity: string(violation.Severity),
			Message:  violation.Message,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// EvaluateOrderPermission handles GET /api/v1/orders/:id/permissions - answers
// whether a role could perform an action, without side effects.
func (s *Server) EvaluateOrderPermission(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewEvaluateActionQuery(
		orderID,
		order.Action(ctx.QueryParam("action")),
		permissions.Role(ctx.QueryParam("role")),
	)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	result, err := s.evaluateActionHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return notFound(ctx, "Order not found")
		}
		return internalError(ctx, "Failed to evaluate action")
	}

	return ctx.JSON(http.StatusOK, EvaluateActionResponse{
		Allowed:            result.Allowed,
		Reasons:            result.Reasons,
		RequiresApproval:   result.RequiresApproval,
		EscalationRequired: result.EscalationRequired,
	})
}

// ResolveTimeoutEvent handles POST /api/v1/timeout-events/:id/resolve -
// manual override of an open timeout event.
func (s *Server) ResolveTimeoutEvent(ctx echo.Context) error {
	eventID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid event id: "+err.Error())
	}

	var request ResolveTimeoutEventRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewResolveTimeoutEventCommand(
		eventID,
		permissions.Role(request.Role),
		request.Actor,
		request.Reason,
	)
	if err != nil {
		return badRequest(ctx, "Invalid resolve data: "+err.Error())
	}

	resolved, err := s.resolveTimeoutEventHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			return notFound(ctx, "Timeout event not found")
		case errors.Is(err, escalation.ErrTimeoutEventAlreadyResolved):
			return ctx.JSON(http.StatusConflict, ErrorResponse{
				Code:    http.StatusConflict,
				Message: "Timeout event is already resolved",
			})
		default:
			return internalError(ctx, "Failed to resolve timeout event")
		}
	}
	if !resolved {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "Manual override requires an ADMIN or MANAGER role",
		})
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOverdueSupplierSummary handles GET /api/v1/suppliers/overdue-summary.
func (s *Server) GetOverdueSupplierSummary(ctx echo.Context) error {
	summaries, err := s.overdueSupplierSummaryHandler.Handle(
		ctx.Request().Context(),
		queries.NewGetOverdueSupplierSummaryQuery(),
	)
	if err != nil {
		return internalError(ctx, "Failed to compute overdue summary")
	}

	response := make([]OverdueSupplierSummaryView, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, OverdueSupplierSummaryView{
			SupplierID:           summary.SupplierID.String(),
			SupplierName:         summary.SupplierName,
			OverdueCount:         summary.OverdueCount,
			OverdueValueCents:    summary.OverdueValueCents,
			AvgConfirmationHours: summary.AvgConfirmationHours,
			ResponseRate:         summary.ResponseRate,
			EscalationRequired:   summary.EscalationRequired,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// PauseEscalation handles POST /api/v1/escalation/pause.
func (s *Server) PauseEscalation(ctx echo.Context) error {
	s.escalationControl.Pause()
	return ctx.JSON(http.StatusOK, EscalationStateResponse{Paused: s.escalationControl.IsPaused()})
}

// ResumeEscalation handles POST /api/v1/escalation/resume.
func (s *Server) ResumeEscalation(ctx echo.Context) error {
	s.escalationControl.Resume()
	return ctx.JSON(http.StatusOK, EscalationStateResponse{Paused: s.escalationControl.IsPaused()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{Code: http.StatusBadRequest, Message: message})
}

func notFound(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusNotFound, ErrorResponse{Code: http.StatusNotFound, Message: message})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Code: http.StatusInternalServerError, Message: message})
}

func decisionFromDomain(decision permissions.Decision) DecisionView {
	return DecisionView{
		Allowed:            decision.Allowed,
		Reason:             decision.Reason,
		RequiresApproval:   decision.RequiresApproval,
		EscalationRequired: decision.EscalationRequired,
	}
}
