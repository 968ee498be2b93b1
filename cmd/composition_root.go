package cmd

import (
	"fmt"
	"log/slog"

	"procurement/internal/adapters/out/audit"
	"procurement/internal/adapters/out/clock"
	"procurement/internal/adapters/out/notify"
	"procurement/internal/adapters/out/postgres"
	"procurement/internal/core/application/usecases/commands"
	"procurement/internal/core/application/usecases/queries"
	"procurement/internal/core/domain/model/escalation"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/core/domain/model/rules"
	"procurement/internal/core/domain/services"
	"procurement/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot wires the policy core: seeded rule set, permission matrix,
// escalation ladder, domain services, and the persistence adapters. Seeding
// errors are configuration errors and abort startup.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	ruleEngine        services.RuleEngine
	evaluator         services.PermissionEvaluator
	transitionService services.TransitionService
	monitor           services.EscalationMonitor

	auditSink   *audit.GormAuditSink
	notifier    ports.NotificationSink
	systemClock ports.Clock
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	ruleSet, warnings, err := rules.SeedRules()
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("failed to load rule set: %w", err)
	}
	for _, warning := range warnings {
		logger.Warn("Rule set warning", "warning", warning)
	}

	matrix, err := permissions.DefaultMatrix()
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("failed to load permission matrix: %w", err)
	}

	ladder, err := escalation.SeedLadder()
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("failed to load escalation ladder: %w", err)
	}

	auditSink := audit.NewGormAuditSink(gormDB, logger)
	notifier := notify.NewSlogNotificationSink(notify.Directory{
		permissions.RoleAdmin:          {"dl-procurement-admins"},
		permissions.RoleManager:        {"dl-procurement-managers"},
		permissions.RoleEmployee:       {"dl-procurement-requesters"},
		permissions.RoleWarehouseStaff: {"dl-warehouse"},
		permissions.RoleAccounting:     {"dl-accounts-payable"},
	}, logger)

	engine := services.NewRuleEngine(ruleSet)
	evaluator := services.NewPermissionEvaluator(matrix, auditSink)

	return CompositionRoot{
		gormDB:            gormDB,
		uowFactory:        *postgres.NewGormUnitOfWorkFactory(gormDB),
		ruleEngine:        engine,
		evaluator:         evaluator,
		transitionService: services.NewTransitionService(engine, evaluator),
		monitor:           services.NewEscalationMonitor(ladder),
		auditSink:         auditSink,
		notifier:          notifier,
		systemClock:       clock.NewSystemClock(),
	}, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.evaluator, c.systemClock)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.transitionService, c.systemClock)
}

func (c *CompositionRoot) CreateResolveTimeoutEventCommandHandler() commands.ResolveTimeoutEventCommandHandler {
	var f commands.EventUoWFactory = FuncEventUoWFactory(func() commands.EventUoW {
		return c.uowFactory.Create()
	})
	return commands.NewResolveTimeoutEventCommandHandler(f, c.auditSink, c.systemClock)
}

func (c *CompositionRoot) CreateRunEscalationScanCommandHandler() commands.RunEscalationScanCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRunEscalationScanCommandHandler(f, c.monitor, c.transitionService, c.notifier, c.systemClock)
}

func (c *CompositionRoot) CreateEvaluateActionQueryHandler() queries.EvaluateActionQueryHandler {
	uow := c.uowFactory.Create()
	return queries.NewEvaluateActionQueryHandler(
		uow.OrderRepository(),
		uow.SupplierRepository(),
		c.transitionService,
		c.systemClock,
	)
}

func (c *CompositionRoot) CreateEvaluateRulesQueryHandler() queries.EvaluateRulesQueryHandler {
	uow := c.uowFactory.Create()
	return queries.NewEvaluateRulesQueryHandler(
		uow.OrderRepository(),
		uow.SupplierRepository(),
		c.ruleEngine,
		c.systemClock,
	)
}

func (c *CompositionRoot) CreateGetOverdueSupplierSummaryQueryHandler() queries.GetOverdueSupplierSummaryQueryHandler {
	return queries.NewGetOverdueSupplierSummaryQueryHandler(c.gormDB, c.systemClock)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncTransitionUoWFactory func() commands.TransitionUoW

func (f FuncTransitionUoWFactory) Create() commands.TransitionUoW {
	return f()
}

type FuncEventUoWFactory func() commands.EventUoW

func (f FuncEventUoWFactory) Create() commands.EventUoW {
	return f()
}
