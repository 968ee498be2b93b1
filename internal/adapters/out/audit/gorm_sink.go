// Package audit persists audit entries to Postgres. Recording never fails the
// audited operation: write errors are logged and swallowed.
package audit

import (
	"context"
	"log/slog"
	"time"

	"procurement/internal/core/domain/services"
	"procurement/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEntryDTO represents the database structure of one audit entry.
type AuditEntryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind       string    `gorm:"index"`
	Actor      string
	Role       string
	Action     string
	SubjectID  string `gorm:"index"`
	Allowed    bool
	Detail     string
	RecordedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for audit entries.
func (AuditEntryDTO) TableName() string {
	return "audit_entries"
}

// GormAuditSink implements AuditSink on top of Postgres.
type GormAuditSink struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormAuditSink creates a new Postgres audit sink.
func NewGormAuditSink(db *gorm.DB, logger *slog.Logger) *GormAuditSink {
	return &GormAuditSink{
		db:     db,
		logger: logger.With("component", "audit"),
	}
}

// Record writes one audit entry.
func (s *GormAuditSink) Record(ctx context.Context, entry ports.AuditEntry) {
	dto := AuditEntryDTO{
		ID:         uuid.New(),
		Kind:       entry.Kind,
		Actor:      entry.Actor,
		Role:       entry.Role,
		Action:     entry.Action,
		SubjectID:  entry.SubjectID,
		Allowed:    entry.Allowed,
		Detail:     entry.Detail,
		RecordedAt: entry.RecordedAt,
	}

	if err := s.db.WithContext(ctx).Create(&dto).Error; err != nil {
		s.logger.Error("failed to record audit entry", "kind", entry.Kind, "error", err)
	}
}

// RecordDecision implements the permission evaluator's DecisionRecorder by
// mapping the decision onto a generic audit entry.
func (s *GormAuditSink) RecordDecision(entry services.PermissionAuditEntry) {
	auditEntry := ports.AuditEntry{
		Kind:       "permission_decision",
		Role:       entry.Role.String(),
		Action:     entry.Action.String(),
		Allowed:    entry.Allowed,
		Detail:     entry.Reason,
		RecordedAt: entry.DecidedAt,
	}
	if entry.OrderID != nil {
		auditEntry.SubjectID = entry.OrderID.String()
	}

	s.Record(context.Background(), auditEntry)
}
