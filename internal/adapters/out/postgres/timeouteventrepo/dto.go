// Package timeouteventrepo provides data transfer objects and mapping
// functions for timeout-event persistence.
package timeouteventrepo

import (
	"encoding/json"
	"time"

	"procurement/internal/core/domain/model/escalation"
	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/rules"

	"github.com/google/uuid"
)

// TimeoutEventDTO represents the database structure for persisting timeout
// events. The escalation history travels as a JSONB document.
type TimeoutEventDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;index"`
	RuleID           string
	ElapsedHours     int
	Level            string
	History          []byte `gorm:"type:jsonb"`
	NextEscalationAt *time.Time
	Resolved         bool `gorm:"index"`
	ResolutionMethod string
	ResolutionReason string
	ResolvedAt       *time.Time
	Archived         bool `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the database table name for timeout events.
func (TimeoutEventDTO) TableName() string {
	return "timeout_events"
}

// escalationDTO is the JSONB shape of one history entry.
type escalationDTO struct {
	RuleID         string    `json:"ruleId"`
	Level          string    `json:"level"`
	FiredAt        time.Time `json:"firedAt"`
	RecipientCount int       `json:"recipientCount"`
}

// fromDomain converts a timeout-event aggregate to its database representation.
func fromDomain(aggregate *escalation.TimeoutEvent) (TimeoutEventDTO, error) {
	history := make([]escalationDTO, 0, len(aggregate.History()))
	for _, entry := range aggregate.History() {
		history = append(history, escalationDTO{
			RuleID:         entry.RuleID,
			Level:          string(entry.Level),
			FiredAt:        entry.FiredAt,
			RecipientCount: entry.RecipientCount,
		})
	}
	rawHistory, err := json.Marshal(history)
	if err != nil {
		return TimeoutEventDTO{}, err
	}

	return TimeoutEventDTO{
		ID:               aggregate.ID().Bytes(),
		OrderID:          aggregate.OrderID().Bytes(),
		RuleID:           aggregate.RuleID(),
		ElapsedHours:     aggregate.ElapsedHours(),
		Level:            string(aggregate.Level()),
		History:          rawHistory,
		NextEscalationAt: aggregate.NextEscalationAt(),
		Resolved:         aggregate.IsResolved(),
		ResolutionMethod: string(aggregate.ResolutionMethod()),
		ResolutionReason: aggregate.ResolutionReason(),
		ResolvedAt:       aggregate.ResolvedAt(),
		Archived:         aggregate.IsArchived(),
		CreatedAt:        aggregate.CreatedAt(),
		UpdatedAt:        aggregate.UpdatedAt(),
	}, nil
}

// toDomain converts a database row back to a timeout-event aggregate.
func toDomain(dto TimeoutEventDTO) (*escalation.TimeoutEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var rawHistory []escalationDTO
	if err = json.Unmarshal(dto.History, &rawHistory); err != nil {
		return nil, err
	}

	history := make([]escalation.Escalation, 0, len(rawHistory))
	for _, entry := range rawHistory {
		history = append(history, escalation.Escalation{
			RuleID:         entry.RuleID,
			Level:          rules.Severity(entry.Level),
			FiredAt:        entry.FiredAt,
			RecipientCount: entry.RecipientCount,
		})
	}

	return escalation.RestoreTimeoutEvent(
		id,
		orderID,
		dto.RuleID,
		dto.ElapsedHours,
		rules.Severity(dto.Level),
		history,
		dto.NextEscalationAt,
		dto.Resolved,
		escalation.ResolutionMethod(dto.ResolutionMethod),
		dto.ResolutionReason,
		dto.ResolvedAt,
		dto.Archived,
		dto.CreatedAt,
		dto.UpdatedAt,
	), nil
}
