// Package notify implements the notification sink consumed by the escalation
// monitor. Requests are resolved against a role→address directory and handed
// to the log; a real dispatch transport can replace this adapter without
// touching the core.
package notify

import (
	"context"
	"log/slog"

	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
)

// Directory maps recipient roles to delivery addresses.
type Directory map[permissions.Role][]string

// SlogNotificationSink logs every notification request with its resolved
// recipient addresses.
type SlogNotificationSink struct {
	directory Directory
	logger    *slog.Logger
}

// NewSlogNotificationSink creates a logging notification sink.
func NewSlogNotificationSink(directory Directory, logger *slog.Logger) *SlogNotificationSink {
	return &SlogNotificationSink{
		directory: directory,
		logger:    logger.With("component", "notifications"),
	}
}

// Enqueue resolves the recipient roles and emits the request. Roles without a
// directory entry are reported but do not fail the request.
func (s *SlogNotificationSink) Enqueue(
	_ context.Context,
	recipients []permissions.Role,
	templateID string,
	variables map[string]string,
	priority order.Priority,
) error {
	addresses := make([]string, 0)
	for _, role := range recipients {
		resolved, ok := s.directory[role]
		if !ok {
			s.logger.Warn("no addresses for recipient role", "role", role.String(), "template", templateID)
			continue
		}
		addresses = append(addresses, resolved...)
	}

	s.logger.Info("notification queued",
		"template", templateID,
		"priority", priority.String(),
		"addresses", addresses,
		"variables", variables,
	)
	return nil
}
