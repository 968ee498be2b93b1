package jobs

import (
	"fmt"
	"log/slog"

	"procurement/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	escalationScanJob *EscalationScanJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	escalationScanHandler commands.RunEscalationScanCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		escalationScanJob: NewEscalationScanJob(escalationScanHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.escalationScanJob.Start(); err != nil {
		return fmt.Errorf("failed to start escalation scan job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.escalationScanJob.Stop()
}

// EscalationScan exposes the escalation job for operator pause/resume control.
func (jm *JobManager) EscalationScan() *EscalationScanJob {
	return jm.escalationScanJob
}
