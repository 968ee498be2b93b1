package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"procurement/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// escalationScanSchedule fires at the top of every 10th minute.
const escalationScanSchedule = "0 */10 * * * *"

// EscalationScanJob runs the escalation monitor on a fixed cadence.
//
// Overlapping runs are skipped: if a scan is still in flight when the next
// tick fires, the tick is dropped so no timeout event collects duplicate
// history entries. Operators can pause the job; pausing also cancels an
// in-flight scan, which the scan handler notices between orders.
type EscalationScanJob struct {
	handler commands.RunEscalationScanCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger

	running atomic.Bool
	paused  atomic.Bool

	mu        sync.Mutex
	cancelRun context.CancelFunc
}

// NewEscalationScanJob creates the escalation scan job.
func NewEscalationScanJob(handler commands.RunEscalationScanCommandHandler, logger *slog.Logger) *EscalationScanJob {
	return &EscalationScanJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "escalation_scan_job"),
	}
}

// Start schedules the job. The first scan fires on the next cadence boundary.
func (j *EscalationScanJob) Start() error {
	_, err := j.cron.AddFunc(escalationScanSchedule, j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Escalation scan job started (running every 10 minutes)")
	return nil
}

// Stop stops the job and cancels any in-flight scan.
func (j *EscalationScanJob) Stop() {
	j.cron.Stop()
	j.cancelInFlight()
	j.logger.InfoContext(context.Background(), "Escalation scan job stopped")
}

// Pause suspends scanning until Resume. An in-flight scan is cancelled; the
// handler checks for cancellation between orders, so the pause takes effect
// promptly.
func (j *EscalationScanJob) Pause() {
	j.paused.Store(true)
	j.cancelInFlight()
	j.logger.InfoContext(context.Background(), "Escalation scan job paused")
}

// Resume re-enables scanning after a pause.
func (j *EscalationScanJob) Resume() {
	j.paused.Store(false)
	j.logger.InfoContext(context.Background(), "Escalation scan job resumed")
}

// IsPaused reports whether the job is currently paused.
func (j *EscalationScanJob) IsPaused() bool {
	return j.paused.Load()
}

func (j *EscalationScanJob) run() {
	ctx := context.Background()

	if j.paused.Load() {
		return
	}
	if !j.running.CompareAndSwap(false, true) {
		j.logger.WarnContext(ctx, "Previous escalation scan still running, skipping this tick")
		return
	}
	defer j.running.Store(false)

	runCtx, cancel := context.WithCancel(ctx)
	j.mu.Lock()
	j.cancelRun = cancel
	j.mu.Unlock()
	defer func() {
		cancel()
		j.mu.Lock()
		j.cancelRun = nil
		j.mu.Unlock()
	}()

	result, err := j.handler.Handle(runCtx, commands.NewRunEscalationScanCommand())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			j.logger.InfoContext(ctx, "Escalation scan cancelled mid-run")
			return
		}
		j.logger.ErrorContext(ctx, "Escalation scan failed", "error", err)
		return
	}

	j.logger.InfoContext(ctx, "Escalation scan finished",
		"created", result.Created,
		"escalated", result.Escalated,
		"notificationsQueued", result.NotificationsQueued,
		"archived", result.Archived,
	)
}

func (j *EscalationScanJob) cancelInFlight() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancelRun != nil {
		j.cancelRun()
	}
}
