// Package jobs provides scheduled background tasks for the procurement
// policy core.
//
// The single job here is the EscalationScanJob, a cron-based task
// (github.com/robfig/cron/v3) that runs the escalation monitor every ten
// minutes. Overlapping runs are skipped and operators can pause and resume
// the job at runtime; pausing cancels an in-flight scan between orders.
//
// Jobs are managed through JobManager, which provides a unified start/stop
// interface for the composition root.
package jobs
