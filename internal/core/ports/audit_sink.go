package ports

import (
	"context"
	"time"
)

// AuditEntry is one recorded core decision or state change.
type AuditEntry struct {
	Kind       string
	Actor      string
	Role       string
	Action     string
	SubjectID  string
	Allowed    bool
	Detail     string
	RecordedAt time.Time
}

// AuditSink receives audit entries. Recording must never fail the operation
// being audited; implementations log and swallow their own errors.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}
