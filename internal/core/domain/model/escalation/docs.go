// Package escalation models the time-driven side of the procurement workflow:
// the timeout-rule ladder and the TimeoutEvent aggregate.
//
// A timeout rule is one rung of the ladder: after an order has waited a
// configured number of hours without supplier confirmation, the rung fires a
// status update or a notification at an escalation level. Rungs are sorted by
// threshold (ties broken by id), giving every scan the same walking order.
//
// A TimeoutEvent tracks one order's unconfirmed condition across scans. The
// event is opened when the first rung fires and climbs the ladder from there:
// each fired rung is appended to the event's history, the event's level only
// ever rises, and rungs below the current level are skipped. At most one
// unresolved event exists per order; confirmation, cancellation, or a manual
// override resolves it.
//
// The scanning service in the services package walks the ladder; this package
// holds the configuration and the aggregate.
package escalation
