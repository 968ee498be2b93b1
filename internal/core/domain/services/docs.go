// Package services contains the stateless domain services of the procurement
// core:
//
//   - RuleEngine evaluates the declarative business rules against an order
//     snapshot and derives the dispatch/completion gate states.
//   - PermissionEvaluator decides whether a role may perform an action,
//     applying the permission matrix and the cross-cutting invariants, and
//     records every decision to the audit trail.
//   - TransitionService combines the lifecycle table, the permission
//     evaluator, and the rule engine into a single transition attempt with
//     an optimistic timestamp guard.
//   - EscalationMonitor plans which timeout-ladder rungs fire for an order
//     at a scan instant.
//
// All services take the evaluation time as an explicit argument and never
// read the wall clock, so identical inputs always yield identical results.
package services
