// Package ops is the transactional operation library: the named,
// multi-step operations callers invoke against the order system.
//
// Every write operation opens exactly one store transaction and routes
// each row mutation through the invariant rule engine, so an operation
// either commits all of its effects or none. Conflicted transactions
// are retried a bounded number of times before Conflict is surfaced.
//
// Read operations (order detail, the sales report, audit and alert
// scans) never touch the rule engine; they mutate nothing.
package ops
