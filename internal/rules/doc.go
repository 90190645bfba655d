// Package rules implements the mutation-reactive invariant engine.
//
// Callers describe a row change as a Mutation and hand it to a
// Dispatcher. The dispatcher runs every rule registered for the
// mutation's (table, kind) pair in registration order; the first
// rejection aborts the enclosing transaction with a typed error, and
// accepted rules may return additional mutations (effects) that are
// applied - and themselves rule-checked - in the same transaction.
//
// The engine holds no state outside the transaction it is dispatching
// into: the registry is immutable after construction and rules are pure
// functions of (before, after, transaction reads). That makes the
// engine safe to share across concurrent callers and safe to re-run
// when a transaction is retried after a conflict.
package rules
