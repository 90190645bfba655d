// Package record defines the domain row types the engine operates on:
// products, orders, line items, and the two append-only histories
// (audit records and stock alerts).
//
// Records are plain structs with no behavior beyond validation helpers.
// All monetary amounts are integer cents so derived totals stay exact.
// Mutation of records happens only through the ops package, never by
// writing rows directly.
package record
