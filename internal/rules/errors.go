package rules

import (
	"errors"
	"fmt"
)

// Code categorizes rejections and failures surfaced by the engine and
// the operations built on it.
type Code string

const (
	// CodeInsufficientStock indicates a reservation would exceed
	// available stock. Recoverable: retry with a smaller quantity.
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"

	// CodeOrderNotMutable indicates the order's status forbids the
	// requested change.
	CodeOrderNotMutable Code = "ORDER_NOT_MUTABLE"

	// CodeIllegalTransition indicates a status change outside the
	// allowed transition set.
	CodeIllegalTransition Code = "ILLEGAL_TRANSITION"

	// CodeUnknownCustomer indicates the customer reference could not
	// be resolved.
	CodeUnknownCustomer Code = "UNKNOWN_CUSTOMER"

	// CodeUnknownProduct indicates the product reference could not
	// be resolved.
	CodeUnknownProduct Code = "UNKNOWN_PRODUCT"

	// CodeUnknownOrder indicates the order reference could not
	// be resolved.
	CodeUnknownOrder Code = "UNKNOWN_ORDER"

	// CodeUnknownLineItem indicates the line item reference could not
	// be resolved, or it belongs to a different order.
	CodeUnknownLineItem Code = "UNKNOWN_LINE_ITEM"

	// CodeConflict indicates the transaction lost a write race after
	// exhausting its retry budget. Safe to retry the whole operation.
	CodeConflict Code = "CONFLICT"

	// CodeStoreUnavailable indicates the record store failed for a
	// reason other than a conflict. Fatal for the current call.
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"

	// CodeEffectQuotaExceeded indicates a rule effect cascade exceeded
	// the dispatcher's depth budget, which means a rule set bug.
	CodeEffectQuotaExceeded Code = "EFFECT_QUOTA_EXCEEDED"
)

// Error is a typed rejection with enough structure for the caller to
// act on: which entity, which row, and the attempted vs current values.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Entity names the record kind involved (e.g. "product").
	Entity string

	// ID is the primary key of the involved row, when known.
	ID string

	// Details carries attempted/current values and other context.
	Details map[string]string

	// cause is the wrapped underlying error, when any.
	cause error
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Entity != "" && e.ID != "" {
		return fmt.Sprintf("%s: %s (%s=%s)", e.Code, e.Message, e.Entity, e.ID)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HasCode reports whether err carries the given code.
// Uses errors.As to handle wrapped errors.
func HasCode(err error, code Code) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsInsufficientStock reports whether err is a stock precondition failure.
func IsInsufficientStock(err error) bool { return HasCode(err, CodeInsufficientStock) }

// IsConflict reports whether err is a surfaced write conflict.
func IsConflict(err error) bool { return HasCode(err, CodeConflict) }

// IsIllegalTransition reports whether err is a rejected status change.
func IsIllegalTransition(err error) bool { return HasCode(err, CodeIllegalTransition) }

// IsOrderNotMutable reports whether err is an immutable-order rejection.
func IsOrderNotMutable(err error) bool { return HasCode(err, CodeOrderNotMutable) }

// NewInsufficientStockError builds the rejection for a reservation that
// exceeds available stock.
func NewInsufficientStockError(productID string, requested, available int64) *Error {
	return &Error{
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("requested %d units, %d available", requested, available),
		Entity:  "product",
		ID:      productID,
		Details: map[string]string{
			"requested": fmt.Sprintf("%d", requested),
			"available": fmt.Sprintf("%d", available),
		},
	}
}

// NewOrderNotMutableError builds the rejection for mutating a non-pending order.
func NewOrderNotMutableError(orderID, status string) *Error {
	return &Error{
		Code:    CodeOrderNotMutable,
		Message: fmt.Sprintf("order status %q does not allow line item changes", status),
		Entity:  "order",
		ID:      orderID,
		Details: map[string]string{"status": status},
	}
}

// NewIllegalTransitionError builds the rejection for a status change
// outside the allowed set.
func NewIllegalTransitionError(orderID, from, to string) *Error {
	return &Error{
		Code:    CodeIllegalTransition,
		Message: fmt.Sprintf("transition %s -> %s is not allowed", from, to),
		Entity:  "order",
		ID:      orderID,
		Details: map[string]string{"from": from, "to": to},
	}
}

// NewUnknownError builds a referential failure for the given entity kind.
func NewUnknownError(code Code, entity, id string) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf("%s not found", entity),
		Entity:  entity,
		ID:      id,
	}
}

// NewConflictError builds the error surfaced after the retry budget is
// exhausted.
func NewConflictError(attempts int) *Error {
	return &Error{
		Code:    CodeConflict,
		Message: fmt.Sprintf("transaction conflicted %d times", attempts),
		Details: map[string]string{"attempts": fmt.Sprintf("%d", attempts)},
	}
}

// NewStoreUnavailableError wraps a store failure that is not a conflict.
func NewStoreUnavailableError(cause error) *Error {
	return &Error{
		Code:    CodeStoreUnavailable,
		Message: cause.Error(),
		cause:   cause,
	}
}

// NewEffectQuotaError builds the error for a runaway effect cascade.
func NewEffectQuotaError(applied, limit int) *Error {
	return &Error{
		Code:    CodeEffectQuotaExceeded,
		Message: fmt.Sprintf("effect cascade applied %d mutations, limit %d", applied, limit),
		Details: map[string]string{
			"applied": fmt.Sprintf("%d", applied),
			"limit":   fmt.Sprintf("%d", limit),
		},
	}
}
