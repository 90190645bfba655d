package guard

import (
	"context"
	"fmt"

	"ordercore/internal/record"
	"ordercore/internal/rules"
	"ordercore/internal/store"
)

// auditStatusChange is an order-update rule. It validates the status
// transition and, for every accepted transition, derives exactly one
// append-only audit record carrying the old and new status and totals.
//
// Updates that leave the status unchanged (total recalculation) pass
// through silently: the ledger records transitions, not arithmetic.
func auditStatusChange(ctx context.Context, tx *store.Tx, m rules.Mutation, rc *rules.Context) (rules.Effects, error) {
	before, bok := m.Before.(*record.Order)
	after, aok := m.After.(*record.Order)
	if !bok || !aok {
		return nil, fmt.Errorf("audit: unexpected row types %T, %T", m.Before, m.After)
	}

	if before.Status == after.Status {
		return nil, nil
	}

	if !record.ValidStatus(after.Status) {
		return nil, rules.NewIllegalTransitionError(after.ID, string(before.Status), string(after.Status))
	}
	if !record.CanTransition(before.Status, after.Status) {
		return nil, rules.NewIllegalTransitionError(after.ID, string(before.Status), string(after.Status))
	}

	entry := &record.AuditRecord{
		ID:            rc.NewID(),
		OrderID:       after.ID,
		Action:        record.ActionStatusChange,
		OldStatus:     before.Status,
		NewStatus:     after.Status,
		OldTotalCents: before.TotalCents,
		NewTotalCents: after.TotalCents,
		Actor:         rc.Actor,
		CreatedAt:     rc.Now(),
	}

	return rules.Effects{
		{Table: record.TableAudit, Kind: rules.Insert, After: entry},
	}, nil
}
