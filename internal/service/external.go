package service

import (
	"context"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
)

// ExternalLedger is the boundary to the user's broader transaction records,
// which live outside this core. A settlement may optionally create a linked
// record there; the core only holds the opaque reference and deletes the
// record when the settlement is deleted.
type ExternalLedger interface {
	// RecordTransfer creates a transaction record for the settlement and
	// returns an opaque reference to it.
	RecordTransfer(ctx context.Context, settlement *models.Settlement) (string, error)

	// DeleteTransfer removes a previously created transaction record.
	DeleteTransfer(ctx context.Context, ref string) error
}

// NoopLedger is an ExternalLedger that records nothing, for standalone
// deployments without a surrounding transaction system.
type NoopLedger struct{}

// RecordTransfer returns an empty reference.
func (NoopLedger) RecordTransfer(ctx context.Context, settlement *models.Settlement) (string, error) {
	return "", nil
}

// DeleteTransfer does nothing.
func (NoopLedger) DeleteTransfer(ctx context.Context, ref string) error {
	return nil
}
