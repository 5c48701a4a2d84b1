// Package inbound defines the inbound port interfaces for the evaluation core.
// Inbound adapters (CLI, stdio server) call these interfaces.
package inbound

import (
	"context"

	"github.com/Sentinel-Gate/admitgate/internal/domain/admission"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

// AdmissionService is the inbound port for single-input evaluation.
type AdmissionService interface {
	// Catalog returns the active criteria catalog.
	Catalog() *criteria.Catalog

	// Evaluate evaluates one decoded request. Returns no record on error.
	Evaluate(ctx context.Context, req admission.Request) (*admission.Record, error)

	// RecordFailure reports an input rejected before evaluation.
	RecordFailure(ctx context.Context, err error)
}
