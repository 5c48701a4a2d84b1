package service

import (
	"fmt"

	celeval "github.com/Sentinel-Gate/admitgate/internal/adapter/outbound/cel"
	"github.com/Sentinel-Gate/admitgate/internal/domain/admission"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

// NewCatalogEvaluator builds an evaluator for catalog. Catalog notes are
// compiled with CEL and only ever extend the summary.
func NewCatalogEvaluator(catalog *criteria.Catalog) (*admission.Evaluator, error) {
	notes := catalog.Notes()
	if len(notes) == 0 {
		return admission.NewEvaluator(catalog, nil), nil
	}

	eval, err := celeval.NewEvaluator()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL evaluator: %w", err)
	}
	annotator, err := eval.NewAnnotator(notes)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", catalog.Name(), err)
	}
	return admission.NewEvaluator(catalog, annotator), nil
}
