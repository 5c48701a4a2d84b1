package admission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

// ErrAnnotationFailed is returned when a policy note cannot be evaluated.
var ErrAnnotationFailed = errors.New("policy note failed")

// Evaluator applies the at-least-one-met rule to criteria Sets over a fixed
// Catalog. It holds no mutable state and performs no I/O.
type Evaluator struct {
	catalog   *criteria.Catalog
	annotator Annotator
}

// NewEvaluator creates an Evaluator. annotator may be nil.
func NewEvaluator(catalog *criteria.Catalog, annotator Annotator) *Evaluator {
	return &Evaluator{catalog: catalog, annotator: annotator}
}

// Catalog returns the evaluator's catalog.
func (e *Evaluator) Catalog() *criteria.Catalog {
	return e.catalog
}

// Evaluate partitions the Set over the catalog. Admission is recommended
// iff at least one criterion is Met. Criteria missing from the Set are
// Absent and are reported as missing, never as not met. On error no
// Recommendation is returned.
func (e *Evaluator) Evaluate(set criteria.Set) (Recommendation, error) {
	if err := e.catalog.Check(set); err != nil {
		return Recommendation{}, err
	}

	facts := Partition(e.catalog, set)
	summary := Summarize(e.catalog, facts)

	if e.annotator != nil {
		notes, err := e.annotator.Annotate(facts)
		if err != nil {
			return Recommendation{}, fmt.Errorf("%w: %w", ErrAnnotationFailed, err)
		}
		if len(notes) > 0 {
			summary += " " + strings.Join(notes, " ")
		}
	}

	return Recommendation{
		Policy:    e.catalog.Name(),
		Admit:     len(facts.Triggered) > 0,
		Triggered: facts.Triggered,
		Missing:   facts.Missing,
		Summary:   summary,
	}, nil
}

// Partition splits the catalog's criteria by state in canonical order.
// Every catalog name lands in exactly one of Triggered, Missing or NotMet.
func Partition(catalog *criteria.Catalog, set criteria.Set) Facts {
	facts := Facts{
		Triggered: []string{},
		Missing:   []string{},
		NotMet:    []string{},
		States:    make(map[string]criteria.State, catalog.Len()),
	}
	for _, name := range catalog.Names() {
		st := set.Get(name)
		facts.States[name] = st
		switch st {
		case criteria.Met:
			facts.Triggered = append(facts.Triggered, name)
		case criteria.NotMet:
			facts.NotMet = append(facts.NotMet, name)
		default:
			facts.Missing = append(facts.Missing, name)
		}
	}
	return facts
}

// Evaluate evaluates set against the built-in catalog.
func Evaluate(set criteria.Set) (Recommendation, error) {
	return NewEvaluator(criteria.DefaultCatalog(), nil).Evaluate(set)
}
