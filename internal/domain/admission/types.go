// Package admission contains the policy evaluator that turns tri-state
// criteria into an inpatient admission recommendation.
package admission

import (
	"time"

	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

// Recommendation is the derived output of one evaluation.
// It depends only on the catalog and the input Set, so evaluating the same
// Set twice yields an identical Recommendation.
type Recommendation struct {
	// Policy is the name of the catalog that produced this recommendation.
	Policy string `json:"policy" yaml:"policy"`
	// Admit is true when inpatient admission is recommended.
	Admit bool `json:"admit" yaml:"admit"`
	// Triggered lists criteria that are Met, in catalog order.
	Triggered []string `json:"triggered" yaml:"triggered"`
	// Missing lists criteria that are Absent, in catalog order.
	Missing []string `json:"missing" yaml:"missing"`
	// Summary is the human-readable explanation.
	Summary string `json:"summary" yaml:"summary"`
}

// Facts is the partitioned view of a Set that an Annotator inspects.
type Facts struct {
	Triggered []string
	Missing   []string
	NotMet    []string
	States    map[string]criteria.State
}

// Annotator returns advisory notes for a partitioned Set. Notes are
// appended to the summary and have no effect on Admit.
type Annotator interface {
	Annotate(facts Facts) ([]string, error)
}

// AnnotatorFunc adapts a function to the Annotator interface.
type AnnotatorFunc func(facts Facts) ([]string, error)

// Annotate calls f(facts).
func (f AnnotatorFunc) Annotate(facts Facts) ([]string, error) {
	return f(facts)
}

// Request is one evaluation input with its optional patient metadata.
type Request struct {
	Set         criteria.Set
	PatientID   string
	EncounterID string
	// Ignored lists input keys dropped because they are not catalog criteria.
	Ignored []string
}

// Record wraps a Recommendation with per-call identity for output and logs.
type Record struct {
	EvaluationID   string         `json:"evaluation_id" yaml:"evaluation_id"`
	EvaluatedAt    time.Time      `json:"evaluated_at" yaml:"evaluated_at"`
	Fingerprint    string         `json:"fingerprint" yaml:"fingerprint"`
	PatientID      string         `json:"patient_id,omitempty" yaml:"patient_id,omitempty"`
	EncounterID    string         `json:"encounter_id,omitempty" yaml:"encounter_id,omitempty"`
	Ignored        []string       `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Recommendation Recommendation `json:"recommendation" yaml:"recommendation"`
}
