package service

import (
	"strings"
	"testing"

	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

func TestNewCatalogEvaluator_Notes(t *testing.T) {
	t.Parallel()

	c, err := criteria.NewCatalog("respiratory", "", []criteria.Definition{
		{Name: "hypoxia", Label: "Hypoxia"},
		{Name: "hypotension", Label: "Hypotension"},
	}, criteria.Note{When: `"hypotension" in missing`, Text: "Measure blood pressure."})
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}
	eval, err := NewCatalogEvaluator(c)
	if err != nil {
		t.Fatalf("NewCatalogEvaluator() error: %v", err)
	}

	rec, err := eval.Evaluate(criteria.Set{"hypoxia": criteria.Met})
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if !rec.Admit {
		t.Error("Admit = false, want true")
	}
	if !strings.HasSuffix(rec.Summary, " Measure blood pressure.") {
		t.Errorf("Summary = %q, want note appended", rec.Summary)
	}
}

// Notes written as if they were decision rules still leave the
// at-least-one-met decision untouched.
func TestNewCatalogEvaluator_NotesNeverDecide(t *testing.T) {
	t.Parallel()

	defs := []criteria.Definition{
		{Name: "hypoxia", Label: "Hypoxia"},
		{Name: "hypotension", Label: "Hypotension"},
	}
	notes := []criteria.Note{
		{When: "false", Text: "Never shown."},
		{When: "size(missing) > 0", Text: "Some inputs are unknown."},
		{When: "size(triggered) >= 2", Text: "Multiple criteria met."},
	}
	c, err := criteria.NewCatalog("overrides", "", defs, notes...)
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}
	eval, err := NewCatalogEvaluator(c)
	if err != nil {
		t.Fatalf("NewCatalogEvaluator() error: %v", err)
	}

	tests := []struct {
		name      string
		set       criteria.Set
		wantAdmit bool
	}{
		{"one met one not met", criteria.Set{"hypoxia": criteria.Met, "hypotension": criteria.NotMet}, true},
		{"nothing reported", criteria.Set{}, false},
		{"all not met", criteria.Set{"hypoxia": criteria.NotMet, "hypotension": criteria.NotMet}, false},
		{"both met", criteria.Set{"hypoxia": criteria.Met, "hypotension": criteria.Met}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, err := eval.Evaluate(tt.set)
			if err != nil {
				t.Fatalf("Evaluate() error: %v", err)
			}
			if rec.Admit != tt.wantAdmit {
				t.Errorf("Admit = %v, want %v (summary %q)", rec.Admit, tt.wantAdmit, rec.Summary)
			}
			if rec.Admit && !strings.HasPrefix(rec.Summary, "Recommend inpatient admission") {
				t.Errorf("Summary = %q", rec.Summary)
			}
			if strings.Contains(rec.Summary, "Never shown.") {
				t.Errorf("Summary = %q includes a note whose condition is false", rec.Summary)
			}
		})
	}
}

func TestNewCatalogEvaluator_BadNote(t *testing.T) {
	t.Parallel()

	c, err := criteria.NewCatalog("broken", "", []criteria.Definition{{Name: "hypoxia", Label: "Hypoxia"}},
		criteria.Note{When: "size(", Text: "x"})
	if err != nil {
		t.Fatalf("NewCatalog() error: %v", err)
	}
	if _, err := NewCatalogEvaluator(c); err == nil || !strings.Contains(err.Error(), "notes[0]") {
		t.Errorf("NewCatalogEvaluator() error = %v, want notes[0] error", err)
	}
}
