package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sentinel-Gate/admitgate/internal/adapter/inbound/jsoninput"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"file not found", criteria.NewValidationError(criteria.KindFileNotFound, "x.json", "missing"), 3},
		{"malformed json", criteria.NewValidationError(criteria.KindMalformedJSON, "", "bad"), 4},
		{"unknown criterion", criteria.NewValidationError(criteria.KindUnknownCriterion, "fever", "unknown"), 5},
		{"invalid value", criteria.NewValidationError(criteria.KindInvalidValueType, "hypoxemia", "bad"), 6},
		{"wrapped", fmt.Errorf("evaluation failed: %w", criteria.ErrUnknownCriterion), 5},
		{"other", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// Each decoder failure must reach a distinct exit code.
func TestExitCode_DecoderErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	dec := jsoninput.NewDecoder(criteria.DefaultCatalog(), jsoninput.UnknownReject)
	tests := []struct {
		name string
		path string
		want int
	}{
		{"missing file", filepath.Join(dir, "absent.json"), 3},
		{"not json", write("bad.json", "{hypoxemia: yes"), 4},
		{"unknown key", write("unknown.json", `{"fever": true}`), 5},
		{"string value", write("value.json", `{"hypoxemia": "true"}`), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dec.DecodeFile(tt.path)
			if got := exitCode(err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", err, got, tt.want)
			}
		})
	}
}
