// Package render writes evaluation records as text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Sentinel-Gate/admitgate/internal/domain/admission"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

// Format selects an output encoding.
type Format string

const (
	// FormatText is the human-readable report with labels and interpretation.
	FormatText Format = "text"
	// FormatJSON is the indented JSON encoding of the Record.
	FormatJSON Format = "json"
	// FormatYAML is the YAML encoding of the Record.
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Write renders rec to w in the given format.
func Write(w io.Writer, format Format, rec *admission.Record, catalog *criteria.Catalog) error {
	switch format {
	case FormatText, "":
		return writeText(w, rec, catalog)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
