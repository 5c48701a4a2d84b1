// Package jsoninput decodes criteria documents into evaluation requests.
//
// A document is a JSON object whose keys are criterion names and whose
// values are true, false or null. The metadata keys patient_id and
// encounter_id may carry a string or null.
package jsoninput

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/Sentinel-Gate/admitgate/internal/domain/admission"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

// MaxInputBytes caps the size of a criteria document.
const MaxInputBytes = 1 << 20

// UnknownMode selects how keys outside the catalog are handled.
type UnknownMode string

const (
	// UnknownReject fails decoding with UnknownCriterion.
	UnknownReject UnknownMode = "reject"
	// UnknownIgnore drops the key and reports it in Request.Ignored.
	UnknownIgnore UnknownMode = "ignore"
)

// Decoder turns raw documents into admission requests for one catalog.
type Decoder struct {
	catalog *criteria.Catalog
	unknown UnknownMode
}

// NewDecoder creates a Decoder. An empty mode means UnknownReject.
func NewDecoder(catalog *criteria.Catalog, mode UnknownMode) *Decoder {
	if mode == "" {
		mode = UnknownReject
	}
	return &Decoder{catalog: catalog, unknown: mode}
}

// Mode reports how unknown keys are handled.
func (d *Decoder) Mode() UnknownMode {
	return d.unknown
}

// DecodeFile reads and decodes the document at path.
func (d *Decoder) DecodeFile(path string) (admission.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		msg := "cannot open input file"
		if errors.Is(err, fs.ErrNotExist) {
			msg = "input file does not exist"
		}
		return admission.Request{}, &criteria.ValidationError{
			Kind:    criteria.KindFileNotFound,
			Field:   path,
			Message: msg,
			Err:     err,
		}
	}
	defer f.Close()

	info, err := f.Stat()
	if err == nil && info.IsDir() {
		return admission.Request{}, criteria.NewValidationError(criteria.KindFileNotFound, path, "input path is a directory")
	}

	return d.DecodeReader(f)
}

// DecodeReader reads at most MaxInputBytes from r and decodes them.
func (d *Decoder) DecodeReader(r io.Reader) (admission.Request, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return admission.Request{}, &criteria.ValidationError{
			Kind:    criteria.KindFileNotFound,
			Message: "cannot read input",
			Err:     err,
		}
	}
	if len(data) > MaxInputBytes {
		return admission.Request{}, criteria.NewValidationError(criteria.KindMalformedJSON, "",
			fmt.Sprintf("input exceeds %d bytes", MaxInputBytes))
	}
	return d.Decode(data)
}

// Decode parses a criteria document.
func (d *Decoder) Decode(data []byte) (admission.Request, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return admission.Request{}, err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	req := admission.Request{Set: make(criteria.Set, len(fields))}
	for _, key := range keys {
		raw := fields[key]

		switch {
		case key == criteria.KeyPatientID:
			if req.PatientID, err = decodeOptionalString(key, raw); err != nil {
				return admission.Request{}, err
			}
		case key == criteria.KeyEncounterID:
			if req.EncounterID, err = decodeOptionalString(key, raw); err != nil {
				return admission.Request{}, err
			}
		case !d.catalog.Has(key):
			if d.unknown == UnknownIgnore {
				req.Ignored = append(req.Ignored, key)
				continue
			}
			return admission.Request{}, criteria.NewValidationError(criteria.KindUnknownCriterion, key,
				fmt.Sprintf("not a criterion of policy %s", d.catalog.Name()))
		default:
			st, err := decodeState(key, raw)
			if err != nil {
				return admission.Request{}, err
			}
			req.Set[key] = st
		}
	}

	return req, nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, criteria.NewValidationError(criteria.KindMalformedJSON, "", "input is empty")
	}
	var probe any
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, &criteria.ValidationError{
			Kind:    criteria.KindMalformedJSON,
			Message: "input is not valid JSON",
			Err:     err,
		}
	}
	if trimmed[0] != '{' {
		return nil, criteria.NewValidationError(criteria.KindMalformedJSON, "",
			fmt.Sprintf("top-level value must be an object, got %s", jsonKind(trimmed)))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &criteria.ValidationError{
			Kind:    criteria.KindMalformedJSON,
			Message: "input is not a JSON object",
			Err:     err,
		}
	}
	return fields, nil
}

func decodeState(key string, raw json.RawMessage) (criteria.State, error) {
	var v *bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return criteria.Absent, criteria.NewValidationError(criteria.KindInvalidValueType, key,
			fmt.Sprintf("must be true, false or null, got %s", jsonKind(raw)))
	}
	return criteria.FromBool(v), nil
}

func decodeOptionalString(key string, raw json.RawMessage) (string, error) {
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", criteria.NewValidationError(criteria.KindInvalidValueType, key,
			fmt.Sprintf("must be a string or null, got %s", jsonKind(raw)))
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// jsonKind names the JSON type of a valid encoded value.
func jsonKind(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "nothing"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
