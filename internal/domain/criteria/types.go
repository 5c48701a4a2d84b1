// Package criteria contains the domain types for tri-state clinical admission criteria.
package criteria

import (
	"encoding/json"
	"fmt"
)

// State is the logical value of a single criterion.
// The zero value is Absent so that a criterion missing from a Set is
// never read as NotMet.
type State uint8

const (
	// Absent means the value is unknown or unavailable.
	Absent State = iota
	// NotMet means the criterion was assessed and is false.
	NotMet
	// Met means the criterion was assessed and is true.
	Met
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case NotMet:
		return "not_met"
	case Met:
		return "met"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the three defined states.
func (s State) Valid() bool {
	return s <= Met
}

// FromBool converts an optional boolean into a State. A nil pointer is Absent.
func FromBool(v *bool) State {
	if v == nil {
		return Absent
	}
	if *v {
		return Met
	}
	return NotMet
}

// Bool returns the boolean value of the state and whether it is known.
func (s State) Bool() (value bool, known bool) {
	switch s {
	case Met:
		return true, true
	case NotMet:
		return false, true
	default:
		return false, false
	}
}

// MarshalJSON encodes Met/NotMet as true/false and Absent as null.
func (s State) MarshalJSON() ([]byte, error) {
	switch s {
	case Met:
		return []byte("true"), nil
	case NotMet:
		return []byte("false"), nil
	case Absent:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("cannot encode invalid criterion state %d", uint8(s))
	}
}

// UnmarshalJSON accepts true, false or null.
func (s *State) UnmarshalJSON(data []byte) error {
	var v *bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = FromBool(v)
	return nil
}

// Set maps criterion names to their states for one evaluation.
// Names not present in the Set are Absent.
type Set map[string]State

// Get returns the state of the named criterion, Absent if not present.
func (s Set) Get(name string) State {
	return s[name]
}

// Definition describes one criterion of a catalog.
type Definition struct {
	// Name is the machine name used as JSON key (e.g., "hypoxemia").
	Name string `json:"name" yaml:"name"`
	// Label is the human-readable description shown in explanations.
	Label string `json:"label" yaml:"label"`
}
