package criteria

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Metadata keys accepted alongside criteria in an input document.
// They can never be used as criterion names.
const (
	KeyPatientID   = "patient_id"
	KeyEncounterID = "encounter_id"
)

// ErrInvalidCatalog is returned when a catalog definition is inconsistent.
var ErrInvalidCatalog = errors.New("invalid criteria catalog")

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidName reports whether name is usable as a criterion name.
func ValidName(name string) bool {
	return namePattern.MatchString(name) && !IsReservedKey(name)
}

// IsReservedKey reports whether key is an input metadata key.
func IsReservedKey(key string) bool {
	return key == KeyPatientID || key == KeyEncounterID
}

// Catalog is the fixed, ordered set of criteria a policy evaluates.
// Catalog order is the canonical order of triggered and missing lists.
// A Catalog is immutable after construction.
type Catalog struct {
	name  string
	title string
	notes []Note
	defs  []Definition
	index map[string]int
}

// Note is an advisory remark appended to the summary when its When
// expression holds. Notes never change the admission decision.
type Note struct {
	When string
	Text string
}

// NewCatalog builds a catalog from ordered definitions.
// Notes are optional; each needs both a condition and a text.
func NewCatalog(name, title string, defs []Definition, notes ...Note) (*Catalog, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidCatalog)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: %s: at least one criterion is required", ErrInvalidCatalog, name)
	}

	index := make(map[string]int, len(defs))
	copied := make([]Definition, len(defs))
	for i, d := range defs {
		if !ValidName(d.Name) {
			return nil, fmt.Errorf("%w: %s: criteria[%d]: invalid name %q", ErrInvalidCatalog, name, i, d.Name)
		}
		if d.Label == "" {
			return nil, fmt.Errorf("%w: %s: criteria[%d]: label is required", ErrInvalidCatalog, name, i)
		}
		if _, dup := index[d.Name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate criterion %q", ErrInvalidCatalog, name, d.Name)
		}
		index[d.Name] = i
		copied[i] = d
	}

	for i, n := range notes {
		if n.When == "" || n.Text == "" {
			return nil, fmt.Errorf("%w: %s: notes[%d]: when and text are required", ErrInvalidCatalog, name, i)
		}
	}

	if title == "" {
		title = name
	}

	return &Catalog{
		name:  name,
		title: title,
		notes: append([]Note(nil), notes...),
		defs:  copied,
		index: index,
	}, nil
}

// Name returns the policy identifier.
func (c *Catalog) Name() string { return c.name }

// Title returns the human-readable policy title.
func (c *Catalog) Title() string { return c.title }

// Notes returns a copy of the advisory notes.
func (c *Catalog) Notes() []Note { return append([]Note(nil), c.notes...) }

// Len returns the number of criteria.
func (c *Catalog) Len() int { return len(c.defs) }

// Definitions returns a copy of the definitions in canonical order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Names returns criterion names in canonical order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.Name
	}
	return out
}

// Has reports whether name is a criterion of this catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Label returns the label of the named criterion, or the name itself if unknown.
func (c *Catalog) Label(name string) string {
	if i, ok := c.index[name]; ok {
		return c.defs[i].Label
	}
	return name
}

// Labels maps names to labels, preserving order.
func (c *Catalog) Labels(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = c.Label(n)
	}
	return out
}

// Check verifies that every entry of set names a catalog criterion and holds
// a defined state. Entries are checked in sorted name order so the reported
// field is deterministic.
func (c *Catalog) Check(set Set) error {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !c.Has(name) {
			return NewValidationError(KindUnknownCriterion, name,
				fmt.Sprintf("not a criterion of policy %s", c.name))
		}
		if st := set[name]; !st.Valid() {
			return NewValidationError(KindInvalidValueType, name,
				fmt.Sprintf("invalid criterion state %d", uint8(st)))
		}
	}
	return nil
}
