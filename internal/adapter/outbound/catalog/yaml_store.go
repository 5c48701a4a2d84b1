// Package catalog loads criteria catalogs from YAML policy documents.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
	"github.com/Sentinel-Gate/admitgate/internal/port/outbound"
)

// Document is the on-disk form of a policy catalog.
//
//	name: mcg-sepsis-febrile-illness
//	title: MCG Sepsis & Other Febrile Illness
//	criteria:
//	  - name: hypoxemia
//	    label: Hypoxemia
//	notes:                               # optional
//	  - when: '"hypoxemia" in missing'
//	    text: Obtain pulse oximetry.
type Document struct {
	Name     string              `yaml:"name" validate:"required,max=128"`
	Title    string              `yaml:"title,omitempty" validate:"omitempty,max=256"`
	Criteria []CriterionDocument `yaml:"criteria" validate:"required,min=1,dive"`
	Notes    []NoteDocument      `yaml:"notes,omitempty" validate:"omitempty,max=32,dive"`
}

// CriterionDocument is one criterion entry of a Document.
type CriterionDocument struct {
	Name  string `yaml:"name" validate:"required,criterion_name"`
	Label string `yaml:"label" validate:"required"`
}

// NoteDocument is an advisory note: text is appended to the summary when
// the CEL condition in when holds.
type NoteDocument struct {
	When string `yaml:"when" validate:"required,max=1024"`
	Text string `yaml:"text" validate:"required,max=512"`
}

// ExpressionValidator checks a note condition.
type ExpressionValidator interface {
	ValidateExpression(expr string) error
}

// Store loads and validates catalogs.
type Store struct {
	validate *validator.Validate
	exprs    ExpressionValidator
}

// NewStore creates a Store. exprs may be nil, in which case documents with
// notes are rejected.
func NewStore(exprs ExpressionValidator) (*Store, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("criterion_name", validateCriterionName); err != nil {
		return nil, fmt.Errorf("failed to register criterion_name validator: %w", err)
	}
	return &Store{validate: v, exprs: exprs}, nil
}

func validateCriterionName(fl validator.FieldLevel) bool {
	return criteria.ValidName(fl.Field().String())
}

// LoadFile reads a catalog from a YAML file.
func (s *Store) LoadFile(path string) (*criteria.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	c, err := s.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog. Unknown keys are rejected.
func (s *Store) Parse(data []byte) (*criteria.Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", criteria.ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: %w", criteria.ErrInvalidCatalog, err)
	}
	return s.Build(doc)
}

// Build validates a Document and converts it into a Catalog.
func (s *Store) Build(doc Document) (*criteria.Catalog, error) {
	if err := s.validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", criteria.ErrInvalidCatalog, formatValidationErrors(err))
	}

	notes := make([]criteria.Note, len(doc.Notes))
	for i, n := range doc.Notes {
		if s.exprs == nil {
			return nil, fmt.Errorf("%w: notes are not supported without an expression engine", criteria.ErrInvalidCatalog)
		}
		expr := strings.TrimSpace(n.When)
		if err := s.exprs.ValidateExpression(expr); err != nil {
			return nil, fmt.Errorf("%w: notes[%d].when: %w", criteria.ErrInvalidCatalog, i, err)
		}
		notes[i] = criteria.Note{When: expr, Text: strings.TrimSpace(n.Text)}
	}

	defs := make([]criteria.Definition, len(doc.Criteria))
	for i, c := range doc.Criteria {
		defs[i] = criteria.Definition{Name: c.Name, Label: c.Label}
	}
	return criteria.NewCatalog(doc.Name, doc.Title, defs, notes...)
}

// Marshal encodes a catalog as a YAML Document.
func Marshal(c *criteria.Catalog) ([]byte, error) {
	doc := Document{
		Name:  c.Name(),
		Title: c.Title(),
	}
	for _, d := range c.Definitions() {
		doc.Criteria = append(doc.Criteria, CriterionDocument{Name: d.Name, Label: d.Label})
	}
	for _, n := range c.Notes() {
		doc.Notes = append(doc.Notes, NoteDocument{When: n.When, Text: n.Text})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleValidationError(e))
	}
	return errors.New(strings.Join(messages, "; "))
}

func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s items", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "criterion_name":
		return fmt.Sprintf("%s must be lower_snake_case and not a reserved key, got %q", field, e.Value())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// Compile-time check that Store implements CatalogLoader.
var _ outbound.CatalogLoader = (*Store)(nil)
