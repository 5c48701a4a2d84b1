package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers admit-gate validation rules.
// Must be called before validating AppConfig.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("policy_file", validatePolicyFile); err != nil {
		return fmt.Errorf("failed to register policy_file validator: %w", err)
	}
	if err := v.RegisterValidation("prom_textfile", validatePromTextfile); err != nil {
		return fmt.Errorf("failed to register prom_textfile validator: %w", err)
	}
	return nil
}

// validatePolicyFile accepts paths with a .yaml or .yml extension.
func validatePolicyFile(fl validator.FieldLevel) bool {
	switch strings.ToLower(filepath.Ext(fl.Field().String())) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// validatePromTextfile accepts paths ending in .prom, the only files the
// node_exporter textfile collector reads.
func validatePromTextfile(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	return filepath.Ext(path) == ".prom" && filepath.Base(path) != ".prom"
}

// Validate validates the AppConfig using struct tags.
// Returns an error with actionable messages if validation fails.
func (c *AppConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := RegisterCustomValidators(v); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors converts validator.ValidationErrors to user-friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

// formatSingleValidationError creates a user-friendly message for a single validation error.
func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "policy_file":
		return fmt.Sprintf("%s must be a .yaml or .yml file", field)
	case "prom_textfile":
		return fmt.Sprintf("%s must be a file name ending in .prom", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
