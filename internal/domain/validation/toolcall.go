package validation

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// MaxToolNameLength is the maximum length of a tool name.
const MaxToolNameLength = 255

var toolNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ToolCall holds the validated params of a tools/call request.
// Arguments is always a JSON object ("{}" when the client sent none).
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// ValidateToolName rejects empty, oversized or malformed tool names.
func ValidateToolName(name string) error {
	if name == "" {
		return NewValidationError(ErrCodeInvalidParams, "tool name is required")
	}
	if len(name) > MaxToolNameLength {
		return NewValidationError(ErrCodeInvalidParams, "tool name too long")
	}
	if strings.Contains(name, "..") || strings.Contains(name, "/") {
		return NewValidationError(ErrCodeInvalidParams, "invalid characters in tool name")
	}
	if !toolNamePattern.MatchString(name) {
		return NewValidationError(ErrCodeInvalidParams, "invalid tool name format")
	}
	return nil
}

// ParseToolCall validates tools/call params:
//
//	{
//	  "name": "tool_name",
//	  "arguments": { ... }
//	}
//
// Missing or null arguments become an empty object. Any other non-object
// arguments value is rejected with ErrCodeInvalidParams.
func ParseToolCall(params json.RawMessage) (ToolCall, error) {
	var raw struct {
		Name      *string         `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if len(params) == 0 {
		return ToolCall{}, NewValidationError(ErrCodeInvalidParams, "tool name is required")
	}
	if err := json.Unmarshal(params, &raw); err != nil {
		return ToolCall{}, NewValidationError(ErrCodeInvalidParams, "params must be an object")
	}
	if raw.Name == nil {
		return ToolCall{}, NewValidationError(ErrCodeInvalidParams, "tool name is required")
	}
	if err := ValidateToolName(*raw.Name); err != nil {
		return ToolCall{}, err
	}

	args := bytes.TrimSpace(raw.Arguments)
	switch {
	case len(args) == 0 || bytes.Equal(args, []byte("null")):
		args = []byte("{}")
	case args[0] != '{':
		return ToolCall{}, NewValidationError(ErrCodeInvalidParams, "arguments must be an object")
	}

	return ToolCall{Name: *raw.Name, Arguments: args}, nil
}
