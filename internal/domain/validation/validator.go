package validation

import (
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"

	"github.com/Sentinel-Gate/admitgate/pkg/mcp"
)

// MessageValidator validates messages read by the stdio server.
type MessageValidator struct{}

// NewMessageValidator creates a new MessageValidator.
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{}
}

// Validate returns nil if msg can be dispatched, or a *ValidationError.
//
//   - undecoded messages are parse errors
//   - responses are rejected; the server never issues requests
//   - requests and notifications need a method the server handles
//   - notification methods must not carry an id
func (v *MessageValidator) Validate(msg *mcp.Message) error {
	if msg.Decoded == nil {
		return NewValidationError(ErrCodeParseError, "Parse error")
	}

	switch m := msg.Decoded.(type) {
	case *jsonrpc.Request:
		return v.validateRequest(m)
	default:
		return NewValidationError(ErrCodeInvalidRequest, "Invalid Request")
	}
}

func (v *MessageValidator) validateRequest(req *jsonrpc.Request) error {
	if req.Method == "" {
		return NewValidationError(ErrCodeInvalidRequest, "Invalid Request")
	}
	if !IsServerMethod(req.Method) {
		return NewValidationError(ErrCodeMethodNotFound, "Method not found: "+req.Method)
	}
	if IsNotificationMethod(req.Method) && req.IsCall() {
		return NewValidationError(ErrCodeInvalidRequest, "Invalid Request: "+req.Method+" is a notification and must not have an id")
	}
	return nil
}
