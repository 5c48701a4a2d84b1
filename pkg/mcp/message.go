// Package mcp provides MCP message types and JSON-RPC codec utilities
// for the admit-gate stdio server.
package mcp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// Message wraps a decoded JSON-RPC message read from the client.
// It keeps the raw bytes so the request id can be echoed back verbatim.
type Message struct {
	// Raw contains the original bytes of the message.
	Raw []byte

	// Decoded contains the parsed JSON-RPC message.
	// The concrete type is either *jsonrpc.Request or *jsonrpc.Response.
	Decoded jsonrpc.Message

	// Timestamp records when the message was read.
	Timestamp time.Time
}

// IsNotification returns true for requests without an id.
func (m *Message) IsNotification() bool {
	req := m.Request()
	return req != nil && !req.IsCall()
}

// Method returns the method name if this is a request, empty string otherwise.
func (m *Message) Method() string {
	req := m.Request()
	if req == nil {
		return ""
	}
	return req.Method
}

// Request returns the underlying Request if this is a request message.
// Returns nil if this is not a request.
func (m *Message) Request() *jsonrpc.Request {
	if m.Decoded == nil {
		return nil
	}
	req, _ := m.Decoded.(*jsonrpc.Request)
	return req
}

// UnmarshalParams decodes the request params into v.
// A request without params leaves v untouched.
func (m *Message) UnmarshalParams(v any) error {
	req := m.Request()
	if req == nil {
		return errors.New("message is not a request")
	}
	if len(req.Params) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params, v)
}

// RawID returns the request id exactly as it appeared on the wire.
// The SDK's jsonrpc.ID type doesn't marshal correctly through interface{},
// so the ID is taken directly from the raw JSON.
// Returns nil if no ID is found.
func (m *Message) RawID() json.RawMessage {
	return ExtractID(m.Raw)
}

// ExtractID returns the "id" member of a raw JSON-RPC object, preserving
// its original form (number, string or null). It returns nil when raw is
// not a JSON object or has no id.
func ExtractID(raw []byte) json.RawMessage {
	if raw == nil {
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj["id"]
}
