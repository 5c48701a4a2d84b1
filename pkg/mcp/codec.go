package mcp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// MCP method names handled by the server.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodCancelled   = "notifications/cancelled"
	MethodPing        = "ping"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
)

// WrapMessage decodes raw JSON-RPC bytes and wraps them in a Message
// stamped with the current time. raw is copied.
func WrapMessage(raw []byte) (*Message, error) {
	decoded, err := jsonrpc.DecodeMessage(raw)
	if err != nil {
		return nil, err
	}

	return &Message{
		Raw:       append([]byte(nil), raw...),
		Decoded:   decoded,
		Timestamp: time.Now(),
	}, nil
}

// ErrorResponse builds a JSON-RPC error response. A nil id is written as null.
func ErrorResponse(id json.RawMessage, code int, message string) []byte {
	resp := map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"id": rawIDOrNull(id),
	}
	b, _ := json.Marshal(resp)
	return b
}

// ResultResponse builds a JSON-RPC success response carrying result.
func ResultResponse(id json.RawMessage, result any) ([]byte, error) {
	body, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	resp := map[string]interface{}{
		"jsonrpc": "2.0",
		"result":  json.RawMessage(body),
		"id":      rawIDOrNull(id),
	}
	return json.Marshal(resp)
}

func rawIDOrNull(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
