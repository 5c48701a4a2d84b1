package validation

import (
	"strings"

	"github.com/Sentinel-Gate/admitgate/pkg/mcp"
)

// ServerMethods lists the methods the admit-gate server answers.
// MCP method names are case-sensitive.
var ServerMethods = map[string]bool{
	mcp.MethodInitialize:  true,
	mcp.MethodInitialized: true,
	mcp.MethodCancelled:   true,
	mcp.MethodPing:        true,
	mcp.MethodToolsList:   true,
	mcp.MethodToolsCall:   true,
}

// IsServerMethod returns true if the server handles method.
func IsServerMethod(method string) bool {
	return ServerMethods[method]
}

// IsNotificationMethod returns true for methods that must be sent as
// notifications, without an id.
func IsNotificationMethod(method string) bool {
	return strings.HasPrefix(method, "notifications/")
}
