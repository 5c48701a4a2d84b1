package stdio

import "github.com/Sentinel-Gate/admitgate/internal/domain/admission"

type implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

type serverCapabilities struct {
	Tools *toolsCapability `json:"tools,omitempty"`
}

type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    serverCapabilities `json:"capabilities"`
	ServerInfo      implementation     `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

type schemaProperty struct {
	Type        []string `json:"type"`
	Description string   `json:"description,omitempty"`
}

type inputSchema struct {
	Type                 string                    `json:"type"`
	Properties           map[string]schemaProperty `json:"properties"`
	AdditionalProperties bool                      `json:"additionalProperties"`
}

type tool struct {
	Name        string      `json:"name"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description"`
	InputSchema inputSchema `json:"inputSchema"`
}

type listToolsResult struct {
	Tools []tool `json:"tools"`
}

type content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callToolResult struct {
	Content           []content         `json:"content"`
	StructuredContent *admission.Record `json:"structuredContent,omitempty"`
	IsError           bool              `json:"isError,omitempty"`
}
