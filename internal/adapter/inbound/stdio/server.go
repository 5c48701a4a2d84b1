// Package stdio serves admission evaluation as an MCP tool over
// newline-delimited JSON-RPC on stdin/stdout.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Sentinel-Gate/admitgate/internal/adapter/inbound/jsoninput"
	"github.com/Sentinel-Gate/admitgate/internal/adapter/outbound/render"
	"github.com/Sentinel-Gate/admitgate/internal/ctxkey"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
	"github.com/Sentinel-Gate/admitgate/internal/domain/validation"
	"github.com/Sentinel-Gate/admitgate/internal/port/inbound"
	"github.com/Sentinel-Gate/admitgate/pkg/mcp"
)

const (
	// ToolName is the single tool exposed by the server.
	ToolName = "evaluate_admission"

	// DefaultProtocolVersion is answered when the client does not ask for one.
	DefaultProtocolVersion = "2025-06-18"

	serverName = "admit-gate"
)

// Server answers MCP requests read line by line from a reader.
// Each tools/call is one independent evaluation.
type Server struct {
	service   inbound.AdmissionService
	decoder   *jsoninput.Decoder
	validator *validation.MessageValidator
	logger    *slog.Logger
	version   string
}

// NewServer creates a Server. decoder must be built for service.Catalog().
func NewServer(service inbound.AdmissionService, decoder *jsoninput.Decoder, logger *slog.Logger, version string) *Server {
	return &Server{
		service:   service,
		decoder:   decoder,
		validator: validation.NewMessageValidator(),
		logger:    logger,
		version:   version,
	}
}

// Serve reads requests from in and writes responses to out until in is
// exhausted or ctx is cancelled. Returns nil on EOF.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	// MCP messages are newline-delimited JSON
	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 256*1024) // 256KB initial
	scanner.Buffer(buf, 1024*1024)   // 1MB max

	s.logger.Debug("stdio server started", "policy", s.service.Catalog().Name())

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		resp := s.handleLine(ctx, raw)
		if resp == nil {
			continue
		}
		if _, err := out.Write(resp); err != nil {
			return fmt.Errorf("write failed: %w", err)
		}
		if _, err := out.Write([]byte("\n")); err != nil {
			return fmt.Errorf("write newline failed: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	s.logger.Debug("stdio server input closed")
	return nil
}

// handleLine returns the response bytes for one line, or nil when no
// response is due (notifications).
func (s *Server) handleLine(ctx context.Context, raw []byte) []byte {
	msg, err := mcp.WrapMessage(raw)
	if err != nil {
		s.logger.Debug("failed to decode message", "error", err)
		if !json.Valid(raw) {
			return mcp.ErrorResponse(nil, validation.ErrCodeParseError, "Parse error")
		}
		return mcp.ErrorResponse(mcp.ExtractID(raw), validation.ErrCodeInvalidRequest, "Invalid Request")
	}

	rawID := msg.RawID()
	logger := s.logger.With("rpc_id", string(rawID), "method", msg.Method())
	ctx = context.WithValue(ctx, ctxkey.LoggerKey{}, logger)

	if err := s.validator.Validate(msg); err != nil {
		if msg.IsNotification() {
			logger.Debug("dropping notification", "error", err)
			return nil
		}
		return s.errorResponse(logger, rawID, err)
	}

	result, err := s.dispatch(ctx, msg)
	if err != nil {
		if msg.IsNotification() {
			return nil
		}
		return s.errorResponse(logger, rawID, err)
	}
	if msg.IsNotification() {
		return nil
	}

	resp, err := mcp.ResultResponse(rawID, result)
	if err != nil {
		logger.Error("failed to encode result", "error", err)
		return mcp.ErrorResponse(rawID, validation.ErrCodeInternalError, "Internal error")
	}

	logger.Debug("handled request", "latency_us", time.Since(msg.Timestamp).Microseconds())
	return resp
}

func (s *Server) errorResponse(logger *slog.Logger, rawID json.RawMessage, err error) []byte {
	code := validation.ErrCodeInternalError
	message := "Internal error"
	var valErr *validation.ValidationError
	if errors.As(err, &valErr) {
		code = valErr.Code
		message = valErr.Message
	} else {
		logger.Error("request failed", "error", err)
	}
	return mcp.ErrorResponse(rawID, code, message)
}

func (s *Server) dispatch(ctx context.Context, msg *mcp.Message) (any, error) {
	switch msg.Method() {
	case mcp.MethodInitialize:
		return s.initialize(msg)
	case mcp.MethodPing:
		return struct{}{}, nil
	case mcp.MethodToolsList:
		return listToolsResult{Tools: []tool{s.tool()}}, nil
	case mcp.MethodToolsCall:
		return s.callTool(ctx, msg)
	case mcp.MethodInitialized, mcp.MethodCancelled:
		// Notifications; the validator rejects these when they carry an id.
		return nil, nil
	default:
		return nil, validation.NewValidationError(validation.ErrCodeMethodNotFound, "Method not found: "+msg.Method())
	}
}

func (s *Server) initialize(msg *mcp.Message) (any, error) {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	if err := msg.UnmarshalParams(&params); err != nil {
		return nil, validation.NewValidationError(validation.ErrCodeInvalidParams, "invalid initialize params")
	}
	version := params.ProtocolVersion
	if version == "" {
		version = DefaultProtocolVersion
	}

	catalog := s.service.Catalog()
	return initializeResult{
		ProtocolVersion: version,
		Capabilities:    serverCapabilities{Tools: &toolsCapability{}},
		ServerInfo:      implementation{Name: serverName, Version: s.version},
		Instructions: fmt.Sprintf("Call %s with the %s criteria as true, false or null. "+
			"Null or omitted criteria are reported as missing, never as not met.", ToolName, catalog.Title()),
	}, nil
}

// callTool runs one evaluation. Input and evaluation failures are tool
// results with isError set, not protocol errors.
func (s *Server) callTool(ctx context.Context, msg *mcp.Message) (any, error) {
	req := msg.Request()
	call, err := validation.ParseToolCall(req.Params)
	if err != nil {
		return nil, err
	}
	if call.Name != ToolName {
		return nil, validation.NewValidationError(validation.ErrCodeInvalidParams, "unknown tool: "+call.Name)
	}

	admissionReq, err := s.decoder.Decode(call.Arguments)
	if err != nil {
		s.service.RecordFailure(ctx, err)
		return errorResult(err), nil
	}

	rec, err := s.service.Evaluate(ctx, admissionReq)
	if err != nil {
		return errorResult(err), nil
	}

	var text bytes.Buffer
	if err := render.Write(&text, render.FormatText, rec, s.service.Catalog()); err != nil {
		return nil, fmt.Errorf("failed to render record: %w", err)
	}

	return callToolResult{
		Content:           []content{{Type: "text", Text: text.String()}},
		StructuredContent: rec,
	}, nil
}

func errorResult(err error) callToolResult {
	return callToolResult{
		Content: []content{{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}

func (s *Server) tool() tool {
	catalog := s.service.Catalog()

	props := make(map[string]schemaProperty, catalog.Len()+2)
	for _, def := range catalog.Definitions() {
		props[def.Name] = schemaProperty{
			Type:        []string{"boolean", "null"},
			Description: def.Label,
		}
	}
	props[criteria.KeyPatientID] = schemaProperty{
		Type:        []string{"string", "null"},
		Description: "Patient identifier, echoed in the result",
	}
	props[criteria.KeyEncounterID] = schemaProperty{
		Type:        []string{"string", "null"},
		Description: "Encounter identifier, echoed in the result",
	}

	return tool{
		Name:  ToolName,
		Title: catalog.Title(),
		Description: fmt.Sprintf("Evaluate the %s admission policy. Admission is recommended when "+
			"at least one criterion is true; missing criteria are listed separately.", catalog.Title()),
		InputSchema: inputSchema{
			Type:                 "object",
			Properties:           props,
			AdditionalProperties: s.decoder.Mode() == jsoninput.UnknownIgnore,
		},
	}
}
