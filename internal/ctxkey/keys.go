// Package ctxkey defines shared context key types used across multiple packages.
// This package should have no dependencies on other internal packages to avoid import cycles.
package ctxkey

// LoggerKey is the context key type for the enriched logger.
// The stdio server stores a per-request logger carrying the JSON-RPC request id.
type LoggerKey struct{}
