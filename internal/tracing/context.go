package tracing

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// TraceIDKey is the context key for trace ID
	TraceIDKey ContextKey = "trace_id"
	// CallIDKey is the context key for a single tool execution
	CallIDKey ContextKey = "call_id"
	// AgentIDKey is the context key for the host agent ID
	AgentIDKey ContextKey = "agent_id"
	// ToolKey is the context key for the executing tool identifier
	ToolKey ContextKey = "tool"
)

// TraceHeader carries a caller-supplied trace ID
const TraceHeader = "X-Trace-Id"

// TraceContext holds tracing information
type TraceContext struct {
	TraceID string
	CallID  string
	AgentID string
	Tool    string
}

// NewTraceID generates a new trace ID
func NewTraceID() string {
	return uuid.New().String()
}

// WithTraceID adds a trace ID to the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// WithCallID adds a tool execution ID to the context
func WithCallID(ctx context.Context, callID string) context.Context {
	return context.WithValue(ctx, CallIDKey, callID)
}

// WithAgentID adds an agent ID to the context
func WithAgentID(ctx context.Context, agentID string) context.Context {
	return context.WithValue(ctx, AgentIDKey, agentID)
}

// WithTool adds the tool identifier to the context
func WithTool(ctx context.Context, tool string) context.Context {
	return context.WithValue(ctx, ToolKey, tool)
}

func getString(ctx context.Context, key ContextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// GetTraceID retrieves the trace ID from the context
func GetTraceID(ctx context.Context) string {
	return getString(ctx, TraceIDKey)
}

// GetCallID retrieves the tool execution ID from the context
func GetCallID(ctx context.Context) string {
	return getString(ctx, CallIDKey)
}

// GetAgentID retrieves the agent ID from the context
func GetAgentID(ctx context.Context) string {
	return getString(ctx, AgentIDKey)
}

// GetTool retrieves the tool identifier from the context
func GetTool(ctx context.Context) string {
	return getString(ctx, ToolKey)
}

// FromContext extracts all tracing information from the context
func FromContext(ctx context.Context) *TraceContext {
	return &TraceContext{
		TraceID: GetTraceID(ctx),
		CallID:  GetCallID(ctx),
		AgentID: GetAgentID(ctx),
		Tool:    GetTool(ctx),
	}
}

// NewRequestContext returns ctx with a trace ID, reusing traceID when the caller sent one
func NewRequestContext(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = NewTraceID()
	}
	return WithTraceID(ctx, traceID)
}
