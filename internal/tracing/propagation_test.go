package tracing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestPropagateToLogger(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "trace-123")
	ctx = WithCallID(ctx, "call-456")
	ctx = WithAgentID(ctx, "agent-789")
	ctx = WithTool(ctx, "translate")

	var buf bytes.Buffer
	logger := PropagateToLogger(ctx, zerolog.New(&buf))
	logger.Info().Msg("test message")

	output := buf.String()
	for _, want := range []string{"trace-123", "call-456", "agent-789", `"tool":"translate"`} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected log output to contain %s, got %s", want, output)
		}
	}
}

func TestLoggerFromContextWithoutTracing(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggerFromContext(context.Background(), zerolog.New(&buf))
	logger.Info().Msg("plain")

	if strings.Contains(buf.String(), "trace_id") {
		t.Errorf("Expected no trace_id field, got %s", buf.String())
	}
}
