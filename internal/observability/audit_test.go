package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

// withAuditBuffer swaps the global audit logger for the duration of a test
func withAuditBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := GetAuditLogger()
	SetAuditLogger(NewAuditLogger(&buf))
	t.Cleanup(func() { SetAuditLogger(prev) })
	return &buf
}

func TestAuditLoggerRecord(t *testing.T) {
	var buf bytes.Buffer
	a := NewAuditLogger(&buf)

	a.Record(context.Background(), AuditEvent{
		Type:     "tool",
		Actor:    "agent-1",
		Action:   "execute:translate",
		Status:   StatusSuccess,
		Metadata: map[string]interface{}{"call_id": "abc"},
	})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "tool", entries[0]["type"])
	assert.Equal(t, "agent-1", entries[0]["actor"])
	assert.Equal(t, "execute:translate", entries[0]["action"])
	assert.Equal(t, "success", entries[0]["status"])
	assert.Equal(t, "", entries[0]["trace_id"])
	assert.Equal(t, map[string]interface{}{"call_id": "abc"}, entries[0]["metadata"])
}

func TestAuditLoggerRecordsSpanEvent(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "dispatch")

	var buf bytes.Buffer
	NewAuditLogger(&buf).Record(ctx, AuditEvent{Type: "tool", Action: "execute:translate", Status: StatusError})
	span.End()

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[0]["trace_id"])

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "execute:translate", ended[0].Events()[0].Name)
}

func TestAuditHelpers(t *testing.T) {
	buf := withAuditBuffer(t)

	RecordToolAudit(context.Background(), "translate", "agent-7", StatusInvalid, nil)
	RecordSecurityAudit(context.Background(), "token:missing", "", StatusUnauthorized, map[string]interface{}{"tool": "translate"})

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "tool", entries[0]["type"])
	assert.Equal(t, "execute:translate", entries[0]["action"])
	assert.NotContains(t, entries[0], "metadata")

	assert.Equal(t, "security", entries[1]["type"])
	assert.Equal(t, "token:missing", entries[1]["action"])
	assert.Equal(t, "unauthorized", entries[1]["status"])
}

func TestInitAuditLogger(t *testing.T) {
	prev := GetAuditLogger()
	t.Cleanup(func() { SetAuditLogger(prev) })

	path := filepath.Join(t.TempDir(), "audit.log")
	require.NoError(t, InitAuditLogger(path))

	RecordToolAudit(context.Background(), "translate", "", StatusSuccess, nil)
	require.NoError(t, GetAuditLogger().Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"action":"execute:translate"`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestInitAuditLoggerBadPath(t *testing.T) {
	err := InitAuditLogger(filepath.Join(t.TempDir(), "missing", "audit.log"))
	assert.Error(t, err)
}

func TestGetAuditLoggerDefault(t *testing.T) {
	assert.NotNil(t, GetAuditLogger())
}
