package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(MetricsHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecordToolExecution(t *testing.T) {
	RecordToolExecution("translate", StatusSuccess, 20*time.Millisecond)
	RecordToolExecution("does-not-exist", StatusNotFound, time.Millisecond)

	body := scrape(t)
	assert.Contains(t, body, `tool_execution_total{status="success",tool="translate"}`)
	assert.Contains(t, body, `tool_execution_total{status="not_found",tool="unknown"}`)
	assert.NotContains(t, body, `tool="does-not-exist"`)
	assert.Contains(t, body, `tool_execution_duration_seconds_count{tool="translate"}`)
}

func TestRecordValidationFailure(t *testing.T) {
	RecordValidationFailure("translate")

	assert.Contains(t, scrape(t), `tool_validation_failures_total{tool="translate"}`)
}

func TestRecordUpstreamRequest(t *testing.T) {
	RecordUpstreamRequest("openai", time.Second, true)
	RecordUpstreamRequest("anthropic", time.Second, false)

	body := scrape(t)
	assert.Contains(t, body, `upstream_requests_total{provider="openai",status="success"}`)
	assert.Contains(t, body, `upstream_requests_total{provider="anthropic",status="error"}`)
	assert.Contains(t, body, `upstream_request_duration_seconds_bucket{provider="openai"`)
}

func TestRecordManifestReload(t *testing.T) {
	RecordManifestReload(true)
	RecordManifestReload(false)

	body := scrape(t)
	assert.Contains(t, body, `remote_manifest_reloads_total{status="success"}`)
	assert.Contains(t, body, `remote_manifest_reloads_total{status="error"}`)
}

func TestEnsureRegisteredIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		EnsureRegistered()
		EnsureRegistered()
		_ = MetricsHandler()
	})
}
