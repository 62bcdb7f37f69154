// Package bridge is the authenticated execution context handed to tool handlers.
//
// A Bridge is built per request from the host's capability token and lets a
// handler call the host's LLM service on behalf of that caller:
//
//	call, err := bridge.FromHeaders(r.Header, cfg)
//	if err != nil {
//	    // bridge.ErrMissingToken
//	}
//	text, err := call.GenerateText(ctx, bridge.GenerateRequest{Prompt: "..."})
//
// The token is forwarded to the host as the SDK credential and is never logged
// or stored beyond the lifetime of the Bridge. Every upstream failure is
// returned as *UpstreamError, which matches ErrUpstreamFailure.
//
// Two generators ship with the package. "openai" talks to the host's
// OpenAI-compatible endpoint at <server>/api/llm/openai/v1 and "anthropic"
// to <server>/api/llm/anthropic. Neither retries.
package bridge
