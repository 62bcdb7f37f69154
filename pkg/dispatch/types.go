package dispatch

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harun/oakplugin/pkg/bridge"
	"github.com/rs/zerolog"
)

// Messages returned to the host
const (
	MessageMissingToken = "Missing capability token"
	MessageUnknownTool  = "Unknown tool"
	DefaultGenericError = "Translation failed. Please try again."
)

// ErrHandlerPanic wraps a recovered handler panic
var ErrHandlerPanic = errors.New("tool handler panicked")

// Request is one execution attempt. Params are untrusted.
type Request struct {
	Identifier string
	Params     map[string]interface{}
	Headers    http.Header
}

// Result is the wire response. Exactly one of result or error is encoded.
type Result struct {
	Value interface{}
	Error string
}

// OK reports whether the result carries a value
func (r Result) OK() bool {
	return r.Error == ""
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	return json.Marshal(struct {
		Result interface{} `json:"result"`
	}{r.Value})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var wire struct {
		Result interface{} `json:"result"`
		Error  string      `json:"error"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Value = wire.Result
	r.Error = wire.Error
	return nil
}

// Outcome pairs a result with the HTTP status it maps to
type Outcome struct {
	Status int
	Result Result
	CallID string
}

func success(value interface{}) Result {
	return Result{Value: value}
}

func failure(message string) Result {
	return Result{Error: message}
}

// BridgeFactory builds the execution context from the inbound headers
type BridgeFactory func(h http.Header) (*bridge.Bridge, error)

// HeaderBridges reads the capability token using cfg
func HeaderBridges(cfg bridge.Config) BridgeFactory {
	return func(h http.Header) (*bridge.Bridge, error) {
		return bridge.FromHeaders(h, cfg)
	}
}

// Options configures a Dispatcher
type Options struct {
	Logger       zerolog.Logger
	Bridges      BridgeFactory
	GenericError string
}
