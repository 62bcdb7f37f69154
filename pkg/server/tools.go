package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/harun/oakplugin/internal/tracing"
	"github.com/harun/oakplugin/pkg/dispatch"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// CallIDHeader carries the dispatcher's call id back to the host
const CallIDHeader = "X-Call-Id"

// envelopeError is returned to the host as is
type envelopeError string

func (e envelopeError) Error() string { return string(e) }

const (
	errMalformedBody     envelopeError = "Request body must be a JSON object"
	errMissingIdentifier envelopeError = "Missing tool identifier"
	errInvalidParams     envelopeError = "Tool params must be a JSON object"
)

// parseEnvelope splits a POST /tools body into identifier and params.
// A "params" key wins; otherwise every key except "identifier" is a param.
func parseEnvelope(body []byte) (string, map[string]interface{}, error) {
	if !gjson.ValidBytes(body) {
		return "", nil, errMalformedBody
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return "", nil, errMalformedBody
	}

	identifier := root.Get("identifier")
	if identifier.Type != gjson.String || identifier.Str == "" {
		return "", nil, errMissingIdentifier
	}

	raw := root.Get("params")
	if !raw.Exists() {
		rest, err := sjson.DeleteBytes(body, "identifier")
		if err != nil {
			return "", nil, errMalformedBody
		}
		raw = gjson.ParseBytes(rest)
	}

	switch {
	case raw.Type == gjson.Null:
		return identifier.Str, nil, nil
	case !raw.IsObject():
		return "", nil, errInvalidParams
	}

	params, _ := raw.Value().(map[string]interface{})
	return identifier.Str, params, nil
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.ListTools())
}

func (s *Server) handleExecuteTool(w http.ResponseWriter, r *http.Request) {
	logger := tracing.LoggerFromContext(r.Context(), s.logger)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		logger.Warn().Err(err).Msg("Failed to read request body")
		writeError(w, http.StatusBadRequest, errMalformedBody.Error())
		return
	}

	identifier, params, err := parseEnvelope(body)
	if err != nil {
		logger.Debug().Err(err).Msg("Rejected tool envelope")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome := s.dispatcher.ExecuteTool(r.Context(), dispatch.Request{
		Identifier: identifier,
		Params:     params,
		Headers:    r.Header,
	})

	if outcome.CallID != "" {
		w.Header().Set(CallIDHeader, outcome.CallID)
	}
	writeJSON(w, outcome.Status, outcome.Result)
}
