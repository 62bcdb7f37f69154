package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/harun/oakplugin/internal/observability"
	"github.com/harun/oakplugin/internal/tracing"
	"github.com/harun/oakplugin/pkg/bridge"
	"github.com/harun/oakplugin/pkg/schema"
	"github.com/harun/oakplugin/pkg/toolregistry"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Dispatcher lists and executes the tools of one registry.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	registry     *toolregistry.Registry
	bridges      BridgeFactory
	genericError string
	logger       zerolog.Logger
}

// New creates a dispatcher over registry
func New(registry *toolregistry.Registry, opts Options) (*Dispatcher, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}

	if opts.Bridges == nil {
		opts.Bridges = HeaderBridges(bridge.Config{})
	}
	if opts.GenericError == "" {
		opts.GenericError = DefaultGenericError
	}

	return &Dispatcher{
		registry:     registry,
		bridges:      opts.Bridges,
		genericError: opts.GenericError,
		logger:       opts.Logger.With().Str("component", "dispatch").Logger(),
	}, nil
}

// ListTools returns the catalog. No token is needed.
func (d *Dispatcher) ListTools() []toolregistry.Summary {
	return d.registry.List()
}

// ExecuteTool runs one tool call: token, lookup, validation, then the handler.
// The handler runs synchronously on the caller's goroutine and inherits ctx.
func (d *Dispatcher) ExecuteTool(ctx context.Context, req Request) Outcome {
	start := time.Now()

	callID, err := gonanoid.New(12)
	if err != nil {
		callID = tracing.NewTraceID()
	}

	agentID := req.Headers.Get(bridge.AgentIDHeader)
	ctx = tracing.WithCallID(ctx, callID)
	ctx = tracing.WithTool(ctx, req.Identifier)
	if agentID != "" {
		ctx = tracing.WithAgentID(ctx, agentID)
	}

	ctx, span := tracing.StartSpan(ctx, tracing.TracerDispatch, "tool.execute",
		attribute.String("tool", req.Identifier),
	)
	logger := tracing.LoggerFromContext(ctx, d.logger)

	call, err := d.bridges(req.Headers)
	if err != nil {
		if errors.Is(err, bridge.ErrMissingToken) {
			logger.Warn().Msg("Tool execution rejected: missing capability token")
			observability.RecordSecurityAudit(ctx, "execute:"+req.Identifier, agentID, "denied", map[string]interface{}{
				"call_id": callID,
			})
			return d.finish(ctx, span, req.Identifier, callID, start, observability.StatusUnauthorized,
				http.StatusUnauthorized, failure(MessageMissingToken), err)
		}

		logger.Error().Err(err).Msg("Failed to build execution context")
		return d.finish(ctx, span, req.Identifier, callID, start, observability.StatusError,
			http.StatusInternalServerError, failure(d.genericError), err)
	}

	descriptor, err := d.registry.Get(req.Identifier)
	if err != nil {
		logger.Warn().Msg("Tool not found")
		return d.finish(ctx, span, req.Identifier, callID, start, observability.StatusNotFound,
			http.StatusNotFound, failure(MessageUnknownTool), err)
	}

	validator, err := d.registry.Validator(req.Identifier)
	if err != nil {
		return d.finish(ctx, span, req.Identifier, callID, start, observability.StatusNotFound,
			http.StatusNotFound, failure(MessageUnknownTool), err)
	}

	params, err := validator.Validate(req.Params)
	if err != nil {
		logger.Info().Err(err).Msg("Parameter validation failed")
		observability.RecordValidationFailure(req.Identifier)
		return d.finish(ctx, span, req.Identifier, callID, start, observability.StatusInvalid,
			http.StatusBadRequest, failure(err.Error()), err)
	}

	logger.Debug().Msg("Executing tool")

	value, err := d.invoke(ctx, logger, descriptor, params, call)
	if err != nil {
		// Detail stays in the log; the host only sees the generic message
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Tool execution failed")
		return d.finish(ctx, span, req.Identifier, callID, start, observability.StatusError,
			http.StatusInternalServerError, failure(d.genericError), err)
	}

	logger.Debug().Dur("duration", time.Since(start)).Msg("Tool execution completed")
	return d.finish(ctx, span, req.Identifier, callID, start, observability.StatusSuccess,
		http.StatusOK, success(value), nil)
}

func (d *Dispatcher) invoke(ctx context.Context, logger zerolog.Logger, descriptor toolregistry.Descriptor, params schema.Params, call *bridge.Bridge) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("stack", string(debug.Stack())).Msg("Recovered tool handler panic")
			value = nil
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	return descriptor.Execute(ctx, params, call)
}

// metricLabel keeps caller-chosen identifiers out of metric labels
func (d *Dispatcher) metricLabel(tool string) string {
	if d.registry.Has(tool) {
		return tool
	}
	return observability.UnknownTool
}

func (d *Dispatcher) finish(ctx context.Context, span trace.Span, tool, callID string, start time.Time, status string, code int, result Result, err error) Outcome {
	duration := time.Since(start)

	observability.RecordToolExecution(d.metricLabel(tool), status, duration)
	if status != observability.StatusUnauthorized {
		observability.RecordToolAudit(ctx, tool, tracing.GetAgentID(ctx), status, map[string]interface{}{
			"call_id":     callID,
			"duration_ms": duration.Milliseconds(),
		})
	}

	span.SetAttributes(
		attribute.String("tool.status", status),
		attribute.Int("http.status_code", code),
	)
	tracing.EndSpan(span, err)

	return Outcome{
		Status: code,
		Result: result,
		CallID: callID,
	}
}
