package toolregistry

import (
	"context"

	"github.com/harun/oakplugin/pkg/bridge"
	"github.com/harun/oakplugin/pkg/schema"
)

// Handler executes a tool with validated parameters and the caller's bridge
type Handler func(ctx context.Context, params schema.Params, call *bridge.Bridge) (interface{}, error)

// Descriptor defines a tool's metadata and handler
type Descriptor struct {
	Identifier  string
	Name        string
	Description string
	Params      schema.Schema
	Execute     Handler
	UIComponent string // Remote component export, empty when the tool has no view
}

// Summary is the public view of a tool. It never carries the handler.
type Summary struct {
	Identifier   string                 `json:"identifier" yaml:"identifier"`
	Name         string                 `json:"name" yaml:"name"`
	Description  string                 `json:"description" yaml:"description"`
	ParamsSchema map[string]interface{} `json:"paramsSchema" yaml:"paramsSchema"`
	UIComponent  string                 `json:"uiComponent,omitempty" yaml:"uiComponent,omitempty"`
}

// entry is a registered descriptor together with its compiled schema
type entry struct {
	descriptor Descriptor
	compiled   *schema.Compiled
}

func (e *entry) summary() Summary {
	return Summary{
		Identifier:   e.descriptor.Identifier,
		Name:         e.descriptor.Name,
		Description:  e.descriptor.Description,
		ParamsSchema: e.compiled.Document(),
		UIComponent:  e.descriptor.UIComponent,
	}
}
