package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Type is the primitive type of a schema field
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

var validTypes = map[Type]bool{
	TypeString:  true,
	TypeNumber:  true,
	TypeInteger: true,
	TypeBoolean: true,
	TypeObject:  true,
	TypeArray:   true,
}

// Field declares one accepted parameter
type Field struct {
	Name        string `json:"name"`
	Type        Type   `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Schema is the ordered list of fields a tool accepts
type Schema []Field

// Compiled is a schema ready for validation. It is immutable and safe for concurrent use.
type Compiled struct {
	fields   Schema
	document map[string]interface{}
	schema   *gojsonschema.Schema
}

// Compile checks the schema and prepares its JSON Schema form
func Compile(s Schema) (*Compiled, error) {
	seen := make(map[string]bool, len(s))
	for i, field := range s {
		if field.Name == "" {
			return nil, fmt.Errorf("%w: field %d has an empty name", ErrMalformedSchema, i)
		}
		if seen[field.Name] {
			return nil, fmt.Errorf("%w: duplicate field %s", ErrMalformedSchema, field.Name)
		}
		seen[field.Name] = true

		if !validTypes[field.Type] {
			return nil, fmt.Errorf("%w: invalid type %q for %s", ErrMalformedSchema, field.Type, field.Name)
		}
	}

	document := buildDocument(s)

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}

	fields := make(Schema, len(s))
	copy(fields, s)

	return &Compiled{
		fields:   fields,
		document: document,
		schema:   compiled,
	}, nil
}

// MustCompile is like Compile but panics on a malformed schema. Intended for static tool definitions.
func MustCompile(s Schema) *Compiled {
	c, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Fields returns a copy of the declared fields
func (c *Compiled) Fields() Schema {
	fields := make(Schema, len(c.fields))
	copy(fields, c.fields)
	return fields
}

// Document returns a copy of the JSON Schema document for catalogs
func (c *Compiled) Document() map[string]interface{} {
	return buildDocument(c.fields)
}

// buildDocument generates a JSON Schema object from the structural fields.
// Extra properties are rejected.
func buildDocument(s Schema) map[string]interface{} {
	properties := make(map[string]interface{}, len(s))
	required := []string{}

	for _, field := range s {
		property := map[string]interface{}{
			"type": string(field.Type),
		}
		if field.Description != "" {
			property["description"] = field.Description
		}
		properties[field.Name] = property

		if field.Required {
			required = append(required, field.Name)
		}
	}

	document := map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
	}
	if len(required) > 0 {
		document["required"] = required
	}

	return document
}
