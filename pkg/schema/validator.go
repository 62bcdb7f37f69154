package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrMalformedSchema is returned by Compile for schemas that cannot be interpreted
	ErrMalformedSchema = errors.New("malformed schema")

	// ErrValidation matches every *ValidationError via errors.Is
	ErrValidation = errors.New("validation failed")
)

// Violation describes one failed constraint
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violated constraint of one input
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "invalid parameters: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) true for validation errors
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(violations ...Violation) *ValidationError {
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Field != violations[j].Field {
			return violations[i].Field < violations[j].Field
		}
		return violations[i].Message < violations[j].Message
	})
	return &ValidationError{Violations: violations}
}

// Validate checks raw input against the schema and returns the validated parameters.
// raw may be a map, a JSON document ([]byte, json.RawMessage, string) or nil, which is
// treated as an empty object.
func (c *Compiled) Validate(raw interface{}) (Params, error) {
	value, err := normalize(raw)
	if err != nil {
		return nil, newValidationError(Violation{Field: "(root)", Message: err.Error()})
	}

	result, err := c.schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return nil, newValidationError(Violation{Field: "(root)", Message: err.Error()})
	}

	if !result.Valid() {
		violations := make([]Violation, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			violations = append(violations, Violation{
				Field:   violationField(resultErr),
				Message: resultErr.Description(),
			})
		}
		return nil, newValidationError(violations...)
	}

	object, ok := value.(map[string]interface{})
	if !ok {
		return nil, newValidationError(Violation{Field: "(root)", Message: "parameters must be an object"})
	}

	params := make(Params, len(object))
	for k, v := range object {
		params[k] = v
	}
	return params, nil
}

func normalize(raw interface{}) (interface{}, error) {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case Params:
		if v == nil {
			return map[string]interface{}{}, nil
		}
		return map[string]interface{}(v), nil
	case map[string]interface{}:
		if v == nil {
			return map[string]interface{}{}, nil
		}
		return v, nil
	default:
		encoded, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("parameters are not encodable: %v", err)
		}
		data = encoded
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]interface{}{}, nil
	}

	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("parameters are not valid JSON: %v", err)
	}
	return decoded, nil
}

// violationField names the offending field. Root-level errors such as a missing
// required property carry the property in their details.
func violationField(err gojsonschema.ResultError) string {
	field := err.Field()
	if field != "(root)" {
		return field
	}
	details := err.Details()
	if property, ok := details["property"].(string); ok && property != "" {
		return property
	}
	return field
}
