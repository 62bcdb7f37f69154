package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func translateSchema() Schema {
	return Schema{
		{Name: "text", Type: TypeString, Description: "Text to translate", Required: true},
		{Name: "targetLanguage", Type: TypeString, Description: "Target language", Required: true},
		{Name: "formality", Type: TypeString, Description: "Optional tone"},
	}
}

func TestCompile(t *testing.T) {
	t.Run("should compile a well-formed schema", func(t *testing.T) {
		compiled, err := Compile(translateSchema())
		require.NoError(t, err)

		doc := compiled.Document()
		assert.Equal(t, "object", doc["type"])
		assert.Equal(t, false, doc["additionalProperties"])
		assert.Equal(t, []string{"text", "targetLanguage"}, doc["required"])

		properties := doc["properties"].(map[string]interface{})
		assert.Len(t, properties, 3)
	})

	tests := []struct {
		name   string
		schema Schema
	}{
		{name: "empty field name", schema: Schema{{Type: TypeString}}},
		{name: "duplicate field", schema: Schema{{Name: "a", Type: TypeString}, {Name: "a", Type: TypeNumber}}},
		{name: "unknown type", schema: Schema{{Name: "a", Type: "date"}}},
		{name: "missing type", schema: Schema{{Name: "a"}}},
	}

	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			_, err := Compile(tt.schema)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSchema))
		})
	}

	t.Run("should compile an empty schema", func(t *testing.T) {
		compiled, err := Compile(nil)
		require.NoError(t, err)

		params, err := compiled.Validate(nil)
		require.NoError(t, err)
		assert.Empty(t, params)
	})
}

func TestCompiled_FieldsIsACopy(t *testing.T) {
	compiled := MustCompile(translateSchema())

	fields := compiled.Fields()
	fields[0].Name = "mutated"

	assert.Equal(t, "text", compiled.Fields()[0].Name)
}

func TestValidate(t *testing.T) {
	compiled := MustCompile(translateSchema())

	t.Run("should accept well-formed input", func(t *testing.T) {
		params, err := compiled.Validate(map[string]interface{}{
			"text":           "Hello",
			"targetLanguage": "French",
		})
		require.NoError(t, err)
		assert.Equal(t, "Hello", params.String("text"))
		assert.Equal(t, "French", params.String("targetLanguage"))
		assert.Equal(t, "", params.String("formality"))
	})

	t.Run("should accept raw JSON", func(t *testing.T) {
		params, err := compiled.Validate(json.RawMessage(`{"text":"Hello","targetLanguage":"French"}`))
		require.NoError(t, err)
		assert.Equal(t, "Hello", params.String("text"))
	})

	t.Run("should report missing required field", func(t *testing.T) {
		_, err := compiled.Validate(map[string]interface{}{"targetLanguage": "French"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Len(t, vErr.Violations, 1)
		assert.Equal(t, "text", vErr.Violations[0].Field)
		assert.Contains(t, err.Error(), "text")
	})

	t.Run("should report every violation in field order", func(t *testing.T) {
		_, err := compiled.Validate(map[string]interface{}{"text": 42})

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Len(t, vErr.Violations, 2)
		assert.Equal(t, "targetLanguage", vErr.Violations[0].Field)
		assert.Equal(t, "text", vErr.Violations[1].Field)
	})

	t.Run("should reject unknown fields", func(t *testing.T) {
		_, err := compiled.Validate(map[string]interface{}{
			"text":           "Hello",
			"targetLanguage": "French",
			"extra":          true,
		})

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Len(t, vErr.Violations, 1)
		assert.Equal(t, "extra", vErr.Violations[0].Field)
	})

	t.Run("should reject non-object input", func(t *testing.T) {
		_, err := compiled.Validate([]interface{}{"Hello"})
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("should reject invalid JSON without panicking", func(t *testing.T) {
		_, err := compiled.Validate([]byte(`{"text":`))
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("should treat nil as an empty object", func(t *testing.T) {
		_, err := compiled.Validate(nil)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Len(t, vErr.Violations, 2)
	})

	t.Run("should not alias the caller's map", func(t *testing.T) {
		input := map[string]interface{}{"text": "Hello", "targetLanguage": "French"}
		params, err := compiled.Validate(input)
		require.NoError(t, err)

		params["text"] = "changed"
		assert.Equal(t, "Hello", input["text"])
	})
}

func TestParams_Decode(t *testing.T) {
	type translateParams struct {
		Text           string `json:"text"`
		TargetLanguage string `json:"targetLanguage"`
	}

	params := Params{"text": "Hello", "targetLanguage": "French"}

	var out translateParams
	require.NoError(t, params.Decode(&out))
	assert.Equal(t, translateParams{Text: "Hello", TargetLanguage: "French"}, out)
}
