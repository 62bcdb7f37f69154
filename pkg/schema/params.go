package schema

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds parameters that passed validation
type Params map[string]interface{}

// String returns a string parameter, or "" when absent
func (p Params) String(name string) string {
	if s, ok := p[name].(string); ok {
		return s
	}
	return ""
}

// Decode copies the parameters into a typed struct using its json tags
func (p Params) Decode(out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(map[string]interface{}(p)); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	return nil
}
