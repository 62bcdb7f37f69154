// Package schema validates untrusted tool parameters against a structural schema.
//
// Invariants:
// - A Schema is data (field name, type, required); one validator interprets every schema.
// - Validation never performs I/O and never panics on a schema that compiled.
// - Fields not declared in the schema are rejected.
//
// Usage:
//
//	compiled, _ := schema.Compile(schema.Schema{
//		{Name: "text", Type: schema.TypeString, Description: "Text to translate", Required: true},
//	})
//	params, err := compiled.Validate(map[string]any{"text": "Hello"})
//	_ = params
//	_ = err
package schema
