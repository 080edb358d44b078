// Package schema publishes JSON Schemas for the documents the SDK
// exchanges with the host, generated from the Go wire types.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
		Anonymous:      true,
	}
}

// Reflect returns the schema of v's type.
func Reflect(v any) *jsonschema.Schema {
	return reflector().Reflect(v)
}

// GenerateSchema returns the indented JSON Schema (draft 2020-12) of v's
// type.
func GenerateSchema(v any) ([]byte, error) {
	data, err := json.MarshalIndent(Reflect(v), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
