// Package jsonschema projects formtree schemas into JSON Schema documents.
package jsonschema

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	// Core
	Schema      string `json:"$schema,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Type        any    `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	// Number
	Minimum *float64 `json:"minimum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
}

// Draft is the dialect stamped on exported root documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"
