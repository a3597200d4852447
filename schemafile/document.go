// Package schemafile loads formtree schemas declared in YAML.
//
// A document describes one node and nests its children:
//
//	name: signup
//	kind: dict
//	children:
//	  - name: email
//	    kind: string
//	    validators:
//	      - type: present
//	      - type: tag
//	        tag: email
//	  - name: age
//	    kind: integer
//	    optional: true
//	    signed: false
//
// Unknown fields are rejected.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/formtree"
)

// Document is the YAML form of a schema node.
type Document struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Label    string `yaml:"label,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
	Default  any    `yaml:"default,omitempty"`

	// Scalars
	Base   string `yaml:"base,omitempty"`
	Strip  *bool  `yaml:"strip,omitempty"`
	Signed *bool  `yaml:"signed,omitempty"`
	Format string `yaml:"format,omitempty"`
	True   string `yaml:"true_token,omitempty"`
	False  string `yaml:"false_token,omitempty"`
	Values []any  `yaml:"values,omitempty"`

	// Containers
	Policy        string      `yaml:"policy,omitempty"`
	MinimumFields string      `yaml:"minimum_fields,omitempty"`
	Children      []*Document `yaml:"children,omitempty"`
	Member        *Document   `yaml:"member,omitempty"`

	// Refs
	Path     string `yaml:"path,omitempty"`
	Writable string `yaml:"writable,omitempty"`

	Validators        []ValidatorSpec `yaml:"validators,omitempty"`
	DescentValidators []ValidatorSpec `yaml:"descent_validators,omitempty"`
}

// Parse decodes a single YAML document and builds its schema.
func Parse(data []byte) (*formtree.Schema, error) {
	return Load(bytes.NewReader(data))
}

// LoadFile reads and builds the schema stored at path.
func LoadFile(path string) (*formtree.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load decodes the first YAML document from r and builds its schema.
func Load(r io.Reader) (*formtree.Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty schema document", formtree.ErrSchema)
		}
		return nil, fmt.Errorf("%w: %v", formtree.ErrSchema, err)
	}
	return doc.Build()
}

// Build converts the document into a schema. Misconfiguration that the
// schema constructors reject is returned as an error wrapping ErrSchema.
func (d *Document) Build() (s *formtree.Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !errors.Is(e, formtree.ErrSchema) {
				panic(r)
			}
			s, err = nil, e
		}
	}()
	return d.build()
}
