// Package validator checks decoded documents against JSON Schemas.
package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Compiler registers JSON Schemas and compiles them into Schemas. It is safe
// for concurrent use.
type Compiler struct {
	mu sync.Mutex
	c  *jsonschema.Compiler
}

// NewCompiler returns a Compiler that treats schemas without $schema as
// draft 2020-12.
func NewCompiler() *Compiler {
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	return &Compiler{c: c}
}

// AddSchema registers the JSON Schema in schemaJSON under id.
func (c *Compiler) AddSchema(id string, schemaJSON []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.AddResource(id, doc)
}

// Compile returns the Schema previously added under id.
func (c *Compiler) Compile(id string) (*Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.c.Compile(id)
	if err != nil {
		return nil, err
	}
	return &Schema{s: s}, nil
}

// Schema is a compiled JSON Schema.
type Schema struct {
	s *jsonschema.Schema
}

// Validate checks doc, which may be any value that encodes to JSON, such as
// the result of decoding YAML into an interface{}. A document that fails the
// schema yields a *ValidationError.
func (s *Schema) Validate(doc any) error {
	normalised, err := ToDocument(doc)
	if err != nil {
		return err
	}

	err = s.s.Validate(normalised)
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		return &ValidationError{Locations: leafLocations(ve), Wrapped: err}
	}
	return err
}

// ToDocument converts v into the generic form the schema validator expects,
// with numbers as json.Number.
func ToDocument(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// ValidationError reports that a document does not satisfy a Schema.
type ValidationError struct {
	// Locations are the JSON pointers of the offending values, sorted.
	Locations []string
	Wrapped   error
}

func (e *ValidationError) Error() string {
	return e.Wrapped.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

func leafLocations(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, "/"+strings.Join(e.InstanceLocation, "/"))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	slices.Sort(out)
	return slices.Compact(out)
}
