// Package schema generates JSON schemas from Go types and validates decoded
// YAML documents against them.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

var ErrValidation = errors.New("schema validation")

// ValidationError is a schema violation located by a [yaml.Path], so it can be
// annotated against the source document.
type ValidationError struct {
	Path   *yaml.Path // Location of the offending value.
	Field  string     // Property name, when no path could be built.
	Detail string     // Message from the validator.
}

func (e ValidationError) Error() string {
	if e.Path != nil {
		return fmt.Sprintf("error at %s: %s", e.Path.String(), e.Detail)
	}
	if e.Field != "" {
		return fmt.Sprintf("error at %s: %s", e.Field, e.Detail)
	}

	return "validation error: " + e.Detail
}

// YAMLPath returns the location of the violation, if known.
func (e ValidationError) YAMLPath() *yaml.Path {
	return e.Path
}

func (e ValidationError) Unwrap() error {
	return ErrValidation
}

// Validator validates data against a compiled JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	var doc any

	err := json.Unmarshal(schemaData, &doc)
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()

	err = compiler.AddResource(url, doc)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: jss}, nil
}

// MustNewValidator is like [NewValidator] but panics on error.
func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks data, usually the result of decoding YAML into an any.
// Violations are returned as a [*ValidationError] pointing at the deepest
// failing location.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return &ValidationError{
		Path:   pathFromLocation(deepestLocation(verr)),
		Detail: verr.Error(),
	}
}

func deepestLocation(err *jsonschema.ValidationError) []string {
	longest := err.InstanceLocation
	for _, cause := range err.Causes {
		if loc := deepestLocation(cause); len(loc) > len(longest) {
			longest = loc
		}
	}

	return longest
}

func pathFromLocation(location []string) *yaml.Path {
	pb := &yaml.PathBuilder{}
	current := pb.Root()

	for _, part := range location {
		if idx, err := strconv.ParseUint(part, 10, 32); err == nil {
			current = current.Index(uint(idx))
		} else {
			current = current.Child(part)
		}
	}

	return current.Build()
}
