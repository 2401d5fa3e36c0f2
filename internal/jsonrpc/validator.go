package jsonrpc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidSchema is returned when a schema document cannot be compiled.
var ErrInvalidSchema = errors.New("jsonrpc: invalid schema document")

// Violation is one schema rule broken by a validated value.
type Violation struct {
	Message string
	Path    string
}

// String renders the violation as it appears in an Invalid Request reply.
func (v Violation) String() string {
	return fmt.Sprintf("Error: %s\n\n Location: %s\n\n", v.Message, v.Path)
}

// Validator checks decoded request batches against a compiled JSON schema.
//
// Thread Safety: a compiled Validator is read-only and safe for
// concurrent use.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles doc. The returned error wraps ErrInvalidSchema.
func NewValidator(doc []byte) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return &Validator{schema: schema}, nil
}

// LoadValidator reads and compiles the schema document at path.
func LoadValidator(path string) (*Validator, error) {
	doc, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", path, err)
	}
	return NewValidator(doc)
}

// IsValid reports whether value satisfies the schema.
func (v *Validator) IsValid(value any) bool {
	return len(v.Validate(value)) == 0
}

// Validate returns every violation found in value, or nil if it is valid.
// value is a decoded JSON document (the result of json.Unmarshal into any).
func (v *Validator) Validate(value any) []Violation {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return []Violation{{Message: err.Error(), Path: "(root)"}}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		violations = append(violations, Violation{
			Message: re.Description(),
			Path:    re.Field(),
		})
	}
	return violations
}

// JoinViolations concatenates violations into one diagnostic string.
func JoinViolations(violations []Violation) string {
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, ";")
}
