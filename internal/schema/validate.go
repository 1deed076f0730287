// Package schema validates report results against JSON Schemas and infers
// schemas describing a report's payload shape.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ValidationResult is the outcome of validating one payload.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator validates JSON payloads against a compiled JSON Schema.
type Validator struct {
	schema  *jsonschema.Schema
	printer *message.Printer
}

// NewValidator compiles a JSON Schema document. Error messages are rendered
// for locale; an undefined tag falls back to English.
func NewValidator(schemaJSON []byte, locale language.Tag) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON Schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("report.schema.json", doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile("report.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	if locale == language.Und {
		locale = language.English
	}
	return &Validator{schema: compiled, printer: message.NewPrinter(locale)}, nil
}

// Validate checks a JSON payload against the schema.
func (v *Validator) Validate(data []byte) *ValidationResult {
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &ValidationResult{Errors: []string{fmt.Sprintf("invalid JSON: %s", err)}}
	}

	if err := v.schema.Validate(value); err != nil {
		return &ValidationResult{Errors: v.messages(err)}
	}
	return &ValidationResult{Valid: true}
}

// messages flattens a validation error into sorted "path: message" lines.
func (v *Validator) messages(err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}

	seen := make(map[string]bool)
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if e.ErrorKind != nil && len(e.Causes) == 0 {
			msg := e.ErrorKind.LocalizedString(v.printer)
			if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
				line := msg
				if len(e.InstanceLocation) > 0 {
					line = "/" + strings.Join(e.InstanceLocation, "/") + ": " + msg
				}
				if !seen[line] {
					seen[line] = true
					out = append(out, line)
				}
			}
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)

	sort.Strings(out)
	return out
}
