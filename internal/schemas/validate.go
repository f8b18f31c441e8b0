// Package schemas validates JSON artifacts against the bundled JSON Schemas or schema files on disk.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/skill-monitor/schemas"
)

// FieldError is one schema violation; Field is "(root)" for document-level errors.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// SchemaLoadError means the schema itself could not be read or compiled.
type SchemaLoadError struct {
	Schema string
	Cause  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Schema, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var bundled sync.Map // schema file name -> *gojsonschema.Schema

// ValidateValue marshals v and validates it against the bundled schema name
// (one of the file name constants of the schemas directory package).
func ValidateValue(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", name, err)
	}
	return ValidateBytes(name, data)
}

// ValidateBytes validates a raw JSON document against the bundled schema name.
func ValidateBytes(name string, data []byte) error {
	schema, err := bundledSchema(name)
	if err != nil {
		return err
	}
	return validate(schema, name, data)
}

// ValidateJSON validates the JSON file at jsonPath against the schema file at schemaPath.
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaData, err := readInput("schema", schemaPath)
	if err != nil {
		return err
	}
	doc, err := readInput("JSON", jsonPath)
	if err != nil {
		return err
	}
	return ValidateDocument(schemaData, doc)
}

// ValidateDocument validates doc against an in-memory schema.
func ValidateDocument(schemaData, doc []byte) error {
	schema, err := compile("(inline)", schemaData)
	if err != nil {
		return err
	}
	return validate(schema, "(inline)", doc)
}

func bundledSchema(name string) (*gojsonschema.Schema, error) {
	if s, ok := bundled.Load(name); ok {
		return s.(*gojsonschema.Schema), nil
	}
	data, err := schemafiles.FS.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Cause: err}
	}
	schema, err := compile(name, data)
	if err != nil {
		return nil, err
	}
	s, _ := bundled.LoadOrStore(name, schema)
	return s.(*gojsonschema.Schema), nil
}

func compile(name string, data []byte) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Cause: err}
	}
	return schema, nil
}

func validate(schema *gojsonschema.Schema, name string, doc []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to parse document for %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

func readInput(kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s file not found: %s", kind, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %s: %w", kind, path, err)
	}
	return data, nil
}
