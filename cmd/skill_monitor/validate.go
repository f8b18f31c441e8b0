package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-monitor/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON artifact against a schema",
	Long: `Validates a JSON file against a JSON Schema. --schema is either a schema file path or the
name of a bundled schema such as competency_matrix or gap_report.schema.json.`,
	RunE: runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Schema file or bundled schema name (required)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("schema"); err != nil {
		panic(fmt.Sprintf("failed to mark schema flag as required: %v", err))
	}
	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

// bundledSchemaName maps "competency_matrix" and "competency_matrix.schema.json" to the bundled file name
func bundledSchemaName(name string) string {
	if strings.HasSuffix(name, ".schema.json") {
		return name
	}
	return name + ".schema.json"
}

func runValidate(_ *cobra.Command, _ []string) error {
	var err error
	if _, statErr := os.Stat(validateSchema); statErr == nil {
		err = schemas.ValidateJSON(validateSchema, validateJSON)
	} else {
		data, readErr := os.ReadFile(validateJSON)
		if errors.Is(readErr, fs.ErrNotExist) {
			return fmt.Errorf("JSON file not found: %s", validateJSON)
		}
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", validateJSON, readErr)
		}
		err = schemas.ValidateBytes(bundledSchemaName(validateSchema), data)
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprintf(os.Stderr, "Validation failed:\n%s", validationErr.Error())
		return fmt.Errorf("%s does not match %s", validateJSON, validateSchema)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Validation passed: %s\n", validateJSON)
	return nil
}
