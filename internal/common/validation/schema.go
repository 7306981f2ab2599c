// internal/common/validation/schema.go

// Package validation validates worker input variables against JSON schemas
// before any processing happens, so malformed process variables surface as
// INVALID_INPUT instead of half-executed jobs.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Validate checks document against schema and returns a single error
// listing every violation, or nil when the document conforms.
func Validate(schema string, document []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid input: %s", strings.Join(problems, "; "))
}
