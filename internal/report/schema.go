package report

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	reportSchemaLoader gojsonschema.JSONLoader
	reportSchemaOnce   sync.Once
)

// reportSchema describes the machine-readable report format. Consumers that
// script against `--json` output can rely on this contract.
func reportSchema() map[string]any {
	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"required": []any{
			"patched", "failed", "skipped", "nothingParsed", "files",
		},
		"additionalProperties": false,
		"properties": map[string]any{
			"patched":       map[string]any{"type": "integer", "minimum": 0},
			"failed":        map[string]any{"type": "integer", "minimum": 0},
			"skipped":       map[string]any{"type": "integer", "minimum": 0},
			"nothingParsed": map[string]any{"type": "boolean"},
			"files": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"required":             []any{"path", "status"},
					"additionalProperties": false,
					"properties": map[string]any{
						"path":     map[string]any{"type": "string"},
						"status":   map[string]any{"enum": []any{"patched", "failed", "skipped"}},
						"change":   map[string]any{"enum": []any{"A", "M", "D"}},
						"reason":   map[string]any{"type": "string"},
						"code":     map[string]any{"type": "string"},
						"hunk":     map[string]any{"type": "integer", "minimum": 0},
						"expected": map[string]any{"type": "string"},
						"actual":   map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}

type schemaValidationError struct {
	issues []string
}

func (e schemaValidationError) Error() string {
	if len(e.issues) == 0 {
		return "report failed schema validation"
	}
	return strings.Join(e.issues, "; ")
}

// ValidateJSON checks raw JSON against the report schema.
func ValidateJSON(raw []byte) error {
	reportSchemaOnce.Do(func() {
		reportSchemaLoader = gojsonschema.NewGoLoader(reportSchema())
	})

	result, err := gojsonschema.Validate(reportSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("report: schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return schemaValidationError{issues: issues}
}
