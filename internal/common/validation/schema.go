package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// searchRequestSchema constrains the search endpoint payload. Weight overrides
// are optional and validated per-component; the sum is checked by the service.
var searchRequestSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"skills": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"maxItems": 100,
			"items": map[string]interface{}{
				"type":      "string",
				"minLength": 1,
				"maxLength": 128,
			},
		},
		"mode": map[string]interface{}{
			"type": "string",
			"enum": []string{"SEEKER", "RECRUITER"},
		},
		"limit": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
			"maximum": 100,
		},
		"experience": map[string]interface{}{
			"type":      "string",
			"maxLength": 32,
		},
		"weights": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"vector":   map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
				"overlap":  map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
				"coverage": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
				"extra":    map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
			},
			"additionalProperties": false,
		},
	},
	"required":             []string{"skills", "mode"},
	"additionalProperties": false,
}

var statisticsRequestSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"mode": map[string]interface{}{
			"type": "string",
			"enum": []string{"SEEKER", "RECRUITER"},
		},
		"topN": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
			"maximum": 50,
		},
	},
	"required":             []string{"mode"},
	"additionalProperties": false,
}

func ValidateSearchRequest(payload map[string]interface{}) error {
	return validate(payload, searchRequestSchema)
}

func ValidateStatisticsRequest(payload map[string]interface{}) error {
	return validate(payload, statisticsRequestSchema)
}

func validate(payload, schema map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("request validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
