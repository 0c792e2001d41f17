// internal/common/validation/schema.go

// Package validation checks fulfillment request payloads against a JSON schema
// before they enter the processing path.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// fulfillmentRequestSchema describes the queue message payload. party_size is
// deliberately loose (string or number) because the dialog layer forwards
// whatever the user typed.
var fulfillmentRequestSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"request_id": map[string]interface{}{"type": "string"},
		"cuisine": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"location":    map[string]interface{}{"type": "string"},
		"dining_time": map[string]interface{}{"type": "string"},
		"party_size": map[string]interface{}{
			"type": []interface{}{"string", "number"},
		},
		"email": map[string]interface{}{
			"type":      "string",
			"minLength": 3,
			"pattern":   "@",
		},
	},
	"required":             []interface{}{"cuisine", "email", "dining_time", "party_size"},
	"additionalProperties": true,
}

// ValidateFulfillmentRequest validates a decoded queue message body.
func ValidateFulfillmentRequest(doc map[string]interface{}) *ValidationResult {
	schemaLoader := gojsonschema.NewGoLoader(fulfillmentRequestSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "_schema",
				Message: fmt.Sprintf("schema validation error: %v", err),
				Code:    "SCHEMA_ERROR",
			}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errors := make([]ValidationError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errors = append(errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    e.Type(),
		})
	}

	return &ValidationResult{Valid: false, Errors: errors}
}
