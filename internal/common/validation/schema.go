// Package validation holds the JSON schemas enforced at the workflow entry
// boundary. Payloads are checked before any stage runs, so handlers can
// assume well-typed input.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// profileDeltaSchema constrains the fields a profile merge may carry. Every
// field is optional. Unknown fields are rejected so typos surface early
// instead of silently dropping data.
const profileDeltaSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"business_name":       {"type": ["string", "null"], "minLength": 1},
		"business_type":       {"type": ["string", "null"], "minLength": 1},
		"country":             {"type": ["string", "null"], "minLength": 2, "maxLength": 2},
		"location_detail":     {"type": ["string", "null"]},
		"target_audience":     {"type": ["string", "null"]},
		"brand_voice":         {"type": ["string", "null"]},
		"content_preferences": {"type": ["string", "null"]},
		"posting_frequency":   {"type": ["string", "null"]},
		"platforms":           {"type": "array", "items": {"type": "string", "minLength": 1}},
		"additional_notes":    {"type": ["string", "null"]}
	}
}`

// collectRequestSchema constrains the collect-trends job payload.
const collectRequestSchema = `{
	"type": "object",
	"required": ["businessType"],
	"properties": {
		"businessType": {"type": "string", "minLength": 1},
		"country":      {"type": "string", "minLength": 2, "maxLength": 2},
		"keywords":     {"type": "array", "items": {"type": "string", "minLength": 1}},
		"runId":        {"type": "string"}
	}
}`

var (
	compiledProfileDelta   = gojsonschema.NewStringLoader(profileDeltaSchema)
	compiledCollectRequest = gojsonschema.NewStringLoader(collectRequestSchema)
)

// ValidateProfileDelta checks a raw profile delta document.
func ValidateProfileDelta(delta map[string]interface{}) error {
	return validate(compiledProfileDelta, delta)
}

// ValidateCollectRequest checks a raw collect-trends request.
func ValidateCollectRequest(req map[string]interface{}) error {
	return validate(compiledCollectRequest, req)
}

func validate(schema gojsonschema.JSONLoader, doc map[string]interface{}) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
