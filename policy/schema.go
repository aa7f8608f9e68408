package policy

import (
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// SearchResponseFields are the top-level lists of a search response
var SearchResponseFields = []string{"albums", "artists", "tracks", "venues", "performanceYears", "performanceDates"}

// ValidateSearchResponseSchema reports whether payload carries all
// SearchResponseFields as lists. Violations are logged, never returned.
func ValidateSearchResponseSchema(payload any, logger zerolog.Logger) bool {
	errs := SearchResponseSchemaErrors(payload)
	if len(errs) == 0 {
		return true
	}

	for _, err := range errs {
		logger.Warn().Err(err).Msg("Search response failed schema validation")
	}
	logger.Debug().Str("payload", PrettyJSON(payload)).Msg("Rejected search response")
	return false
}

// SearchResponseSchemaErrors returns one *SchemaError per violation.
//
// payload may be a decoded map, raw JSON ([]byte, json.RawMessage, string) or
// any value that marshals to a JSON object, such as *catalog.SearchResponse.
func SearchResponseSchemaErrors(payload any) []error {
	fields, err := asObject(payload)
	if err != nil {
		return []error{&SchemaError{Reason: err.Error()}}
	}

	var errs []error
	for _, name := range SearchResponseFields {
		v, ok := fields[name]
		if !ok {
			errs = append(errs, &SchemaError{Field: name, Reason: "missing"})
			continue
		}
		if !isSequence(v) {
			errs = append(errs, &SchemaError{Field: name, Reason: fmt.Sprintf("expected a list, got %s", describe(v))})
		}
	}
	return errs
}

func asObject(payload any) (map[string]any, error) {
	var raw []byte
	switch p := payload.(type) {
	case nil:
		return nil, fmt.Errorf("payload is null")
	case map[string]any:
		return p, nil
	case json.RawMessage:
		raw = p
	case []byte:
		raw = p
	case string:
		raw = []byte(p)
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("payload cannot be encoded: %w", err)
		}
		raw = b
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("payload is null")
	}
	return fields, nil
}

func isSequence(v any) bool {
	if v == nil {
		return false
	}
	kind := reflect.TypeOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	return reflect.TypeOf(v).String()
}

// PrettyJSON renders v as indented JSON, falling back to %v when v cannot be
// encoded.
func PrettyJSON(v any) string {
	if raw, ok := v.(json.RawMessage); ok {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			v = decoded
		}
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
