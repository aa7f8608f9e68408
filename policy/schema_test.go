package policy

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/catalogprobe/catalog"
)

func validPayload() map[string]any {
	return map[string]any{
		"albums":           []any{map[string]any{"id": "a1", "status": float64(1), "catalogIds": "nugs"}},
		"artists":          []any{},
		"tracks":           []any{},
		"venues":           []any{map[string]any{"id": "v1", "catalogIds": "nugs,playDead"}},
		"performanceYears": []any{},
		"performanceDates": []any{},
	}
}

func TestValidateSearchResponseSchema(t *testing.T) {
	assert.True(t, ValidateSearchResponseSchema(validPayload(), zerolog.Nop()))

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	payload := validPayload()
	delete(payload, "venues")
	assert.False(t, ValidateSearchResponseSchema(payload, logger))
	assert.Contains(t, buf.String(), `field \"venues\" missing`)
}

func TestSearchResponseSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		fields  []string
	}{
		{
			name:    "valid map",
			payload: validPayload(),
		},
		{
			name: "raw json",
			payload: []byte(`{"albums":[],"artists":[],"tracks":[],"venues":[],
				"performanceYears":[],"performanceDates":[],"extra":1}`),
		},
		{
			name:    "typed response",
			payload: &catalog.SearchResponse{Albums: []catalog.SearchResultItem{}, Artists: []catalog.SearchResultItem{}, Tracks: []catalog.SearchResultItem{}, Venues: []catalog.SearchResultItem{}, PerformanceYears: []map[string]any{}, PerformanceDates: []map[string]any{}},
		},
		{
			name:    "missing venues",
			payload: `{"albums":[],"artists":[],"tracks":[],"performanceYears":[],"performanceDates":[]}`,
			fields:  []string{"venues"},
		},
		{
			name:    "wrong types",
			payload: map[string]any{"albums": map[string]any{}, "artists": "x", "tracks": nil, "venues": []string{}, "performanceYears": []any{}, "performanceDates": []any{}},
			fields:  []string{"albums", "artists", "tracks"},
		},
		{
			name:    "empty object",
			payload: json.RawMessage(`{}`),
			fields:  SearchResponseFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := SearchResponseSchemaErrors(tt.payload)
			require.Len(t, errs, len(tt.fields))
			for i, err := range errs {
				var schemaErr *SchemaError
				require.ErrorAs(t, err, &schemaErr)
				assert.Equal(t, tt.fields[i], schemaErr.Field)
			}
		})
	}
}

func TestSearchResponseSchemaErrorsUnusablePayload(t *testing.T) {
	for _, payload := range []any{nil, "[]", []byte("not json"), "null", 42} {
		errs := SearchResponseSchemaErrors(payload)
		require.Len(t, errs, 1, "%v", payload)

		var schemaErr *SchemaError
		require.ErrorAs(t, errs[0], &schemaErr)
		assert.Empty(t, schemaErr.Field)
		assert.False(t, ValidateSearchResponseSchema(payload, zerolog.Nop()))
	}
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", PrettyJSON(map[string]int{"a": 1}))
	assert.Equal(t, "[\n  1,\n  2\n]", PrettyJSON(json.RawMessage(`[1,2]`)))
	assert.Equal(t, "null", PrettyJSON(nil))
}
