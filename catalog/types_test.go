package catalog

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() ReleaseChangeRecord {
	width := 1200
	albumDate := time.Date(1977, 5, 8, 0, 0, 0, 0, time.UTC)
	return ReleaseChangeRecord{
		ID:         4821,
		Status:     StatusLive,
		Title:      "Barton Hall 1977",
		Type:       ObjectShow,
		CatalogIDs: []CatalogID{CatalogNugs, CatalogPlayDead},
		ShowImage:  &ShowImage{ShowID: 4821, URL: "https://img.example.com/4821.jpg"},
		ReleaseImage: &ReleaseImage{
			ID:          "img-1",
			Name:        "cover",
			Description: "front cover",
			Width:       &width,
		},
		AlbumTitle:       "Cornell 5/8/77",
		AlbumAbbr:        "C77",
		AlbumReleaseDate: &albumDate,
		Artist:           Artist{ID: "461", Name: "Grateful Dead", Abbreviation: "GD"},
		Venue:            &Venue{ID: "88", Name: "Barton Hall", City: "Ithaca", State: "NY", Country: "US"},
		ReleaseDate:      time.Date(2017, 5, 5, 12, 0, 0, 0, time.UTC),
		AudioFormats:     []string{"mp3", "flac"},
		Tracks: []Track{
			{ID: 1, SongTitle: "Scarlet Begonias", CodecID: 2, Duration: 640, ShowID: 4821},
			{ID: 2, SongTitle: "Fire on the Mountain", CodecID: 2, Duration: 900, ShowID: 4821},
		},
	}
}

func TestParseCatalogID(t *testing.T) {
	id, err := ParseCatalogID("nugs")
	require.NoError(t, err)
	assert.Equal(t, CatalogNugs, id)

	id, err = ParseCatalogID("playDead")
	require.NoError(t, err)
	assert.Equal(t, CatalogPlayDead, id)

	for _, bad := range []string{"", "NUGS", "playdead", "nugs,playDead"} {
		_, err := ParseCatalogID(bad)
		assert.ErrorIs(t, err, ErrInvalidCatalogID, bad)
	}
}

func TestCatalogIDUnmarshal(t *testing.T) {
	var ids []CatalogID
	require.NoError(t, json.Unmarshal([]byte(`["nugs","playDead"]`), &ids))
	assert.Equal(t, []CatalogID{CatalogNugs, CatalogPlayDead}, ids)

	err := json.Unmarshal([]byte(`["spotify"]`), &ids)
	assert.ErrorIs(t, err, ErrInvalidCatalogID)
}

func TestReleaseStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected string
		active   bool
	}{
		{0, "INACTIVE", false},
		{1, "LIVE", true},
		{2, "PRE_ORDER", true},
		{4, "STAGING_ONLY", false},
		{5, "HIDDEN_LIVE", false},
		{7, "HIDDEN_PRE_ORDER", false},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			s, err := ParseReleaseStatus(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.String())
			assert.Equal(t, tt.active, s.IsActive())
		})
	}
}

func TestReleaseStatusRejectsReservedCodes(t *testing.T) {
	for _, code := range []int{3, 6, 8, -1} {
		_, err := ParseReleaseStatus(code)
		assert.ErrorIs(t, err, ErrInvalidReleaseStatus)

		var s ReleaseStatus
		err = json.Unmarshal([]byte(fmtInt(code)), &s)
		assert.ErrorIs(t, err, ErrInvalidReleaseStatus)
	}

	assert.Equal(t, "UNKNOWN", ReleaseStatus(3).String())
}

func fmtInt(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestObjectTypeUnmarshal(t *testing.T) {
	var ot ObjectType
	require.NoError(t, json.Unmarshal([]byte(`"album"`), &ot))
	assert.Equal(t, ObjectAlbum, ot)

	assert.ErrorIs(t, json.Unmarshal([]byte(`"single"`), &ot), ErrInvalidObjectType)
}

func TestNewSearchRequest(t *testing.T) {
	req, err := NewSearchRequest("Truckin", nil, "")
	require.NoError(t, err)
	assert.Equal(t, []CatalogID{CatalogNugs}, req.CatalogIDs)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"searchString":"Truckin","catalogIds":["nugs"]}`, string(data))

	req, err = NewSearchRequest("Fire", []CatalogID{CatalogNugs, CatalogPlayDead}, "user-1")
	require.NoError(t, err)
	data, err = json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"searchString":"Fire","catalogIds":["nugs","playDead"],"userId":"user-1"}`, string(data))

	_, err = NewSearchRequest("", nil, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "SearchRequest", verr.Entity)

	_, err = NewSearchRequest("Ripple", []CatalogID{"spotify"}, "")
	assert.ErrorIs(t, err, ErrInvalidCatalogID)
}

func TestSearchRequestUnmarshalValidates(t *testing.T) {
	var req SearchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"searchString":"Ripple","catalogIds":["playDead"]}`), &req))
	assert.Equal(t, []CatalogID{CatalogPlayDead}, req.CatalogIDs)

	assert.Error(t, json.Unmarshal([]byte(`{"searchString":"","catalogIds":["nugs"]}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"searchString":"Ripple","catalogIds":[]}`), &req))
}

func TestSearchRequestUnmarshalDefaultsCatalogs(t *testing.T) {
	var req SearchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"searchString":"Ripple"}`), &req))
	assert.Equal(t, []CatalogID{CatalogNugs}, req.CatalogIDs)
	assert.Empty(t, req.UserID)
}

func TestReleaseChangeRecordUnmarshalDefaultsCatalogs(t *testing.T) {
	data, err := json.Marshal(sampleRecord())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	delete(fields, "catalogIds")
	withoutCatalogs, err := json.Marshal(fields)
	require.NoError(t, err)

	var rec ReleaseChangeRecord
	require.NoError(t, json.Unmarshal(withoutCatalogs, &rec))
	assert.Equal(t, []CatalogID{CatalogNugs}, rec.CatalogIDs)

	fields["catalogIds"] = []string{}
	emptyCatalogs, err := json.Marshal(fields)
	require.NoError(t, err)

	var verr *ValidationError
	require.ErrorAs(t, json.Unmarshal(emptyCatalogs, &rec), &verr)
}

func TestReleaseChangeRecordRoundTrip(t *testing.T) {
	records := []ReleaseChangeRecord{sampleRecord()}

	minimal := ReleaseChangeRecord{
		ID:          9,
		Status:      StatusInactive,
		Title:       "Untitled",
		Type:        ObjectAlbum,
		CatalogIDs:  []CatalogID{CatalogPlayDead},
		Artist:      Artist{ID: "1", Name: "Dead & Company"},
		ReleaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	records = append(records, minimal)

	for _, rec := range records {
		require.NoError(t, rec.Validate())

		data, err := json.Marshal(rec)
		require.NoError(t, err)

		var decoded ReleaseChangeRecord
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, rec, decoded)

		again, err := json.Marshal(decoded)
		require.NoError(t, err)
		assert.JSONEq(t, string(data), string(again))
	}
}

func TestReleaseChangeRecordValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*ReleaseChangeRecord)
		sentinel error
	}{
		{
			name:   "missing artist",
			mutate: func(r *ReleaseChangeRecord) { r.Artist = Artist{} },
		},
		{
			name:   "missing release date",
			mutate: func(r *ReleaseChangeRecord) { r.ReleaseDate = time.Time{} },
		},
		{
			name:   "empty catalogs",
			mutate: func(r *ReleaseChangeRecord) { r.CatalogIDs = nil },
		},
		{
			name:     "unknown catalog",
			mutate:   func(r *ReleaseChangeRecord) { r.CatalogIDs = []CatalogID{CatalogNugs, "vault"} },
			sentinel: ErrInvalidCatalogID,
		},
		{
			name:     "reserved status",
			mutate:   func(r *ReleaseChangeRecord) { r.Status = 3 },
			sentinel: ErrInvalidReleaseStatus,
		},
		{
			name:     "unknown type",
			mutate:   func(r *ReleaseChangeRecord) { r.Type = "single" },
			sentinel: ErrInvalidObjectType,
		},
		{
			name:   "track without title",
			mutate: func(r *ReleaseChangeRecord) { r.Tracks[0].SongTitle = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sampleRecord()
			tt.mutate(&rec)

			err := rec.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "ReleaseChangeRecord", verr.Entity)
			assert.NotEmpty(t, verr.Violations)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestReleaseChangeRecordUnmarshalRejectsInvalid(t *testing.T) {
	data, err := json.Marshal(sampleRecord())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	fields["status"] = 6
	bad, err := json.Marshal(fields)
	require.NoError(t, err)

	var rec ReleaseChangeRecord
	assert.ErrorIs(t, json.Unmarshal(bad, &rec), ErrInvalidReleaseStatus)

	fields["status"] = 1
	delete(fields, "artist")
	bad, err = json.Marshal(fields)
	require.NoError(t, err)
	assert.Error(t, json.Unmarshal(bad, &rec))
}

func TestSearchResultItemUnmarshal(t *testing.T) {
	var item SearchResultItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"title":"Ripple","status":1,"catalogIds":"nugs,playDead"}`), &item))
	assert.Equal(t, "42", item.ID)
	require.NotNil(t, item.Title)
	assert.Equal(t, "Ripple", *item.Title)
	assert.Nil(t, item.Name)
	assert.Equal(t, float64(1), item.Fields["status"])
	assert.Equal(t, "nugs,playDead", item.Fields["catalogIds"])

	require.NoError(t, json.Unmarshal([]byte(`{"id":12345678901234567891,"name":"Phish"}`), &item))
	assert.Equal(t, "12345678901234567891", item.ID)
	require.NotNil(t, item.Name)
	assert.Equal(t, "Phish", *item.Name)

	assert.Error(t, json.Unmarshal([]byte(`{"title":"no id"}`), &item))
	assert.Error(t, json.Unmarshal([]byte(`{"id":null}`), &item))
	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &item))
	assert.Error(t, json.Unmarshal([]byte(`{"id":"1","title":5}`), &item))
	assert.Error(t, json.Unmarshal([]byte(`"just a string"`), &item))
}

func TestSearchResponseRecords(t *testing.T) {
	var resp SearchResponse
	body := `{"albums":[{"id":"a1","status":2}],"artists":[{"id":"b1","name":"Phish"}],"tracks":[],"venues":[],
		"performanceYears":[{"year":1977}],"performanceDates":[]}`
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Equal(t, 2, resp.Total())
	albums := resp.Records(ResultAlbums)
	require.Len(t, albums, 1)
	assert.Equal(t, float64(2), albums[0]["status"])
	assert.Empty(t, resp.Records(ResultTracks))
	assert.Len(t, resp.PerformanceYears, 1)
}
