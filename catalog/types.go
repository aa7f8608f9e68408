package catalog

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// CatalogID identifies a content partition of the catalog service
type CatalogID string

const (
	// CatalogNugs is the nugs catalog
	CatalogNugs CatalogID = "nugs"
	// CatalogPlayDead is the playDead catalog
	CatalogPlayDead CatalogID = "playDead"
)

// ParseCatalogID converts a wire value into a CatalogID, rejecting unknown catalogs
func ParseCatalogID(s string) (CatalogID, error) {
	id := CatalogID(s)
	if !id.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCatalogID, s)
	}
	return id, nil
}

// IsValid reports whether the id is one of the known catalogs
func (id CatalogID) IsValid() bool {
	return id == CatalogNugs || id == CatalogPlayDead
}

func (id CatalogID) String() string {
	return string(id)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *CatalogID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCatalogID, string(data))
	}
	parsed, err := ParseCatalogID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ReleaseStatus is the lifecycle state of a release. The codes are not
// contiguous: 3 and 6 are reserved by the service.
type ReleaseStatus int

const (
	// StatusInactive marks a release that is not visible anywhere
	StatusInactive ReleaseStatus = 0
	// StatusLive marks a published release
	StatusLive ReleaseStatus = 1
	// StatusPreOrder marks a release open for pre-order
	StatusPreOrder ReleaseStatus = 2
	// StatusStagingOnly marks a release only visible on staging
	StatusStagingOnly ReleaseStatus = 4
	// StatusHiddenLive marks a live release hidden from listings
	StatusHiddenLive ReleaseStatus = 5
	// StatusHiddenPreOrder marks a pre-order release hidden from listings
	StatusHiddenPreOrder ReleaseStatus = 7
)

// ParseReleaseStatus converts a numeric code into a ReleaseStatus
func ParseReleaseStatus(code int) (ReleaseStatus, error) {
	s := ReleaseStatus(code)
	if !s.IsValid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidReleaseStatus, code)
	}
	return s, nil
}

// IsValid reports whether the status is a known code
func (s ReleaseStatus) IsValid() bool {
	switch s {
	case StatusInactive, StatusLive, StatusPreOrder, StatusStagingOnly, StatusHiddenLive, StatusHiddenPreOrder:
		return true
	default:
		return false
	}
}

// IsActive reports whether the release is visible to end users
func (s ReleaseStatus) IsActive() bool {
	return s == StatusLive || s == StatusPreOrder
}

// String returns the string representation of a ReleaseStatus
func (s ReleaseStatus) String() string {
	switch s {
	case StatusInactive:
		return "INACTIVE"
	case StatusLive:
		return "LIVE"
	case StatusPreOrder:
		return "PRE_ORDER"
	case StatusStagingOnly:
		return "STAGING_ONLY"
	case StatusHiddenLive:
		return "HIDDEN_LIVE"
	case StatusHiddenPreOrder:
		return "HIDDEN_PRE_ORDER"
	default:
		return "UNKNOWN"
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (s *ReleaseStatus) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidReleaseStatus, string(data))
	}
	parsed, err := ParseReleaseStatus(code)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ObjectType is the kind of release
type ObjectType string

const (
	// ObjectShow is a recorded show
	ObjectShow ObjectType = "show"
	// ObjectAlbum is an album
	ObjectAlbum ObjectType = "album"
)

// IsValid reports whether the type is known
func (t ObjectType) IsValid() bool {
	return t == ObjectShow || t == ObjectAlbum
}

// UnmarshalJSON implements json.Unmarshaler
func (t *ObjectType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidObjectType, string(data))
	}
	if !ObjectType(s).IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidObjectType, s)
	}
	*t = ObjectType(s)
	return nil
}

// SearchRequest is the body of a search call
type SearchRequest struct {
	SearchString string      `json:"searchString" validate:"required,min=1"`
	CatalogIDs   []CatalogID `json:"catalogIds" validate:"required,min=1,dive,catalogid"`
	UserID       string      `json:"userId,omitempty"`
}

// NewSearchRequest builds a validated SearchRequest. When no catalogs are
// given the request targets the nugs catalog.
func NewSearchRequest(searchString string, catalogIDs []CatalogID, userID string) (SearchRequest, error) {
	if len(catalogIDs) == 0 {
		catalogIDs = []CatalogID{CatalogNugs}
	}
	req := SearchRequest{
		SearchString: searchString,
		CatalogIDs:   append([]CatalogID(nil), catalogIDs...),
		UserID:       userID,
	}
	if err := req.Validate(); err != nil {
		return SearchRequest{}, err
	}
	return req, nil
}

// Validate checks the request invariants
func (r SearchRequest) Validate() error {
	return validateEntity("SearchRequest", r)
}

// UnmarshalJSON decodes and validates a SearchRequest
func (r *SearchRequest) UnmarshalJSON(data []byte) error {
	type plain SearchRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	req := SearchRequest(p)
	if req.CatalogIDs == nil {
		req.CatalogIDs = []CatalogID{CatalogNugs}
	}
	if err := req.Validate(); err != nil {
		return err
	}
	*r = req
	return nil
}

// SearchResultItem is one hit in a search result list. Fields keeps every
// attribute the service sent, including ones not modelled here.
type SearchResultItem struct {
	ID     string
	Title  *string
	Name   *string
	Fields map[string]any
}

// UnmarshalJSON implements json.Unmarshaler
func (i *SearchResultItem) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("result item is not an object: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("result item is null")
	}

	item := SearchResultItem{Fields: fields}

	// the id is read from its raw text so large numeric ids keep every digit
	var head struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("result item is not an object: %w", err)
	}
	id, err := itemID(head.ID)
	if err != nil {
		return err
	}
	item.ID = id

	if item.Title, err = optionalString(fields, "title"); err != nil {
		return err
	}
	if item.Name, err = optionalString(fields, "name"); err != nil {
		return err
	}

	*i = item
	return nil
}

// MarshalJSON implements json.Marshaler
func (i SearchResultItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Fields)+3)
	for k, v := range i.Fields {
		out[k] = v
	}
	out["id"] = i.ID
	if i.Title != nil {
		out["title"] = *i.Title
	}
	if i.Name != nil {
		out["name"] = *i.Name
	}
	return json.Marshal(out)
}

func itemID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || string(raw) == "null":
		return "", fmt.Errorf("result item has no id")
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("result item id: %w", err)
		}
		return s, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("result item id has unexpected value %s", raw)
		}
		return n.String(), nil
	}
}

func optionalString(fields map[string]any, key string) (*string, error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("result item %s has unexpected type %T", key, raw)
	}
	return &s, nil
}

// ResultKind names one of the item lists of a SearchResponse
type ResultKind string

const (
	ResultAlbums  ResultKind = "albums"
	ResultArtists ResultKind = "artists"
	ResultTracks  ResultKind = "tracks"
	ResultVenues  ResultKind = "venues"
)

// SearchResponse is the decoded body of a search call
type SearchResponse struct {
	Albums           []SearchResultItem `json:"albums"`
	Artists          []SearchResultItem `json:"artists"`
	Tracks           []SearchResultItem `json:"tracks"`
	Venues           []SearchResultItem `json:"venues"`
	PerformanceYears []map[string]any   `json:"performanceYears"`
	PerformanceDates []map[string]any   `json:"performanceDates"`
}

// Records returns the raw attributes of every item in the given list
func (r *SearchResponse) Records(kind ResultKind) []map[string]any {
	var items []SearchResultItem
	switch kind {
	case ResultAlbums:
		items = r.Albums
	case ResultArtists:
		items = r.Artists
	case ResultTracks:
		items = r.Tracks
	case ResultVenues:
		items = r.Venues
	}

	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		records = append(records, item.Fields)
	}
	return records
}

// Total returns the number of items across all result lists
func (r *SearchResponse) Total() int {
	return len(r.Albums) + len(r.Artists) + len(r.Tracks) + len(r.Venues)
}

// Artist is the performer of a release
type Artist struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// Venue is where a show was recorded
type Venue struct {
	ID      string `json:"id" validate:"required"`
	Title   string `json:"title,omitempty"`
	Name    string `json:"name,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Track is a single song of a release
type Track struct {
	ID        int    `json:"id"`
	SongTitle string `json:"songTitle" validate:"required"`
	CodecID   int    `json:"codecId"`
	Duration  int    `json:"duration" validate:"min=0"`
	ShowID    int    `json:"showId"`
}

// ShowImage is the artwork attached to a show
type ShowImage struct {
	ShowID int    `json:"showId"`
	URL    string `json:"url" validate:"required"`
}

// ReleaseImage is the artwork attached to a release
type ReleaseImage struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Width       *int   `json:"width,omitempty"`
	Height      *int   `json:"height,omitempty"`
	Caption     string `json:"caption,omitempty"`
}

// ReleaseChangeRecord describes the desired state of one release
type ReleaseChangeRecord struct {
	ID               int           `json:"id"`
	Status           ReleaseStatus `json:"status" validate:"releasestatus"`
	Title            string        `json:"title"`
	Type             ObjectType    `json:"type" validate:"objecttype"`
	CatalogIDs       []CatalogID   `json:"catalogIds" validate:"required,min=1,dive,catalogid"`
	ShowImage        *ShowImage    `json:"showImage,omitempty"`
	ReleaseImage     *ReleaseImage `json:"releaseImage,omitempty"`
	AlbumTitle       string        `json:"albumTitle,omitempty"`
	AlbumAbbr        string        `json:"albumAbbr,omitempty"`
	AlbumReleaseDate *time.Time    `json:"albumReleaseDate,omitempty"`
	Artist           Artist        `json:"artist" validate:"required"`
	Venue            *Venue        `json:"venue,omitempty"`
	ReleaseDate      time.Time     `json:"releaseDate" validate:"required"`
	AudioFormats     []string      `json:"audioFormats"`
	Tracks           []Track       `json:"tracks" validate:"dive"`
}

// Validate checks the record invariants
func (r ReleaseChangeRecord) Validate() error {
	return validateEntity("ReleaseChangeRecord", r)
}

// UnmarshalJSON decodes and validates a ReleaseChangeRecord
func (r *ReleaseChangeRecord) UnmarshalJSON(data []byte) error {
	type plain ReleaseChangeRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	rec := ReleaseChangeRecord(p)
	if rec.CatalogIDs == nil {
		rec.CatalogIDs = []CatalogID{CatalogNugs}
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	*r = rec
	return nil
}

// favoritesAction is one entry of a favorites batch
type favoritesAction struct {
	UserID     string   `json:"userId"`
	ReleaseIDs []string `json:"releaseIds,omitempty"`
	ArtistIDs  []string `json:"artistIds,omitempty"`
	ActionDate string   `json:"actionDate"`
}

// Acknowledgment is the decoded body returned by a write operation
type Acknowledgment struct {
	Raw   json.RawMessage
	Value any
}

// Fields returns the acknowledgment as an object, or nil when the service
// answered with something else
func (a *Acknowledgment) Fields() map[string]any {
	m, _ := a.Value.(map[string]any)
	return m
}
