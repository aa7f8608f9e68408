package catalog

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/catalogprobe/transport"
)

// Executor sends a request and returns the final response after retries.
// *transport.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, method, endpoint string, body any, params url.Values) (*transport.Response, error)
}

// searchFields are the top-level lists every search response must carry
var searchFields = []string{"albums", "artists", "tracks", "venues", "performanceYears", "performanceDates"}

// Client represents a catalog API client. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	exec            Executor
	apiVersion      string
	defaultCatalogs []CatalogID
	actionDate      string
	concurrency     int
	logger          zerolog.Logger
}

// NewClient creates a catalog client on top of exec
func NewClient(exec Executor, logger zerolog.Logger, opts ...Option) *Client {
	options := clientOptions{
		apiVersion:      DefaultAPIVersion,
		defaultCatalogs: []CatalogID{CatalogNugs},
		actionDate:      DefaultActionDate,
		concurrency:     DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		exec:            exec,
		apiVersion:      strings.Trim(options.apiVersion, "/"),
		defaultCatalogs: options.defaultCatalogs,
		actionDate:      options.actionDate,
		concurrency:     options.concurrency,
		logger:          logger,
	}
}

// Search performs a search request
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	endpoint := c.endpoint("search")
	body, err := c.post(ctx, endpoint, req)
	if err != nil {
		return nil, err
	}

	resp, err := decodeSearchResponse(endpoint, body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("search", req.SearchString).
		Strs("catalogs", catalogStrings(req.CatalogIDs)).
		Int("results", resp.Total()).
		Msg("Search completed")

	return resp, nil
}

// SearchSimple builds a SearchRequest from its parts. Without catalogs the
// client's default catalogs are searched.
func (c *Client) SearchSimple(ctx context.Context, searchString string, catalogIDs []CatalogID, userID string) (*SearchResponse, error) {
	if len(catalogIDs) == 0 {
		catalogIDs = c.defaultCatalogs
	}
	req, err := NewSearchRequest(searchString, catalogIDs, userID)
	if err != nil {
		return nil, err
	}
	return c.Search(ctx, req)
}

// SearchMany runs independent searches concurrently. Results keep the order
// of reqs; the first failure cancels the remaining searches.
func (c *Client) SearchMany(ctx context.Context, reqs []SearchRequest) ([]*SearchResponse, error) {
	results := make([]*SearchResponse, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			resp, err := c.Search(ctx, req)
			if err != nil {
				return fmt.Errorf("search %d (%q): %w", i, req.SearchString, err)
			}
			results[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateReleases submits every record in a single release-changes request.
// The batch is never split; the service applies it as one unit.
func (c *Client) UpdateReleases(ctx context.Context, records []ReleaseChangeRecord) (*Acknowledgment, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	endpoint := c.endpoint("release-changes")
	body, err := c.post(ctx, endpoint, records)
	if err != nil {
		return nil, err
	}

	c.logger.Info().Int("records", len(records)).Msg("Submitted release changes")
	return decodeAcknowledgment(endpoint, body)
}

// UpdateRelease submits a single release change
func (c *Client) UpdateRelease(ctx context.Context, record ReleaseChangeRecord) (*Acknowledgment, error) {
	return c.UpdateReleases(ctx, []ReleaseChangeRecord{record})
}

// AddReleaseFavorites adds releases to a user's favorites
func (c *Client) AddReleaseFavorites(ctx context.Context, userID string, releaseIDs []string) (*Acknowledgment, error) {
	if err := validateFavorites(userID, releaseIDs); err != nil {
		return nil, err
	}
	action := favoritesAction{UserID: userID, ReleaseIDs: releaseIDs, ActionDate: c.actionDate}
	return c.addFavorites(ctx, c.endpoint("release-favorites/add"), action)
}

// AddArtistFavorites adds artists to a user's favorites
func (c *Client) AddArtistFavorites(ctx context.Context, userID string, artistIDs []string) (*Acknowledgment, error) {
	if err := validateFavorites(userID, artistIDs); err != nil {
		return nil, err
	}
	action := favoritesAction{UserID: userID, ArtistIDs: artistIDs, ActionDate: c.actionDate}
	return c.addFavorites(ctx, c.endpoint("artist-favorites/add"), action)
}

func (c *Client) addFavorites(ctx context.Context, endpoint string, action favoritesAction) (*Acknowledgment, error) {
	body, err := c.post(ctx, endpoint, []favoritesAction{action})
	if err != nil {
		return nil, err
	}
	return decodeAcknowledgment(endpoint, body)
}

// post sends payload and turns a non-2xx final response into a *StatusError.
// Transport errors are returned unchanged.
func (c *Client) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	resp, err := c.exec.Execute(ctx, http.MethodPost, endpoint, payload, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     http.MethodPost,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(resp.Body), maxErrorBody),
		}
	}

	return resp.Body, nil
}

func (c *Client) endpoint(path string) string {
	if c.apiVersion == "" {
		return path
	}
	return c.apiVersion + "/" + path
}

func decodeSearchResponse(endpoint string, body []byte) (*SearchResponse, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, &FormatError{Endpoint: endpoint, Reason: "body is not a JSON object", Body: truncate(string(body), maxErrorBody), Err: err}
	}
	if top == nil {
		return nil, &FormatError{Endpoint: endpoint, Reason: "body is null", Body: truncate(string(body), maxErrorBody)}
	}

	for _, field := range searchFields {
		raw, ok := top[field]
		if !ok {
			return nil, &FormatError{Endpoint: endpoint, Reason: fmt.Sprintf("missing field %q", field), Body: truncate(string(body), maxErrorBody)}
		}
		if !isJSONArray(raw) {
			return nil, &FormatError{Endpoint: endpoint, Reason: fmt.Sprintf("field %q is not an array", field), Body: truncate(string(body), maxErrorBody)}
		}
	}

	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &FormatError{Endpoint: endpoint, Reason: "malformed result items", Body: truncate(string(body), maxErrorBody), Err: err}
	}
	return &resp, nil
}

func decodeAcknowledgment(endpoint string, body []byte) (*Acknowledgment, error) {
	ack := &Acknowledgment{Raw: json.RawMessage(body)}
	if len(bytes.TrimSpace(body)) == 0 {
		return ack, nil
	}
	if err := json.Unmarshal(body, &ack.Value); err != nil {
		return nil, &FormatError{Endpoint: endpoint, Reason: "body is not JSON", Body: truncate(string(body), maxErrorBody), Err: err}
	}
	return ack, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func validateFavorites(userID string, ids []string) error {
	var violations []string
	if userID == "" {
		violations = append(violations, "userId is required")
	}
	if len(ids) == 0 {
		violations = append(violations, "at least one id is required")
	}
	if len(violations) > 0 {
		return &ValidationError{Entity: "favorites", Violations: violations}
	}
	return nil
}

func catalogStrings(ids []CatalogID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
