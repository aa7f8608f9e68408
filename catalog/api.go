package catalog

import (
	"context"
)

// API defines the catalog operations, for callers that want to stub the service
type API interface {
	// Search runs a search request
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)

	// SearchSimple runs a search built from its parts
	SearchSimple(ctx context.Context, searchString string, catalogIDs []CatalogID, userID string) (*SearchResponse, error)

	// UpdateReleases submits a batch of release changes in one request
	UpdateReleases(ctx context.Context, records []ReleaseChangeRecord) (*Acknowledgment, error)

	// AddReleaseFavorites adds releases to a user's favorites
	AddReleaseFavorites(ctx context.Context, userID string, releaseIDs []string) (*Acknowledgment, error)

	// AddArtistFavorites adds artists to a user's favorites
	AddArtistFavorites(ctx context.Context, userID string, artistIDs []string) (*Acknowledgment, error)
}

var _ API = (*Client)(nil)
