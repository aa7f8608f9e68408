// Package catalog provides the data model of the music catalog API and a
// client for its search, release-changes and favorites endpoints.
//
// # Data model
//
// Enumerated wire values are closed Go types: CatalogID, ReleaseStatus and
// ObjectType reject unknown values when decoded or validated. Entities are
// plain structs validated with Validate; SearchRequest and
// ReleaseChangeRecord also validate while being decoded, so a decoded value
// always satisfies its invariants.
//
// # Usage
//
//	exec, err := transport.New(transport.Config{
//		BaseURL: "https://api.example.com",
//		Timeout: 30 * time.Second,
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client := catalog.NewClient(exec, logger)
//	req, err := catalog.NewSearchRequest("Ripple", []catalog.CatalogID{catalog.CatalogPlayDead}, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//	resp, err := client.Search(ctx, req)
//
// # Error Handling
//
//   - *ValidationError: the input violates the data model; nothing was sent
//   - *transport.NetworkError: no response was received, returned unchanged
//   - *StatusError: the final response was not 2xx
//   - *FormatError: the response body did not have the expected shape
//
// Write operations are not idempotent at the service. The client never
// retries them beyond what the transport does for transient status codes.
package catalog
