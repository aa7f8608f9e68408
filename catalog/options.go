package catalog

const (
	// DefaultAPIVersion is the path segment prefixed to every endpoint
	DefaultAPIVersion = "v1"
	// DefaultActionDate is the timestamp sent with favorites actions
	DefaultActionDate = "2024-01-01T00:00:00Z"
	// DefaultConcurrency bounds SearchMany
	DefaultConcurrency = 4
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	apiVersion      string
	defaultCatalogs []CatalogID
	actionDate      string
	concurrency     int
}

// WithAPIVersion sets the version segment of every endpoint.
func WithAPIVersion(version string) Option {
	return func(o *clientOptions) {
		o.apiVersion = version
	}
}

// WithDefaultCatalogs sets the catalogs SearchSimple uses when none are given.
// Unknown or empty lists are ignored.
func WithDefaultCatalogs(ids []CatalogID) Option {
	return func(o *clientOptions) {
		if len(ids) == 0 {
			return
		}
		for _, id := range ids {
			if !id.IsValid() {
				return
			}
		}
		o.defaultCatalogs = append([]CatalogID(nil), ids...)
	}
}

// WithActionDate sets the actionDate field of favorites payloads.
func WithActionDate(date string) Option {
	return func(o *clientOptions) {
		o.actionDate = date
	}
}

// WithConcurrency sets how many searches SearchMany runs at once.
func WithConcurrency(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
