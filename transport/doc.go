// Package transport executes JSON requests against the catalog API with a
// uniform retry, timeout and authentication policy.
//
// The package knows nothing about catalog payloads. A Client joins endpoints
// onto a base URL, sets the default headers, sends the request and retries
// transient failures with exponential backoff.
//
// # Usage
//
//	client, err := transport.New(transport.Config{
//		BaseURL:      "https://api.example.com",
//		APIKey:       "secret",
//		Timeout:      30 * time.Second,
//		MaxRetries:   3,
//		RetryBackoff: time.Second,
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Post(ctx, "v1/search", body)
//
// # Outcomes
//
// Execute distinguishes two terminal failures:
//
//   - a retryable status that persisted through every retry is returned as the
//     last *Response with a nil error
//   - a call that never got a response returns a *NetworkError
//
// Invalid configuration is reported by New as a *ConfigError.
//
// Timeouts are per attempt. The worst case duration of one call is
// (MaxRetries+1)*Timeout plus the backoff delays.
package transport
