package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient("http://localhost/v1", apiKey, 30*time.Second)
//	resp, err := client.R().Get("/datasets")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an HTTPClient bound to baseURL that sends token as a
// bearer credential and gives up on a request after timeout.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state. A zero timeout leaves resty's
// default (no timeout) in place; an empty token sends no Authorization header.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")

	if token != "" {
		client.SetAuthToken(token)
	}
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}
