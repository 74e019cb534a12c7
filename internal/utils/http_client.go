package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a resty client bound to baseURL. Every request
// carries the bearer token and is bounded by timeout; resty's own retries
// stay disabled because retry scheduling belongs to the sync orchestrator.
//
// Example usage:
//
//	client := utils.NewHTTPClient("http://localhost:8080", 10*time.Second, token)
//	resp, err := client.R().SetBody(req).Post("/api/v1/operations")
func NewHTTPClient(baseURL string, timeout time.Duration, token string) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "neuroplan-sync").
		SetRetryCount(0)

	if token != "" {
		client.SetAuthToken(token)
	}

	return &HTTPClient{Client: client}
}
