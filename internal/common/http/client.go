// internal/common/http/client.go

// Package http is the timeout-scoped HTTP client shared by the enrichment
// collaborator clients (GeoIQ, Outscraper). Callers build their own requests
// with a context; the timeout here is the per-collaborator ceiling from
// config.
package http

import (
	"net/http"
	"time"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
