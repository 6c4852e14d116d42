package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	opFetchCatalog = "fetch catalog"
	opFetchPayload = "fetch payload"
)

// ClientInterface defines the interface for catalog client operations
type ClientInterface interface {
	FetchCatalog(ctx context.Context) (*CatalogResponse, error)
	FetchPayload(ctx context.Context, url string) (string, error)
}

// Client talks to the animation catalog service
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new catalog client. A zero timeout leaves requests
// bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// CatalogURL returns the fixed catalog endpoint
func (c *Client) CatalogURL() string {
	return c.baseURL + "/animations"
}

// FetchCatalog retrieves the list of downloadable animations
func (c *Client) FetchCatalog(ctx context.Context) (*CatalogResponse, error) {
	url := c.CatalogURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Op: opFetchCatalog, URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Op: opFetchCatalog, URL: url, Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{
			Op:         opFetchCatalog,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	var catalog CatalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, &FetchError{Op: opFetchCatalog, URL: url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return &catalog, nil
}

// FetchPayload downloads one animation and returns its body as raw text
func (c *Client) FetchPayload(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{Op: opFetchPayload, URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{Op: opFetchPayload, URL: url, Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{
			Op:         opFetchPayload,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{Op: opFetchPayload, URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	return string(body), nil
}
