package aio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://io.adafruit.com/api/v2"

// Feed is a named Adafruit IO feed. Key is the server-assigned identifier
// data points are sent under; Name is the human-readable name used for
// lookup and creation.
type Feed struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Client is a minimal Adafruit IO v2 REST client covering feed lookup,
// feed creation and data points.
type Client struct {
	httpClient *http.Client
	baseURL    string
	user       string
	key        string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func NewClient(user, key string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		user:       user,
		key:        key,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Feed looks up a feed by name. The second return reports whether the feed
// exists; a missing feed is an expected outcome, not an error.
func (c *Client) Feed(ctx context.Context, name string) (Feed, bool, error) {
	endpoint := fmt.Sprintf("%s/%s/feeds/%s", c.baseURL, c.user, url.PathEscape(name))
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Feed{}, false, fmt.Errorf("feed %s lookup: %w", name, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Feed{}, false, fmt.Errorf("feed %s lookup: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Feed{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Feed{}, false, apiError("feed lookup", name, resp)
	}

	var feed Feed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return Feed{}, false, fmt.Errorf("feed %s lookup: decode: %w", name, err)
	}
	return feed, true, nil
}

// CreateFeed provisions a new feed with the given name.
func (c *Client) CreateFeed(ctx context.Context, name string) (Feed, error) {
	body, err := json.Marshal(map[string]any{"feed": map[string]string{"name": name}})
	if err != nil {
		return Feed{}, fmt.Errorf("feed %s create: marshal: %w", name, err)
	}

	endpoint := fmt.Sprintf("%s/%s/feeds", c.baseURL, c.user)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Feed{}, fmt.Errorf("feed %s create: %w", name, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Feed{}, fmt.Errorf("feed %s create: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Feed{}, apiError("feed create", name, resp)
	}

	var feed Feed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return Feed{}, fmt.Errorf("feed %s create: decode: %w", name, err)
	}
	return feed, nil
}

// Send appends value as a new data point on the feed.
func (c *Client) Send(ctx context.Context, feedKey, value string) error {
	body, err := json.Marshal(map[string]string{"value": value})
	if err != nil {
		return fmt.Errorf("feed %s send: marshal: %w", feedKey, err)
	}

	endpoint := fmt.Sprintf("%s/%s/feeds/%s/data", c.baseURL, c.user, url.PathEscape(feedKey))
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("feed %s send: %w", feedKey, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("feed %s send: %w", feedKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError("feed send", feedKey, resp)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-AIO-Key", c.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func apiError(op, name string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s %s: status %d: %s", op, name, resp.StatusCode, bytes.TrimSpace(b))
}
