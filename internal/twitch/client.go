// Package twitch provides a client for the Twitch Helix API.
package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/Dagingo/clip-finder/internal/clip"
)

const (
	defaultBaseURL = "https://api.twitch.tv/helix"

	// DefaultTimeout bounds every single API call.
	DefaultTimeout = 10 * time.Second

	// DefaultRate keeps a little under the Helix bucket of 800 points per minute.
	DefaultRate = 13.0

	// TopCategoriesLimit is how many top categories a filter without names expands to.
	TopCategoriesLimit = 100
)

// ErrNoCredential is returned when a request is attempted without a bearer token.
var ErrNoCredential = errors.New("no twitch credential")

// Credential supplies the bearer token sent with every request.
type Credential interface {
	BearerToken() (string, error)
}

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Client is a Twitch Helix API client. It is safe for concurrent use.
type Client struct {
	clientID   string
	credential Credential
	baseURL    string
	httpClient HTTPClient
	timeout    time.Duration
	limiter    *rate.Limiter
}

// NewClient creates a new Helix client for the application clientID.
func NewClient(clientID string, credential Credential, opts ...ClientOption) *Client {
	c := &Client{
		clientID:   clientID,
		credential: credential,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRate), 20),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchClips retrieves one page of clips for the query.
func (c *Client) FetchClips(ctx context.Context, q clip.Query) ([]clip.Record, error) {
	params := url.Values{}
	pageSize := q.PageSize
	if pageSize <= 0 || pageSize > clip.MaxPageSize {
		pageSize = clip.MaxPageSize
	}
	params.Set("first", strconv.Itoa(pageSize))
	if !q.Start.IsZero() {
		params.Set("started_at", q.Start.UTC().Format(time.RFC3339))
	}
	if !q.End.IsZero() {
		params.Set("ended_at", q.End.UTC().Format(time.RFC3339))
	}
	if q.CategoryID != "" {
		params.Set("game_id", q.CategoryID)
	}
	if q.ChannelID != "" {
		params.Set("broadcaster_id", q.ChannelID)
	}

	var response clipsResponse
	if err := c.get(ctx, "/clips", params, &response); err != nil {
		return nil, err
	}

	records := make([]clip.Record, 0, len(response.Data))
	for _, item := range response.Data {
		createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
		records = append(records, clip.Record{
			ID:                   item.ID,
			Title:                item.Title,
			BroadcasterName:      item.BroadcasterName,
			ViewCount:            item.ViewCount,
			Language:             item.Language,
			CreatedAt:            createdAt,
			URL:                  item.URL,
			ThumbnailTemplateURL: item.ThumbnailURL,
		})
	}

	return records, nil
}

// TopCategoryIDs returns the ids of the currently most watched categories.
func (c *Client) TopCategoryIDs(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("first", strconv.Itoa(TopCategoriesLimit))

	var response gamesResponse
	if err := c.get(ctx, "/games/top", params, &response); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(response.Data))
	for _, game := range response.Data {
		if game.ID != "" {
			ids = append(ids, game.ID)
		}
	}
	return ids, nil
}

// CategoryID looks up a category (game) by its exact name.
// found is false when the platform does not know the name.
func (c *Client) CategoryID(ctx context.Context, name string) (id string, found bool, err error) {
	params := url.Values{}
	params.Set("name", name)

	var response gamesResponse
	if err := c.get(ctx, "/games", params, &response); err != nil {
		return "", false, err
	}
	if len(response.Data) == 0 || response.Data[0].ID == "" {
		return "", false, nil
	}
	return response.Data[0].ID, true, nil
}

// ChannelID looks up a broadcaster by login name.
// found is false when no such user exists.
func (c *Client) ChannelID(ctx context.Context, login string) (id string, found bool, err error) {
	params := url.Values{}
	params.Set("login", login)

	var response usersResponse
	if err := c.get(ctx, "/users", params, &response); err != nil {
		return "", false, err
	}
	if len(response.Data) == 0 || response.Data[0].ID == "" {
		return "", false, nil
	}
	return response.Data[0].ID, true, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.doRequest(ctx, c.baseURL+path+"?"+params.Encode())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) ([]byte, error) {
	if c.credential == nil {
		return nil, ErrNoCredential
	}
	token, err := c.credential.BearerToken()
	if err != nil {
		return nil, fmt.Errorf("twitch credential unavailable: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleAPIError(resp.StatusCode)
	}

	return body, nil
}

func (c *Client) handleAPIError(statusCode int) error {
	switch statusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("twitch API rejected the query (status 400)")
	case http.StatusUnauthorized:
		return fmt.Errorf("twitch API authentication failed - run 'clipfinder auth' to get a new token")
	case http.StatusForbidden:
		return fmt.Errorf("twitch API access denied - check the application's client ID")
	case http.StatusTooManyRequests:
		return fmt.Errorf("twitch API rate limit exceeded - please try again later")
	case http.StatusServiceUnavailable:
		return fmt.Errorf("twitch API temporarily unavailable - please try again in a few minutes")
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("twitch API server error - please try again later")
	default:
		return fmt.Errorf("twitch API error (status %d)", statusCode)
	}
}
