package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gamelog/internal/models"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "http://localhost:8080/api"
	defaultRateLimit = 10.0
	requestIDHeader  = "X-Request-ID"
)

// Client talks to the gamelog REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     session.TokenSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOpts contains configuration options for creating a [Client].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     session.TokenSource
	RateLimit  float64 // requests per second
	Timeout    time.Duration
	Logger     *log.Logger
}

// NewClient creates a [Client]. Zero options fall back to local defaults.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Tokens == nil {
		opts.Tokens = session.StaticToken("")
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:     opts.Logger,
	}
}

// WithTokens returns a copy of c that reads its bearer token from ts.
//
// The copy shares the HTTP client and rate limiter.
func (c *Client) WithTokens(ts session.TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// WithLogger returns a copy of c that logs to logger.
func (c *Client) WithLogger(logger *log.Logger) *Client {
	cp := *c
	cp.logger = logger
	return &cp
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// Response is a raw backend response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// IsJSON reports whether the body parses as JSON.
func (r *Response) IsJSON() bool { return json.Valid(r.Body) }

// Do sends a request with an optional JSON body and returns the raw response without checking its status.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := shared.GenerateID()
	req.Header.Set(requestIDHeader, requestID)

	if token, ok := c.tokens.Token(); ok {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("backend request", "method", method, "path", path, "status", resp.StatusCode,
		"duration", time.Since(start), "request_id", requestID)

	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: data}, nil
}

// call sends in as JSON (when non-nil), checks the status and decodes the body into out (when non-nil).
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = data
	}

	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: resp.Body}
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.call(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%w: empty token in login response", shared.ErrAuthFailed)
	}
	return &out, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.call(ctx, http.MethodPost, "/auth/register", req, nil)
}

// ListGames returns the whole collection in server order.
func (c *Client) ListGames(ctx context.Context) ([]models.Game, error) {
	games := []models.Game{}
	if err := c.call(ctx, http.MethodGet, "/games", nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// SearchGames queries the external catalog through the backend.
func (c *Client) SearchGames(ctx context.Context, query string) ([]models.SearchResult, error) {
	path := "/search/games?" + url.Values{"query": {query}}.Encode()

	results := []models.SearchResult{}
	if err := c.call(ctx, http.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// AddGame adds a catalog hit to the collection.
func (c *Client) AddGame(ctx context.Context, req models.AddGameRequest) (*models.Game, error) {
	var game models.Game
	if err := c.call(ctx, http.MethodPost, "/games", req, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// RemoveGame deletes an entry by id.
func (c *Client) RemoveGame(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, "/games/"+strconv.FormatInt(id, 10), nil, nil)
}

// UpdateStatus changes an entry's status.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, string(status))
	}
	return c.call(ctx, http.MethodPatch, "/games/"+strconv.FormatInt(id, 10), models.StatusUpdate{Status: status}, nil)
}
