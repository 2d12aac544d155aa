// Package userapi is the HTTP client for the users REST resource.
package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/usersadmin/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListParams are the query parameters of GET /users. Page is 1-based.
// Empty OrderBy, OrderDir and Status are left out of the request; Search
// is always sent as given.
type ListParams struct {
	Page     int
	Limit    int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
}

// Values encodes p as URL query values.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	if p.OrderBy != "" {
		v.Set("orderBy", p.OrderBy)
	}
	if p.OrderDir != "" {
		v.Set("orderDir", p.OrderDir)
	}
	v.Set("search", p.Search)
	if p.Status != "" {
		v.Set("status", p.Status)
	}
	return v
}

// ListResult is one page of users plus the total match count.
type ListResult struct {
	Data  []models.User `json:"data"`
	Total int64         `json:"total"`
}

// UserInput is the body of POST /users and PUT /users/{id}.
type UserInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Client talks to the users API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a Client for the API rooted at baseURL (e.g. http://localhost:8080).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches one page of users.
func (c *Client) List(ctx context.Context, p ListParams) (ListResult, error) {
	var out ListResult
	err := c.do(ctx, http.MethodGet, "/users", p.Values(), nil, &out)
	if out.Data == nil {
		out.Data = []models.User{}
	}
	return out, err
}

// Create issues POST /users.
func (c *Client) Create(ctx context.Context, in UserInput) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodPost, "/users", nil, in, &out)
	return out, err
}

// Update issues PUT /users/{id}.
func (c *Client) Update(ctx context.Context, id int64, in UserInput) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodPut, userPath(id), nil, in, &out)
	return out, err
}

// SetStatus issues PATCH /users/{id} with {"status": status}.
func (c *Client) SetStatus(ctx context.Context, id int64, status string) (models.User, error) {
	var out models.User
	body := struct {
		Status string `json:"status"`
	}{status}
	err := c.do(ctx, http.MethodPatch, userPath(id), nil, body, &out)
	return out, err
}

// Delete issues DELETE /users/{id}.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil, nil)
}

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed",
			zap.String("method", method), zap.String("url", u.String()),
			zap.String("request_id", reqID), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		zap.String("method", method), zap.String("url", u.String()),
		zap.String("request_id", reqID), zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var env struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(b, &env); err == nil {
		apiErr.Message = env.Message
		apiErr.FieldErrors = env.Errors
	} else if s := strings.TrimSpace(string(b)); s != "" && len(s) < 200 {
		apiErr.Message = s
	}
	return apiErr
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status      int
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

// ErrorMessage reduces any error returned by Client to one message fit
// for showing to a person.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if t := http.StatusText(apiErr.Status); t != "" {
			return t
		}
		return fmt.Sprintf("Request failed with status %d.", apiErr.Status)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The server did not respond in time."
	case errors.Is(err, context.Canceled):
		return "The request was cancelled."
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return "The server did not respond in time."
		}
		return "Could not reach the server."
	}
	return err.Error()
}
