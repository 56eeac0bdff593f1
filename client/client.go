// Package client is a typed HTTP client for the tech map API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tutusiji/lantu-next/models"
	"github.com/tutusiji/lantu-next/services"
)

const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from the API error body.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Field      string `json:"field,omitempty"`
	Details    string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %s)", e.Field)
	}
	return msg
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithToken sets an admin token obtained earlier.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the admin token in use, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates and keeps the returned token for later mutations.
func (c *Client) Login(ctx context.Context, username, password string) (*services.LoginResult, error) {
	var result services.LoginResult
	req := services.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", req, &result); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = result.Token
	c.mu.Unlock()
	return &result, nil
}

func (c *Client) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var dash models.Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

func (c *Client) Layers(ctx context.Context) ([]models.Layer, error) {
	var layers []models.Layer
	if err := c.do(ctx, http.MethodGet, "/layers", nil, &layers); err != nil {
		return nil, err
	}
	return layers, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// TechItems lists items matching filter: all, active, missing or a tag.
func (c *Client) TechItems(ctx context.Context, filter string) ([]models.TechItem, error) {
	path := "/tech-items"
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}
	var items []models.TechItem
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &stats)
	return stats, err
}

// Reorder persists a whole-scope restamp.
func (c *Client) Reorder(ctx context.Context, kind models.ScopeKind, updates []models.OrderUpdate) error {
	req := services.ReorderRequest{Type: string(kind), Updates: updates}
	return c.do(ctx, http.MethodPost, "/reorder", req, nil)
}

// Move asks the server to move one row and returns the orders it wrote.
func (c *Client) Move(ctx context.Context, kind models.ScopeKind, parentID int64, from, to int) ([]models.OrderUpdate, error) {
	req := services.MoveRequest{Type: string(kind), ParentID: parentID, From: from, To: to}
	var resp struct {
		Updates []models.OrderUpdate `json:"updates"`
	}
	if err := c.do(ctx, http.MethodPost, "/reorder/move", req, &resp); err != nil {
		return nil, err
	}
	return resp.Updates, nil
}

func (c *Client) CreateLayer(ctx context.Context, req services.CreateLayerRequest) (*models.Layer, error) {
	var layer models.Layer
	if err := c.do(ctx, http.MethodPost, "/layer", req, &layer); err != nil {
		return nil, err
	}
	return &layer, nil
}

func (c *Client) CreateCategory(ctx context.Context, req services.CreateCategoryRequest) (*models.Category, error) {
	var category models.Category
	if err := c.do(ctx, http.MethodPost, "/category", req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) CreateTechItem(ctx context.Context, req services.CreateTechItemRequest) (*models.TechItem, error) {
	var item models.TechItem
	if err := c.do(ctx, http.MethodPost, "/tech-item", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(respBody, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
