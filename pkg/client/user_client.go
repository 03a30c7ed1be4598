// Package client provides a thin HTTP client for the user-management wire
// contract, for consumption by other services.
package client

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

	"github.com/vaibavdk-pieq/agent-management-template-main/internal/api/dto"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/domain"
)

// APIError is a non-2xx response decoded from the service's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("user service: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// UserClient talks to a remote user-management service. The HTTP client is
// a constructor-supplied collaborator; pass nil to use a default with a
// 10 second timeout.
type UserClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewUserClient builds a client for the given base URL. The token, when
// non-empty, is sent as a bearer credential on every request.
func NewUserClient(baseURL, token string, httpClient *http.Client) (*UserClient, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &UserClient{httpClient: httpClient, baseURL: normalized, token: token}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q", raw)
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// Create creates a user and returns the persisted entity.
func (c *UserClient) Create(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodPost, "/api/users", req, http.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return resp.ToUser(), nil
}

// GetByID fetches a user by id.
func (c *UserClient) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.ToUser(), nil
}

// GetByUsername fetches a user by username.
func (c *UserClient) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/userName/"+url.PathEscape(username), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.ToUser(), nil
}

// List fetches users newest-first. Zero values fall back to the server's
// pagination defaults.
func (c *UserClient) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := url.Values{}
	if limit != 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset != 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/users/all"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp []dto.UserResponse
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(resp))
	for _, item := range resp {
		users = append(users, *item.ToUser())
	}
	return users, nil
}

// Update applies a partial update.
func (c *UserClient) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*domain.User, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), req, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.ToUser(), nil
}

// Deactivate posts to the deactivate endpoint. The server applies the body
// verbatim, so active=false must be set here.
func (c *UserClient) Deactivate(ctx context.Context, id string) (*domain.User, error) {
	inactive := false
	req := dto.UpdateUserRequest{Active: &inactive}
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/"+url.PathEscape(id)+"/deactivate", req, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.ToUser(), nil
}

// Delete removes a user. Deleting an id the server no longer has fails.
func (c *UserClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
}

func (c *UserClient) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var envelope dto.ErrorResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
		}
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       "UNKNOWN",
		Message:    strings.TrimSpace(string(raw)),
	}
}
