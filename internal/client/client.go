// Package client talks to the portfolio REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/content"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
)

var ErrNotSignedIn = errors.New("not signed in")

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx reply carrying the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Section is a section as returned by the API. Content keeps the raw JSON
// so it can be decoded according to Type.
type Section struct {
	ID        string             `json:"id"`
	UserID    int64              `json:"user_id"`
	Title     string             `json:"title"`
	Type      models.SectionType `json:"type"`
	Content   json.RawMessage    `json:"content"`
	Visible   bool               `json:"visible"`
	Order     int                `json:"order"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

func (s Section) Value() (content.Value, error) {
	return content.Parse(s.Type, s.Content)
}

type Client struct {
	baseURL string
	http    HTTPDoer
	token   string
}

func New(baseURL string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: doer}
}

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

// SignIn authenticates and keeps the returned token for later calls.
func (c *Client) SignIn(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signin", dto.SignInRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

func (c *Client) GetProfile(ctx context.Context, userID int64) (models.Profile, error) {
	var p models.Profile
	err := c.doJSON(ctx, http.MethodGet, "/api/profile/"+id(userID), nil, &p)
	return p, err
}

func (c *Client) PutProfile(ctx context.Context, userID int64, patch map[string]any) error {
	return c.doJSON(ctx, http.MethodPut, "/api/profile/"+id(userID), patch, nil)
}

func (c *Client) ListSections(ctx context.Context, userID int64, visibleOnly bool) ([]Section, error) {
	path := "/api/sections/" + id(userID)
	if visibleOnly {
		path += "?visible=true"
	}
	var out []Section
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) CreateSection(ctx context.Context, userID int64, patch *dto.SectionPatch) (string, error) {
	var out dto.CreateSectionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/sections/"+id(userID), patch, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) UpsertSection(ctx context.Context, userID int64, sectionID string, patch *dto.SectionPatch) error {
	return c.doJSON(ctx, http.MethodPut, "/api/sections/"+id(userID)+"/"+url.PathEscape(sectionID), patch, nil)
}

func (c *Client) DeleteSection(ctx context.Context, userID int64, sectionID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/sections/"+id(userID)+"/"+url.PathEscape(sectionID), nil, nil)
}

func (c *Client) ReorderSections(ctx context.Context, updates []dto.SectionOrder) error {
	if updates == nil {
		updates = []dto.SectionOrder{}
	}
	return c.doJSON(ctx, http.MethodPut, "/api/sections/reorder", updates, nil)
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/change-password", dto.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}, nil)
}

func (c *Client) UploadPhoto(ctx context.Context, filename string, r io.Reader) (*dto.UploadResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("photo", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload/photo", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out dto.UploadResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckImage(ctx context.Context, filename string) (*dto.CheckImageResponse, error) {
	var out dto.CheckImageResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/check-image/"+url.PathEscape(filename), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var env dto.ErrorResponse
		if json.Unmarshal(data, &env) == nil && env.Error != "" {
			apiErr.Message = env.Error
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func id(v int64) string { return strconv.FormatInt(v, 10) }
