// Package api is a small client for the portfolio HTTP API, used by the
// admin shell.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/portfolio/internal/models"
)

// Error is a failure reported by the server in an {"error": ...} payload.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Client calls the portfolio API at BaseURL.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// New returns a Client with a bounded request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// NewProject is the input of CreateProject. ImagePath names a local file.
type NewProject struct {
	Category    string
	Name        string
	Description string
	TechUsed    string
	Link        string
	ImagePath   string
}

type reply struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Token   string `json:"token"`
}

// ListProjects fetches every project.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := c.getJSON(ctx, "/api/portfolio-projects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject fetches one project.
func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := c.getJSON(ctx, "/api/project/"+id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject uploads the image file together with the project fields.
func (c *Client) CreateProject(ctx context.Context, p NewProject) (string, error) {
	f, err := os.Open(p.ImagePath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, kv := range [][2]string{
		{"category", p.Category},
		{"name", p.Name},
		{"description", p.Description},
		{"techUsed", p.TechUsed},
		{"link", p.Link},
	} {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return "", err
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(p.ImagePath)))
	h.Set("Content-Type", imageContentType(p.ImagePath))
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	rep, err := c.send(ctx, http.MethodPost, "/api/new-project", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	return rep.Message, nil
}

// UpdateProject overwrites all editable fields of project id.
func (c *Client) UpdateProject(ctx context.Context, id string, f models.ProjectFields) (string, error) {
	body := struct {
		ID string `json:"id"`
		models.ProjectFields
	}{ID: id, ProjectFields: f}
	return c.message(ctx, http.MethodPost, "/api/project/update-project", body)
}

// DeleteProject removes project id.
func (c *Client) DeleteProject(ctx context.Context, id string) (string, error) {
	return c.message(ctx, http.MethodDelete, "/api/delete-project", map[string]string{"id": id})
}

// Login exchanges credentials for the session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	rep, err := c.sendJSON(ctx, http.MethodPost, "/api/login",
		map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}
	return rep.Token, nil
}

// CheckToken asks the server whether token is still valid.
func (c *Client) CheckToken(ctx context.Context, token string) (string, error) {
	return c.message(ctx, http.MethodPost, "/api/check-token", map[string]string{"token": token})
}

// Contact submits the contact form.
func (c *Client) Contact(ctx context.Context, m models.ContactMessage) (string, error) {
	return c.message(ctx, http.MethodPost, "/api/contact-me", m)
}

func (c *Client) message(ctx context.Context, method, path string, body any) (string, error) {
	rep, err := c.sendJSON(ctx, method, path, body)
	if err != nil {
		return "", err
	}
	return rep.Message, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any) (*reply, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, method, path, "application/json", bytes.NewReader(b))
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) (*reply, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var rep reply
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	if rep.Error != "" {
		return nil, &Error{Message: rep.Error}
	}
	return &rep, nil
}

// getJSON decodes a successful body into dst. An {"error": ...} object is
// returned as *Error.
func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	raw, err := c.do(req)
	if err != nil {
		return err
	}

	var rep reply
	if json.Unmarshal(raw, &rep) == nil && rep.Error != "" {
		return &Error{Message: rep.Error}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var rep reply
		if json.Unmarshal(raw, &rep) == nil && rep.Error != "" {
			return nil, &Error{Message: rep.Error}
		}
		return nil, fmt.Errorf("server error: %s", strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

func imageContentType(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// IsServerError reports whether err came from an {"error": ...} reply.
func IsServerError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
