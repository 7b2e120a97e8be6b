package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/portfolio/internal/models"
)

// roundTripperFunc allows mocking http.Client transport.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *Client {
	return &Client{
		HTTP:    &http.Client{Transport: fn, Timeout: time.Second},
		BaseURL: "http://example.com",
	}
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNew_TrimsSlash(t *testing.T) {
	c := New("http://localhost:8000/", 5*time.Second)
	assert.Equal(t, "http://localhost:8000", c.BaseURL)
	assert.Equal(t, 5*time.Second, c.HTTP.Timeout)
}

func TestListProjects(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/api/portfolio-projects", req.URL.Path)
		return respond(http.StatusOK, `[{"_id":"1","id":"1","name":"Site"}]`), nil
	})

	got, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "Site", got[0].Name)
}

func TestListProjects_ServerError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"error":"error retrieving data"}`), nil
	})

	_, err := c.ListProjects(context.Background())
	require.Error(t, err)
	assert.True(t, IsServerError(err))
	assert.EqualError(t, err, "error retrieving data")
}

func TestGetProject(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/project/abc", req.URL.Path)
		return respond(http.StatusOK, `{"_id":"abc","id":"abc","techUsed":"go"}`), nil
	})

	p, err := c.GetProject(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "go", p.TechUsed)
}

func TestNetworkError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})

	_, err := c.Login(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
	assert.False(t, IsServerError(err))
}

func TestNotFoundStatus(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusNotFound, `{"error":"not found"}`), nil
	})

	_, err := c.CheckToken(context.Background(), "tok")
	assert.EqualError(t, err, "not found")
}

func TestInvalidJSON(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `not-json`), nil
	})

	_, err := c.DeleteProject(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response")
}

func TestJSONCalls(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *Client) (string, error)
		method     string
		path       string
		wantBody   map[string]string
		reply      string
		wantResult string
	}{
		{
			name:       "login",
			call:       func(c *Client) (string, error) { return c.Login(context.Background(), "a", "b") },
			method:     http.MethodPost,
			path:       "/api/login",
			wantBody:   map[string]string{"username": "a", "password": "b"},
			reply:      `{"token":"tok"}`,
			wantResult: "tok",
		},
		{
			name:       "check token",
			call:       func(c *Client) (string, error) { return c.CheckToken(context.Background(), "tok") },
			method:     http.MethodPost,
			path:       "/api/check-token",
			wantBody:   map[string]string{"token": "tok"},
			reply:      `{"message":"token authenticated"}`,
			wantResult: "token authenticated",
		},
		{
			name:       "delete",
			call:       func(c *Client) (string, error) { return c.DeleteProject(context.Background(), "abc") },
			method:     http.MethodDelete,
			path:       "/api/delete-project",
			wantBody:   map[string]string{"id": "abc"},
			reply:      `{"message":"Project deleted successfully"}`,
			wantResult: "Project deleted successfully",
		},
		{
			name: "update",
			call: func(c *Client) (string, error) {
				return c.UpdateProject(context.Background(), "abc", models.ProjectFields{Name: "N", TechUsed: "go"})
			},
			method: http.MethodPost,
			path:   "/api/project/update-project",
			wantBody: map[string]string{
				"id": "abc", "category": "", "name": "N", "description": "",
				"techUsed": "go", "image": "", "link": "",
			},
			reply:      `{"message":"Project updated successfully"}`,
			wantResult: "Project updated successfully",
		},
		{
			name: "contact",
			call: func(c *Client) (string, error) {
				return c.Contact(context.Background(), models.ContactMessage{Name: "n", Phone: "p", Email: "e", Message: "m"})
			},
			method:     http.MethodPost,
			path:       "/api/contact-me",
			wantBody:   map[string]string{"name": "n", "phone": "p", "email": "e", "message": "m"},
			reply:      `{"message":"Successfully sent email."}`,
			wantResult: "Successfully sent email.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, tt.method, req.Method)
				assert.Equal(t, tt.path, req.URL.Path)
				assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
				var body map[string]string
				require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
				assert.Equal(t, tt.wantBody, body)
				return respond(http.StatusOK, tt.reply), nil
			})

			got, err := tt.call(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantResult, got)
		})
	}
}

func TestCreateProject(t *testing.T) {
	img := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(img, []byte("PNGDATA"), 0o600))

	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/new-project", req.URL.Path)
		require.NoError(t, req.ParseMultipartForm(1<<20))
		assert.Equal(t, "Site", req.FormValue("name"))
		assert.Equal(t, "go", req.FormValue("techUsed"))

		f, hdr, err := req.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "shot.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		data, _ := io.ReadAll(f)
		assert.Equal(t, "PNGDATA", string(data))

		return respond(http.StatusOK, `{"message":"New Project Saved Successfully"}`), nil
	})

	msg, err := c.CreateProject(context.Background(), NewProject{
		Category: "web", Name: "Site", Description: "d", TechUsed: "go", Link: "l", ImagePath: img,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Project Saved Successfully", msg)
}

func TestCreateProject_MissingFile(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	_, err := c.CreateProject(context.Background(), NewProject{ImagePath: filepath.Join(t.TempDir(), "none.png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open image")
}
