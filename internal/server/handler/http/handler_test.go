package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/portfolio/internal/models"
	"github.com/atinyakov/portfolio/internal/service"
)

// fakeProjectService records its inputs and returns canned results.
type fakeProjectService struct {
	projects []models.Project
	project  *models.Project
	err      error

	gotID     string
	gotNew    service.NewProject
	gotUpload service.Upload
	gotFields models.ProjectFields
}

func (f *fakeProjectService) List(context.Context) ([]models.Project, error) {
	return f.projects, f.err
}

func (f *fakeProjectService) Get(_ context.Context, id string) (*models.Project, error) {
	f.gotID = id
	return f.project, f.err
}

func (f *fakeProjectService) Create(_ context.Context, in service.NewProject, img service.Upload) (string, error) {
	f.gotNew, f.gotUpload = in, img
	return "new-id", f.err
}

func (f *fakeProjectService) Update(_ context.Context, id string, fields models.ProjectFields) error {
	f.gotID, f.gotFields = id, fields
	return f.err
}

func (f *fakeProjectService) Delete(_ context.Context, id string) error {
	f.gotID = id
	return f.err
}

type fakeContactService struct {
	got models.ContactMessage
	err error
}

func (f *fakeContactService) Send(_ context.Context, m models.ContactMessage) error {
	f.got = m
	return f.err
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestProjectHandler_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeProjectService{projects: []models.Project{{ID: "1", Name: "Site"}}}
		h := &ProjectHandler{Service: svc, Log: zap.NewNop()}

		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio-projects", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var got []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0]["_id"])
		assert.Equal(t, "Site", got[0]["name"])
	})

	t.Run("store error", func(t *testing.T) {
		h := &ProjectHandler{Service: &fakeProjectService{err: errors.New("db down")}, Log: zap.NewNop()}

		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio-projects", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]string{"error": "error retrieving data"}, decode(t, rec))
	})
}

func TestProjectHandler_Create(t *testing.T) {
	form := url.Values{
		"category": {"web"}, "name": {"Site"}, "description": {"d"},
		"techUsed": {"go"}, "link": {"https://x"},
	}
	tests := []struct {
		name string
		err  error
		want map[string]string
	}{
		{"saved", nil, map[string]string{"message": "New Project Saved Successfully"}},
		{"fields missing", service.ErrFieldsMissing, map[string]string{"error": "Fields missing"}},
		{"store failure", errors.New("insert failed"), map[string]string{"error": "failed to save new project"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeProjectService{err: tt.err}
			h := &ProjectHandler{Service: svc, Log: zap.NewNop()}

			req := httptest.NewRequest(http.MethodPost, "/api/new-project", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decode(t, rec))
			assert.Equal(t, "Site", svc.gotNew.Name)
			assert.Equal(t, "go", svc.gotNew.TechUsed)
			assert.Nil(t, svc.gotUpload)
		})
	}
}

func TestProjectHandler_Get(t *testing.T) {
	route := func(h *ProjectHandler) http.Handler {
		r := chi.NewRouter()
		r.Get("/api/project/{id}", h.Get)
		return r
	}

	t.Run("found", func(t *testing.T) {
		svc := &fakeProjectService{project: &models.Project{ID: "abc", Name: "Site"}}
		rec := httptest.NewRecorder()
		route(&ProjectHandler{Service: svc, Log: zap.NewNop()}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/project/abc", nil))

		assert.Equal(t, "abc", svc.gotID)
		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "abc", got["_id"])
	})

	t.Run("missing", func(t *testing.T) {
		svc := &fakeProjectService{err: service.ErrNotFound}
		rec := httptest.NewRecorder()
		route(&ProjectHandler{Service: svc, Log: zap.NewNop()}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/project/nope", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]string{"error": "could not retrieve data"}, decode(t, rec))
	})
}

func TestProjectHandler_Update(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		svc := &fakeProjectService{}
		h := &ProjectHandler{Service: svc, Log: zap.NewNop()}

		body := `{"id":"abc","category":"web","name":"New","description":"","techUsed":"go","image":"i","link":"l"}`
		req := httptest.NewRequest(http.MethodPost, "/api/project/update-project", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.Update(rec, req)

		assert.Equal(t, map[string]string{"message": "Project updated successfully"}, decode(t, rec))
		assert.Equal(t, "abc", svc.gotID)
		assert.Equal(t, models.ProjectFields{
			Category: "web", Name: "New", TechUsed: "go", Image: "i", Link: "l",
		}, svc.gotFields)
	})

	t.Run("form body", func(t *testing.T) {
		svc := &fakeProjectService{}
		h := &ProjectHandler{Service: svc, Log: zap.NewNop()}

		req := httptest.NewRequest(http.MethodPost, "/api/project/update-project",
			strings.NewReader("id=abc&name=New&techUsed=go"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.Update(rec, req)

		assert.Equal(t, map[string]string{"message": "Project updated successfully"}, decode(t, rec))
		assert.Equal(t, "abc", svc.gotID)
		assert.Equal(t, "New", svc.gotFields.Name)
		assert.Equal(t, "go", svc.gotFields.TechUsed)
	})

	t.Run("not found", func(t *testing.T) {
		h := &ProjectHandler{Service: &fakeProjectService{err: service.ErrNotFound}, Log: zap.NewNop()}

		req := httptest.NewRequest(http.MethodPost, "/api/project/update-project", strings.NewReader(`{"id":"x"}`))
		rec := httptest.NewRecorder()
		h.Update(rec, req)

		assert.Equal(t, map[string]string{"error": "Could not update project"}, decode(t, rec))
	})

	t.Run("malformed json", func(t *testing.T) {
		svc := &fakeProjectService{}
		h := &ProjectHandler{Service: svc, Log: zap.NewNop()}

		req := httptest.NewRequest(http.MethodPost, "/api/project/update-project", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		h.Update(rec, req)

		assert.Equal(t, map[string]string{"error": "Could not update project"}, decode(t, rec))
		assert.Empty(t, svc.gotID)
	})
}

func TestProjectHandler_Delete(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want map[string]string
	}{
		{"deleted", nil, map[string]string{"message": "Project deleted successfully"}},
		{"nothing matched", service.ErrNotFound, map[string]string{"error": "Failed to delete project"}},
		{"store failure", errors.New("boom"), map[string]string{"error": "Failed to delete project"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeProjectService{err: tt.err}
			h := &ProjectHandler{Service: svc, Log: zap.NewNop()}

			req := httptest.NewRequest(http.MethodDelete, "/api/delete-project", strings.NewReader(`{"id":"abc"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.Delete(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decode(t, rec))
			assert.Equal(t, "abc", svc.gotID)
		})
	}
}

func TestProjectHandler_DeleteFormBody(t *testing.T) {
	svc := &fakeProjectService{}
	h := &ProjectHandler{Service: svc, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodDelete, "/api/delete-project", strings.NewReader("id=abc"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, map[string]string{"message": "Project deleted successfully"}, decode(t, rec))
	assert.Equal(t, "abc", svc.gotID)
}

func TestProjectHandler_DeleteMultipartBody(t *testing.T) {
	svc := &fakeProjectService{}
	h := &ProjectHandler{Service: svc, Log: zap.NewNop()}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("id", "abc"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodDelete, "/api/delete-project", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, map[string]string{"message": "Project deleted successfully"}, decode(t, rec))
	assert.Equal(t, "abc", svc.gotID)
}

func TestAuthHandler(t *testing.T) {
	h := &AuthHandler{AuthService: service.NewAuthService(service.StaticCredentials{
		Username: "a", Password: "b", Token: "T0k3n",
	})}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		body    string
		want    map[string]string
	}{
		{"login ok", h.Login, `{"username":"a","password":"b"}`, map[string]string{"token": "T0k3n"}},
		{"login wrong password", h.Login, `{"username":"a","password":"wrong"}`,
			map[string]string{"error": "Username or password do not exist"}},
		{"login empty body", h.Login, ``, map[string]string{"error": "Username or password do not exist"}},
		{"token ok", h.CheckToken, `{"token":"T0k3n"}`, map[string]string{"message": "token authenticated"}},
		{"token case differs", h.CheckToken, `{"token":"t0k3n"}`, map[string]string{"error": "invalid token"}},
		{"token missing", h.CheckToken, `{}`, map[string]string{"error": "invalid token"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			tt.handler(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decode(t, rec))
		})
	}
}

func TestAuthHandler_FormLogin(t *testing.T) {
	h := &AuthHandler{AuthService: service.NewAuthService(service.StaticCredentials{
		Username: "a", Password: "b", Token: "tok",
	})}

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("username=a&password=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, map[string]string{"token": "tok"}, decode(t, rec))
}

func TestContactHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want map[string]string
	}{
		{"sent", nil, map[string]string{"message": "Successfully sent email."}},
		{"missing field", service.ErrFieldsMissing, map[string]string{"error": "fields missing"}},
		{"no recipient accepted", service.ErrNotDelivered, map[string]string{"error": "Could not send email"}},
		{"transport error", errors.New("dial tcp: refused"), map[string]string{"error": "Could not send email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeContactService{err: tt.err}
			h := &ContactHandler{Service: svc, Log: zap.NewNop()}

			body := `{"name":"Ann","phone":"1","email":"a@x","message":"hi"}`
			req := httptest.NewRequest(http.MethodPost, "/api/contact-me", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.Contact(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decode(t, rec))
			assert.Equal(t, models.ContactMessage{Name: "Ann", Phone: "1", Email: "a@x", Message: "hi"}, svc.got)
		})
	}
}
