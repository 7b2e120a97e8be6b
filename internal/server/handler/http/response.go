// Package http provides the HTTP handlers and router of the portfolio API.
//
// Every API handler answers 200 with a JSON body. Success and failure are
// told apart by the payload: {"message": ...} or {"error": ...}.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func writeError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"error": msg})
}

// decodeBody fills dst from a JSON or a form-encoded body. Form values are
// matched against dst's json tags. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		form, err := readForm(r, ct)
		if err != nil {
			return err
		}
		values := make(map[string]string, len(form))
		for k := range form {
			values[k] = form.Get(k)
		}
		raw, err := json.Marshal(values)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dst)
	default:
		err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}

// readForm parses the body whatever the method; ParseForm ignores DELETE bodies.
func readForm(r *http.Request, ct string) (url.Values, error) {
	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, err
		}
		return url.Values(r.MultipartForm.Value), nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return url.ParseQuery(string(body))
}

// NotFound is the fallback for every unmatched route.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}
