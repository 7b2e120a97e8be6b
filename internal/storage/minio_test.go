package storage

import "testing"

func TestNormaliseEndpoint(t *testing.T) {
	tests := []struct {
		raw        string
		wantHost   string
		wantSecure bool
		wantErr    bool
	}{
		{"minio:9000", "minio:9000", false, false},
		{"  minio:9000 ", "minio:9000", false, false},
		{"http://minio:9000", "minio:9000", false, false},
		{"https://s3.example.com", "s3.example.com", true, false},
		{"https://s3.example.com/", "s3.example.com", true, false},
		{"https://s3.example.com/bucket", "", false, true},
		{"http://", "", false, true},
		{"", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			host, secure, err := normaliseEndpoint(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("normaliseEndpoint(%q) expected error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("normaliseEndpoint(%q) unexpected error: %v", tt.raw, err)
			}
			if host != tt.wantHost || secure != tt.wantSecure {
				t.Errorf("normaliseEndpoint(%q) = %q, %v; want %q, %v", tt.raw, host, secure, tt.wantHost, tt.wantSecure)
			}
		})
	}
}

func TestNewMinioStore_BadEndpoint(t *testing.T) {
	if _, err := NewMinioStore(t.Context(), "", "k", "s", "b"); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
}
