package storage

import "testing"

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"localhost:9000", "localhost:9000"},
		{"http://localhost:9000", "localhost:9000"},
		{"https://abc.r2.cloudflarestorage.com", "abc.r2.cloudflarestorage.com"},
		{"https://s3.amazonaws.com/some/path", "s3.amazonaws.com"},
		{"minio.internal:9000/", "minio.internal:9000"},
	}

	for _, tt := range tests {
		if got := normalizeEndpoint(tt.endpoint); got != tt.want {
			t.Errorf("normalizeEndpoint(%q) = %q, want %q", tt.endpoint, got, tt.want)
		}
	}
}

func TestDetectStorageType(t *testing.T) {
	tests := []struct {
		endpoint string
		want     StorageType
	}{
		{"abc.r2.cloudflarestorage.com", StorageTypeR2},
		{"s3.us-west-2.amazonaws.com", StorageTypeS3},
		{"localhost:9000", StorageTypeS3Compatible},
		{"minio.internal:9000", StorageTypeS3Compatible},
	}

	for _, tt := range tests {
		if got := detectStorageType(tt.endpoint); got != tt.want {
			t.Errorf("detectStorageType(%q) = %q, want %q", tt.endpoint, got, tt.want)
		}
	}
}

func TestGetURL(t *testing.T) {
	s := &S3Storage{publicURL: "https://cdn.example.com"}
	if got := s.GetURL("exports/products.json"); got != "https://cdn.example.com/exports/products.json" {
		t.Errorf("GetURL() = %q", got)
	}
}
