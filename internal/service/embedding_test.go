package service

import (
	"testing"

	"github.com/minhvu/coolsearch/internal/config"
)

func TestNewEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantErr  bool
	}{
		{"azure", "azure", false},
		{"openai compatible", "openai-compatible", false},
		{"unknown", "bedrock", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEmbeddingProvider(&config.EmbeddingConfig{
				Provider:   tt.provider,
				Model:      "text-embedding-3-small",
				APIKey:     "test-key",
				BaseURL:    "https://example.openai.azure.com",
				Dimensions: 512,
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEmbeddingProvider(%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
			}
		})
	}
}

func TestExtractEmbedding(t *testing.T) {
	okResp := &embeddingResponse{}
	okResp.Data = append(okResp.Data, struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	}{Embedding: make([]float32, 512)})

	shortResp := &embeddingResponse{}
	shortResp.Data = append(shortResp.Data, struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	}{Embedding: make([]float32, 256)})

	tests := []struct {
		name       string
		resp       *embeddingResponse
		statusCode int
		wantErr    bool
	}{
		{"valid vector", okResp, 200, false},
		{"non-200 status", okResp, 401, true},
		{"empty data", &embeddingResponse{}, 200, true},
		{"wrong dimension", shortResp, 200, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec, err := extractEmbedding(tt.resp, tt.statusCode, 512)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractEmbedding() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(vec) != 512 {
				t.Errorf("vector length = %d, want 512", len(vec))
			}
		})
	}
}
