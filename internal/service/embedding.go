package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/minhvu/coolsearch/internal/config"
)

const defaultAzureAPIVersion = "2024-07-01-preview"

// EmbeddingProvider generates fixed-length embedding vectors. Catalog sync and
// query embedding must go through the same provider instance so both sides of
// the similarity search live in the same embedding space.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
	Dimensions() int
}

// NewEmbeddingProvider creates a provider from configuration.
func NewEmbeddingProvider(cfg *config.EmbeddingConfig) (EmbeddingProvider, error) {
	switch cfg.Provider {
	case "azure":
		return newAzureProvider(cfg), nil
	case "openai-compatible":
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// OpenAI-style embeddings request/response structures, shared by both providers.
type embeddingRequest struct {
	Model          string   `json:"model,omitempty"`
	Input          []string `json:"input"`
	Dimensions     int      `json:"dimensions,omitempty"`
	EncodingFormat string   `json:"encoding_format,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// azureProvider calls an Azure OpenAI embeddings deployment.
type azureProvider struct {
	client     *resty.Client
	endpoint   string
	dimensions int
	model      string
}

func newAzureProvider(cfg *config.EmbeddingConfig) *azureProvider {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAzureAPIVersion
	}

	client := resty.New()
	client.SetHeader("api-key", cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(30 * time.Second)

	// Azure routes by deployment name, not by a model field in the body.
	endpoint := fmt.Sprintf("%s/openai/deployments/%s/embeddings?api-version=%s",
		strings.TrimSuffix(cfg.BaseURL, "/"), cfg.Model, apiVersion)

	return &azureProvider{
		client:     client,
		endpoint:   endpoint,
		dimensions: cfg.Dimensions,
		model:      cfg.Model,
	}
}

func (p *azureProvider) Model() string {
	return p.model
}

func (p *azureProvider) Dimensions() int {
	return p.dimensions
}

func (p *azureProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embeddingRequest{
		Input:      []string{text},
		Dimensions: p.dimensions,
	}

	var resp embeddingResponse
	httpResp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call embeddings API: %w", err)
	}

	return extractEmbedding(&resp, httpResp.StatusCode(), p.dimensions)
}

// openAIProvider calls any OpenAI-compatible /embeddings endpoint.
type openAIProvider struct {
	client     *resty.Client
	endpoint   string
	model      string
	dimensions int
}

func newOpenAIProvider(cfg *config.EmbeddingConfig) *openAIProvider {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(30 * time.Second)

	return &openAIProvider{
		client:     client,
		endpoint:   strings.TrimSuffix(cfg.BaseURL, "/") + "/embeddings",
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

func (p *openAIProvider) Model() string {
	return p.model
}

func (p *openAIProvider) Dimensions() int {
	return p.dimensions
}

func (p *openAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embeddingRequest{
		Model:          p.model,
		Input:          []string{text},
		Dimensions:     p.dimensions,
		EncodingFormat: "float",
	}

	var resp embeddingResponse
	httpResp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call embeddings API: %w", err)
	}

	return extractEmbedding(&resp, httpResp.StatusCode(), p.dimensions)
}

// extractEmbedding validates the provider response and returns the vector.
func extractEmbedding(resp *embeddingResponse, statusCode, dimensions int) ([]float32, error) {
	if statusCode != 200 {
		if resp.Error != nil && resp.Error.Message != "" {
			return nil, fmt.Errorf("embeddings API error: %s", resp.Error.Message)
		}
		return nil, fmt.Errorf("embeddings API error: status %d", statusCode)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	vec := resp.Data[0].Embedding
	if len(vec) != dimensions {
		return nil, fmt.Errorf("unexpected embedding length: got %d, expected %d", len(vec), dimensions)
	}
	return vec, nil
}
