package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/minhvu/coolsearch/internal/catalog"
	"github.com/minhvu/coolsearch/internal/config"
)

const recommendSystemPrompt = `You are a helpful product recommendation assistant for a Vietnamese clothing shop.
Use only the provided product context and the conversation history to recommend the best product(s) for the user's needs.
Reply in a friendly, conversational style and be concise. Always include the product name and its price in VND.
If nothing in the context fits, say so instead of inventing products.`

// maxHistoryMessages bounds how much conversation history is forwarded.
const maxHistoryMessages = 10

// ChatMessage is one turn of the recommendation conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RecommendService turns search results into a conversational recommendation
// via an LLM chat-completions call.
type RecommendService struct {
	client   *resty.Client
	model    string
	endpoint string
	enabled  bool
}

// NewRecommendService creates a recommendation service. Without an API key the
// service is disabled and Recommend returns an error.
func NewRecommendService(cfg *config.ChatConfig) *RecommendService {
	if cfg == nil || !cfg.Enabled || cfg.APIKey == "" {
		return &RecommendService{enabled: false}
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &RecommendService{
		client:   client,
		model:    cfg.Model,
		endpoint: strings.TrimSuffix(baseURL, "/") + "/chat/completions",
		enabled:  true,
	}
}

// IsEnabled returns whether recommendation replies are available.
func (s *RecommendService) IsEnabled() bool {
	return s.enabled
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// BuildProductContext renders search results as the context block handed to
// the LLM, one product per line.
func BuildProductContext(products []ProductResult) string {
	if len(products) == 0 {
		return "No matching products were found."
	}
	var b strings.Builder
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s) — %sđ", p.Title, p.Category, catalog.FormatPrice(p.Price))
		if p.DiscountPercent > 0 {
			fmt.Fprintf(&b, " (giảm %d%%)", p.DiscountPercent)
		}
		fmt.Fprintf(&b, ": %s\n", p.Description)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Recommend asks the LLM for a recommendation grounded in the given products.
// History carries prior conversation turns, oldest first.
func (s *RecommendService) Recommend(ctx context.Context, query string, history []ChatMessage, products []ProductResult) (string, error) {
	if !s.enabled {
		return "", fmt.Errorf("recommendation is not configured")
	}

	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: recommendSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{
		Role: "user",
		Content: fmt.Sprintf("Product context:\n%s\n\nCustomer request: %s",
			BuildProductContext(products), query),
	})

	req := chatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   500,
		Temperature: 0.7,
	}

	var resp chatCompletionResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)
	if err != nil {
		return "", &ProviderError{Op: "chat completion", Err: err}
	}

	if httpResp.StatusCode() != 200 {
		if resp.Error != nil && resp.Error.Message != "" {
			return "", &ProviderError{Op: "chat completion", Err: fmt.Errorf("%s", resp.Error.Message)}
		}
		return "", &ProviderError{Op: "chat completion", Err: fmt.Errorf("status %d", httpResp.StatusCode())}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Op: "chat completion", Err: fmt.Errorf("no choices returned")}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
