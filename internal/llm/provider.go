// Package llm wraps the OpenAI-compatible chat endpoint used for delegated
// summaries.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the one call the summarizer needs. Any OpenAI-compatible or local
// backend can satisfy it.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ErrModelNotFound is returned by CheckModel when the endpoint lists its
// models and the configured one is not among them.
var ErrModelNotFound = errors.New("model not served by endpoint")

// ModelLister is optional; callers detect it with a type assertion.
type ModelLister interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// OpenAIProvider adapts *openai.Client to Client and ModelLister.
type OpenAIProvider struct {
	Inner *openai.Client
}

// New builds a provider for baseURL. An empty baseURL targets api.openai.com;
// an empty key is allowed for local servers that ignore authentication.
func New(baseURL, apiKey string, httpClient *http.Client) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)}
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return p.Inner.CreateChatCompletion(ctx, request)
}

func (p *OpenAIProvider) ListModels(ctx context.Context) (openai.ModelsList, error) {
	return p.Inner.ListModels(ctx)
}

// CheckModel verifies that c serves model. Clients without ModelLister are
// trusted. A listing failure is returned as is so callers can decide whether
// an endpoint without /models is acceptable.
func CheckModel(ctx context.Context, c Client, model string) error {
	ml, ok := c.(ModelLister)
	if !ok {
		return nil
	}
	list, err := ml.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	for _, m := range list.Models {
		if m.ID == model {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrModelNotFound, model)
}
