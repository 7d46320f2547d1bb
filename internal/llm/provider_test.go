package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func modelsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckModel_Listed(t *testing.T) {
	srv := modelsServer(t, http.StatusOK, `{"object":"list","data":[{"id":"other"},{"id":"tiny"}]}`)
	if err := CheckModel(context.Background(), New(srv.URL+"/v1", "k", nil), "tiny"); err != nil {
		t.Fatalf("expected model to be found, got %v", err)
	}
}

func TestCheckModel_NotListed(t *testing.T) {
	srv := modelsServer(t, http.StatusOK, `{"object":"list","data":[{"id":"other"}]}`)
	err := CheckModel(context.Background(), New(srv.URL+"/v1", "k", nil), "tiny")
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestCheckModel_ListingFails(t *testing.T) {
	srv := modelsServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`)
	err := CheckModel(context.Background(), New(srv.URL+"/v1", "k", nil), "tiny")
	if err == nil || errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected a listing error, got %v", err)
	}
}

type chatOnly struct{}

func (chatOnly) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}

func TestCheckModel_ClientWithoutLister(t *testing.T) {
	if err := CheckModel(context.Background(), chatOnly{}, "anything"); err != nil {
		t.Fatalf("expected clients without a model list to be trusted, got %v", err)
	}
}
