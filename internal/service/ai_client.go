package service

import (
	"context"
	"net/http"
	"time"

	"core/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionClient is the minimal completion-service surface the
// synthesizer depends on. *openai.Client satisfies it; tests plug in a
// fake.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient creates the OpenAI client used for query synthesis.
func NewOpenAIClient(cfg *config.OpenAIConfig) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.HTTPClient = &http.Client{
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	}
	return openai.NewClientWithConfig(clientConfig)
}
