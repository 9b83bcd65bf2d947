package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/binturaid/iflas-agent/services/agent/datatypes"
	"github.com/sashabaranov/go-openai"
)

// openRouterBaseURL is the OpenAI-compatible endpoint OpenRouter exposes.
const openRouterBaseURL = "https://openrouter.ai/api/v1"

type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds the OpenAI-compatible reasoning client.
//
// When OPEN_ROUTER_API_KEY is set the client talks to OpenRouter, which lets
// the model be any "provider/model" identifier. Otherwise OPENAI_API_KEY is
// required and the client talks to OpenAI directly. The model comes from
// LLM_MODEL, defaulting to openai/gpt-4o-mini.
func NewOpenAIClient() (*OpenAIClient, error) {
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "openai/gpt-4o-mini"
		slog.Warn("LLM_MODEL not set, defaulting to openai/gpt-4o-mini")
	}

	if routerKey := os.Getenv("OPEN_ROUTER_API_KEY"); routerKey != "" {
		cfg := openai.DefaultConfig(routerKey)
		cfg.BaseURL = openRouterBaseURL
		slog.Info("Initializing OpenRouter reasoning client", "model", model)
		return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}, nil
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		secretPath := "/run/secrets/openai_api_key"
		apiKeyBytes, err := os.ReadFile(secretPath)
		if err == nil {
			apiKey = strings.TrimSpace(string(apiKeyBytes))
			slog.Info("Read the OpenAI API Key from Podman Secrets")
		} else {
			slog.Error("Neither OPEN_ROUTER_API_KEY nor OPENAI_API_KEY is set and secret not found",
				"path", secretPath)
			return nil, fmt.Errorf("no reasoning engine API key configured")
		}
	}
	// Direct OpenAI does not understand "provider/model" identifiers.
	if idx := strings.IndexByte(model, '/'); idx >= 0 {
		model = model[idx+1:]
	}
	slog.Info("Initializing OpenAI reasoning client", "model", model)
	return &OpenAIClient{client: openai.NewClient(apiKey), model: model}, nil
}

// Generate implements the LLMClient interface.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	return o.Chat(ctx, []datatypes.Message{{Role: "user", Content: prompt}}, params)
}

// Chat implements the LLMClient interface.
func (o *OpenAIClient) Chat(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error) {
	slog.Debug("Generating text via the OpenAI-compatible backend", "model", o.model)

	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.MaxTokens != nil {
		req.MaxCompletionTokens = *params.MaxTokens
	}
	if params.TopP != nil {
		req.TopP = *params.TopP
	}
	if len(params.Stop) > 0 {
		req.Stop = params.Stop
	}
	for _, td := range params.ToolDefinitions {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        td.Name,
				Description: td.Description,
				Parameters:  td.Parameters,
			},
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("OpenAI-compatible API call failed", "error", err)
		return "", fmt.Errorf("reasoning engine call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("Reasoning engine returned no choices")
		return "", fmt.Errorf("reasoning engine returned no choices")
	}
	slog.Debug("Received response from the reasoning engine",
		"finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
