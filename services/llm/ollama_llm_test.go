package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/binturaid/iflas-agent/services/agent/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOllamaClient(serverURL string) *OllamaClient {
	return &OllamaClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    serverURL,
		model:      "test-model",
	}
}

func TestOllamaGenerate(t *testing.T) {
	var gotReq ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "IN_SCOPE", Done: true})
	}))
	defer server.Close()

	client := newTestOllamaClient(server.URL)
	maxTokens := 8
	out, err := client.Generate(context.Background(), "صنف السؤال",
		GenerationParams{MaxTokens: &maxTokens})

	require.NoError(t, err)
	assert.Equal(t, "IN_SCOPE", out)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.False(t, gotReq.Stream)
	assert.EqualValues(t, 8, gotReq.Options["num_predict"])
}

func TestOllamaChat(t *testing.T) {
	var gotReq ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: datatypes.Message{Role: "assistant", Content: "الإجابة"},
			Done:    true,
		})
	}))
	defer server.Close()

	client := newTestOllamaClient(server.URL)
	out, err := client.Chat(context.Background(), []datatypes.Message{
		{Role: "system", Content: "تعليمات"},
		{Role: "user", Content: "سؤال"},
	}, GenerationParams{})

	require.NoError(t, err)
	assert.Equal(t, "الإجابة", out)
	require.Len(t, gotReq.Messages, 2)
}

func TestOllamaGenerate_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestOllamaClient(server.URL)
	_, err := client.Generate(context.Background(), "p", GenerationParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestBuildOptions_Defaults(t *testing.T) {
	options := buildOptions(GenerationParams{})

	assert.EqualValues(t, float32(0.2), options["temperature"])
	assert.EqualValues(t, 20, options["top_k"])
	assert.EqualValues(t, float32(0.9), options["top_p"])
	assert.EqualValues(t, 8192, options["num_predict"])
	assert.NotContains(t, options, "stop")
}
