package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdiff/internal/config"
	"docdiff/internal/domain"
	"docdiff/internal/provider/genai"
)

func newGenaiTestClient(serverURL string) *genai.Client {
	cfg := &config.GeminiConfig{
		APIKey:      "test-gemini-key",
		Model:       "gemini-1.5-pro",
		TimeoutSecs: 30,
	}
	return genai.NewClientWithEndpoint(cfg, serverURL)
}

func geminiSuccessResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role": "model",
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
		"usageMetadata": map[string]interface{}{
			"totalTokenCount": 1234,
		},
	}
}

func TestGenaiClient_CompareDocuments_Success(t *testing.T) {
	changesJSON := `{
		"changes": [
			{
				"category": "MODIFIED",
				"description": "amount changed",
				"doc1_text": "total 100",
				"doc2_text": "total 200",
				"doc1_paragraph_refs": ["P1_0_0"],
				"doc2_paragraph_refs": ["P1_0_0"]
			}
		],
		"summary": {"total_changes": 1, "modified_count": 1}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)

		// Both payloads arrive inside the user prompt.
		contents := reqBody["contents"].([]interface{})
		assert.Len(t, contents, 1)
		msg := contents[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])
		parts := msg["parts"].([]interface{})
		prompt := parts[0].(map[string]interface{})["text"].(string)
		assert.Contains(t, prompt, "[P1_0_0] payload one")
		assert.Contains(t, prompt, "[P1_0_0] payload two")

		// The structured-output config pins the change-list schema.
		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genConfig["responseMimeType"])
		assert.NotNil(t, genConfig["responseSchema"])

		sysInstr := reqBody["system_instruction"].(map[string]interface{})
		assert.NotEmpty(t, sysInstr["parts"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiSuccessResponse(changesJSON))
	}))
	defer server.Close()

	client := newGenaiTestClient(server.URL)
	output, err := client.CompareDocuments(context.Background(), "[P1_0_0] payload one", "[P1_0_0] payload two")

	require.NoError(t, err)
	require.Len(t, output.Changes, 1)
	assert.Equal(t, domain.ChangeModified, output.Changes[0].Category)
	assert.Equal(t, []string{"P1_0_0"}, output.Changes[0].Doc1ParagraphRefs)
	require.NotNil(t, output.Changes[0].Doc1Text)
	assert.Equal(t, "total 100", *output.Changes[0].Doc1Text)
	assert.Equal(t, 1, output.Summary.TotalChanges)
	assert.Equal(t, 1234, output.TokensUsed)
}

func TestGenaiClient_CompareDocuments_EmptyChangeList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiSuccessResponse(`{"changes": [], "summary": {"total_changes": 0}}`))
	}))
	defer server.Close()

	client := newGenaiTestClient(server.URL)
	output, err := client.CompareDocuments(context.Background(), "a", "b")

	require.NoError(t, err)
	assert.Empty(t, output.Changes)
	assert.Equal(t, 0, output.Summary.TotalChanges)
}

func TestGenaiClient_CompareDocuments_MissingChangesField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiSuccessResponse(`{"summary": {"total_changes": 0}}`))
	}))
	defer server.Close()

	client := newGenaiTestClient(server.URL)
	_, err := client.CompareDocuments(context.Background(), "a", "b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing changes field")
}

func TestGenaiClient_CompareDocuments_Truncated(t *testing.T) {
	body := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{{"text": `{"changes": [`}},
				},
				"finishReason": "MAX_TOKENS",
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	client := newGenaiTestClient(server.URL)
	_, err := client.CompareDocuments(context.Background(), "a", "b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_TOKENS")
}

func TestGenaiClient_CompareDocuments_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": {"message": "model overloaded"}}`))
	}))
	defer server.Close()

	client := newGenaiTestClient(server.URL)
	_, err := client.CompareDocuments(context.Background(), "a", "b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
