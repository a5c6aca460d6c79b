package provider_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdiff/internal/config"
	"docdiff/internal/domain"
	"docdiff/internal/provider/docai"
)

func newDocaiTestClient(serverURL string) *docai.Client {
	cfg := &config.DocAIConfig{
		ProjectID:   "test-project",
		Location:    "us",
		ProcessorID: "proc-123",
		AccessToken: "test-token",
		TimeoutSecs: 30,
	}
	return docai.NewClientWithEndpoint(cfg, serverURL)
}

func TestDocaiClient_ProcessDocument_Success(t *testing.T) {
	raw := []byte("%PDF-1.4 fake pdf bytes")

	responseBody := map[string]interface{}{
		"document": map[string]interface{}{
			"pages": []map[string]interface{}{
				{
					"dimension": map[string]interface{}{"width": 2000.0, "height": 3000.0},
					"blocks": []map[string]interface{}{
						{
							"paragraphs": []map[string]interface{}{
								{
									"words": []map[string]interface{}{
										{
											"symbols": []map[string]interface{}{
												{"text": "h"}, {"text": "i"},
											},
										},
									},
									"boundingBox": map[string]interface{}{
										"normalizedVertices": []map[string]interface{}{
											{"x": 0.1, "y": 0.1}, {"x": 0.5, "y": 0.2},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)

		rawDoc := reqBody["rawDocument"].(map[string]interface{})
		assert.Equal(t, domain.ContentTypePDF, rawDoc["mimeType"])
		assert.Equal(t, base64.StdEncoding.EncodeToString(raw), rawDoc["content"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	client := newDocaiTestClient(server.URL)
	pages, err := client.ProcessDocument(context.Background(), raw, domain.ContentTypePDF)

	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 2000.0, pages[0].Width)
	assert.Equal(t, 3000.0, pages[0].Height)
	require.Len(t, pages[0].Blocks, 1)
	require.Len(t, pages[0].Blocks[0].Paragraphs, 1)

	para := pages[0].Blocks[0].Paragraphs[0]
	require.NotNil(t, para.BoundingBox)
	assert.Len(t, para.BoundingBox.NormalizedVertices, 2)
	require.Len(t, para.Words, 1)
	assert.Len(t, para.Words[0].Symbols, 2)
}

func TestDocaiClient_ProcessDocument_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"message": "permission denied"}}`))
	}))
	defer server.Close()

	client := newDocaiTestClient(server.URL)
	_, err := client.ProcessDocument(context.Background(), []byte("pdf"), domain.ContentTypePDF)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestDocaiClient_ProcessDocument_NoPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"document": {"pages": []}}`))
	}))
	defer server.Close()

	client := newDocaiTestClient(server.URL)
	pages, err := client.ProcessDocument(context.Background(), []byte("pdf"), domain.ContentTypePDF)

	require.NoError(t, err)
	assert.Empty(t, pages)
}
