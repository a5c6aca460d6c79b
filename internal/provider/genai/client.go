// Package genai calls the Gemini generateContent endpoint with a structured
// response schema to compare two ID-tagged document payloads.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docdiff/internal/config"
	"docdiff/internal/domain"
	"docdiff/internal/port"
	"docdiff/internal/provider"
)

const apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Client implements port.CompareProvider using Google's Gemini API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates a Gemini comparison client.
func NewClient(cfg *config.GeminiConfig) *Client {
	return newClient(cfg, "")
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint
// (for testing).
func NewClientWithEndpoint(cfg *config.GeminiConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.GeminiConfig, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-pro"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// responseSchema constrains the provider to the change-list contract.
var responseSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"changes": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"category": map[string]interface{}{
						"type": "string",
						"enum": []string{"MODIFIED", "ADDED", "REMOVED", "STRUCTURAL"},
					},
					"doc1_paragraph_refs": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Paragraph IDs in Document 1. AT MOST 1-2 IDs per change.",
					},
					"doc2_paragraph_refs": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Paragraph IDs in Document 2. AT MOST 1-2 IDs per change.",
					},
					"doc1_text": map[string]interface{}{
						"type":        "string",
						"nullable":    true,
						"description": "EXACT text as it appears in Document 1 (null if absent from doc1)",
					},
					"doc2_text": map[string]interface{}{
						"type":        "string",
						"nullable":    true,
						"description": "EXACT text as it appears in Document 2 (null if absent from doc2)",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "Short description of the change",
					},
				},
				"required": []string{"category", "description", "doc1_paragraph_refs", "doc2_paragraph_refs"},
			},
		},
		"summary": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"total_changes":    map[string]interface{}{"type": "integer"},
				"modified_count":   map[string]interface{}{"type": "integer"},
				"added_count":      map[string]interface{}{"type": "integer"},
				"removed_count":    map[string]interface{}{"type": "integer"},
				"structural_count": map[string]interface{}{"type": "integer"},
			},
		},
	},
	"required": []string{"changes", "summary"},
}

// apiResponse models the generateContent response.
type apiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// CompareDocuments sends both payloads to Gemini and decodes the structured
// change list.
func (c *Client) CompareDocuments(ctx context.Context, doc1Payload, doc2Payload string) (*port.CompareOutput, error) {
	reqBody := map[string]interface{}{
		"system_instruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": provider.CompareSystemPrompt},
			},
		},
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": provider.BuildComparePrompt(doc1Payload, doc2Payload)},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   responseSchema,
			"temperature":      0.1,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	return decodeResponse(respBody)
}

func decodeResponse(body []byte) (*port.CompareOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}
	if resp.Candidates[0].FinishReason == "MAX_TOKENS" {
		return nil, fmt.Errorf("output truncated (finishReason: MAX_TOKENS)")
	}

	text := resp.Candidates[0].Content.Parts[0].Text

	var parsed struct {
		Changes *[]port.Change     `json:"changes"`
		Summary domain.DiffSummary `json:"summary"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("parsing comparison JSON output: %w (raw: %s)", err, truncate(text, 500))
	}
	if parsed.Changes == nil {
		return nil, fmt.Errorf("comparison response missing changes field")
	}

	return &port.CompareOutput{
		Changes:    *parsed.Changes,
		Summary:    parsed.Summary,
		TokensUsed: resp.UsageMetadata.TotalTokenCount,
	}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
