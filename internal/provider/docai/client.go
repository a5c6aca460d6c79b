// Package docai calls Google Document AI's synchronous process endpoint and
// decodes its page geometry into the provider-neutral OCR contract.
package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docdiff/internal/config"
	"docdiff/internal/port"
)

// Client implements port.OCRProvider against the Document AI REST API.
type Client struct {
	accessToken string
	endpoint    string
	client      *http.Client
}

// NewClient creates a Document AI client from the provider config.
func NewClient(cfg *config.DocAIConfig) *Client {
	endpoint := fmt.Sprintf(
		"https://%s-documentai.googleapis.com/v1/projects/%s/locations/%s/processors/%s:process",
		cfg.Location, cfg.ProjectID, cfg.Location, cfg.ProcessorID,
	)
	return newClient(cfg, endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint
// (for testing).
func NewClientWithEndpoint(cfg *config.DocAIConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.DocAIConfig, endpoint string) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		accessToken: cfg.AccessToken,
		endpoint:    endpoint,
		client:      &http.Client{Timeout: timeout},
	}
}

// processRequest models the :process request body.
type processRequest struct {
	RawDocument rawDocument `json:"rawDocument"`
}

type rawDocument struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

// processResponse models the subset of the :process response the index
// builder needs.
type processResponse struct {
	Document struct {
		Pages []struct {
			Dimension struct {
				Width  float64 `json:"width"`
				Height float64 `json:"height"`
			} `json:"dimension"`
			Blocks []port.OCRBlock `json:"blocks"`
		} `json:"pages"`
	} `json:"document"`
}

// ProcessDocument sends raw document bytes for OCR and returns the ordered
// page geometry.
func (c *Client) ProcessDocument(ctx context.Context, raw []byte, mimeType string) ([]port.OCRPage, error) {
	reqBody := processRequest{
		RawDocument: rawDocument{
			Content:  base64.StdEncoding.EncodeToString(raw),
			MimeType: mimeType,
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
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling documentai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("documentai API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	var parsed processResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	pages := make([]port.OCRPage, 0, len(parsed.Document.Pages))
	for _, p := range parsed.Document.Pages {
		pages = append(pages, port.OCRPage{
			Width:  p.Dimension.Width,
			Height: p.Dimension.Height,
			Blocks: p.Blocks,
		})
	}
	return pages, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
