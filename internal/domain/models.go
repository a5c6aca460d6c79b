package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BBoxPercent is an axis-aligned rectangle expressed as percentages (0-100)
// of the owning page's width and height.
type BBoxPercent struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Paragraph is one text-bearing paragraph extracted from a document's OCR
// output. Its ID is deterministic from the paragraph's position in the OCR
// page tree, so repeated builds of the same output yield the same IDs.
type Paragraph struct {
	ID             string      `json:"id"`
	PageNumber     int         `json:"page_number"`
	BlockIndex     int         `json:"block_index"`
	ParagraphIndex int         `json:"paragraph_index"`
	Text           string      `json:"text"`
	BBoxPercent    BBoxPercent `json:"bbox_percent"`
}

// PageDimension holds a page's raw size as reported by the OCR provider.
// Used only to normalize geometry; not persisted with highlights.
type PageDimension struct {
	PageNumber int     `json:"page_number"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Highlight is a renderable region on a page of one document.
type Highlight struct {
	PageNumber  int         `json:"page_number"`
	BBoxPercent BBoxPercent `json:"bbox_percent"`
}

// Difference is the resolved, persisted form of a provider change: paragraph
// references replaced by concrete per-page highlight geometry.
type Difference struct {
	Category       ChangeCategory `json:"category"`
	Description    string         `json:"description"`
	Doc1Text       *string        `json:"doc1_text"`
	Doc2Text       *string        `json:"doc2_text"`
	Doc1Highlights []Highlight    `json:"doc1_highlights"`
	Doc2Highlights []Highlight    `json:"doc2_highlights"`
}

// DiffSummary holds the provider's per-category change counts.
type DiffSummary struct {
	TotalChanges    int `json:"total_changes"`
	ModifiedCount   int `json:"modified_count"`
	AddedCount      int `json:"added_count"`
	RemovedCount    int `json:"removed_count"`
	StructuralCount int `json:"structural_count"`
}

// Document represents an uploaded PDF and the state of its OCR job.
// Paragraphs and TextPayload are populated when OCRStatus reaches DONE.
type Document struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Filename    string          `db:"filename" json:"filename"`
	S3Bucket    string          `db:"s3_bucket" json:"-"`
	S3Key       string          `db:"s3_key" json:"-"`
	SHA256      string          `db:"sha256" json:"sha256"`
	ContentType string          `db:"content_type" json:"content_type"`
	FileSize    int64           `db:"file_size" json:"file_size"`
	OCRStatus   OCRStatus       `db:"ocr_status" json:"ocr_status"`
	OCRError    string          `db:"ocr_error" json:"ocr_error,omitempty"`
	Paragraphs  json.RawMessage `db:"paragraphs" json:"-"`
	TextPayload string          `db:"text_payload" json:"-"`
	PageCount   int             `db:"page_count" json:"page_count"`
	UploadedAt  time.Time       `db:"uploaded_at" json:"uploaded_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// ParagraphIndex decodes the persisted paragraph index.
func (d *Document) ParagraphIndex() ([]Paragraph, error) {
	if len(d.Paragraphs) == 0 {
		return nil, nil
	}
	var paras []Paragraph
	if err := json.Unmarshal(d.Paragraphs, &paras); err != nil {
		return nil, err
	}
	return paras, nil
}

// Comparison represents one comparison of two documents and the state of its
// compare job. Differences are replaced wholesale on every job run.
type Comparison struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	DocAID      uuid.UUID       `db:"doc_a_id" json:"doc_a_id"`
	DocBID      uuid.UUID       `db:"doc_b_id" json:"doc_b_id"`
	Status      CompareStatus   `db:"status" json:"status"`
	Error       string          `db:"error" json:"error,omitempty"`
	Differences json.RawMessage `db:"differences" json:"-"`
	Summary     json.RawMessage `db:"summary" json:"-"`
	TokensUsed  int             `db:"tokens_used" json:"tokens_used"`
	DurationMs  int64           `db:"duration_ms" json:"duration_ms"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// DifferenceList decodes the persisted differences.
func (c *Comparison) DifferenceList() ([]Difference, error) {
	if len(c.Differences) == 0 {
		return nil, nil
	}
	var diffs []Difference
	if err := json.Unmarshal(c.Differences, &diffs); err != nil {
		return nil, err
	}
	return diffs, nil
}

// APIKey represents an access credential for the HTTP API.
type APIKey struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Key        string     `db:"key" json:"-"`
	Label      string     `db:"label" json:"label"`
	Scopes     string     `db:"scopes" json:"scopes"` // comma-separated
	UsageCount int64      `db:"usage_count" json:"usage_count"`
	Active     bool       `db:"active" json:"active"`
	ExpiresAt  *time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// HasScope reports whether the key grants the given scope. Admin keys grant
// every scope.
func (k *APIKey) HasScope(scope APIKeyScope) bool {
	for _, s := range strings.Split(k.Scopes, ",") {
		s = strings.TrimSpace(s)
		if s == string(scope) || s == string(ScopeAdmin) {
			return true
		}
	}
	return false
}
