package port

import "context"

// Vertex is a single point of a bounding polygon. Coordinates may be
// normalized (0-1) or absolute (pixels/points) depending on the provider.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingPoly carries a geometric node's polygon in one of two coordinate
// systems. Providers populate at most one of the two lists.
type BoundingPoly struct {
	NormalizedVertices []Vertex `json:"normalizedVertices,omitempty"`
	Vertices           []Vertex `json:"vertices,omitempty"`
}

// OCRSymbol is a single recognized character.
type OCRSymbol struct {
	Text string `json:"text"`
}

// OCRWord is a recognized word with optional geometry.
type OCRWord struct {
	Symbols     []OCRSymbol   `json:"symbols,omitempty"`
	BoundingBox *BoundingPoly `json:"boundingBox,omitempty"`
}

// OCRParagraph is a recognized paragraph with optional geometry.
type OCRParagraph struct {
	Words       []OCRWord     `json:"words,omitempty"`
	BoundingBox *BoundingPoly `json:"boundingBox,omitempty"`
}

// OCRBlock groups paragraphs.
type OCRBlock struct {
	Paragraphs []OCRParagraph `json:"paragraphs,omitempty"`
}

// OCRPage is one page of OCR output with its reported dimensions.
type OCRPage struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Blocks []OCRBlock `json:"blocks,omitempty"`
}

// OCRProvider abstracts the external geometric-OCR service.
type OCRProvider interface {
	ProcessDocument(ctx context.Context, raw []byte, mimeType string) ([]OCRPage, error)
}
