// Package geometry turns raw OCR page geometry into a stable paragraph index,
// renders it as an ID-tagged text payload, and maps provider paragraph
// references back onto page coordinates.
package geometry

import (
	"fmt"
	"strings"

	"docdiff/internal/domain"
	"docdiff/internal/port"
)

// ParagraphIndex is the result of indexing one document's OCR output.
type ParagraphIndex struct {
	Paragraphs     []domain.Paragraph
	PageDimensions []domain.PageDimension
}

// BuildParagraphIndex flattens OCR pages into an ordered paragraph list with
// deterministic IDs and percent bounding boxes. Paragraphs whose text trims
// to empty are dropped. Geometry is best-effort: a paragraph with no usable
// vertices gets a zero box, never an error.
func BuildParagraphIndex(pages []port.OCRPage) *ParagraphIndex {
	idx := &ParagraphIndex{}

	for pageIdx, page := range pages {
		pageNumber := pageIdx + 1
		pageWidth := page.Width
		if pageWidth == 0 {
			pageWidth = 1
		}
		pageHeight := page.Height
		if pageHeight == 0 {
			pageHeight = 1
		}

		idx.PageDimensions = append(idx.PageDimensions, domain.PageDimension{
			PageNumber: pageNumber,
			Width:      pageWidth,
			Height:     pageHeight,
		})

		for blockIdx, block := range page.Blocks {
			for paraIdx, para := range block.Paragraphs {
				text := strings.TrimSpace(paragraphText(para))
				if text == "" {
					continue
				}

				bbox := paragraphBBox(para, pageWidth, pageHeight)

				idx.Paragraphs = append(idx.Paragraphs, domain.Paragraph{
					ID:             fmt.Sprintf("P%d_%d_%d", pageNumber, blockIdx, paraIdx),
					PageNumber:     pageNumber,
					BlockIndex:     blockIdx,
					ParagraphIndex: paraIdx,
					Text:           text,
					BBoxPercent:    bboxToPercent(bbox, pageWidth, pageHeight),
				})
			}
		}
	}

	return idx
}

// PageCount returns the number of distinct pages that contributed at least
// one indexed paragraph.
func (idx *ParagraphIndex) PageCount() int {
	seen := make(map[int]struct{})
	for _, p := range idx.Paragraphs {
		seen[p.PageNumber] = struct{}{}
	}
	return len(seen)
}

// Lookup builds an id -> paragraph map for reference resolution.
func Lookup(paragraphs []domain.Paragraph) map[string]domain.Paragraph {
	m := make(map[string]domain.Paragraph, len(paragraphs))
	for _, p := range paragraphs {
		m[p.ID] = p
	}
	return m
}

// paragraphText joins symbol text across words, space-separated at word
// boundaries.
func paragraphText(para port.OCRParagraph) string {
	words := make([]string, 0, len(para.Words))
	for _, w := range para.Words {
		var b strings.Builder
		for _, s := range w.Symbols {
			b.WriteString(s.Text)
		}
		words = append(words, b.String())
	}
	return strings.Join(words, " ")
}

type bbox struct {
	x1, y1, x2, y2 float64
}

// paragraphBBox computes the paragraph's absolute bounding box. It prefers
// the paragraph's own polygon; otherwise it unions the word polygons.
// Vertices with max(x) <= 1 and max(y) <= 1 are treated as normalized and
// scaled by the page dimensions. This heuristic is ambiguous for a degenerate
// page whose absolute coordinates all fall in [0,1]; that approximation is
// accepted.
func paragraphBBox(para port.OCRParagraph, pageWidth, pageHeight float64) bbox {
	vertices := polyVertices(para.BoundingBox)
	if len(vertices) == 0 {
		for _, w := range para.Words {
			vertices = append(vertices, polyVertices(w.BoundingBox)...)
		}
	}
	if len(vertices) == 0 {
		return bbox{}
	}

	var maxX, maxY float64
	for _, v := range vertices {
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}

	scaleX, scaleY := 1.0, 1.0
	if maxX <= 1 && maxY <= 1 {
		scaleX, scaleY = pageWidth, pageHeight
	}

	out := bbox{
		x1: vertices[0].X * scaleX,
		y1: vertices[0].Y * scaleY,
		x2: vertices[0].X * scaleX,
		y2: vertices[0].Y * scaleY,
	}
	for _, v := range vertices[1:] {
		x := v.X * scaleX
		y := v.Y * scaleY
		if x < out.x1 {
			out.x1 = x
		}
		if y < out.y1 {
			out.y1 = y
		}
		if x > out.x2 {
			out.x2 = x
		}
		if y > out.y2 {
			out.y2 = y
		}
	}
	return out
}

// polyVertices picks the populated vertex list of a polygon, preferring
// normalized vertices when both are present.
func polyVertices(poly *port.BoundingPoly) []port.Vertex {
	if poly == nil {
		return nil
	}
	if len(poly.NormalizedVertices) > 0 {
		return poly.NormalizedVertices
	}
	return poly.Vertices
}

func bboxToPercent(b bbox, pageWidth, pageHeight float64) domain.BBoxPercent {
	return domain.BBoxPercent{
		X1: b.x1 / pageWidth * 100,
		Y1: b.y1 / pageHeight * 100,
		X2: b.x2 / pageWidth * 100,
		Y2: b.y2 / pageHeight * 100,
	}
}
