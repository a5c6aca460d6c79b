package geometry

import (
	"fmt"
	"strings"

	"docdiff/internal/domain"
)

// BuildTextPayload renders a paragraph index as the ID-tagged, page-delimited
// text block sent to the comparison provider. Each paragraph appears as
// "[ID] text" so the provider can cite exact locations back.
func BuildTextPayload(paragraphs []domain.Paragraph, docLabel string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n\n", docLabel)

	currentPage := 0
	for _, para := range paragraphs {
		if para.PageNumber != currentPage {
			currentPage = para.PageNumber
			fmt.Fprintf(&b, "--- Page %d ---\n\n", currentPage)
		}
		fmt.Fprintf(&b, "[%s] %s\n\n", para.ID, para.Text)
	}

	return b.String()
}
