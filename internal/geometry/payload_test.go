package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docdiff/internal/domain"
	"docdiff/internal/geometry"
)

func TestBuildTextPayload(t *testing.T) {
	paragraphs := []domain.Paragraph{
		{ID: "P1_0_0", PageNumber: 1, Text: "First paragraph."},
		{ID: "P1_0_1", PageNumber: 1, Text: "Second paragraph."},
		{ID: "P2_0_0", PageNumber: 2, Text: "Next page."},
	}

	payload := geometry.BuildTextPayload(paragraphs, "DOCUMENT")

	expected := "=== DOCUMENT ===\n\n" +
		"--- Page 1 ---\n\n" +
		"[P1_0_0] First paragraph.\n\n" +
		"[P1_0_1] Second paragraph.\n\n" +
		"--- Page 2 ---\n\n" +
		"[P2_0_0] Next page.\n\n"
	assert.Equal(t, expected, payload)
}

func TestBuildTextPayload_Empty(t *testing.T) {
	payload := geometry.BuildTextPayload(nil, "DOCUMENT")
	assert.Equal(t, "=== DOCUMENT ===\n\n", payload)
}
