package port

import (
	"context"

	"docdiff/internal/domain"
)

// Change is one unresolved difference reported by the comparison provider,
// citing paragraph IDs rather than geometry. ADDED changes are expected to
// carry no doc1 refs and REMOVED no doc2 refs, but the provider is not
// guaranteed to uphold that; the resolver handles either way.
type Change struct {
	Category          domain.ChangeCategory `json:"category"`
	Description       string                `json:"description"`
	Doc1Text          *string               `json:"doc1_text"`
	Doc2Text          *string               `json:"doc2_text"`
	Doc1ParagraphRefs []string              `json:"doc1_paragraph_refs"`
	Doc2ParagraphRefs []string              `json:"doc2_paragraph_refs"`
}

// CompareOutput is the comparison provider's structured response.
type CompareOutput struct {
	Changes    []Change
	Summary    domain.DiffSummary
	TokensUsed int
}

// CompareProvider abstracts the external generative text-comparison service.
// Both inputs are ID-tagged text payloads produced by the paragraph index.
type CompareProvider interface {
	CompareDocuments(ctx context.Context, doc1Payload, doc2Payload string) (*CompareOutput, error)
}
