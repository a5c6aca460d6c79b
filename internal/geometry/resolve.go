package geometry

import (
	"docdiff/internal/domain"
	"docdiff/internal/port"
)

// fallbackHighlight marks a change whose references cited paragraphs that do
// not exist in the index: the change is real but cannot be located, so it is
// pinned to a zero box on page one instead of being dropped.
var fallbackHighlight = domain.Highlight{PageNumber: 1, BBoxPercent: domain.BBoxPercent{}}

// ResolveChanges maps provider changes onto concrete highlight geometry using
// both documents' paragraph indices. The output preserves order and count:
// one Difference per Change, never merged or dropped.
func ResolveChanges(changes []port.Change, doc1Paragraphs, doc2Paragraphs []domain.Paragraph) []domain.Difference {
	doc1 := Lookup(doc1Paragraphs)
	doc2 := Lookup(doc2Paragraphs)

	diffs := make([]domain.Difference, 0, len(changes))
	for _, change := range changes {
		diffs = append(diffs, domain.Difference{
			Category:       change.Category,
			Description:    change.Description,
			Doc1Text:       change.Doc1Text,
			Doc2Text:       change.Doc2Text,
			Doc1Highlights: resolveRefs(change.Doc1ParagraphRefs, doc1),
			Doc2Highlights: resolveRefs(change.Doc2ParagraphRefs, doc2),
		})
	}
	return diffs
}

// resolveRefs resolves one side's reference list. An empty list yields no
// highlights (the ADDED/REMOVED asymmetry falls out of this). Refs that do
// not resolve are discarded; if none resolve, the fallback sentinel is
// emitted so the change stays visible.
func resolveRefs(refs []string, lookup map[string]domain.Paragraph) []domain.Highlight {
	if len(refs) == 0 {
		return []domain.Highlight{}
	}

	highlights := make([]domain.Highlight, 0, len(refs))
	for _, ref := range refs {
		para, ok := lookup[ref]
		if !ok {
			continue
		}
		highlights = append(highlights, domain.Highlight{
			PageNumber:  para.PageNumber,
			BBoxPercent: para.BBoxPercent,
		})
	}

	if len(highlights) == 0 {
		return []domain.Highlight{fallbackHighlight}
	}
	return highlights
}
