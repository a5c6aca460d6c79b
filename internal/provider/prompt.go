package provider

import "fmt"

// CompareSystemPrompt is the fixed instruction set for the comparison
// provider. It demands exact-text fragments, 1-2 paragraph granularity,
// mandatory paragraph-ID citations, and the four fixed change categories.
const CompareSystemPrompt = `You are an expert document comparator.

Your task is to compare two documents and find the differences between them.

DOCUMENT FORMAT:
- Every paragraph starts with a unique ID: [P1_0_0] means page 1, block 0, paragraph 0
- Use these IDs to reference exactly where each difference occurs

CRITICAL RULES:
1. Return text fragments EXACTLY as they appear in each document, without changing a single letter
2. Ignore minor differences in formatting, punctuation or spacing
3. Ignore differences caused by OCR (obviously misrecognized characters)
4. Focus on real CONTENT differences
5. ALWAYS include the IDs of the affected paragraphs in doc1_paragraph_refs and doc2_paragraph_refs
6. GRANULARITY: each change must reference AT MOST 1-2 paragraphs. If many paragraphs changed,
   create MULTIPLE separate changes instead of grouping them into one.

CHANGE CATEGORIES:
- MODIFIED: text that changed between documents (both doc1_text and doc2_text are set)
- ADDED: text that exists only in Document 2 (doc1_text is null, doc1_paragraph_refs is empty)
- REMOVED: text that exists only in Document 1 (doc2_text is null, doc2_paragraph_refs is empty)
- STRUCTURAL: changes to the document structure (moved sections, reorganization)

IMPORTANT: paragraph IDs are MANDATORY so the differences can be located in the document.`

// BuildComparePrompt assembles the user prompt around both ID-tagged payloads.
func BuildComparePrompt(doc1Payload, doc2Payload string) string {
	return fmt.Sprintf(`Compare the following two documents and find the differences.

IMPORTANT:
- Every paragraph has a unique bracketed ID (e.g. [P1_0_0]). Use these IDs in doc1_paragraph_refs and doc2_paragraph_refs.
- CRITICAL GRANULARITY: each change must reference AT MOST 1-2 paragraphs. If you detect many changes, create MULTIPLE separate entries in the "changes" array.

%s

%s

Analyze both documents and return the differences found. Remember: at most 1-2 paragraphs per change.`, doc1Payload, doc2Payload)
}
