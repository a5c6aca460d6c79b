package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"docdiff/internal/domain"
	"docdiff/internal/geometry"
	"docdiff/internal/port"
	"docdiff/internal/provider"
)

// ComparisonSummary is the list-view DTO for a comparison.
type ComparisonSummary struct {
	ID        uuid.UUID            `json:"id"`
	DocAID    uuid.UUID            `json:"doc_a_id"`
	DocBID    uuid.UUID            `json:"doc_b_id"`
	Status    domain.CompareStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	DiffCount int                  `json:"diff_count"`
}

// ComparisonDetail is the full DTO including resolved differences.
type ComparisonDetail struct {
	Comparison  *domain.Comparison  `json:"comparison"`
	Differences []domain.Difference `json:"differences"`
	Summary     *domain.DiffSummary `json:"summary,omitempty"`
}

// RenderDocMeta describes one side of a comparison for the viewer.
type RenderDocMeta struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	PageCount int       `json:"page_count"`
	PDFURL    string    `json:"pdf_url"`
}

// RenderMetadata is everything the review screen needs to overlay highlights.
type RenderMetadata struct {
	ComparisonID uuid.UUID           `json:"comparison_id"`
	DocA         RenderDocMeta       `json:"doc_a"`
	DocB         RenderDocMeta       `json:"doc_b"`
	Differences  []domain.Difference `json:"differences"`
}

// ComparisonService defines the comparison lifecycle contract.
type ComparisonService interface {
	Create(ctx context.Context, docAID, docBID uuid.UUID) (*domain.Comparison, error)
	Rerun(ctx context.Context, compID uuid.UUID) error
	GetByID(ctx context.Context, compID uuid.UUID) (*ComparisonDetail, error)
	List(ctx context.Context, offset, limit int) ([]ComparisonSummary, int, error)
	RenderMetadata(ctx context.Context, compID uuid.UUID) (*RenderMetadata, error)
	RunCompare(ctx context.Context, compID uuid.UUID) error
}

type comparisonService struct {
	compRepo   port.ComparisonRepository
	docRepo    port.DocumentRepository
	compare    port.CompareProvider
	retry      *provider.RetryPolicy
	dispatcher *Dispatcher
	docService DocumentService
}

// NewComparisonService creates a new ComparisonService implementation.
func NewComparisonService(
	compRepo port.ComparisonRepository,
	docRepo port.DocumentRepository,
	compare port.CompareProvider,
	retry *provider.RetryPolicy,
	dispatcher *Dispatcher,
	docService DocumentService,
) ComparisonService {
	return &comparisonService{
		compRepo:   compRepo,
		docRepo:    docRepo,
		compare:    compare,
		retry:      retry,
		dispatcher: dispatcher,
		docService: docService,
	}
}

// Create validates both documents, persists the comparison in CREATED and
// dispatches the compare job.
func (s *comparisonService) Create(ctx context.Context, docAID, docBID uuid.UUID) (*domain.Comparison, error) {
	docA, err := s.docRepo.GetByID(ctx, docAID)
	if err != nil {
		return nil, domain.ErrDocumentNotFound
	}
	docB, err := s.docRepo.GetByID(ctx, docBID)
	if err != nil {
		return nil, domain.ErrDocumentNotFound
	}

	if docA.OCRStatus != domain.OCRStatusDone || docB.OCRStatus != domain.OCRStatusDone {
		return nil, domain.ErrOCRNotReady
	}

	comp := &domain.Comparison{
		ID:     uuid.New(),
		DocAID: docAID,
		DocBID: docBID,
		Status: domain.CompareStatusCreated,
	}
	if err := s.compRepo.Create(ctx, comp); err != nil {
		return nil, err
	}

	s.submitCompare(comp.ID)
	return comp, nil
}

// Rerun re-triggers the compare job for an existing comparison. The job
// overwrites prior results wholesale.
func (s *comparisonService) Rerun(ctx context.Context, compID uuid.UUID) error {
	if _, err := s.compRepo.GetByID(ctx, compID); err != nil {
		return err
	}
	s.submitCompare(compID)
	return nil
}

func (s *comparisonService) submitCompare(compID uuid.UUID) {
	s.dispatcher.Submit(fmt.Sprintf("compare-job %s", compID), func(jobCtx context.Context) error {
		return s.RunCompare(jobCtx, compID)
	})
}

func (s *comparisonService) GetByID(ctx context.Context, compID uuid.UUID) (*ComparisonDetail, error) {
	comp, err := s.compRepo.GetByID(ctx, compID)
	if err != nil {
		return nil, err
	}

	diffs, err := comp.DifferenceList()
	if err != nil {
		return nil, fmt.Errorf("decoding differences: %w", err)
	}

	detail := &ComparisonDetail{Comparison: comp, Differences: diffs}
	if len(comp.Summary) > 0 {
		var summary domain.DiffSummary
		if err := json.Unmarshal(comp.Summary, &summary); err == nil {
			detail.Summary = &summary
		}
	}
	return detail, nil
}

func (s *comparisonService) List(ctx context.Context, offset, limit int) ([]ComparisonSummary, int, error) {
	comps, total, err := s.compRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]ComparisonSummary, 0, len(comps))
	for i := range comps {
		diffs, err := comps[i].DifferenceList()
		if err != nil {
			log.Printf("comparisonService.List: decoding differences for %s: %v", comps[i].ID, err)
		}
		out = append(out, ComparisonSummary{
			ID:        comps[i].ID,
			DocAID:    comps[i].DocAID,
			DocBID:    comps[i].DocBID,
			Status:    comps[i].Status,
			CreatedAt: comps[i].CreatedAt,
			DiffCount: len(diffs),
		})
	}
	return out, total, nil
}

// RenderMetadata assembles the viewer payload: both documents plus the
// resolved differences.
func (s *comparisonService) RenderMetadata(ctx context.Context, compID uuid.UUID) (*RenderMetadata, error) {
	comp, err := s.compRepo.GetByID(ctx, compID)
	if err != nil {
		return nil, err
	}

	docA, err := s.docRepo.GetByID(ctx, comp.DocAID)
	if err != nil {
		return nil, err
	}
	docB, err := s.docRepo.GetByID(ctx, comp.DocBID)
	if err != nil {
		return nil, err
	}

	diffs, err := comp.DifferenceList()
	if err != nil {
		return nil, fmt.Errorf("decoding differences: %w", err)
	}

	urlA, err := s.docService.GetPDFURL(ctx, docA.ID)
	if err != nil {
		return nil, err
	}
	urlB, err := s.docService.GetPDFURL(ctx, docB.ID)
	if err != nil {
		return nil, err
	}

	return &RenderMetadata{
		ComparisonID: comp.ID,
		DocA:         RenderDocMeta{ID: docA.ID, Filename: docA.Filename, PageCount: docA.PageCount, PDFURL: urlA},
		DocB:         RenderDocMeta{ID: docB.ID, Filename: docB.Filename, PageCount: docB.PageCount, PDFURL: urlB},
		Differences:  diffs,
	}, nil
}

// RunCompare executes the compare job state machine for one comparison:
// CREATED -> COMPARE_RUNNING -> DONE or ERROR. Preconditions (both documents
// OCR DONE) are checked at run start, not at scheduling time. The provider
// call is retried on transient failures; reference resolution is pure and is
// not retried.
func (s *comparisonService) RunCompare(ctx context.Context, compID uuid.UUID) error {
	if err := s.compRepo.UpdateStatus(ctx, compID, domain.CompareStatusRunning, ""); err != nil {
		return fmt.Errorf("compare-job: marking %s COMPARE_RUNNING: %w", compID, err)
	}

	if err := s.runCompare(ctx, compID); err != nil {
		log.Printf("compare-job: ERROR compId=%s: %v", compID, err)
		if updErr := s.compRepo.UpdateStatus(ctx, compID, domain.CompareStatusError, err.Error()); updErr != nil {
			log.Printf("compare-job: failed to persist ERROR for %s: %v", compID, updErr)
		}
		return err
	}
	return nil
}

func (s *comparisonService) runCompare(ctx context.Context, compID uuid.UUID) error {
	start := time.Now()

	comp, err := s.compRepo.GetByID(ctx, compID)
	if err != nil {
		return fmt.Errorf("loading comparison: %w", err)
	}

	docA, err := s.docRepo.GetByID(ctx, comp.DocAID)
	if err != nil {
		return fmt.Errorf("loading document A: %w", err)
	}
	docB, err := s.docRepo.GetByID(ctx, comp.DocBID)
	if err != nil {
		return fmt.Errorf("loading document B: %w", err)
	}

	if docA.OCRStatus != domain.OCRStatusDone || docB.OCRStatus != domain.OCRStatusDone {
		return fmt.Errorf("one or both documents have not completed OCR")
	}

	output, err := provider.DoWithResult(ctx, s.retry, func() (*port.CompareOutput, error) {
		return s.compare.CompareDocuments(ctx, docA.TextPayload, docB.TextPayload)
	})
	if err != nil {
		return fmt.Errorf("compare provider: %w", err)
	}

	parasA, err := docA.ParagraphIndex()
	if err != nil {
		return fmt.Errorf("decoding document A paragraphs: %w", err)
	}
	parasB, err := docB.ParagraphIndex()
	if err != nil {
		return fmt.Errorf("decoding document B paragraphs: %w", err)
	}

	diffs := geometry.ResolveChanges(output.Changes, parasA, parasB)

	diffJSON, err := json.Marshal(diffs)
	if err != nil {
		return fmt.Errorf("encoding differences: %w", err)
	}
	summaryJSON, err := json.Marshal(output.Summary)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	comp.Status = domain.CompareStatusDone
	comp.Error = ""
	comp.Differences = diffJSON
	comp.Summary = summaryJSON
	comp.TokensUsed = output.TokensUsed
	comp.DurationMs = time.Since(start).Milliseconds()

	if err := s.compRepo.SaveResult(ctx, comp); err != nil {
		return fmt.Errorf("saving compare result: %w", err)
	}

	log.Printf("compare-job: DONE compId=%s diffs=%d tokens=%d", compID, len(diffs), output.TokensUsed)
	return nil
}
