package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"docdiff/internal/config"
	"docdiff/internal/domain"
	"docdiff/internal/geometry"
	"docdiff/internal/port"
)

// UploadDocumentInput is the DTO for uploading a PDF.
type UploadDocumentInput struct {
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
}

// OCRResult is the DTO returned once a document's OCR is DONE.
type OCRResult struct {
	PageCount  int                `json:"page_count"`
	Paragraphs []domain.Paragraph `json:"paragraphs"`
}

// DocumentService defines the document upload and OCR contract.
type DocumentService interface {
	Upload(ctx context.Context, input UploadDocumentInput) (*domain.Document, error)
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
	GetPDFURL(ctx context.Context, docID uuid.UUID) (string, error)
	GetOCRResult(ctx context.Context, docID uuid.UUID) (*OCRResult, error)
	Delete(ctx context.Context, docID uuid.UUID) error
	RunOCR(ctx context.Context, docID uuid.UUID) error
}

type documentService struct {
	docRepo    port.DocumentRepository
	storage    port.ObjectStorage
	ocr        port.OCRProvider
	dispatcher *Dispatcher
	s3cfg      *config.S3Config
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.DocumentRepository,
	storage port.ObjectStorage,
	ocr port.OCRProvider,
	dispatcher *Dispatcher,
	s3cfg *config.S3Config,
) DocumentService {
	return &documentService{
		docRepo:    docRepo,
		storage:    storage,
		ocr:        ocr,
		dispatcher: dispatcher,
		s3cfg:      s3cfg,
	}
}

// Upload stores the PDF, creates the document record in PENDING and
// dispatches the OCR job.
func (s *documentService) Upload(ctx context.Context, input UploadDocumentInput) (*domain.Document, error) {
	if input.ContentType != domain.ContentTypePDF {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.s3cfg.MaxFileSizeMB * 1024 * 1024
	if input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	raw, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	digest := sha256.Sum256(raw)

	doc := &domain.Document{
		ID:          uuid.New(),
		Filename:    input.Filename,
		S3Bucket:    s.s3cfg.Bucket,
		S3Key:       "",
		SHA256:      hex.EncodeToString(digest[:]),
		ContentType: input.ContentType,
		FileSize:    int64(len(raw)),
		OCRStatus:   domain.OCRStatusPending,
	}
	doc.S3Key = fmt.Sprintf("documents/%s.pdf", doc.ID)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      doc.S3Bucket,
		Key:         doc.S3Key,
		Body:        bytes.NewReader(raw),
		ContentType: doc.ContentType,
		Size:        doc.FileSize,
	})
	if err != nil {
		log.Printf("documentService.Upload: s3 upload failed for %s: %v", doc.Filename, err)
		return nil, domain.ErrUploadFailed
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	docID := doc.ID
	s.dispatcher.Submit(fmt.Sprintf("ocr-job %s", docID), func(jobCtx context.Context) error {
		return s.RunOCR(jobCtx, docID)
	})

	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, docID)
}

func (s *documentService) List(ctx context.Context, offset, limit int) ([]domain.Document, int, error) {
	return s.docRepo.List(ctx, offset, limit)
}

// GetPDFURL returns a presigned URL for the document's stored PDF.
func (s *documentService) GetPDFURL(ctx context.Context, docID uuid.UUID) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, doc.S3Bucket, doc.S3Key, s.s3cfg.PresignExpiry)
}

// GetOCRResult returns the paragraph index once OCR is DONE.
func (s *documentService) GetOCRResult(ctx context.Context, docID uuid.UUID) (*OCRResult, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.OCRStatus != domain.OCRStatusDone {
		return nil, domain.ErrOCRNotReady
	}

	paras, err := doc.ParagraphIndex()
	if err != nil {
		return nil, fmt.Errorf("decoding paragraph index: %w", err)
	}
	return &OCRResult{PageCount: doc.PageCount, Paragraphs: paras}, nil
}

// Delete removes the stored PDF and the document record. Comparisons that
// reference the document are removed with it.
func (s *documentService) Delete(ctx context.Context, docID uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, doc.S3Bucket, doc.S3Key); err != nil {
		log.Printf("documentService.Delete: s3 delete failed for %s: %v", docID, err)
	}

	return s.docRepo.Delete(ctx, docID)
}

// RunOCR executes the OCR job state machine for one document:
// PENDING -> RUNNING -> DONE or ERROR. The document always ends in a
// terminal state; any failure below this boundary is captured into the
// persisted error field.
func (s *documentService) RunOCR(ctx context.Context, docID uuid.UUID) error {
	if err := s.docRepo.UpdateOCRStatus(ctx, docID, domain.OCRStatusRunning, ""); err != nil {
		return fmt.Errorf("ocr-job: marking %s RUNNING: %w", docID, err)
	}

	if err := s.runOCR(ctx, docID); err != nil {
		log.Printf("ocr-job: ERROR docId=%s: %v", docID, err)
		if updErr := s.docRepo.UpdateOCRStatus(ctx, docID, domain.OCRStatusError, err.Error()); updErr != nil {
			log.Printf("ocr-job: failed to persist ERROR for %s: %v", docID, updErr)
		}
		return err
	}
	return nil
}

func (s *documentService) runOCR(ctx context.Context, docID uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	raw, err := s.storage.Download(ctx, doc.S3Bucket, doc.S3Key)
	if err != nil {
		return fmt.Errorf("downloading file: %w", err)
	}

	pages, err := s.ocr.ProcessDocument(ctx, raw, doc.ContentType)
	if err != nil {
		return fmt.Errorf("ocr provider: %w", err)
	}

	idx := geometry.BuildParagraphIndex(pages)
	payload := geometry.BuildTextPayload(idx.Paragraphs, "DOCUMENT")

	paraJSON, err := json.Marshal(idx.Paragraphs)
	if err != nil {
		return fmt.Errorf("encoding paragraph index: %w", err)
	}

	doc.OCRStatus = domain.OCRStatusDone
	doc.OCRError = ""
	doc.Paragraphs = paraJSON
	doc.TextPayload = payload
	doc.PageCount = idx.PageCount()

	if err := s.docRepo.SaveOCRResult(ctx, doc); err != nil {
		return fmt.Errorf("saving OCR result: %w", err)
	}

	log.Printf("ocr-job: DONE docId=%s paragraphs=%d", docID, len(idx.Paragraphs))
	return nil
}
