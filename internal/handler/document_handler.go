package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docdiff/internal/service"
)

// DocumentHandler handles document upload and OCR status endpoints.
type DocumentHandler struct {
	docService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

// Upload handles POST /api/v1/documents. It accepts a multipart PDF, stores
// it and dispatches the OCR job; the response does not wait for OCR.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := h.docService.Upload(c.Request.Context(), service.UploadDocumentInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		File:        file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	docID, ok := parseIDParam(c)
	if !ok {
		return
	}

	doc, err := h.docService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	offset, limit := paginationParams(c)

	docs, total, err := h.docService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetPDF handles GET /api/v1/documents/:id/pdf. It redirects to a presigned
// URL for the stored PDF.
func (h *DocumentHandler) GetPDF(c *gin.Context) {
	docID, ok := parseIDParam(c)
	if !ok {
		return
	}

	url, err := h.docService.GetPDFURL(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GetOCR handles GET /api/v1/documents/:id/ocr. Responds 409 until the OCR
// job has reached DONE.
func (h *DocumentHandler) GetOCR(c *gin.Context) {
	docID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.docService.GetOCRResult(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.docService.Delete(c.Request.Context(), docID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": docID})
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func paginationParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
