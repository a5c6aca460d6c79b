package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docdiff/internal/service"
)

// ComparisonHandler handles comparison creation and result endpoints.
type ComparisonHandler struct {
	compService service.ComparisonService
}

// NewComparisonHandler creates a new ComparisonHandler.
func NewComparisonHandler(compService service.ComparisonService) *ComparisonHandler {
	return &ComparisonHandler{compService: compService}
}

type createComparisonRequest struct {
	Doc1ID uuid.UUID `json:"doc1_id" binding:"required"`
	Doc2ID uuid.UUID `json:"doc2_id" binding:"required"`
}

// Create handles POST /api/v1/comparisons. Both documents must exist and
// have completed OCR; the comparison job itself runs in the background.
func (h *ComparisonHandler) Create(c *gin.Context) {
	var req createComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "doc1_id and doc2_id are required UUIDs")
		return
	}

	comp, err := h.compService.Create(c.Request.Context(), req.Doc1ID, req.Doc2ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, comp)
}

// Rerun handles POST /api/v1/comparisons/:id/run. Re-running a finished
// comparison replaces its stored results wholesale.
func (h *ComparisonHandler) Rerun(c *gin.Context) {
	compID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.compService.Rerun(c.Request.Context(), compID); err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, gin.H{"id": compID})
}

// GetByID handles GET /api/v1/comparisons/:id
func (h *ComparisonHandler) GetByID(c *gin.Context) {
	compID, ok := parseIDParam(c)
	if !ok {
		return
	}

	detail, err := h.compService.GetByID(c.Request.Context(), compID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// List handles GET /api/v1/comparisons
func (h *ComparisonHandler) List(c *gin.Context) {
	offset, limit := paginationParams(c)

	comps, total, err := h.compService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, comps, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// RenderMetadata handles GET /api/v1/comparisons/:id/render-metadata. It
// returns what a viewer needs to draw highlights: per-document page counts,
// page dimensions and presigned PDF URLs.
func (h *ComparisonHandler) RenderMetadata(c *gin.Context) {
	compID, ok := parseIDParam(c)
	if !ok {
		return
	}

	meta, err := h.compService.RenderMetadata(c.Request.Context(), compID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, meta)
}
