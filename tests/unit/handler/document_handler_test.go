package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docdiff/internal/domain"
	"docdiff/internal/handler"
	"docdiff/internal/service"
	"docdiff/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDocumentTestRouter(docSvc *mocks.MockDocumentService) *gin.Engine {
	h := handler.NewDocumentHandler(docSvc)
	r := gin.New()
	r.POST("/api/v1/documents", h.Upload)
	r.GET("/api/v1/documents", h.List)
	r.GET("/api/v1/documents/:id", h.GetByID)
	r.GET("/api/v1/documents/:id/pdf", h.GetPDF)
	r.GET("/api/v1/documents/:id/ocr", h.GetOCR)
	r.DELETE("/api/v1/documents/:id", h.Delete)
	return r
}

func multipartPDF(t *testing.T, filename string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test content"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestDocumentHandler_Upload_Success(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docID := uuid.New()

	docSvc.On("Upload", mock.Anything, mock.AnythingOfType("service.UploadDocumentInput")).
		Return(&domain.Document{
			ID:        docID,
			Filename:  "contract.pdf",
			OCRStatus: domain.OCRStatusPending,
		}, nil)

	r := newDocumentTestRouter(docSvc)

	body, contentType := multipartPDF(t, "contract.pdf")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	docSvc.AssertExpectations(t)
}

func TestDocumentHandler_Upload_MissingFile(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	r := newDocumentTestRouter(docSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewBufferString("not multipart"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	docSvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestDocumentHandler_Upload_UnsupportedType(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docSvc.On("Upload", mock.Anything, mock.AnythingOfType("service.UploadDocumentInput")).
		Return(nil, domain.ErrUnsupportedFileType)

	r := newDocumentTestRouter(docSvc)

	body, contentType := multipartPDF(t, "image.png")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestDocumentHandler_GetByID_NotFound(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docID := uuid.New()
	docSvc.On("GetByID", mock.Anything, docID).Return(nil, domain.ErrNotFound)

	r := newDocumentTestRouter(docSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+docID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocumentHandler_GetByID_InvalidUUID(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	r := newDocumentTestRouter(docSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	docSvc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestDocumentHandler_List(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docSvc.On("List", mock.Anything, 0, 20).
		Return([]domain.Document{{ID: uuid.New()}, {ID: uuid.New()}}, 2, nil)

	r := newDocumentTestRouter(docSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
}

func TestDocumentHandler_GetPDF_Redirects(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docID := uuid.New()
	docSvc.On("GetPDFURL", mock.Anything, docID).Return("https://signed.example.com/doc.pdf", nil)

	r := newDocumentTestRouter(docSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+docID.String()+"/pdf", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "https://signed.example.com/doc.pdf", w.Header().Get("Location"))
}

func TestDocumentHandler_GetOCR_NotReady(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docID := uuid.New()
	docSvc.On("GetOCRResult", mock.Anything, docID).Return(nil, domain.ErrOCRNotReady)

	r := newDocumentTestRouter(docSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+docID.String()+"/ocr", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "OCR_NOT_READY", resp.Error.Code)
}

func TestDocumentHandler_Delete(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docID := uuid.New()
	docSvc.On("Delete", mock.Anything, docID).Return(nil)

	r := newDocumentTestRouter(docSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+docID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	docSvc.AssertExpectations(t)
}

func TestDocumentHandler_GetOCR_Success(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docID := uuid.New()
	docSvc.On("GetOCRResult", mock.Anything, docID).Return(&service.OCRResult{
		PageCount:  2,
		Paragraphs: []domain.Paragraph{{ID: "P1_0_0", PageNumber: 1, Text: "hello"}},
	}, nil)

	r := newDocumentTestRouter(docSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+docID.String()+"/ocr", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "P1_0_0")
}
