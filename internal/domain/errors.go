package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUnsupportedFileType = errors.New("only PDF files are allowed")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrOCRNotReady         = errors.New("OCR not ready on one or both documents")
	ErrDocumentNotFound    = errors.New("one or both documents not found")
)
