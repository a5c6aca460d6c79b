package domain

// OCRStatus represents the lifecycle of a document's OCR job.
type OCRStatus string

const (
	OCRStatusPending OCRStatus = "PENDING"
	OCRStatusRunning OCRStatus = "RUNNING"
	OCRStatusDone    OCRStatus = "DONE"
	OCRStatusError   OCRStatus = "ERROR"
)

// CompareStatus represents the lifecycle of a comparison's compare job.
type CompareStatus string

const (
	CompareStatusCreated CompareStatus = "CREATED"
	CompareStatusRunning CompareStatus = "COMPARE_RUNNING"
	CompareStatusDone    CompareStatus = "DONE"
	CompareStatusError   CompareStatus = "ERROR"
)

// ChangeCategory classifies a difference reported by the comparison provider.
type ChangeCategory string

const (
	ChangeModified   ChangeCategory = "MODIFIED"
	ChangeAdded      ChangeCategory = "ADDED"
	ChangeRemoved    ChangeCategory = "REMOVED"
	ChangeStructural ChangeCategory = "STRUCTURAL"
)

// APIKeyScope defines what an API key is allowed to do.
type APIKeyScope string

const (
	ScopeRead  APIKeyScope = "read"
	ScopeWrite APIKeyScope = "write"
	ScopeAdmin APIKeyScope = "admin"
)

// ContentTypePDF is the only media type accepted for upload.
const ContentTypePDF = "application/pdf"
