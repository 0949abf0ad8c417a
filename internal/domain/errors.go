package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrInvalidRole         = errors.New("invalid role")
	ErrSelfDeletion        = errors.New("cannot delete your own account")

	ErrClientNotFound       = errors.New("client not found")
	ErrInvalidClient        = errors.New("invalid client data")
	ErrDuplicatePolicyNo    = errors.New("policy number already exists")
	ErrInvalidDocumentType  = errors.New("invalid document type")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDocumentUnavailable  = errors.New("document could not be located in storage")
	ErrInvalidDocumentPath  = errors.New("invalid document path")
	ErrUnsupportedExportFmt = errors.New("unsupported export format")
)

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Unwrap lets callers match ValidationError against ErrInvalidClient.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidClient
}
