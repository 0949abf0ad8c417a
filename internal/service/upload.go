package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"brokerdesk/internal/domain"
)

// FileUpload is a single uploaded file part.
type FileUpload struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// checkedUpload is an upload whose type and size were verified.
type checkedUpload struct {
	ext         string
	contentType string
}

// checkUpload validates extension, size and magic bytes, then rewinds the file.
func checkUpload(up FileUpload, maxBytes int64) (*checkedUpload, error) {
	if up.File == nil || up.Header == nil {
		return nil, domain.ErrUnsupportedFileType
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(up.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	if maxBytes > 0 && up.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := up.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	if _, valid := domain.AllowedContentTypes[http.DetectContentType(buf[:n])]; !valid {
		return nil, domain.ErrUnsupportedFileType
	}

	if _, err := up.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	if fileType == domain.FileTypeJPG {
		ext = "jpg"
	}
	return &checkedUpload{ext: ext, contentType: domain.AllowedFileTypes[fileType]}, nil
}
