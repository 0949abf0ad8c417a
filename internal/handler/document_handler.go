package handler

import (
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/metrics"
	"brokerdesk/internal/middleware"
	"brokerdesk/internal/service"
)

// DocumentHandler handles client document endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// formUpload reads the uploaded file from the document field (or file, as
// older clients send). The caller must close the returned file.
func formUpload(c *gin.Context) (service.FileUpload, bool) {
	for _, field := range []string{"document", "file"} {
		f, header, err := c.Request.FormFile(field)
		if err == nil {
			return service.FileUpload{File: f, Header: header}, true
		}
	}
	RespondError(c, http.StatusBadRequest, "MISSING_FILE", "document field is required")
	return service.FileUpload{}, false
}

// UploadTemp handles POST /api/documents/temp
// @Summary Upload a document before the client exists
// @Description Stores the file in a temp directory; the returned documentUrl can be put on a new client, which adopts it on save
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param document formData file true "PDF, JPG, PNG or GIF"
// @Param documentType formData string false "Document type"
// @Param tempDir formData string false "Existing temp directory to group uploads"
// @Success 201 {object} Response{data=service.UploadedDocument} "Stored"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /documents/temp [post]
func (h *DocumentHandler) UploadTemp(c *gin.Context) {
	up, ok := formUpload(c)
	if !ok {
		return
	}
	defer func() { _ = up.File.Close() }()

	doc, err := h.documentService.UploadTemp(c.Request.Context(), service.DocumentUploadInput{
		DocumentType: domain.DocumentType(c.PostForm("documentType")),
		TempDir:      c.PostForm("tempDir"),
		Upload:       up,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// Upload handles POST /api/clients/:id/documents
// @Summary Upload a client document
// @Description Stores the file in the client's directory and points the document field at it, replacing any previous file
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Param document formData file true "PDF, JPG, PNG or GIF"
// @Param documentType formData string true "Document type"
// @Success 201 {object} Response{data=service.UploadedDocument} "Stored"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or invalid document type"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Client not found"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /clients/{id}/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}
	up, ok := formUpload(c)
	if !ok {
		return
	}
	defer func() { _ = up.File.Close() }()

	doc, err := h.documentService.Upload(c.Request.Context(), service.DocumentUploadInput{
		ClientID:     clientID,
		DocumentType: domain.DocumentType(c.PostForm("documentType")),
		Upload:       up,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// List handles GET /api/clients/:id/documents
// @Summary List a client's documents
// @Description Document slots grouped by category with view and download links
// @Tags documents
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Success 200 {object} Response{data=domain.ClientDocuments} "Documents"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Client not found"
// @Security BearerAuth
// @Router /clients/{id}/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}

	docs, err := h.documentService.List(c.Request.Context(), clientID, middleware.GetToken(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, docs)
}

// Delete handles DELETE /api/clients/:id/documents/:name
// @Summary Remove a client document
// @Tags documents
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Param name path string true "Document type"
// @Success 200 {object} Response{data=MessageResponse} "Removed"
// @Failure 400 {object} ErrorResponseBody "Invalid document type"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Client or document not found"
// @Security BearerAuth
// @Router /clients/{id}/documents/{name} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), clientID, domain.DocumentType(c.Param("name"))); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "document removed"})
}

// View handles GET /api/clients/:id/documents/:name
// @Summary View a client document
// @Description Streams the file inline, locating it through the resolver when it is not at its canonical path. Accepts the token query parameter.
// @Tags documents
// @Produce application/octet-stream
// @Param id path string true "Client ID (UUID)"
// @Param name path string true "File name"
// @Success 200 {file} binary "Document"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /clients/{id}/documents/{name} [get]
func (h *DocumentHandler) View(c *gin.Context) {
	h.serveClientDocument(c, "inline")
}

// Download handles GET /api/clients/:id/documents/:name/download
// @Summary Download a client document
// @Tags documents
// @Produce application/octet-stream
// @Param id path string true "Client ID (UUID)"
// @Param name path string true "File name"
// @Success 200 {file} binary "Document"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /clients/{id}/documents/{name}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	h.serveClientDocument(c, "attachment")
}

func (h *DocumentHandler) serveClientDocument(c *gin.Context, disposition string) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}

	doc, err := h.documentService.Open(c.Request.Context(), clientID, c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}
	serveDocument(c, doc, disposition)
}

// Uploads handles GET /uploads/*path, serving stored files by their exact public path.
// @Summary Static document access
// @Description Unauthenticated; only the exact storage key is served, without resolution fallbacks
// @Tags documents
// @Produce application/octet-stream
// @Param path path string true "Path below /uploads"
// @Success 200 {file} binary "Document"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Router /uploads/{path} [get]
func (h *DocumentHandler) Uploads(c *gin.Context) {
	doc, err := h.documentService.OpenPath(c.Request.Context(), c.Param("path"))
	if err != nil {
		HandleError(c, err)
		return
	}
	serveDocument(c, doc, "inline")
}

func serveDocument(c *gin.Context, doc *service.OpenedDocument, disposition string) {
	defer func() {
		if err := doc.Object.Body.Close(); err != nil {
			log.Printf("documentHandler.serveDocument: close failed: %v", err)
		}
	}()

	headers := map[string]string{
		"Content-Disposition": mime.FormatMediaType(disposition, map[string]string{"filename": doc.FileName}),
		"Cache-Control":       "private, max-age=300",
	}
	if doc.Resolution != nil {
		headers["X-Document-Resolution"] = string(doc.Resolution.Method)
	}
	c.DataFromReader(http.StatusOK, doc.Object.Size, doc.Object.ContentType, doc.Object.Body, headers)
}

// Access handles GET /api/clients/:id/documents/:name/access
// @Summary Document access report
// @Description Resolves the stored reference of a document field and reports the strategy used, the URLs and every attempt. Unresolvable documents return available=false.
// @Tags documents
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Param name path string true "Document type"
// @Success 200 {object} Response{data=service.DocumentAccess} "Access report"
// @Failure 400 {object} ErrorResponseBody "Invalid document type"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Client not found or field empty"
// @Security BearerAuth
// @Router /clients/{id}/documents/{name}/access [get]
func (h *DocumentHandler) Access(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}

	access, err := h.documentService.Access(c.Request.Context(), clientID, domain.DocumentType(c.Param("name")), middleware.GetToken(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, access)
}

// TestFileAccess handles GET /api/test-file-access
// @Summary Path diagnostics
// @Description Normalizes, parses and resolves an arbitrary document path, reporting every attempt
// @Tags documents
// @Produce json
// @Param path query string true "Document path or URL"
// @Param clientId query string false "Client ID used as fallback when the path has none"
// @Success 200 {object} Response{data=service.FileAccessReport} "Diagnostics"
// @Failure 400 {object} ErrorResponseBody "Missing path"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /test-file-access [get]
func (h *DocumentHandler) TestFileAccess(c *gin.Context) {
	report, err := h.documentService.TestFileAccess(c.Request.Context(), c.Query("path"), c.Query("clientId"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// RepairAll handles GET|POST /api/repair-all-documents
// @Summary Repair document paths
// @Description Relocates every resolvable client document to its canonical path and rewrites the stored reference (admin only)
// @Tags documents
// @Produce json
// @Param dry_run query bool false "Report without changing anything"
// @Success 200 {object} Response{data=domain.RepairReport} "Repair report"
// @Failure 400 {object} ErrorResponseBody "Invalid dry_run"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Security BearerAuth
// @Router /repair-all-documents [post]
func (h *DocumentHandler) RepairAll(c *gin.Context) {
	dryRun := false
	if v := c.Query("dry_run"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "dry_run must be a boolean")
			return
		}
		dryRun = b
	}

	report, err := h.documentService.RepairAll(c.Request.Context(), dryRun)
	metrics.ObserveRepair(report, err)
	if err != nil {
		HandleError(c, fmt.Errorf("documentHandler.RepairAll: %w", err))
		return
	}

	RespondOK(c, report)
}
