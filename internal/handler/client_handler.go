package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/export"
	"brokerdesk/internal/service"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling file parts to disk.
const multipartMemory = 32 << 20

// ClientHandler handles client record endpoints.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List handles GET /api/clients
// @Summary List clients
// @Description List clients, newest first, with optional text search and equality filters
// @Tags clients
// @Produce json
// @Param q query string false "Matches client name, policy no, mobile no, email or introducer code"
// @Param customer_type query string false "Customer type"
// @Param product query string false "Product"
// @Param insurance_provider query string false "Insurance provider"
// @Param branch query string false "Branch"
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Pagination limit" default(20)
// @Success 200 {object} PagedResponse{data=[]domain.Client} "Clients"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	filter := domain.ClientFilter{
		Query:             strings.TrimSpace(c.Query("q")),
		CustomerType:      c.Query("customer_type"),
		Product:           c.Query("product"),
		InsuranceProvider: c.Query("insurance_provider"),
		Branch:            c.Query("branch"),
	}

	clients, total, err := h.clientService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, clients, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/clients/:id
// @Summary Get client by ID
// @Tags clients
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Success 200 {object} Response{data=domain.Client} "Client"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), clientID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, client)
}

// Create handles POST /api/clients
// @Summary Create a client
// @Description Create a client record. Any id in the body is ignored; temp document references are adopted into the client's directory.
// @Tags clients
// @Accept json
// @Produce json
// @Param request body domain.Client true "Client"
// @Success 201 {object} Response{data=CreatedIDResponse} "Client created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 409 {object} ErrorResponseBody "Policy number already exists"
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var client domain.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	created, err := h.clientService.Create(c.Request.Context(), &client, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, CreatedIDResponse{ID: created.ID})
}

// Update handles PUT /api/clients/:id
// @Summary Update a client
// @Description Replace a client's fields. The id in the body is ignored; empty document fields keep their stored reference.
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Param request body domain.Client true "Client"
// @Success 200 {object} Response{data=domain.Client} "Client updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Client not found"
// @Failure 409 {object} ErrorResponseBody "Policy number already exists"
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}

	var client domain.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	updated, err := h.clientService.Update(c.Request.Context(), clientID, &client)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, updated)
}

// Delete handles DELETE /api/clients/:id
// @Summary Delete a client
// @Description Delete a client record and, best effort, its stored documents
// @Tags clients
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Client deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), clientID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "client deleted"})
}

// Search handles POST /api/clients/search
// @Summary Search clients
// @Description Every non-empty string field of the criteria must occur, case-insensitively, in the matching client
// @Tags clients
// @Accept json
// @Produce json
// @Param request body domain.Client true "Partial client used as criteria"
// @Success 200 {object} Response{data=[]domain.Client} "Matching clients"
// @Failure 400 {object} ErrorResponseBody "Invalid criteria"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /clients/search [post]
func (h *ClientHandler) Search(c *gin.Context) {
	var criteria domain.Client
	if err := c.ShouldBindJSON(&criteria); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	clients, err := h.clientService.Search(c.Request.Context(), &criteria)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, clients)
}

// CreateWithDocuments handles POST /api/clients/with-documents
// @Summary Create a client with documents
// @Description Multipart form: the client JSON in the data field (or individual form fields) and file parts named after document types
// @Tags clients
// @Accept multipart/form-data
// @Produce json
// @Param data formData string false "Client JSON"
// @Param coverage_proof formData file false "Coverage proof"
// @Param nic_proof formData file false "NIC proof"
// @Success 201 {object} Response{data=service.ClientDocumentsResult} "Client created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 409 {object} ErrorResponseBody "Policy number already exists"
// @Security BearerAuth
// @Router /clients/with-documents [post]
func (h *ClientHandler) CreateWithDocuments(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	client, files, ok := bindClientForm(c)
	if !ok {
		return
	}
	defer closeUploads(files)

	result, err := h.clientService.CreateWithDocuments(c.Request.Context(), client, files, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// UpdateWithDocuments handles PUT /api/clients/:id/with-documents
// @Summary Update a client with documents
// @Description Multipart form: the client JSON in the data field (or individual form fields) and file parts named after document types
// @Tags clients
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Param data formData string false "Client JSON"
// @Success 200 {object} Response{data=service.ClientDocumentsResult} "Client updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Client not found"
// @Security BearerAuth
// @Router /clients/{id}/with-documents [put]
func (h *ClientHandler) UpdateWithDocuments(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}

	client, files, ok := bindClientForm(c)
	if !ok {
		return
	}
	defer closeUploads(files)

	result, err := h.clientService.UpdateWithDocuments(c.Request.Context(), clientID, client, files)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Export handles GET /api/clients/export
// @Summary Export clients
// @Description Download every client as an Excel workbook or CSV file
// @Tags clients
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param format query string false "xlsx (default) or csv"
// @Success 200 {file} binary "Export file"
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /clients/export [get]
func (h *ClientHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	clients, err := h.clientService.All(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	// Render fully before writing headers so a failure can still become a JSON error.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, clients); err != nil {
		HandleError(c, fmt.Errorf("clientHandler.Export: %w", err))
		return
	}

	filename := export.BuildFilename("clients", format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// bindClientForm reads a multipart client payload. The client comes from the
// JSON in the data field, or from individual form fields when data is absent.
// Every file part is returned keyed by its field name.
func bindClientForm(c *gin.Context) (*domain.Client, map[domain.DocumentType]service.FileUpload, bool) {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "expected a multipart form")
		return nil, nil, false
	}
	form := c.Request.MultipartForm

	var raw []byte
	if data := form.Value["data"]; len(data) > 0 && strings.TrimSpace(data[0]) != "" {
		raw = []byte(data[0])
	} else {
		var err error
		raw, err = formFieldsJSON(form.Value)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return nil, nil, false
		}
	}

	var client domain.Client
	if err := json.Unmarshal(raw, &client); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid client data: "+err.Error())
		return nil, nil, false
	}

	files := make(map[domain.DocumentType]service.FileUpload, len(form.File))
	for field, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			closeUploads(files)
			log.Printf("clientHandler.bindClientForm: opening %s failed: %v", field, err)
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "could not read file "+field)
			return nil, nil, false
		}
		files[domain.DocumentType(field)] = service.FileUpload{File: f, Header: headers[0]}
	}
	return &client, files, true
}

// formFieldsJSON turns flat form values into a client JSON object. Empty
// values are dropped so money fields default to zero.
func formFieldsJSON(values map[string][]string) ([]byte, error) {
	obj := make(map[string]interface{}, len(values))
	for key, vs := range values {
		if len(vs) == 0 || strings.TrimSpace(vs[0]) == "" {
			continue
		}
		v := strings.TrimSpace(vs[0])
		switch key {
		case "id", "created_by", "created_at", "updated_at":
			continue
		}
		if key == "policies" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("policies: invalid number %q", v)
			}
			obj[key] = n
			continue
		}
		obj[key] = v
	}
	return json.Marshal(obj)
}

func closeUploads(files map[domain.DocumentType]service.FileUpload) {
	for _, f := range files {
		if f.File != nil {
			_ = f.File.Close()
		}
	}
}
