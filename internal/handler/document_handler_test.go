package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"brokerdesk/internal/docpath"
	"brokerdesk/internal/domain"
	"brokerdesk/internal/handler"
	"brokerdesk/internal/port"
	"brokerdesk/internal/service"
	"brokerdesk/mocks"
)

func newDocumentHandler() (*handler.DocumentHandler, *mocks.MockDocumentService) {
	mockSvc := new(mocks.MockDocumentService)
	return handler.NewDocumentHandler(mockSvc), mockSvc
}

func openedDocument(body, name string, method docpath.Method) *service.OpenedDocument {
	return &service.OpenedDocument{
		Object: &port.Object{
			Body:        io.NopCloser(strings.NewReader(body)),
			Size:        int64(len(body)),
			ContentType: "application/pdf",
		},
		FileName:   name,
		Resolution: &docpath.Resolution{Method: method},
	}
}

func TestDocumentHandler_UploadTemp(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	dir := docpath.NewTempDir()

	mockSvc.On("UploadTemp", mock.Anything, mock.MatchedBy(func(in service.DocumentUploadInput) bool {
		return in.DocumentType == domain.DocNICProof && in.TempDir == dir && in.Upload.Header.Filename == "nic.pdf"
	})).Return(&service.UploadedDocument{DocumentURL: "/uploads/documents/" + dir + "/nic_proof-1.pdf"}, nil)

	body, contentType := multipartBody(t,
		map[string]string{"documentType": "nic_proof", "tempDir": dir},
		formFile{field: "document", name: "nic.pdf", body: []byte("%PDF-1.4")},
	)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/documents/temp", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.UploadTemp(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_UploadTemp_MissingFile(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	body, contentType := multipartBody(t, map[string]string{"documentType": "nic_proof"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/documents/temp", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.UploadTemp(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", errorCode(t, w))
	mockSvc.AssertNotCalled(t, "UploadTemp", mock.Anything, mock.Anything)
}

func TestDocumentHandler_Upload_LegacyFileField(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()

	mockSvc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.DocumentUploadInput) bool {
		return in.ClientID == id && in.DocumentType == domain.DocVATProof
	})).Return(nil, domain.ErrFileTooLarge)

	body, contentType := multipartBody(t,
		map[string]string{"documentType": "vat_proof"},
		formFile{field: "file", name: "vat.pdf", body: []byte("%PDF-1.4")},
	)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/clients/"+id.String()+"/documents", body)
	c.Request.Header.Set("Content-Type", contentType)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Upload(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "FILE_TOO_LARGE", errorCode(t, w))
}

func TestDocumentHandler_List_PassesToken(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("List", mock.Anything, id, "test-token").Return(&domain.ClientDocuments{ClientID: id, Total: 2}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/clients/"+id.String()+"/documents", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	setAuthContext(c, uuid.New(), "sales")

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_View(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("Open", mock.Anything, id, "nic.pdf").Return(openedDocument("pdf-bytes", "nic.pdf", docpath.MethodTemp), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/clients/"+id.String()+"/documents/nic.pdf", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "name", Value: "nic.pdf"}}

	h.View(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf-bytes", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "inline; filename=nic.pdf", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "temp", w.Header().Get("X-Document-Resolution"))
}

func TestDocumentHandler_Download(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("Open", mock.Anything, id, "my scan.pdf").Return(openedDocument("x", "my scan.pdf", docpath.MethodDirect), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "name", Value: "my scan.pdf"}}

	h.Download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="my scan.pdf"`, w.Header().Get("Content-Disposition"))
}

func TestDocumentHandler_View_NotFound(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("Open", mock.Anything, id, "gone.pdf").Return(nil, domain.ErrDocumentNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "name", Value: "gone.pdf"}}

	h.View(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "DOCUMENT_NOT_FOUND", errorCode(t, w))
}

func TestDocumentHandler_Uploads(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	mockSvc.On("OpenPath", mock.Anything, "/documents/c1/a.pdf").Return(openedDocument("a", "a.pdf", docpath.MethodDirect), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/uploads/documents/c1/a.pdf", http.NoBody)
	c.Params = gin.Params{{Key: "path", Value: "/documents/c1/a.pdf"}}

	h.Uploads(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a", w.Body.String())
}

func TestDocumentHandler_Delete(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id, domain.DocumentType("passport")).Return(domain.ErrInvalidDocumentType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "name", Value: "passport"}}

	h.Delete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DOCUMENT_TYPE", errorCode(t, w))
}

func TestDocumentHandler_Access(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("Access", mock.Anything, id, domain.DocNICProof, "test-token").
		Return(&service.DocumentAccess{DocumentType: domain.DocNICProof, Available: false}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "name", Value: "nic_proof"}}
	setAuthContext(c, uuid.New(), "sales")

	h.Access(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, false, data["available"])
}

func TestDocumentHandler_TestFileAccess(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	mockSvc.On("TestFileAccess", mock.Anything, "/uploads/documents/c1/a.pdf", "c1").
		Return(&service.FileAccessReport{Success: true, Method: docpath.MethodDirect}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/test-file-access?path=/uploads/documents/c1/a.pdf&clientId=c1", http.NoBody)

	h.TestFileAccess(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, parseResponse(t, w).Data.(map[string]interface{})["success"])
}

func TestDocumentHandler_RepairAll(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	mockSvc.On("RepairAll", mock.Anything, true).
		Return(&domain.RepairReport{Success: true, DryRun: true, ClientsProcessed: 3, FixedPaths: 1, Missing: []domain.MissingDocument{}}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/repair-all-documents?dry_run=true", http.NoBody)

	h.RepairAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, true, data["success"])
	assert.Equal(t, float64(3), data["clientsProcessed"])
	assert.Equal(t, float64(1), data["fixedPaths"])
}

func TestDocumentHandler_RepairAll_BadDryRun(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/repair-all-documents?dry_run=maybe", http.NoBody)

	h.RepairAll(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "RepairAll", mock.Anything, mock.Anything)
}
