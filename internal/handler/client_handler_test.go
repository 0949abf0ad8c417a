package handler_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/export"
	"brokerdesk/internal/handler"
	"brokerdesk/internal/service"
	"brokerdesk/mocks"
)

func newClientHandler() (*handler.ClientHandler, *mocks.MockClientService) {
	mockSvc := new(mocks.MockClientService)
	return handler.NewClientHandler(mockSvc), mockSvc
}

const clientJSON = `{"client_name":"Nimal Perera","customer_type":"Individual","product":"Motor",
"insurance_provider":"Ceylinco","mobile_no":"0771234567","basic_premium":15000.5,"policy_":"Comprehensive"}`

func TestClientHandler_Create_Success(t *testing.T) {
	h, mockSvc := newClientHandler()
	userID := uuid.New()
	newID := uuid.New()

	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(cl *domain.Client) bool {
		return cl.ClientName == "Nimal Perera" && cl.Policy == "Comprehensive" &&
			cl.BasicPremium.Equal(decimal.RequireFromString("15000.5"))
	}), userID).Return(&domain.Client{ID: newID}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/clients", strings.NewReader(clientJSON))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, userID, "sales")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := parseResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, newID.String(), data["id"])
	mockSvc.AssertExpectations(t)
}

func TestClientHandler_Create_ValidationError(t *testing.T) {
	h, mockSvc := newClientHandler()
	mockSvc.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &domain.ValidationError{Fields: map[string]string{"mobile_no": "is required"}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/clients", strings.NewReader(`{"client_name":"X"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, uuid.New(), "sales")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "is required", resp.Error.Fields["mobile_no"])
}

func TestClientHandler_Create_DuplicatePolicy(t *testing.T) {
	h, mockSvc := newClientHandler()
	mockSvc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicatePolicyNo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/clients", strings.NewReader(clientJSON))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, uuid.New(), "sales")

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_POLICY_NO", errorCode(t, w))
}

func TestClientHandler_List(t *testing.T) {
	h, mockSvc := newClientHandler()
	filter := domain.ClientFilter{Query: "nimal", Product: "Motor"}
	mockSvc.On("List", mock.Anything, filter, 0, 50).Return([]domain.Client{{ClientName: "Nimal"}}, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/clients?q=+nimal+&product=Motor&limit=50", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, parseResponse(t, w).Meta.Total)
	mockSvc.AssertExpectations(t)
}

func TestClientHandler_GetByID_NotFound(t *testing.T) {
	h, mockSvc := newClientHandler()
	id := uuid.New()
	mockSvc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrClientNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/clients/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CLIENT_NOT_FOUND", errorCode(t, w))
}

func TestClientHandler_Update(t *testing.T) {
	h, mockSvc := newClientHandler()
	id := uuid.New()
	mockSvc.On("Update", mock.Anything, id, mock.AnythingOfType("*domain.Client")).Return(&domain.Client{ID: id}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPut, "/api/clients/"+id.String(), strings.NewReader(clientJSON))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestClientHandler_Delete(t *testing.T) {
	h, mockSvc := newClientHandler()
	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/clients/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientHandler_Search(t *testing.T) {
	h, mockSvc := newClientHandler()
	mockSvc.On("Search", mock.Anything, mock.MatchedBy(func(cl *domain.Client) bool {
		return cl.InsuranceProvider == "Allianz"
	})).Return([]domain.Client{{ClientName: "A"}, {ClientName: "B"}}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/clients/search", strings.NewReader(`{"insurance_provider":"Allianz"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Search(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponse(t, w).Data, 2)
}

func TestClientHandler_EmptyIDIgnored(t *testing.T) {
	body := `{"id":"","client_name":"Nimal Perera","customer_type":"Individual","product":"Motor",
"insurance_provider":"Ceylinco","mobile_no":"0771234567"}`
	nilID := mock.MatchedBy(func(cl *domain.Client) bool {
		return cl.ID == uuid.Nil && cl.ClientName == "Nimal Perera"
	})
	clientID := uuid.New()

	t.Run("create", func(t *testing.T) {
		h, mockSvc := newClientHandler()
		userID := uuid.New()
		mockSvc.On("Create", mock.Anything, nilID, userID).Return(&domain.Client{ID: clientID}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodPost, "/api/clients", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		setAuthContext(c, userID, "sales")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("update", func(t *testing.T) {
		h, mockSvc := newClientHandler()
		mockSvc.On("Update", mock.Anything, clientID, nilID).Return(&domain.Client{ID: clientID}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodPut, "/api/clients/"+clientID.String(), strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: clientID.String()}}

		h.Update(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("search", func(t *testing.T) {
		h, mockSvc := newClientHandler()
		mockSvc.On("Search", mock.Anything, nilID).Return([]domain.Client{}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodPost, "/api/clients/search", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Search(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("with documents data field", func(t *testing.T) {
		h, mockSvc := newClientHandler()
		userID := uuid.New()
		form, contentType := multipartBody(t, map[string]string{"data": body})
		mockSvc.On("CreateWithDocuments", mock.Anything, nilID, mock.Anything, userID).
			Return(&service.ClientDocumentsResult{Client: &domain.Client{ID: clientID}}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodPost, "/api/clients/with-documents", form)
		c.Request.Header.Set("Content-Type", contentType)
		setAuthContext(c, userID, "sales")

		h.CreateWithDocuments(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestClientHandler_CreateWithDocuments_FormFields(t *testing.T) {
	h, mockSvc := newClientHandler()
	userID := uuid.New()

	body, contentType := multipartBody(t,
		map[string]string{
			"client_name":        "Sunil",
			"customer_type":      "Corporate",
			"product":            "Fire",
			"insurance_provider": "AIA",
			"mobile_no":          "0712222222",
			"policies":           "2",
			"basic_premium":      "2500",
			"sum_insured":        "",
			"id":                 uuid.NewString(),
		},
		formFile{field: "nic_proof", name: "nic.pdf", body: []byte("%PDF-1.4")},
	)

	mockSvc.On("CreateWithDocuments", mock.Anything,
		mock.MatchedBy(func(cl *domain.Client) bool {
			return cl.ClientName == "Sunil" && cl.Policies == 2 && cl.ID == uuid.Nil &&
				cl.BasicPremium.Equal(decimal.NewFromInt(2500))
		}),
		mock.MatchedBy(func(files map[domain.DocumentType]service.FileUpload) bool {
			f, ok := files[domain.DocNICProof]
			return ok && len(files) == 1 && f.Header.Filename == "nic.pdf"
		}),
		userID,
	).Return(&service.ClientDocumentsResult{Client: &domain.Client{ClientName: "Sunil"}}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/clients/with-documents", body)
	c.Request.Header.Set("Content-Type", contentType)
	setAuthContext(c, userID, "sales")

	h.CreateWithDocuments(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestClientHandler_UpdateWithDocuments_DataField(t *testing.T) {
	h, mockSvc := newClientHandler()
	id := uuid.New()

	body, contentType := multipartBody(t, map[string]string{"data": clientJSON})
	mockSvc.On("UpdateWithDocuments", mock.Anything, id,
		mock.MatchedBy(func(cl *domain.Client) bool { return cl.ClientName == "Nimal Perera" }),
		mock.MatchedBy(func(files map[domain.DocumentType]service.FileUpload) bool { return len(files) == 0 }),
	).Return(&service.ClientDocumentsResult{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPut, "/api/clients/"+id.String()+"/with-documents", body)
	c.Request.Header.Set("Content-Type", contentType)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.UpdateWithDocuments(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestClientHandler_CreateWithDocuments_NotMultipart(t *testing.T) {
	h, mockSvc := newClientHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/clients/with-documents", strings.NewReader(clientJSON))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, uuid.New(), "sales")

	h.CreateWithDocuments(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "CreateWithDocuments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestClientHandler_Export_CSV(t *testing.T) {
	h, mockSvc := newClientHandler()
	mockSvc.On("All", mock.Anything).Return([]domain.Client{{ClientName: "Nimal", PolicyNo: "P-1"}}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/clients/export?format=csv", http.NoBody)

	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="clients_`)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), export.BOM))
	assert.Contains(t, w.Body.String(), "Nimal")
}

func TestClientHandler_Export_XLSXDefault(t *testing.T) {
	h, mockSvc := newClientHandler()
	mockSvc.On("All", mock.Anything).Return([]domain.Client{{ClientName: "Nimal"}}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/clients/export", http.NoBody)

	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.FormatXLSX.ContentType(), w.Header().Get("Content-Type"))

	clients, _, err := export.ReadXLSX(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Nimal", clients[0].ClientName)
}

func TestClientHandler_Export_Errors(t *testing.T) {
	h, mockSvc := newClientHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/clients/export?format=pdf", http.NoBody)
	h.Export(c)
	assert.Equal(t, "UNSUPPORTED_FORMAT", errorCode(t, w))

	mockSvc.On("All", mock.Anything).Return(nil, errors.New("db down"))
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/clients/export?format=csv", http.NoBody)
	h.Export(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
