package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/handler"
	"brokerdesk/internal/service"
	"brokerdesk/mocks"
)

func newAuthHandler() (*handler.AuthHandler, *mocks.MockAuthService) {
	mockSvc := new(mocks.MockAuthService)
	return handler.NewAuthHandler(mockSvc), mockSvc
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h, mockSvc := newAuthHandler()

	mockSvc.On("Login", mock.Anything, service.LoginInput{Email: "admin@brokerdesk.lk", Password: "secret"}).
		Return(&service.TokenPair{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(time.Hour)}, nil)

	body, _ := json.Marshal(map[string]string{"email": "admin@brokerdesk.lk", "password": "secret"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "a", data["access_token"])
	mockSvc.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidBody(t *testing.T) {
	h, mockSvc := newAuthHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"email":"not-an-email"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	mockSvc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h, mockSvc := newAuthHandler()
	mockSvc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)

	body, _ := json.Marshal(map[string]string{"email": "a@b.lk", "password": "nope"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))
}

func TestAuthHandler_RefreshToken_Inactive(t *testing.T) {
	h, mockSvc := newAuthHandler()
	mockSvc.On("RefreshToken", mock.Anything, "r").Return(nil, domain.ErrUserInactive)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewReader([]byte(`{"refresh_token":"r"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	h.RefreshToken(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "USER_INACTIVE", errorCode(t, w))
}

func TestAuthHandler_Me(t *testing.T) {
	h, mockSvc := newAuthHandler()
	userID := uuid.New()
	mockSvc.On("Me", mock.Anything, userID).Return(&domain.User{ID: userID, Email: "me@b.lk"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequestWithContext(context.Background(), http.MethodGet, "/api/auth/me", http.NoBody)
	setAuthContext(c, userID, "sales")

	h.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "me@b.lk", parseResponse(t, w).Data.(map[string]interface{})["email"])
}

func TestAuthHandler_Me_NoAuthContext(t *testing.T) {
	h, _ := newAuthHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/auth/me", http.NoBody)

	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
