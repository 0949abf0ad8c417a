package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/middleware"
	"brokerdesk/internal/service"
	"brokerdesk/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(authSvc *mocks.MockAuthService, roles ...domain.UserRole) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{middleware.AuthMiddleware(authSvc)}
	if len(roles) > 0 {
		handlers = append(handlers, middleware.RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, err := middleware.GetUserID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id": id.String(),
			"role":    middleware.GetRole(c),
			"token":   middleware.GetToken(c),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware_BearerHeader(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	userID := uuid.New()
	authSvc.On("ValidateToken", "good").Return(&service.Claims{UserID: userID, Role: domain.RoleSales}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", http.NoBody)
	req.Header.Set("Authorization", "Bearer good")
	authRouter(authSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), `"token":"good"`)
}

func TestAuthMiddleware_TokenQuery(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	authSvc.On("ValidateToken", "from-link").Return(&service.Claims{UserID: uuid.New(), Role: domain.RoleManager}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected?token=from-link", http.NoBody)
	authRouter(authSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	authSvc.On("ValidateToken", "expired").Return(nil, errors.New("token is expired"))

	tests := []struct {
		name   string
		url    string
		header string
	}{
		{"missing", "/protected", ""},
		{"wrong scheme", "/protected?token=ignored", "Basic dXNlcjpwYXNz"},
		{"invalid token", "/protected", "Bearer expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			authRouter(authSvc).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
	authSvc.AssertNotCalled(t, "ValidateToken", "ignored")
}

func TestRequireRole(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	authSvc.On("ValidateToken", "admin").Return(&service.Claims{UserID: uuid.New(), Role: domain.RoleAdmin}, nil)
	authSvc.On("ValidateToken", "sales").Return(&service.Claims{UserID: uuid.New(), Role: domain.RoleSales}, nil)
	r := authRouter(authSvc, domain.RoleAdmin)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", http.NoBody)
	req.Header.Set("Authorization", "Bearer admin")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/protected", http.NoBody)
	req.Header.Set("Authorization", "Bearer sales")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}
