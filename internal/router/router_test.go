package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/handler"
	"brokerdesk/internal/router"
	"brokerdesk/internal/service"
	"brokerdesk/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

type routerFixture struct {
	engine *gin.Engine
	auth   *mocks.MockAuthService
	users  *mocks.MockUserService
}

func newRouter(opts router.Options) *routerFixture {
	authSvc := new(mocks.MockAuthService)
	userSvc := new(mocks.MockUserService)
	h := router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		User:     handler.NewUserHandler(userSvc),
		Client:   handler.NewClientHandler(new(mocks.MockClientService)),
		Document: handler.NewDocumentHandler(new(mocks.MockDocumentService)),
		Stats:    handler.NewStatsHandler(new(mocks.MockStatsService)),
		Health:   handler.NewHealthHandler(okPinger{}),
	}
	return &routerFixture{engine: router.Setup(authSvc, h, opts), auth: authSvc, users: userSvc}
}

func (f *routerFixture) do(method, target, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, http.NoBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	f.engine.ServeHTTP(w, req)
	return w
}

func TestSetup_Health(t *testing.T) {
	f := newRouter(router.Options{})

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/readyz", "").Code)
	assert.NotEmpty(t, f.do(http.MethodGet, "/healthz", "").Header().Get("X-Request-ID"))
}

func TestSetup_ProtectedRoutesRequireToken(t *testing.T) {
	f := newRouter(router.Options{})

	for _, target := range []string{"/api/clients", "/api/auth/me", "/api/dashboard/overview", "/api/clients/abc/documents"} {
		assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, target, "").Code, target)
	}
}

func TestSetup_AdminRoutes(t *testing.T) {
	f := newRouter(router.Options{})
	f.auth.On("ValidateToken", "sales").Return(&service.Claims{UserID: uuid.New(), Role: domain.RoleSales}, nil)
	f.auth.On("ValidateToken", "admin").Return(&service.Claims{UserID: uuid.New(), Role: domain.RoleAdmin}, nil)
	f.users.On("List", mock.Anything, mock.Anything, 0, 20).Return([]domain.User{}, 0, nil)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/users", "sales").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/repair-all-documents", "sales").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/dashboard/admin", "sales").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/users", "admin").Code)
}

func TestSetup_OptionalSurfaces(t *testing.T) {
	off := newRouter(router.Options{})
	assert.Equal(t, http.StatusNotFound, off.do(http.MethodGet, "/metrics", "").Code)

	on := newRouter(router.Options{Metrics: true})
	on.do(http.MethodGet, "/healthz", "")
	w := on.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `brokerdesk_http_requests_total{method="GET",path="/healthz",status="200"}`)

	assert.Equal(t, http.StatusNotFound, off.do(http.MethodGet, "/swagger/index.html", "").Code)
}
