package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"brokerdesk/internal/handler"
	"brokerdesk/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setAuthContext sets the auth context values that AuthMiddleware would set.
func setAuthContext(c *gin.Context, userID uuid.UUID, role string) {
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyEmail, "agent@brokerdesk.lk")
	c.Set(middleware.ContextKeyRole, role)
	c.Set(middleware.ContextKeyToken, "test-token")
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := parseResponse(t, w)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

type formFile struct {
	field, name string
	body        []byte
}

// multipartBody builds a multipart form and returns it with its content type.
func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
