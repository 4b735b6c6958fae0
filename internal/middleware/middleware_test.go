package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevasetu/internal/auth"
	"sevasetu/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGatedRouter(tokens *auth.TokenService, hits *int) *gin.Engine {
	r := gin.New()
	r.POST("/ngo-only", RequireAuth(tokens), RequireRole(models.RoleNGO), func(c *gin.Context) {
		*hits++
		id, _ := Identity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "role": id.Role})
	})
	return r
}

func doRequest(r http.Handler, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGate(t *testing.T) {
	tokens := auth.NewTokenService("gate-secret", time.Hour)
	hits := 0
	r := newGatedRouter(tokens, &hits)

	ngoToken, err := tokens.Issue(7, models.RoleNGO)
	require.NoError(t, err)
	volToken, err := tokens.Issue(8, models.RoleVolunteer)
	require.NoError(t, err)
	foreign, err := auth.NewTokenService("other-secret", time.Hour).Issue(7, models.RoleNGO)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing", "", http.StatusUnauthorized, "missing_token"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "invalid_token"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "invalid_token"},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized, "invalid_token"},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, "invalid_token"},
		{"wrong role", "Bearer " + volToken, http.StatusForbidden, "forbidden"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/ngo-only", tc.header)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decode(t, w)["code"])
		})
	}
	assert.Zero(t, hits, "rejected requests never reach the handler")

	w := doRequest(r, http.MethodPost, "/ngo-only", "Bearer "+ngoToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(7), body["user_id"])
	assert.Equal(t, "ngo", body["role"])
	assert.Equal(t, 1, hits)
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := doRequest(r, http.MethodGet, "/x", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.org"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.org")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.org")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	open := gin.New()
	open.Use(CORS([]string{"*"}))
	open.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	open.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDAndAccessLog(t *testing.T) {
	var logs bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), AccessLog(&logs, "/healthz"))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(r, http.MethodGet, "/x", "")
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, requestIDSize)
	assert.Equal(t, id, w.Body.String())
	assert.Contains(t, logs.String(), id)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "client-id-1", w.Header().Get(RequestIDHeader))

	logs.Reset()
	doRequest(r, http.MethodGet, "/healthz", "")
	assert.Empty(t, logs.String())
}
