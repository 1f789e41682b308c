package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrmz14/proyecto-rifas/internal/pkg/jwthelper"
)

const testSigningKey = "test-signing-key"

func newGuardedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(NewAuthenticator(testSigningKey).VerifyJWT())
	router.GET("/guarded", func(ctx *gin.Context) {
		adminID := ctx.GetUint(ContextKeyAdminID)
		ctx.JSON(http.StatusOK, gin.H{"admin_id": adminID})
	})

	return router
}

func TestVerifyJWT(t *testing.T) {
	t.Run("valid token passes with the admin ID set", func(t *testing.T) {
		token, err := jwthelper.GenerateToken(testSigningKey, 42, time.Hour)
		require.NoError(t, err)

		resp := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newGuardedRouter(t).ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"admin_id":42}`, resp.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		resp := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		newGuardedRouter(t).ServeHTTP(resp, req)

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		resp := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Token abc")
		newGuardedRouter(t).ServeHTTP(resp, req)

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := jwthelper.GenerateToken(testSigningKey, 42, -time.Minute)
		require.NoError(t, err)

		resp := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newGuardedRouter(t).ServeHTTP(resp, req)

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		token, err := jwthelper.GenerateToken("other-key", 42, time.Hour)
		require.NoError(t, err)

		resp := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newGuardedRouter(t).ServeHTTP(resp, req)

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}
