package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(requestIDMiddleware())
	r.Use(sessionMiddleware())

	r.GET("/public", func(c *gin.Context) {
		sess, _ := SessionFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": sess.UserID, "role": sess.Role})
	})
	r.POST("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestSessionFromHeaders(t *testing.T) {
	r := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("X-User-Id", "admin-7")
	req.Header.Set("X-User-Role", "admin")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin-7")
}

func TestRequireAdmin(t *testing.T) {
	r := newTestEngine()

	t.Run("anonymous rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("non-admin role rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set("X-User-Role", "viewer")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set("X-User-Role", "admin")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRequestIDPropagation(t *testing.T) {
	r := newTestEngine()

	t.Run("generated when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	})

	t.Run("echoed when supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		req.Header.Set("X-Request-Id", "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))
	})
}
