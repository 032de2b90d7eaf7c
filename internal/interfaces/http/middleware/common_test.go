package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://frontdesk.lab.local"}

	engine := gin.New()
	engine.Use(CORSWithConfig(cfg))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://frontdesk.lab.local")
		w := serve(engine, req)
		assert.Equal(t, "https://frontdesk.lab.local", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), HeaderStation)
	})

	t.Run("foreign origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := serve(engine, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "https://frontdesk.lab.local")
		w := serve(engine, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("wildcard", func(t *testing.T) {
		wild := DefaultCORSConfig()
		wild.AllowOrigins = []string{"*"}
		e := gin.New()
		e.Use(CORSWithConfig(wild))
		e.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://any.example")
		w := serve(e, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestRequestIDAndIdentity(t *testing.T) {
	var requestID, userID, station, userName string
	engine := gin.New()
	engine.Use(RequestID(), Identity())
	engine.GET("/x", func(c *gin.Context) {
		ctx := c.Request.Context()
		requestID = logger.GetRequestID(ctx)
		userID = logger.GetUserID(ctx)
		station = logger.GetStation(ctx)
		userName = GetUserName(c)
		c.Status(http.StatusOK)
	})

	t.Run("propagates headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(HeaderRequestID, "req-1")
		req.Header.Set(HeaderUserID, "u-9")
		req.Header.Set(HeaderStation, "reception-2")
		req.Header.Set(HeaderUserName, "Nadia")
		w := serve(engine, req)

		assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "req-1", requestID)
		assert.Equal(t, "u-9", userID)
		assert.Equal(t, "reception-2", station)
		assert.Equal(t, "Nadia", userName)
	})

	t.Run("generates id and falls back to user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(HeaderUserID, "u-3")
		w := serve(engine, req)

		assert.Len(t, w.Header().Get(HeaderRequestID), 32)
		assert.Equal(t, "u-3", userName)
	})

	t.Run("oversized header is truncated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(HeaderRequestID, strings.Repeat("a", 500))
		serve(engine, req)
		assert.Len(t, requestID, MaxHeaderValueLength)
	})
}

func TestSecure(t *testing.T) {
	engine := gin.New()
	engine.Use(Secure())
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestBodyLimit(t *testing.T) {
	engine := gin.New()
	engine.Use(BodyLimit(16))
	engine.POST("/x", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleBindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("small body passes", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":1}`)))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared length too large", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_REQUEST_TOO_LARGE")
	})

	t.Run("streamed body too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`))
		req.ContentLength = -1
		w := serve(engine, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
