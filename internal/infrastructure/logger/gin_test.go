package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), "req-9"))
	}, AccessLog(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) {
		FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing?x=1", nil))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "inside handler", entries[0].Message)
	assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "/ok", entries[1].ContextMap()["route"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "x=1", entries[2].ContextMap()["query"])
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(Recover(zap.New(core)))
	r.GET("/boom", func(*gin.Context) { panic("kaput") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Panic recovered", logs.All()[0].Message)
}
