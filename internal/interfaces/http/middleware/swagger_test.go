package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerEngine(cfg SwaggerConfig) *gin.Engine {
	engine := gin.New()
	engine.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return engine
}

func docsRequest(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestSwaggerProtection(t *testing.T) {
	t.Run("disabled answers not found", func(t *testing.T) {
		w := serve(swaggerEngine(SwaggerConfig{}), docsRequest("127.0.0.1:5000"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_ROUTE_NOT_FOUND")
	})

	t.Run("enabled without restriction", func(t *testing.T) {
		w := serve(swaggerEngine(SwaggerConfig{Enabled: true}), docsRequest("203.0.113.9:5000"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "docs", w.Body.String())
	})

	cfg := SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1", "10.20.0.0/16", "not-an-ip"}}
	tests := []struct {
		name   string
		remote string
		want   int
	}{
		{"listed address", "127.0.0.1:5000", http.StatusOK},
		{"inside range", "10.20.3.4:5000", http.StatusOK},
		{"outside range", "10.21.0.1:5000", http.StatusForbidden},
		{"ipv6 not listed", "[::1]:5000", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(swaggerEngine(cfg), docsRequest(tt.remote))
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
			}
		})
	}

	t.Run("ipv6 entry", func(t *testing.T) {
		w := serve(swaggerEngine(SwaggerConfig{Enabled: true, AllowedIPs: []string{"::1"}}), docsRequest("[::1]:5000"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
