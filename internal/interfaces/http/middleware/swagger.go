package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/labcore/backend/internal/interfaces/http/dto"
)

// SwaggerConfig controls access to the API documentation
type SwaggerConfig struct {
	Enabled bool
	// AllowedIPs are single addresses or CIDR ranges; empty allows every caller
	AllowedIPs []string
}

// SwaggerProtection guards the documentation routes. Disabled docs answer
// 404 as if the route did not exist; callers outside AllowedIPs get 403.
// Unparseable entries are skipped.
func SwaggerProtection(cfg SwaggerConfig) gin.HandlerFunc {
	var nets []*net.IPNet
	for _, entry := range cfg.AllowedIPs {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			if strings.Contains(entry, ":") {
				entry += "/128"
			} else {
				entry += "/32"
			}
		}
		if _, network, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, network)
		}
	}
	restricted := len(cfg.AllowedIPs) > 0

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound, "Route not found"))
			return
		}
		if restricted && !ipAllowed(net.ParseIP(c.ClientIP()), nets) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Access to API documentation is restricted"))
			return
		}
		c.Next()
	}
}

func ipAllowed(ip net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
