// Package middleware provides the HTTP middleware of the lab API.
package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labcore/backend/internal/infrastructure/logger"
)

// Request headers identifying the caller. Authentication is handled upstream;
// these only feed audit fields and logs.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderUserID    = "X-User-ID"
	HeaderUserName  = "X-User-Name"
	HeaderStation   = "X-Station"
)

// Gin context keys
const (
	RequestIDKey = "request_id"
	UserNameKey  = "user_name"
)

// MaxHeaderValueLength caps identity header values copied into logs and spans
const MaxHeaderValueLength = 128

// CORSConfig holds CORS middleware configuration
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig rejects every cross-origin request until origins are configured
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", HeaderRequestID, HeaderUserID, HeaderUserName, HeaderStation},
		ExposeHeaders:    []string{HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORSWithConfig returns a CORS middleware
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	allowWildcard := false
	allowed := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			allowWildcard = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowedOrigin := ""
		switch {
		case allowWildcard:
			allowedOrigin = "*"
		case origin != "" && allowed[origin]:
			allowedOrigin = origin
		}

		if allowedOrigin != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", allowedOrigin)
			if cfg.AllowCredentials && allowedOrigin != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
			h.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
			if len(cfg.ExposeHeaders) > 0 {
				h.Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
			}
			if cfg.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
			}
		}

		// preflight never reaches the router
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestID propagates or generates the request id and stores it on the
// gin context, the response header and the request context logger fields
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := truncate(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// Identity copies the caller identity headers into the request context
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if userID := truncate(c.GetHeader(HeaderUserID)); userID != "" {
			ctx = logger.WithUserID(ctx, userID)
		}
		if station := truncate(c.GetHeader(HeaderStation)); station != "" {
			ctx = logger.WithStation(ctx, station)
		}
		if name := truncate(c.GetHeader(HeaderUserName)); name != "" {
			c.Set(UserNameKey, name)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// GetUserName returns the performer name sent by the station, falling back to the user id
func GetUserName(c *gin.Context) string {
	if name := c.GetString(UserNameKey); name != "" {
		return name
	}
	return logger.GetUserID(c.Request.Context())
}

// Secure adds the standard hardening headers
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}

func truncate(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > MaxHeaderValueLength {
		return v[:MaxHeaderValueLength]
	}
	return v
}

func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b)
}
