// Package handler holds the gin handlers of the lab API.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"github.com/labcore/backend/internal/interfaces/http/dto"
	"github.com/labcore/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides response helpers shared by all handlers
type BaseHandler struct {
	logger *zap.Logger
}

func newBaseHandler(log *zap.Logger) BaseHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return BaseHandler{logger: log}
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// HandleError maps err onto the error envelope. Integrity and internal
// failures are logged at Error, refusals at Debug.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status := dto.GetHTTPStatus(err)
	info := dto.ErrorInfoFrom(err)
	c.Set(middleware.ErrorCodeKey, info.Code)

	log := logger.WithLogger(c.Request.Context(), h.logger)
	switch shared.CategoryOf(err) {
	case shared.CategoryIntegrity, shared.CategoryInternal:
		log.Error("request failed",
			zap.String("route", c.FullPath()),
			zap.String("code", info.Code),
			zap.Error(err),
		)
	default:
		log.Debug("request refused", zap.String("code", info.Code), zap.Error(err))
	}

	c.JSON(status, dto.NewErrorResponseFromInfo(info, middleware.GetRequestID(c)))
}

// BindJSON binds and validates the body, writing the 400 itself on failure
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleBindError(c, err)
		return false
	}
	return true
}

// ParseUUIDParam reads a path parameter as a uuid, writing the 400 itself on failure
func (h *BaseHandler) ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.Set(middleware.ErrorCodeKey, dto.ErrCodeBadRequest)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseFromInfo(&dto.ErrorInfo{
			Code:     dto.ErrCodeBadRequest,
			Message:  "Invalid " + name + ": must be a UUID",
			Category: string(shared.CategoryInput),
		}, middleware.GetRequestID(c)))
		return uuid.Nil, false
	}
	return id, true
}

// performer picks the explicit body value, else the caller identity headers
func performer(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return middleware.GetUserName(c)
}
