package util

import (
	"errors"
	"net/http"
	"strings"

	"learnhub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

func Paginated(c *gin.Context, data interface{}, page, limit int, total int64) {
	pages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Success: false,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// RespondError maps a taxonomy error to its status code. Anything outside the
// taxonomy is logged and answered with a generic 500.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		BadRequest(c, errorMessage(err))
	case errors.Is(err, ErrUnauthenticated):
		Unauthorized(c)
	case errors.Is(err, ErrForbidden):
		Error(c, http.StatusForbidden, errorMessage(err))
	case errors.Is(err, ErrNotFound):
		Error(c, http.StatusNotFound, errorMessage(err))
	case errors.Is(err, ErrConflict):
		Conflict(c, errorMessage(err))
	default:
		LogInternalError(c, err)
	}
}

// errorMessage strips the trailing sentinel suffix so clients see
// "email already registered" instead of "email already registered: conflict".
func errorMessage(err error) string {
	msg := err.Error()
	for _, s := range []error{ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrConflict} {
		msg = strings.TrimSuffix(msg, ": "+s.Error())
	}
	return msg
}
