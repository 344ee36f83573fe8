package response

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/moodnotes/core/internal/pkg/apperr"
)

// OK sends a 200 response. Arrays/slices are wrapped in {data: [...]}.
func OK(c *gin.Context, data interface{}) {
	if data != nil {
		v := reflect.ValueOf(data)
		if v.Kind() == reflect.Slice {
			c.JSON(http.StatusOK, gin.H{"data": data})
			return
		}
	}
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	abort(c, http.StatusUnauthorized, "authentication required")
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, message)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	abort(c, http.StatusNotFound, "not found")
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	abort(c, http.StatusNotFound, message)
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	abort(c, http.StatusMethodNotAllowed, "method not allowed")
}

// UnprocessableEntity sends a 422 error response.
func UnprocessableEntity(c *gin.Context, message string) {
	abort(c, http.StatusUnprocessableEntity, message)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	abort(c, http.StatusConflict, message)
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context, message string) {
	c.Header("Retry-After", "60")
	abort(c, http.StatusTooManyRequests, message)
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, err error) {
	abort(c, http.StatusInternalServerError, err.Error())
}

// Error maps a module error onto its HTTP status by error kind. The
// message sent to the caller is the kind's own text, so wrapped causes
// never leak.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrAuthRequired):
		Unauthorized(c)
	case errors.Is(err, apperr.ErrInvalidCredentials):
		abort(c, http.StatusUnauthorized, apperr.ErrInvalidCredentials.Error())
	case errors.Is(err, apperr.ErrEmailInUse):
		Conflict(c, apperr.ErrEmailInUse.Error())
	case errors.Is(err, apperr.ErrEmailInvalid):
		UnprocessableEntity(c, apperr.ErrEmailInvalid.Error())
	case errors.Is(err, apperr.ErrRateLimited):
		TooManyRequests(c, apperr.ErrRateLimited.Error())
	case errors.Is(err, apperr.ErrInvalidMood):
		UnprocessableEntity(c, apperr.ErrInvalidMood.Error())
	case errors.Is(err, apperr.ErrInvalidDate):
		UnprocessableEntity(c, apperr.ErrInvalidDate.Error())
	case errors.Is(err, apperr.ErrNoNetwork), errors.Is(err, apperr.ErrTimeout),
		errors.Is(err, apperr.ErrUnreachable), errors.Is(err, apperr.ErrOffline):
		abort(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, apperr.ErrBackend):
		abort(c, http.StatusBadGateway, apperr.ErrBackend.Error())
	default:
		InternalError(c, err)
	}
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"ok": 0, "code": code, "message": message})
}
