package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/evreg/registration-service/internal/entity"
)

// SuccessResponse is the envelope for successful responses.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the envelope for failed responses.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorBody   `json:"error"`
	Data    interface{} `json:"data"`
}

type ErrorBody struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Responder writes enveloped responses and maps domain errors to HTTP
// statuses. Outside development mode unknown errors are sanitized to a
// generic message.
type Responder struct {
	Development bool
}

func NewResponder(development bool) *Responder {
	return &Responder{Development: development}
}

func (r *Responder) OK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data, Message: message})
}

func (r *Responder) Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: data, Message: message})
}

func (r *Responder) BadRequest(c *gin.Context, message string) {
	r.writeError(c, http.StatusBadRequest, ErrorBody{Message: message, Code: string(entity.CodeBadRequest)})
}

func (r *Responder) Error(c *gin.Context, err error) {
	if domainErr, ok := entity.AsDomainError(err); ok {
		r.writeError(c, statusForCode(domainErr.Code), ErrorBody{
			Message: domainErr.Message,
			Code:    string(domainErr.Code),
			Details: domainErr.Details,
		})
		return
	}

	logrus.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Errorf("Unhandled error: %v", err)

	message := "internal server error"
	if r.Development {
		message = err.Error()
	}
	r.writeError(c, http.StatusInternalServerError, ErrorBody{
		Message: message,
		Code:    string(entity.CodeInternal),
	})
}

func (r *Responder) writeError(c *gin.Context, status int, body ErrorBody) {
	c.JSON(status, ErrorResponse{Success: false, Error: body, Data: nil})
}

func statusForCode(code entity.ErrorCode) int {
	switch code {
	case entity.CodeBadRequest:
		return http.StatusBadRequest
	case entity.CodeValidation:
		return http.StatusUnprocessableEntity
	case entity.CodeNotFound:
		return http.StatusNotFound
	case entity.CodeConflict:
		return http.StatusConflict
	case entity.CodeUnauthorized:
		return http.StatusUnauthorized
	case entity.CodeForbidden:
		return http.StatusForbidden
	case entity.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
