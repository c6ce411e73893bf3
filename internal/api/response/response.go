// Package response defines the JSON envelope every endpoint replies
// with: {"statusCode": n, "message": "...", "data": ...}.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the wire shape of every API reply.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

// JSON writes an envelope with the given status, message and payload.
func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{StatusCode: status, Message: message, Data: data})
}

// OK writes a 200 envelope.
func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data)
}

// Created writes a 201 envelope.
func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data)
}

// Error writes an error envelope with no data payload and aborts the
// request so later middleware does not run.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{StatusCode: status, Message: message})
}

// BadRequest writes a 400 envelope.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 envelope.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden writes a 403 envelope.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound writes a 404 envelope.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict writes a 409 envelope.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// Internal writes a 500 envelope. Callers log the underlying error;
// the client only ever sees a generic message.
func Internal(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(c, http.StatusInternalServerError, message)
}
