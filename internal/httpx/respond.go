package httpx

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// devMode controls whether error responses carry a stack trace.
// Set once at startup, before the server accepts traffic.
var devMode bool

// SetDevMode enables stack traces on error payloads outside production.
func SetDevMode(enabled bool) {
	devMode = enabled
}

// OK writes the standard success envelope.
func OK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Created writes a 201 success envelope with a message and the new record.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Fail writes an error in the standard envelope. Unknown error types are
// mapped to 500 without leaking their text.
func Fail(c *gin.Context, err error) {
	apiErr, ok := err.(*Error)
	if !ok {
		log.Printf("unhandled error: %v", err)
		apiErr = Internal("Server error")
	}

	body := gin.H{
		"success": false,
		"message": apiErr.Message,
	}
	if len(apiErr.Fields) > 0 {
		body["errors"] = apiErr.Fields
	}
	if devMode {
		body["stack"] = string(debug.Stack())
	}

	c.AbortWithStatusJSON(apiErr.Status, body)
}
