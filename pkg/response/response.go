package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Category codes returned in Body.Code so callers can tell client mistakes,
// domain conflicts, missing entities, and internal failures apart without
// parsing error text.
const (
	CodeBadRequest         = "bad_request"
	CodeEmptyPayload       = "empty_payload"
	CodeUnauthorized       = "unauthorized"
	CodeInvalidCredentials = "invalid_credentials"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeInternal           = "internal_error"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Code: CodeBadRequest, Error: err})
}

// EmptyPayload sends 400 for a missing request body.
func EmptyPayload(c *gin.Context) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Code: CodeEmptyPayload, Error: "empty payload"})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Code: CodeUnauthorized, Error: err})
}

// InvalidCredentials sends 401 with the enumeration-safe credentials code.
func InvalidCredentials(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Code: CodeInvalidCredentials, Error: err})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, err string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Code: CodeForbidden, Error: err})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Code: CodeNotFound, Error: err})
}

// Conflict sends 409.
func Conflict(c *gin.Context, err string) {
	c.JSON(http.StatusConflict, Body{Success: false, Code: CodeConflict, Error: err})
}

// Internal sends 500. The message is a fixed category string; internal error
// detail stays in the server logs.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Code: CodeInternal, Error: err})
}
