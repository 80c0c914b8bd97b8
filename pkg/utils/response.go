package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Códigos de error devueltos en las respuestas.
const (
	CodeBadRequest       = "bad_request"
	CodeInvocationFailed = "invocation_failed"
)

// ErrorResponse es el cuerpo de error común de la API.
type ErrorResponse struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	InvocationID string `json:"invocation_id,omitempty"`
}

// SendSuccess envuelve el payload en {"data": ...}.
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"data": data,
	})
}

// SendError responde {"error": ErrorResponse}.
func SendError(c *gin.Context, statusCode int, resp ErrorResponse) {
	c.JSON(statusCode, gin.H{
		"error": resp,
	})
}

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, ErrorResponse{Code: CodeBadRequest, Message: message})
}

// SendInvocationFailed se usa cuando el lote se aceptó pero la invocación falló;
// el llamante puede reenviarlo con el mismo id.
func SendInvocationFailed(c *gin.Context, invocationID, message string) {
	SendError(c, http.StatusInternalServerError, ErrorResponse{
		Code:         CodeInvocationFailed,
		Message:      message,
		InvocationID: invocationID,
	})
}
