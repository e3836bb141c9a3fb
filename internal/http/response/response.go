package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCodeKey holds the error code of the response on the gin context.
const ErrorCodeKey = "response.error_code"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondMessage writes {"error":{"message","code"}} and records code for the request log.
func RespondMessage(c *gin.Context, status int, code, msg string) {
	if code != "" {
		c.Set(ErrorCodeKey, code)
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
