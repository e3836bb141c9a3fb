package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/recipebook-backend/internal/domain/aggregates"
)

const msgServerError = "サーバーエラーが発生しました"

// StatusFor maps an aggregate error code to its HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeUnauthenticated:
		return http.StatusUnauthorized
	case domainagg.CodeForbidden:
		return http.StatusForbidden
	case domainagg.CodeConflict, domainagg.CodeInvariantViolation:
		return http.StatusConflict
	case domainagg.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondAggregateError writes the caller-facing message of err. Errors
// without an aggregate code never leak their text; the full error is
// attached to the gin context so the request log still has it.
func RespondAggregateError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	code := domainagg.CodeOf(err)
	msg := domainagg.MessageOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	if code == domainagg.CodeInternal || msg == "" {
		msg = msgServerError
	}
	RespondMessage(c, StatusFor(code), string(code), msg)
}
