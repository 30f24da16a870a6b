package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookingsite/internal/pkg/apperror"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes the envelope for err. Errors that are not *apperror.Error
// are attached to the gin context so the request logger records them, and the
// client only sees a generic internal error. For 4xx errors the full wrapped
// text is returned, so "%w: detail" wrapping reaches the client.
func FromError(c *gin.Context, err error) {
	appErr := apperror.As(err)
	if appErr == apperror.ErrInternal {
		_ = c.Error(err)
	}
	message := appErr.Message
	if appErr.Status < http.StatusInternalServerError {
		message = err.Error()
	}
	Error(c, appErr.Status, appErr.Code, message)
}
