package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "ledger/internal/errors"
	"ledger/internal/logger"
)

// ErrorHandler renders the last error attached to the gin context as
// {"error":{"code","message"}}. Bind errors become INVALID_INPUT, AppErrors
// keep their code, and anything else is logged and reported as INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()

		var appErr *apperrors.AppError
		switch {
		case errors.As(last.Err, &appErr):
		case last.IsType(gin.ErrorTypeBind):
			appErr = apperrors.WithMessage(apperrors.ErrInvalidInput, last.Err.Error())
		default:
			appErr = apperrors.Wrap(apperrors.ErrInternalServer, last.Err)
		}

		if appErr.StatusCode >= 500 {
			internal := ""
			if appErr.Internal != nil {
				internal = appErr.Internal.Error()
			}
			logger.Named("http").Errorw("request failed",
				"code", appErr.Code,
				"internal", internal,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
		}

		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}
