package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/pkg/logger"
)

// sentinel errors that map to a fixed status; checked in order
var sentinelStatus = []struct {
	err    error
	status int
	code   string
}{
	{domainerrors.ErrInsufficientFunds, http.StatusBadRequest, domainerrors.CodeInsufficientBalance},
	{domainerrors.ErrUserNotFound, http.StatusNotFound, domainerrors.CodeNotFound},
	{domainerrors.ErrNotFound, http.StatusNotFound, domainerrors.CodeNotFound},
	{domainerrors.ErrRevenueAlreadyRecorded, http.StatusConflict, domainerrors.CodeConflict},
	{domainerrors.ErrAlreadyExists, http.StatusConflict, domainerrors.CodeConflict},
	{domainerrors.ErrInvalidTransition, http.StatusConflict, domainerrors.CodeConflict},
	{domainerrors.ErrInvalidAmount, http.StatusBadRequest, domainerrors.CodeInvalidInput},
	{domainerrors.ErrInvalidInput, http.StatusBadRequest, domainerrors.CodeInvalidInput},
	{domainerrors.ErrBadRequest, http.StatusBadRequest, domainerrors.CodeBadRequest},
	{domainerrors.ErrInvalidSignature, http.StatusUnauthorized, domainerrors.CodeUnauthorized},
	{domainerrors.ErrUnauthorized, http.StatusUnauthorized, domainerrors.CodeUnauthorized},
	{domainerrors.ErrForbidden, http.StatusForbidden, domainerrors.CodeForbidden},
}

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// AsAppError converts any error into the AppError sent to clients
func AsAppError(err error) *domainerrors.AppError {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return domainerrors.NewAppError(s.status, s.code, err.Error(), err)
		}
	}
	return domainerrors.InternalError(err)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := AsAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   appErr.Message, // Backward compatibility
	})
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
