package helpers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grzegorzmaniak/posfee/errors"
	"go.uber.org/zap"
)

// ErrorResponse sends the JSON error envelope to the client and aborts the chain.
func ErrorResponse(ctx *gin.Context, appErr *errors.AppError) {
	production := gin.Mode() == gin.ReleaseMode

	// - Should not happen.
	if appErr == nil {
		zap.L().Warn("ErrorResponse called with nil error")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"data":    gin.H{"message": "An unexpected error occurred."},
		})
		return
	}

	logFields := []zap.Field{
		zap.Int("statusCode", appErr.Code),
		zap.String("clientMessage", appErr.Message),
		zap.String("path", ctx.FullPath()),
	}

	if appErr.Err != nil {
		logFields = append(logFields, zap.Error(appErr.Err))
	}

	if appErr.Details != nil {
		detailBytes, _ := json.Marshal(appErr.Details)
		logFields = append(logFields, zap.String("details", string(detailBytes)))
	}

	zap.L().Debug("Application error occurred", logFields...)

	ctx.AbortWithStatusJSON(appErr.Code, appErr.ToJSONResponse(production))
}

// SuccessResponse sends {"success": true, "data": data}. A nil data sends 204.
func SuccessResponse(ctx *gin.Context, status int, data interface{}, headers map[string]string) {
	for key, value := range headers {
		ctx.Header(key, value)
	}

	if data == nil || status == http.StatusNoContent {
		ctx.Status(http.StatusNoContent)
		ctx.Writer.WriteHeaderNow()
		return
	}

	ctx.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
