package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grzegorzmaniak/posfee/errors"
	"github.com/grzegorzmaniak/posfee/helpers"
	"go.uber.org/zap"
)

// RequestLogger logs every request through the global zap logger.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path

		ctx.Next()

		fields := []zap.Field{
			zap.String("method", ctx.Request.Method),
			zap.String("path", path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", ctx.ClientIP()),
		}
		if len(ctx.Errors) > 0 {
			fields = append(fields, zap.String("errors", ctx.Errors.String()))
		}

		switch status := ctx.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			zap.L().Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			zap.L().Debug("Request rejected", fields...)
		default:
			zap.L().Debug("Request served", fields...)
		}
	}
}

// Recovery turns a panic into a 500 envelope instead of a dropped connection.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(ctx *gin.Context, recovered any) {
		zap.L().Error("Recovered from panic", zap.Any("panic", recovered), zap.String("path", ctx.Request.URL.Path), zap.Stack("stack"))
		helpers.ErrorResponse(ctx, errors.NewInternalServerError("", nil))
	})
}
