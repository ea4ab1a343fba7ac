package validation

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/grzegorzmaniak/posfee/errors"
)

// BindInput binds headers, query parameters and, for requests that carry one, the
// body (form or JSON, by Content-Type) into a new T.
func BindInput[T any](ctx *gin.Context) (*T, *errors.AppError) {
	var input T

	// - Bind Headers (Universal between all requests)
	if err := ctx.ShouldBindHeader(&input); err != nil {
		return nil, errors.NewValidationFailed("Failed to bind headers", err)
	}

	// - Bind Query Parameters (Universal between all requests)
	if err := ctx.ShouldBindQuery(&input); err != nil {
		return nil, errors.NewValidationFailed("Failed to bind query parameters", err)
	}

	if ctx.Request.Method == http.MethodGet || ctx.Request.Method == http.MethodDelete {
		return &input, nil
	}

	if ctx.Request.ContentLength == 0 && ctx.GetHeader("Content-Type") == "" {
		return &input, nil
	}

	// - Body, AJAX posts are urlencoded but JSON is accepted as well
	if ctx.ContentType() == binding.MIMEJSON {
		if err := ctx.ShouldBindJSON(&input); err != nil && (err != io.EOF || ctx.Request.ContentLength > 0) {
			return nil, errors.NewValidationFailed("Failed to bind JSON body", err)
		}
		return &input, nil
	}

	if err := ctx.ShouldBindWith(&input, binding.Form); err != nil {
		return nil, errors.NewValidationFailed("Failed to bind form body", err)
	}

	return &input, nil
}

// InputData binds and validates the input data from the request context.
func InputData[T any](ctx *gin.Context, engine *Engine) (*T, *errors.AppError) {
	if engine == nil {
		engine = NewEngine(nil)
	}

	input, err := BindInput[T](ctx)
	if err != nil {
		return nil, err
	}

	if err := engine.Struct(*input); err != nil {
		return nil, errors.NewValidationFailed("Input validation failed", err)
	}

	return input, nil
}
