package core

import (
	"github.com/gin-gonic/gin"
	"github.com/grzegorzmaniak/posfee/errors"
	"github.com/grzegorzmaniak/posfee/token"
	"github.com/grzegorzmaniak/posfee/validation"
)

// Route wraps a handler into a gin.HandlerFunc, for routes mounted by hand.
func Route[InputType any, OutputType any, BaseRoute any](
	baseRoute BaseRoute,
	apiConfig *APIConfiguration,
	authenticator *token.Authenticator,
	validationEngine *validation.Engine,
	handlerFunc func(input *InputType, data *Handler[BaseRoute]) (*OutputType, *errors.AppError),
) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ExecuteRoute(ctx, baseRoute, apiConfig, authenticator, validationEngine, handlerFunc)
	}
}

func GET[InputType any, OutputType any, BaseRoute any](
	router gin.IRoutes,
	path string,
	baseRoute BaseRoute,
	apiConfig *APIConfiguration,
	authenticator *token.Authenticator,
	validationEngine *validation.Engine,
	handlerFunc func(input *InputType, data *Handler[BaseRoute]) (*OutputType, *errors.AppError),
) {
	router.GET(path, Route(baseRoute, apiConfig, authenticator, validationEngine, handlerFunc))
}

func POST[InputType any, OutputType any, BaseRoute any](
	router gin.IRoutes,
	path string,
	baseRoute BaseRoute,
	apiConfig *APIConfiguration,
	authenticator *token.Authenticator,
	validationEngine *validation.Engine,
	handlerFunc func(input *InputType, data *Handler[BaseRoute]) (*OutputType, *errors.AppError),
) {
	router.POST(path, Route(baseRoute, apiConfig, authenticator, validationEngine, handlerFunc))
}
