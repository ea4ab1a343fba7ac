package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grzegorzmaniak/posfee/errors"
	"github.com/grzegorzmaniak/posfee/helpers"
	"github.com/grzegorzmaniak/posfee/metrics"
	"github.com/grzegorzmaniak/posfee/session"
	"github.com/grzegorzmaniak/posfee/token"
	"github.com/grzegorzmaniak/posfee/validation"
	"go.uber.org/zap"
)

// _establishSessionContext returns the session loaded by the session middleware.
// A nil session is fine unless the route requires one.
func _establishSessionContext(
	ctx *gin.Context,
	apiConfig *APIConfiguration,
) (*session.Session, *errors.AppError) {
	s := session.FromContext(ctx)
	if s == nil && apiConfig.SessionRequired {
		zap.L().Debug("Session required but none is available", zap.String("path", ctx.FullPath()))
		return nil, errors.NewUnauthorized("", nil)
	}
	return s, nil
}

// verifyToken checks the security token carried by the input against the
// session. Missing and rejected tokens are told apart for the client.
func verifyToken(
	input interface{},
	store token.SessionStore,
	authenticator *token.Authenticator,
) *errors.AppError {
	carrier, ok := input.(TokenCarrier)
	if !ok || authenticator == nil {
		zap.L().Error("Token required but the route cannot carry or verify one", zap.Bool("carrier", ok))
		return errors.NewInternalServerError("", nil)
	}

	presented, present := carrier.SecurityToken()
	if !present {
		metrics.RecordToken(metrics.ResultMissing)
		return errors.NewBadRequest(MessageTokenMissing, nil)
	}

	if !authenticator.Verify(store, presented) {
		metrics.RecordToken(metrics.ResultRejected)
		zap.L().Debug("Security token rejected", zap.Bool("has_session", store != nil))
		return errors.NewForbidden(MessageTokenInvalid, nil)
	}

	metrics.RecordToken(metrics.ResultAccepted)
	return nil
}

// prepareHandlerData binds the input, checks the token when required and only
// then validates the rest, so a bad token is reported before anything else.
func prepareHandlerData[InputType any](
	ctx *gin.Context,
	apiConfig *APIConfiguration,
	store token.SessionStore,
	authenticator *token.Authenticator,
	engine *validation.Engine,
) (*InputType, *errors.AppError) {
	input, bindErr := validation.BindInput[InputType](ctx)
	if bindErr != nil {
		zap.L().Debug("Error binding input data", zap.Error(bindErr))
		return nil, bindErr
	}

	if apiConfig.RequireToken {
		bindPostedToken(ctx, input)
		if tokenErr := verifyToken(input, store, authenticator); tokenErr != nil {
			return nil, tokenErr
		}
	}

	if engine == nil {
		engine = validation.NewEngine(nil)
	}
	if err := engine.Struct(*input); err != nil {
		zap.L().Debug("Error validating input data", zap.Error(err))
		return nil, errors.NewValidationFailed("Input validation failed", err)
	}

	return input, nil
}

// processAndSendHandlerOutput validates the handler's output and sends the response.
// Returns an AppError if output processing fails.
func processAndSendHandlerOutput[OutputType any](
	ctx *gin.Context,
	output *OutputType,
	apiConfig *APIConfiguration,
	engine *validation.Engine,
) *errors.AppError {

	// - Processing stops here, handler is responsible for response
	if apiConfig.ManualResponse {
		return nil
	}

	responseHeaders, responseBody, outputValErr := validation.OutputData(engine, output)
	if outputValErr != nil {
		zap.L().Debug("Error validating output data", zap.Error(outputValErr), zap.Any("raw_output_from_handler", output))
		return outputValErr
	}

	helpers.SuccessResponse(ctx, http.StatusOK, responseBody, responseHeaders)
	return nil
}

// ExecuteRoute runs a request through session lookup, input binding, token
// verification, validation, the handler and the response.
func ExecuteRoute[InputType any, OutputType any, BaseRoute any](
	ctx *gin.Context,
	baseRoute BaseRoute,
	apiConfig *APIConfiguration,
	authenticator *token.Authenticator,
	engine *validation.Engine,
	handlerFunc func(input *InputType, data *Handler[BaseRoute]) (*OutputType, *errors.AppError),
) {
	if apiConfig == nil {
		apiConfig = &APIConfiguration{}
	}

	// - Stage 1: Session
	s, appErr := _establishSessionContext(ctx, apiConfig)
	if appErr != nil {
		helpers.ErrorResponse(ctx, appErr)
		return
	}

	// - Stage 2: Input and security token
	input, appErr := prepareHandlerData[InputType](ctx, apiConfig, sessionStore(s), authenticator, engine)
	if appErr != nil {
		helpers.ErrorResponse(ctx, appErr)
		return
	}

	// - Stage 3: Call the specific business logic handler
	output, handlerAppErr := handlerFunc(input, &Handler[BaseRoute]{
		BaseRoute:     baseRoute,
		Context:       ctx,
		Session:       s,
		HasSession:    s != nil,
		Authenticator: authenticator,
	})

	if handlerAppErr != nil {
		zap.L().Debug("Error returned from route handler", zap.Error(handlerAppErr))
		helpers.ErrorResponse(ctx, handlerAppErr)
		return
	}

	// - Stage 4: Process Handler Output and Send Response
	if appErr = processAndSendHandlerOutput[OutputType](ctx, output, apiConfig, engine); appErr != nil {
		helpers.ErrorResponse(ctx, appErr)
	}
}
