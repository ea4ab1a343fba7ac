// Package routes mounts the credit card fee endpoints and the POS order-pay
// page on a gin engine.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grzegorzmaniak/posfee/core"
	"github.com/grzegorzmaniak/posfee/errors"
	"github.com/grzegorzmaniak/posfee/fee"
	"github.com/grzegorzmaniak/posfee/helpers"
	"github.com/grzegorzmaniak/posfee/metrics"
	"github.com/grzegorzmaniak/posfee/render"
	"github.com/grzegorzmaniak/posfee/session"
	"github.com/grzegorzmaniak/posfee/token"
	"github.com/grzegorzmaniak/posfee/validation"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	ActionAddFee       = "wcpos_add_credit_card_fee"
	ActionRemoveFee    = "wcpos_remove_credit_card_fee"
	ActionCalculateFee = "wcpos_calculate_fees"

	// SessionFlagFee marks the session as wanting the fee, it drives the
	// button state and the cart calculation.
	SessionFlagFee = "wcpos_add_credit_card_fee"
)

func orderSessionFlag(orderID int64) string {
	return "wcpos_fee_order_" + formatID(orderID)
}

// App is the base route of every handler.
type App struct {
	Fees *fee.Manager

	GatewayID  string
	PathPrefix string
	AjaxURL    string
	Gateways   []render.Gateway
}

type FeeContext = core.Handler[*App]

type Dependencies struct {
	App           *App
	Sessions      *session.Manager
	Authenticator *token.Authenticator
	Validation    *validation.Engine

	// Gatherer backs /metrics, the default registry when nil.
	Gatherer prometheus.Gatherer

	// Health reports whether the service can take requests.
	Health func() error
}

// DefaultGateways lists the configured card gateway and a cash gateway, the
// buttons are only ever added to the former.
func DefaultGateways(configured string) []render.Gateway {
	return []render.Gateway{
		{ID: configured, Title: "Card terminal", Description: "Pay with the card terminal."},
		{ID: "pos_cash", Title: "Cash", Description: "Pay with cash at the till."},
	}
}

// NewRouter builds the gin engine with logging, recovery, metrics and sessions.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(), Recovery(), metrics.Middleware())

	router.GET("/healthz", func(ctx *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health(); err != nil {
				helpers.ErrorResponse(ctx, errors.NewAppError(http.StatusServiceUnavailable, "Service unavailable.", err))
				return
			}
		}
		helpers.SuccessResponse(ctx, http.StatusOK, gin.H{"status": "ok"}, nil)
	})
	if deps.Gatherer == nil {
		if err := metrics.Register(nil); err != nil {
			zap.L().Warn("Failed to register metrics", zap.Error(err))
		}
	}
	router.GET("/metrics", gin.WrapH(metrics.Handler(deps.Gatherer)))

	app := deps.App
	if len(app.Gateways) == 0 {
		app.Gateways = DefaultGateways(app.GatewayID)
	}

	withSession := router.Group("", deps.Sessions.Middleware())

	actions := map[string]gin.HandlerFunc{
		ActionAddFee:       core.Route(app, AddFeeConfig, deps.Authenticator, deps.Validation, AddFeeHandler),
		ActionRemoveFee:    core.Route(app, RemoveFeeConfig, deps.Authenticator, deps.Validation, RemoveFeeHandler),
		ActionCalculateFee: core.Route(app, CalculateFeesConfig, deps.Authenticator, deps.Validation, CalculateFeesHandler),
	}

	ajax := withSession.Group(app.AjaxURL)
	for action, handler := range actions {
		ajax.POST("/"+action, handler)
	}

	// - admin-ajax style: a single URL, the action travels in the form
	withSession.POST(app.AjaxURL, func(ctx *gin.Context) {
		handler, ok := actions[ctx.PostForm("action")]
		if !ok {
			helpers.ErrorResponse(ctx, errors.NewBadRequest("Unknown action.", nil))
			return
		}
		handler(ctx)
	})

	core.GET(withSession, app.PathPrefix+render.OrderPayEndpoint+"/:id", app, OrderPayConfig, deps.Authenticator, deps.Validation, OrderPayHandler)

	return router
}
