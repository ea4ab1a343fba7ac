package routes

import (
	"bytes"
	stderrors "errors"
	"net/http"

	"github.com/grzegorzmaniak/posfee/core"
	"github.com/grzegorzmaniak/posfee/errors"
	"github.com/grzegorzmaniak/posfee/fee"
	"github.com/grzegorzmaniak/posfee/helpers"
	"github.com/grzegorzmaniak/posfee/render"
	"go.uber.org/zap"
)

const MessageInvalidOrderKey = "Sorry, this order is invalid and cannot be paid for."

// OrderPayConfig renders the page itself, the executor only runs the stages.
var OrderPayConfig = &core.APIConfiguration{ManualResponse: true}

type OrderPayInput struct {
	Key string `form:"key" header:"-"`
}

// OrderPayHandler renders the POS order-pay page. Before rendering it syncs the
// session flags with the order, so a fee added elsewhere shows as applied.
func OrderPayHandler(input *OrderPayInput, data *FeeContext) (*struct{}, *errors.AppError) {
	ctx := data.Context
	app := data.BaseRoute

	orderID := helpers.AbsInt(ctx.Param("id"))
	order, err := app.Fees.Order(ctx.Request.Context(), orderID)
	if err != nil {
		if stderrors.Is(err, fee.ErrOrderNotFound) {
			return nil, errors.NewNotFound(MessageOrderNotFound, err)
		}
		return nil, errors.NewInternalServerError("", err)
	}

	if order.Key != "" && input.Key != order.Key {
		return nil, errors.NewForbidden(MessageInvalidOrderKey, nil)
	}

	onPOSPage := render.IsPOSOrderPayPath(ctx.Request.URL.Path, app.PathPrefix)

	// - Flags are only raised here, removing them is left to the remove action
	if onPOSPage && app.Fees.HasFee(order) {
		setOrderFlags(data, orderID, true)
	}

	hasFee := data.Session != nil && data.Session.Bool(SessionFlagFee)

	var buf bytes.Buffer
	err = render.OrderPayPage(&buf, render.OrderPayData{
		Order:             order,
		Gateways:          app.Gateways,
		ConfiguredGateway: app.GatewayID,
		OnPOSPage:         onPOSPage,
		HasFee:            hasFee,
		Script: render.ScriptConfig{
			AjaxURL:       app.AjaxURL,
			SecurityToken: data.SecurityToken(),
			FeePercentage: app.Fees.Percentage,
		},
	})
	if err != nil {
		zap.L().Error("Failed to render the order-pay page", zap.Int64("order", orderID), zap.Error(err))
		return nil, errors.NewInternalServerError("", err)
	}

	ctx.Header("Cache-Control", "no-store")
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	return nil, nil
}
