package routes

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/grzegorzmaniak/posfee/core"
	"github.com/grzegorzmaniak/posfee/errors"
	"github.com/grzegorzmaniak/posfee/fee"
	"github.com/grzegorzmaniak/posfee/helpers"
	"github.com/grzegorzmaniak/posfee/metrics"
	"go.uber.org/zap"
)

const (
	MessageOrderIDNotFound = "Order ID not found."
	MessageOrderNotFound   = "Order not found."
	MessageInvalidAmount   = "Invalid fee amount."
	MessageFeeRemoved      = "Credit card fee removed"
)

var AddFeeConfig = &core.APIConfiguration{RequireToken: true}

var RemoveFeeConfig = &core.APIConfiguration{RequireToken: true}

var CalculateFeesConfig = &core.APIConfiguration{RequireToken: true}

// OrderRef is an order id as sent by the checkout script, a string or a number.
// It is coerced with helpers.AbsInt.
type OrderRef string

func (r *OrderRef) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*r = OrderRef(n.String())
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("order id must be a number or a string: %w", err)
	}
	*r = OrderRef(s)
	return nil
}

func (r OrderRef) ID() int64 {
	return helpers.AbsInt(string(r))
}

type FeeInput struct {
	core.TokenInput

	// OrderPay is the order-pay query var, it wins over the posted order_id.
	OrderPay OrderRef `form:"order-pay" header:"-" json:"-"`
	OrderID  OrderRef `form:"order_id" header:"-" json:"order_id"`
}

func (i *FeeInput) ResolveOrderID() int64 {
	if id := i.OrderPay.ID(); id != 0 {
		return id
	}
	return i.OrderID.ID()
}

type FeeOutput struct {
	Message string `json:"message" validate:"required"`
	Reload  bool   `json:"reload"`
}

func orderError(operation string, orderID int64, err error) *errors.AppError {
	switch {
	case stderrors.Is(err, fee.ErrOrderNotFound):
		metrics.RecordFee(operation, metrics.OutcomeNotFound)
		return errors.NewNotFound(MessageOrderNotFound, err)

	case stderrors.Is(err, fee.ErrInvalidAmount):
		metrics.RecordFee(operation, metrics.OutcomeInvalidAmount)
		return errors.NewUnprocessable(MessageInvalidAmount, err)

	default:
		metrics.RecordFee(operation, metrics.OutcomeFailed)
		zap.L().Error("Fee operation failed", zap.String("operation", operation), zap.Int64("order", orderID), zap.Error(err))
		return errors.NewInternalServerError("", err)
	}
}

func setOrderFlags(data *FeeContext, orderID int64, enabled bool) {
	if data.Session == nil {
		return
	}
	data.Session.SetBool(SessionFlagFee, enabled)
	data.Session.SetBool(orderSessionFlag(orderID), enabled)
}

func AddFeeHandler(input *FeeInput, data *FeeContext) (*FeeOutput, *errors.AppError) {
	orderID := input.ResolveOrderID()
	if orderID == 0 {
		metrics.RecordFee("add", metrics.OutcomeMissingID)
		return nil, errors.NewBadRequest(MessageOrderIDNotFound, nil)
	}

	fees := data.BaseRoute.Fees
	if _, err := fees.AddToOrder(data.Context.Request.Context(), orderID); err != nil {
		return nil, orderError("add", orderID, err)
	}

	setOrderFlags(data, orderID, true)
	metrics.RecordFee("add", metrics.OutcomeAdded)

	return &FeeOutput{
		Message: fmt.Sprintf("%d%% credit card fee added", fees.Percentage),
		Reload:  true,
	}, nil
}

// RemoveFeeHandler succeeds whether or not the order had a fee.
func RemoveFeeHandler(input *FeeInput, data *FeeContext) (*FeeOutput, *errors.AppError) {
	orderID := input.ResolveOrderID()
	if orderID == 0 {
		metrics.RecordFee("remove", metrics.OutcomeMissingID)
		return nil, errors.NewBadRequest(MessageOrderIDNotFound, nil)
	}

	removed, err := data.BaseRoute.Fees.RemoveFromOrder(data.Context.Request.Context(), orderID)
	if err != nil {
		return nil, orderError("remove", orderID, err)
	}

	setOrderFlags(data, orderID, false)
	if removed {
		metrics.RecordFee("remove", metrics.OutcomeRemoved)
	} else {
		metrics.RecordFee("remove", metrics.OutcomeNothingToDo)
	}

	return &FeeOutput{Message: MessageFeeRemoved, Reload: true}, nil
}

type CalculateFeesInput struct {
	core.TokenInput
	Subtotal float64 `form:"subtotal" header:"-" json:"subtotal" validate:"gte=0"`
}

type CartOutput struct {
	Subtotal float64       `json:"subtotal"`
	Fees     []fee.CartFee `json:"fees"`
	FeeTotal float64       `json:"fee_total"`
	Total    float64       `json:"total"`
	Applied  bool          `json:"applied"`
}

// CalculateFeesHandler runs the cart calculation: the fee is applied when the
// session asked for it, a zero amount is silently skipped.
func CalculateFeesHandler(input *CalculateFeesInput, data *FeeContext) (*CartOutput, *errors.AppError) {
	enabled := data.Session != nil && data.Session.Bool(SessionFlagFee)

	cart := fee.NewCart(input.Subtotal)
	applied := data.BaseRoute.Fees.ApplyToCart(cart, enabled)

	return &CartOutput{
		Subtotal: cart.Subtotal,
		Fees:     cart.Fees,
		FeeTotal: cart.FeeTotal(),
		Total:    cart.Total(),
		Applied:  applied,
	}, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
