// Package fee adds and removes the percentage credit card fee on orders and carts.
package fee

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/grzegorzmaniak/posfee/helpers"
	"go.uber.org/zap"
)

const (
	DefaultPercentage = 3

	// NameMarker identifies a credit card fee line, whatever percentage it was
	// added with.
	NameMarker = "Credit Card Fee"

	CartTaxClass = "standard"
)

var ErrInvalidAmount = errors.New("invalid fee amount")

type Manager struct {
	Percentage int
	Orders     OrderRepository
}

func NewManager(orders OrderRepository, percentage int) *Manager {
	return &Manager{
		Percentage: helpers.Default(percentage, DefaultPercentage),
		Orders:     orders,
	}
}

// FeeName is the display name of the fee line, e.g. "Credit Card Fee (3%)".
func (m *Manager) FeeName() string {
	return fmt.Sprintf("%s (%d%%)", NameMarker, m.Percentage)
}

// Amount is the fee owed on subtotal, rounded to cents.
func (m *Manager) Amount(subtotal float64) float64 {
	return roundCents(m.rawAmount(subtotal))
}

// rawAmount is the unrounded fee. The positive check runs on it, so a sub-cent
// fee is still added and only rounds when stored.
func (m *Manager) rawAmount(subtotal float64) float64 {
	return subtotal * float64(m.Percentage) / 100
}

func (m *Manager) HasFee(order *Order) bool {
	return order != nil && order.hasFee(NameMarker)
}

// Order loads an order, ErrOrderNotFound if there is none with this id.
func (m *Manager) Order(ctx context.Context, id int64) (*Order, error) {
	if id <= 0 {
		return nil, ErrOrderNotFound
	}
	return m.Orders.Get(ctx, id)
}

// AddToOrder replaces any credit card fee on the order with a fresh one computed
// from the current subtotal. A non positive amount leaves the order untouched.
func (m *Manager) AddToOrder(ctx context.Context, id int64) (*Order, error) {
	order, err := m.Order(ctx, id)
	if err != nil {
		return nil, err
	}

	raw := m.rawAmount(order.Subtotal())
	if raw <= 0 {
		return nil, ErrInvalidAmount
	}
	amount := roundCents(raw)

	order.removeFees(NameMarker)
	order.Fees = append(order.Fees, FeeLine{
		ID:        uuid.NewString(),
		Name:      m.FeeName(),
		Amount:    amount,
		Total:     amount,
		TaxClass:  "",
		TaxStatus: TaxStatusTaxable,
	})
	order.CalculateTotals()

	if err := m.Orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order %d: %w", id, err)
	}

	zap.L().Debug("Credit card fee added", zap.Int64("order", id), zap.Float64("amount", amount))
	return order, nil
}

// RemoveFromOrder drops every credit card fee from the order. The order is only
// recalculated and saved when a fee was actually removed.
func (m *Manager) RemoveFromOrder(ctx context.Context, id int64) (bool, error) {
	order, err := m.Order(ctx, id)
	if err != nil {
		return false, err
	}

	if !order.removeFees(NameMarker) {
		return false, nil
	}

	order.CalculateTotals()
	if err := m.Orders.Save(ctx, order); err != nil {
		return false, fmt.Errorf("failed to save order %d: %w", id, err)
	}

	zap.L().Debug("Credit card fee removed", zap.Int64("order", id))
	return true, nil
}

// ApplyToCart adds the fee to a cart being calculated when enabled. Unlike
// AddToOrder a zero amount is skipped without error.
func (m *Manager) ApplyToCart(cart *Cart, enabled bool) bool {
	if cart == nil || !enabled {
		return false
	}

	raw := m.rawAmount(cart.Subtotal)
	if raw <= 0 {
		return false
	}

	cart.AddFee(m.FeeName(), raw, true, CartTaxClass)
	return true
}
