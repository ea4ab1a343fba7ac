package fee

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	gocache "github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository is where orders are read from and written back to.
type OrderRepository interface {
	Get(ctx context.Context, id int64) (*Order, error)
	Save(ctx context.Context, order *Order) error
}

// MemoryOrders keeps orders in process memory. Entries never expire, an order
// is only gone when it is deleted.
type MemoryOrders struct {
	items *gocache.Cache
}

func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{items: gocache.New(gocache.NoExpiration, 0)}
}

func orderKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Get returns a copy of the stored order, callers mutate it freely and Save it.
func (m *MemoryOrders) Get(_ context.Context, id int64) (*Order, error) {
	value, found := m.items.Get(orderKey(id))
	if !found {
		return nil, ErrOrderNotFound
	}
	return value.(*Order).clone(), nil
}

func (m *MemoryOrders) Save(_ context.Context, order *Order) error {
	if order == nil || order.ID <= 0 {
		return errors.New("order must have a positive id")
	}
	m.items.Set(orderKey(order.ID), order.clone(), gocache.NoExpiration)
	return nil
}

func (m *MemoryOrders) Delete(_ context.Context, id int64) {
	m.items.Delete(orderKey(id))
}

func (m *MemoryOrders) Count() int {
	return m.items.ItemCount()
}

// LoadOrders reads a YAML list of orders, computes their totals and saves them.
// Orders without a tax_rate key are taxed at defaultTaxRate, an explicit 0 is kept.
func LoadOrders(ctx context.Context, repo OrderRepository, data []byte, defaultTaxRate float64) (int, error) {
	var orders []*Order
	if err := yaml.Unmarshal(data, &orders); err != nil {
		return 0, fmt.Errorf("failed to parse orders: %w", err)
	}

	var rates []struct {
		TaxRate *float64 `yaml:"tax_rate"`
	}
	if err := yaml.Unmarshal(data, &rates); err != nil {
		return 0, fmt.Errorf("failed to parse orders: %w", err)
	}

	for i, order := range orders {
		if i < len(rates) && rates[i].TaxRate == nil {
			order.TaxRate = defaultTaxRate
		}
		order.CalculateTotals()
		if err := repo.Save(ctx, order); err != nil {
			return 0, fmt.Errorf("failed to save order %d: %w", order.ID, err)
		}
	}
	return len(orders), nil
}
