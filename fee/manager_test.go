package fee

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededManager(t *testing.T, orders ...*Order) (*Manager, *MemoryOrders) {
	t.Helper()
	repo := NewMemoryOrders()
	for _, o := range orders {
		require.NoError(t, repo.Save(context.Background(), o))
	}
	return NewManager(repo, 0), repo
}

func TestManager_Defaults(t *testing.T) {
	m := NewManager(NewMemoryOrders(), 0)
	assert.Equal(t, DefaultPercentage, m.Percentage)
	assert.Equal(t, "Credit Card Fee (3%)", m.FeeName())
	assert.Equal(t, 3.0, m.Amount(100))
	assert.Equal(t, 0.6, m.Amount(19.99))

	assert.Equal(t, "Credit Card Fee (5%)", NewManager(nil, 5).FeeName())
}

func TestManager_AddToOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Adds a taxable fee", func(t *testing.T) {
		m, repo := seededManager(t, &Order{ID: 7, Items: []LineItem{{Name: "A", Quantity: 1, Price: 100}}})

		order, err := m.AddToOrder(ctx, 7)
		require.NoError(t, err)
		require.Len(t, order.Fees, 1)

		line := order.Fees[0]
		assert.Equal(t, "Credit Card Fee (3%)", line.Name)
		assert.Equal(t, 3.0, line.Amount)
		assert.Equal(t, 3.0, line.Total)
		assert.Equal(t, "", line.TaxClass)
		assert.Equal(t, TaxStatusTaxable, line.TaxStatus)
		assert.NotEmpty(t, line.ID)
		assert.Equal(t, 103.0, order.Total)

		stored, err := repo.Get(ctx, 7)
		require.NoError(t, err)
		assert.True(t, m.HasFee(stored))
	})

	t.Run("Replaces existing credit card fees", func(t *testing.T) {
		m, repo := seededManager(t, &Order{
			ID:    8,
			Items: []LineItem{{Name: "A", Quantity: 2, Price: 50}},
			Fees: []FeeLine{
				{Name: "Credit Card Fee (3%)", Amount: 1},
				{Name: "Credit Card Fee (3%)", Amount: 1},
				{Name: "Delivery", Amount: 5, TaxStatus: TaxStatusNone},
			},
		})

		_, err := m.AddToOrder(ctx, 8)
		require.NoError(t, err)
		_, err = m.AddToOrder(ctx, 8)
		require.NoError(t, err)

		stored, err := repo.Get(ctx, 8)
		require.NoError(t, err)
		require.Len(t, stored.Fees, 2)
		assert.Equal(t, "Delivery", stored.Fees[0].Name)
		assert.Equal(t, 3.0, stored.Fees[1].Amount)
		assert.Equal(t, 108.0, stored.Total)
	})

	t.Run("Zero amount is refused", func(t *testing.T) {
		m, repo := seededManager(t, &Order{ID: 9, Fees: []FeeLine{{Name: "Credit Card Fee (3%)", Amount: 1}}})

		_, err := m.AddToOrder(ctx, 9)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		stored, err := repo.Get(ctx, 9)
		require.NoError(t, err)
		assert.Len(t, stored.Fees, 1, "order is untouched")
	})

	t.Run("Sub-cent fee is still added", func(t *testing.T) {
		m, repo := seededManager(t, &Order{ID: 10, Items: []LineItem{{Name: "Mint", Quantity: 1, Price: 0.10}}})
		assert.Equal(t, 0.0, m.Amount(0.10))

		order, err := m.AddToOrder(ctx, 10)
		require.NoError(t, err)
		require.Len(t, order.Fees, 1)
		assert.Equal(t, 0.0, order.Fees[0].Amount)

		stored, err := repo.Get(ctx, 10)
		require.NoError(t, err)
		assert.True(t, m.HasFee(stored))
	})

	t.Run("Unknown order", func(t *testing.T) {
		m, _ := seededManager(t)
		_, err := m.AddToOrder(ctx, 404)
		assert.ErrorIs(t, err, ErrOrderNotFound)

		_, err = m.AddToOrder(ctx, 0)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

type countingRepo struct {
	*MemoryOrders
	saves   int
	saveErr error
}

func (c *countingRepo) Save(ctx context.Context, order *Order) error {
	c.saves++
	if c.saveErr != nil {
		return c.saveErr
	}
	return c.MemoryOrders.Save(ctx, order)
}

func TestManager_RemoveFromOrder(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{MemoryOrders: NewMemoryOrders()}
	require.NoError(t, repo.MemoryOrders.Save(ctx, &Order{
		ID:    3,
		Items: []LineItem{{Name: "A", Quantity: 1, Price: 100}},
		Fees:  []FeeLine{{Name: "Credit Card Fee (3%)", Amount: 3, TaxStatus: TaxStatusTaxable}},
		Total: 103,
	}))
	m := NewManager(repo, 3)

	removed, err := m.RemoveFromOrder(ctx, 3)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, repo.saves)

	stored, err := repo.Get(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, stored.Fees)
	assert.Equal(t, 100.0, stored.Total)

	t.Run("Nothing to remove does not save", func(t *testing.T) {
		removed, err := m.RemoveFromOrder(ctx, 3)
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, 1, repo.saves)
	})

	t.Run("Unknown order", func(t *testing.T) {
		_, err := m.RemoveFromOrder(ctx, 99)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestManager_SaveFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	repo := &countingRepo{MemoryOrders: NewMemoryOrders(), saveErr: boom}
	require.NoError(t, repo.MemoryOrders.Save(ctx, &Order{ID: 1, Items: []LineItem{{Quantity: 1, Price: 10}}}))

	_, err := NewManager(repo, 3).AddToOrder(ctx, 1)
	assert.ErrorIs(t, err, boom)
}

func TestManager_ApplyToCart(t *testing.T) {
	m := NewManager(nil, 3)

	t.Run("Disabled", func(t *testing.T) {
		cart := NewCart(100)
		assert.False(t, m.ApplyToCart(cart, false))
		assert.Empty(t, cart.Fees)
	})

	t.Run("Zero subtotal is skipped silently", func(t *testing.T) {
		cart := NewCart(0)
		assert.False(t, m.ApplyToCart(cart, true))
		assert.Empty(t, cart.Fees)
	})

	t.Run("Sub-cent subtotal still gets the fee", func(t *testing.T) {
		cart := NewCart(0.10)
		assert.True(t, m.ApplyToCart(cart, true))
		require.Len(t, cart.Fees, 1)
		assert.Equal(t, 0.0, cart.Fees[0].Amount)
	})

	t.Run("Enabled", func(t *testing.T) {
		cart := NewCart(50)
		assert.True(t, m.ApplyToCart(cart, true))
		require.Len(t, cart.Fees, 1)
		assert.Equal(t, CartFee{Name: "Credit Card Fee (3%)", Amount: 1.5, Taxable: true, TaxClass: CartTaxClass}, cart.Fees[0])
		assert.Equal(t, 51.5, cart.Total())
	})

	assert.False(t, m.ApplyToCart(nil, true))
}
