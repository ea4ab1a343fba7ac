package fee

type CartFee struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Taxable  bool    `json:"taxable"`
	TaxClass string  `json:"tax_class"`
}

// Cart is a checkout cart during fee calculation. Fees are rebuilt on every
// calculation, so it starts without any.
type Cart struct {
	Subtotal float64   `json:"subtotal"`
	Fees     []CartFee `json:"fees"`
}

func NewCart(subtotal float64) *Cart {
	return &Cart{Subtotal: roundCents(subtotal), Fees: []CartFee{}}
}

func (c *Cart) AddFee(name string, amount float64, taxable bool, taxClass string) {
	c.Fees = append(c.Fees, CartFee{
		Name:     name,
		Amount:   roundCents(amount),
		Taxable:  taxable,
		TaxClass: taxClass,
	})
}

func (c *Cart) FeeTotal() float64 {
	var total float64
	for _, f := range c.Fees {
		total += f.Amount
	}
	return roundCents(total)
}

func (c *Cart) Total() float64 {
	return roundCents(c.Subtotal + c.FeeTotal())
}
