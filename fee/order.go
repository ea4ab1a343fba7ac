package fee

import (
	"math"
	"strings"
)

const (
	TaxStatusTaxable = "taxable"
	TaxStatusNone    = "none"
)

type LineItem struct {
	Name     string  `json:"name" yaml:"name"`
	Quantity int     `json:"quantity" yaml:"quantity"`
	Price    float64 `json:"price" yaml:"price"`
	Taxable  bool    `json:"taxable" yaml:"taxable"`
}

func (l LineItem) Subtotal() float64 {
	return roundCents(float64(l.Quantity) * l.Price)
}

type FeeLine struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Amount    float64 `json:"amount" yaml:"amount"`
	Total     float64 `json:"total" yaml:"total"`
	TotalTax  float64 `json:"total_tax" yaml:"total_tax"`
	TaxClass  string  `json:"tax_class" yaml:"tax_class"`
	TaxStatus string  `json:"tax_status" yaml:"tax_status"`
}

func (f FeeLine) Taxable() bool {
	return f.TaxStatus == TaxStatusTaxable
}

// Order is the subset of a store order the fee flow reads and writes.
type Order struct {
	ID       int64      `json:"id" yaml:"id"`
	Key      string     `json:"key" yaml:"key"`
	Currency string     `json:"currency" yaml:"currency"`
	Items    []LineItem `json:"items" yaml:"items"`
	Fees     []FeeLine  `json:"fees" yaml:"fees"`

	// TaxRate is a flat percentage applied to taxable items and fees.
	TaxRate float64 `json:"tax_rate" yaml:"tax_rate"`

	FeeTotal float64 `json:"fee_total" yaml:"fee_total"`
	TotalTax float64 `json:"total_tax" yaml:"total_tax"`
	Total    float64 `json:"total" yaml:"total"`
}

// Subtotal is the sum of the line items, fees excluded.
func (o *Order) Subtotal() float64 {
	var subtotal float64
	for _, item := range o.Items {
		subtotal += item.Subtotal()
	}
	return roundCents(subtotal)
}

// CalculateTotals recomputes the fee, tax and grand totals from the lines.
func (o *Order) CalculateTotals() {
	var taxable, fees, feeTax float64

	for _, item := range o.Items {
		if item.Taxable {
			taxable += item.Subtotal()
		}
	}

	for i := range o.Fees {
		line := &o.Fees[i]
		line.Total = roundCents(line.Amount)
		line.TotalTax = 0
		if line.Taxable() {
			line.TotalTax = roundCents(line.Total * o.TaxRate / 100)
		}
		fees += line.Total
		feeTax += line.TotalTax
	}

	o.FeeTotal = roundCents(fees)
	o.TotalTax = roundCents(taxable*o.TaxRate/100 + feeTax)
	o.Total = roundCents(o.Subtotal() + o.FeeTotal + o.TotalTax)
}

// removeFees drops every fee whose name contains marker and reports whether
// anything was removed.
func (o *Order) removeFees(marker string) bool {
	kept := o.Fees[:0]
	removed := false
	for _, line := range o.Fees {
		if strings.Contains(line.Name, marker) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	o.Fees = kept
	return removed
}

func (o *Order) hasFee(marker string) bool {
	for _, line := range o.Fees {
		if strings.Contains(line.Name, marker) {
			return true
		}
	}
	return false
}

func (o *Order) clone() *Order {
	c := *o
	c.Items = append([]LineItem(nil), o.Items...)
	c.Fees = append([]FeeLine(nil), o.Fees...)
	return &c
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
