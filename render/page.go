package render

import (
	"html/template"
	"io"

	"github.com/grzegorzmaniak/posfee/fee"
)

// ScriptConfig is exposed to the checkout script as window.wcpos_ccf.
type ScriptConfig struct {
	AjaxURL       string `json:"ajax_url"`
	SecurityToken string `json:"security_token"`
	FeePercentage int    `json:"fee_percentage"`
}

type Gateway struct {
	ID          string
	Title       string
	Description string
}

type gatewayView struct {
	ID          string
	Title       string
	Description template.HTML
}

type OrderPayData struct {
	Order             *fee.Order
	Gateways          []Gateway
	ConfiguredGateway string
	OnPOSPage         bool
	HasFee            bool
	Script            ScriptConfig
}

var pageTemplate = template.Must(template.New("order-pay").Funcs(template.FuncMap{
	"money": formatMoney,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Pay for order #{{.Order.ID}}</title>
</head>
<body class="woocommerce-order-pay">
<table class="shop_table">
<thead><tr><th>Product</th><th>Qty</th><th>Total</th></tr></thead>
<tbody>
{{- range .Order.Items}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{money .Subtotal}}</td></tr>
{{- end}}
</tbody>
<tfoot>
<tr><th colspan="2">Subtotal</th><td>{{money .Order.Subtotal}}</td></tr>
{{- range .Order.Fees}}
<tr class="fee"><th colspan="2">{{.Name}}</th><td>{{money .Total}}</td></tr>
{{- end}}
{{- if .Order.TotalTax}}
<tr><th colspan="2">Tax</th><td>{{money .Order.TotalTax}}</td></tr>
{{- end}}
<tr class="order-total"><th colspan="2">Total</th><td>{{money .Order.Total}} {{.Order.Currency}}</td></tr>
</tfoot>
</table>
<ul class="wc_payment_methods payment_methods methods">
{{- range .Gateways}}
<li class="wc_payment_method payment_method_{{.ID}}">
<label>{{.Title}}</label>
<div class="payment_box payment_method_{{.ID}}">{{.Description}}</div>
</li>
{{- end}}
</ul>
<script>var wcpos_ccf = {{.Script}};</script>
</body>
</html>
`))

// OrderPayPage writes the order-pay page, gateway descriptions included.
func OrderPayPage(w io.Writer, data OrderPayData) error {
	gateways := make([]gatewayView, 0, len(data.Gateways))
	for _, g := range data.Gateways {
		gateways = append(gateways, gatewayView{
			ID:    g.ID,
			Title: g.Title,
			Description: GatewayDescription(
				g.Description,
				g.ID,
				data.ConfiguredGateway,
				data.OnPOSPage,
				data.HasFee,
				data.Script.FeePercentage,
			),
		})
	}

	return pageTemplate.Execute(w, struct {
		Order    *fee.Order
		Gateways []gatewayView
		Script   ScriptConfig
	}{data.Order, gateways, data.Script})
}
