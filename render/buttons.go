// Package render builds the HTML of the POS order-pay page: the fee buttons
// appended to the gateway description, and the page itself.
package render

import (
	"bytes"
	"html/template"
	"strings"
)

const OrderPayEndpoint = "order-pay"

// IsPOSOrderPayPath reports whether path is the order-pay endpoint of the POS
// checkout, e.g. /wcpos-checkout/order-pay/42/.
func IsPOSOrderPayPath(path string, prefix string) bool {
	if prefix == "" || !strings.Contains(path, prefix) {
		return false
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == OrderPayEndpoint {
			return true
		}
	}
	return false
}

var buttonsTemplate = template.Must(template.New("buttons").Parse(
	`<div class="wcpos-ccf-buttons" style="margin-top:15px;padding:15px;background:#f7f7f7;border-radius:4px;border:1px solid #e0e0e0;">` +
		`<button type="button" class="button wcpos-add-cc-fee-btn"{{if .HasFee}} disabled{{end}} style="{{if .HasFee}}display:none;{{end}}background:#2271b1;color:#fff;border:none;padding:10px 20px;font-size:14px;font-weight:500;border-radius:4px;cursor:pointer;transition:all 0.2s ease;">Add credit card fee</button>` +
		`<button type="button" class="button wcpos-remove-cc-fee-btn"{{if not .HasFee}} disabled{{end}} style="{{if not .HasFee}}display:none;{{end}}background:#dc3232;color:#fff;border:none;padding:10px 20px;font-size:14px;font-weight:500;border-radius:4px;cursor:pointer;transition:all 0.2s ease;margin-left:10px;">Remove credit card fee</button>` +
		`{{if .HasFee}}<span class="wcpos-fee-status" style="display:inline-block;margin-left:10px;padding:8px 12px;background:#d4edda;color:#155724;border-radius:4px;font-weight:600;font-size:13px;border:1px solid #c3e6cb;">{{.Percentage}}% fee applied</span>{{end}}` +
		`</div>`,
))

// FeeButtons renders the add/remove buttons. Only the one that applies is
// visible and enabled; the status badge shows while a fee is applied.
func FeeButtons(hasFee bool, percentage int) template.HTML {
	var buf bytes.Buffer
	err := buttonsTemplate.Execute(&buf, struct {
		HasFee     bool
		Percentage int
	}{hasFee, percentage})
	if err != nil {
		// Static template with an int and a bool, it cannot fail at runtime.
		panic(err)
	}
	return template.HTML(buf.String())
}

// GatewayDescription appends the fee buttons to a gateway description, on the
// POS order-pay page and for the configured gateway only. The description is
// plain text and gets escaped.
func GatewayDescription(description string, gatewayID string, configuredGateway string, onPOSPage bool, hasFee bool, percentage int) template.HTML {
	escaped := template.HTML(template.HTMLEscapeString(description))
	if !onPOSPage || gatewayID != configuredGateway {
		return escaped
	}
	return escaped + FeeButtons(hasFee, percentage)
}
