package email

import (
	"fmt"
	"html"

	"github.com/valyala/fasttemplate"
)

const (
	OrderPlacedTemplate = `<h1>Thank you for your order, {{name}}!</h1>
<p>We have received order <strong>#{{order_id}}</strong>.</p>
<table>{{items}}</table>
<p>Total: <strong>&#8377;{{total}}</strong></p>
<p>We will let you know when it ships.</p>`

	OrderItemTemplate = `<tr><td>{{product}}</td><td>x{{quantity}}</td><td>&#8377;{{price}}</td></tr>`

	OrderStatusTemplate = `<h1>Your order #{{order_id}} is now {{status}}</h1>
<p>Previous status: {{from}}.</p>`

	EnquiryTemplate = `<h1>New enquiry from {{name}}</h1>
<p>Email: {{email}}</p>
<p>Subject: {{subject}}</p>
<p>{{message}}</p>`
)

// Render fills {{tag}} placeholders. Values are HTML escaped unless passed as
// Raw.
func Render(template string, values map[string]any) string {
	escaped := make(map[string]any, len(values))
	for k, v := range values {
		switch val := v.(type) {
		case Raw:
			escaped[k] = string(val)
		case string:
			escaped[k] = html.EscapeString(val)
		default:
			escaped[k] = html.EscapeString(fmt.Sprint(val))
		}
	}

	return fasttemplate.ExecuteString(template, "{{", "}}", escaped)
}

// Raw marks a value that is already safe HTML.
type Raw string
