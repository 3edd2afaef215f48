// Package contact derives the WhatsApp confirmation artifact shown to a
// customer after checkout. Pure string building, no I/O.
package contact

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/order"
)

// ConfirmationLink builds a wa.me link with a pre-filled order summary the
// customer can send to the shop.
func ConfirmationLink(number string, o *order.Order) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(ConfirmationMessage(o)))
}

// ConfirmationMessage renders the human-readable order summary.
func ConfirmationMessage(o *order.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello Lumera Shop! I just placed order %s.\n", o.OrderNumber)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s x%d = %d\n", it.ProductName, it.Quantity, it.Subtotal)
	}
	fmt.Fprintf(&b, "Total: %d\n", o.TotalAmount)
	fmt.Fprintf(&b, "Payment: %s", o.PaymentMethod)

	return b.String()
}
