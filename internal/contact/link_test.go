package contact

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/order"
)

func sampleOrder() *order.Order {
	return &order.Order{
		OrderNumber:   "LMR-20250314-0042",
		TotalAmount:   5500,
		PaymentMethod: order.MethodCOD,
		Items: []order.Item{
			{ProductName: "lavender candle", Quantity: 2, Subtotal: 3000},
			{ProductName: "wick trimmer", Quantity: 1, Subtotal: 2500},
		},
	}
}

func TestConfirmationMessage(t *testing.T) {
	msg := ConfirmationMessage(sampleOrder())

	assert.Contains(t, msg, "order LMR-20250314-0042")
	assert.Contains(t, msg, "- lavender candle x2 = 3000")
	assert.Contains(t, msg, "- wick trimmer x1 = 2500")
	assert.Contains(t, msg, "Total: 5500")
	assert.Contains(t, msg, "Payment: cod")
}

func TestConfirmationLink(t *testing.T) {
	link := ConfirmationLink("628123456789", sampleOrder())

	require.True(t, strings.HasPrefix(link, "https://wa.me/628123456789?text="))

	u, err := url.Parse(link)
	require.NoError(t, err)

	// The pre-filled text must survive a round trip through URL encoding.
	text := u.Query().Get("text")
	assert.Contains(t, text, "LMR-20250314-0042")
	assert.Contains(t, text, "Total: 5500")
}
