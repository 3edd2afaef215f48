package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want PaymentMethod
		ok   bool
	}{
		{"transfer", MethodTransfer, true},
		{"cod", MethodCOD, true},
		{"", "", false},
		{"COD", "", false},
		{"cash", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePaymentMethod(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParsePaymentStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "COMPLETED", "CANCELED"} {
		got, ok := ParsePaymentStatus(valid)
		assert.True(t, ok)
		assert.Equal(t, PaymentStatus(valid), got)
	}
	for _, invalid := range []string{"", "pending", "DONE"} {
		_, ok := ParsePaymentStatus(invalid)
		assert.False(t, ok, "input %q", invalid)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, PaymentPending.Terminal())
	assert.True(t, PaymentCompleted.Terminal())
	assert.True(t, PaymentCanceled.Terminal())

	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusProcessed.Terminal())
	assert.True(t, StatusCanceled.Terminal())
}
