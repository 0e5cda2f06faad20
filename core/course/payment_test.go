package course

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockGateway_Charge(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	card := &CardDetails{CardNumber: "4242424242424242", Expiry: "12/30", CVV: "123"}
	draws := func(v float64) GatewayOption { return WithRandSource(func() float64 { return v }) }

	tests := []struct {
		name     string
		rate     float64
		draw     float64
		amount   float64
		card     *CardDetails
		wantErr  string
		wantCode string
	}{
		{name: "zero amount", rate: 1, amount: 0, card: card, wantErr: "invalid amount"},
		{name: "negative amount", rate: 1, amount: -5, card: card, wantErr: "invalid amount"},
		{name: "no card", rate: 1, amount: 10, wantErr: "invalid card details"},
		{name: "blank cvv", rate: 1, amount: 10, card: &CardDetails{CardNumber: "4242", Expiry: "12/30", CVV: " "}, wantErr: "invalid card details"},
		{name: "declined", rate: .9, draw: .9, amount: 10, card: card, wantErr: "payment declined by bank", wantCode: CodeCardDeclined},
		{name: "always declined", rate: 0, draw: 0, amount: 10, card: card, wantErr: "payment declined by bank", wantCode: CodeCardDeclined},
		{name: "accepted", rate: .9, draw: .89, amount: 10, card: card},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := NewMockGateway(tt.rate, draws(tt.draw), WithClock(func() time.Time { return now }))
			res := gw.Charge(tt.amount, tt.card)

			if tt.wantErr != "" {
				assert.False(t, res.Success)
				assert.Equal(t, tt.wantErr, res.Error)
				assert.Equal(t, tt.wantCode, res.ErrorCode)
				assert.Empty(t, res.TransactionID)
				return
			}
			assert.True(t, res.Success)
			assert.Regexp(t, regexp.MustCompile(`^txn_[0-9a-f]{12}$`), res.TransactionID)
			assert.Equal(t, tt.amount, res.Amount)
			assert.Equal(t, PaymentCompleted, res.Status)
			assert.Equal(t, now, res.Timestamp)
		})
	}
}

func TestMockGateway_uniqueTransactions(t *testing.T) {
	gw := NewMockGateway(1)
	card := &CardDetails{CardNumber: "4242424242424242", Expiry: "12/30", CVV: "123"}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		res := gw.Charge(1, card)
		assert.True(t, res.Success)
		assert.False(t, seen[res.TransactionID], res.TransactionID)
		seen[res.TransactionID] = true
	}
}

func TestPaymentError(t *testing.T) {
	err := &PaymentError{Details: errPaymentDeclined, Code: CodeCardDeclined}
	assert.EqualError(t, err, "payment failed: payment declined by bank")
}
