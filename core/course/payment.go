package course

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	errInvalidAmount      = "invalid amount"
	errInvalidCardDetails = "invalid card details"
	errPaymentDeclined    = "payment declined by bank"

	CodeCardDeclined = "card_declined"
)

// PaymentResult is the answer of a Gateway to a charge.
type PaymentResult struct {
	Success       bool
	TransactionID string
	Amount        float64
	Status        string
	Timestamp     time.Time
	Error         string
	ErrorCode     string
}

// Gateway charges cards.
type Gateway interface {
	Charge(amount float64, card *CardDetails) PaymentResult
}

// PaymentError is returned when the gateway refused a charge.
type PaymentError struct {
	Details string
	Code    string
}

func (err PaymentError) Error() string {
	return "payment failed: " + err.Details
}

// MockGateway simulates a card processor that accepts a share of the valid charges.
type MockGateway struct {
	successRate float64

	mu        sync.Mutex
	randFloat func() float64
	now       func() time.Time
}

var _ Gateway = (*MockGateway)(nil)

type GatewayOption func(*MockGateway)

// WithRandSource makes the gateway draw its decisions from src.
func WithRandSource(src func() float64) GatewayOption {
	return func(gw *MockGateway) { gw.randFloat = src }
}

func WithClock(now func() time.Time) GatewayOption {
	return func(gw *MockGateway) { gw.now = now }
}

func NewMockGateway(successRate float64, opts ...GatewayOption) *MockGateway {
	gw := &MockGateway{
		successRate: successRate,
		randFloat:   rand.New(rand.NewSource(time.Now().UnixNano())).Float64,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(gw)
	}
	return gw
}

func (gw *MockGateway) Charge(amount float64, card *CardDetails) PaymentResult {
	if amount <= 0 {
		return PaymentResult{Error: errInvalidAmount}
	}
	if card == nil || strings.TrimSpace(card.CardNumber) == "" ||
		strings.TrimSpace(card.Expiry) == "" || strings.TrimSpace(card.CVV) == "" {
		return PaymentResult{Error: errInvalidCardDetails}
	}

	// rand.Rand is not safe for concurrent use
	gw.mu.Lock()
	draw := gw.randFloat()
	gw.mu.Unlock()

	if draw >= gw.successRate {
		return PaymentResult{Error: errPaymentDeclined, ErrorCode: CodeCardDeclined}
	}
	return PaymentResult{
		Success:       true,
		TransactionID: newTransactionID(),
		Amount:        amount,
		Status:        PaymentCompleted,
		Timestamp:     gw.now().UTC(),
	}
}

func newTransactionID() string {
	return "txn_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
