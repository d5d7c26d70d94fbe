package payment

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/srvk/hardware-rental/internal/model"
)

// MockGateway simulates a card processor. It is deterministic:
// charges succeed whenever the request is well formed, so behavior
// under test does not depend on randomness. Set DeclineAll to force
// every charge to fail, which exercises the checkout rollback path.
type MockGateway struct {
	DeclineAll bool
}

// NewMockGateway returns a gateway that approves well-formed charges.
func NewMockGateway() *MockGateway { return &MockGateway{} }

// Charge validates the amount and method and returns a transaction
// reference. CASH never reaches a gateway in production; it is still
// accepted here so the mock can stand in for the whole collaborator,
// answering "collected on delivery" without a transaction id.
func (g *MockGateway) Charge(_ context.Context, amountCents int64, method, details string) (Result, error) {
	if amountCents <= 0 {
		return Result{}, &DeclinedError{Message: "invalid payment amount"}
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return Result{}, &DeclinedError{Message: "payment method is required"}
	}
	if g.DeclineAll {
		return Result{}, &DeclinedError{Message: "card declined by issuer"}
	}
	switch method {
	case model.PaymentMethodCard:
		if strings.TrimSpace(details) == "" {
			return Result{}, &DeclinedError{Message: "missing card details"}
		}
		txn := newTransactionID()
		log.Printf("payment: card charge of %d cents approved (%s)", amountCents, txn)
		return Result{TransactionID: txn, Message: "card payment processed"}, nil
	case model.PaymentMethodCash:
		return Result{Message: "cash collected on delivery"}, nil
	default:
		return Result{}, &DeclinedError{Message: "unsupported payment method: " + method}
	}
}

// newTransactionID builds a short uppercase reference like
// TXN-9F3A1C02 from a random uuid.
func newTransactionID() string {
	id := uuid.NewString()
	return "TXN-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}
