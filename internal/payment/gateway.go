// Package payment defines the contract with the external payment
// gateway and a deterministic mock used in development and tests.
// Real payment processing lives outside this service; the checkout
// orchestrator only depends on the Gateway interface.
package payment

import (
	"context"
	"errors"
	"fmt"
)

// ErrDeclined is the sentinel matched by errors.Is for any charge
// the gateway refuses. The concrete error carries the gateway
// message for display to the user.
var ErrDeclined = errors.New("payment declined")

// DeclinedError wraps the gateway's refusal message. It matches
// ErrDeclined under errors.Is.
type DeclinedError struct {
	Message string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("payment declined: %s", e.Message)
}

// Is makes errors.Is(err, ErrDeclined) succeed for typed declines.
func (e *DeclinedError) Is(target error) bool { return target == ErrDeclined }

// Result is the gateway's answer to a charge attempt.
type Result struct {
	TransactionID string // gateway reference, e.g. "TXN-1A2B3C4D"
	Message       string // human-readable outcome
}

// Gateway charges a payment method for an amount in cents. A
// declined charge is reported as a *DeclinedError; any other error
// is an infrastructure failure. Implementations must not retry.
type Gateway interface {
	Charge(ctx context.Context, amountCents int64, method, details string) (Result, error)
}
