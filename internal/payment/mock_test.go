package payment_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srvk/hardware-rental/internal/payment"
)

func TestChargeCard(t *testing.T) {
	g := payment.NewMockGateway()
	res, err := g.Charge(context.Background(), 52800, "CARD", "4111-1111-1111-1111")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.TransactionID, "TXN-"))
	assert.Len(t, res.TransactionID, 12)
}

func TestChargeCashCollectsOnDelivery(t *testing.T) {
	g := payment.NewMockGateway()
	res, err := g.Charge(context.Background(), 1000, "CASH", "")
	assert.NoError(t, err)
	assert.Empty(t, res.TransactionID, "cash never produces a gateway reference")
	assert.Contains(t, res.Message, "delivery")
}

func TestChargeDeclines(t *testing.T) {
	g := payment.NewMockGateway()
	ctx := context.Background()

	cases := []struct {
		name    string
		amount  int64
		method  string
		details string
	}{
		{"zero amount", 0, "CARD", "4111"},
		{"negative amount", -500, "CARD", "4111"},
		{"empty method", 1000, "", ""},
		{"card without details", 1000, "CARD", "  "},
		{"unknown method", 1000, "CHECK", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.Charge(ctx, tc.amount, tc.method, tc.details)
			assert.ErrorIs(t, err, payment.ErrDeclined)
		})
	}
}

func TestChargeDeclineAll(t *testing.T) {
	g := &payment.MockGateway{DeclineAll: true}
	_, err := g.Charge(context.Background(), 1000, "CARD", "4111")
	assert.ErrorIs(t, err, payment.ErrDeclined)

	var de *payment.DeclinedError
	assert.True(t, errors.As(err, &de))
	assert.NotEmpty(t, de.Message)
}

func TestChargeMethodNormalization(t *testing.T) {
	g := payment.NewMockGateway()
	_, err := g.Charge(context.Background(), 1000, " card ", "4111")
	assert.NoError(t, err)
}
