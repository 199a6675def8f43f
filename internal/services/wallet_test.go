package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridematch/client-go/internal/transport"
)

func newWallet(api API) (*Wallet, *spyLogger) {
	log := &spyLogger{}
	return NewWallet(api, log), log
}

func TestWallet_WalletInfo(t *testing.T) {
	api := newFakeAPI()
	api.respond("GET", "/wallet/info", map[string]any{
		"balance": 42.75,
		"transactions": []map[string]any{
			{
				"id":        "txn_9",
				"amount":    10.0,
				"type":      "topup",
				"timestamp": "2026-08-01T10:00:00Z",
				"status":    "completed",
			},
		},
	})
	wallet, _ := newWallet(api)

	info := wallet.WalletInfo(context.Background())
	assert.Equal(t, 42.75, info.Balance)
	require.Len(t, info.Transactions, 1)
	assert.Equal(t, "txn_9", info.Transactions[0].ID)
	assert.Equal(t, "2026-08-01T10:00:00Z", info.Transactions[0].Timestamp.Format("2006-01-02T15:04:05Z07:00"))
}

func TestWallet_WalletInfoMalformedPayloadUsesSnapshot(t *testing.T) {
	// Missing balance and null transactions must not render half-empty.
	api := newFakeAPI()
	api.respond("GET", "/wallet/info", map[string]any{"transactions": nil})
	wallet, log := newWallet(api)

	info := wallet.WalletInfo(context.Background())
	assert.Equal(t, 25.50, info.Balance)
	require.Len(t, info.Transactions, 2)
	assert.Equal(t, "txn_001", info.Transactions[0].ID)
	assert.Equal(t, 1, log.count())
}

func TestWallet_WalletInfoUnreachableUsesSnapshot(t *testing.T) {
	api := newFakeAPI()
	api.fail("GET", "/wallet/info", errors.New("connection refused"))
	wallet, _ := newWallet(api)

	info := wallet.WalletInfo(context.Background())
	assert.Equal(t, 25.50, info.Balance)
}

func TestWallet_TopUpRejectsCardMethods(t *testing.T) {
	wallet, _ := newWallet(newFakeAPI())

	for _, method := range []string{"card", "stripe", "Card", "STRIPE"} {
		_, err := wallet.TopUp(context.Background(), 50, method)
		assert.ErrorIs(t, err, ErrCardTopUp, method)
	}
}

func TestWallet_TopUpNonCard(t *testing.T) {
	api := newFakeAPI()
	api.respond("POST", "/wallet/topup", map[string]any{"success": true, "message": "queued"})
	wallet, _ := newWallet(api)

	ack, err := wallet.TopUp(context.Background(), 50, "bank_transfer")
	require.NoError(t, err)
	assert.True(t, ack.Success)
	assert.Equal(t, "bank_transfer", api.lastBody(t)["payment_method"])
}

func TestWallet_PayForRidePropagatesErrors(t *testing.T) {
	api := newFakeAPI()
	api.fail("POST", "/wallet/pay", &transport.APIError{StatusCode: 402, Message: "Insufficient balance"})
	wallet, _ := newWallet(api)

	_, err := wallet.PayForRide(context.Background(), "ride_1", 15)
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Insufficient balance", apiErr.Message)
}

func TestWallet_CreateCheckoutSession(t *testing.T) {
	t.Run("rejects invalid amount locally", func(t *testing.T) {
		api := newFakeAPI()
		wallet, _ := newWallet(api)

		_, err := wallet.CreateCheckoutSession(context.Background(), 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Zero(t, api.callCount())
	})

	t.Run("rejects non-http checkout url", func(t *testing.T) {
		api := newFakeAPI()
		api.respond("POST", "/wallet/create-checkout-session", map[string]any{"checkout_url": "javascript:alert(1)"})
		wallet, _ := newWallet(api)

		_, err := wallet.CreateCheckoutSession(context.Background(), 50)
		assert.ErrorIs(t, err, ErrInvalidCheckoutURL)
	})

	t.Run("returns checkout url", func(t *testing.T) {
		api := newFakeAPI()
		api.respond("POST", "/wallet/create-checkout-session", map[string]any{
			"checkout_url": "https://checkout.stripe.com/pay/cs_test_123",
		})
		wallet, _ := newWallet(api)

		cs, err := wallet.CreateCheckoutSession(context.Background(), 50)
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", cs.CheckoutURL)
	})

	t.Run("propagates server error", func(t *testing.T) {
		api := newFakeAPI()
		api.fail("POST", "/wallet/create-checkout-session", errors.New("boom"))
		wallet, _ := newWallet(api)

		_, err := wallet.CreateCheckoutSession(context.Background(), 50)
		assert.Error(t, err, "checkout must never degrade to fallback data")
	})
}

func TestWallet_VerifyPayment(t *testing.T) {
	t.Run("rejects empty session id", func(t *testing.T) {
		wallet, _ := newWallet(newFakeAPI())
		_, err := wallet.VerifyPayment(context.Background(), "")
		assert.ErrorIs(t, err, ErrMissingCheckoutSession)
	})

	t.Run("returns verification outcome", func(t *testing.T) {
		api := newFakeAPI()
		api.respond("POST", "/wallet/verify-payment", map[string]any{"success": true, "message": "paid"})
		wallet, _ := newWallet(api)

		v, err := wallet.VerifyPayment(context.Background(), "cs_test_123")
		require.NoError(t, err)
		assert.True(t, v.Success)
		assert.Equal(t, "cs_test_123", api.lastBody(t)["checkout_session_id"])
	})
}
