package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ridematch/client-go/internal/fallback"
	"github.com/ridematch/client-go/internal/logging"
	"github.com/ridematch/client-go/internal/models"
)

var (
	// ErrCardTopUp is returned when a card or stripe top-up bypasses the
	// hosted checkout flow. Raw card data never goes through /wallet/topup.
	ErrCardTopUp = errors.New("card payments must use the secure checkout flow")
	// ErrInvalidAmount rejects a non-positive checkout amount locally.
	ErrInvalidAmount = errors.New("invalid amount for checkout session")
	// ErrMissingCheckoutSession rejects verification without a session id.
	ErrMissingCheckoutSession = errors.New("missing checkout session id")
	// ErrInvalidCheckoutURL flags a checkout response without a usable URL.
	ErrInvalidCheckoutURL = errors.New("invalid payment url received from server")
)

// Wallet is the wallet facade. The balance read degrades to the bundled
// snapshot; the checkout/verification subtree is strict because a wrong
// "payment succeeded" is worse than a visible error.
type Wallet struct {
	api API
	log logging.Logger
}

func NewWallet(api API, log logging.Logger) *Wallet {
	return &Wallet{api: api, log: log}
}

type transactionPayload struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"payment_method"`
	RideID        string  `json:"ride_id"`
	Timestamp     string  `json:"timestamp"`
	Status        string  `json:"status"`
}

type walletInfoPayload struct {
	Balance      *float64             `json:"balance"`
	Transactions []transactionPayload `json:"transactions"`
}

// WalletInfo returns the balance and recent transactions. A response
// missing the balance or the transactions list is treated as malformed
// and replaced by the snapshot wholesale, not rendered half-empty.
func (w *Wallet) WalletInfo(ctx context.Context) models.Wallet {
	return fallback.WithFallback(ctx, w.log, "get wallet info",
		func(ctx context.Context) (models.Wallet, error) {
			var resp walletInfoPayload
			if err := w.api.Get(ctx, "/wallet/info", &resp); err != nil {
				return models.Wallet{}, err
			}
			if resp.Balance == nil || resp.Transactions == nil {
				return models.Wallet{}, errors.New("malformed wallet payload")
			}
			txns := make([]models.Transaction, 0, len(resp.Transactions))
			for _, t := range resp.Transactions {
				txn := models.Transaction{
					ID:            t.ID,
					UserID:        t.UserID,
					Amount:        t.Amount,
					Type:          t.Type,
					Description:   t.Description,
					PaymentMethod: t.PaymentMethod,
					RideID:        t.RideID,
					Status:        t.Status,
				}
				if ts, err := time.Parse(time.RFC3339, t.Timestamp); err == nil {
					txn.Timestamp = ts
				}
				txns = append(txns, txn)
			}
			return models.Wallet{Balance: *resp.Balance, Transactions: txns}, nil
		},
		fallback.SampleWallet())
}

type walletAckPayload struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id"`
}

// TopUp adds funds via a non-card method (cash, bank transfer). Card and
// stripe methods are rejected locally; they go through CreateCheckoutSession.
func (w *Wallet) TopUp(ctx context.Context, amount float64, paymentMethod string) (models.Ack, error) {
	method := strings.ToLower(paymentMethod)
	if method == "card" || method == "stripe" {
		return models.Ack{}, ErrCardTopUp
	}
	body := map[string]any{"amount": amount, "payment_method": paymentMethod}
	var resp walletAckPayload
	if err := w.api.Post(ctx, "/wallet/topup", body, &resp); err != nil {
		return models.Ack{}, err
	}
	return models.Ack{Success: resp.Success, Message: resp.Message}, nil
}

// PayForRide settles a ride fare from the wallet balance.
func (w *Wallet) PayForRide(ctx context.Context, rideID string, amount float64) (models.Ack, error) {
	body := map[string]any{"ride_id": rideID, "amount": amount}
	var resp walletAckPayload
	if err := w.api.Post(ctx, "/wallet/pay", body, &resp); err != nil {
		return models.Ack{}, err
	}
	return models.Ack{Success: resp.Success, Message: resp.Message}, nil
}

// CreateCheckoutSession starts a hosted card top-up and returns the
// checkout URL. Strict: errors propagate and the URL is validated before
// anyone is sent to it.
func (w *Wallet) CreateCheckoutSession(ctx context.Context, amount float64) (models.CheckoutSession, error) {
	if amount <= 0 {
		return models.CheckoutSession{}, ErrInvalidAmount
	}
	var resp struct {
		CheckoutURL string `json:"checkout_url"`
	}
	body := map[string]any{"amount": amount}
	if err := w.api.Post(ctx, "/wallet/create-checkout-session", body, &resp); err != nil {
		return models.CheckoutSession{}, err
	}
	if !strings.HasPrefix(resp.CheckoutURL, "http") {
		return models.CheckoutSession{}, ErrInvalidCheckoutURL
	}
	return models.CheckoutSession{CheckoutURL: resp.CheckoutURL}, nil
}

// VerifyPayment confirms a completed checkout session with the backend.
func (w *Wallet) VerifyPayment(ctx context.Context, checkoutSessionID string) (models.PaymentVerification, error) {
	if checkoutSessionID == "" {
		return models.PaymentVerification{}, ErrMissingCheckoutSession
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	body := map[string]string{"checkout_session_id": checkoutSessionID}
	if err := w.api.Post(ctx, "/wallet/verify-payment", body, &resp); err != nil {
		return models.PaymentVerification{}, err
	}
	return models.PaymentVerification{Success: resp.Success, Message: resp.Message}, nil
}
