package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ridematch/client-go/internal/services"
)

// ShowWallet prints the balance and recent transactions.
func (a *App) ShowWallet(ctx context.Context) error {
	wallet := a.wallet.WalletInfo(ctx)
	fmt.Printf("Balance: %.2f\n", wallet.Balance)
	for _, txn := range wallet.Transactions {
		fmt.Printf("  %s  %+.2f  %s  %s\n", txn.ID, txn.Amount, txn.Type, txn.Description)
	}
	return nil
}

// TopUp adds funds via a non-card method. Card top-ups are pointed at the
// checkout command.
func (a *App) TopUp(ctx context.Context) error {
	amount, err := GetFloat(a.reader, "Amount", 0, os.Stdout)
	if err != nil {
		return err
	}
	method, err := getSimpleText(a.reader, "Payment method (cash/bank_transfer)", os.Stdout)
	if err != nil {
		return err
	}

	ack, err := a.wallet.TopUp(ctx, amount, method)
	if errors.Is(err, services.ErrCardTopUp) {
		fmt.Println("Card top-ups go through the hosted checkout: use 'checkout'.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(ack.Message)
	return nil
}

// Checkout runs the hosted card top-up flow: create a session, let the
// user pay in the browser, then verify.
func (a *App) Checkout(ctx context.Context) error {
	amount, err := GetFloat(a.reader, "Amount", 0, os.Stdout)
	if err != nil {
		return err
	}

	cs, err := a.wallet.CreateCheckoutSession(ctx, amount)
	if err != nil {
		return err
	}
	fmt.Println("Open this URL to pay:")
	fmt.Println("  " + cs.CheckoutURL)

	sessionID, err := getSimpleText(a.reader, "Paste the checkout session id once done (empty to abort)", os.Stdout)
	if err != nil {
		return err
	}
	if sessionID == "" {
		fmt.Println("Checkout aborted.")
		return nil
	}

	v, err := a.wallet.VerifyPayment(ctx, sessionID)
	if err != nil {
		return err
	}
	if v.Success {
		fmt.Println("Payment confirmed.")
	} else {
		fmt.Println("Payment not confirmed:", v.Message)
	}
	return nil
}
