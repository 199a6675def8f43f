package models

import "time"

// Transaction is a single wallet movement.
type Transaction struct {
	ID            string
	UserID        string
	Amount        float64
	Type          string
	Description   string
	PaymentMethod string
	RideID        string
	Timestamp     time.Time
	Status        string
}

// Wallet is the balance plus recent transactions.
type Wallet struct {
	Balance      float64
	Transactions []Transaction
}

// CheckoutSession is the redirect target for the hosted card top-up flow.
type CheckoutSession struct {
	CheckoutURL string
}

// PaymentVerification is the outcome of verifying a checkout session.
type PaymentVerification struct {
	Success bool
	Message string
}
