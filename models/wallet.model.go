package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wallet history entry types
const (
	WalletEntryPayment          = "payment"
	WalletEntryReturnAdjustment = "return_adjustment"
	WalletEntryOrderUsage       = "order_usage"
)

// WalletHistoryEntry is one append-only line in a customer's wallet history.
// BalanceAfter carries the pending (due) balance after a payment or
// return adjustment, and the wallet credit balance after an order usage.
type WalletHistoryEntry struct {
	Type         string             `bson:"type" json:"type"`
	Amount       float64            `bson:"amount" json:"amount"`
	Reference    primitive.ObjectID `bson:"reference,omitempty" json:"reference,omitempty"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	BalanceAfter float64            `bson:"balanceAfter" json:"balanceAfter"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Wallet is the authoritative financial record for a customer, one per
// customer. pendingBalance is what the customer owes; walletBalance is
// refundable credit owed back to the customer.
type Wallet struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerID     primitive.ObjectID   `bson:"customerId" json:"customerId"`
	TotalDue       float64              `bson:"totalDue" json:"totalDue"`
	TotalPaid      float64              `bson:"totalPaid" json:"totalPaid"`
	PendingBalance float64              `bson:"pendingBalance" json:"pendingBalance"`
	WalletBalance  float64              `bson:"walletBalance" json:"walletBalance"`
	WalletHistory  []WalletHistoryEntry `bson:"walletHistory" json:"walletHistory"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}
