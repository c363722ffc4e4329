// Package ledger holds the customer financial reconciliation rules:
// how payments, returns and delivered orders move money between the
// pending (due) balance and the refundable wallet credit. Functions
// mutate a wallet snapshot in memory; persisting the result is the
// caller's job, relying on Mongo's single-document write atomicity.
package ledger

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shivanand-vn/SVPharma-sub001/models"
	"github.com/shivanand-vn/SVPharma-sub001/utils"
)

// ValidatePaymentAmount enforces the submission-side contract: the
// amount must be at least 1 and must not exceed the current due
// balance, so an approved payment can never drive the due negative.
func ValidatePaymentAmount(amount, currentDue float64) error {
	if amount < 1 {
		return utils.NewValidationError("payment amount must be at least 1")
	}
	if amount > currentDue {
		return utils.NewValidationError("payment amount %.2f exceeds due balance %.2f", amount, currentDue)
	}
	return nil
}

// ApplyPayment applies an approved payment against the wallet's current
// due balance and appends exactly one payment-type history entry with
// balanceAfter set to the resulting due. If the due balance moved below
// the payment amount between submission and approval, the remainder is
// credited to the wallet balance instead of driving the due negative.
// Only the portion applied against due is booked into totalPaid; the
// credited remainder is not a payment against due, which keeps
// pendingBalance = totalDue - totalPaid.
func ApplyPayment(w *models.Wallet, amount float64, paymentID primitive.ObjectID, now time.Time) models.FinancialAdjustment {
	pendingReduced := amount
	if pendingReduced > w.PendingBalance {
		pendingReduced = w.PendingBalance
	}
	walletCredited := amount - pendingReduced

	w.TotalPaid += pendingReduced
	w.PendingBalance -= pendingReduced
	w.WalletBalance += walletCredited
	w.WalletHistory = append(w.WalletHistory, models.WalletHistoryEntry{
		Type:         models.WalletEntryPayment,
		Amount:       amount,
		Reference:    paymentID,
		BalanceAfter: w.PendingBalance,
		CreatedAt:    now,
	})
	w.UpdatedAt = now

	return models.FinancialAdjustment{PendingReduced: pendingReduced, WalletCredited: walletCredited}
}

// ApplyReturn converts a return's refund value into a due-balance
// reduction first and a wallet credit for the remainder, appending one
// return_adjustment history entry per nonzero component.
func ApplyReturn(w *models.Wallet, refundAmount float64, orderID primitive.ObjectID, now time.Time) models.FinancialAdjustment {
	pendingReduced := refundAmount
	if pendingReduced > w.PendingBalance {
		pendingReduced = w.PendingBalance
	}
	walletCredited := refundAmount - pendingReduced

	if pendingReduced > 0 {
		w.TotalDue -= pendingReduced
		w.PendingBalance -= pendingReduced
		w.WalletHistory = append(w.WalletHistory, models.WalletHistoryEntry{
			Type:         models.WalletEntryReturnAdjustment,
			Amount:       pendingReduced,
			Reference:    orderID,
			Description:  "return applied to due balance",
			BalanceAfter: w.PendingBalance,
			CreatedAt:    now,
		})
	}
	if walletCredited > 0 {
		w.WalletBalance += walletCredited
		w.WalletHistory = append(w.WalletHistory, models.WalletHistoryEntry{
			Type:         models.WalletEntryReturnAdjustment,
			Amount:       walletCredited,
			Reference:    orderID,
			Description:  "return credited to wallet",
			BalanceAfter: w.WalletBalance,
			CreatedAt:    now,
		})
	}
	w.UpdatedAt = now

	return models.FinancialAdjustment{PendingReduced: pendingReduced, WalletCredited: walletCredited}
}

// ClampWalletRequest validates the wallet amount a customer asked to
// spend at checkout: negative requests are rejected and requests above
// the order total are clamped to it.
func ClampWalletRequest(requested, totalPrice float64) (float64, error) {
	if requested < 0 {
		return 0, utils.NewValidationError("wallet amount cannot be negative")
	}
	if requested > totalPrice {
		return totalPrice, nil
	}
	return requested, nil
}

// ApplyOrderUsage consumes wallet credit against an order at checkout.
// The credit is spent up front so two orders placed back to back cannot
// both draw on the same balance.
func ApplyOrderUsage(w *models.Wallet, amount float64, orderID primitive.ObjectID, now time.Time) error {
	if amount <= 0 {
		return utils.NewValidationError("wallet usage must be positive")
	}
	if amount > w.WalletBalance {
		return utils.NewValidationError("wallet usage %.2f exceeds wallet balance %.2f", amount, w.WalletBalance)
	}
	w.WalletBalance -= amount
	w.WalletHistory = append(w.WalletHistory, models.WalletHistoryEntry{
		Type:         models.WalletEntryOrderUsage,
		Amount:       amount,
		Reference:    orderID,
		BalanceAfter: w.WalletBalance,
		CreatedAt:    now,
	})
	w.UpdatedAt = now
	return nil
}

// RefundOrderUsage returns previously consumed wallet credit when an
// order is cancelled before delivery.
func RefundOrderUsage(w *models.Wallet, amount float64, orderID primitive.ObjectID, now time.Time) {
	if amount <= 0 {
		return
	}
	w.WalletBalance += amount
	w.WalletHistory = append(w.WalletHistory, models.WalletHistoryEntry{
		Type:         models.WalletEntryOrderUsage,
		Amount:       amount,
		Reference:    orderID,
		Description:  "wallet usage refunded on cancellation",
		BalanceAfter: w.WalletBalance,
		CreatedAt:    now,
	})
	w.UpdatedAt = now
}

// ApplyOrderCharge books a delivered order as due: the order total net
// of the wallet amount already consumed at checkout is added to
// totalDue and pendingBalance.
func ApplyOrderCharge(w *models.Wallet, totalPrice, walletUsed float64, now time.Time) error {
	if walletUsed < 0 || walletUsed > totalPrice {
		return utils.NewValidationError("wallet amount used %.2f is outside the order total %.2f", walletUsed, totalPrice)
	}
	charged := totalPrice - walletUsed
	w.TotalDue += charged
	w.PendingBalance += charged
	w.UpdatedAt = now
	return nil
}

// ReturnedQuantity sums the quantity already returned for a medicine
// across an order's return entries.
func ReturnedQuantity(order *models.Order, medicineID primitive.ObjectID) int {
	total := 0
	for _, ret := range order.Returns {
		if ret.MedicineID == medicineID {
			total += ret.Quantity
		}
	}
	return total
}

// ValidateReturnQuantity checks a requested return quantity against the
// ordered quantity net of quantities already returned for that line.
func ValidateReturnQuantity(order *models.Order, medicineID primitive.ObjectID, quantity int) (*models.OrderItem, error) {
	if quantity < 1 {
		return nil, utils.NewValidationError("return quantity must be at least 1")
	}
	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].MedicineID == medicineID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, &utils.NotFoundError{Resource: "order line item"}
	}
	remaining := item.Quantity - ReturnedQuantity(order, medicineID)
	if quantity > remaining {
		return nil, utils.NewValidationError("return quantity %d exceeds returnable quantity %d", quantity, remaining)
	}
	return item, nil
}
