package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shivanand-vn/SVPharma-sub001/models"
)

func testWallet(due float64) *models.Wallet {
	return &models.Wallet{
		CustomerID:     primitive.NewObjectID(),
		TotalDue:       due,
		PendingBalance: due,
	}
}

func TestValidatePaymentAmount(t *testing.T) {
	require.Error(t, ValidatePaymentAmount(0, 100))
	require.Error(t, ValidatePaymentAmount(0.5, 100))
	require.Error(t, ValidatePaymentAmount(101, 100))
	require.NoError(t, ValidatePaymentAmount(1, 100))
	require.NoError(t, ValidatePaymentAmount(100, 100))
}

func TestApplyPaymentClearsDueExactly(t *testing.T) {
	w := testWallet(500)
	paymentID := primitive.NewObjectID()

	adj := ApplyPayment(w, 500, paymentID, time.Now())

	require.Equal(t, 0.0, w.PendingBalance)
	require.Equal(t, 0.0, w.WalletBalance)
	require.Equal(t, 500.0, w.TotalPaid)
	require.Equal(t, 500.0, adj.PendingReduced)
	require.Equal(t, 0.0, adj.WalletCredited)
}

func TestApplyPaymentPartial(t *testing.T) {
	w := testWallet(300)
	paymentID := primitive.NewObjectID()

	ApplyPayment(w, 150, paymentID, time.Now())

	require.Equal(t, 150.0, w.PendingBalance)
	require.Len(t, w.WalletHistory, 1)
	entry := w.WalletHistory[0]
	require.Equal(t, models.WalletEntryPayment, entry.Type)
	require.Equal(t, 150.0, entry.Amount)
	require.Equal(t, paymentID, entry.Reference)
	require.Equal(t, 150.0, entry.BalanceAfter)
}

func TestApplyPaymentWritesOneHistoryEntryPerPayment(t *testing.T) {
	w := testWallet(400)
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	ApplyPayment(w, 100, first, time.Now())
	ApplyPayment(w, 100, second, time.Now())

	count := func(id primitive.ObjectID) int {
		n := 0
		for _, e := range w.WalletHistory {
			if e.Type == models.WalletEntryPayment && e.Reference == id {
				n++
			}
		}
		return n
	}
	require.Equal(t, 1, count(first))
	require.Equal(t, 1, count(second))
}

func TestApplyPaymentOverflowCreditsWallet(t *testing.T) {
	// Due moved below the payment amount between submission and
	// approval; the excess must not drive the due negative.
	w := testWallet(100)

	adj := ApplyPayment(w, 250, primitive.NewObjectID(), time.Now())

	require.Equal(t, 0.0, w.PendingBalance)
	require.Equal(t, 150.0, w.WalletBalance)
	require.Equal(t, 100.0, adj.PendingReduced)
	require.Equal(t, 150.0, adj.WalletCredited)

	// Only the portion applied against due counts as paid; the
	// credited remainder must not break the balance identity.
	require.Equal(t, 100.0, w.TotalPaid)
	require.Equal(t, w.TotalDue-w.TotalPaid, w.PendingBalance)
}

func TestApplyReturnSplitsRefund(t *testing.T) {
	w := testWallet(200)
	orderID := primitive.NewObjectID()

	adj := ApplyReturn(w, 300, orderID, time.Now())

	require.Equal(t, 200.0, adj.PendingReduced)
	require.Equal(t, 100.0, adj.WalletCredited)
	require.Equal(t, 300.0, adj.PendingReduced+adj.WalletCredited)
	require.Equal(t, 0.0, w.PendingBalance)
	require.Equal(t, 100.0, w.WalletBalance)

	require.Len(t, w.WalletHistory, 2)
	require.Equal(t, models.WalletEntryReturnAdjustment, w.WalletHistory[0].Type)
	require.Equal(t, 0.0, w.WalletHistory[0].BalanceAfter)
	require.Equal(t, models.WalletEntryReturnAdjustment, w.WalletHistory[1].Type)
	require.Equal(t, 100.0, w.WalletHistory[1].BalanceAfter)
}

func TestApplyReturnFullyAgainstDue(t *testing.T) {
	w := testWallet(500)

	adj := ApplyReturn(w, 300, primitive.NewObjectID(), time.Now())

	require.Equal(t, 300.0, adj.PendingReduced)
	require.Equal(t, 0.0, adj.WalletCredited)
	require.Equal(t, 200.0, w.PendingBalance)
	require.Equal(t, 200.0, w.TotalDue-w.TotalPaid)
	require.Len(t, w.WalletHistory, 1)
}

func TestApplyReturnWithNoDueCreditsWalletOnly(t *testing.T) {
	w := testWallet(0)

	adj := ApplyReturn(w, 120, primitive.NewObjectID(), time.Now())

	require.Equal(t, 0.0, adj.PendingReduced)
	require.Equal(t, 120.0, adj.WalletCredited)
	require.Equal(t, 120.0, w.WalletBalance)
	require.Len(t, w.WalletHistory, 1)
	require.Equal(t, 120.0, w.WalletHistory[0].BalanceAfter)
}

func TestApplyOrderUsageThenCharge(t *testing.T) {
	w := testWallet(0)
	w.WalletBalance = 80
	orderID := primitive.NewObjectID()
	now := time.Now()

	require.NoError(t, ApplyOrderUsage(w, 80, orderID, now))
	require.Equal(t, 0.0, w.WalletBalance)
	require.Len(t, w.WalletHistory, 1)
	require.Equal(t, models.WalletEntryOrderUsage, w.WalletHistory[0].Type)
	require.Equal(t, 80.0, w.WalletHistory[0].Amount)
	require.Equal(t, 0.0, w.WalletHistory[0].BalanceAfter)

	require.NoError(t, ApplyOrderCharge(w, 200, 80, now))
	require.Equal(t, 120.0, w.PendingBalance)
	require.Equal(t, 120.0, w.TotalDue)
}

func TestApplyOrderUsageRejectsOverspend(t *testing.T) {
	w := testWallet(0)
	w.WalletBalance = 50

	err := ApplyOrderUsage(w, 80, primitive.NewObjectID(), time.Now())
	require.Error(t, err)
	require.Equal(t, 50.0, w.WalletBalance)
	require.Empty(t, w.WalletHistory)
}

func TestRefundOrderUsage(t *testing.T) {
	w := testWallet(0)
	w.WalletBalance = 100
	orderID := primitive.NewObjectID()
	now := time.Now()

	require.NoError(t, ApplyOrderUsage(w, 60, orderID, now))
	RefundOrderUsage(w, 60, orderID, now)

	require.Equal(t, 100.0, w.WalletBalance)
	require.Len(t, w.WalletHistory, 2)
	require.Equal(t, 100.0, w.WalletHistory[1].BalanceAfter)
}

func TestPendingEqualsTotalDueMinusTotalPaid(t *testing.T) {
	w := testWallet(0)
	now := time.Now()

	require.NoError(t, ApplyOrderCharge(w, 700, 0, now))
	ApplyPayment(w, 200, primitive.NewObjectID(), now)
	ApplyReturn(w, 150, primitive.NewObjectID(), now)
	ApplyPayment(w, 350, primitive.NewObjectID(), now)
	// An approval exceeding what is left of the due must keep the
	// identity intact while crediting the excess.
	ApplyPayment(w, 100, primitive.NewObjectID(), now)

	require.Equal(t, w.TotalDue-w.TotalPaid, w.PendingBalance)
	require.GreaterOrEqual(t, w.WalletBalance, 0.0)
}

func TestClampWalletRequest(t *testing.T) {
	used, err := ClampWalletRequest(50, 200)
	require.NoError(t, err)
	require.Equal(t, 50.0, used)

	used, err = ClampWalletRequest(300, 200)
	require.NoError(t, err)
	require.Equal(t, 200.0, used)

	used, err = ClampWalletRequest(0, 200)
	require.NoError(t, err)
	require.Equal(t, 0.0, used)

	_, err = ClampWalletRequest(-50, 200)
	require.Error(t, err)
}

func TestValidateReturnQuantityTracksPriorReturns(t *testing.T) {
	medID := primitive.NewObjectID()
	order := &models.Order{
		Items: []models.OrderItem{{MedicineID: medID, Name: "Paracetamol 500mg", Quantity: 10, Price: 12}},
	}

	item, err := ValidateReturnQuantity(order, medID, 4)
	require.NoError(t, err)
	require.Equal(t, "Paracetamol 500mg", item.Name)

	order.Returns = append(order.Returns, models.ReturnEntry{MedicineID: medID, Quantity: 4, Price: 12})

	_, err = ValidateReturnQuantity(order, medID, 7)
	require.Error(t, err)

	_, err = ValidateReturnQuantity(order, medID, 6)
	require.NoError(t, err)

	order.Returns = append(order.Returns, models.ReturnEntry{MedicineID: medID, Quantity: 6, Price: 12})
	_, err = ValidateReturnQuantity(order, medID, 1)
	require.Error(t, err)
}

func TestValidateReturnQuantityUnknownLine(t *testing.T) {
	order := &models.Order{
		Items: []models.OrderItem{{MedicineID: primitive.NewObjectID(), Quantity: 2, Price: 30}},
	}
	_, err := ValidateReturnQuantity(order, primitive.NewObjectID(), 1)
	require.Error(t, err)
}
