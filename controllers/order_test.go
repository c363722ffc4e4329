package controllers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shivanand-vn/SVPharma-sub001/models"
)

func TestValidateTransitionAllowedPath(t *testing.T) {
	order := &models.Order{Status: models.OrderStatusPending}
	require.NoError(t, validateTransition(order, models.OrderStatusProcessing))

	order.Status = models.OrderStatusProcessing
	require.NoError(t, validateTransition(order, models.OrderStatusShipped))

	order.Status = models.OrderStatusShipped
	require.NoError(t, validateTransition(order, models.OrderStatusDelivered))
}

func TestValidateTransitionRejectsSkips(t *testing.T) {
	order := &models.Order{Status: models.OrderStatusPending}
	require.Error(t, validateTransition(order, models.OrderStatusDelivered))

	order.Status = models.OrderStatusDelivered
	require.Error(t, validateTransition(order, models.OrderStatusCancelled))

	order.Status = models.OrderStatusCancelled
	require.Error(t, validateTransition(order, models.OrderStatusProcessing))
}

func TestValidateTransitionBlocksCancelAfterReturn(t *testing.T) {
	// A shipped order that already had a return booked cannot be
	// cancelled: cancellation would refund the checkout wallet usage
	// on top of the return credit.
	order := &models.Order{
		Status:           models.OrderStatusShipped,
		WalletAmountUsed: 60,
		Returns: []models.ReturnEntry{{
			Quantity: 2,
			Price:    50,
			FinancialAdjustment: models.FinancialAdjustment{
				WalletCredited: 100,
			},
		}},
	}

	err := validateTransition(order, models.OrderStatusCancelled)
	require.Error(t, err)

	// Delivery is still the way forward for such an order.
	require.NoError(t, validateTransition(order, models.OrderStatusDelivered))
}
