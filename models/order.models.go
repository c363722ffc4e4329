package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem is a medicine snapshot taken at checkout. Price and name are
// frozen so later catalog edits do not change what the order shows.
type OrderItem struct {
	MedicineID primitive.ObjectID `bson:"medicineId" json:"medicineId"`
	Name       string             `bson:"name" json:"name"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Price      float64            `bson:"price" json:"price"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
}

// StatusHistoryEntry records one status transition on an order.
type StatusHistoryEntry struct {
	Status    string             `bson:"status" json:"status"`
	ActorID   primitive.ObjectID `bson:"actorId,omitempty" json:"actorId,omitempty"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// FinancialAdjustment records how a return's refund value was split
// between due-balance reduction and wallet credit.
type FinancialAdjustment struct {
	PendingReduced float64 `bson:"pendingReduced" json:"pendingReduced"`
	WalletCredited float64 `bson:"walletCredited" json:"walletCredited"`
}

// ReturnEntry is one processed return against an order line item.
type ReturnEntry struct {
	MedicineID          primitive.ObjectID  `bson:"medicineId" json:"medicineId"`
	Name                string              `bson:"name" json:"name"`
	Quantity            int                 `bson:"quantity" json:"quantity"`
	Price               float64             `bson:"price" json:"price"`
	Reason              string              `bson:"reason" json:"reason"`
	FinancialAdjustment FinancialAdjustment `bson:"financialAdjustment" json:"financialAdjustment"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
}

// Order represents a customer's order. "Adjusted" (admin edited line
// items before delivery, tracked by isAdminModified and the original*
// fields) and "returned" (post-delivery return entries) are distinct
// states and are tracked separately.
type Order struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerID       primitive.ObjectID   `bson:"customerId" json:"customerId"`
	Items            []OrderItem          `bson:"items" json:"items"`
	TotalPrice       float64              `bson:"totalPrice" json:"totalPrice"`
	WalletAmountUsed float64              `bson:"walletAmountUsed" json:"walletAmountUsed"`
	Status           string               `bson:"status" json:"status"`
	StatusHistory    []StatusHistoryEntry `bson:"statusHistory" json:"statusHistory"`
	DeliverySlipURL  string               `bson:"deliverySlipUrl,omitempty" json:"deliverySlipUrl,omitempty"`
	Address          Address              `bson:"address" json:"address"`
	OriginalItems    []OrderItem          `bson:"originalItems,omitempty" json:"originalItems,omitempty"`
	OriginalTotal    float64              `bson:"originalTotalPrice,omitempty" json:"originalTotalPrice,omitempty"`
	IsAdminModified  bool                 `bson:"isAdminModified" json:"isAdminModified"`
	Returns          []ReturnEntry        `bson:"returns,omitempty" json:"returns,omitempty"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt"`
}
