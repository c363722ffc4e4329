package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connection request statuses
const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusApproved = "approved"
	ConnectionStatusRejected = "rejected"
)

// ConnectionRequest is a prospective customer's application for an
// account. Approval creates the Customer and its Wallet.
type ConnectionRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	PharmacyName  string             `bson:"pharmacyName" json:"pharmacyName"`
	DrugLicenseNo string             `bson:"drugLicenseNo" json:"drugLicenseNo"`
	Address       Address            `bson:"address" json:"address"`
	Status        string             `bson:"status" json:"status"`
	AdminNote     string             `bson:"adminNote,omitempty" json:"adminNote,omitempty"`
	CustomerID    primitive.ObjectID `bson:"customerId,omitempty" json:"customerId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	ProcessedAt   *time.Time         `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}
