package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment methods
const (
	PaymentMethodOnline = "ONLINE"
	PaymentMethodCash   = "CASH"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// PaymentAuditLog is one actor-stamped entry in a payment's audit trail.
type PaymentAuditLog struct {
	Action    string             `bson:"action" json:"action"` // created, approved, rejected, reuploaded
	ActorID   primitive.ObjectID `bson:"actorId" json:"actorId"`
	ActorRole string             `bson:"actorRole" json:"actorRole"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Payment represents a customer-submitted or admin-recorded payment.
// ONLINE payments carry a proof URL and sit in pending until an admin
// approves or rejects them; CASH payments are applied at creation.
// originalDueAmount and remainingDueAmount are snapshots taken at
// submission time and are informational only; the amount is applied
// against the current due balance at approval time.
type Payment struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerID         primitive.ObjectID `bson:"customerId" json:"customerId"`
	Amount             float64            `bson:"amount" json:"amount"`
	OriginalDueAmount  float64            `bson:"originalDueAmount" json:"originalDueAmount"`
	RemainingDueAmount float64            `bson:"remainingDueAmount" json:"remainingDueAmount"`
	PaymentMethod      string             `bson:"paymentMethod" json:"paymentMethod"`
	ProofURL           string             `bson:"proofUrl,omitempty" json:"proofUrl,omitempty"`
	Status             string             `bson:"status" json:"status"`
	RejectionReason    string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	CanReupload        bool               `bson:"canReupload" json:"canReupload"`
	AuditLogs          []PaymentAuditLog  `bson:"auditLogs" json:"auditLogs"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
