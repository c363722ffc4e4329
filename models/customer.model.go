package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address represents a customer's delivery address
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipcode" json:"zipcode"`
}

// Customer represents a distributor account holder. Accounts are created
// by admin approval of a connection request, never by self-registration.
type Customer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Username     string             `bson:"username" json:"username"`
	Password     string             `bson:"password,omitempty" json:"-"`
	Phone        string             `bson:"phone" json:"phone"`
	PharmacyName string             `bson:"pharmacyName" json:"pharmacyName"`
	Address      Address            `bson:"address" json:"address"`
	Role         string             `bson:"role" json:"role"` // "customer" or "admin"
	// DueAmount is the legacy balance field. Once a wallet document
	// exists for the customer it is never written again; it is read a
	// single time to seed the wallet.
	DueAmount float64   `bson:"dueAmount" json:"dueAmount"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Role constants
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
