package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents a medicine in the cart
type CartItem struct {
	MedicineID primitive.ObjectID `bson:"medicineId" json:"medicineId"`
	Quantity   int                `bson:"quantity" json:"quantity"`
}

// Cart represents a customer's active cart
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerID primitive.ObjectID `bson:"customerId" json:"customerId"`
	Items      []CartItem         `bson:"items" json:"items"`
}
