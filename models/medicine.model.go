package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medicine represents a catalog item in the distributor's inventory
type Medicine struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                 string             `bson:"name" json:"name"`
	Description          string             `bson:"description" json:"description"`
	Manufacturer         string             `bson:"manufacturer" json:"manufacturer"`
	Category             string             `bson:"category" json:"category"`
	Price                float64            `bson:"price" json:"price"`
	Stock                int                `bson:"stock" json:"stock"`
	Image                string             `bson:"image,omitempty" json:"image,omitempty"`
	RequiresPrescription bool               `bson:"requiresPrescription" json:"requiresPrescription"`
	ExpiryDate           time.Time          `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}
