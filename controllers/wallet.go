package controllers

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shivanand-vn/SVPharma-sub001/models"
	"github.com/shivanand-vn/SVPharma-sub001/utils"
)

// findCustomerByEmail resolves the authenticated claims to a customer document
func findCustomerByEmail(ctx context.Context, customers *mongo.Collection, email string) (*models.Customer, error) {
	var customer models.Customer
	err := customers.FindOne(ctx, bson.M{"email": email}).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &utils.NotFoundError{Resource: "customer"}
		}
		return nil, err
	}
	return &customer, nil
}

// getOrCreateWallet loads the customer's wallet. The wallet document is
// the authoritative ledger; when none exists yet, one is created seeded
// from the legacy Customer.dueAmount field, which is never read again
// for that customer afterwards.
func getOrCreateWallet(ctx context.Context, wallets *mongo.Collection, customer *models.Customer) (*models.Wallet, error) {
	var wallet models.Wallet
	err := wallets.FindOne(ctx, bson.M{"customerId": customer.ID}).Decode(&wallet)
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now()
	wallet = models.Wallet{
		CustomerID:     customer.ID,
		TotalDue:       customer.DueAmount,
		PendingBalance: customer.DueAmount,
		WalletHistory:  []models.WalletHistoryEntry{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	result, err := wallets.InsertOne(ctx, wallet)
	if err != nil {
		// Another request created it first; the unique index on
		// customerId makes this safe to re-read.
		if mongo.IsDuplicateKeyError(err) {
			if ferr := wallets.FindOne(ctx, bson.M{"customerId": customer.ID}).Decode(&wallet); ferr == nil {
				return &wallet, nil
			}
		}
		return nil, err
	}
	wallet.ID = result.InsertedID.(primitive.ObjectID)
	return &wallet, nil
}

// saveWallet writes the whole wallet document back in one replace,
// relying on Mongo's single-document atomicity.
func saveWallet(ctx context.Context, wallets *mongo.Collection, wallet *models.Wallet) error {
	_, err := wallets.ReplaceOne(ctx, bson.M{"_id": wallet.ID}, wallet)
	return err
}
