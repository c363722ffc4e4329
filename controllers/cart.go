package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shivanand-vn/SVPharma-sub001/middleware"
	"github.com/shivanand-vn/SVPharma-sub001/models"
	"github.com/shivanand-vn/SVPharma-sub001/utils"
)

// CartController handles cart-related requests
type CartController struct {
	Collection         *mongo.Collection
	MedicineCollection *mongo.Collection
	CustomerCollection *mongo.Collection
}

// NewCartController creates a new CartController
func NewCartController(client *mongo.Client) *CartController {
	db := client.Database(utils.DatabaseName)
	return &CartController{
		Collection:         db.Collection("carts"),
		MedicineCollection: db.Collection("medicines"),
		CustomerCollection: db.Collection("customers"),
	}
}

// AddToCart adds a medicine to the customer's active cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	var item models.CartItem
	err := json.NewDecoder(r.Body).Decode(&item)
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}
	if item.Quantity < 1 {
		utils.RespondError(w, utils.NewValidationError("quantity must be at least 1"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	customer, err := findCustomerByEmail(ctx, cc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var medicine models.Medicine
	err = cc.MedicineCollection.FindOne(ctx, bson.M{"_id": item.MedicineID}).Decode(&medicine)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "medicine"})
		return
	}
	if medicine.Stock < item.Quantity {
		utils.RespondError(w, utils.NewValidationError("insufficient stock for %s", medicine.Name))
		return
	}

	// Check if cart exists
	var cart models.Cart
	err = cc.Collection.FindOne(ctx, bson.M{"customerId": customer.ID}).Decode(&cart)
	if err != nil {
		cart = models.Cart{
			CustomerID: customer.ID,
			Items:      []models.CartItem{item},
		}
		_, err := cc.Collection.InsertOne(ctx, cart)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Item added to cart"})
		return
	}

	// Update existing cart
	updated := false
	for i, existingItem := range cart.Items {
		if existingItem.MedicineID == item.MedicineID {
			cart.Items[i].Quantity += item.Quantity
			updated = true
			break
		}
	}
	if !updated {
		cart.Items = append(cart.Items, item)
	}

	_, err = cc.Collection.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{"items": cart.Items}})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Item added to cart"})
}

// RemoveFromCart removes a medicine from the customer's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	params := mux.Vars(r)
	medicineID, err := primitive.ObjectIDFromHex(params["medicineId"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid medicine ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	customer, err := findCustomerByEmail(ctx, cc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var cart models.Cart
	err = cc.Collection.FindOne(ctx, bson.M{"customerId": customer.ID}).Decode(&cart)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "cart"})
		return
	}

	updatedItems := []models.CartItem{}
	for _, item := range cart.Items {
		if item.MedicineID != medicineID {
			updatedItems = append(updatedItems, item)
		}
	}

	_, err = cc.Collection.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{"items": updatedItems}})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

// GetCart retrieves the customer's cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	customer, err := findCustomerByEmail(ctx, cc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var cart models.Cart
	err = cc.Collection.FindOne(ctx, bson.M{"customerId": customer.ID}).Decode(&cart)
	if err != nil {
		// An empty cart is not an error for the shopping layout.
		utils.RespondJSON(w, http.StatusOK, models.Cart{CustomerID: customer.ID, Items: []models.CartItem{}})
		return
	}

	utils.RespondJSON(w, http.StatusOK, cart)
}
