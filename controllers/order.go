// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shivanand-vn/SVPharma-sub001/ledger"
	"github.com/shivanand-vn/SVPharma-sub001/middleware"
	"github.com/shivanand-vn/SVPharma-sub001/models"
	"github.com/shivanand-vn/SVPharma-sub001/utils"
)

// allowedTransitions lists the order status transitions an admin can apply.
var allowedTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCancelled},
}

// OrderController handles order-related requests
type OrderController struct {
	OrderCollection    *mongo.Collection
	CartCollection     *mongo.Collection
	MedicineCollection *mongo.Collection
	CustomerCollection *mongo.Collection
	WalletCollection   *mongo.Collection
	EmailService       *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, emailService *utils.EmailService) *OrderController {
	db := client.Database(utils.DatabaseName)
	return &OrderController{
		OrderCollection:    db.Collection("orders"),
		CartCollection:     db.Collection("carts"),
		MedicineCollection: db.Collection("medicines"),
		CustomerCollection: db.Collection("customers"),
		WalletCollection:   db.Collection("wallets"),
		EmailService:       emailService,
	}
}

// CreateOrder creates a new order from the customer's active cart.
// Wallet credit requested via walletAmount is consumed immediately; the
// due balance is only booked when the order is delivered.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	customer, err := findCustomerByEmail(ctx, oc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var cart models.Cart
	err = oc.CartCollection.FindOne(ctx, bson.M{"customerId": customer.ID}).Decode(&cart)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "cart"})
		return
	}
	if len(cart.Items) == 0 {
		utils.RespondError(w, utils.NewValidationError("cart is empty"))
		return
	}

	var checkoutRequest struct {
		WalletAmount float64         `json:"walletAmount"`
		Address      *models.Address `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&checkoutRequest); err != nil && err != io.EOF {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}

	// Snapshot each line from the catalog and check stock
	totalPrice := 0.0
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		var medicine models.Medicine
		err := oc.MedicineCollection.FindOne(ctx, bson.M{"_id": cartItem.MedicineID}).Decode(&medicine)
		if err != nil {
			utils.RespondError(w, &utils.NotFoundError{Resource: fmt.Sprintf("medicine %s", cartItem.MedicineID.Hex())})
			return
		}
		if medicine.Stock < cartItem.Quantity {
			utils.RespondError(w, utils.NewValidationError("insufficient stock for %s", medicine.Name))
			return
		}
		items = append(items, models.OrderItem{
			MedicineID: medicine.ID,
			Name:       medicine.Name,
			Quantity:   cartItem.Quantity,
			Price:      medicine.Price,
			Image:      medicine.Image,
		})
		totalPrice += medicine.Price * float64(cartItem.Quantity)
	}

	orderID := primitive.NewObjectID()
	now := time.Now()

	walletUsed, err := ledger.ClampWalletRequest(checkoutRequest.WalletAmount, totalPrice)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if walletUsed > 0 {
		wallet, err := getOrCreateWallet(ctx, oc.WalletCollection, customer)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := ledger.ApplyOrderUsage(wallet, walletUsed, orderID, now); err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := saveWallet(ctx, oc.WalletCollection, wallet); err != nil {
			utils.RespondError(w, err)
			return
		}
	}

	// Deduct stock for each line
	for _, item := range items {
		_, err := oc.MedicineCollection.UpdateOne(ctx, bson.M{"_id": item.MedicineID}, bson.M{
			"$inc": bson.M{"stock": -item.Quantity},
		})
		if err != nil {
			utils.RespondError(w, err)
			return
		}
	}

	address := customer.Address
	if checkoutRequest.Address != nil {
		address = *checkoutRequest.Address
	}

	order := models.Order{
		ID:               orderID,
		CustomerID:       customer.ID,
		Items:            items,
		TotalPrice:       totalPrice,
		WalletAmountUsed: walletUsed,
		Status:           models.OrderStatusPending,
		StatusHistory: []models.StatusHistoryEntry{
			{Status: models.OrderStatusPending, ActorID: customer.ID, CreatedAt: now},
		},
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = oc.OrderCollection.InsertOne(ctx, order)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	// Clear the customer's cart
	_, err = oc.CartCollection.DeleteOne(ctx, bson.M{"customerId": customer.ID})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, order)
}

// GetMyOrders retrieves all orders for the authenticated customer
func (oc *OrderController) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	customer, err := findCustomerByEmail(ctx, oc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	oc.respondOrders(ctx, w, bson.M{"customerId": customer.ID})
}

// GetOrders retrieves all orders, optionally filtered by status (Admin only)
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	oc.respondOrders(ctx, w, filter)
}

func (oc *OrderController) respondOrders(ctx context.Context, w http.ResponseWriter, filter bson.M) {
	cursor, err := oc.OrderCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			utils.RespondError(w, err)
			return
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus applies a status transition (Admin only). The
// request is multipart so a delivery slip can accompany the delivered
// transition. Delivery books the order's value into the customer's due
// balance; cancellation refunds wallet credit consumed at checkout.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid order ID"))
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondError(w, utils.NewValidationError("failed to parse multipart form"))
		return
	}
	newStatus := r.FormValue("status")
	note := r.FormValue("note")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = oc.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "order"})
		return
	}

	if err := validateTransition(&order, newStatus); err != nil {
		utils.RespondError(w, err)
		return
	}

	var customer models.Customer
	err = oc.CustomerCollection.FindOne(ctx, bson.M{"_id": order.CustomerID}).Decode(&customer)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "customer"})
		return
	}

	now := time.Now()
	update := bson.M{
		"status":    newStatus,
		"updatedAt": now,
	}

	switch newStatus {
	case models.OrderStatusDelivered:
		slipPath, err := oc.saveDeliverySlip(r, orderID)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		update["deliverySlipUrl"] = slipPath

		wallet, err := getOrCreateWallet(ctx, oc.WalletCollection, &customer)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := ledger.ApplyOrderCharge(wallet, order.TotalPrice, order.WalletAmountUsed, now); err != nil {
			utils.RespondError(w, err)
			return
		}
		if err := saveWallet(ctx, oc.WalletCollection, wallet); err != nil {
			utils.RespondError(w, err)
			return
		}
	case models.OrderStatusCancelled:
		if order.WalletAmountUsed > 0 {
			wallet, err := getOrCreateWallet(ctx, oc.WalletCollection, &customer)
			if err != nil {
				utils.RespondError(w, err)
				return
			}
			ledger.RefundOrderUsage(wallet, order.WalletAmountUsed, order.ID, now)
			if err := saveWallet(ctx, oc.WalletCollection, wallet); err != nil {
				utils.RespondError(w, err)
				return
			}
		}
	}

	historyEntry := models.StatusHistoryEntry{Status: newStatus, Note: note, CreatedAt: now}
	_, err = oc.OrderCollection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{
		"$set":  update,
		"$push": bson.M{"statusHistory": historyEntry},
	})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	go func(email, name string) {
		if err := oc.EmailService.SendOrderStatusEmail(email, name, orderID.Hex(), newStatus); err != nil {
			log.Printf("Failed to send email to %s: %v", email, err)
		}
	}(customer.Email, customer.Name)

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Order status updated", "status": newStatus})
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// validateTransition checks an admin status change. An order with
// processed returns can no longer be cancelled: its refunds are already
// booked into the customer's wallet, and cancellation would refund the
// checkout wallet usage on top of them.
func validateTransition(order *models.Order, newStatus string) error {
	if !transitionAllowed(order.Status, newStatus) {
		return utils.NewValidationError("cannot transition order from %s to %s", order.Status, newStatus)
	}
	if newStatus == models.OrderStatusCancelled && len(order.Returns) > 0 {
		return utils.NewValidationError("cannot cancel an order with processed returns")
	}
	return nil
}

// saveDeliverySlip stores the uploaded slip under uploads/delivery_slips
func (oc *OrderController) saveDeliverySlip(r *http.Request, orderID primitive.ObjectID) (string, error) {
	file, handler, err := r.FormFile("deliverySlip")
	if err != nil {
		return "", utils.NewValidationError("delivery slip is required to mark an order delivered")
	}
	defer file.Close()

	uploadPath := filepath.Join("uploads", "delivery_slips")
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s_%s", orderID.Hex(), handler.Filename)
	filePath := filepath.Join(uploadPath, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return filePath, nil
}

// UpdateOrderItems lets an admin modify line items before delivery.
// The original lines are preserved on first modification so the order
// can be displayed as "adjusted", which is distinct from "returned".
func (oc *OrderController) UpdateOrderItems(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid order ID"))
		return
	}

	var itemsRequest struct {
		Items []models.OrderItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&itemsRequest); err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}
	if len(itemsRequest.Items) == 0 {
		utils.RespondError(w, utils.NewValidationError("order must keep at least one line item"))
		return
	}
	for _, item := range itemsRequest.Items {
		if item.Quantity < 1 || item.Price < 0 {
			utils.RespondError(w, utils.NewValidationError("line items need a positive quantity and a non-negative price"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = oc.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "order"})
		return
	}
	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		utils.RespondError(w, utils.NewValidationError("cannot modify a %s order", order.Status))
		return
	}

	totalPrice := 0.0
	for _, item := range itemsRequest.Items {
		totalPrice += item.Price * float64(item.Quantity)
	}

	update := bson.M{
		"items":           itemsRequest.Items,
		"totalPrice":      totalPrice,
		"isAdminModified": true,
		"updatedAt":       time.Now(),
	}
	if !order.IsAdminModified {
		update["originalItems"] = order.Items
		update["originalTotalPrice"] = order.TotalPrice
	}

	_, err = oc.OrderCollection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": update})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Order items updated",
		"totalPrice": totalPrice,
	})
}

// ProcessReturn handles an admin-processed return against a delivered
// or shipped order line. The refund value reduces the customer's due
// balance first; any remainder becomes wallet credit.
func (oc *OrderController) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid order ID"))
		return
	}

	var returnRequest struct {
		MedicineID primitive.ObjectID `json:"medicineId"`
		Quantity   int                `json:"quantity"`
		Reason     string             `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&returnRequest); err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = oc.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "order"})
		return
	}
	if order.Status != models.OrderStatusDelivered && order.Status != models.OrderStatusShipped {
		utils.RespondError(w, utils.NewValidationError("returns can only be processed on shipped or delivered orders"))
		return
	}

	item, err := ledger.ValidateReturnQuantity(&order, returnRequest.MedicineID, returnRequest.Quantity)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var customer models.Customer
	err = oc.CustomerCollection.FindOne(ctx, bson.M{"_id": order.CustomerID}).Decode(&customer)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "customer"})
		return
	}

	wallet, err := getOrCreateWallet(ctx, oc.WalletCollection, &customer)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	now := time.Now()
	refundAmount := float64(returnRequest.Quantity) * item.Price
	adjustment := ledger.ApplyReturn(wallet, refundAmount, orderID, now)

	if err := saveWallet(ctx, oc.WalletCollection, wallet); err != nil {
		utils.RespondError(w, err)
		return
	}

	returnEntry := models.ReturnEntry{
		MedicineID:          item.MedicineID,
		Name:                item.Name,
		Quantity:            returnRequest.Quantity,
		Price:               item.Price,
		Reason:              returnRequest.Reason,
		FinancialAdjustment: adjustment,
		CreatedAt:           now,
	}
	_, err = oc.OrderCollection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{
		"$push": bson.M{"returns": returnEntry},
		"$set":  bson.M{"updatedAt": now},
	})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":             "Return processed",
		"refundAmount":        refundAmount,
		"financialAdjustment": adjustment,
		"pendingBalance":      wallet.PendingBalance,
		"walletBalance":       wallet.WalletBalance,
	})
}
