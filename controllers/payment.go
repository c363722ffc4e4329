// controllers/payment.go
package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
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

// PaymentController handles payment submission, reconciliation and the
// balance query facade
type PaymentController struct {
	PaymentCollection  *mongo.Collection
	CustomerCollection *mongo.Collection
	WalletCollection   *mongo.Collection
	EmailService       *utils.EmailService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(client *mongo.Client, emailService *utils.EmailService) *PaymentController {
	db := client.Database(utils.DatabaseName)
	return &PaymentController{
		PaymentCollection:  db.Collection("payments"),
		CustomerCollection: db.Collection("customers"),
		WalletCollection:   db.Collection("wallets"),
		EmailService:       emailService,
	}
}

// SubmitPayment records a customer's online payment with proof. Nothing
// is applied to the due balance until an admin approves it; the due
// snapshots stored here are informational.
func (pc *PaymentController) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	var paymentRequest struct {
		Amount   float64 `json:"amount"`
		ProofURL string  `json:"proofUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&paymentRequest); err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}
	if paymentRequest.ProofURL == "" {
		utils.RespondError(w, utils.NewValidationError("proofUrl is required for online payments"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	customer, err := findCustomerByEmail(ctx, pc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	wallet, err := getOrCreateWallet(ctx, pc.WalletCollection, customer)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if err := ledger.ValidatePaymentAmount(paymentRequest.Amount, wallet.PendingBalance); err != nil {
		utils.RespondError(w, err)
		return
	}

	now := time.Now()
	payment := models.Payment{
		ID:                 primitive.NewObjectID(),
		CustomerID:         customer.ID,
		Amount:             paymentRequest.Amount,
		OriginalDueAmount:  wallet.PendingBalance,
		RemainingDueAmount: wallet.PendingBalance - paymentRequest.Amount,
		PaymentMethod:      models.PaymentMethodOnline,
		ProofURL:           paymentRequest.ProofURL,
		Status:             models.PaymentStatusPending,
		AuditLogs: []models.PaymentAuditLog{
			{Action: "created", ActorID: customer.ID, ActorRole: customer.Role, CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := pc.PaymentCollection.InsertOne(ctx, payment); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, payment)
}

// SubmitOfflinePayment records an admin-collected cash payment and
// applies it to the customer's due balance immediately.
func (pc *PaymentController) SubmitOfflinePayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	var paymentRequest struct {
		CustomerID primitive.ObjectID `json:"customerId"`
		Amount     float64            `json:"amount"`
		Note       string             `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&paymentRequest); err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := findCustomerByEmail(ctx, pc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var customer models.Customer
	err = pc.CustomerCollection.FindOne(ctx, bson.M{"_id": paymentRequest.CustomerID}).Decode(&customer)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "customer"})
		return
	}

	wallet, err := getOrCreateWallet(ctx, pc.WalletCollection, &customer)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if err := ledger.ValidatePaymentAmount(paymentRequest.Amount, wallet.PendingBalance); err != nil {
		utils.RespondError(w, err)
		return
	}

	now := time.Now()
	originalDue := wallet.PendingBalance
	payment := models.Payment{
		ID:                primitive.NewObjectID(),
		CustomerID:        customer.ID,
		Amount:            paymentRequest.Amount,
		OriginalDueAmount: originalDue,
		PaymentMethod:     models.PaymentMethodCash,
		Status:            models.PaymentStatusApproved,
		AuditLogs: []models.PaymentAuditLog{
			{Action: "created", ActorID: admin.ID, ActorRole: admin.Role, Note: paymentRequest.Note, CreatedAt: now},
			{Action: "approved", ActorID: admin.ID, ActorRole: admin.Role, CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	ledger.ApplyPayment(wallet, paymentRequest.Amount, payment.ID, now)
	payment.RemainingDueAmount = wallet.PendingBalance

	if err := saveWallet(ctx, pc.WalletCollection, wallet); err != nil {
		utils.RespondError(w, err)
		return
	}
	if _, err := pc.PaymentCollection.InsertOne(ctx, payment); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"payment":        payment,
		"pendingBalance": wallet.PendingBalance,
		"walletBalance":  wallet.WalletBalance,
	})
}

// ApprovePayment applies a pending online payment against the
// customer's current due balance (Admin only). Approving an already
// approved or rejected payment is rejected, never reapplied.
func (pc *PaymentController) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	vars := mux.Vars(r)
	paymentID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid payment ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var payment models.Payment
	err = pc.PaymentCollection.FindOne(ctx, bson.M{"_id": paymentID}).Decode(&payment)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "payment"})
		return
	}
	if payment.Status != models.PaymentStatusPending {
		utils.RespondError(w, utils.NewValidationError("payment is already %s", payment.Status))
		return
	}

	admin, err := findCustomerByEmail(ctx, pc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var customer models.Customer
	err = pc.CustomerCollection.FindOne(ctx, bson.M{"_id": payment.CustomerID}).Decode(&customer)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "customer"})
		return
	}

	wallet, err := getOrCreateWallet(ctx, pc.WalletCollection, &customer)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	// Applied against the current due, not the submission-time
	// snapshot, so due changes between submission and approval are
	// never double-counted.
	now := time.Now()
	ledger.ApplyPayment(wallet, payment.Amount, payment.ID, now)

	if err := saveWallet(ctx, pc.WalletCollection, wallet); err != nil {
		utils.RespondError(w, err)
		return
	}

	auditEntry := models.PaymentAuditLog{Action: "approved", ActorID: admin.ID, ActorRole: admin.Role, CreatedAt: now}
	_, err = pc.PaymentCollection.UpdateOne(ctx, bson.M{"_id": paymentID}, bson.M{
		"$set":  bson.M{"status": models.PaymentStatusApproved, "updatedAt": now},
		"$push": bson.M{"auditLogs": auditEntry},
	})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	go func(email, name string, amount float64) {
		if err := pc.EmailService.SendPaymentStatusEmail(email, name, "approved", "", amount); err != nil {
			log.Printf("Failed to send email to %s: %v", email, err)
		}
	}(customer.Email, customer.Name, payment.Amount)

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Payment approved",
		"pendingBalance": wallet.PendingBalance,
		"walletBalance":  wallet.WalletBalance,
	})
}

// RejectPayment marks a pending payment rejected with a reason (Admin
// only); canReupload lets the customer resubmit proof later.
func (pc *PaymentController) RejectPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	vars := mux.Vars(r)
	paymentID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid payment ID"))
		return
	}

	var rejectRequest struct {
		Reason      string `json:"reason"`
		CanReupload bool   `json:"canReupload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&rejectRequest); err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}
	if rejectRequest.Reason == "" {
		utils.RespondError(w, utils.NewValidationError("rejection reason is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var payment models.Payment
	err = pc.PaymentCollection.FindOne(ctx, bson.M{"_id": paymentID}).Decode(&payment)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "payment"})
		return
	}
	if payment.Status != models.PaymentStatusPending {
		utils.RespondError(w, utils.NewValidationError("payment is already %s", payment.Status))
		return
	}

	admin, err := findCustomerByEmail(ctx, pc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	now := time.Now()
	auditEntry := models.PaymentAuditLog{Action: "rejected", ActorID: admin.ID, ActorRole: admin.Role, Note: rejectRequest.Reason, CreatedAt: now}
	_, err = pc.PaymentCollection.UpdateOne(ctx, bson.M{"_id": paymentID}, bson.M{
		"$set": bson.M{
			"status":          models.PaymentStatusRejected,
			"rejectionReason": rejectRequest.Reason,
			"canReupload":     rejectRequest.CanReupload,
			"updatedAt":       now,
		},
		"$push": bson.M{"auditLogs": auditEntry},
	})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var customer models.Customer
	if err := pc.CustomerCollection.FindOne(ctx, bson.M{"_id": payment.CustomerID}).Decode(&customer); err == nil {
		go func(email, name, reason string, amount float64) {
			if err := pc.EmailService.SendPaymentStatusEmail(email, name, "rejected", reason, amount); err != nil {
				log.Printf("Failed to send email to %s: %v", email, err)
			}
		}(customer.Email, customer.Name, rejectRequest.Reason, payment.Amount)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Payment rejected"})
}

// ReuploadProof lets a customer resubmit proof on a rejected payment
// that was flagged reuploadable; the payment goes back to pending and
// the rejection fields are cleared.
func (pc *PaymentController) ReuploadProof(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	vars := mux.Vars(r)
	paymentID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid payment ID"))
		return
	}

	var reuploadRequest struct {
		ProofURL string `json:"proofUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reuploadRequest); err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}
	if reuploadRequest.ProofURL == "" {
		utils.RespondError(w, utils.NewValidationError("proofUrl is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	customer, err := findCustomerByEmail(ctx, pc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var payment models.Payment
	err = pc.PaymentCollection.FindOne(ctx, bson.M{"_id": paymentID, "customerId": customer.ID}).Decode(&payment)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "payment"})
		return
	}
	if payment.Status != models.PaymentStatusRejected || !payment.CanReupload {
		utils.RespondError(w, utils.NewValidationError("payment is not open for proof reupload"))
		return
	}

	now := time.Now()
	auditEntry := models.PaymentAuditLog{Action: "reuploaded", ActorID: customer.ID, ActorRole: customer.Role, CreatedAt: now}
	_, err = pc.PaymentCollection.UpdateOne(ctx, bson.M{"_id": paymentID}, bson.M{
		"$set": bson.M{
			"status":          models.PaymentStatusPending,
			"proofUrl":        reuploadRequest.ProofURL,
			"rejectionReason": "",
			"canReupload":     false,
			"updatedAt":       now,
		},
		"$push": bson.M{"auditLogs": auditEntry},
	})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Proof reuploaded, payment pending review"})
}

// GetWallet is the balance query facade used by the shopping layout
// header and payment modals
func (pc *PaymentController) GetWallet(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	customer, err := findCustomerByEmail(ctx, pc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	wallet, err := getOrCreateWallet(ctx, pc.WalletCollection, customer)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]float64{
		"pendingBalance": wallet.PendingBalance,
		"walletBalance":  wallet.WalletBalance,
	})
}

// GetMyPayments lists the authenticated customer's payments
func (pc *PaymentController) GetMyPayments(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	customer, err := findCustomerByEmail(ctx, pc.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	pc.respondPayments(ctx, w, bson.M{"customerId": customer.ID})
}

// GetPayments lists payments, optionally filtered by status or
// customer (Admin only)
func (pc *PaymentController) GetPayments(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if customerID := r.URL.Query().Get("customerId"); customerID != "" {
		id, err := primitive.ObjectIDFromHex(customerID)
		if err != nil {
			utils.RespondError(w, utils.NewValidationError("invalid customer ID"))
			return
		}
		filter["customerId"] = id
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pc.respondPayments(ctx, w, filter)
}

func (pc *PaymentController) respondPayments(ctx context.Context, w http.ResponseWriter, filter bson.M) {
	cursor, err := pc.PaymentCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	for cursor.Next(ctx) {
		var payment models.Payment
		if err := cursor.Decode(&payment); err != nil {
			utils.RespondError(w, err)
			return
		}
		payments = append(payments, payment)
	}
	if err := cursor.Err(); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, payments)
}
