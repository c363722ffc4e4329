// controllers/connection.go
package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/shivanand-vn/SVPharma-sub001/middleware"
	"github.com/shivanand-vn/SVPharma-sub001/models"
	"github.com/shivanand-vn/SVPharma-sub001/otp"
	"github.com/shivanand-vn/SVPharma-sub001/utils"
)

// ConnectionController handles connection-request onboarding and the
// OTP-verified customer delete
type ConnectionController struct {
	ConnectionCollection *mongo.Collection
	CustomerCollection   *mongo.Collection
	WalletCollection     *mongo.Collection
	EmailService         *utils.EmailService
	OTPStore             otp.Store
}

// NewConnectionController creates a new ConnectionController
func NewConnectionController(client *mongo.Client, emailService *utils.EmailService, otpStore otp.Store) *ConnectionController {
	db := client.Database(utils.DatabaseName)
	return &ConnectionController{
		ConnectionCollection: db.Collection("connection_requests"),
		CustomerCollection:   db.Collection("customers"),
		WalletCollection:     db.Collection("wallets"),
		EmailService:         emailService,
		OTPStore:             otpStore,
	}
}

// Apply files a new connection request (public)
func (cc *ConnectionController) Apply(w http.ResponseWriter, r *http.Request) {
	var request models.ConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}
	if request.Name == "" || request.Email == "" || request.PharmacyName == "" || request.DrugLicenseNo == "" {
		utils.RespondError(w, utils.NewValidationError("name, email, pharmacyName and drugLicenseNo are required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// One pending request per email
	count, err := cc.ConnectionCollection.CountDocuments(ctx, bson.M{
		"email":  request.Email,
		"status": models.ConnectionStatusPending,
	})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if count > 0 {
		utils.RespondError(w, utils.NewValidationError("a connection request for this email is already pending"))
		return
	}

	request.ID = primitive.NewObjectID()
	request.Status = models.ConnectionStatusPending
	request.CreatedAt = time.Now()
	request.CustomerID = primitive.NilObjectID
	request.ProcessedAt = nil

	if _, err := cc.ConnectionCollection.InsertOne(ctx, request); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": "Connection request submitted. You will receive credentials by email once approved.",
		"id":      request.ID.Hex(),
	})
}

// List retrieves connection requests, optionally by status (Admin only)
func (cc *ConnectionController) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := cc.ConnectionCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	defer cursor.Close(ctx)

	requests := []models.ConnectionRequest{}
	for cursor.Next(ctx) {
		var request models.ConnectionRequest
		if err := cursor.Decode(&request); err != nil {
			utils.RespondError(w, err)
			return
		}
		requests = append(requests, request)
	}
	if err := cursor.Err(); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, requests)
}

// Approve turns a pending connection request into a customer account
// with an empty wallet, and emails the generated credentials (Admin only)
func (cc *ConnectionController) Approve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid connection request ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var request models.ConnectionRequest
	err = cc.ConnectionCollection.FindOne(ctx, bson.M{"_id": requestID}).Decode(&request)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "connection request"})
		return
	}
	if request.Status != models.ConnectionStatusPending {
		utils.RespondError(w, utils.NewValidationError("connection request is already %s", request.Status))
		return
	}

	password, err := generatePassword()
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	now := time.Now()
	customer := models.Customer{
		ID:           primitive.NewObjectID(),
		Name:         request.Name,
		Email:        request.Email,
		Username:     usernameFromEmail(request.Email),
		Password:     string(hashedPassword),
		Phone:        request.Phone,
		PharmacyName: request.PharmacyName,
		Address:      request.Address,
		Role:         models.RoleCustomer,
		CreatedAt:    now,
	}

	if _, err := cc.CustomerCollection.InsertOne(ctx, customer); err != nil {
		utils.RespondError(w, err)
		return
	}

	wallet := models.Wallet{
		CustomerID:    customer.ID,
		WalletHistory: []models.WalletHistoryEntry{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := cc.WalletCollection.InsertOne(ctx, wallet); err != nil {
		utils.RespondError(w, err)
		return
	}

	_, err = cc.ConnectionCollection.UpdateOne(ctx, bson.M{"_id": requestID}, bson.M{
		"$set": bson.M{
			"status":      models.ConnectionStatusApproved,
			"customerId":  customer.ID,
			"processedAt": now,
		},
	})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	go func(email, name, username, password string) {
		if err := cc.EmailService.SendCredentialsEmail(email, name, username, password); err != nil {
			log.Printf("Failed to send email to %s: %v", email, err)
		}
	}(customer.Email, customer.Name, customer.Username, password)

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message":    "Connection request approved",
		"customerId": customer.ID.Hex(),
	})
}

// Reject marks a pending connection request rejected (Admin only)
func (cc *ConnectionController) Reject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid connection request ID"))
		return
	}

	var rejectRequest struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&rejectRequest); err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	result, err := cc.ConnectionCollection.UpdateOne(ctx,
		bson.M{"_id": requestID, "status": models.ConnectionStatusPending},
		bson.M{"$set": bson.M{
			"status":      models.ConnectionStatusRejected,
			"adminNote":   rejectRequest.Note,
			"processedAt": now,
		}},
	)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondError(w, &utils.NotFoundError{Resource: "pending connection request"})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Connection request rejected"})
}

// RequestDeleteOTP emails the admin a one-time code authorising a
// customer delete (Admin only)
func (cc *ConnectionController) RequestDeleteOTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	code, err := otp.GenerateCode()
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cc.OTPStore.Set(ctx, otp.Key("customer_delete", claims.Email), code, otp.DefaultTTL); err != nil {
		utils.RespondError(w, err)
		return
	}

	if err := cc.EmailService.SendOTPEmail(claims.Email, code); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Verification code sent"})
}

// DeleteCustomer hard-deletes a customer after verifying the one-time
// code (Admin only). The customer's wallet and cart go with it; orders
// and payments are kept for the books.
func (cc *ConnectionController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "unauthorized"})
		return
	}

	vars := mux.Vars(r)
	customerID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid customer ID"))
		return
	}

	var deleteRequest struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&deleteRequest); err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}
	if deleteRequest.Code == "" {
		utils.RespondError(w, utils.NewValidationError("verification code is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	valid, err := cc.OTPStore.Consume(ctx, otp.Key("customer_delete", claims.Email), deleteRequest.Code)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if !valid {
		utils.RespondError(w, utils.NewValidationError("verification code is invalid or expired"))
		return
	}

	result, err := cc.CustomerCollection.DeleteOne(ctx, bson.M{"_id": customerID, "role": models.RoleCustomer})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondError(w, &utils.NotFoundError{Resource: "customer"})
		return
	}

	db := cc.CustomerCollection.Database()
	if _, err := cc.WalletCollection.DeleteOne(ctx, bson.M{"customerId": customerID}); err != nil {
		log.Printf("Failed to delete wallet for customer %s: %v", customerID.Hex(), err)
	}
	if _, err := db.Collection("carts").DeleteOne(ctx, bson.M{"customerId": customerID}); err != nil {
		log.Printf("Failed to delete cart for customer %s: %v", customerID.Hex(), err)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted"})
}

// generatePassword returns a random 16-hex-character initial password
func generatePassword() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// usernameFromEmail derives the initial username from the local part of
// the applicant's email
func usernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return strings.ToLower(email[:i])
	}
	return strings.ToLower(email)
}
