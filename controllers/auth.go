package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/shivanand-vn/SVPharma-sub001/middleware"
	"github.com/shivanand-vn/SVPharma-sub001/models"
	"github.com/shivanand-vn/SVPharma-sub001/utils"
)

// AuthController handles login and profile requests. There is no
// self-registration: accounts are created when an admin approves a
// connection request.
type AuthController struct {
	CustomerCollection *mongo.Collection
}

// NewAuthController creates a new AuthController
func NewAuthController(client *mongo.Client) *AuthController {
	collection := client.Database(utils.DatabaseName).Collection("customers")
	return &AuthController{
		CustomerCollection: collection,
	}
}

// Login authenticates a customer or admin by username or email
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	customer, err := findCustomerByLogin(ctx, ac.CustomerCollection, creds.Username)
	if err != nil {
		utils.RespondError(w, &utils.AuthorizationError{Message: "invalid credentials"})
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(creds.Password))
	if err != nil {
		utils.RespondError(w, &utils.AuthorizationError{Message: "invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(customer.Email, customer.Role)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"name":  customer.Name,
		"role":  customer.Role,
	})
}

func findCustomerByLogin(ctx context.Context, customers *mongo.Collection, login string) (*models.Customer, error) {
	var customer models.Customer
	filter := bson.M{"$or": []bson.M{{"username": login}, {"email": login}}}
	if err := customers.FindOne(ctx, filter).Decode(&customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetProfile retrieves the authenticated caller's profile
func (ac *AuthController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.RespondError(w, &utils.AuthorizationError{Message: "could not parse user from context"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	customer, err := findCustomerByEmail(ctx, ac.CustomerCollection, claims.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	customer.Password = ""
	utils.RespondJSON(w, http.StatusOK, customer)
}
