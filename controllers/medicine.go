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

	"github.com/shivanand-vn/SVPharma-sub001/models"
	"github.com/shivanand-vn/SVPharma-sub001/utils"
)

// MedicineController handles catalog and inventory requests
type MedicineController struct {
	Collection *mongo.Collection
}

// NewMedicineController creates a new MedicineController
func NewMedicineController(client *mongo.Client) *MedicineController {
	collection := client.Database(utils.DatabaseName).Collection("medicines")
	return &MedicineController{
		Collection: collection,
	}
}

// CreateMedicine handles adding a new medicine (Admin only)
func (mc *MedicineController) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	var medicine models.Medicine
	err := json.NewDecoder(r.Body).Decode(&medicine)
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}
	if medicine.Name == "" || medicine.Price <= 0 {
		utils.RespondError(w, utils.NewValidationError("medicine name and a positive price are required"))
		return
	}
	if medicine.Stock < 0 {
		utils.RespondError(w, utils.NewValidationError("stock cannot be negative"))
		return
	}
	medicine.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := mc.Collection.InsertOne(ctx, medicine)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	medicine.ID = result.InsertedID.(primitive.ObjectID)
	utils.RespondJSON(w, http.StatusCreated, medicine)
}

// GetMedicines retrieves the catalog, optionally filtered by search
// text or category
func (mc *MedicineController) GetMedicines(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := mc.Collection.Find(ctx, filter)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	defer cursor.Close(ctx)

	medicines := []models.Medicine{}
	for cursor.Next(ctx) {
		var medicine models.Medicine
		if err := cursor.Decode(&medicine); err != nil {
			utils.RespondError(w, err)
			return
		}
		medicines = append(medicines, medicine)
	}
	if err := cursor.Err(); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, medicines)
}

// GetMedicineByID retrieves a single medicine by ID
func (mc *MedicineController) GetMedicineByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid medicine ID"))
		return
	}

	var medicine models.Medicine
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = mc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&medicine)
	if err != nil {
		utils.RespondError(w, &utils.NotFoundError{Resource: "medicine"})
		return
	}

	utils.RespondJSON(w, http.StatusOK, medicine)
}

// UpdateMedicine handles updating a medicine (Admin only)
func (mc *MedicineController) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid medicine ID"))
		return
	}

	var medicine models.Medicine
	err = json.NewDecoder(r.Body).Decode(&medicine)
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid request body"))
		return
	}
	medicine.ID = id

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := mc.Collection.ReplaceOne(ctx, bson.M{"_id": id}, medicine)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondError(w, &utils.NotFoundError{Resource: "medicine"})
		return
	}

	utils.RespondJSON(w, http.StatusOK, medicine)
}

// DeleteMedicine handles deleting a medicine (Admin only)
func (mc *MedicineController) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.RespondError(w, utils.NewValidationError("invalid medicine ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := mc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondError(w, &utils.NotFoundError{Resource: "medicine"})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Medicine deleted"})
}
