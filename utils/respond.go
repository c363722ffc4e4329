package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrorResponse is the JSON body for every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RespondError maps an error to its HTTP status and writes the JSON
// error body. Mongo duplicate-key errors surface as "<field> already
// exists"; anything unrecognised is a 500, with a stack trace outside
// production.
func RespondError(w http.ResponseWriter, err error) {
	if mongo.IsDuplicateKeyError(err) {
		err = &DuplicateKeyError{Field: duplicateKeyField(err)}
	}

	status := http.StatusInternalServerError
	message := err.Error()

	var (
		ve *ValidationError
		nf *NotFoundError
		ae *AuthorizationError
		de *DuplicateKeyError
	)
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &nf):
		status = http.StatusNotFound
	case errors.As(err, &ae):
		status = http.StatusUnauthorized
	case errors.As(err, &de):
		status = http.StatusBadRequest
	}

	resp := ErrorResponse{Message: message}
	if status == http.StatusInternalServerError && os.Getenv("GO_ENV") != "production" {
		resp.Stack = string(debug.Stack())
	}
	RespondJSON(w, status, resp)
}

// duplicateKeyField extracts the offending index field from a Mongo
// duplicate-key error, falling back to "value" when the index name is
// not one the data model declares.
func duplicateKeyField(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, writeErr := range we.WriteErrors {
			if writeErr.Code != 11000 {
				continue
			}
			for _, field := range []string{"email", "username", "customerId"} {
				if strings.Contains(writeErr.Message, field) {
					return field
				}
			}
		}
	}
	return "value"
}
