package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func respond(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	RespondError(rec, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestRespondErrorValidation(t *testing.T) {
	status, body := respond(t, NewValidationError("payment amount must be at least 1"))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "payment amount must be at least 1", body.Message)
	require.Empty(t, body.Stack)
}

func TestRespondErrorNotFound(t *testing.T) {
	status, body := respond(t, &NotFoundError{Resource: "payment"})
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "payment not found", body.Message)
}

func TestRespondErrorAuthorization(t *testing.T) {
	status, _ := respond(t, &AuthorizationError{Message: "invalid token"})
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestRespondErrorDuplicateKey(t *testing.T) {
	status, body := respond(t, &DuplicateKeyError{Field: "email"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "email already exists", body.Message)
}

func TestRespondErrorTranslatesMongoDuplicate(t *testing.T) {
	mongoErr := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: `E11000 duplicate key error collection: svpharma.customers index: email_1 dup key: { email: "asha@citypharmacy.in" }`,
		}},
	}

	status, body := respond(t, mongoErr)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "email already exists", body.Message)
}

func TestRespondErrorMongoDuplicateUnknownIndex(t *testing.T) {
	mongoErr := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: `E11000 duplicate key error collection: svpharma.medicines index: batchNo_1`,
		}},
	}

	status, body := respond(t, mongoErr)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "value already exists", body.Message)
}

func TestRespondErrorUnhandled(t *testing.T) {
	t.Setenv("GO_ENV", "development")
	status, body := respond(t, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "boom", body.Message)
	// Outside production the body carries a stack trace.
	require.NotEmpty(t, body.Stack)
}

func TestRespondErrorHidesStackInProduction(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	status, body := respond(t, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Empty(t, body.Stack)
}
