package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"GO2GETHER_BUDGET/internal/dto"
	"GO2GETHER_BUDGET/internal/ledger"
)

// maxBodyBytes caps request bodies read by DecodeJSONRequest.
const maxBodyBytes = 1 << 20

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("write json response: %v", err)
	}
}

// WriteErrorResponse writes a dto.ErrorResponse
func WriteErrorResponse(w http.ResponseWriter, status int, errTitle, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errTitle, Message: message})
}

// DecodeJSONRequest decodes the request body into dst. On failure it writes a
// 400 response and returns the error; the caller just returns.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		err := errors.New("request body is required")
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request", err.Error())
		return err
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is required")
		}
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("invalid JSON: %v", err))
		return err
	}
	return nil
}

// WriteLedgerError maps the ledger error taxonomy onto HTTP statuses.
// Upstream and unknown errors are logged and answered with a generic 500.
func WriteLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ledger.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteJSONResponse(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation error",
			Message: ve.Error(),
			Fields:  ve.Fields,
		})
	case errors.Is(err, ledger.ErrNoMembers):
		WriteErrorResponse(w, http.StatusBadRequest, "Validation error", err.Error())
	case errors.Is(err, ledger.ErrUnauthenticated):
		WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
	case errors.Is(err, ledger.ErrNotAuthorized):
		// Same answer as a missing trip so membership does not leak existence.
		WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Trip not found")
	case errors.Is(err, ledger.ErrForbidden):
		WriteErrorResponse(w, http.StatusForbidden, "Forbidden", "Only the item creator or a trip admin can modify this item")
	case errors.Is(err, ledger.ErrNotFound):
		WriteErrorResponse(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ledger.ErrTripFull):
		WriteErrorResponse(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Internal error", "The request could not be completed")
	}
}
