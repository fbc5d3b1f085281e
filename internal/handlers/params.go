package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/utils"
)

// pathUUID parses a UUID route parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid "+name, name+" must be UUID")
		return uuid.Nil, false
	}
	return id, true
}

// requester returns the authenticated user, writing a 401 when absent.
func requester(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
	}
	return id, ok
}
