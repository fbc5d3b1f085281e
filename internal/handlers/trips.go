package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/dto"
	"GO2GETHER_BUDGET/internal/models"
	"GO2GETHER_BUDGET/internal/services"
	"GO2GETHER_BUDGET/internal/utils"
)

// TripRoster is the trip and membership service the handlers call into.
type TripRoster interface {
	CreateTrip(ctx context.Context, requester uuid.UUID, in services.TripInput) (models.Trip, error)
	GetTrip(ctx context.Context, tripID, requester uuid.UUID) (models.Trip, []models.Membership, error)
	JoinTrip(ctx context.Context, tripID, requester uuid.UUID) (models.Membership, error)
	LeaveTrip(ctx context.Context, tripID, requester uuid.UUID) error
}

// TripsHandler manages trip-related endpoints
type TripsHandler struct {
	trips TripRoster
}

// NewTripsHandler creates a new TripsHandler
func NewTripsHandler(trips TripRoster) *TripsHandler {
	return &TripsHandler{trips: trips}
}

func tripResponse(t models.Trip) dto.TripResponse {
	return dto.TripResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		MaxMembers:  t.MaxMembers,
		Currency:    t.Currency,
		CreatorID:   t.CreatorID.String(),
		CreatedAt:   utils.FormatTimestamp(t.CreatedAt),
		UpdatedAt:   utils.FormatTimestamp(t.UpdatedAt),
	}
}

func tripMember(m models.Membership) dto.TripMember {
	return dto.TripMember{
		UserID:   m.UserID.String(),
		Role:     string(m.Role),
		IsActive: m.IsActive,
		JoinedAt: utils.FormatTimestamp(m.JoinedAt),
	}
}

// CreateTrip handles POST /trips
// @Summary Create a new trip
// @Description The creator joins as the trip's admin.
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTripRequest true "Trip payload"
// @Success 201 {object} dto.CreateTripResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trips [post]
func (h *TripsHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}

	var req dto.CreateTripRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	trip, err := h.trips.CreateTrip(r.Context(), userID, services.TripInput{
		Name:        req.Name,
		Description: req.Description,
		MaxMembers:  req.MaxMembers,
		Currency:    req.Currency,
	})
	if err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, dto.CreateTripResponse{Trip: tripResponse(trip)})
}

// TripDetail handles GET /trips/{tripId}
// @Summary Get trip detail with its active members
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param tripId path string true "Trip ID"
// @Success 200 {object} dto.TripDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trips/{tripId} [get]
func (h *TripsHandler) TripDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	trip, members, err := h.trips.GetTrip(r.Context(), tripID, userID)
	if err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}

	resp := dto.TripDetailResponse{
		Trip:    tripResponse(trip),
		Members: make([]dto.TripMember, 0, len(members)),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, tripMember(m))
		if m.UserID == userID && m.IsAdmin() {
			resp.Permissions.CanManageBudget = true
		}
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// JoinTrip handles POST /trips/{tripId}/members
// @Summary Join a trip as a guest
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param tripId path string true "Trip ID"
// @Success 200 {object} dto.MembershipResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trips/{tripId}/members [post]
func (h *TripsHandler) JoinTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	m, err := h.trips.JoinTrip(r.Context(), tripID, userID)
	if err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MembershipResponse{Member: tripMember(m)})
}

// LeaveTrip handles DELETE /trips/{tripId}/members/me
// @Summary Leave a trip
// @Description Existing splits keep referencing the member; new items are no longer split with them.
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param tripId path string true "Trip ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trips/{tripId}/members/me [delete]
func (h *TripsHandler) LeaveTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	if err := h.trips.LeaveTrip(r.Context(), tripID, userID); err != nil {
		utils.WriteLedgerError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Left trip successfully"})
}
